package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return c.validateNATS()
}

func (c *Config) validateStorage() error {
	switch c.Storage.Driver {
	case DriverSQLite:
		if strings.ContainsAny(c.Storage.DatabaseFile, `/\`) {
			return errors.New("storage.database_file must be a file name inside paths.data_dir")
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required when storage.driver is postgres (or set TAIYAKU_STORAGE_DSN)")
		}
	default:
		return fmt.Errorf("storage.driver: unsupported value %q (want sqlite or postgres)", c.Storage.Driver)
	}
	switch c.Storage.Generation {
	case "auto", "titled", "untitled":
	default:
		return fmt.Errorf("storage.generation: unsupported value %q (want auto, titled, or untitled)", c.Storage.Generation)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if c.Logging.MaxBackups < 0 {
		return errors.New("logging.max_backups must be >= 0")
	}
	if c.Logging.MaxAgeDays < 0 {
		return errors.New("logging.max_age_days must be >= 0")
	}
	return nil
}

func (c *Config) validateNATS() error {
	if !c.NATS.Enabled {
		return nil
	}
	if c.NATS.SubjectPrefix == "" {
		return errors.New("nats.subject_prefix is required when nats is enabled")
	}
	if strings.ContainsAny(c.NATS.SubjectPrefix, " *>") {
		return fmt.Errorf("nats.subject_prefix %q must not contain spaces or wildcards", c.NATS.SubjectPrefix)
	}
	if c.NATS.Embedded {
		if c.NATS.EmbeddedPort < -1 || c.NATS.EmbeddedPort > 65535 {
			return errors.New("nats.embedded_port must be between -1 and 65535")
		}
		return nil
	}
	if c.NATS.URL == "" {
		return errors.New("nats.url is required when nats is enabled without an embedded server")
	}
	return nil
}
