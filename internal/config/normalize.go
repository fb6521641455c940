package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeStorage()
	c.normalizeLogging()
	c.normalizeAPI()
	c.normalizeNATS()
	return c.normalizeExport()
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.SocketPath) == "" {
		c.Paths.SocketPath = filepath.Join(c.Paths.DataDir, defaultSocketName)
	}
	if c.Paths.SocketPath, err = expandPath(c.Paths.SocketPath); err != nil {
		return fmt.Errorf("paths.socket_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeStorage() {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))
	if c.Storage.Driver == "" {
		c.Storage.Driver = defaultDriver
	}
	if value, ok := os.LookupEnv("TAIYAKU_STORAGE_DSN"); ok && strings.TrimSpace(value) != "" {
		c.Storage.DSN = strings.TrimSpace(value)
	}
	c.Storage.DatabaseFile = strings.TrimSpace(c.Storage.DatabaseFile)
	if c.Storage.DatabaseFile == "" {
		c.Storage.DatabaseFile = defaultDatabaseFile
	}
	c.Storage.Generation = strings.ToLower(strings.TrimSpace(c.Storage.Generation))
	if c.Storage.Generation == "" {
		c.Storage.Generation = defaultGeneration
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if value, ok := os.LookupEnv("TAIYAKU_API_TOKEN"); ok && strings.TrimSpace(value) != "" {
		c.API.Token = strings.TrimSpace(value)
	}
	c.API.Token = strings.TrimSpace(c.API.Token)
}

func (c *Config) normalizeNATS() {
	c.NATS.URL = strings.TrimSpace(c.NATS.URL)
	c.NATS.SubjectPrefix = strings.Trim(strings.TrimSpace(c.NATS.SubjectPrefix), ".")
	if c.NATS.SubjectPrefix == "" {
		c.NATS.SubjectPrefix = defaultNATSSubjectPrefix
	}
	if c.NATS.RequestTimeoutSeconds <= 0 {
		c.NATS.RequestTimeoutSeconds = defaultNATSRequestTimeout
	}
}

func (c *Config) normalizeExport() error {
	var err error
	if c.Export.DefaultDir, err = expandPath(strings.TrimSpace(c.Export.DefaultDir)); err != nil {
		return fmt.Errorf("export.default_dir: %w", err)
	}
	if c.Export.PDFFont, err = expandPath(strings.TrimSpace(c.Export.PDFFont)); err != nil {
		return fmt.Errorf("export.pdf_font: %w", err)
	}
	return nil
}
