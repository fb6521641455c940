package config

const (
	defaultDataDir            = "~/.local/share/taiyaku"
	defaultSocketName         = "taiyaku.sock"
	defaultDriver             = DriverSQLite
	defaultDatabaseFile       = "scripts.db"
	defaultGeneration         = "auto"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogMaxSizeMB       = 10
	defaultLogMaxBackups      = 3
	defaultLogMaxAgeDays      = 28
	defaultNATSSubjectPrefix  = "taiyaku"
	defaultNATSURL            = "nats://127.0.0.1:4222"
	defaultNATSEmbeddedPort   = 4222
	defaultNATSRequestTimeout = 5
	defaultConfigPath         = "~/.config/taiyaku/config.toml"
	defaultProjectConfigFile  = "taiyaku.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Storage: Storage{
			Driver:       defaultDriver,
			DatabaseFile: defaultDatabaseFile,
			Generation:   defaultGeneration,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
			Compress:   true,
		},
		NATS: NATS{
			URL:                   defaultNATSURL,
			SubjectPrefix:         defaultNATSSubjectPrefix,
			EmbeddedPort:          defaultNATSEmbeddedPort,
			RequestTimeoutSeconds: defaultNATSRequestTimeout,
		},
	}
}
