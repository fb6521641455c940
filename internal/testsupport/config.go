package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"taiyaku/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The socket lives in a short temp dir because unix socket paths are capped
// at ~108 bytes and t.TempDir paths can exceed that.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	sockDir, err := os.MkdirTemp("", "ty")
	if err != nil {
		t.Fatalf("socket temp dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(sockDir) })

	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.SocketPath = filepath.Join(sockDir, "t.sock")
	cfgVal.Export.DefaultDir = filepath.Join(base, "exports")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return builder.cfg
}

// WithGeneration sets the configured schema generation.
func WithGeneration(gen string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Storage.Generation = gen
	}
}

// WithAPI enables the HTTP API on an ephemeral port with the given token.
func WithAPI(token string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.Bind = "127.0.0.1:0"
		b.cfg.API.Token = token
	}
}

// WithEmbeddedNATS enables the NATS transport on an embedded server with a
// random port.
func WithEmbeddedNATS() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.NATS.Enabled = true
		b.cfg.NATS.Embedded = true
		b.cfg.NATS.EmbeddedPort = -1
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
