package preflight

import (
	"context"
	"path/filepath"

	"taiyaku/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Data directory (always checked)
	results = append(results, CheckDirectoryAccess("Data directory", cfg.Paths.DataDir))
	results = append(results, CheckDirectoryAccess("Socket directory", filepath.Dir(cfg.Paths.SocketPath)))

	if cfg.Storage.Driver == config.DriverPostgres {
		results = append(results, CheckPostgres(ctx, cfg.Storage.DSN))
	}

	if cfg.Export.DefaultDir != "" {
		results = append(results, CheckDirectoryAccess("Export directory", cfg.Export.DefaultDir))
	}

	if cfg.Export.PDFFont != "" {
		results = append(results, CheckFont(cfg.Export.PDFFont))
	}

	// An embedded server is started by the daemon itself.
	if cfg.NATS.Enabled && !cfg.NATS.Embedded {
		results = append(results, CheckNATS(ctx, cfg.NATS.URL))
	}

	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
