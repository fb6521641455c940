package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"taiyaku/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFontRejectsMissingAndInvalid(t *testing.T) {
	if result := CheckFont(filepath.Join(t.TempDir(), "missing.ttf")); result.Passed {
		t.Fatal("expected missing font to fail")
	}
	bogus := filepath.Join(t.TempDir(), "bogus.ttf")
	if err := os.WriteFile(bogus, []byte("not a font"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckFont(bogus); result.Passed {
		t.Fatal("expected invalid font to fail")
	}
}

func TestCheckNATSUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if result := CheckNATS(ctx, "nats://127.0.0.1:1"); result.Passed {
		t.Fatal("expected unreachable NATS to fail")
	}
}

func TestRunAllGatesChecksOnConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	results := RunAll(context.Background(), cfg)
	names := map[string]Result{}
	for _, r := range results {
		names[r.Name] = r
	}
	if !names["Data directory"].Passed {
		t.Fatalf("expected data directory to pass: %+v", names["Data directory"])
	}
	if _, ok := names["PDF font"]; ok {
		t.Fatal("font check should be skipped when no font is configured")
	}
	if _, ok := names["NATS"]; ok {
		t.Fatal("NATS check should be skipped when NATS is disabled")
	}
	// The export directory is configured but not created yet.
	if r, ok := names["Export directory"]; !ok || r.Passed {
		t.Fatalf("expected failing export directory check, got %+v", r)
	}
	if len(Failed(results)) != 1 {
		t.Fatalf("expected exactly one failure, got %+v", Failed(results))
	}

	cfg.Export.PDFFont = filepath.Join(t.TempDir(), "none.ttf")
	cfg.NATS.Enabled = true
	cfg.NATS.URL = "nats://127.0.0.1:1"
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	results = RunAll(ctx, cfg)
	if len(Failed(results)) != 3 {
		t.Fatalf("expected export dir, font, and NATS to fail, got %+v", Failed(results))
	}
}
