package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandRejectsInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taiyaku.toml")
	if err := os.WriteFile(path, []byte("[storage]\ndriver = \"mysql\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cmd := newRootCommand()
	cmd.SetArgs([]string{"--config", path})
	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected invalid config to fail")
	}
	if !strings.Contains(err.Error(), "load config") || !strings.Contains(err.Error(), "storage.driver") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRootCommandRejectsArguments(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetArgs([]string{"extra"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected positional arguments to be rejected")
	}
}
