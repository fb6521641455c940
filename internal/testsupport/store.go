package testsupport

import (
	"context"
	"testing"

	"taiyaku/internal/config"
	"taiyaku/internal/logging"
	"taiyaku/internal/scripts"
	"taiyaku/internal/store"
)

// MustOpenEngine opens the configured storage engine and registers cleanup.
func MustOpenEngine(t testing.TB, cfg *config.Config) *store.Engine {
	t.Helper()

	engine, err := store.Open(context.Background(), store.Options{
		Driver: cfg.Storage.Driver,
		Path:   cfg.DatabasePath(),
		DSN:    cfg.Storage.DSN,
	})
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = engine.Close()
	})
	return engine
}

// MustOpenRepository opens a scripts.Repository for tests.
func MustOpenRepository(t testing.TB, cfg *config.Config) *scripts.Repository {
	t.Helper()

	gen, err := scripts.ParseGeneration(cfg.Storage.Generation)
	if err != nil {
		t.Fatalf("ParseGeneration: %v", err)
	}
	repo, err := scripts.Open(context.Background(), MustOpenEngine(t, cfg), gen, logging.NewNop())
	if err != nil {
		t.Fatalf("scripts.Open: %v", err)
	}
	return repo
}

// MustCreate stores a script and returns its id. An empty title is omitted.
func MustCreate(t testing.TB, repo *scripts.Repository, title, english, japanese string) int64 {
	t.Helper()

	fields := scripts.Fields{EnglishText: &english, JapaneseText: &japanese}
	if title != "" {
		fields.Title = &title
	}
	id, err := repo.Create(context.Background(), fields)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return id
}
