package scripts_test

import (
	"context"
	"errors"
	"testing"

	"taiyaku/internal/logging"
	"taiyaku/internal/scripts"
	"taiyaku/internal/testsupport"
)

func TestOpenCreatesTitledTableByDefault(t *testing.T) {
	repo := testsupport.MustOpenRepository(t, testsupport.NewConfig(t))
	if repo.Generation() != scripts.GenerationTitled {
		t.Fatalf("expected titled generation, got %q", repo.Generation())
	}
}

func TestOpenCreatesUntitledTableOnRequest(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithGeneration("untitled"))
	repo := testsupport.MustOpenRepository(t, cfg)
	ctx := context.Background()

	if repo.Generation() != scripts.GenerationUntitled {
		t.Fatalf("expected untitled generation, got %q", repo.Generation())
	}
	id := testsupport.MustCreate(t, repo, "", "Hi", "やあ")
	got, err := repo.Get(ctx, id)
	if err != nil || got == nil {
		t.Fatalf("Get: %v %v", got, err)
	}
	if got.Title != nil {
		t.Fatalf("untitled scripts must not carry a title, got %q", *got.Title)
	}

	_, err = repo.Create(ctx, scripts.Fields{
		Title:        scripts.StringPtr("nope"),
		EnglishText:  scripts.StringPtr("a"),
		JapaneseText: scripts.StringPtr("b"),
	})
	if !errors.Is(err, scripts.ErrValidation) {
		t.Fatalf("expected validation error for title on untitled store, got %v", err)
	}
	if _, err := repo.Search(ctx, scripts.Query{Term: "Hi", Scope: scripts.ScopeTitle}); !errors.Is(err, scripts.ErrValidation) {
		t.Fatalf("expected title scope to be rejected, got %v", err)
	}
	found, err := repo.Search(ctx, scripts.Query{Term: "やあ"})
	if err != nil || len(found) != 1 {
		t.Fatalf("expected one match in untitled store, got %v err=%v", found, err)
	}
}

func TestOpenDetectsLegacyTables(t *testing.T) {
	cases := []struct {
		name string
		ddl  string
		seed string
		want scripts.Generation
	}{
		{
			name: "titled",
			ddl:  "CREATE TABLE scripts (id INTEGER PRIMARY KEY AUTOINCREMENT, title TEXT NOT NULL, english_text TEXT, japanese_text TEXT)",
			seed: "INSERT INTO scripts (title, english_text) VALUES ('t', 'only english')",
			want: scripts.GenerationTitled,
		},
		{
			name: "untitled",
			ddl:  "CREATE TABLE scripts (id INTEGER PRIMARY KEY AUTOINCREMENT, english_text TEXT, japanese_text TEXT)",
			seed: "INSERT INTO scripts (english_text) VALUES ('only english')",
			want: scripts.GenerationUntitled,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testsupport.NewConfig(t)
			engine := testsupport.MustOpenEngine(t, cfg)
			ctx := context.Background()
			if _, err := engine.Execute(ctx, tc.ddl); err != nil {
				t.Fatalf("create legacy table: %v", err)
			}
			if _, err := engine.Execute(ctx, tc.seed); err != nil {
				t.Fatalf("seed legacy row: %v", err)
			}

			repo, err := scripts.Open(ctx, engine, scripts.GenerationAuto, logging.NewNop())
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			if repo.Generation() != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, repo.Generation())
			}
			all, err := repo.GetAll(ctx)
			if err != nil {
				t.Fatalf("GetAll: %v", err)
			}
			if len(all) != 1 {
				t.Fatalf("expected seeded row, got %d", len(all))
			}
			for _, s := range all {
				if s.EnglishText != "only english" || s.JapaneseText != "" {
					t.Fatalf("expected NULL japanese_text to read as empty, got %+v", s)
				}
			}
		})
	}
}

func TestOpenRejectsGenerationMismatch(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithGeneration("untitled"))
	engine := testsupport.MustOpenEngine(t, cfg)
	ctx := context.Background()

	if _, err := scripts.Open(ctx, engine, scripts.GenerationUntitled, logging.NewNop()); err != nil {
		t.Fatalf("initial Open: %v", err)
	}
	_, err := scripts.Open(ctx, engine, scripts.GenerationTitled, logging.NewNop())
	if !errors.Is(err, scripts.ErrGenerationMismatch) {
		t.Fatalf("expected ErrGenerationMismatch, got %v", err)
	}
	repo, err := scripts.Open(ctx, engine, scripts.GenerationAuto, logging.NewNop())
	if err != nil {
		t.Fatalf("auto Open: %v", err)
	}
	if repo.Generation() != scripts.GenerationUntitled {
		t.Fatalf("auto must adopt the existing table, got %q", repo.Generation())
	}
}

func TestParseGeneration(t *testing.T) {
	if g, err := scripts.ParseGeneration(""); err != nil || g != scripts.GenerationAuto {
		t.Fatalf("ParseGeneration(\"\") = %q, %v", g, err)
	}
	if g, err := scripts.ParseGeneration("Titled"); err != nil || g != scripts.GenerationTitled {
		t.Fatalf("ParseGeneration(Titled) = %q, %v", g, err)
	}
	if _, err := scripts.ParseGeneration("v2"); err == nil {
		t.Fatal("expected error for unknown generation")
	}
}
