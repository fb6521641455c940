package scripts

import (
	"context"
	"fmt"
	"strings"

	"taiyaku/internal/store"
)

const tableName = "scripts"

func createTableStatement(d store.Dialect, gen Generation) string {
	columns := []string{d.IdentityColumn("id")}
	if gen.HasTitle() {
		columns = append(columns, "title TEXT NOT NULL DEFAULT ''")
	}
	columns = append(columns, "english_text TEXT NOT NULL", "japanese_text TEXT NOT NULL")
	return "CREATE TABLE IF NOT EXISTS " + tableName + " (" + strings.Join(columns, ", ") + ")"
}

func tableColumns(ctx context.Context, engine *store.Engine) (map[string]bool, error) {
	columns := make(map[string]bool)
	err := engine.Query(ctx, func(row store.Scanner) error {
		var name string
		if err := row.Scan(&name); err != nil {
			return err
		}
		columns[strings.ToLower(name)] = true
		return nil
	}, engine.Dialect().ColumnsQuery(), tableName)
	if err != nil {
		return nil, fmt.Errorf("inspect scripts table: %w", err)
	}
	return columns, nil
}

// resolveGeneration creates the table when absent and otherwise derives the
// generation from the columns actually present.
func resolveGeneration(ctx context.Context, engine *store.Engine, want Generation) (Generation, error) {
	columns, err := tableColumns(ctx, engine)
	if err != nil {
		return "", err
	}

	if len(columns) == 0 {
		gen := want
		if gen == GenerationAuto || gen == "" {
			gen = GenerationTitled
		}
		if _, err := engine.Execute(ctx, createTableStatement(engine.Dialect(), gen)); err != nil {
			return "", fmt.Errorf("create scripts table: %w", err)
		}
		return gen, nil
	}

	for _, col := range []string{"id", "english_text", "japanese_text"} {
		if !columns[col] {
			return "", fmt.Errorf("scripts table is missing column %q", col)
		}
	}

	found := GenerationUntitled
	if columns["title"] {
		found = GenerationTitled
	}
	if want != GenerationAuto && want != "" && want != found {
		return "", fmt.Errorf("%w: configured %s, table is %s", ErrGenerationMismatch, want, found)
	}
	return found, nil
}
