package scripts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"taiyaku/internal/logging"
	"taiyaku/internal/store"
)

// Repository answers script operations against a single store.Engine.
type Repository struct {
	engine     *store.Engine
	generation Generation
	columns    string
	logger     *slog.Logger
}

// Open resolves the schema generation (creating the table if needed) and
// returns a Repository bound to it. The caller keeps ownership of engine.
func Open(ctx context.Context, engine *store.Engine, want Generation, logger *slog.Logger) (*Repository, error) {
	if engine == nil {
		return nil, errors.New("scripts repository requires a storage engine")
	}
	gen, err := resolveGeneration(ctx, engine, want)
	if err != nil {
		return nil, err
	}
	columns := "id, english_text, japanese_text"
	if gen.HasTitle() {
		columns = "id, title, english_text, japanese_text"
	}
	logger = logging.NewComponentLogger(logger, "scripts")
	logger.Info("scripts repository ready",
		logging.Generation(string(gen)),
		logging.String("engine", engine.Dialect().Name()))
	return &Repository{engine: engine, generation: gen, columns: columns, logger: logger}, nil
}

// Generation returns the schema generation fixed at Open.
func (r *Repository) Generation() Generation { return r.generation }

// Engine exposes the underlying engine for status reporting.
func (r *Repository) Engine() *store.Engine { return r.engine }

// Create inserts a script and returns its new id.
func (r *Repository) Create(ctx context.Context, fields Fields) (int64, error) {
	title, err := r.checkFields(fields, false)
	if err != nil {
		return 0, err
	}
	var out store.Outcome
	if r.generation.HasTitle() {
		out, err = r.engine.Execute(ctx,
			"INSERT INTO scripts (title, english_text, japanese_text) VALUES (?, ?, ?)",
			title, *fields.EnglishText, *fields.JapaneseText)
	} else {
		out, err = r.engine.Execute(ctx,
			"INSERT INTO scripts (english_text, japanese_text) VALUES (?, ?)",
			*fields.EnglishText, *fields.JapaneseText)
	}
	if err != nil {
		return 0, fmt.Errorf("insert script: %w", err)
	}
	return out.InsertedID, nil
}

// GetAll returns every script. Row order is whatever the engine yields.
func (r *Repository) GetAll(ctx context.Context) ([]Script, error) {
	return r.selectScripts(ctx, "list scripts", "SELECT "+r.columns+" FROM scripts")
}

// Get returns the script with id, or nil when it does not exist.
func (r *Repository) Get(ctx context.Context, id int64) (*Script, error) {
	found, err := r.selectScripts(ctx, "get script", "SELECT "+r.columns+" FROM scripts WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// Search returns every script whose scoped columns contain q.Term. An empty
// term is equivalent to GetAll whatever the scope.
func (r *Repository) Search(ctx context.Context, q Query) ([]Script, error) {
	if q.Term == "" {
		return r.GetAll(ctx)
	}
	scope := q.Scope
	if scope == "" {
		scope = ScopeAll
	}
	var targets []string
	switch scope {
	case ScopeAll:
		if r.generation.HasTitle() {
			targets = append(targets, "title")
		}
		targets = append(targets, "english_text", "japanese_text")
	case ScopeTitle:
		if !r.generation.HasTitle() {
			return nil, &ValidationError{Field: "scope", Reason: "title scope requires a titled store"}
		}
		targets = []string{"title"}
	default:
		return nil, &ValidationError{Field: "scope", Reason: fmt.Sprintf("unknown scope %q", scope)}
	}

	dialect := r.engine.Dialect()
	conds := make([]string, len(targets))
	args := make([]any, len(targets))
	for i, col := range targets {
		conds[i] = dialect.Contains(col, q.IgnoreCase)
		args[i] = q.Term
	}
	stmt := "SELECT " + r.columns + " FROM scripts WHERE " + strings.Join(conds, " OR ")
	return r.selectScripts(ctx, "search scripts", stmt, args...)
}

// Update replaces every field of the script with id and returns the number
// of rows affected (0 when id does not exist).
func (r *Repository) Update(ctx context.Context, id int64, fields Fields) (int64, error) {
	title, err := r.checkFields(fields, true)
	if err != nil {
		return 0, err
	}
	var out store.Outcome
	if r.generation.HasTitle() {
		out, err = r.engine.Execute(ctx,
			"UPDATE scripts SET title = ?, english_text = ?, japanese_text = ? WHERE id = ?",
			title, *fields.EnglishText, *fields.JapaneseText, id)
	} else {
		out, err = r.engine.Execute(ctx,
			"UPDATE scripts SET english_text = ?, japanese_text = ? WHERE id = ?",
			*fields.EnglishText, *fields.JapaneseText, id)
	}
	if err != nil {
		return 0, fmt.Errorf("update script %d: %w", id, err)
	}
	return out.RowsAffected, nil
}

// Delete removes the script with id and returns the number of rows affected.
func (r *Repository) Delete(ctx context.Context, id int64) (int64, error) {
	out, err := r.engine.Execute(ctx, "DELETE FROM scripts WHERE id = ?", id)
	if err != nil {
		return 0, fmt.Errorf("delete script %d: %w", id, err)
	}
	return out.RowsAffected, nil
}

// Count returns the number of stored scripts.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.engine.Query(ctx, func(row store.Scanner) error {
		return row.Scan(&n)
	}, "SELECT COUNT(*) FROM scripts")
	if err != nil {
		return 0, fmt.Errorf("count scripts: %w", err)
	}
	return n, nil
}

// checkFields enforces the create/update preconditions and returns the title
// to bind for titled stores.
func (r *Repository) checkFields(fields Fields, update bool) (string, error) {
	if fields.EnglishText == nil {
		return "", required("english_text")
	}
	if fields.JapaneseText == nil {
		return "", required("japanese_text")
	}
	if !r.generation.HasTitle() {
		if fields.Title != nil {
			return "", &ValidationError{Field: "title", Reason: "not supported by the untitled schema"}
		}
		return "", nil
	}
	if fields.Title == nil {
		if update {
			return "", &ValidationError{Field: "title", Reason: "required for update (fields are replaced wholesale)"}
		}
		return "", nil
	}
	return *fields.Title, nil
}

func (r *Repository) selectScripts(ctx context.Context, op, stmt string, args ...any) ([]Script, error) {
	scripts := make([]Script, 0)
	err := r.engine.Query(ctx, func(row store.Scanner) error {
		s, err := r.scan(row)
		if err != nil {
			return err
		}
		scripts = append(scripts, s)
		return nil
	}, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scripts, nil
}

// scan reads one row. Legacy tables allowed NULL texts; they read back as "".
func (r *Repository) scan(row store.Scanner) (Script, error) {
	var (
		s        Script
		title    sql.NullString
		english  sql.NullString
		japanese sql.NullString
	)
	var err error
	if r.generation.HasTitle() {
		err = row.Scan(&s.ID, &title, &english, &japanese)
	} else {
		err = row.Scan(&s.ID, &english, &japanese)
	}
	if err != nil {
		return Script{}, err
	}
	if r.generation.HasTitle() {
		t := title.String
		s.Title = &t
	}
	s.EnglishText = english.String
	s.JapaneseText = japanese.String
	return s, nil
}
