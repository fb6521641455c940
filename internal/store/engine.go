package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"taiyaku/internal/logging"
)

const jobBacklog = 64

// Outcome reports the effect of an Execute call. InsertedID is only set for
// INSERT statements.
type Outcome struct {
	RowsAffected int64
	InsertedID   int64
}

// Scanner is satisfied by *sql.Rows and *sql.Row.
type Scanner interface {
	Scan(dest ...any) error
}

// Options selects the engine and its connection target.
type Options struct {
	Driver string
	// Path is the SQLite database file.
	Path string
	// DSN is the Postgres connection string.
	DSN    string
	Logger *slog.Logger
}

// Engine serializes every statement through a single worker goroutine.
type Engine struct {
	db      *sql.DB
	dialect Dialect
	target  string
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
	jobs   chan job
	done   chan struct{}
}

type job struct {
	ctx    context.Context
	op     string
	stmt   string
	run    func(context.Context, *sql.DB) error
	result chan error
}

// Open connects to the configured engine and starts the worker.
func Open(ctx context.Context, opts Options) (*Engine, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		db      *sql.DB
		dialect Dialect
		target  string
		err     error
	)
	switch opts.Driver {
	case "", SQLite.name:
		db, err = openSQLite(ctx, opts.Path)
		dialect, target = SQLite, opts.Path
	case Postgres.name:
		db, err = openPostgres(ctx, opts.DSN)
		dialect, target = Postgres, "postgres"
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}
	return newEngine(db, dialect, target, opts.Logger), nil
}

func newEngine(db *sql.DB, dialect Dialect, target string, logger *slog.Logger) *Engine {
	// One connection: the worker is the only user of the pool.
	db.SetMaxOpenConns(1)
	e := &Engine{
		db:      db,
		dialect: dialect,
		target:  target,
		logger:  logging.NewComponentLogger(logger, "store"),
		jobs:    make(chan job, jobBacklog),
		done:    make(chan struct{}),
	}
	go e.work()
	return e
}

// Dialect reports the SQL dialect of the open engine.
func (e *Engine) Dialect() Dialect { return e.dialect }

// Target describes where data lives (file path or "postgres").
func (e *Engine) Target() string { return e.target }

// Execute runs a write or DDL statement and reports its effect.
func (e *Engine) Execute(ctx context.Context, stmt string, args ...any) (Outcome, error) {
	var out Outcome
	err := e.submit(ctx, "execute", stmt, func(ctx context.Context, db *sql.DB) error {
		native := e.dialect.Rebind(stmt)
		if isInsert(stmt) && e.dialect.returningID {
			if err := db.QueryRowContext(ctx, native+" RETURNING id", args...).Scan(&out.InsertedID); err != nil {
				return err
			}
			out.RowsAffected = 1
			return nil
		}
		res, err := db.ExecContext(ctx, native, args...)
		if err != nil {
			return err
		}
		if out.RowsAffected, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if isInsert(stmt) {
			if out.InsertedID, err = res.LastInsertId(); err != nil {
				return fmt.Errorf("last insert id: %w", err)
			}
		}
		return nil
	})
	return out, err
}

// Query runs a read statement and hands each row to scan on the worker.
func (e *Engine) Query(ctx context.Context, scan func(Scanner) error, stmt string, args ...any) error {
	return e.submit(ctx, "query", stmt, func(ctx context.Context, db *sql.DB) error {
		rows, err := db.QueryContext(ctx, e.dialect.Rebind(stmt), args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

func (e *Engine) submit(ctx context.Context, op, stmt string, run func(context.Context, *sql.DB) error) error {
	if e == nil || e.db == nil {
		return &StorageError{Op: op, Err: errors.New("storage engine unavailable")}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	j := job{
		ctx:    context.WithoutCancel(ctx),
		op:     op,
		stmt:   stmt,
		run:    run,
		result: make(chan error, 1),
	}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return ErrClosed
	}
	e.jobs <- j
	e.mu.RUnlock()

	return <-j.result
}

func (e *Engine) work() {
	defer close(e.done)
	for j := range e.jobs {
		start := time.Now()
		err := wrap(j.op, j.run(j.ctx, e.db))
		if err != nil {
			logging.WithContext(j.ctx, e.logger).Debug("statement failed",
				logging.String("op", j.op),
				logging.Duration("elapsed", time.Since(start)),
				logging.Error(err))
		} else {
			logging.WithContext(j.ctx, e.logger).Debug("statement done",
				logging.String("op", j.op),
				logging.Duration("elapsed", time.Since(start)))
		}
		j.result <- err
	}
}

// Close stops accepting statements, drains the queue, and closes the pool.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.jobs)
	e.mu.Unlock()

	<-e.done
	return e.db.Close()
}
