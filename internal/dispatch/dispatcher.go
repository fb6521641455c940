package dispatch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"taiyaku/internal/logging"
	"taiyaku/internal/scripts"
	"taiyaku/internal/transfer"
)

// Options configures a Dispatcher.
type Options struct {
	// BaseDir resolves relative export and import paths.
	BaseDir string
}

// Dispatcher routes operations to the repository and transfer bridge.
type Dispatcher struct {
	repo    *scripts.Repository
	bridge  *transfer.Bridge
	baseDir string
	logger  *slog.Logger
}

// New builds a Dispatcher. The caller owns repo and bridge.
func New(repo *scripts.Repository, bridge *transfer.Bridge, opts Options, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		repo:    repo,
		bridge:  bridge,
		baseDir: opts.BaseDir,
		logger:  logging.NewComponentLogger(logger, "dispatch"),
	}
}

type transportKey struct{}

// WithTransport records the transport name a request arrived on for logging.
func WithTransport(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, transportKey{}, name)
}

// run wraps one operation with a correlation id, timing, and error
// classification. It always returns a *Failure or nil.
func (d *Dispatcher) run(ctx context.Context, op string, fn func(context.Context, *slog.Logger) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, _ = logging.EnsureCorrelationID(ctx)
	logger := logging.WithContext(ctx, d.logger).With(logging.Operation(op))
	if transport, ok := ctx.Value(transportKey{}).(string); ok {
		logger = logger.With(logging.Transport(transport))
	}

	start := time.Now()
	err := fn(ctx, logger)
	elapsed := time.Since(start)
	if err != nil {
		failure := Classify(err)
		level := slog.LevelWarn
		if failure.Kind == KindValidation {
			level = slog.LevelInfo
		}
		logger.Log(ctx, level, "operation failed",
			logging.String("kind", failure.Kind),
			logging.Error(err),
			logging.Duration("elapsed", elapsed))
		return failure
	}
	logger.Debug("operation complete", logging.Duration("elapsed", elapsed))
	return nil
}

// Save stores a new script.
func (d *Dispatcher) Save(ctx context.Context, req SaveRequest) (SaveResponse, error) {
	var resp SaveResponse
	err := d.run(ctx, OpSave, func(ctx context.Context, logger *slog.Logger) error {
		id, err := d.repo.Create(ctx, scripts.Fields{
			Title:        req.Title,
			EnglishText:  req.EnglishText,
			JapaneseText: req.JapaneseText,
		})
		if err != nil {
			return err
		}
		resp.ID = id
		logger.Info("script saved",
			logging.ScriptID(id),
			logging.String(logging.FieldEventType, "script_saved"))
		return nil
	})
	return resp, err
}

// GetAll lists every script.
func (d *Dispatcher) GetAll(ctx context.Context) (ListResponse, error) {
	resp := ListResponse{Generation: string(d.repo.Generation())}
	err := d.run(ctx, OpGetAll, func(ctx context.Context, _ *slog.Logger) error {
		found, err := d.repo.GetAll(ctx)
		resp.Scripts = found
		return err
	})
	return resp, err
}

// Search lists scripts containing req.Query in the requested scope.
func (d *Dispatcher) Search(ctx context.Context, req SearchRequest) (ListResponse, error) {
	resp := ListResponse{Generation: string(d.repo.Generation())}
	err := d.run(ctx, OpSearch, func(ctx context.Context, logger *slog.Logger) error {
		// An empty term lists everything, so the scope is not consulted.
		scope := scripts.ScopeAll
		if req.Query != "" {
			parsed, err := scripts.ParseScope(req.Scope)
			if err != nil {
				return err
			}
			scope = parsed
		}
		found, err := d.repo.Search(ctx, scripts.Query{Term: req.Query, Scope: scope, IgnoreCase: req.IgnoreCase})
		if err != nil {
			return err
		}
		resp.Scripts = found
		logger.Debug("search complete",
			logging.String("scope", string(scope)),
			logging.Int("matches", len(found)))
		return nil
	})
	return resp, err
}

// Update replaces a script's fields.
func (d *Dispatcher) Update(ctx context.Context, req UpdateRequest) (CountResponse, error) {
	var resp CountResponse
	err := d.run(ctx, OpUpdate, func(ctx context.Context, logger *slog.Logger) error {
		n, err := d.repo.Update(ctx, req.ID, scripts.Fields{
			Title:        req.Title,
			EnglishText:  req.EnglishText,
			JapaneseText: req.JapaneseText,
		})
		if err != nil {
			return err
		}
		resp.Affected = n
		logger.Info("script updated",
			logging.ScriptID(req.ID),
			logging.Int64("affected", n))
		return nil
	})
	return resp, err
}

// Delete removes a script.
func (d *Dispatcher) Delete(ctx context.Context, req DeleteRequest) (CountResponse, error) {
	var resp CountResponse
	err := d.run(ctx, OpDelete, func(ctx context.Context, logger *slog.Logger) error {
		n, err := d.repo.Delete(ctx, req.ID)
		if err != nil {
			return err
		}
		resp.Affected = n
		logger.Info("script deleted",
			logging.ScriptID(req.ID),
			logging.Int64("affected", n))
		return nil
	})
	return resp, err
}

// Get returns one script, or a response with a nil Script when absent.
func (d *Dispatcher) Get(ctx context.Context, req GetRequest) (GetResponse, error) {
	var resp GetResponse
	err := d.run(ctx, OpGet, func(ctx context.Context, _ *slog.Logger) error {
		found, err := d.repo.Get(ctx, req.ID)
		resp.Script = found
		return err
	})
	return resp, err
}

// Export writes a script document to req.Path. Cancellation and write
// failures are reported in the response; only a bad request is an error.
func (d *Dispatcher) Export(ctx context.Context, req ExportRequest) (ExportResponse, error) {
	var resp ExportResponse
	err := d.run(ctx, OpExport, func(ctx context.Context, _ *slog.Logger) error {
		format, err := transfer.ParseFormat(req.Format)
		if err != nil {
			return invalid(err.Error())
		}
		doc := transfer.Document{Title: req.Title, EnglishText: req.EnglishText, JapaneseText: req.JapaneseText}
		out := d.bridge.Export(ctx, doc, format, transfer.Paths{Export: d.resolve(req.Path)})
		resp = ExportResponse{
			Success:   out.Succeeded(),
			FilePath:  out.Path,
			Cancelled: out.Cancelled(),
			Error:     out.Message,
		}
		return nil
	})
	return resp, err
}

// Import stores the contents of two files as a new script.
func (d *Dispatcher) Import(ctx context.Context, req ImportRequest) (ImportResponse, error) {
	var resp ImportResponse
	err := d.run(ctx, OpImport, func(ctx context.Context, _ *slog.Logger) error {
		paths := transfer.Paths{English: d.resolve(req.EnglishPath), Japanese: d.resolve(req.JapanesePath)}
		out := d.bridge.Import(ctx, paths, req.Title)
		resp = ImportResponse{
			Success:      out.Succeeded(),
			ID:           out.ID,
			EnglishText:  out.EnglishText,
			JapaneseText: out.JapaneseText,
			Cancelled:    out.Cancelled(),
			Error:        out.Message,
		}
		return nil
	})
	return resp, err
}

// Status reports the store's shape and size.
func (d *Dispatcher) Status(ctx context.Context) (StatusResponse, error) {
	engine := d.repo.Engine()
	resp := StatusResponse{
		Generation: string(d.repo.Generation()),
		Driver:     engine.Dialect().Name(),
		Target:     engine.Target(),
		PID:        os.Getpid(),
	}
	err := d.run(ctx, OpStatus, func(ctx context.Context, _ *slog.Logger) error {
		n, err := d.repo.Count(ctx)
		resp.Count = n
		return err
	})
	return resp, err
}

func (d *Dispatcher) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || d.baseDir == "" {
		return path
	}
	return filepath.Join(d.baseDir, path)
}
