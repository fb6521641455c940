package transfer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"taiyaku/internal/logging"
	"taiyaku/internal/scripts"
	"taiyaku/internal/store"
)

// Creator is the slice of scripts.Repository that Import needs.
type Creator interface {
	Create(ctx context.Context, fields scripts.Fields) (int64, error)
	Generation() scripts.Generation
}

// Options configures a Bridge.
type Options struct {
	// PDFFont is a UTF-8 TrueType font file used for PDF export.
	PDFFont string
}

// Bridge runs exports and imports against a repository.
type Bridge struct {
	repo    Creator
	pdfFont string
	logger  *slog.Logger
}

// New builds a Bridge over repo.
func New(repo Creator, opts Options, logger *slog.Logger) *Bridge {
	return &Bridge{
		repo:    repo,
		pdfFont: opts.PDFFont,
		logger:  logging.NewComponentLogger(logger, "transfer"),
	}
}

// Export writes doc in format to the path picked by chooser. When the chosen
// path is an existing directory the suggested name is appended.
func (b *Bridge) Export(ctx context.Context, doc Document, format Format, chooser Chooser) Outcome {
	logger := logging.WithContext(ctx, b.logger)
	if format == "" {
		format = FormatText
	}
	suggested := doc.SuggestedName(format)
	path, ok, err := chooser.Choose(ctx, Choice{Purpose: PurposeExport, Suggested: suggested})
	if err != nil {
		logger.Warn("export destination unavailable", logging.Error(err))
		return failed(err.Error())
	}
	if !ok {
		logger.Info("export cancelled")
		return cancelled()
	}
	if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
		path = filepath.Join(path, suggested)
	}

	data, err := doc.encode(format, b.pdfFont)
	if err != nil {
		logging.WarnWithContext(logger, "export render failed", "export_failed",
			logging.String("format", string(format)),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check export.pdf_font for pdf output"),
			logging.String(logging.FieldImpact, "no file was written"))
		return failed(err.Error())
	}
	if err := writeFileAtomic(path, data, 0o644); err != nil {
		logger.Warn("export write failed", logging.Path(path), logging.Error(err))
		return failed(err.Error())
	}
	logger.Info("script exported",
		logging.Path(path),
		logging.String("format", string(format)),
		logging.Int("bytes", len(data)))
	return exported(path)
}

// Import asks chooser for the English file and then the Japanese file, and
// stores their decoded contents as a new script. Declining either choice
// cancels the import without touching the repository. title overrides the
// title derived from the English file name; titles only apply to titled
// stores.
func (b *Bridge) Import(ctx context.Context, chooser Chooser, title *string) Outcome {
	logger := logging.WithContext(ctx, b.logger)

	englishPath, ok, err := chooser.Choose(ctx, Choice{Purpose: PurposeImportEnglish})
	if err != nil {
		return failed(err.Error())
	}
	if !ok {
		logger.Info("import cancelled", logging.String("at", string(PurposeImportEnglish)))
		return cancelled()
	}
	japanesePath, ok, err := chooser.Choose(ctx, Choice{Purpose: PurposeImportJapanese})
	if err != nil {
		return failed(err.Error())
	}
	if !ok {
		logger.Info("import cancelled", logging.String("at", string(PurposeImportJapanese)))
		return cancelled()
	}

	english, err := readText(englishPath)
	if err != nil {
		logger.Warn("import read failed", logging.Path(englishPath), logging.Error(err))
		return failed(fmt.Sprintf("read English file: %v", err))
	}
	japanese, err := readText(japanesePath)
	if err != nil {
		logger.Warn("import read failed", logging.Path(japanesePath), logging.Error(err))
		return failed(fmt.Sprintf("read Japanese file: %v", err))
	}

	fields := scripts.Fields{EnglishText: &english, JapaneseText: &japanese}
	switch {
	case title != nil:
		fields.Title = title
	case b.repo.Generation().HasTitle():
		stem := strings.TrimSuffix(filepath.Base(englishPath), filepath.Ext(englishPath))
		fields.Title = &stem
	}
	id, err := b.repo.Create(ctx, fields)
	if err != nil {
		logger.Warn("import store failed", logging.Error(err))
		return failed(failureMessage(err))
	}
	logger.Info("script imported",
		logging.ScriptID(id),
		logging.String("english_file", englishPath),
		logging.String("japanese_file", japanesePath))
	return imported(id, english, japanese)
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return DecodeText(data)
}

// failureMessage keeps the engine's diagnostic text without the operation
// prefixes added on the way up.
func failureMessage(err error) string {
	var storageErr *store.StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Error()
	}
	return err.Error()
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".taiyaku-export-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
