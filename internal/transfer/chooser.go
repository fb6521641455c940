package transfer

import "context"

// Purpose tells a Chooser which file is being asked for.
type Purpose string

const (
	PurposeExport         Purpose = "export"
	PurposeImportEnglish  Purpose = "import-english"
	PurposeImportJapanese Purpose = "import-japanese"
)

// Choice describes one file selection.
type Choice struct {
	Purpose Purpose
	// Suggested is the default file name for exports.
	Suggested string
}

// Chooser picks a file path. ok=false means the user declined; that is not
// an error.
type Chooser interface {
	Choose(ctx context.Context, choice Choice) (path string, ok bool, err error)
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(ctx context.Context, choice Choice) (string, bool, error)

func (f ChooserFunc) Choose(ctx context.Context, choice Choice) (string, bool, error) {
	return f(ctx, choice)
}

// Paths is a Chooser over paths selected ahead of time, typically by a remote
// caller. An empty path is a declined choice.
type Paths struct {
	Export   string
	English  string
	Japanese string
}

func (p Paths) Choose(_ context.Context, choice Choice) (string, bool, error) {
	var path string
	switch choice.Purpose {
	case PurposeExport:
		path = p.Export
	case PurposeImportEnglish:
		path = p.English
	case PurposeImportJapanese:
		path = p.Japanese
	}
	return path, path != "", nil
}
