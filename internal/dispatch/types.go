package dispatch

import "taiyaku/internal/scripts"

// Operation names, shared by every transport.
const (
	OpSave   = "save-script"
	OpGetAll = "get-all-scripts"
	OpSearch = "search-scripts"
	OpUpdate = "update-script"
	OpDelete = "delete-script"
	OpExport = "export-script"
	OpImport = "import-script"
	OpGet    = "get-script"
	OpStatus = "status"
)

// Operations lists every operation name in a stable order.
func Operations() []string {
	return []string{OpSave, OpGetAll, OpSearch, OpUpdate, OpDelete, OpExport, OpImport, OpGet, OpStatus}
}

// SaveRequest creates a script. Nil text fields are rejected by the repository.
type SaveRequest struct {
	Title        *string `json:"title,omitempty"`
	EnglishText  *string `json:"english_text,omitempty"`
	JapaneseText *string `json:"japanese_text,omitempty"`
}

type SaveResponse struct {
	ID int64 `json:"id"`
}

// ListRequest is the empty payload of get-all-scripts.
type ListRequest struct{}

type ListResponse struct {
	Generation string           `json:"generation"`
	Scripts    []scripts.Script `json:"scripts"`
}

type SearchRequest struct {
	Query      string `json:"query"`
	Scope      string `json:"scope,omitempty"`
	IgnoreCase bool   `json:"ignore_case,omitempty"`
}

// UpdateRequest replaces every field of the script with ID.
type UpdateRequest struct {
	ID           int64   `json:"id"`
	Title        *string `json:"title,omitempty"`
	EnglishText  *string `json:"english_text,omitempty"`
	JapaneseText *string `json:"japanese_text,omitempty"`
}

type DeleteRequest struct {
	ID int64 `json:"id"`
}

// CountResponse reports how many rows an update or delete touched.
type CountResponse struct {
	Affected int64 `json:"affected"`
}

// Export and import payloads use camelCase keys; the script CRUD payloads
// use the snake_case column names.

// ExportRequest renders the given texts to Path. An empty Path means the
// caller declined to pick a destination.
type ExportRequest struct {
	Title        *string `json:"title,omitempty"`
	EnglishText  string  `json:"englishText"`
	JapaneseText string  `json:"japaneseText"`
	Path         string  `json:"path"`
	Format       string  `json:"format,omitempty"`
}

type ExportResponse struct {
	Success   bool   `json:"success"`
	FilePath  string `json:"filePath,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ImportRequest names the two source files. An empty path means the caller
// declined that choice.
type ImportRequest struct {
	EnglishPath  string  `json:"englishPath"`
	JapanesePath string  `json:"japanesePath"`
	Title        *string `json:"title,omitempty"`
}

type ImportResponse struct {
	Success      bool   `json:"success"`
	ID           int64  `json:"id,omitempty"`
	EnglishText  string `json:"englishText,omitempty"`
	JapaneseText string `json:"japaneseText,omitempty"`
	Cancelled    bool   `json:"cancelled,omitempty"`
	Error        string `json:"error,omitempty"`
}

type GetRequest struct {
	ID int64 `json:"id"`
}

// GetResponse carries the script, or nil when the id does not exist.
type GetResponse struct {
	Script *scripts.Script `json:"script,omitempty"`
}

type StatusRequest struct{}

type StatusResponse struct {
	Generation string `json:"generation"`
	Driver     string `json:"driver"`
	Target     string `json:"target"`
	Count      int64  `json:"count"`
	PID        int    `json:"pid"`
}
