package scripts

import (
	"fmt"
	"strings"
)

// Generation identifies the schema generation of the scripts table.
type Generation string

const (
	// GenerationAuto adopts the existing table and creates titled tables.
	GenerationAuto     Generation = "auto"
	GenerationTitled   Generation = "titled"
	GenerationUntitled Generation = "untitled"
)

// ParseGeneration accepts "auto", "titled", or "untitled" (case-insensitive).
// An empty string means auto.
func ParseGeneration(value string) (Generation, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(GenerationAuto):
		return GenerationAuto, nil
	case string(GenerationTitled):
		return GenerationTitled, nil
	case string(GenerationUntitled):
		return GenerationUntitled, nil
	default:
		return "", fmt.Errorf("unknown schema generation %q", value)
	}
}

// HasTitle reports whether scripts of this generation carry a title.
func (g Generation) HasTitle() bool { return g == GenerationTitled }

// Script is one stored bilingual text pair. Title is nil exactly when the
// store is untitled.
type Script struct {
	ID           int64   `json:"id"`
	Title        *string `json:"title,omitempty"`
	EnglishText  string  `json:"english_text"`
	JapaneseText string  `json:"japanese_text"`
}

// TitleOr returns the title, or fallback when the script has none or it is empty.
func (s Script) TitleOr(fallback string) string {
	if s.Title == nil || *s.Title == "" {
		return fallback
	}
	return *s.Title
}

// Fields carries the caller-supplied values for Create and Update. A nil
// pointer means the caller omitted the field.
type Fields struct {
	Title        *string
	EnglishText  *string
	JapaneseText *string
}

// Scope selects which columns a search matches against.
type Scope string

const (
	ScopeAll   Scope = "all"
	ScopeTitle Scope = "title"
)

// ParseScope maps a caller-supplied scope to a Scope. Empty means ScopeAll.
func ParseScope(value string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(ScopeAll):
		return ScopeAll, nil
	case string(ScopeTitle):
		return ScopeTitle, nil
	default:
		return "", &ValidationError{Field: "scope", Reason: fmt.Sprintf("unknown scope %q (want all or title)", value)}
	}
}

// Query describes a search. An empty Term matches every script.
type Query struct {
	Term       string
	Scope      Scope
	IgnoreCase bool
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
