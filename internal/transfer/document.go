package transfer

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Format selects the export encoding.
type Format string

const (
	FormatText Format = "txt"
	FormatYAML Format = "yaml"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts txt, text, yaml, yml, or pdf. Empty means txt.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "txt", "text":
		return FormatText, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want txt, yaml, or pdf)", value)
	}
}

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatYAML:
		return ".yaml"
	case FormatPDF:
		return ".pdf"
	default:
		return ".txt"
	}
}

// Document is the content of one export. A nil or empty Title means the
// document has no title line.
type Document struct {
	Title        *string
	EnglishText  string
	JapaneseText string
}

func (d Document) title() string {
	if d.Title == nil {
		return ""
	}
	return *d.Title
}

// Render returns the plain-text export form.
func (d Document) Render() string {
	var b strings.Builder
	if title := d.title(); title != "" {
		fmt.Fprintf(&b, "--- %s ---\n\n", title)
	}
	b.WriteString("[English]\n")
	b.WriteString(d.EnglishText)
	b.WriteString("\n\n[Japanese]\n")
	b.WriteString(d.JapaneseText)
	return b.String()
}

// SuggestedName is the default file name: the title made safe for the
// filesystem, or "script" when there is none, plus the format extension.
func (d Document) SuggestedName(format Format) string {
	return sanitizeName(d.title()) + format.Extension()
}

func sanitizeName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsControl(r):
			return -1
		case strings.ContainsRune(`<>:"/\|?*`, r):
			return '_'
		}
		return r
	}, norm.NFC.String(title))
	name = strings.Trim(name, " .")
	if name == "" {
		return "script"
	}
	return name
}

type yamlDocument struct {
	Title    string `yaml:"title,omitempty"`
	English  string `yaml:"english"`
	Japanese string `yaml:"japanese"`
}

func (d Document) encode(format Format, pdfFont string) ([]byte, error) {
	switch format {
	case FormatText, "":
		return []byte(d.Render()), nil
	case FormatYAML:
		return yaml.Marshal(yamlDocument{Title: d.title(), English: d.EnglishText, Japanese: d.JapaneseText})
	case FormatPDF:
		return d.renderPDF(pdfFont)
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}

const pdfFamily = "body"

// renderPDF lays the document out on A4 pages. Japanese glyphs are not in
// the core PDF fonts, so a UTF-8 TrueType font file is required.
func (d Document) renderPDF(fontPath string) ([]byte, error) {
	if fontPath == "" {
		return nil, errors.New("pdf export requires export.pdf_font to name a TrueType font")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFontLocation(filepath.Dir(fontPath))
	pdf.AddUTF8Font(pdfFamily, "", filepath.Base(fontPath))
	if title := d.title(); title != "" {
		pdf.SetTitle(title, true)
	}
	pdf.SetCreator("taiyaku", false)
	pdf.AddPage()

	if title := d.title(); title != "" {
		pdf.SetFont(pdfFamily, "", 16)
		pdf.MultiCell(0, 9, title, "", "L", false)
		pdf.Ln(4)
	}
	section := func(heading, body string) {
		pdf.SetFont(pdfFamily, "", 11)
		pdf.MultiCell(0, 6, heading, "B", "L", false)
		pdf.Ln(2)
		pdf.SetFont(pdfFamily, "", 12)
		pdf.MultiCell(0, 6, body, "", "L", false)
		pdf.Ln(6)
	}
	section("English", d.EnglishText)
	section("Japanese", d.JapaneseText)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
