package transfer_test

import (
	"testing"

	"taiyaku/internal/scripts"
	"taiyaku/internal/transfer"
)

func TestRenderWithTitle(t *testing.T) {
	doc := transfer.Document{Title: scripts.StringPtr("Greeting"), EnglishText: "Hello", JapaneseText: "こんにちは"}
	want := "--- Greeting ---\n\n[English]\nHello\n\n[Japanese]\nこんにちは"
	if got := doc.Render(); got != want {
		t.Fatalf("Render mismatch:\n got %q\nwant %q", got, want)
	}
}

func TestRenderWithoutTitle(t *testing.T) {
	for _, title := range []*string{nil, scripts.StringPtr("")} {
		doc := transfer.Document{Title: title, EnglishText: "A\nB", JapaneseText: ""}
		want := "[English]\nA\nB\n\n[Japanese]\n"
		if got := doc.Render(); got != want {
			t.Fatalf("Render mismatch:\n got %q\nwant %q", got, want)
		}
	}
}

func TestSuggestedName(t *testing.T) {
	cases := []struct {
		title  *string
		format transfer.Format
		want   string
	}{
		{scripts.StringPtr("My Script"), transfer.FormatText, "My Script.txt"},
		{nil, transfer.FormatText, "script.txt"},
		{scripts.StringPtr("a/b:c?"), transfer.FormatText, "a_b_c_.txt"},
		{scripts.StringPtr(" .. "), transfer.FormatText, "script.txt"},
		{scripts.StringPtr("挨拶"), transfer.FormatYAML, "挨拶.yaml"},
		{scripts.StringPtr("line\nbreak"), transfer.FormatPDF, "linebreak.pdf"},
	}
	for _, tc := range cases {
		doc := transfer.Document{Title: tc.title}
		if got := doc.SuggestedName(tc.format); got != tc.want {
			t.Fatalf("SuggestedName(%v) = %q, want %q", tc.title, got, tc.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	cases := map[string]transfer.Format{
		"":     transfer.FormatText,
		"TXT":  transfer.FormatText,
		"yml":  transfer.FormatYAML,
		"yaml": transfer.FormatYAML,
		"pdf":  transfer.FormatPDF,
	}
	for in, want := range cases {
		got, err := transfer.ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := transfer.ParseFormat("docx"); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
