package main

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"taiyaku/internal/dispatch"
	"taiyaku/internal/scripts"
	"taiyaku/internal/testsupport"
)

func TestScriptLifecycle(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := env.run(t, "save", "--title", "Greeting", "--english", "Hello", "--japanese", "こんにちは")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	requireContains(t, out, "Saved script 1")

	out, err = env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, want := range []string{"TITLE", "Greeting", "Hello", "こんにちは"} {
		requireContains(t, out, want)
	}

	out, err = env.run(t, "update", "1", "--english", "Good morning")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	requireContains(t, out, "Updated 1 script(s)")

	out, err = env.run(t, "show", "1")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	requireContains(t, out, "Title: Greeting")
	requireContains(t, out, "[English]\nGood morning")
	requireContains(t, out, "[Japanese]\nこんにちは")

	out, err = env.run(t, "delete", "1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	requireContains(t, out, "Deleted script 1")

	out, err = env.run(t, "delete", "1")
	if err != nil {
		t.Fatalf("second delete: %v", err)
	}
	requireContains(t, out, "Script 1 not found")

	out, err = env.run(t, "list")
	if err != nil {
		t.Fatalf("list after delete: %v", err)
	}
	requireContains(t, out, "No scripts found")
}

func TestSaveMissingTextIsValidationFailure(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := env.run(t, "save", "--title", "Half", "--english", "Only English")
	if err == nil {
		t.Fatal("expected save without japanese text to fail")
	}
	if !errors.Is(err, dispatch.ErrValidation) {
		t.Fatalf("expected validation failure, got %v", err)
	}
}

func TestShowUnknownScript(t *testing.T) {
	env := setupCLITestEnv(t)

	_, err := env.run(t, "show", "42")
	if err == nil || !strings.Contains(err.Error(), "script 42 not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
	if _, err := env.run(t, "show", "abc"); err == nil {
		t.Fatal("expected non-numeric id to be rejected")
	}
}

func TestSearchJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	for _, args := range [][]string{
		{"save", "--title", "Weather Report", "--english", "It is sunny", "--japanese", "晴れです"},
		{"save", "--title", "Farewell", "--english", "Goodbye, weather permitting", "--japanese", "さようなら"},
	} {
		if _, err := env.run(t, args...); err != nil {
			t.Fatalf("%v: %v", args, err)
		}
	}

	out, err := env.run(t, "--json", "search", "weather", "--scope", "title", "--ignore-case")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var resp dispatch.ListResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode search output %q: %v", out, err)
	}
	if len(resp.Scripts) != 1 || resp.Scripts[0].TitleOr("") != "Weather Report" {
		t.Fatalf("unexpected title-scoped results: %+v", resp.Scripts)
	}

	out, err = env.run(t, "--json", "search", "weather", "-i")
	if err != nil {
		t.Fatalf("search all: %v", err)
	}
	resp = dispatch.ListResponse{}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode search output: %v", err)
	}
	if len(resp.Scripts) != 2 {
		t.Fatalf("expected both scripts to match, got %d", len(resp.Scripts))
	}

	out, err = env.run(t, "--json", "search", "weather")
	if err != nil {
		t.Fatalf("case-sensitive search: %v", err)
	}
	resp = dispatch.ListResponse{}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode search output: %v", err)
	}
	if len(resp.Scripts) != 1 || resp.Scripts[0].TitleOr("") != "Farewell" {
		t.Fatalf("unexpected case-sensitive results: %+v", resp.Scripts)
	}
}

func TestUntitledStoreHidesTitleColumn(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithGeneration("untitled"))

	if _, err := env.run(t, "save", "--english", "Hello", "--japanese", "こんにちは"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := env.run(t, "save", "--title", "x", "--english", "a", "--japanese", "b"); err == nil {
		t.Fatal("expected title to be rejected by an untitled store")
	}
	out, err := env.run(t, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.Contains(out, "TITLE") {
		t.Fatalf("untitled listing should not show a title column:\n%s", out)
	}
	requireContains(t, out, "Hello")
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("あ", previewRunes+10)
	got := preview(long)
	if !strings.HasSuffix(got, "...") || len([]rune(got)) != previewRunes+3 {
		t.Fatalf("unexpected preview length %d", len([]rune(got)))
	}
	if preview("line one\nline two") != "line one line two" {
		t.Fatalf("expected line breaks to be flattened, got %q", preview("line one\nline two"))
	}
	table := scriptTable(string(scripts.GenerationTitled), []scripts.Script{{ID: 7, EnglishText: "a", JapaneseText: "b"}})
	requireContains(t, table, "-")
}
