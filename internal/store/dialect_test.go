package store

import "testing"

func TestRebindNumbersPlaceholdersForPostgres(t *testing.T) {
	got := Postgres.Rebind("SELECT id FROM scripts WHERE a = ? AND b = '?' AND c = ?")
	want := "SELECT id FROM scripts WHERE a = $1 AND b = '?' AND c = $2"
	if got != want {
		t.Fatalf("Rebind = %q, want %q", got, want)
	}
	if SQLite.Rebind("a = ?") != "a = ?" {
		t.Fatal("sqlite statements must be left untouched")
	}
}

func TestContainsExpression(t *testing.T) {
	cases := []struct {
		dialect Dialect
		fold    bool
		want    string
	}{
		{SQLite, false, "instr(title, ?) > 0"},
		{SQLite, true, "instr(lower(title), lower(?)) > 0"},
		{Postgres, false, "strpos(title, ?) > 0"},
	}
	for _, tc := range cases {
		if got := tc.dialect.Contains("title", tc.fold); got != tc.want {
			t.Fatalf("%s Contains(fold=%v) = %q, want %q", tc.dialect.Name(), tc.fold, got, tc.want)
		}
	}
}

func TestIsInsert(t *testing.T) {
	if !isInsert("  insert INTO x VALUES (1)") {
		t.Fatal("expected insert detection to ignore case and leading space")
	}
	if isInsert("UPDATE x SET a = 1") {
		t.Fatal("update misdetected as insert")
	}
}

func TestIdentityColumn(t *testing.T) {
	if got := SQLite.IdentityColumn("id"); got != "id INTEGER PRIMARY KEY AUTOINCREMENT" {
		t.Fatalf("unexpected sqlite identity: %q", got)
	}
	if got := Postgres.IdentityColumn("id"); got != "id BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY" {
		t.Fatalf("unexpected postgres identity: %q", got)
	}
}
