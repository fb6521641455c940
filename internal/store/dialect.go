package store

import (
	"strconv"
	"strings"
)

// Dialect captures the SQL differences between supported engines.
// Statements handed to Engine use '?' placeholders; Rebind converts them.
type Dialect struct {
	name        string
	numbered    bool
	returningID bool
}

var (
	SQLite   = Dialect{name: "sqlite"}
	Postgres = Dialect{name: "postgres", numbered: true, returningID: true}
)

func (d Dialect) Name() string { return d.name }

// Rebind rewrites '?' placeholders into the engine's native form. Question
// marks inside single-quoted literals are left alone.
func (d Dialect) Rebind(stmt string) string {
	if !d.numbered || !strings.Contains(stmt, "?") {
		return stmt
	}
	var b strings.Builder
	b.Grow(len(stmt) + 8)
	n := 0
	quoted := false
	for _, r := range stmt {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IdentityColumn returns the DDL for a never-reused integer primary key.
func (d Dialect) IdentityColumn(name string) string {
	if d.name == Postgres.name {
		return name + " BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY"
	}
	return name + " INTEGER PRIMARY KEY AUTOINCREMENT"
}

// Contains returns a boolean expression testing whether column contains the
// next bound parameter as a literal substring.
func (d Dialect) Contains(column string, foldCase bool) string {
	fn := "instr"
	if d.name == Postgres.name {
		fn = "strpos"
	}
	if foldCase {
		return fn + "(lower(" + column + "), lower(?)) > 0"
	}
	return fn + "(" + column + ", ?) > 0"
}

// ColumnsQuery lists the column names of the table bound as the only parameter.
func (d Dialect) ColumnsQuery() string {
	if d.name == Postgres.name {
		return "SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ?"
	}
	return "SELECT name FROM pragma_table_info(?)"
}

func isInsert(stmt string) bool {
	trimmed := strings.TrimSpace(stmt)
	return len(trimmed) >= 6 && strings.EqualFold(trimmed[:6], "INSERT")
}
