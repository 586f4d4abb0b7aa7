package database

import (
	"strings"

	"github.com/jmoiron/sqlx/types"
)

// jsonArg passes JSON columns as text; lib/pq would otherwise send []byte
// as bytea.
func jsonArg(j types.JSONText) any {
	if len(j) == 0 {
		return nil
	}
	return string(j)
}

func nullJSONArg(j types.NullJSONText) any {
	if !j.Valid {
		return nil
	}
	return jsonArg(j.JSONText)
}

func likePattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// where accumulates AND-ed conditions with their positional args.
type where struct {
	clauses []string
	args    []any
}

func (w *where) add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}
