package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
)

// HasTable checks information_schema for a table in the current database.
func HasTable(ctx context.Context, q sqlx.QueryerContext, table string) bool {
	var name sql.NullString
	err := q.QueryRowxContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		// no rows and a dead connection both read as "missing"; the CREATE that follows reports the real error
		return false
	}
	return name.Valid && name.String != ""
}

// HasColumn checks information_schema for a column of table in the current database.
func HasColumn(ctx context.Context, q sqlx.QueryerContext, table, column string) bool {
	var n int
	err := q.QueryRowxContext(ctx, `
		SELECT COUNT(*)
		FROM information_schema.columns
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		  AND column_name = ?
	`, table, column).Scan(&n)
	return err == nil && n > 0
}

// NullIfEmpty maps a nil or blank optional string to SQL NULL.
func NullIfEmpty(s *string) any {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return strings.TrimSpace(*s)
}

// In expands a query with slice args (IN (?)) and rebinds it for the handle.
func In(q sqlx.QueryerContext, query string, args ...any) (string, []any, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	if b, ok := q.(interface{ Rebind(string) string }); ok {
		query = b.Rebind(query)
	}
	return query, args, nil
}
