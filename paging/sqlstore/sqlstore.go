// Package sqlstore implements paging.Store over database/sql, rendering the
// query contract into parameterized SQL for the drivers registered by the
// data package.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tenantify/tcore/paging"
)

// Dialect selects the placeholder style and quoting of the rendered SQL.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
)

// ScanFunc scans the current row into an item.
type ScanFunc[T any] func(*sql.Rows) (T, error)

// Store executes keyset queries against one table of a SQL database.
type Store[T any] struct {
	db        *sql.DB
	dialect   Dialect
	table     string
	columns   []string
	scan      ScanFunc[T]
	scopeSQL  string
	scopeArgs []any
}

// New creates a store selecting columns from table and scanning rows
// with scan.
func New[T any](db *sql.DB, dialect Dialect, table string, columns []string, scan ScanFunc[T]) *Store[T] {
	if db == nil || table == "" || len(columns) == 0 || scan == nil {
		panic("sqlstore: db, table, columns and scan are required")
	}
	return &Store[T]{db: db, dialect: dialect, table: table, columns: columns, scan: scan}
}

// Scope adds a static condition to every query, typically tenant isolation:
//
//	store.Scope("tenant_id = ?", tenantID)
//
// The condition uses ? placeholders regardless of dialect; they are rewritten
// during rendering.
func (s *Store[T]) Scope(condition string, args ...any) *Store[T] {
	s.scopeSQL = condition
	s.scopeArgs = args
	return s
}

// Fetch renders and executes the page query.
func (s *Store[T]) Fetch(ctx context.Context, q *paging.Query) ([]T, error) {
	stmt, args := s.render(q, false)
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: query %s: %w", s.table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := s.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlstore: scan %s: %w", s.table, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlstore: iterate %s: %w", s.table, err)
	}
	return items, nil
}

// Count renders and executes the matching count query.
func (s *Store[T]) Count(ctx context.Context, q *paging.Query) (int, error) {
	stmt, args := s.render(q, true)
	var total int
	if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sqlstore: count %s: %w", s.table, err)
	}
	return total, nil
}

// render builds the SQL text and arguments for q. With count true it renders
// SELECT COUNT(*) over the filtered set, ignoring seek, order and limit.
func (s *Store[T]) render(q *paging.Query, count bool) (string, []any) {
	b := newBuilder(s.dialect)

	if count {
		b.writef("SELECT COUNT(*) FROM %s", s.table)
	} else {
		b.writef("SELECT %s FROM %s", joinColumns(s.columns), s.table)
	}

	b.startWhere()
	if s.scopeSQL != "" {
		b.condRaw(s.scopeSQL, s.scopeArgs...)
	}
	for _, f := range q.Filters {
		b.condFilter(f)
	}
	if !count && q.Seek != nil {
		b.condSeek(q.Seek, q.IDColumn)
	}

	if !count {
		dir := "ASC"
		if q.Order.Direction == paging.Desc {
			dir = "DESC"
		}
		b.writef(" ORDER BY %s %s, %s %s", q.Order.Column, dir, q.IDColumn, dir)
		if q.Limit > 0 {
			b.writef(" LIMIT %d", q.Limit)
		}
	}

	return b.sql(), b.args
}

func joinColumns(cols []string) string {
	out := ""
	for i, c := range cols {
		if i > 0 {
			out += ", "
		}
		out += c
	}
	return out
}
