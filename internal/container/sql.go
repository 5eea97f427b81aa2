package container

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
)

// maxSQLParams bounds the number of keys bound into one IN (...) query.
const maxSQLParams = 500

// SQLTable maps a namespace onto one table of a database.
type SQLTable struct {
	Namespace string
	Table     string
	KeyColumn string
	Columns   []string // empty selects all columns
}

// SQL is a namespace-scoped container backed by database/sql. Each namespace
// issues one SELECT ... WHERE key IN (...) per batch; rows are returned as
// map[string]any keyed by column name.
type SQL struct {
	id     string
	db     *sql.DB
	tables map[string]SQLTable
}

// NewSQL creates a SQL container over db. Table and column names are quoted
// as SQL identifiers; the driver must accept "?" placeholders.
func NewSQL(id string, db *sql.DB, tables ...SQLTable) (*SQL, error) {
	s := &SQL{id: id, db: db, tables: make(map[string]SQLTable, len(tables))}

	for _, t := range tables {
		if t.Namespace == "" || t.Table == "" || t.KeyColumn == "" {
			return nil, fmt.Errorf("container %q: sql table needs namespace, table and key column", id)
		}

		if _, dup := s.tables[t.Namespace]; dup {
			return nil, fmt.Errorf("container %q: duplicate namespace %q", id, t.Namespace)
		}

		if len(t.Columns) > 0 && !slices.Contains(t.Columns, t.KeyColumn) {
			t.Columns = append(slices.Clone(t.Columns), t.KeyColumn)
		}

		s.tables[t.Namespace] = t
	}

	return s, nil
}

// ID implements Container.
func (s *SQL) ID() string { return s.id }

// Scope implements Container.
func (s *SQL) Scope() Scope { return ScopeNamespace }

// Get implements Container.
func (s *SQL) Get(ctx context.Context, namespace string, keys []any) (map[any]any, error) {
	t, ok := s.tables[namespace]
	if !ok {
		return nil, &NamespaceError{Container: s.id, Namespace: namespace}
	}

	out := make(map[any]any, len(keys))

	for chunk := range slices.Chunk(keys, maxSQLParams) {
		if err := s.query(ctx, t, chunk, out); err != nil {
			return nil, fmt.Errorf("container %q: namespace %q: %w", s.id, namespace, err)
		}
	}

	return out, nil
}

func (s *SQL) query(ctx context.Context, t SQLTable, keys []any, out map[any]any) error {
	rows, err := s.db.QueryContext(ctx, buildSelect(t, len(keys)), keys...)
	if err != nil {
		return err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return err
	}

	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))

		for i := range vals {
			ptrs[i] = &vals[i]
		}

		if err := rows.Scan(ptrs...); err != nil {
			return err
		}

		row := make(map[string]any, len(cols))

		for i, c := range cols {
			if b, isBytes := vals[i].([]byte); isBytes {
				row[c] = string(b)
			} else {
				row[c] = vals[i]
			}
		}

		if k, ok := NormalizeKey(row[t.KeyColumn]); ok {
			out[k] = row
		}
	}

	return rows.Err()
}

func buildSelect(t SQLTable, n int) string {
	cols := "*"
	if len(t.Columns) > 0 {
		quoted := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			quoted[i] = quoteIdent(c)
		}

		cols = strings.Join(quoted, ", ")
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", n), ", ")

	return fmt.Sprintf("SELECT %s FROM %s WHERE %s IN (%s)", cols, quoteIdent(t.Table), quoteIdent(t.KeyColumn), placeholders)
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
