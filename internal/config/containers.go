package config

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"field-assembler/internal/container"
)

// Sources holds the containers built from a configuration and the
// databases they own.
type Sources struct {
	Containers []container.Container
	dbs        []*sql.DB
}

// Close closes every database opened by Build.
func (s *Sources) Close() error {
	var errs []error
	for _, db := range s.dbs {
		errs = append(errs, db.Close())
	}

	s.dbs = nil

	return errors.Join(errs...)
}

// Build creates the containers declared by the configuration. Tables sharing
// an id are merged into one container, in declaration order.
func (c *Config) Build() (*Sources, error) {
	out := &Sources{}

	tables := map[string]*container.Tables{}

	for _, t := range c.Tables {
		tc, ok := tables[t.ID]
		if !ok {
			tc = container.NewTables(t.ID)
			tables[t.ID] = tc
			out.Containers = append(out.Containers, tc)
		}

		container.AddTable(tc, t.Namespace, t.index())
	}

	for _, s := range c.SQL {
		db, err := sql.Open(s.Driver, s.DSN)
		if err != nil {
			_ = out.Close()
			return nil, fmt.Errorf("sql %s: %w", s.ID, err)
		}

		out.dbs = append(out.dbs, db)

		sc, err := container.NewSQL(s.ID, db, s.sqlTables()...)
		if err != nil {
			_ = out.Close()
			return nil, err
		}

		out.Containers = append(out.Containers, sc)
	}

	return out, nil
}

func (t Table) index() map[any]any {
	rows := make(map[any]any, len(t.Rows))

	for _, row := range t.Rows {
		key, ok := container.NormalizeKey(row[t.Key])
		if !ok {
			continue
		}

		if t.Value != "" {
			rows[key] = row[t.Value]
			continue
		}

		rows[key] = row
	}

	return rows
}

func (s SQLSource) sqlTables() []container.SQLTable {
	out := make([]container.SQLTable, 0, len(s.Tables))
	for _, t := range s.Tables {
		out = append(out, container.SQLTable{
			Namespace: t.Namespace,
			Table:     t.Table,
			KeyColumn: t.Key,
			Columns:   t.Columns,
		})
	}

	return out
}
