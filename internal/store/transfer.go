package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/tordrt/musicdb/internal/db"
	"github.com/tordrt/musicdb/internal/model"
)

// Export reads every table into a Dataset, each ordered by primary key.
func (s *Store) Export(ctx context.Context) (*model.Dataset, error) {
	ds := &model.Dataset{}
	for _, name := range s.order {
		dest, err := ds.Rows(name)
		if err != nil {
			return nil, err
		}
		table := s.model.Table(name)
		if err := s.gdb.WithContext(ctx).Order(strings.Join(table.PrimaryKey, ", ")).Find(dest).Error; err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", name, err)
		}
	}
	return ds, nil
}

// Import writes a Dataset into the schema in creation order, one statement
// per row, keeping the identifiers it carries. Sequences are then moved one
// past the highest identifier so later inserts do not collide.
func (s *Store) Import(ctx context.Context, ds *model.Dataset) error {
	for _, table := range s.order {
		n := 0
		err := ds.Each(table, func(record any) error {
			n++
			return s.Insert(ctx, record)
		})
		if err != nil {
			return fmt.Errorf("failed to import %s row %d: %w", table, n, err)
		}
		s.logger.DebugContext(ctx, "table imported", "table", table, "rows", n)
	}

	if err := s.resetSequences(ctx); err != nil {
		return fmt.Errorf("failed to reset sequences: %w", err)
	}
	return nil
}

// resetSequences positions PostgreSQL sequences after explicit-key inserts.
// SQLite AUTOINCREMENT and MySQL AUTO_INCREMENT advance on their own.
func (s *Store) resetSequences(ctx context.Context) error {
	if s.client.Dialect() != db.Postgres {
		return nil
	}
	for _, name := range s.order {
		column, ok := s.model.Table(name).AutoIncrementColumn()
		if !ok {
			continue
		}
		query := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence($1, $2), COALESCE(MAX(%s), 0) + 1, false) FROM %s",
			column, s.client.Quote(name))
		if err := s.client.Exec(ctx, query, s.client.Quote(name), column); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}
