// Package store applies the music schema to a database and moves records in
// and out of it. Every write is a single statement: a constraint violation
// fails that statement alone and leaves earlier writes committed.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tordrt/musicdb/internal/db"
	"github.com/tordrt/musicdb/internal/migrations"
	"github.com/tordrt/musicdb/internal/model"
	"github.com/tordrt/musicdb/internal/schema"
	"github.com/tordrt/musicdb/internal/seed"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a delete matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrSchemaMismatch is returned by Verify when the live schema differs
	// from the declared one.
	ErrSchemaMismatch = errors.New("schema mismatch")
)

// Store binds the declared music schema to one database.
type Store struct {
	client *db.Client
	gdb    *gorm.DB
	model  *schema.Schema
	order  []string
	logger *slog.Logger
}

// New creates a store over an open client. A nil logger discards output.
func New(client *db.Client, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	declared := model.Schema()
	order, err := declared.CreationOrder()
	if err != nil {
		return nil, fmt.Errorf("invalid declared schema: %w", err)
	}

	gdb, err := openGorm(client)
	if err != nil {
		return nil, err
	}

	return &Store{
		client: client,
		gdb:    gdb,
		model:  declared,
		order:  order,
		logger: logger.With("dialect", string(client.Dialect())),
	}, nil
}

// Model returns the declared schema the store enforces.
func (s *Store) Model() *schema.Schema {
	return s.model
}

// CreationOrder returns the order in which tables are created and filled.
func (s *Store) CreationOrder() []string {
	return append([]string(nil), s.order...)
}

// DeletionOrder returns the order in which tables are emptied and dropped.
func (s *Store) DeletionOrder() []string {
	order := s.CreationOrder()
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// CreateSchema creates the seven tables. It fails with db.ErrAlreadyExists
// when they are already present; run DropSchema first to recreate them.
func (s *Store) CreateSchema(ctx context.Context) error {
	if err := s.runScript(ctx, migrations.Up); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	s.logger.InfoContext(ctx, "schema created", "tables", len(s.order))
	return nil
}

// DropSchema drops every table that exists, dependents first, and forgets
// any migration version recorded for them.
func (s *Store) DropSchema(ctx context.Context) error {
	if err := s.runScript(ctx, migrations.Down); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	if err := s.client.Exec(ctx, "DROP TABLE IF EXISTS "+s.client.Quote(migrations.VersionTable)); err != nil {
		return fmt.Errorf("failed to drop %s: %w", migrations.VersionTable, err)
	}
	s.logger.InfoContext(ctx, "schema dropped")
	return nil
}

func (s *Store) runScript(ctx context.Context, dir migrations.Direction) error {
	statements, err := migrations.Statements(s.client.Dialect(), migrations.SchemaVersion, dir)
	if err != nil {
		return err
	}
	for i, stmt := range statements {
		if err := s.client.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
		s.logger.DebugContext(ctx, "statement applied", "direction", string(dir), "index", i+1)
	}
	return nil
}

// Seed loads the versioned seed dataset into an empty schema.
func (s *Store) Seed(ctx context.Context) error {
	if err := s.Import(ctx, seed.Dataset()); err != nil {
		return fmt.Errorf("failed to seed: %w", err)
	}
	s.logger.InfoContext(ctx, "seed loaded", "version", seed.Version)
	return nil
}

// Reset drops, recreates and seeds the schema.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.DropSchema(ctx); err != nil {
		return err
	}
	if err := s.CreateSchema(ctx); err != nil {
		return err
	}
	return s.Seed(ctx)
}

// Clear deletes every row, dependents first. Sequences are not rewound.
func (s *Store) Clear(ctx context.Context) error {
	for _, table := range s.DeletionOrder() {
		if err := s.client.Exec(ctx, "DELETE FROM "+s.client.Quote(table)); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	s.logger.InfoContext(ctx, "all rows deleted")
	return nil
}

// Insert writes one record (a pointer to any model type). An auto-assigned
// identifier is stored back into the record.
func (s *Store) Insert(ctx context.Context, record any) error {
	if err := s.gdb.WithContext(ctx).Create(record).Error; err != nil {
		return db.Classify(err)
	}
	return nil
}

// Delete removes one record by its primary key. Deleting a row that others
// still reference fails with db.ErrForeignKey.
func (s *Store) Delete(ctx context.Context, record any) error {
	result := s.gdb.WithContext(ctx).Delete(record)
	if result.Error != nil {
		return db.Classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TableCount is the number of rows in one table.
type TableCount struct {
	Table string
	Rows  int64
}

// Counts returns the row count of every table in creation order.
func (s *Store) Counts(ctx context.Context) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(s.order))
	for _, table := range s.order {
		var n int64
		query := "SELECT COUNT(*) FROM " + s.client.Quote(table)
		if err := s.client.DB().QueryRowContext(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}
