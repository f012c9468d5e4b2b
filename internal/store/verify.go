package store

import (
	"context"
	"fmt"

	"github.com/tordrt/musicdb/internal/db"
	"github.com/tordrt/musicdb/internal/schema"
)

// LiveSchema extracts the structure of the declared tables as they exist in
// the database. Tables that are missing are left out.
func (s *Store) LiveSchema(ctx context.Context) (*schema.Schema, error) {
	extractor, err := db.NewExtractor(s.client)
	if err != nil {
		return nil, err
	}
	live, err := extractor.ExtractSchema(ctx, s.order)
	if err != nil {
		return nil, fmt.Errorf("failed to extract schema: %w", err)
	}
	return live, nil
}

// Verify compares the live schema with the declared one. When they differ
// it returns the differences together with ErrSchemaMismatch.
func (s *Store) Verify(ctx context.Context) ([]schema.Mismatch, error) {
	live, err := s.LiveSchema(ctx)
	if err != nil {
		return nil, err
	}

	mismatches := schema.Diff(s.model, live)
	if len(mismatches) > 0 {
		s.logger.WarnContext(ctx, "schema differs from declaration", "mismatches", len(mismatches))
		return mismatches, fmt.Errorf("%w: %d difference(s)", ErrSchemaMismatch, len(mismatches))
	}
	return nil, nil
}
