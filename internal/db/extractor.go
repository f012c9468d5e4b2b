package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tordrt/musicdb/internal/schema"
)

// Extractor reads the live structure of a database
type Extractor interface {
	// ExtractSchema extracts the complete schema for specified tables.
	// If tables is empty, extracts all tables in the schema.
	ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error)
}

// NewExtractor returns the extractor for the client's engine
func NewExtractor(client *Client) (Extractor, error) {
	switch client.Dialect() {
	case SQLite:
		return NewSQLiteExtractor(client), nil
	case Postgres:
		return NewPostgresExtractor(client, client.SchemaName()), nil
	case MySQL:
		return NewMySQLExtractor(client, client.SchemaName()), nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", client.Dialect())
	}
}

// tableReader holds the per-engine queries behind one table's description.
type tableReader interface {
	listTables(ctx context.Context) ([]string, error)
	tableExists(ctx context.Context, tableName string) (bool, error)
	extractColumns(ctx context.Context, tableName string) ([]schema.Column, error)
	extractPrimaryKey(ctx context.Context, tableName string) ([]string, error)
	extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error)
	extractIndexes(ctx context.Context, tableName string) ([]schema.Index, error)
}

// extractSchema drives a tableReader. Requested tables that do not exist are
// skipped so that a partially created schema can still be described.
func extractSchema(ctx context.Context, r tableReader, requested []string) (*schema.Schema, error) {
	tableNames := requested
	if len(tableNames) == 0 {
		var err error
		tableNames, err = r.listTables(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	var extractedTables []schema.Table
	for _, tableName := range tableNames {
		if len(requested) > 0 {
			exists, err := r.tableExists(ctx, tableName)
			if err != nil {
				return nil, fmt.Errorf("failed to look up table %s: %w", tableName, err)
			}
			if !exists {
				continue
			}
		}

		table, err := extractTable(ctx, r, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		extractedTables = append(extractedTables, *table)
	}

	return &schema.Schema{Tables: extractedTables}, nil
}

// extractTable extracts all information for a single table
func extractTable(ctx context.Context, r tableReader, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	columns, err := r.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	pk, err := r.extractPrimaryKey(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKey = pk

	relations, err := r.extractRelations(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	table.Relations = relations

	indexes, err := r.extractIndexes(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract indexes: %w", err)
	}
	table.Indexes = indexes
	table.MarkUniqueColumns()

	return table, nil
}

// queryStrings runs a query returning a single text column
func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, rows.Err()
}
