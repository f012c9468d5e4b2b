package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/musicdb/internal/schema"
)

// SQLiteExtractor handles schema extraction from SQLite
type SQLiteExtractor struct {
	client *Client
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *Client) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractSchema extracts the complete schema for specified tables
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	return extractSchema(ctx, e, tables)
}

func (e *SQLiteExtractor) listTables(ctx context.Context) ([]string, error) {
	query := `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND name <> 'schema_migrations'
		ORDER BY name
	`
	return queryStrings(ctx, e.client.DB(), query)
}

func (e *SQLiteExtractor) tableExists(ctx context.Context, tableName string) (bool, error) {
	var count int
	err := e.client.DB().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName).Scan(&count)
	return count > 0, err
}

// pragma runs a table-valued PRAGMA against a quoted table or index name
func (e *SQLiteExtractor) pragma(ctx context.Context, name, target string) (*sql.Rows, error) {
	return e.client.DB().QueryContext(ctx, fmt.Sprintf("PRAGMA %s(%s)", name, e.client.Quote(target)))
}

func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	rows, err := e.pragma(ctx, "table_info", tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		col := schema.Column{
			Name: name,
			Type: strings.ToLower(colType),
			// A lone INTEGER PRIMARY KEY aliases the rowid and is never NULL
			Nullable: notNull == 0 && pk == 0,
		}
		if defaultValue.Valid {
			col.DefaultValue = &defaultValue.String
		}

		columns = append(columns, col)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	auto, err := e.autoIncrementTable(ctx, tableName)
	if err != nil {
		return nil, err
	}
	if auto {
		pk, err := e.extractPrimaryKey(ctx, tableName)
		if err != nil {
			return nil, err
		}
		if len(pk) == 1 {
			for i := range columns {
				if columns[i].Name == pk[0] {
					columns[i].AutoIncrement = true
				}
			}
		}
	}

	return columns, nil
}

// autoIncrementTable reports whether the table was declared with AUTOINCREMENT
func (e *SQLiteExtractor) autoIncrementTable(ctx context.Context, tableName string) (bool, error) {
	var ddl sql.NullString
	err := e.client.DB().QueryRowContext(ctx,
		`SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?`, tableName).Scan(&ddl)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToUpper(ddl.String), "AUTOINCREMENT"), nil
}

func (e *SQLiteExtractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	rows, err := e.pragma(ctx, "table_info", tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// table_info reports each key column's 1-based position in the key
	positions := make(map[int]string)
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pkOrder int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pkOrder); err != nil {
			return nil, err
		}
		if pkOrder > 0 {
			positions[pkOrder] = name
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	pk := make([]string, 0, len(positions))
	for i := 1; i <= len(positions); i++ {
		pk = append(pk, positions[i])
	}
	return pk, nil
}

func (e *SQLiteExtractor) extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error) {
	rows, err := e.pragma(ctx, "foreign_key_list", tableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		relations = append(relations, schema.Relation{
			SourceColumn: fromCol,
			TargetTable:  targetTable,
			TargetColumn: toCol.String,
			Cardinality:  "N:1",
		})
	}

	return relations, rows.Err()
}

func (e *SQLiteExtractor) extractIndexes(ctx context.Context, tableName string) ([]schema.Index, error) {
	type indexEntry struct {
		name   string
		unique bool
	}

	rows, err := e.pragma(ctx, "index_list", tableName)
	if err != nil {
		return nil, err
	}

	var entries []indexEntry
	for rows.Next() {
		var seq int
		var name, origin string
		var unique, partial int

		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}

		// Primary key indexes are reported through PrimaryKey
		if origin == "pk" {
			continue
		}
		entries = append(entries, indexEntry{name: name, unique: unique == 1})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var indexes []schema.Index
	for _, entry := range entries {
		columns, err := e.indexColumns(ctx, entry.name)
		if err != nil {
			return nil, err
		}
		if len(columns) > 0 {
			indexes = append(indexes, schema.Index{
				Name:     entry.name,
				IsUnique: entry.unique,
				Columns:  columns,
			})
		}
	}

	return indexes, nil
}

func (e *SQLiteExtractor) indexColumns(ctx context.Context, indexName string) ([]string, error) {
	rows, err := e.pragma(ctx, "index_info", indexName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var seqno, cid int
		var colName sql.NullString

		if err := rows.Scan(&seqno, &cid, &colName); err != nil {
			return nil, err
		}
		if colName.Valid {
			columns = append(columns, colName.String)
		}
	}

	return columns, rows.Err()
}
