package db

import (
	"context"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteClient opens the SQLite database at path with foreign key
// enforcement switched on. The pool is pinned to one connection: SQLite
// serialises writers anyway, and ":memory:" databases exist per connection.
func NewSQLiteClient(ctx context.Context, path string) (*Client, error) {
	client, err := newClient(ctx, SQLite, "sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	client.db.SetMaxOpenConns(1)
	return client, nil
}

// sqliteDSN appends the driver options the schema relies on.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}
