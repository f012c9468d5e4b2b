package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Dialect names a supported storage engine.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// Client manages a database/sql connection pool for one engine.
type Client struct {
	db         *sql.DB
	dialect    Dialect
	schemaName string
}

// Open connects to the engine named by dialect. schemaName is the PostgreSQL
// schema or MySQL database the extractor inspects; it is ignored for SQLite
// and filled in from the DSN for MySQL when empty.
func Open(ctx context.Context, dialect Dialect, dsn, schemaName string) (*Client, error) {
	switch dialect {
	case SQLite:
		return NewSQLiteClient(ctx, dsn)
	case Postgres:
		client, err := NewPostgresClient(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if schemaName != "" {
			client.schemaName = schemaName
		}
		return client, nil
	case MySQL:
		client, err := NewMySQLClient(ctx, dsn)
		if err != nil {
			return nil, err
		}
		if schemaName != "" {
			client.schemaName = schemaName
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dialect)
	}
}

func newClient(ctx context.Context, dialect Dialect, driverName, dsn string) (*Client, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{db: db, dialect: dialect}, nil
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}

// DB returns the underlying connection pool
func (c *Client) DB() *sql.DB {
	return c.db
}

// Dialect returns the engine this client talks to
func (c *Client) Dialect() Dialect {
	return c.dialect
}

// SchemaName returns the schema (PostgreSQL) or database (MySQL) in use
func (c *Client) SchemaName() string {
	return c.schemaName
}

// Quote quotes an identifier for the client's engine.
func (c *Client) Quote(ident string) string {
	if c.dialect == MySQL {
		return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
	}
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// Exec runs a single statement and classifies any constraint failure.
func (c *Client) Exec(ctx context.Context, query string, args ...any) error {
	if _, err := c.db.ExecContext(ctx, query, args...); err != nil {
		return Classify(err)
	}
	return nil
}
