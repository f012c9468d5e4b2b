package db

import (
	"context"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// NewPostgresClient connects to PostgreSQL through pgx's database/sql driver
func NewPostgresClient(ctx context.Context, connString string) (*Client, error) {
	client, err := newClient(ctx, Postgres, "pgx", connString)
	if err != nil {
		return nil, err
	}
	client.schemaName = "public"
	return client, nil
}
