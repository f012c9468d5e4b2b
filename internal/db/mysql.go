package db

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
)

// NewMySQLClient connects to MySQL. The DSN is normalised so DATE and
// DATETIME columns scan into time.Time in UTC and migration scripts may hold
// several statements.
func NewMySQLClient(ctx context.Context, connString string) (*Client, error) {
	cfg, err := mysqlConfig(connString)
	if err != nil {
		return nil, err
	}

	client, err := newClient(ctx, MySQL, "mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}
	client.schemaName = cfg.DBName
	return client, nil
}

func mysqlConfig(connString string) (*mysql.Config, error) {
	cfg, err := mysql.ParseDSN(connString)
	if err != nil {
		return nil, fmt.Errorf("invalid MySQL connection string: %w", err)
	}
	if cfg.DBName == "" {
		return nil, fmt.Errorf("no database name found in MySQL connection string")
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.MultiStatements = true
	return cfg, nil
}
