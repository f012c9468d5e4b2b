// Package migrations embeds the per-engine DDL for the music schema. The
// scripts can be split into single statements for the create and drop
// operations, or driven as versioned migrations through golang-migrate.
package migrations

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/golang-migrate/migrate/v4/database/multistmt"
	"github.com/tordrt/musicdb/internal/db"
)

//go:embed sql
var files embed.FS

// Direction selects the up (create) or down (drop) half of a migration.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// SchemaVersion is the migration that creates the seven tables.
const SchemaVersion = 1

const maxScriptSize = 1 << 20

// Dir returns the embedded directory holding the scripts for a dialect.
func Dir(dialect db.Dialect) (string, error) {
	switch dialect {
	case db.SQLite, db.Postgres, db.MySQL:
		return path.Join("sql", string(dialect)), nil
	default:
		return "", fmt.Errorf("no migrations for database type: %s", dialect)
	}
}

// Script returns the raw text of one migration file.
func Script(dialect db.Dialect, version int, dir Direction) (string, error) {
	base, err := Dir(dialect)
	if err != nil {
		return "", err
	}

	pattern := path.Join(base, fmt.Sprintf("%06d_*.%s.sql", version, dir))
	matches, err := fs.Glob(files, pattern)
	if err != nil {
		return "", err
	}
	if len(matches) != 1 {
		return "", fmt.Errorf("expected one migration matching %s, found %d", pattern, len(matches))
	}

	data, err := files.ReadFile(matches[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", matches[0], err)
	}
	return string(data), nil
}

// Statements splits a migration file into the statements it is made of,
// each without its trailing delimiter.
func Statements(dialect db.Dialect, version int, dir Direction) ([]string, error) {
	script, err := Script(dialect, version, dir)
	if err != nil {
		return nil, err
	}

	var statements []string
	err = multistmt.Parse(strings.NewReader(script), []byte(";"), maxScriptSize, func(stmt []byte) bool {
		stmt = bytes.TrimSpace(stmt)
		stmt = bytes.TrimSuffix(stmt, []byte(";"))
		if s := strings.TrimSpace(string(stmt)); s != "" && !commentOnly(s) {
			statements = append(statements, s)
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to split migration: %w", err)
	}

	return statements, nil
}

func commentOnly(stmt string) bool {
	for _, line := range strings.Split(stmt, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "--") {
			return false
		}
	}
	return true
}
