package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "sqlite unique", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique}, want: ErrDuplicateKey},
		{name: "sqlite primary key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintPrimaryKey}, want: ErrDuplicateKey},
		{name: "sqlite foreign key", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintForeignKey}, want: ErrForeignKey},
		{name: "sqlite check", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintCheck}, want: ErrInvalidValue},
		{name: "sqlite not null", err: sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintNotNull}, want: ErrInvalidValue},
		{name: "sqlite mismatch", err: sqlite3.Error{Code: sqlite3.ErrMismatch}, want: ErrInvalidValue},
		{name: "postgres unique", err: &pgconn.PgError{Code: "23505"}, want: ErrDuplicateKey},
		{name: "postgres foreign key", err: &pgconn.PgError{Code: "23503"}, want: ErrForeignKey},
		{name: "postgres bad date", err: &pgconn.PgError{Code: "22007"}, want: ErrInvalidValue},
		{name: "postgres not null", err: &pgconn.PgError{Code: "23502"}, want: ErrInvalidValue},
		{name: "postgres duplicate table", err: &pgconn.PgError{Code: "42P07"}, want: ErrAlreadyExists},
		{name: "mysql duplicate entry", err: &mysql.MySQLError{Number: 1062}, want: ErrDuplicateKey},
		{name: "mysql no parent", err: &mysql.MySQLError{Number: 1452}, want: ErrForeignKey},
		{name: "mysql row referenced", err: &mysql.MySQLError{Number: 1451}, want: ErrForeignKey},
		{name: "mysql bad date", err: &mysql.MySQLError{Number: 1292}, want: ErrInvalidValue},
		{name: "mysql table exists", err: &mysql.MySQLError{Number: 1050}, want: ErrAlreadyExists},
		{name: "wrapped driver error", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), want: ErrDuplicateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			assert.ErrorIs(t, got, tt.want)
			// The driver error stays reachable
			assert.ErrorIs(t, got, tt.err)

			var ce *ConstraintError
			require.ErrorAs(t, got, &ce)
			assert.Equal(t, tt.want, ce.Kind)
		})
	}
}

func TestClassifyPassThrough(t *testing.T) {
	assert.NoError(t, Classify(nil))

	plain := errors.New("connection refused")
	assert.Same(t, plain, Classify(plain))

	other := &pgconn.PgError{Code: "40001"}
	assert.Equal(t, error(other), Classify(other))

	once := Classify(&mysql.MySQLError{Number: 1062})
	assert.Same(t, once, Classify(once))
}

func TestConstraintErrorMessage(t *testing.T) {
	err := Classify(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'A1' for key 'name'"})
	assert.Equal(t, "duplicate key: Error 1062: Duplicate entry 'A1' for key 'name'", err.Error())
}
