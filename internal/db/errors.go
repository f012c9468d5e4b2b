package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Constraint violation kinds. Every write that breaks the data model fails
// with an error matching one of these under errors.Is.
var (
	ErrDuplicateKey  = errors.New("duplicate key")
	ErrForeignKey    = errors.New("foreign key violation")
	ErrInvalidValue  = errors.New("invalid value")
	ErrAlreadyExists = errors.New("already exists")
)

// ConstraintError pairs a violation kind with the driver error behind it.
type ConstraintError struct {
	Kind error
	Err  error
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

// Unwrap exposes both the kind and the driver error to errors.Is and errors.As.
func (e *ConstraintError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// Classify maps a driver error onto a violation kind. Errors that are not
// constraint violations are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return err
	}
	if kind := kindOf(err); kind != nil {
		return &ConstraintError{Kind: kind, Err: err}
	}
	return err
}

func kindOf(err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteKind(sqliteErr)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return postgresKind(pgErr.Code)
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlKind(mysqlErr.Number)
	}

	return nil
}

func sqliteKind(err sqlite3.Error) error {
	switch err.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return ErrDuplicateKey
	case sqlite3.ErrConstraintForeignKey:
		return ErrForeignKey
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return ErrInvalidValue
	}
	switch err.Code {
	case sqlite3.ErrMismatch:
		return ErrInvalidValue
	case sqlite3.ErrError:
		if strings.Contains(err.Error(), "already exists") {
			return ErrAlreadyExists
		}
	}
	return nil
}

func postgresKind(code string) error {
	switch code {
	case "23505":
		return ErrDuplicateKey
	case "23503":
		return ErrForeignKey
	case "22007", "22008", "22P02", "22003", "23502", "23514":
		return ErrInvalidValue
	case "42P07":
		return ErrAlreadyExists
	}
	return nil
}

func mysqlKind(number uint16) error {
	switch number {
	case 1062:
		return ErrDuplicateKey
	case 1451, 1452, 1216, 1217:
		return ErrForeignKey
	case 1292, 1366, 1048, 1264, 1265, 3819:
		return ErrInvalidValue
	case 1050:
		return ErrAlreadyExists
	}
	return nil
}
