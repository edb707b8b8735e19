package repository

import (
	"errors"
	"fmt"

	"catalog-api/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classifyWriteError maps driver constraint failures onto domain errors.
// field names the unique key the statement can collide on.
func classifyWriteError(err error, field, op string) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return &domain.ConflictError{Field: field}
		case pgForeignKeyViolation:
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidReference)
		}
	}

	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_UNIQUE, sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &domain.ConflictError{Field: field}
		case sqlite3lib.SQLITE_CONSTRAINT_FOREIGNKEY:
			return fmt.Errorf("%s: %w", op, domain.ErrInvalidReference)
		}
	}

	return fmt.Errorf("failed to %s: %w", op, err)
}
