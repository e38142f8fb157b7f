package db

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	ErrStorageUnavailable  = errors.New("storage unavailable")
	ErrConstraintViolation = errors.New("constraint violation")
)

// ClassifyError wraps a raw driver error into ErrConstraintViolation or
// ErrStorageUnavailable where it can tell, and returns it unchanged otherwise.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrConstraintViolation) || errors.Is(err, ErrStorageUnavailable) {
		return err
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%w: %v", ErrConstraintViolation, err)
		case sqlite3.ErrCantOpen, sqlite3.ErrNotADB, sqlite3.ErrIoErr, sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case strings.HasPrefix(pgErr.Code, "23"): // integrity_constraint_violation
			return fmt.Errorf("%w: %s (%s)", ErrConstraintViolation, pgErr.Message, pgErr.ConstraintName)
		case strings.HasPrefix(pgErr.Code, "08"), strings.HasPrefix(pgErr.Code, "57P"): // connection_exception, operator_intervention
			return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return err
}
