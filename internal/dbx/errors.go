package dbx

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes and classes mapped by Classify.
const (
	codeUniqueViolation       = "23505"
	codeInsufficientPrivilege = "42501"
	codeAdminShutdown         = "57P01"
	codeCannotConnectNow      = "57P03"
	classConnectionException  = "08"
)

// Classify maps a driver error onto the storage sentinels of package common:
//
//   - sql.ErrNoRows                    -> common.ErrorNotFound
//   - unique violation (23505)         -> common.ErrAlreadyExists
//   - insufficient privilege (42501)   -> common.ErrPermissionDenied
//   - connection failures, class 08xxx -> common.ErrUnavailable
//
// The original error stays in the chain so callers can still log it.
// Context errors and unknown errors are returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return fmt.Errorf("%w: %w", common.ErrAlreadyExists, err)
		case pgErr.Code == codeInsufficientPrivilege:
			return fmt.Errorf("%w: %w", common.ErrPermissionDenied, err)
		case pgErr.Code == codeAdminShutdown, pgErr.Code == codeCannotConnectNow,
			strings.HasPrefix(pgErr.Code, classConnectionException):
			return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
		}
		return err
	}

	var connErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connErr) || errors.As(err, &netErr) ||
		errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %w", common.ErrUnavailable, err)
	}

	return err
}
