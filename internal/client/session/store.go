// Package session keeps the operator's login between CLI invocations in a
// local SQLite file.
package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/certifier/internal/client/migrations"
	"github.com/dmitrijs2005/certifier/internal/dbx"
	"github.com/dmitrijs2005/certifier/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	keyUsername     = "username"
	keyAccessToken  = "access_token"
	keyRefreshToken = "refresh_token"
)

// Tokens is the credential pair issued by the server at login.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// Store is a key-value table holding the current session.
type Store struct {
	db *sql.DB
	kv dbx.DBTX
}

// gooseUp is a seam for testing migration failures.
var gooseUp = func(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the session file at dsn and applies the
// schema. Missing parent directories are created. Use ":memory:" for a
// throwaway session.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn != ":memory:" {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session %s: %w", dsn, err)
	}
	// an in-memory database lives on a single connection
	db.SetMaxOpenConns(1)

	if err := gooseUp(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate session: %w", err)
	}
	return &Store{db: db, kv: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Tokens returns the stored credential pair; both fields are empty when no
// one is logged in.
func (s *Store) Tokens(ctx context.Context) (Tokens, error) {
	access, err := s.get(ctx, keyAccessToken)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.get(ctx, keyRefreshToken)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

// SaveTokens replaces the stored credential pair atomically.
func (s *Store) SaveTokens(ctx context.Context, t Tokens) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := set(ctx, tx, keyAccessToken, t.AccessToken); err != nil {
			return err
		}
		return set(ctx, tx, keyRefreshToken, t.RefreshToken)
	})
}

// Username returns the name used at the last successful login.
func (s *Store) Username(ctx context.Context) (string, error) {
	return s.get(ctx, keyUsername)
}

// SetUsername records the logged in operator.
func (s *Store) SetUsername(ctx context.Context, name string) error {
	return set(ctx, s.kv, keyUsername, name)
}

// Clear forgets everything, which is what logout does.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.kv.ExecContext(ctx, `DELETE FROM metadata`); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

func (s *Store) get(ctx context.Context, key string) (string, error) {
	var value []byte
	err := s.kv.QueryRowContext(ctx, `SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return string(value), nil
}

func set(ctx context.Context, db dbx.DBTX, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO metadata (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, []byte(value))
	if err != nil {
		return fmt.Errorf("failed to set session[%s]: %w", key, err)
	}
	return nil
}
