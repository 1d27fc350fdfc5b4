package session

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTokens_EmptyWhenLoggedOut(t *testing.T) {
	s := openMemory(t)

	tok, err := s.Tokens(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Tokens{}, tok)
}

func TestSaveTokens_Overwrites(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTokens(ctx, Tokens{AccessToken: "a1", RefreshToken: "r1"}))
	require.NoError(t, s.SaveTokens(ctx, Tokens{AccessToken: "a2", RefreshToken: "r2"}))

	tok, err := s.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, Tokens{AccessToken: "a2", RefreshToken: "r2"}, tok)
}

func TestClear_ForgetsEverything(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	require.NoError(t, s.SetUsername(ctx, "alice"))
	require.NoError(t, s.SaveTokens(ctx, Tokens{AccessToken: "a", RefreshToken: "r"}))
	require.NoError(t, s.Clear(ctx))

	name, err := s.Username(ctx)
	require.NoError(t, err)
	assert.Empty(t, name)
	tok, err := s.Tokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, Tokens{}, tok)
}

func TestOpen_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.db")

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SetUsername(ctx, "bob"))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	name, err := s.Username(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", name)
}

func TestOpen_MigrationError(t *testing.T) {
	orig := gooseUp
	t.Cleanup(func() { gooseUp = orig })
	gooseUp = func(context.Context, *sql.DB) error { return errors.New("boom") }

	_, err := Open(context.Background(), ":memory:")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrate session")
}

func TestClosedStore_WrapsErrors(t *testing.T) {
	s, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Username(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get session[username]")
}
