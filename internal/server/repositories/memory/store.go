// Package memory is a process-local record store implementing
// repomanager.RepositoryManager. It backs development runs and service tests.
//
// Transactions are serialized and undone on failure. Reads outside a
// transaction may observe its uncommitted writes.
package memory

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/certifier/internal/dbx"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/interns"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/settings"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/users"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/verifications"
)

var errNoSQL = errors.New("memory store does not execute SQL")

// handle is the dbx.DBTX passed to repository factories. A nil handle means
// no transaction; a non-nil one collects undo steps.
type handle struct {
	undo []func()
}

func (h *handle) ExecContext(context.Context, string, ...any) (sql.Result, error) {
	return nil, errNoSQL
}

func (h *handle) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (h *handle) QueryRowContext(context.Context, string, ...any) *sql.Row {
	return nil
}

// Store holds every record kind in maps guarded by mu.
type Store struct {
	mu   sync.Mutex
	txMu sync.Mutex
	now  func() time.Time

	users         map[string]*models.User
	userNames     map[string]string
	tokens        map[string]*models.RefreshToken
	settings      map[string]*models.Settings
	interns       map[string]*models.Intern
	certificates  map[string]string
	verifications map[string]*models.Verification
}

func NewStore() *Store {
	return &Store{
		now:           time.Now,
		users:         make(map[string]*models.User),
		userNames:     make(map[string]string),
		tokens:        make(map[string]*models.RefreshToken),
		settings:      make(map[string]*models.Settings),
		interns:       make(map[string]*models.Intern),
		certificates:  make(map[string]string),
		verifications: make(map[string]*models.Verification),
	}
}

func (s *Store) RunMigrations(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func (s *Store) Conn() dbx.DBTX {
	return (*handle)(nil)
}

// WithTx runs fn in a serialized transaction. When fn fails or panics, every
// write made through the transaction handle is undone in reverse order.
func (s *Store) WithTx(ctx context.Context, fn dbx.TxFunc) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	h := &handle{}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(h)
			panic(p)
		}
		if err != nil {
			s.rollback(h)
		}
	}()

	return fn(ctx, h)
}

func (s *Store) rollback(h *handle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(h.undo) - 1; i >= 0; i-- {
		h.undo[i]()
	}
}

// record registers an undo step; it must be called with mu held.
func record(db dbx.DBTX, undo func()) {
	if h, ok := db.(*handle); ok && h != nil {
		h.undo = append(h.undo, undo)
	}
}

func (s *Store) Users(db dbx.DBTX) users.Repository {
	return &userRepo{s: s, db: db}
}

func (s *Store) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return &tokenRepo{s: s, db: db}
}

func (s *Store) Settings(db dbx.DBTX) settings.Repository {
	return &settingsRepo{s: s, db: db}
}

func (s *Store) Interns(db dbx.DBTX) interns.Repository {
	return &internRepo{s: s, db: db}
}

func (s *Store) Verifications(db dbx.DBTX) verifications.Repository {
	return &verificationRepo{s: s, db: db}
}
