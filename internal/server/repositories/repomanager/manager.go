// Package repomanager vends storage-specific repositories bound to a
// connection or transaction handle.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/certifier/internal/dbx"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/interns"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/settings"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/users"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/verifications"
)

// RepositoryManager is the record store the services depend on.
//
// Repositories are obtained for a handle: Conn() for standalone calls, or the
// handle passed to the WithTx callback for work that must commit together.
type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() dbx.DBTX
	WithTx(ctx context.Context, fn dbx.TxFunc) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Settings(db dbx.DBTX) settings.Repository
	Interns(db dbx.DBTX) interns.Repository
	Verifications(db dbx.DBTX) verifications.Repository
	Close() error
}
