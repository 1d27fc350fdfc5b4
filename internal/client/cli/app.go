package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/certifier/internal/client/client"
	"github.com/dmitrijs2005/certifier/internal/client/config"
	"github.com/dmitrijs2005/certifier/internal/client/session"
)

// Session remembers who is logged in between invocations.
type Session interface {
	Username(ctx context.Context) (string, error)
	SetUsername(ctx context.Context, name string) error
	Clear(ctx context.Context) error
	Close() error
}

// App bundles what a command needs: the server client, the local session
// and the terminal.
type App struct {
	client  client.Client
	session Session
	reader  *bufio.Reader
	out     io.Writer
	errOut  io.Writer
	timeout time.Duration
}

// NewApp assembles an App from already opened parts.
func NewApp(c client.Client, s Session, timeout time.Duration) *App {
	return &App{client: c, session: s, reader: bufio.NewReader(os.Stdin), out: os.Stdout, errOut: os.Stderr, timeout: timeout}
}

// Open is the default Opener: it opens the session file and connects to the
// server named in cfg.
func Open(ctx context.Context, cfg *config.Config) (*App, error) {
	sess, err := session.Open(ctx, cfg.SessionFile)
	if err != nil {
		return nil, err
	}

	c, err := client.NewGRPCClient(cfg.ServerEndpointAddr, sess)
	if err != nil {
		_ = sess.Close()
		return nil, err
	}

	return NewApp(c, sess, cfg.RequestTimeout), nil
}

// Close releases the connection and the session file.
func (a *App) Close() error {
	return errors.Join(a.client.Close(), a.session.Close())
}

// rpc bounds a single server call by the configured timeout.
func (a *App) rpc(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.timeout)
}
