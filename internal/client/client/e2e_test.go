package client

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/client/session"
	"github.com/dmitrijs2005/certifier/internal/logging"
	"github.com/dmitrijs2005/certifier/internal/server/config"
	grpcserver "github.com/dmitrijs2005/certifier/internal/server/grpc"
	"github.com/dmitrijs2005/certifier/internal/server/identity"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/memory"
	"github.com/dmitrijs2005/certifier/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

type passthroughAssets struct{}

func (passthroughAssets) Resolve(_ context.Context, ref string) (string, error) { return ref, nil }

func startServer(t *testing.T) *GRPCClient {
	t.Helper()
	logger := logging.NewJSONLogger(io.Discard, false)
	store := memory.NewStore()
	cfg := &config.Config{SecretKey: "secret", AccessTokenValidityDuration: time.Hour, RefreshTokenValidityDuration: time.Hour}
	srv := grpcserver.NewGRPCServer("127.0.0.1:0", logger, grpcserver.Deps{
		Users:         services.NewUserService(store, cfg),
		Settings:      services.NewSettingsService(store),
		Interns:       services.NewInternService(store, identity.New(), nil, logger),
		Verification:  services.NewVerificationService(store, nil, logger),
		Assets:        passthroughAssets{},
		PublicBaseURL: "https://certs.example.com",
	})

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, lis) }()

	sess, err := session.Open(context.Background(), ":memory:")
	require.NoError(t, err)

	c, err := NewGRPCClient("passthrough:///bufnet", sess,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		_ = sess.Close()
		cancel()
		<-done
	})
	return c
}

func TestGRPCClient_OperatorFlow(t *testing.T) {
	c := startServer(t)
	ctx := context.Background()

	require.NoError(t, c.Ping(ctx))

	_, err := c.Stats(ctx)
	require.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, c.Register(ctx, "operator", "correct horse"))
	require.ErrorIs(t, c.Login(ctx, "operator", "wrong password"), ErrUnauthorized)
	require.NoError(t, c.Login(ctx, "operator", "correct horse"))

	_, err = c.AddIntern(ctx, api.InternInput{FullName: "Ada", Domain: "AI", StartDate: "2024-01-01", EndDate: "2024-03-01"})
	require.ErrorIs(t, err, ErrRejected, "setup must come first")

	_, err = c.SaveSettings(ctx, api.Settings{
		CompanyName:         "Acme Labs",
		CompanyLogo:         "https://cdn.example.com/logo.png",
		SupervisorName:      "Grace Hopper",
		SupervisorSignature: "https://cdn.example.com/grace.png",
		CEOName:             "Ada Lovelace",
		CEOSignature:        "https://cdn.example.com/ada.png",
		SelectedTemplate:    "classic",
	})
	require.NoError(t, err)

	in, err := c.AddIntern(ctx, api.InternInput{FullName: "Ada", Domain: "AI", StartDate: "2024-01-01", EndDate: "2024-03-01"})
	require.NoError(t, err)
	assert.Regexp(t, `^CERT-\d+-[0-9A-Z]{9}$`, in.CertificateID)

	res, err := c.ImportInterns(ctx, "fullName,email,domain,startDate,endDate,status\nBob,,Web,2024-01-01,2024-02-01,\nEve,,Web,2024-05-01,2024-02-01,\n")
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)

	for i := 0; i < 2; i++ {
		_, err = c.Verify(ctx, in.CertificateID)
		require.NoError(t, err)
	}
	cert, err := c.Verify(ctx, in.CertificateID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, cert.VerificationCount)

	_, err = c.Verify(ctx, "CERT-0-NOPE")
	require.ErrorIs(t, err, ErrNotFound)

	domains, err := c.Domains(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"AI", "Web"}, domains)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalInterns)
	assert.EqualValues(t, 3, stats.Verifications)
}
