package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/certifier/internal/logging"
	"github.com/dmitrijs2005/certifier/internal/server/config"
	"github.com/dmitrijs2005/certifier/internal/server/identity"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/memory"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/certifier/internal/server/validation"
	"github.com/stretchr/testify/require"
)

func testLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard, false)
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
}

func validSettings() validation.SettingsInput {
	return validation.SettingsInput{
		CompanyName:         "Acme Labs",
		CompanyLogo:         "data:image/png;base64,iVBORw0KGgo=",
		SupervisorName:      "Grace Hopper",
		SupervisorSignature: "https://cdn.example.com/sig/grace.png",
		CEOName:             "Ada Lovelace",
		CEOSignature:        "s3://signatures/ada.png",
		SelectedTemplate:    "modern",
	}
}

func candidate(name string) validation.Candidate {
	return validation.Candidate{
		FullName:  name,
		Email:     "intern@example.com",
		Domain:    "Web Development",
		StartDate: "2024-01-01",
		EndDate:   "2024-04-01",
	}
}

type fixture struct {
	store        *memory.Store
	users        *UserService
	settings     *SettingsService
	interns      *InternService
	verification *VerificationService
}

func newFixture(t *testing.T, opts ...identity.Option) *fixture {
	t.Helper()
	store := memory.NewStore()
	return newFixtureWith(t, store, opts...)
}

func newFixtureWith(t *testing.T, m repomanager.RepositoryManager, opts ...identity.Option) *fixture {
	t.Helper()
	f := &fixture{
		users:        NewUserService(m, testConfig()),
		settings:     NewSettingsService(m),
		interns:      NewInternService(m, identity.New(opts...), nil, testLogger()),
		verification: NewVerificationService(m, nil, testLogger()),
	}
	if s, ok := m.(*memory.Store); ok {
		f.store = s
	}
	return f
}

// owner registers an account with completed setup and returns its id.
func (f *fixture) owner(t *testing.T, name string) string {
	t.Helper()
	ctx := context.Background()
	u, err := f.users.Register(ctx, name, "password123")
	require.NoError(t, err)
	_, err = f.settings.Save(ctx, u.ID, validSettings())
	require.NoError(t, err)
	return u.ID
}
