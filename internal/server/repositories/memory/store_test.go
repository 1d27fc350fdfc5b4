package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/datex"
	"github.com/dmitrijs2005/certifier/internal/dbx"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repomanager.RepositoryManager = (*Store)(nil)

func newIntern(id, cert, owner string, created time.Time) *models.Intern {
	start, _ := datex.ParseDate("2024-01-15")
	end, _ := datex.ParseDate("2024-04-15")
	return &models.Intern{
		ID: id, FullName: "Intern " + id, Email: id + "@example.com", Domain: "Engineering",
		StartDate: start, EndDate: end, CertificateID: cert, CreatedBy: owner,
		Status: models.StatusActive, CreatedAt: created,
	}
}

func issue(t *testing.T, s *Store, i *models.Intern) {
	t.Helper()
	require.NoError(t, s.WithTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.Interns(tx).Create(ctx, i); err != nil {
			return err
		}
		return s.Verifications(tx).Create(ctx, &models.Verification{CertificateID: i.CertificateID, InternID: i.ID})
	}))
}

func TestUsers_CreateAndLookup(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	u, err := s.Users(s.Conn()).Create(ctx, &models.User{UserName: "alice", PasswordHash: []byte("h")})
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	_, err = s.Users(s.Conn()).Create(ctx, &models.User{UserName: "alice"})
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	got, err := s.Users(s.Conn()).GetUserByLogin(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.Users(s.Conn()).GetUserByLogin(ctx, "bob")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestWithTx_RollbackUndoesEveryWrite(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		require.NoError(t, s.Interns(tx).Create(ctx, newIntern("i-1", "CERT-1-AAAAAAAAA", "o", time.Now())))
		require.NoError(t, s.Verifications(tx).Create(ctx, &models.Verification{CertificateID: "CERT-1-AAAAAAAAA", InternID: "i-1"}))
		require.NoError(t, s.Settings(tx).Upsert(ctx, &models.Settings{UserID: "o", CompanyName: "Acme"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = s.Interns(s.Conn()).GetByID(ctx, "i-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Verifications(s.Conn()).Get(ctx, "CERT-1-AAAAAAAAA")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	_, err = s.Settings(s.Conn()).Get(ctx, "o")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	// the certificate id is free again after rollback
	issue(t, s, newIntern("i-2", "CERT-1-AAAAAAAAA", "o", time.Now()))
}

func TestWithTx_RollbackOnPanic(t *testing.T) {
	s := NewStore()

	require.Panics(t, func() {
		_ = s.WithTx(context.Background(), func(ctx context.Context, tx dbx.DBTX) error {
			_ = s.Interns(tx).Create(ctx, newIntern("i-1", "CERT-1-AAAAAAAAA", "o", time.Now()))
			panic("kaput")
		})
	})

	_, err := s.Interns(s.Conn()).GetByID(context.Background(), "i-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestWithTx_CanceledContext(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.WithTx(ctx, func(context.Context, dbx.DBTX) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestInterns_UniqueCertificate(t *testing.T) {
	s := NewStore()
	issue(t, s, newIntern("i-1", "CERT-1-AAAAAAAAA", "o", time.Now()))

	err := s.Interns(s.Conn()).Create(context.Background(), newIntern("i-2", "CERT-1-AAAAAAAAA", "o", time.Now()))
	assert.ErrorIs(t, err, common.ErrAlreadyExists)
}

func TestVerifications_RequireIntern(t *testing.T) {
	s := NewStore()

	err := s.Verifications(s.Conn()).Create(context.Background(), &models.Verification{CertificateID: "CERT-9-AAAAAAAAA", InternID: "ghost"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInterns_ListFiltersAndPages(t *testing.T) {
	s := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for n, id := range []string{"a", "b", "c", "d"} {
		i := newIntern(id, "CERT-"+id+"-AAAAAAAAA", "owner", base.Add(time.Duration(n)*time.Hour))
		if id == "c" {
			i.Domain = "Design"
			i.FullName = "Grace Hopper"
		}
		issue(t, s, i)
	}
	issue(t, s, newIntern("x", "CERT-x-AAAAAAAAA", "other", base))

	repo := s.Interns(s.Conn())
	ctx := context.Background()

	all, total, err := repo.List(ctx, "owner", models.InternFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, all, 4)
	assert.Equal(t, "d", all[0].ID, "newest first")

	page, total, err := repo.List(ctx, "owner", models.InternFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, []string{"b", "a"}, []string{page[0].ID, page[1].ID})

	design, _, err := repo.List(ctx, "owner", models.InternFilter{Domain: "Design"})
	require.NoError(t, err)
	require.Len(t, design, 1)

	found, _, err := repo.List(ctx, "owner", models.InternFilter{Search: "HOPPER"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "c", found[0].ID)

	past, total, err := repo.List(ctx, "owner", models.InternFilter{Offset: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Empty(t, past)

	domains, err := repo.Domains(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, []string{"Design", "Engineering"}, domains)
}

func TestVerifications_ConcurrentIncrement(t *testing.T) {
	s := NewStore()
	issue(t, s, newIntern("i-1", "CERT-1-AAAAAAAAA", "o", time.Now()))

	const callers = 64
	var wg sync.WaitGroup
	wg.Add(callers)
	for n := 0; n < callers; n++ {
		go func() {
			defer wg.Done()
			_, err := s.Verifications(s.Conn()).Increment(context.Background(), "CERT-1-AAAAAAAAA", time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	v, err := s.Verifications(s.Conn()).Get(context.Background(), "CERT-1-AAAAAAAAA")
	require.NoError(t, err)
	assert.EqualValues(t, callers, v.Count)
	assert.NotNil(t, v.LastVerified)

	_, err = s.Verifications(s.Conn()).Increment(context.Background(), "CERT-2-AAAAAAAAA", time.Now())
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestInterns_Stats(t *testing.T) {
	s := NewStore()
	a := newIntern("a", "CERT-a-AAAAAAAAA", "owner", time.Now())
	b := newIntern("b", "CERT-b-AAAAAAAAA", "owner", time.Now())
	b.Status = models.StatusCompleted
	issue(t, s, a)
	issue(t, s, b)

	for n := 0; n < 3; n++ {
		_, err := s.Verifications(s.Conn()).Increment(context.Background(), b.CertificateID, time.Now())
		require.NoError(t, err)
	}

	st, err := s.Interns(s.Conn()).Stats(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{TotalInterns: 2, GeneratedCertificates: 1, ActiveInternships: 1, Verifications: 3}, st)

	empty, err := s.Interns(s.Conn()).Stats(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Equal(t, &models.Stats{}, empty)
}

func TestRefreshTokens(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	repo := s.RefreshTokens(s.Conn())

	require.NoError(t, repo.Create(ctx, &models.RefreshToken{Token: "t1", UserID: "u", ExpiresAt: time.Now()}))
	got, err := repo.Find(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "u", got.UserID)

	require.NoError(t, repo.Delete(ctx, "t1"))
	require.NoError(t, repo.Delete(ctx, "t1"))
	_, err = repo.Find(ctx, "t1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
