package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/dbx"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/google/uuid"
)

type userRepo struct {
	s  *Store
	db dbx.DBTX
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.userNames[user.UserName]; ok {
		return nil, fmt.Errorf("username %q: %w", user.UserName, common.ErrAlreadyExists)
	}

	user.ID = uuid.NewString()
	user.CreatedAt = r.s.now()
	stored := *user
	r.s.users[user.ID] = &stored
	r.s.userNames[user.UserName] = user.ID

	record(r.db, func() {
		delete(r.s.users, stored.ID)
		delete(r.s.userNames, stored.UserName)
	})
	return user, nil
}

func (r *userRepo) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.s.userNames[login]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := *r.s.users[id]
	return &u, nil
}

type tokenRepo struct {
	s  *Store
	db dbx.DBTX
}

func (r *tokenRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.tokens[token.Token]; ok {
		return common.ErrAlreadyExists
	}
	stored := *token
	r.s.tokens[token.Token] = &stored
	record(r.db, func() { delete(r.s.tokens, stored.Token) })
	return nil
}

func (r *tokenRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	found := *t
	return &found, nil
}

func (r *tokenRepo) Delete(ctx context.Context, token string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	t, ok := r.s.tokens[token]
	if !ok {
		return nil
	}
	delete(r.s.tokens, token)
	record(r.db, func() { r.s.tokens[token] = t })
	return nil
}

type settingsRepo struct {
	s  *Store
	db dbx.DBTX
}

func (r *settingsRepo) Upsert(ctx context.Context, st *models.Settings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	prev, existed := r.s.settings[st.UserID]
	stored := *st
	r.s.settings[st.UserID] = &stored
	record(r.db, func() {
		if existed {
			r.s.settings[stored.UserID] = prev
		} else {
			delete(r.s.settings, stored.UserID)
		}
	})
	return nil
}

func (r *settingsRepo) Get(ctx context.Context, userID string) (*models.Settings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st, ok := r.s.settings[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	found := *st
	return &found, nil
}

type internRepo struct {
	s  *Store
	db dbx.DBTX
}

func (r *internRepo) Create(ctx context.Context, i *models.Intern) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.interns[i.ID]; ok {
		return fmt.Errorf("intern %s: %w", i.ID, common.ErrAlreadyExists)
	}
	if _, ok := r.s.certificates[i.CertificateID]; ok {
		return fmt.Errorf("certificate %s: %w", i.CertificateID, common.ErrAlreadyExists)
	}

	stored := *i
	r.s.interns[i.ID] = &stored
	r.s.certificates[i.CertificateID] = i.ID
	record(r.db, func() {
		delete(r.s.interns, stored.ID)
		delete(r.s.certificates, stored.CertificateID)
	})
	return nil
}

func (r *internRepo) GetByID(ctx context.Context, id string) (*models.Intern, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i, ok := r.s.interns[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	found := *i
	return &found, nil
}

func matches(i *models.Intern, ownerID string, f models.InternFilter) bool {
	if i.CreatedBy != ownerID {
		return false
	}
	if f.Domain != "" && i.Domain != f.Domain {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(i.FullName), q) && !strings.Contains(strings.ToLower(i.Email), q) {
			return false
		}
	}
	return true
}

func (r *internRepo) List(ctx context.Context, ownerID string, f models.InternFilter) ([]*models.Intern, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := make([]*models.Intern, 0)
	for _, i := range r.s.interns {
		if matches(i, ownerID, f) {
			found := *i
			all = append(all, &found)
		}
	}

	sort.Slice(all, func(a, b int) bool {
		if !all[a].CreatedAt.Equal(all[b].CreatedAt) {
			return all[a].CreatedAt.After(all[b].CreatedAt)
		}
		return all[a].ID < all[b].ID
	})

	total := int64(len(all))
	if f.Offset > 0 {
		if f.Offset >= len(all) {
			return []*models.Intern{}, total, nil
		}
		all = all[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(all) {
		all = all[:f.Limit]
	}
	return all, total, nil
}

func (r *internRepo) Domains(ctx context.Context, ownerID string) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	seen := make(map[string]struct{})
	domains := make([]string, 0)
	for _, i := range r.s.interns {
		if i.CreatedBy != ownerID {
			continue
		}
		if _, ok := seen[i.Domain]; ok {
			continue
		}
		seen[i.Domain] = struct{}{}
		domains = append(domains, i.Domain)
	}
	sort.Strings(domains)
	return domains, nil
}

func (r *internRepo) Stats(ctx context.Context, ownerID string) (*models.Stats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	st := &models.Stats{}
	for _, i := range r.s.interns {
		if i.CreatedBy != ownerID {
			continue
		}
		st.TotalInterns++
		switch i.Status {
		case models.StatusCompleted:
			st.GeneratedCertificates++
		case models.StatusActive:
			st.ActiveInternships++
		}
		if v, ok := r.s.verifications[i.CertificateID]; ok {
			st.Verifications += v.Count
		}
	}
	return st, nil
}

type verificationRepo struct {
	s  *Store
	db dbx.DBTX
}

func (r *verificationRepo) Create(ctx context.Context, v *models.Verification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.verifications[v.CertificateID]; ok {
		return fmt.Errorf("verification %s: %w", v.CertificateID, common.ErrAlreadyExists)
	}
	if id, ok := r.s.certificates[v.CertificateID]; !ok || id != v.InternID {
		return fmt.Errorf("verification %s has no matching intern: %w", v.CertificateID, common.ErrorNotFound)
	}

	stored := *v
	r.s.verifications[v.CertificateID] = &stored
	record(r.db, func() { delete(r.s.verifications, stored.CertificateID) })
	return nil
}

func (r *verificationRepo) Get(ctx context.Context, certificateID string) (*models.Verification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.verifications[certificateID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return copyVerification(v), nil
}

func (r *verificationRepo) Increment(ctx context.Context, certificateID string, at time.Time) (*models.Verification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	v, ok := r.s.verifications[certificateID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	prevCount, prevLast := v.Count, v.LastVerified
	v.Count++
	stamp := at
	v.LastVerified = &stamp
	record(r.db, func() {
		v.Count = prevCount
		v.LastVerified = prevLast
	})
	return copyVerification(v), nil
}

func copyVerification(v *models.Verification) *models.Verification {
	c := *v
	if v.LastVerified != nil {
		t := *v.LastVerified
		c.LastVerified = &t
	}
	return &c
}
