package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/certifier/internal/server/validation"
)

// SettingsService stores the branding of an account.
type SettingsService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

// NewSettingsService constructs a SettingsService over the given repositories.
func NewSettingsService(m repomanager.RepositoryManager) *SettingsService {
	return &SettingsService{repomanager: m, now: time.Now}
}

// Save validates input and replaces the account's settings. A successful save
// marks setup as completed; the first save's CreatedAt is kept afterwards.
func (s *SettingsService) Save(ctx context.Context, ownerID string, input validation.SettingsInput) (*models.Settings, error) {
	if err := validation.ValidateSettings(&input); err != nil {
		return nil, err
	}

	repo := s.repomanager.Settings(s.repomanager.Conn())

	createdAt := s.now()
	prev, err := repo.Get(ctx, ownerID)
	switch {
	case err == nil:
		createdAt = prev.CreatedAt
	case !errors.Is(err, common.ErrorNotFound):
		return nil, fmt.Errorf("error loading settings: %w", err)
	}

	st := &models.Settings{
		UserID:              ownerID,
		CompanyName:         input.CompanyName,
		CompanyLogo:         input.CompanyLogo,
		SupervisorName:      input.SupervisorName,
		SupervisorSignature: input.SupervisorSignature,
		CEOName:             input.CEOName,
		CEOSignature:        input.CEOSignature,
		SelectedTemplate:    input.SelectedTemplate,
		SetupCompleted:      true,
		CreatedAt:           createdAt,
	}
	if err := repo.Upsert(ctx, st); err != nil {
		return nil, fmt.Errorf("error saving settings: %w", err)
	}
	return st, nil
}

// Get returns the account's settings or common.ErrorNotFound.
func (s *SettingsService) Get(ctx context.Context, ownerID string) (*models.Settings, error) {
	st, err := s.repomanager.Settings(s.repomanager.Conn()).Get(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error loading settings: %w", err)
	}
	return st, nil
}

// requireSetup fails with common.ErrSetupIncomplete unless the owner has
// saved complete settings.
func requireSetup(ctx context.Context, m repomanager.RepositoryManager, ownerID string) error {
	st, err := m.Settings(m.Conn()).Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrSetupIncomplete
		}
		return fmt.Errorf("error loading settings: %w", err)
	}
	if !st.SetupCompleted {
		return common.ErrSetupIncomplete
	}
	return nil
}
