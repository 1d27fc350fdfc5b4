package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/logging"
	"github.com/dmitrijs2005/certifier/internal/server/metrics"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/repomanager"
)

// VerifiedCertificate is everything the public verification page shows.
type VerifiedCertificate struct {
	Intern       *models.Intern
	Settings     *models.Settings
	Verification *models.Verification
}

// VerificationService resolves public certificate ids.
type VerificationService struct {
	repomanager repomanager.RepositoryManager
	metrics     *metrics.Metrics
	logger      logging.Logger
	now         func() time.Time
}

// NewVerificationService constructs a VerificationService. mt may be nil.
func NewVerificationService(m repomanager.RepositoryManager, mt *metrics.Metrics, logger logging.Logger) *VerificationService {
	return &VerificationService{
		repomanager: m,
		metrics:     mt,
		logger:      logger.With("module", "verification"),
		now:         time.Now,
	}
}

// Verify counts one lookup of certificateID and returns the certificate with
// its owner's branding. The counter is incremented atomically before the
// intern and settings are loaded, so it advances even when a later stage is
// missing. Every kind of miss yields common.ErrCertificateNotFound; other
// storage failures are wrapped and returned.
func (s *VerificationService) Verify(ctx context.Context, certificateID string) (*VerifiedCertificate, error) {
	certificateID = strings.TrimSpace(certificateID)
	if certificateID == "" {
		s.metrics.Verification(metrics.VerificationNotFound)
		return nil, common.ErrCertificateNotFound
	}

	conn := s.repomanager.Conn()

	v, err := s.repomanager.Verifications(conn).Increment(ctx, certificateID, s.now().UTC())
	if err != nil {
		return nil, s.fail(ctx, certificateID, "verification", err)
	}

	intern, err := s.repomanager.Interns(conn).GetByID(ctx, v.InternID)
	if err != nil {
		return nil, s.fail(ctx, certificateID, "intern", err)
	}

	st, err := s.repomanager.Settings(conn).Get(ctx, intern.CreatedBy)
	if err != nil {
		return nil, s.fail(ctx, certificateID, "settings", err)
	}

	s.metrics.Verification(metrics.VerificationFound)
	return &VerifiedCertificate{Intern: intern, Settings: st, Verification: v}, nil
}

func (s *VerificationService) fail(ctx context.Context, certificateID, stage string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		s.metrics.Verification(metrics.VerificationNotFound)
		if stage != "verification" {
			s.logger.Warn(ctx, "dangling certificate", "certificate_id", certificateID, "missing", stage)
		}
		return common.ErrCertificateNotFound
	}
	s.metrics.Verification(metrics.VerificationError)
	s.logger.Error(ctx, "verification failed", "certificate_id", certificateID, "stage", stage, "error", err)
	return fmt.Errorf("error verifying certificate: %w", err)
}
