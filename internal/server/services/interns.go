package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/dbx"
	"github.com/dmitrijs2005/certifier/internal/logging"
	"github.com/dmitrijs2005/certifier/internal/server/csvimport"
	"github.com/dmitrijs2005/certifier/internal/server/identity"
	"github.com/dmitrijs2005/certifier/internal/server/metrics"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/dmitrijs2005/certifier/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/certifier/internal/server/validation"
)

// DefaultPageSize is used when a listing does not ask for a page size.
const DefaultPageSize = 10

// MaxPageSize caps the page size of a listing.
const MaxPageSize = 100

// RowOutcome reports what happened to one row of a bulk import. Row is
// 1-based over data rows.
type RowOutcome struct {
	Row           int
	Success       bool
	CertificateID string
	Error         error
}

// ListFilter selects a page of an owner's interns. Page is 1-based.
type ListFilter struct {
	Domain   string
	Search   string
	Page     int
	PageSize int
}

// InternPage is one page of a listing plus the total number of matches.
type InternPage struct {
	Items    []*models.Intern
	Total    int64
	Page     int
	PageSize int
}

// InternService issues certificates for single interns and bulk imports, and
// serves the owner-scoped views of them.
type InternService struct {
	repomanager repomanager.RepositoryManager
	ids         *identity.Generator
	metrics     *metrics.Metrics
	logger      logging.Logger
	now         func() time.Time
}

// NewInternService constructs an InternService issuing ids from ids. mt may be nil.
func NewInternService(m repomanager.RepositoryManager, ids *identity.Generator, mt *metrics.Metrics, logger logging.Logger) *InternService {
	return &InternService{
		repomanager: m,
		ids:         ids,
		metrics:     mt,
		logger:      logger.With("module", "interns"),
		now:         time.Now,
	}
}

// Add validates c and issues a certificate for it. The owner must have
// completed setup.
func (s *InternService) Add(ctx context.Context, ownerID string, c validation.Candidate) (*models.Intern, error) {
	if err := requireSetup(ctx, s.repomanager, ownerID); err != nil {
		return nil, err
	}
	v, err := validation.ValidateIntern(c)
	if err != nil {
		return nil, err
	}
	intern, err := s.issue(ctx, ownerID, v)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "certificate issued", "owner", ownerID, "certificate_id", intern.CertificateID)
	return intern, nil
}

// ImportBatch validates and issues every row in order. A failing row is
// reported in its outcome and does not stop the rows after it; rows already
// committed stay committed. Only batch-level problems return an error:
// csvimport.ErrBatchTooLarge and common.ErrSetupIncomplete before any row is
// touched, and identity.ErrEntropy, which stops the batch and is returned with
// the outcomes gathered so far.
func (s *InternService) ImportBatch(ctx context.Context, ownerID string, rows []validation.Candidate) ([]RowOutcome, error) {
	if len(rows) > csvimport.MaxRows {
		s.metrics.ImportBatch(metrics.BatchRejected)
		return nil, fmt.Errorf("%w: got %d", csvimport.ErrBatchTooLarge, len(rows))
	}
	if len(rows) == 0 {
		s.metrics.ImportBatch(metrics.BatchRejected)
		return nil, csvimport.ErrEmptyBatch
	}
	if err := requireSetup(ctx, s.repomanager, ownerID); err != nil {
		s.metrics.ImportBatch(metrics.BatchRejected)
		return nil, err
	}

	outcomes := make([]RowOutcome, 0, len(rows))
	for i, row := range rows {
		n := i + 1

		v, err := validation.ValidateIntern(row)
		if err != nil {
			outcomes = append(outcomes, RowOutcome{Row: n, Error: err})
			s.metrics.ImportRow(false)
			continue
		}

		intern, err := s.issue(ctx, ownerID, v)
		if err != nil {
			if errors.Is(err, identity.ErrEntropy) {
				s.logger.Error(ctx, "bulk import aborted", "owner", ownerID, "row", n, "error", err)
				s.metrics.ImportBatch(metrics.BatchAborted)
				return outcomes, fmt.Errorf("row %d: %w", n, err)
			}
			outcomes = append(outcomes, RowOutcome{Row: n, Error: err})
			s.metrics.ImportRow(false)
			continue
		}

		outcomes = append(outcomes, RowOutcome{Row: n, Success: true, CertificateID: intern.CertificateID})
		s.metrics.ImportRow(true)
	}

	ok, failed := Summarize(outcomes)
	s.metrics.ImportBatch(metrics.BatchProcessed)
	s.logger.Info(ctx, "bulk import finished", "owner", ownerID, "succeeded", ok, "failed", failed)
	return outcomes, nil
}

// Summarize counts successful and failed outcomes.
func Summarize(outcomes []RowOutcome) (succeeded, failed int) {
	for _, o := range outcomes {
		if o.Success {
			succeeded++
		} else {
			failed++
		}
	}
	return succeeded, failed
}

// issue generates identifiers and stores the intern together with a zeroed
// verification counter in one transaction.
func (s *InternService) issue(ctx context.Context, ownerID string, v *validation.Validated) (*models.Intern, error) {
	id, err := s.ids.Generate()
	if err != nil {
		return nil, err
	}

	intern := &models.Intern{
		ID:            id.InternalID,
		FullName:      v.FullName,
		Email:         v.Email,
		Domain:        v.Domain,
		StartDate:     v.StartDate,
		EndDate:       v.EndDate,
		CertificateID: id.CertificateID,
		CreatedBy:     ownerID,
		Status:        v.Status,
		CreatedAt:     s.now().UTC(),
	}

	err = s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Interns(tx).Create(ctx, intern); err != nil {
			return fmt.Errorf("error creating intern: %w", err)
		}
		if err := s.repomanager.Verifications(tx).Create(ctx, &models.Verification{
			CertificateID: intern.CertificateID,
			InternID:      intern.ID,
		}); err != nil {
			return fmt.Errorf("error creating verification record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.CertificateIssued()
	return intern, nil
}

// Get returns one of the owner's interns. Interns of other accounts are
// reported as common.ErrorNotFound.
func (s *InternService) Get(ctx context.Context, ownerID, internID string) (*models.Intern, error) {
	intern, err := s.repomanager.Interns(s.repomanager.Conn()).GetByID(ctx, internID)
	if err != nil {
		return nil, fmt.Errorf("error loading intern: %w", err)
	}
	if intern.CreatedBy != ownerID {
		return nil, common.ErrorNotFound
	}
	return intern, nil
}

// List returns one page of the owner's interns, newest first.
func (s *InternService) List(ctx context.Context, ownerID string, f ListFilter) (*InternPage, error) {
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	items, total, err := s.repomanager.Interns(s.repomanager.Conn()).List(ctx, ownerID, models.InternFilter{
		Domain: strings.TrimSpace(f.Domain),
		Search: strings.TrimSpace(f.Search),
		Limit:  size,
		Offset: (page - 1) * size,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing interns: %w", err)
	}
	return &InternPage{Items: items, Total: total, Page: page, PageSize: size}, nil
}

// Domains returns the distinct domains of the owner's interns.
func (s *InternService) Domains(ctx context.Context, ownerID string) ([]string, error) {
	d, err := s.repomanager.Interns(s.repomanager.Conn()).Domains(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error listing domains: %w", err)
	}
	return d, nil
}

// Stats aggregates the owner's dashboard counters.
func (s *InternService) Stats(ctx context.Context, ownerID string) (*models.Stats, error) {
	st, err := s.repomanager.Interns(s.repomanager.Conn()).Stats(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error computing stats: %w", err)
	}
	return st, nil
}

// VerificationURL joins the public base URL and a certificate id into the
// link printed on certificates.
func VerificationURL(baseURL, certificateID string) (string, error) {
	return url.JoinPath(baseURL, "verify", certificateID)
}
