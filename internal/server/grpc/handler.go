package grpc

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/server/assets"
	"github.com/dmitrijs2005/certifier/internal/server/csvimport"
	"github.com/dmitrijs2005/certifier/internal/server/identity"
	"github.com/dmitrijs2005/certifier/internal/server/services"
	"github.com/dmitrijs2005/certifier/internal/server/views"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// owner returns the authenticated account id. The interceptor guarantees it
// on every non-public method.
func owner(ctx context.Context) (string, error) {
	id, ok := UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *api.PingRequest) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	s.logger.Info(ctx, "Registration request")

	u, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", u.UserName)
	return &api.RegisterResponse{UserID: u.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.LoginResponse, error) {
	tokens, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.LoginResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *api.RefreshTokenRequest) (*api.RefreshTokenResponse, error) {
	tokens, err := s.users.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RefreshTokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil
}

func (s *GRPCServer) VerifyCertificate(ctx context.Context, req *api.VerifyCertificateRequest) (*api.VerifyCertificateResponse, error) {
	vc, err := s.verification.Verify(ctx, req.CertificateID)
	if err != nil {
		return nil, toStatus(err)
	}
	cert, err := views.Certificate(ctx, s.assets, vc)
	if err != nil {
		s.logger.Error(ctx, "render certificate", "certificate_id", req.CertificateID, "error", err)
		return nil, toStatus(err)
	}
	return &api.VerifyCertificateResponse{Certificate: cert}, nil
}

func (s *GRPCServer) SaveSettings(ctx context.Context, req *api.SaveSettingsRequest) (*api.SaveSettingsResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.settings.Save(ctx, userID, views.SettingsInput(req.Settings))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.SaveSettingsResponse{Settings: views.Settings(st)}, nil
}

func (s *GRPCServer) GetSettings(ctx context.Context, req *api.GetSettingsRequest) (*api.GetSettingsResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetSettingsResponse{Settings: views.Settings(st)}, nil
}

func (s *GRPCServer) AddIntern(ctx context.Context, req *api.AddInternRequest) (*api.AddInternResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	intern, err := s.interns.Add(ctx, userID, views.InternInput(req.Intern))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.AddInternResponse{Intern: views.Intern(intern, s.publicBaseURL)}, nil
}

// ImportInterns parses the CSV document and imports it row by row. Batch-level
// problems fail the call; row failures are reported in the outcomes. A batch
// stopped by an identity failure still returns the rows processed so far.
func (s *GRPCServer) ImportInterns(ctx context.Context, req *api.ImportInternsRequest) (*api.ImportInternsResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := csvimport.Parse(strings.NewReader(req.CSV))
	if err != nil {
		return nil, toStatus(err)
	}

	outcomes, err := s.interns.ImportBatch(ctx, userID, rows)
	resp := &api.ImportInternsResponse{Outcomes: views.RowOutcomes(outcomes)}
	resp.Succeeded, resp.Failed = services.Summarize(outcomes)

	if err != nil {
		if !errors.Is(err, identity.ErrEntropy) {
			return nil, toStatus(err)
		}
		resp.Aborted = true
		resp.Reason = "certificate id generation failed; remaining rows were not processed"
	}
	return resp, nil
}

func (s *GRPCServer) ListInterns(ctx context.Context, req *api.ListInternsRequest) (*api.ListInternsResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	page, err := s.interns.List(ctx, userID, services.ListFilter{
		Domain:   req.Domain,
		Search:   req.Search,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ListInternsResponse{
		Interns:  views.Interns(page.Items, s.publicBaseURL),
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}, nil
}

func (s *GRPCServer) GetIntern(ctx context.Context, req *api.GetInternRequest) (*api.GetInternResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	intern, err := s.interns.Get(ctx, userID, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetInternResponse{Intern: views.Intern(intern, s.publicBaseURL)}, nil
}

func (s *GRPCServer) ListDomains(ctx context.Context, req *api.ListDomainsRequest) (*api.ListDomainsResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	domains, err := s.interns.Domains(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ListDomainsResponse{Domains: domains}, nil
}

func (s *GRPCServer) GetStats(ctx context.Context, req *api.GetStatsRequest) (*api.GetStatsResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.interns.Stats(ctx, userID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.GetStatsResponse{Stats: views.Stats(st)}, nil
}

func (s *GRPCServer) CreateAssetUpload(ctx context.Context, req *api.CreateAssetUploadRequest) (*api.CreateAssetUploadResponse, error) {
	userID, err := owner(ctx)
	if err != nil {
		return nil, err
	}
	if s.uploads == nil {
		return nil, toStatus(assets.ErrNotConfigured)
	}
	up, err := s.uploads.PresignUpload(ctx, userID, req.ContentType)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.CreateAssetUploadResponse{Reference: up.Reference, UploadURL: up.URL}, nil
}
