// Package grpc serves the operator API defined in package api.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/logging"
	"github.com/dmitrijs2005/certifier/internal/server/assets"
	"github.com/dmitrijs2005/certifier/internal/server/models"
	"github.com/dmitrijs2005/certifier/internal/server/services"
	"github.com/dmitrijs2005/certifier/internal/server/validation"
	"github.com/dmitrijs2005/certifier/internal/server/views"
	"google.golang.org/grpc"
)

// UserService is the account API the server needs.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UserIDFromAccessToken(token string) (string, error)
}

type SettingsService interface {
	Save(ctx context.Context, ownerID string, input validation.SettingsInput) (*models.Settings, error)
	Get(ctx context.Context, ownerID string) (*models.Settings, error)
}

type InternService interface {
	Add(ctx context.Context, ownerID string, c validation.Candidate) (*models.Intern, error)
	ImportBatch(ctx context.Context, ownerID string, rows []validation.Candidate) ([]services.RowOutcome, error)
	List(ctx context.Context, ownerID string, f services.ListFilter) (*services.InternPage, error)
	Get(ctx context.Context, ownerID, internID string) (*models.Intern, error)
	Domains(ctx context.Context, ownerID string) ([]string, error)
	Stats(ctx context.Context, ownerID string) (*models.Stats, error)
}

type VerificationService interface {
	Verify(ctx context.Context, certificateID string) (*services.VerifiedCertificate, error)
}

// AssetUploader hands out presigned upload targets for branding images.
type AssetUploader interface {
	PresignUpload(ctx context.Context, ownerID, contentType string) (*assets.Upload, error)
}

// Deps are the collaborators of a GRPCServer.
type Deps struct {
	Users         UserService
	Settings      SettingsService
	Interns       InternService
	Verification  VerificationService
	Assets        views.AssetResolver
	Uploads       AssetUploader
	PublicBaseURL string
}

type GRPCServer struct {
	address       string
	logger        logging.Logger
	users         UserService
	settings      SettingsService
	interns       InternService
	verification  VerificationService
	assets        views.AssetResolver
	uploads       AssetUploader
	publicBaseURL string
}

func NewGRPCServer(address string, l logging.Logger, d Deps) *GRPCServer {
	return &GRPCServer{
		address:       address,
		logger:        l.With("module", "grpc_server"),
		users:         d.Users,
		settings:      d.Settings,
		interns:       d.Interns,
		verification:  d.Verification,
		assets:        d.Assets,
		uploads:       d.Uploads,
		publicBaseURL: d.PublicBaseURL,
	}
}

// NewServer builds a grpc.Server with the certifier service and interceptors
// registered.
func (s *GRPCServer) NewServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	api.RegisterCertifierServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	serveDone := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			s.logger.Info(context.Background(), "Stopping gRPC server...")
			srv.GracefulStop()
		case <-serveDone:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	err := srv.Serve(lis)
	close(serveDone)
	<-stopped
	return err
}
