package client

import (
	"context"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/client/session"
	"google.golang.org/grpc"
)

// Client is the operator-facing API of the certifier server.
type Client interface {
	Close() error
	Ping(ctx context.Context) error
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Verify(ctx context.Context, certificateID string) (*api.Certificate, error)
	SaveSettings(ctx context.Context, s api.Settings) (*api.Settings, error)
	GetSettings(ctx context.Context) (*api.Settings, error)
	AddIntern(ctx context.Context, in api.InternInput) (*api.Intern, error)
	ImportInterns(ctx context.Context, csv string) (*api.ImportInternsResponse, error)
	ListInterns(ctx context.Context, req api.ListInternsRequest) (*api.ListInternsResponse, error)
	GetIntern(ctx context.Context, id string) (*api.Intern, error)
	Domains(ctx context.Context) ([]string, error)
	Stats(ctx context.Context) (*api.Stats, error)
	UploadAsset(ctx context.Context, path string) (string, error)
}

// TokenStore persists the session credentials between invocations.
type TokenStore interface {
	Tokens(ctx context.Context) (session.Tokens, error)
	SaveTokens(ctx context.Context, t session.Tokens) error
}

// certifierRPC is the subset of *api.CertifierClient used here.
type certifierRPC interface {
	Ping(ctx context.Context, in *api.PingRequest, opts ...grpc.CallOption) (*api.PingResponse, error)
	Register(ctx context.Context, in *api.RegisterRequest, opts ...grpc.CallOption) (*api.RegisterResponse, error)
	Login(ctx context.Context, in *api.LoginRequest, opts ...grpc.CallOption) (*api.LoginResponse, error)
	RefreshToken(ctx context.Context, in *api.RefreshTokenRequest, opts ...grpc.CallOption) (*api.RefreshTokenResponse, error)
	VerifyCertificate(ctx context.Context, in *api.VerifyCertificateRequest, opts ...grpc.CallOption) (*api.VerifyCertificateResponse, error)
	SaveSettings(ctx context.Context, in *api.SaveSettingsRequest, opts ...grpc.CallOption) (*api.SaveSettingsResponse, error)
	GetSettings(ctx context.Context, in *api.GetSettingsRequest, opts ...grpc.CallOption) (*api.GetSettingsResponse, error)
	AddIntern(ctx context.Context, in *api.AddInternRequest, opts ...grpc.CallOption) (*api.AddInternResponse, error)
	ImportInterns(ctx context.Context, in *api.ImportInternsRequest, opts ...grpc.CallOption) (*api.ImportInternsResponse, error)
	ListInterns(ctx context.Context, in *api.ListInternsRequest, opts ...grpc.CallOption) (*api.ListInternsResponse, error)
	GetIntern(ctx context.Context, in *api.GetInternRequest, opts ...grpc.CallOption) (*api.GetInternResponse, error)
	ListDomains(ctx context.Context, in *api.ListDomainsRequest, opts ...grpc.CallOption) (*api.ListDomainsResponse, error)
	GetStats(ctx context.Context, in *api.GetStatsRequest, opts ...grpc.CallOption) (*api.GetStatsResponse, error)
	CreateAssetUpload(ctx context.Context, in *api.CreateAssetUploadRequest, opts ...grpc.CallOption) (*api.CreateAssetUploadResponse, error)
}
