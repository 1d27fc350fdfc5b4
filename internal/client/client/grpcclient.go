package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/dmitrijs2005/certifier/internal/api"
	"github.com/dmitrijs2005/certifier/internal/client/session"
	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/netx"
	"github.com/gabriel-vasile/mimetype"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// MaxAssetSize bounds branding images accepted by UploadAsset.
const MaxAssetSize = 5 << 20

type GRPCClient struct {
	conn   *grpc.ClientConn
	client certifierRPC
	tokens TokenStore
	http   *http.Client
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the stored access token to protected calls.
// When the server reports it expired, the token pair is rotated once with the
// refresh token, persisted, and the call retried.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if api.PublicMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	tok, err := s.tokens.Tokens(ctx)
	if err != nil {
		return err
	}
	if tok.AccessToken == "" {
		return ErrNotLoggedIn
	}

	err = invoker(withAccessToken(ctx, tok.AccessToken), method, req, reply, cc, opts...)
	if err == nil {
		return nil
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if tok.RefreshToken == "" {
		return err
	}

	resp, err := s.client.RefreshToken(ctx, &api.RefreshTokenRequest{RefreshToken: tok.RefreshToken})
	if err != nil {
		return err
	}

	tok = session.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}
	if err := s.tokens.SaveTokens(ctx, tok); err != nil {
		return err
	}

	return invoker(withAccessToken(ctx, tok.AccessToken), method, req, reply, cc, opts...)
}

// NewGRPCClient connects to addr without TLS. Extra dial options are
// appended, which tests use to plug in an in-memory listener.
func NewGRPCClient(addr string, tokens TokenStore, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{tokens: tokens}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = api.NewCertifierClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &api.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Register(ctx context.Context, username, password string) error {
	_, err := s.client.Register(ctx, &api.RegisterRequest{Username: username, Password: password})
	return s.mapError(err)
}

// Login authenticates and stores the issued token pair.
func (s *GRPCClient) Login(ctx context.Context, username, password string) error {
	resp, err := s.client.Login(ctx, &api.LoginRequest{Username: username, Password: password})
	if err != nil {
		return s.mapError(err)
	}
	return s.tokens.SaveTokens(ctx, session.Tokens{AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken})
}

func (s *GRPCClient) Verify(ctx context.Context, certificateID string) (*api.Certificate, error) {
	resp, err := s.client.VerifyCertificate(ctx, &api.VerifyCertificateRequest{CertificateID: certificateID})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Certificate, nil
}

func (s *GRPCClient) SaveSettings(ctx context.Context, settings api.Settings) (*api.Settings, error) {
	resp, err := s.client.SaveSettings(ctx, &api.SaveSettingsRequest{Settings: settings})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Settings, nil
}

func (s *GRPCClient) GetSettings(ctx context.Context) (*api.Settings, error) {
	resp, err := s.client.GetSettings(ctx, &api.GetSettingsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Settings, nil
}

func (s *GRPCClient) AddIntern(ctx context.Context, in api.InternInput) (*api.Intern, error) {
	resp, err := s.client.AddIntern(ctx, &api.AddInternRequest{Intern: in})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Intern, nil
}

func (s *GRPCClient) ImportInterns(ctx context.Context, csv string) (*api.ImportInternsResponse, error) {
	resp, err := s.client.ImportInterns(ctx, &api.ImportInternsRequest{CSV: csv})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) ListInterns(ctx context.Context, req api.ListInternsRequest) (*api.ListInternsResponse, error) {
	resp, err := s.client.ListInterns(ctx, &req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp, nil
}

func (s *GRPCClient) GetIntern(ctx context.Context, id string) (*api.Intern, error) {
	resp, err := s.client.GetIntern(ctx, &api.GetInternRequest{ID: id})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Intern, nil
}

func (s *GRPCClient) Domains(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListDomains(ctx, &api.ListDomainsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Domains, nil
}

func (s *GRPCClient) Stats(ctx context.Context) (*api.Stats, error) {
	resp, err := s.client.GetStats(ctx, &api.GetStatsRequest{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return &resp.Stats, nil
}

// UploadAsset sends the image at path to object storage through a presigned
// URL and returns the s3:// reference to use in settings.
func (s *GRPCClient) UploadAsset(ctx context.Context, path string) (string, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if len(body) > MaxAssetSize {
		return "", fmt.Errorf("%w: %d bytes, limit %d", ErrAssetTooLarge, len(body), MaxAssetSize)
	}

	contentType := mimetype.Detect(body).String()
	resp, err := s.client.CreateAssetUpload(ctx, &api.CreateAssetUploadRequest{ContentType: contentType})
	if err != nil {
		return "", s.mapError(err)
	}

	if err := netx.UploadToPresignedURL(ctx, s.http, resp.UploadURL, contentType, body); err != nil {
		return "", err
	}
	return resp.Reference, nil
}

// mapError turns gRPC statuses into the package sentinels, keeping the
// server's message for the operator.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotLoggedIn) {
		return err
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
