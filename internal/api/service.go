// Package api defines the operator gRPC API of certifier: message types, the
// JSON codec they travel in, and the service descriptor shared by the server
// and the CLI client.
package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "certifier.v1.CertifierService"

// Method names.
const (
	MethodPing              = "Ping"
	MethodRegister          = "Register"
	MethodLogin             = "Login"
	MethodRefreshToken      = "RefreshToken"
	MethodVerifyCertificate = "VerifyCertificate"
	MethodSaveSettings      = "SaveSettings"
	MethodGetSettings       = "GetSettings"
	MethodAddIntern         = "AddIntern"
	MethodImportInterns     = "ImportInterns"
	MethodListInterns       = "ListInterns"
	MethodGetIntern         = "GetIntern"
	MethodListDomains       = "ListDomains"
	MethodGetStats          = "GetStats"
	MethodCreateAssetUpload = "CreateAssetUpload"
)

// FullMethod returns the gRPC path of method, e.g.
// "/certifier.v1.CertifierService/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// PublicMethods can be called without an access token.
var PublicMethods = map[string]bool{
	FullMethod(MethodPing):              true,
	FullMethod(MethodRegister):          true,
	FullMethod(MethodLogin):             true,
	FullMethod(MethodRefreshToken):      true,
	FullMethod(MethodVerifyCertificate): true,
}

// CertifierServer is implemented by the gRPC server.
type CertifierServer interface {
	Ping(context.Context, *PingRequest) (*PingResponse, error)
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*RefreshTokenResponse, error)
	VerifyCertificate(context.Context, *VerifyCertificateRequest) (*VerifyCertificateResponse, error)
	SaveSettings(context.Context, *SaveSettingsRequest) (*SaveSettingsResponse, error)
	GetSettings(context.Context, *GetSettingsRequest) (*GetSettingsResponse, error)
	AddIntern(context.Context, *AddInternRequest) (*AddInternResponse, error)
	ImportInterns(context.Context, *ImportInternsRequest) (*ImportInternsResponse, error)
	ListInterns(context.Context, *ListInternsRequest) (*ListInternsResponse, error)
	GetIntern(context.Context, *GetInternRequest) (*GetInternResponse, error)
	ListDomains(context.Context, *ListDomainsRequest) (*ListDomainsResponse, error)
	GetStats(context.Context, *GetStatsRequest) (*GetStatsResponse, error)
	CreateAssetUpload(context.Context, *CreateAssetUploadRequest) (*CreateAssetUploadResponse, error)
}

// unary adapts a typed server method to a grpc.MethodDesc handler.
func unary[Req, Resp any](method string, call func(CertifierServer, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CertifierServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CertifierServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ServiceDesc describes CertifierService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CertifierServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodPing, Handler: unary(MethodPing, CertifierServer.Ping)},
		{MethodName: MethodRegister, Handler: unary(MethodRegister, CertifierServer.Register)},
		{MethodName: MethodLogin, Handler: unary(MethodLogin, CertifierServer.Login)},
		{MethodName: MethodRefreshToken, Handler: unary(MethodRefreshToken, CertifierServer.RefreshToken)},
		{MethodName: MethodVerifyCertificate, Handler: unary(MethodVerifyCertificate, CertifierServer.VerifyCertificate)},
		{MethodName: MethodSaveSettings, Handler: unary(MethodSaveSettings, CertifierServer.SaveSettings)},
		{MethodName: MethodGetSettings, Handler: unary(MethodGetSettings, CertifierServer.GetSettings)},
		{MethodName: MethodAddIntern, Handler: unary(MethodAddIntern, CertifierServer.AddIntern)},
		{MethodName: MethodImportInterns, Handler: unary(MethodImportInterns, CertifierServer.ImportInterns)},
		{MethodName: MethodListInterns, Handler: unary(MethodListInterns, CertifierServer.ListInterns)},
		{MethodName: MethodGetIntern, Handler: unary(MethodGetIntern, CertifierServer.GetIntern)},
		{MethodName: MethodListDomains, Handler: unary(MethodListDomains, CertifierServer.ListDomains)},
		{MethodName: MethodGetStats, Handler: unary(MethodGetStats, CertifierServer.GetStats)},
		{MethodName: MethodCreateAssetUpload, Handler: unary(MethodCreateAssetUpload, CertifierServer.CreateAssetUpload)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "certifier/v1/certifier.json",
}

// RegisterCertifierServer registers srv on s.
func RegisterCertifierServer(s grpc.ServiceRegistrar, srv CertifierServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// CertifierClient is the client side of CertifierService.
type CertifierClient struct {
	cc grpc.ClientConnInterface
}

func NewCertifierClient(cc grpc.ClientConnInterface) *CertifierClient {
	return &CertifierClient{cc: cc}
}

func invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *CertifierClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingRequest, PingResponse](ctx, c.cc, MethodPing, in, opts...)
}

func (c *CertifierClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterRequest, RegisterResponse](ctx, c.cc, MethodRegister, in, opts...)
}

func (c *CertifierClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginRequest, LoginResponse](ctx, c.cc, MethodLogin, in, opts...)
}

func (c *CertifierClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*RefreshTokenResponse, error) {
	return invoke[RefreshTokenRequest, RefreshTokenResponse](ctx, c.cc, MethodRefreshToken, in, opts...)
}

func (c *CertifierClient) VerifyCertificate(ctx context.Context, in *VerifyCertificateRequest, opts ...grpc.CallOption) (*VerifyCertificateResponse, error) {
	return invoke[VerifyCertificateRequest, VerifyCertificateResponse](ctx, c.cc, MethodVerifyCertificate, in, opts...)
}

func (c *CertifierClient) SaveSettings(ctx context.Context, in *SaveSettingsRequest, opts ...grpc.CallOption) (*SaveSettingsResponse, error) {
	return invoke[SaveSettingsRequest, SaveSettingsResponse](ctx, c.cc, MethodSaveSettings, in, opts...)
}

func (c *CertifierClient) GetSettings(ctx context.Context, in *GetSettingsRequest, opts ...grpc.CallOption) (*GetSettingsResponse, error) {
	return invoke[GetSettingsRequest, GetSettingsResponse](ctx, c.cc, MethodGetSettings, in, opts...)
}

func (c *CertifierClient) AddIntern(ctx context.Context, in *AddInternRequest, opts ...grpc.CallOption) (*AddInternResponse, error) {
	return invoke[AddInternRequest, AddInternResponse](ctx, c.cc, MethodAddIntern, in, opts...)
}

func (c *CertifierClient) ImportInterns(ctx context.Context, in *ImportInternsRequest, opts ...grpc.CallOption) (*ImportInternsResponse, error) {
	return invoke[ImportInternsRequest, ImportInternsResponse](ctx, c.cc, MethodImportInterns, in, opts...)
}

func (c *CertifierClient) ListInterns(ctx context.Context, in *ListInternsRequest, opts ...grpc.CallOption) (*ListInternsResponse, error) {
	return invoke[ListInternsRequest, ListInternsResponse](ctx, c.cc, MethodListInterns, in, opts...)
}

func (c *CertifierClient) GetIntern(ctx context.Context, in *GetInternRequest, opts ...grpc.CallOption) (*GetInternResponse, error) {
	return invoke[GetInternRequest, GetInternResponse](ctx, c.cc, MethodGetIntern, in, opts...)
}

func (c *CertifierClient) ListDomains(ctx context.Context, in *ListDomainsRequest, opts ...grpc.CallOption) (*ListDomainsResponse, error) {
	return invoke[ListDomainsRequest, ListDomainsResponse](ctx, c.cc, MethodListDomains, in, opts...)
}

func (c *CertifierClient) GetStats(ctx context.Context, in *GetStatsRequest, opts ...grpc.CallOption) (*GetStatsResponse, error) {
	return invoke[GetStatsRequest, GetStatsResponse](ctx, c.cc, MethodGetStats, in, opts...)
}

func (c *CertifierClient) CreateAssetUpload(ctx context.Context, in *CreateAssetUploadRequest, opts ...grpc.CallOption) (*CreateAssetUploadResponse, error) {
	return invoke[CreateAssetUploadRequest, CreateAssetUploadResponse](ctx, c.cc, MethodCreateAssetUpload, in, opts...)
}
