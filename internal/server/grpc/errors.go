package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/server/assets"
	"github.com/dmitrijs2005/certifier/internal/server/auth"
	"github.com/dmitrijs2005/certifier/internal/server/csvimport"
	"github.com/dmitrijs2005/certifier/internal/server/validation"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps service errors onto gRPC status codes. Client-caused errors
// keep their message; everything else becomes an opaque Internal.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, validation.ErrValidation),
		errors.Is(err, auth.ErrWeakPassword),
		errors.Is(err, csvimport.ErrBatch),
		errors.Is(err, assets.ErrUnsupportedType):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, common.ErrSetupIncomplete),
		errors.Is(err, assets.ErrNotConfigured):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrCertificateNotFound):
		return status.Error(codes.NotFound, common.ErrCertificateNotFound.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, err.Error())
	case errors.Is(err, common.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, common.ErrUnavailable):
		return status.Error(codes.Unavailable, "storage unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
