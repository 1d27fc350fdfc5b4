// Package httpapi serves the public HTTP surface: certificate verification,
// the CSV import template, health and metrics.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/certifier/internal/common"
	"github.com/dmitrijs2005/certifier/internal/logging"
	"github.com/dmitrijs2005/certifier/internal/server/csvimport"
	"github.com/dmitrijs2005/certifier/internal/server/metrics"
	"github.com/dmitrijs2005/certifier/internal/server/services"
	"github.com/dmitrijs2005/certifier/internal/server/views"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Verifier resolves public certificate ids.
type Verifier interface {
	Verify(ctx context.Context, certificateID string) (*services.VerifiedCertificate, error)
}

type Server struct {
	address         string
	logger          logging.Logger
	verifier        Verifier
	assets          views.AssetResolver
	metrics         *metrics.Metrics
	shutdownTimeout time.Duration
}

func NewServer(address string, l logging.Logger, v Verifier, a views.AssetResolver, m *metrics.Metrics, shutdownTimeout time.Duration) *Server {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &Server{
		address:         address,
		logger:          l.With("module", "http_server"),
		verifier:        v,
		assets:          a,
		metrics:         m,
		shutdownTimeout: shutdownTimeout,
	}
}

// Router returns the chi router with every route mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.healthz)
	r.Get("/verify/{certificateId}", s.verify)
	r.Get("/templates/interns.csv", s.template)
	r.Handle("/metrics", s.metrics.Handler())
	return r
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, lis)
}

// Serve handles requests on lis until ctx is cancelled, then shuts down,
// waiting up to the shutdown timeout for in-flight requests.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	srv := &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(context.Background(), "Stopping HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		code := ww.Status()
		if code == 0 {
			code = http.StatusOK
		}
		s.metrics.ObserveHTTP(route, code, time.Since(start))
		s.logger.Debug(r.Context(), "http request", "route", route, "code", code, "request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) verify(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "certificateId")

	vc, err := s.verifier.Verify(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrCertificateNotFound) {
			writeError(w, http.StatusNotFound, common.ErrCertificateNotFound.Error())
			return
		}
		s.logger.Error(r.Context(), "verify certificate", "certificate_id", id, "error", err)
		writeError(w, statusFor(err), "verification is temporarily unavailable")
		return
	}

	cert, err := views.Certificate(r.Context(), s.assets, vc)
	if err != nil {
		s.logger.Error(r.Context(), "render certificate", "certificate_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, cert)
}

func (s *Server) template(w http.ResponseWriter, r *http.Request) {
	body := csvimport.Template()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="interns.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	_, _ = w.Write([]byte(body))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, common.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
