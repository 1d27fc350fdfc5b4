// Package identity issues the two identifiers of an intern record: an opaque
// internal id used as the storage key, and the public certificate id.
package identity

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const (
	certificatePrefix = "CERT-"
	suffixLength      = 9
	base36            = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
)

// ErrEntropy is returned when the randomness source fails. It is not retried.
var ErrEntropy = errors.New("randomness source unavailable")

var certificatePattern = regexp.MustCompile(`^CERT-[0-9]+-[0-9A-Z]{9}$`)

// Identity is the pair issued for one intern.
type Identity struct {
	InternalID    string
	CertificateID string
}

// Generator issues identities. The zero value is not usable; use New.
type Generator struct {
	now  func() time.Time
	rand io.Reader
}

// Option customizes a Generator.
type Option func(*Generator)

// WithClock overrides the timestamp source of certificate ids.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithRandom overrides the randomness source of both identifiers.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) { g.rand = r }
}

// New returns a Generator using the wall clock and crypto/rand unless overridden by opts.
func New(opts ...Option) *Generator {
	g := &Generator{now: time.Now, rand: rand.Reader}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate returns a fresh identity. The certificate id has the form
// CERT-<unix milliseconds>-<9 uppercase base-36 characters>. Uniqueness is
// probabilistic; the store is not consulted.
func (g *Generator) Generate() (Identity, error) {
	internalID, err := uuid.NewRandomFromReader(g.rand)
	if err != nil {
		return Identity{}, fmt.Errorf("internal id: %w: %w", ErrEntropy, err)
	}

	suffix, err := g.suffix()
	if err != nil {
		return Identity{}, err
	}

	certificateID := certificatePrefix + strconv.FormatInt(g.now().UnixMilli(), 10) + "-" + suffix
	return Identity{InternalID: internalID.String(), CertificateID: certificateID}, nil
}

func (g *Generator) suffix() (string, error) {
	radix := big.NewInt(int64(len(base36)))
	b := make([]byte, suffixLength)
	for i := range b {
		n, err := rand.Int(g.rand, radix)
		if err != nil {
			return "", fmt.Errorf("certificate id: %w: %w", ErrEntropy, err)
		}
		b[i] = base36[n.Int64()]
	}
	return string(b), nil
}

// IsCertificateID reports whether s has the shape of an issued certificate id.
// Callers that only link to certificates should treat ids as opaque.
func IsCertificateID(s string) bool {
	return certificatePattern.MatchString(s)
}
