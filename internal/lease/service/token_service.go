// Package service provides the delegation token service: stateless, signed
// proofs of a lease that verify without a store lookup.
package service

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/allisson/leasehold/internal/errors"
	leaseDomain "github.com/allisson/leasehold/internal/lease/domain"
)

// Claims is the delegation token claim set. A token asserts that ownerId
// holds the identified lease over organismId.
type Claims struct {
	jwt.RegisteredClaims
	LeaseID    string `json:"leaseId"`
	OwnerID    string `json:"ownerId"`
	OrganismID string `json:"organismId"`
}

// VerifyResult is the outcome of a token verification. Invalid signatures,
// expired tokens, and tampered claims all yield Valid=false with the cause in
// Err; verification never panics and callers must branch on Valid.
type VerifyResult struct {
	Valid  bool
	Claims *Claims
	Err    error
}

// TokenService signs and verifies delegation tokens using HMAC-SHA256.
//
// Signing secret resolution order: explicit secret value, then the
// configured secret file path, then the project-default file path, then
// generate-and-persist a new random secret. The resolved secret is cached so
// repeated calls are deterministic within a process.
type TokenService struct {
	secretValue string
	secretFile  string

	mu     sync.Mutex
	cached []byte

	now func() time.Time
}

// DefaultSecretFile is the project-default signing secret path.
const DefaultSecretFile = "lease_secret"

// NewTokenService creates a TokenService. secretValue takes precedence over
// secretFile; an empty secretFile falls back to DefaultSecretFile.
func NewTokenService(secretValue, secretFile string) *TokenService {
	if secretFile == "" {
		secretFile = DefaultSecretFile
	}
	return &TokenService{
		secretValue: secretValue,
		secretFile:  secretFile,
		now:         time.Now,
	}
}

// Sign builds a delegation token from a lease. The claim set carries the
// lease identifiers and issued-at; leases with an expiry produce tokens with
// a matching exp claim. extra claims, if any, are merged into the payload.
func (s *TokenService) Sign(lease *leaseDomain.Lease, extra map[string]any) (string, error) {
	secret, err := s.resolveSecret()
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"leaseId":    lease.ID,
		"ownerId":    lease.OwnerID,
		"organismId": lease.OrganismID,
		"iat":        s.now().UTC().Unix(),
	}
	if lease.ExpiresAt != nil {
		claims["exp"] = lease.ExpiresAt.UTC().Unix()
	}
	for key, value := range extra {
		claims[key] = value
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to sign delegation token")
	}
	return token, nil
}

// Verify checks a token's signature and expiry. It fails closed: any parse,
// signature, or expiry failure yields a result with Valid=false.
func (s *TokenService) Verify(token string) VerifyResult {
	secret, err := s.resolveSecret()
	if err != nil {
		return VerifyResult{Err: err}
	}

	var claims Claims
	parsed, err := jwt.ParseWithClaims(
		token,
		&claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now() }),
	)
	if err != nil || !parsed.Valid {
		if err == nil {
			err = jwt.ErrTokenUnverifiable
		}
		return VerifyResult{Err: err}
	}

	return VerifyResult{Valid: true, Claims: &claims}
}

// RotateSecret generates a new random signing secret and persists it to the
// secret file, invalidating all outstanding tokens. Returns an error when the
// secret is pinned by configuration value instead of a file.
func (s *TokenService) RotateSecret() error {
	if s.secretValue != "" {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "signing secret is set by configuration, not a file")
	}

	generated, err := generateSecret()
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.secretFile, []byte(generated), 0o600); err != nil {
		return apperrors.Wrap(err, "failed to persist signing secret")
	}

	s.mu.Lock()
	s.cached = []byte(generated)
	s.mu.Unlock()
	return nil
}

// resolveSecret applies the resolution order and caches the outcome.
func (s *TokenService) resolveSecret() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		return s.cached, nil
	}

	if s.secretValue != "" {
		s.cached = []byte(s.secretValue)
		return s.cached, nil
	}

	if raw, err := os.ReadFile(s.secretFile); err == nil {
		trimmed := strings.TrimSpace(string(raw))
		if trimmed != "" {
			s.cached = []byte(trimmed)
			return s.cached, nil
		}
	}

	generated, err := generateSecret()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(s.secretFile, []byte(generated), 0o600); err != nil {
		return nil, apperrors.Wrap(err, "failed to persist signing secret")
	}

	s.cached = []byte(generated)
	return s.cached, nil
}

// generateSecret creates a cryptographically secure 32-byte random secret,
// base64 URL-encoded for storage as text.
func generateSecret() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", apperrors.Wrap(err, "failed to generate signing secret")
	}
	return base64.URLEncoding.EncodeToString(randomBytes), nil
}
