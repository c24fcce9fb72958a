package payment

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenDuration is the lifetime of a signed facilitator token.
const tokenDuration = time.Hour

// ErrNoCredential is returned when neither credential form is configured.
var ErrNoCredential = errors.New("no facilitator credential configured")

// Credential yields the bearer token for facilitator calls. The closed
// set of variants is resolved once at startup: either the configured
// string is already a valid bearer token, or a name/secret pair signs a
// short-lived token on demand.
type Credential interface {
	Bearer() (string, error)
}

// ResolveCredential picks the credential variant from configuration.
// Returns nil (and no error) when the facilitator needs no auth.
func ResolveCredential(cfg Config) (Credential, error) {
	switch {
	case cfg.Token != "":
		return &staticToken{token: cfg.Token}, nil
	case cfg.KeyName != "" && cfg.KeySecret != "":
		return &signedToken{name: cfg.KeyName, secret: []byte(cfg.KeySecret)}, nil
	case cfg.KeyName != "" || cfg.KeySecret != "":
		return nil, fmt.Errorf("%w: key name and secret must be set together", ErrNoCredential)
	default:
		return nil, nil
	}
}

// staticToken treats the credential as an already-valid bearer token.
type staticToken struct {
	token string
}

func (s *staticToken) Bearer() (string, error) {
	return s.token, nil
}

// signedToken signs a one-hour HS256 token from a name/secret pair,
// re-signing shortly before expiry.
type signedToken struct {
	name   string
	secret []byte

	mu     sync.Mutex
	cached string
	expiry time.Time
}

func (s *signedToken) Bearer() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.cached != "" && now.Before(s.expiry.Add(-time.Minute)) {
		return s.cached, nil
	}

	expiry := now.Add(tokenDuration)
	claims := jwt.RegisteredClaims{
		Subject:   s.name,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiry),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign facilitator token: %w", err)
	}

	s.cached = token
	s.expiry = expiry
	return token, nil
}
