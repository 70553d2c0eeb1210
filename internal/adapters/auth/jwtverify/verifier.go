// Package jwtverify valida localmente los access tokens HS256 que emite el
// servicio de auth, sin ida y vuelta por red.
package jwtverify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"kaniu/internal/ports/auth"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

var ErrNotConfigured = errors.New("jwt verifier not configured")

const defaultSkew = 30 * time.Second

type Config struct {
	Secret   string
	Audience string // vacío = no se valida aud
}

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	secret   []byte
	audience string
	skew     time.Duration
}

func NewVerifier(cfg Config) (*Verifier, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, ErrNotConfigured
	}
	return &Verifier{
		secret:   []byte(cfg.Secret),
		audience: strings.TrimSpace(cfg.Audience),
		skew:     defaultSkew,
	}, nil
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || len(v.secret) == 0 {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	opts := []jwt.ParseOption{
		jwt.WithKey(jwa.HS256, v.secret),
		jwt.WithValidate(true),
		jwt.WithAcceptableSkew(v.skew),
	}
	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	tok, err := jwt.Parse([]byte(token), opts...)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	sub := strings.TrimSpace(tok.Subject())
	if sub == "" {
		return auth.Claims{}, fmt.Errorf("%w: missing sub", auth.ErrInvalidToken)
	}

	return auth.Claims{
		UserID: sub,
		Email:  stringClaim(tok, "email"),
		Role:   roleClaim(tok),
	}, nil
}

func stringClaim(tok jwt.Token, name string) string {
	v, ok := tok.Get(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// roleClaim prefiere app_metadata.role; el claim role suele ser "authenticated".
func roleClaim(tok jwt.Token) string {
	if v, ok := tok.Get("app_metadata"); ok {
		if m, ok := v.(map[string]any); ok {
			if r, ok := m["role"].(string); ok && strings.TrimSpace(r) != "" {
				return strings.TrimSpace(r)
			}
		}
	}
	return stringClaim(tok, "role")
}
