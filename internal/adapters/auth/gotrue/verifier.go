// Package gotrue verifica bearer tokens contra el servicio de auth hospedado
// (GET /auth/v1/user). Es lo mismo que hace supabase.auth.getUser(token).
package gotrue

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kaniu/internal/platform/httpclient"
	"kaniu/internal/ports/auth"
)

var ErrNotConfigured = errors.New("gotrue verifier not configured")

const userPath = "/auth/v1/user"

type Config struct {
	URL    string
	APIKey string

	// Timeout HTTP (default httpclient.DefaultTimeout).
	Timeout time.Duration
}

// Verifier implementa auth.AuthVerifier.
type Verifier struct {
	client *httpclient.Client
}

func NewVerifier(cfg Config, opts ...httpclient.Option) (*Verifier, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.URL) == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}

	opts = append([]httpclient.Option{httpclient.WithHeader("apikey", apiKey)}, opts...)
	c, err := httpclient.New(cfg.URL, cfg.Timeout, opts...)
	if err != nil {
		return nil, err
	}
	return &Verifier{client: c}, nil
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`

	AppMetadata struct {
		Role string `json:"role"`
	} `json:"app_metadata"`
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, auth.ErrInvalidToken
	}

	var out userResponse
	err := v.client.Do(ctx, httpclient.Request{
		Method: http.MethodGet,
		Path:   userPath,
		Header: map[string]string{"Authorization": "Bearer " + token},
	}, &out)
	if err != nil {
		switch httpclient.StatusCode(err) {
		case http.StatusUnauthorized, http.StatusForbidden:
			return auth.Claims{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
		}
		return auth.Claims{}, fmt.Errorf("gotrue verify failed: %w", err)
	}

	out.ID = strings.TrimSpace(out.ID)
	if out.ID == "" {
		return auth.Claims{}, fmt.Errorf("%w: response missing user id", auth.ErrInvalidToken)
	}

	// app_metadata.role es el rol de la app; role a secas suele ser "authenticated".
	role := strings.TrimSpace(out.AppMetadata.Role)
	if role == "" {
		role = strings.TrimSpace(out.Role)
	}

	return auth.Claims{
		UserID: out.ID,
		Email:  strings.TrimSpace(out.Email),
		Role:   role,
	}, nil
}
