package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken: el verifier rechazó el token (ausente, vencido o mal firmado).
var ErrInvalidToken = errors.New("invalid token")

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
