package middleware

import (
	"context"
	"net/http"
	"strings"

	"kaniu/internal/platform/apierror"
	"kaniu/internal/ports/auth"
)

type ctxKey string

const (
	claimsKey    ctxKey = "claims"
	authErrorKey ctxKey = "auth_error"
)

// AuthContext:
// - Si verifier != nil y viene Bearer token => intenta Verify() y setea claims.
// - Si verifier == nil => modo dev: si viene header X-Debug-User-ID => setea claims.
// - Si no hay claims, el request sigue igual; los handlers decidirán si exigen auth.
func AuthContext(verifier auth.AuthVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: permitir inyectar user sin verifier
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					claims := auth.Claims{UserID: uid}
					ctx := context.WithValue(r.Context(), claimsKey, claims)
					next.ServeHTTP(w, r.WithContext(ctx))
					return
				}

				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r.Header.Get("Authorization"))
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// No cortamos aquí; guardamos el motivo para el 401 del handler.
				GetLogger(r.Context()).Debug("token rejected", map[string]any{"err": err})
				ctx := context.WithValue(r.Context(), authErrorKey, err)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

// RequireClaims devuelve los claims o un *apierror.Error UNAUTHORIZED
// que distingue "sin token" de "token inválido".
func RequireClaims(ctx context.Context) (auth.Claims, error) {
	claims, ok := GetClaims(ctx)
	if ok && strings.TrimSpace(claims.UserID) != "" {
		return claims, nil
	}
	if err, _ := ctx.Value(authErrorKey).(error); err != nil {
		return auth.Claims{}, &apierror.Error{
			Code:    apierror.CodeUnauthorized,
			Message: "invalid token",
			Cause:   err,
		}
	}
	return auth.Claims{}, apierror.New(apierror.CodeUnauthorized, "token not provided")
}

// WithClaims es para tests y llamadas internas.
func WithClaims(ctx context.Context, claims auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
