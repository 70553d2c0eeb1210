package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline acota el contexto del request. A diferencia de chimw.Timeout no
// escribe nada: los handlers traducen context.DeadlineExceeded a TIMEOUT.
func Deadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
