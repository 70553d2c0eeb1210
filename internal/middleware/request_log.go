package middleware

import (
	"context"
	"net/http"
	"time"

	"kaniu/internal/platform/logger"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const loggerKey ctxKey = "logger"

// RequestLogger deja en el contexto un logger con request_id y registra
// una línea por request al terminar.
func RequestLogger(base logger.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			l := base.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})

			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggerKey, l)))

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			switch {
			case ww.Status() >= 500:
				l.Error("request", fields)
			case ww.Status() >= 400:
				l.Warn("request", fields)
			default:
				l.Info("request", fields)
			}
		})
	}
}

// GetLogger devuelve el logger del request (o uno nop si no hay middleware).
func GetLogger(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(loggerKey).(logger.Logger); ok && l != nil {
		return l
	}
	return logger.Nop()
}
