package router

import (
	"context"
	"fmt"

	"kaniu/internal/adapters/auth/gotrue"
	"kaniu/internal/adapters/auth/jwtverify"
	"kaniu/internal/adapters/objectstore/supabase"
	pg "kaniu/internal/adapters/storage/postgres"
	"kaniu/internal/platform/config"
	"kaniu/internal/platform/logger"
)

// FromConfig arma las Options a partir de la config del proceso:
// DB_DSN => Postgres, AUTH_MODE => verifier, STORAGE_URL => storage hospedado.
// El cleanup devuelto cierra lo que se haya abierto.
func FromConfig(ctx context.Context, cfg config.Config, log logger.Logger) (Options, func(), error) {
	opts := Options{
		Logger:         log,
		RequestTimeout: cfg.RequestTimeout,
	}
	cleanup := func() {}

	switch cfg.Auth.Mode {
	case config.AuthModeGoTrue:
		v, err := gotrue.NewVerifier(gotrue.Config{URL: cfg.Auth.URL, APIKey: cfg.Auth.APIKey})
		if err != nil {
			return Options{}, cleanup, fmt.Errorf("auth verifier: %w", err)
		}
		opts.AuthVerifier = v
	case config.AuthModeJWT:
		v, err := jwtverify.NewVerifier(jwtverify.Config{Secret: cfg.Auth.JWTSecret, Audience: cfg.Auth.Audience})
		if err != nil {
			return Options{}, cleanup, fmt.Errorf("auth verifier: %w", err)
		}
		opts.AuthVerifier = v
	default:
		log.Warn("auth in dev mode: X-Debug-User-ID is trusted", nil)
	}

	if cfg.Storage.URL != "" {
		st, err := supabase.NewStore(supabase.Config{URL: cfg.Storage.URL, APIKey: cfg.Storage.APIKey})
		if err != nil {
			return Options{}, cleanup, fmt.Errorf("object store: %w", err)
		}
		opts.Photos = st
	}

	if cfg.DatabaseDSN == "" {
		log.Info("using in-memory store", nil)
		return opts, cleanup, nil
	}

	if cfg.AutoMigrate {
		if err := pg.Migrate(ctx, cfg.DatabaseDSN); err != nil {
			return Options{}, cleanup, err
		}
	}

	pool, err := pg.Connect(ctx, cfg.DatabaseDSN)
	if err != nil {
		return Options{}, cleanup, fmt.Errorf("connect postgres: %w", err)
	}
	store := pg.NewStore(pool)
	opts.Store = store
	log.Info("using postgres store", nil)

	return opts, store.Close, nil
}
