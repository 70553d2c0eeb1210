// Package postgres implementa los repositorios de todos los dominios sobre
// pgx/v5. Cada unidad de trabajo es una transacción: commit si fn termina
// bien, rollback en cualquier otro caso.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kaniu/internal/domain/adoptions"
	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/lostfound"
	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
	"kaniu/internal/ports/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool es lo que el store usa del pool. *pgxpool.Pool y pgxmock lo cumplen.
type Pool interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

// Connect abre el pool y verifica la conexión.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

type Store struct {
	pool Pool
}

func NewStore(pool Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

func (s *Store) Close() { s.pool.Close() }

func (s *Store) run(ctx context.Context, fn func(t *tx) error) error {
	pgTx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&tx{q: pgTx}); err != nil {
		// el rollback usa un ctx propio: si el request venció igual hay que liberar la conexión
		rbCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		_ = pgTx.Rollback(rbCtx)
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// tx implementa los repositorios de todos los dominios sobre una pgx.Tx.
type tx struct {
	q pgx.Tx
}

var (
	_ shelters.Repository  = (*tx)(nil)
	_ profiles.Repository  = (*tx)(nil)
	_ animals.Repository   = (*tx)(nil)
	_ adoptions.Repository = (*tx)(nil)
	_ lostfound.Repository = (*tx)(nil)
)

// rowScanner: pgx.Row y pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// mapErr traduce errores de pgx/Postgres a los sentinels de storage.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503", "23514": // foreign_key_violation, check_violation
			return fmt.Errorf("%w: %s", storage.ErrInvalidReference, pgErr.ConstraintName)
		case "23505": // unique_violation
			return fmt.Errorf("%w: %s", storage.ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}

// mustAffect: un UPDATE/DELETE por id que no tocó filas es ErrNotFound.
func mustAffect(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return mapErr(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func fromNullString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (s *Store) Shelters() shelters.UnitOfWork { return sheltersUoW{s} }

func (s *Store) Profiles() profiles.UnitOfWork { return profilesUoW{s} }

func (s *Store) Animals() animals.UnitOfWork { return animalsUoW{s} }

func (s *Store) Adoptions() adoptions.UnitOfWork { return adoptionsUoW{s} }

func (s *Store) LostFound() lostfound.UnitOfWork { return lostfoundUoW{s} }

type sheltersUoW struct{ s *Store }

func (u sheltersUoW) Do(ctx context.Context, fn func(repo shelters.Repository) error) error {
	return u.s.run(ctx, func(t *tx) error { return fn(t) })
}

type profilesUoW struct{ s *Store }

func (u profilesUoW) Do(ctx context.Context, fn func(repo profiles.Repository) error) error {
	return u.s.run(ctx, func(t *tx) error { return fn(t) })
}

type animalsUoW struct{ s *Store }

func (u animalsUoW) Do(ctx context.Context, fn func(repo animals.Repository) error) error {
	return u.s.run(ctx, func(t *tx) error { return fn(t) })
}

type adoptionsUoW struct{ s *Store }

func (u adoptionsUoW) Do(ctx context.Context, fn func(repo adoptions.Repository) error) error {
	return u.s.run(ctx, func(t *tx) error { return fn(t) })
}

type lostfoundUoW struct{ s *Store }

func (u lostfoundUoW) Do(ctx context.Context, fn func(repo lostfound.Repository) error) error {
	return u.s.run(ctx, func(t *tx) error { return fn(t) })
}
