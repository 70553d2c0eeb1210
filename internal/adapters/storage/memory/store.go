// Package memory es el store en memoria para dev y tests. Cada unidad de
// trabajo opera sobre una copia del estado y la publica solo si termina
// sin error, así un workflow multi-paso es todo-o-nada.
package memory

import (
	"context"
	"maps"
	"sync"

	"kaniu/internal/domain/adoptions"
	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/lostfound"
	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
)

type state struct {
	shelters    map[string]shelters.Shelter
	profiles    map[string]profiles.Profile
	animals     map[string]animals.Animal
	appearances map[string]animals.Appearance // por animal_id
	colors      map[string][]int64            // por animal_id
	adoptions   map[string]adoptions.Adoption
	reports     map[string]lostfound.Report
}

func newState() *state {
	return &state{
		shelters:    make(map[string]shelters.Shelter),
		profiles:    make(map[string]profiles.Profile),
		animals:     make(map[string]animals.Animal),
		appearances: make(map[string]animals.Appearance),
		colors:      make(map[string][]int64),
		adoptions:   make(map[string]adoptions.Adoption),
		reports:     make(map[string]lostfound.Report),
	}
}

func (s *state) clone() *state {
	c := &state{
		shelters:    maps.Clone(s.shelters),
		profiles:    maps.Clone(s.profiles),
		animals:     maps.Clone(s.animals),
		appearances: maps.Clone(s.appearances),
		colors:      make(map[string][]int64, len(s.colors)),
		adoptions:   maps.Clone(s.adoptions),
		reports:     maps.Clone(s.reports),
	}
	for k, v := range s.colors {
		c.colors[k] = append([]int64(nil), v...)
	}
	return c
}

type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

// run serializa las unidades de trabajo: una a la vez, sobre una copia.
func (s *Store) run(ctx context.Context, fn func(t *tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{st: s.st.clone()}
	if err := fn(t); err != nil {
		return err
	}
	// Si el request venció mientras corría, no publicamos nada.
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = t.st
	return nil
}

// tx implementa los repositorios de todos los dominios sobre una copia del estado.
type tx struct {
	st *state
}

var (
	_ shelters.Repository  = (*tx)(nil)
	_ profiles.Repository  = (*tx)(nil)
	_ animals.Repository   = (*tx)(nil)
	_ adoptions.Repository = (*tx)(nil)
	_ lostfound.Repository = (*tx)(nil)
)

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
