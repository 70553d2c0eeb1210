package router

import (
	"context"
	"net/http"
	"time"

	_ "kaniu/internal/docs"

	objmem "kaniu/internal/adapters/objectstore/memory"
	mem "kaniu/internal/adapters/storage/memory"
	"kaniu/internal/domain/adoptions"
	"kaniu/internal/domain/animals"
	"kaniu/internal/domain/lostfound"
	"kaniu/internal/domain/profiles"
	"kaniu/internal/domain/shelters"
	"kaniu/internal/middleware"
	"kaniu/internal/platform/logger"
	"kaniu/internal/ports/auth"
	"kaniu/internal/ports/objectstore"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Store agrupa las unidades de trabajo por dominio; memory y postgres la cumplen.
type Store interface {
	Shelters() shelters.UnitOfWork
	Profiles() profiles.UnitOfWork
	Animals() animals.UnitOfWork
	Adoptions() adoptions.UnitOfWork
	LostFound() lostfound.UnitOfWork
}

type pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcionales: si no vienen, store y fotos en memoria.
	Store  Store
	Photos objectstore.ObjectStore

	Logger         logger.Logger
	RequestTimeout time.Duration
}

const filesPrefix = "/files"

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.SetHeader("Access-Control-Allow-Origin", "*"))
	r.Use(chimw.SetHeader("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type"))
	r.Use(chimw.SetHeader("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS"))

	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.Deadline(opts.RequestTimeout))
	r.Use(middleware.AuthContext(opts.AuthVerifier))

	store := opts.Store
	if store == nil {
		store = mem.NewStore()
	}

	photos := opts.Photos
	if photos == nil {
		files := objmem.NewStore(filesPrefix)
		r.Handle(filesPrefix+"/*", http.StripPrefix(filesPrefix, files))
		photos = files
	}

	r.Get("/health", healthHandler(store))
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// Services por módulo
	sheltersSvc := shelters.NewService(store.Shelters(), photos)
	profilesSvc := profiles.NewService(store.Profiles())
	animalsSvc := animals.NewService(store.Animals(), photos)
	adoptionsSvc := adoptions.NewService(store.Adoptions())
	reportsSvc := lostfound.NewService(store.LostFound())

	// Rutas por módulo
	shelters.RegisterRoutes(r, sheltersSvc)
	profiles.RegisterRoutes(r, profilesSvc)
	animals.RegisterRoutes(r, animalsSvc)
	adoptions.RegisterRoutes(r, adoptionsSvc)
	lostfound.RegisterRoutes(r, reportsSvc)

	return r
}

func healthHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p, ok := store.(pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				middleware.GetLogger(r.Context()).Error("health: store ping failed", map[string]any{"err": err})
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("store unavailable"))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
