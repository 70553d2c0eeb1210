// Package memory guarda los blobs en memoria y los sirve por HTTP, para dev y tests.
package memory

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"kaniu/internal/ports/objectstore"
)

var ErrInvalidObject = errors.New("object needs bucket and name")

type blob struct {
	contentType string
	data        []byte
}

type Store struct {
	mu      sync.RWMutex
	baseURL string
	blobs   map[string]blob // bucket/name
}

// NewStore: baseURL es el prefijo público donde se monta Handler (p.ej. http://localhost:8080/files).
func NewStore(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimRight(baseURL, "/"),
		blobs:   make(map[string]blob),
	}
}

var _ objectstore.ObjectStore = (*Store)(nil)

func (s *Store) Put(ctx context.Context, obj objectstore.Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(obj.Bucket) == "" || strings.TrimSpace(obj.Name) == "" || obj.Body == nil {
		return "", ErrInvalidObject
	}

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		return "", err
	}

	key := obj.Bucket + "/" + strings.TrimLeft(obj.Name, "/")
	s.mu.Lock()
	s.blobs[key] = blob{contentType: obj.ContentType, data: data}
	s.mu.Unlock()

	return s.baseURL + "/" + key, nil
}

// Get devuelve el contenido guardado en bucket/name.
func (s *Store) Get(bucket, name string) ([]byte, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.blobs[bucket+"/"+strings.TrimLeft(name, "/")]
	if !ok {
		return nil, "", false
	}
	return bytes.Clone(b.data), b.contentType, true
}

// ServeHTTP sirve GET /{bucket}/{name...}. Montarlo con http.StripPrefix.
func (s *Store) Delete(ctx context.Context, bucket, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.blobs, bucket+"/"+strings.TrimLeft(name, "/"))
	s.mu.Unlock()
	return nil
}

func (s *Store) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	bucket, name, ok := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	data, contentType, found := s.Get(bucket, name)
	if !found {
		http.NotFound(w, r)
		return
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	_, _ = w.Write(data)
}
