// Package supabase sube blobs al storage hospedado
// (POST /storage/v1/object/{bucket}/{name}) y devuelve la URL pública del bucket.
package supabase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"kaniu/internal/platform/httpclient"
	"kaniu/internal/ports/objectstore"
)

var ErrNotConfigured = errors.New("storage client not configured")

type Config struct {
	URL    string
	APIKey string // service role key: la API escribe en nombre del usuario ya autorizado

	Timeout time.Duration
}

type Store struct {
	client  *httpclient.Client
	baseURL string
}

var _ objectstore.ObjectStore = (*Store)(nil)

func NewStore(cfg Config, opts ...httpclient.Option) (*Store, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if strings.TrimSpace(cfg.URL) == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second // subidas de hasta 10MB
	}
	opts = append([]httpclient.Option{
		httpclient.WithHeader("apikey", apiKey),
		httpclient.WithHeader("Authorization", "Bearer "+apiKey),
	}, opts...)

	c, err := httpclient.New(cfg.URL, timeout, opts...)
	if err != nil {
		return nil, err
	}
	return &Store{client: c, baseURL: strings.TrimRight(strings.TrimSpace(cfg.URL), "/")}, nil
}

func (s *Store) Put(ctx context.Context, obj objectstore.Object) (string, error) {
	bucket := strings.Trim(obj.Bucket, "/")
	name := strings.TrimLeft(obj.Name, "/")
	if bucket == "" || name == "" || obj.Body == nil {
		return "", errors.New("object needs bucket and name")
	}

	contentType := obj.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err := s.client.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Path:        "/storage/v1/object/" + bucket + "/" + name,
		Header:      map[string]string{"x-upsert": "false", "cache-control": "3600"},
		Body:        obj.Body,
		ContentType: contentType,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, name, err)
	}
	return s.PublicURL(bucket, name), nil
}

// PublicURL es la URL de lectura para buckets públicos.
func (s *Store) PublicURL(bucket, name string) string {
	return s.baseURL + "/storage/v1/object/public/" + bucket + "/" + name
}

// Delete borra un objeto (DELETE /storage/v1/object/{bucket}/{name}). 404 cuenta como borrado.
func (s *Store) Delete(ctx context.Context, bucket, name string) error {
	bucket = strings.Trim(bucket, "/")
	name = strings.TrimLeft(name, "/")
	if bucket == "" || name == "" {
		return errors.New("object needs bucket and name")
	}

	err := s.client.Do(ctx, httpclient.Request{
		Method: http.MethodDelete,
		Path:   "/storage/v1/object/" + bucket + "/" + name,
	}, nil)
	if err != nil && httpclient.StatusCode(err) != http.StatusNotFound {
		return fmt.Errorf("delete %s/%s: %w", bucket, name, err)
	}
	return nil
}
