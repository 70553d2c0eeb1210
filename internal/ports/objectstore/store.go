package objectstore

import (
	"context"
	"io"
)

const (
	BucketAnimalPhotos  = "animal-photos"
	BucketShelterPhotos = "shelter-photos"
)

// Object es un blob a subir.
type Object struct {
	Bucket      string
	Name        string
	ContentType string
	Body        io.Reader
	Size        int64
}

// ObjectStore persiste blobs y devuelve una URL pública resoluble.
type ObjectStore interface {
	Put(ctx context.Context, obj Object) (publicURL string, err error)
	// Delete borra bucket/name; si no existe no es error.
	Delete(ctx context.Context, bucket, name string) error
}
