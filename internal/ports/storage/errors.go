package storage

import "errors"

// Errores que cualquier adapter de storage debe devolver (envueltos o no)
// para que los servicios puedan distinguir los casos.
var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrInvalidReference = errors.New("invalid reference")
)
