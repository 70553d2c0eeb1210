// Package apierror define el sobre de error {code, message, details} que
// devuelven los dispatchers, y el conjunto cerrado de códigos posibles.
package apierror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInsert           Code = "INSERT_ERROR"
	CodeAppearance       Code = "APPEARANCE_ERROR"
	CodeColors           Code = "COLORS_ERROR"
	CodeUpdate           Code = "UPDATE_ERROR"
	CodeFetch            Code = "FETCH_ERROR"
	CodeInvalidStatus    Code = "INVALID_STATUS"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeMethodNotAllowed Code = "METHOD_NOT_ALLOWED"
	CodeUnknown          Code = "UNKNOWN_ERROR"

	CodeConflict     Code = "CONFLICT"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"
)

// Error es el único tipo de error que cruza la frontera HTTP.
// Cause no se serializa; Details sí (si viene).
type Error struct {
	Code    Code
	Message string
	Details any
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap adjunta el error del store como details.
// Si el store falló por deadline/cancelación, el código pasa a TIMEOUT.
func Wrap(code Code, message string, cause error) *Error {
	if cause == nil {
		return New(code, message)
	}
	var inner *Error
	if errors.As(cause, &inner) {
		return inner
	}
	if errors.Is(cause, context.DeadlineExceeded) || errors.Is(cause, context.Canceled) {
		code = CodeTimeout
		message = "request timed out"
	}
	return &Error{Code: code, Message: message, Details: cause.Error(), Cause: cause}
}

// From normaliza cualquier error a *Error (UNKNOWN_ERROR si no trae código).
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &Error{Code: CodeTimeout, Message: "request timed out", Cause: err}
	}
	return &Error{Code: CodeUnknown, Message: "unknown error", Details: err.Error(), Cause: err}
}

// Is permite errors.Is(err, apierror.New(CodeX, "")) comparando solo el código.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// HasCode reporta si err es un *Error con ese código.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// Status: 401 solo para UNAUTHORIZED; el resto de fallos de negocio son 400.
func Status(code Code) int {
	switch code {
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadRequest
	}
}

// Body es la forma serializada: {code, message, details?}.
type Body struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func Write(w http.ResponseWriter, err error) {
	e := From(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(Status(e.Code))
	_ = json.NewEncoder(w).Encode(Body{Code: e.Code, Message: e.Message, Details: e.Details})
}
