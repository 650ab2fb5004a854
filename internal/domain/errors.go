package domain

import (
	"errors"
	"fmt"
)

// Kind clasifica los errores de dominio. La capa HTTP mapea Kind -> status
// con una tabla explícita (nunca por substring del mensaje).
type Kind string

const (
	KindInvalidInput      Kind = "INVALID_INPUT"      // campos faltantes o malformados, cantidad no positiva
	KindNotFound          Kind = "NOT_FOUND"          // cliente o producto inexistente
	KindInsufficientStock Kind = "INSUFFICIENT_STOCK" // cantidad solicitada supera el stock disponible
	KindConflict          Kind = "CONFLICT"           // violación de constraint único o FK en escritura concurrente
	KindUnauthorized      Kind = "UNAUTHORIZED"       // credenciales o token inválidos
	KindForbidden         Kind = "FORBIDDEN"          // rol sin permiso para la operación
	KindInternal          Kind = "INTERNAL"           // fallo inesperado de store o transporte
)

// Error es el error tipado del dominio: lleva Kind y contexto suficiente
// (id/código del producto ofensor) para construir un mensaje preciso.
type Error struct {
	Kind    Kind
	Message string
	Err     error // causa subyacente, opcional
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// NewError construye un error de dominio con Kind y mensaje formateado.
func NewError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapError envuelve una causa subyacente conservando el Kind.
func WrapError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Constructores por Kind (atajos usados en casos de uso).
func InvalidInput(format string, args ...any) *Error {
	return NewError(KindInvalidInput, format, args...)
}

func NotFound(format string, args ...any) *Error {
	return NewError(KindNotFound, format, args...)
}

func InsufficientStock(format string, args ...any) *Error {
	return NewError(KindInsufficientStock, format, args...)
}

func Conflict(format string, args ...any) *Error {
	return NewError(KindConflict, format, args...)
}

func Unauthorized(format string, args ...any) *Error {
	return NewError(KindUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) *Error {
	return NewError(KindForbidden, format, args...)
}

func Internal(err error, format string, args ...any) *Error {
	return WrapError(KindInternal, err, format, args...)
}

// KindOf devuelve el Kind de un error; KindInternal si no es un error de dominio.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// IsKind verifica si un error pertenece a un Kind dado.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
