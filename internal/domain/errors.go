package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrConflict               = errors.New("conflicto con el estado actual")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrPersistence            = errors.New("fallo de persistencia")
)

// Error envuelve un error de dominio identificando la entidad, el ítem o la línea que lo causó.
// errors.Is(err, domain.ErrNotFound) sigue funcionando gracias a Unwrap.
type Error struct {
	Kind    error  // uno de los sentinelas de arriba
	Entity  string // item, order, session, bom_line...
	ID      string
	Line    int // 1-based; 0 = no aplica
	Message string
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Entity != "" {
		msg += fmt.Sprintf(" (%s", e.Entity)
		if e.ID != "" {
			msg += " " + e.ID
		}
		if e.Line > 0 {
			msg += fmt.Sprintf(", línea %d", e.Line)
		}
		msg += ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Kind }

// NotFound construye un ErrNotFound para la entidad indicada.
func NotFound(entity, id string) *Error {
	return &Error{Kind: ErrNotFound, Entity: entity, ID: id}
}

// Invalid construye un error de validación.
func Invalid(entity, id, message string) *Error {
	return &Error{Kind: ErrInvalidInput, Entity: entity, ID: id, Message: message}
}

// InvalidLine construye un error de validación sobre una línea concreta (1-based).
func InvalidLine(entity string, line int, message string) *Error {
	return &Error{Kind: ErrInvalidInput, Entity: entity, Line: line, Message: message}
}

// InvalidTransition construye un ErrInvalidStateTransition con el estado de origen y destino.
func InvalidTransition(entity, id, from, to string) *Error {
	return &Error{
		Kind:    ErrInvalidStateTransition,
		Entity:  entity,
		ID:      id,
		Message: fmt.Sprintf("%s -> %s", from, to),
	}
}

// Persistence envuelve un fallo del almacenamiento.
func Persistence(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// AsError extrae *Error si existe en la cadena.
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
