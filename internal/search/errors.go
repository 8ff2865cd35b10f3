package search

import (
	"errors"
	"fmt"
)

// ErrorInvalidInput es el error de dominio para parámetros de búsqueda inválidos.
var ErrorInvalidInput = errors.New("invalid input")

// ValidationError describe qué parámetro se rechazó y por qué.
// errors.Is(err, ErrorInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field  string
	Reason string
}

func (err *ValidationError) Error() string {
	if err.Field == "" {
		return err.Reason
	}
	return fmt.Sprintf("%s: %s", err.Field, err.Reason)
}

func (err *ValidationError) Unwrap() error {
	return ErrorInvalidInput
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
