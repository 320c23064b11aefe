package validation

import (
	"errors"
	"fmt"
	"strings"
)

// Error is a recoverable input problem; Message is shown to the operator as is.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(field, message string) error {
	return &Error{Field: field, Message: message}
}

var (
	ErrDuplicateCedula = &Error{Field: "cedula", Message: "La cédula ya existe en el sistema."}
	ErrClientNotFound  = &Error{Field: "cedula", Message: "Cliente no encontrado"}
)

// Is reports whether err is a validation error.
func Is(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

// Field returns the offending field of a validation error, or "".
func Field(err error) string {
	var ve *Error
	if errors.As(err, &ve) {
		return ve.Field
	}
	return ""
}

func Require(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return New(field, fmt.Sprintf("El campo '%s' es obligatorio.", field))
	}
	return nil
}

func RequireNumeric(value, field string) error {
	if err := Require(value, field); err != nil {
		return err
	}
	for _, r := range strings.TrimSpace(value) {
		if r < '0' || r > '9' {
			return New(field, fmt.Sprintf("El campo '%s' debe contener solo números.", field))
		}
	}
	return nil
}
