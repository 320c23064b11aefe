package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Struct checks the validate tags of s and reports the first failure as an
// *Error named after the field's JSON key.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}
	fe := fieldErrs[0]
	return New(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "El campo '" + fe.Field() + "' es obligatorio."
	case "email":
		return "El campo '" + fe.Field() + "' debe ser un correo válido."
	case "min", "gte":
		return "El campo '" + fe.Field() + "' debe ser al menos " + fe.Param() + "."
	case "gt":
		return "El campo '" + fe.Field() + "' debe ser mayor a " + fe.Param() + "."
	case "oneof":
		return "El campo '" + fe.Field() + "' debe ser uno de: " + fe.Param() + "."
	default:
		return "El campo '" + fe.Field() + "' no es válido."
	}
}
