package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"picxury_api/internal/models"
	"picxury_api/internal/services"
)

// RequestValidator adapts validator/v10 to echo.Validator. Failures come
// back as *services.ValidationError keyed by json field path.
type RequestValidator struct {
	validate *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for empty tags or nil funcs.
	_ = v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("15:04", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("session_status", func(fl validator.FieldLevel) bool {
		return models.SessionStatus(fl.Field().String()).IsUpdatable()
	})
	_ = v.RegisterValidation("payment_status", func(fl validator.FieldLevel) bool {
		return models.PaymentStatus(fl.Field().String()).IsValid()
	})

	return &RequestValidator{validate: v}
}

// Validate implements echo.Validator
func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &services.ValidationError{}
	for _, fe := range fieldErrs {
		field := fieldPath(fe.Namespace())
		out.Add(field, fieldMessage(field, fe))
	}
	return out
}

var indexPattern = regexp.MustCompile(`\[(\d+)\]`)

// fieldPath turns "bookRequest.order[0].quantity" into "order.0.quantity"
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		namespace = namespace[i+1:]
	}
	return indexPattern.ReplaceAllString(namespace, ".$1")
}

func fieldMessage(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("El campo %s es obligatorio.", field)
	case "email":
		return fmt.Sprintf("El campo %s debe ser un correo electrónico válido.", field)
	case "max":
		return fmt.Sprintf("El campo %s no debe ser mayor a %s.", field, fe.Param())
	case "min", "gte":
		return fmt.Sprintf("El campo %s debe ser al menos %s.", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("El campo %s debe ser uno de: %s.", field, fe.Param())
	case "len":
		return fmt.Sprintf("El campo %s debe tener %s caracteres.", field, fe.Param())
	case "numeric":
		return fmt.Sprintf("El campo %s debe ser numérico.", field)
	case "datetime":
		return fmt.Sprintf("El campo %s debe tener el formato %s.", field, fe.Param())
	case "hhmm":
		return fmt.Sprintf("El campo %s debe tener el formato HH:MM.", field)
	case "session_status", "payment_status":
		return fmt.Sprintf("El valor de %s no es válido.", field)
	}
	return fmt.Sprintf("El campo %s no es válido.", field)
}
