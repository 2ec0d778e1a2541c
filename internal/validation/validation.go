package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-TourBookingService/internal/domain"
)

// Validator обертка над validator/v10, возвращающая нарушения в виде domain.Violations
// Поля называются по json тегам: tours[0].guests
type Validator struct {
	validate *validator.Validate
}

// New создает валидатор
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct проверяет структуру и возвращает все нарушения, а не только первое
// prefix добавляется к имени каждого поля
func (v *Validator) Struct(s interface{}, prefix string) (domain.Violations, error) {
	err := v.validate.Struct(s)
	if err == nil {
		return nil, nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return nil, fmt.Errorf("validation: %w", err)
	}

	violations := make(domain.Violations, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		violations = append(violations, domain.Violation{
			Field:   fieldPath(prefix, fe.Namespace()),
			Message: message(fe),
		})
	}
	return violations, nil
}

// fieldPath убирает имя корневой структуры из namespace
func fieldPath(prefix, namespace string) string {
	path := namespace
	if idx := strings.Index(namespace, "."); idx >= 0 {
		path = namespace[idx+1:]
	}
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_with":
		return "is required"
	case "required_if":
		return "is required when assigned"
	case "email":
		return "must be a valid email"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "datetime":
		return fmt.Sprintf("must match format %s", fe.Param())
	default:
		return fmt.Sprintf("failed %q check", fe.Tag())
	}
}
