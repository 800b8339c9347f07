package draft

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	// Field is the JSON name of the offending field.
	Field string
	// Rule is the failed validation rule, e.g. "notblank".
	Rule string
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", e.Field)
	case "min", "max":
		return fmt.Sprintf("%s is out of range", e.Field)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return field.Name
			}
			return name
		})
		if err := validate.RegisterValidation("notblank", validators.NotBlank); err != nil {
			panic(err)
		}
	})
	return validate
}

// ValidateStruct checks the `validate` tags of v and returns a
// *ValidationError naming the first failing field.
func ValidateStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Field: fieldErrs[0].Field(), Rule: fieldErrs[0].Tag()}
	}
	return err
}
