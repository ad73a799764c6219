package apperror

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate //nolint:gochecknoglobals
	validateOnce sync.Once           //nolint:gochecknoglobals
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// report fields under the name the client sent them
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0] //nolint:mnd
			if name == "-" || name == "" {
				return f.Name
			}

			return name
		})
	})

	return validate
}

// Validate checks v against its validate tags. Field errors become a Validation error.
func Validate(v any) error {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err //nolint:wrapcheck
	}

	details := make(Details, len(fieldErrs))

	for _, fe := range fieldErrs {
		field := fe.Field()
		details[field] = append(details[field], message(fe))
	}

	return Validation(details)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Field must be at most " + fe.Param() + " long."
	case "min":
		return "Field must be at least " + fe.Param() + " long."
	case "url", "http_url":
		return "Invalid URL."
	case "hexadecimal", "len":
		return "Invalid value."
	default:
		return "Invalid value (" + fe.Tag() + ")."
	}
}
