package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/zatekoja/hauntedbnb/pkg/errors"
)

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError turns validator output into a single user-facing error.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewValidationError(err.Error())
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperrors.NewValidationError(fmt.Sprintf("%s is required", fe.Field()))
	case "email":
		return apperrors.NewValidationError(fmt.Sprintf("%s must be a valid email address", fe.Field()))
	case "min", "max":
		return apperrors.NewValidationError(fmt.Sprintf("%s must be between 1 and 5", fe.Field()))
	default:
		return apperrors.NewValidationError(fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
