package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/chris/gig-agreements/pkg/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks the validate tags of a request body.
func Validate(dst interface{}) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperrors.Validation("invalid request: %v", err)
	}
	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return apperrors.InvalidFields("invalid request", fields)
}

// fieldPath drops the root type name: NewAgreement.milestones[0].title
// becomes milestones[0].title.
func fieldPath(fe validator.FieldError) string {
	_, path, ok := strings.Cut(fe.Namespace(), ".")
	if !ok {
		return fe.Field()
	}
	return path
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "max", "min":
		bound := "at most"
		if fe.Tag() == "min" {
			bound = "at least"
		}
		switch fe.Kind() {
		case reflect.String:
			return fmt.Sprintf("%s must be %s %s characters", name, bound, fe.Param())
		case reflect.Slice, reflect.Map:
			return fmt.Sprintf("%s must have %s %s entries", name, bound, fe.Param())
		default:
			return fmt.Sprintf("%s must be %s %s", name, bound, fe.Param())
		}
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", name, fe.Param())
	case "eth_addr":
		return name + " must be a 0x-prefixed 20-byte hex address"
	case "url":
		return name + " must be a URL"
	default:
		return fmt.Sprintf("%s failed the %s check", name, fe.Tag())
	}
}
