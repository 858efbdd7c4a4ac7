package config

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/openshift-ai/oai-manager/internal/ocm"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// clusterNameRegex enforces the provider naming rules: a lowercase RFC-1035
// label of at most 15 characters.
var clusterNameRegex = regexp.MustCompile(`^[a-z]([-a-z0-9]{0,13}[a-z0-9])?$`)

func init() {
	must(validate.RegisterValidation("clustername", func(fl validator.FieldLevel) bool {
		return clusterNameRegex.MatchString(fl.Field().String())
	}))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// structFieldErrors runs tag validation and converts the result to
// field-level errors. Field names are reported in their serialized
// (camelCase) form where a json tag exists.
func structFieldErrors(v any) []ocm.FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ocm.FieldError{{Field: "spec", Message: err.Error()}}
	}

	fields := make([]ocm.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, ocm.FieldError{
			Field:   fe.Field(),
			Message: tagMessage(fe),
		})
	}
	return fields
}

// validateStruct wraps tag validation into the taxonomy error.
func validateStruct(subject string, v any) error {
	if fields := structFieldErrors(v); len(fields) > 0 {
		return &ocm.ValidationError{Subject: subject, Fields: fields}
	}
	return nil
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "clustername":
		return "must be a lowercase name of at most 15 characters, starting with a letter"
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
