package utils

import (
	"reflect"
	"strings"

	"bot-registry/app/domains"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	if err := validate.RegisterValidation("notblank", notBlank); err != nil {
		panic(err)
	}
}

// notBlank rejects strings that are empty after trimming whitespace
func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	for field.Kind() == reflect.Pointer {
		if field.IsNil() {
			return true
		}
		field = field.Elem()
	}
	if field.Kind() != reflect.String {
		return true
	}
	return strings.TrimSpace(field.String()) != ""
}

// ValidateStruct validates a struct using go-playground/validator.
// The first failing field is reported as a *domains.FieldError.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return err
	}

	fieldErr := validationErrors[0]
	switch fieldErr.Tag() {
	case "required":
		return domains.NewMissingFieldError(fieldErr.Field())
	case "notblank":
		return domains.NewEmptyFieldError(fieldErr.Field())
	default:
		return domains.NewInvalidFieldError(fieldErr.Field(), fieldErr.Tag())
	}
}
