package helper

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the shared validator instance and shapes field errors
// for JsonValidationError.
func ValidateStruct(s any) map[string][]string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrors := map[string][]string{}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		fieldErrors["_"] = []string{err.Error()}
		return fieldErrors
	}

	for _, fe := range errs {
		field := strings.ToLower(fe.Field())
		fieldErrors[field] = append(fieldErrors[field], "failed on "+fe.Tag())
	}
	return fieldErrors
}
