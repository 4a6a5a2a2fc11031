package utils

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ValidationFieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func ValidateStruct(s any) error {
	return validate.Struct(s)
}

// GetValidationErrors flattens validator errors into response-friendly details.
func GetValidationErrors(err error) []ValidationFieldError {
	var details []ValidationFieldError

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		details = append(details, ValidationFieldError{Message: err.Error()})
		return details
	}

	for _, fe := range validationErrors {
		details = append(details, ValidationFieldError{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Tag:     fe.Tag(),
			Message: messageForTag(fe),
		})
	}
	return details
}

func messageForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " is too short"
	case "max":
		return fe.Field() + " is too long"
	case "oneof":
		return fe.Field() + " must be one of: " + fe.Param()
	case "uuid":
		return fe.Field() + " must be a valid UUID"
	case "gte":
		return fe.Field() + " must be at least " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}
