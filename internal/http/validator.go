package http

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateStruct(s interface{}) []ErrorDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []ErrorDetail{{Field: "", Message: err.Error()}}
	}
	details := make([]ErrorDetail, 0, len(validationErrors))
	for _, fieldError := range validationErrors {
		details = append(details, ErrorDetail{
			Field:   fieldError.Field(),
			Message: "failed on " + fieldError.Tag(),
		})
	}
	return details
}
