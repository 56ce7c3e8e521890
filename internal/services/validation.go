package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/videoingest/backend/internal/models"
)

// NewValidator creates a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return validate
}

// missingFieldError converts the first validation failure into a *models.MissingFieldError
func missingFieldError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return &models.MissingFieldError{Field: validationErrors[0].Field()}
	}
	return err
}
