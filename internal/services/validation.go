package services

import (
	"errors"
	"fmt"
	"strings"

	"plates-console/internal/models"

	"github.com/go-playground/validator/v10"
)

// ErrValidation is returned when a form fails client-side validation
var ErrValidation = errors.New("validation failed")

// Validator checks request structs before they are sent to the backend
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator with the domain rules registered
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
		return models.MealType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return models.Role(fl.Field().String()).Valid()
	})
	return &Validator{validate: v}
}

// Struct validates s and returns an ErrValidation carrying one message per
// failed field
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, ", "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "datetime":
		return fmt.Sprintf("%s must match %s", field, fe.Param())
	case "mealtype":
		return field + " must be one of breakfast, lunch, snacks, dinner"
	case "latitude", "longitude":
		return field + " is out of range"
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}
