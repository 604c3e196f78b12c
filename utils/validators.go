package utils

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/go-playground/validator/v10"
)

const passwordRuleMessage = "Password must be at least 8 characters and contain a number and a special character"

// NewValidator returns a validator with the project's custom rules registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterCustomValidators(v)
	return v
}

func RegisterCustomValidators(v *validator.Validate) {
	_ = v.RegisterValidation("password", ValidatePasswordRule)
}

func ValidatePasswordRule(fl validator.FieldLevel) bool {
	return ValidatePassword(fl.Field().String())
}

// ValidatePassword requires at least 8 characters, one number and one
// punctuation or symbol character.
func ValidatePassword(password string) bool {
	hasNumber := false
	hasSpecial := false

	if len([]rune(password)) < 8 {
		return false
	}

	for _, char := range password {
		switch {
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasNumber && hasSpecial
}

// ValidationMessage turns the first validator failure into a sentence naming
// the field. Errors that are not validation errors are returned as is.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "password":
		return passwordRuleMessage
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	}
	return fmt.Sprintf("%s is invalid", field)
}
