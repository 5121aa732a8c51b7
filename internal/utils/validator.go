// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

var currencyPattern = regexp.MustCompile("^[A-Z]{3}$")

func init() {
	validate = validator.New()
	validate.RegisterValidation("currency_code", validateCurrencyCode)
	validate.RegisterValidation("positive_amount", validatePositiveAmount)
	validate.RegisterValidation("nonnegative_amount", validateNonNegativeAmount)
	validate.RegisterValidation("fee_percentage", validateFeePercentage)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Currency codes are exactly three uppercase letters (e.g. USD).
func validateCurrencyCode(fl validator.FieldLevel) bool {
	return currencyPattern.MatchString(fl.Field().String())
}

func fieldDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	d, ok := fl.Field().Interface().(decimal.Decimal)
	return d, ok
}

func validatePositiveAmount(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && d.IsPositive()
}

func validateNonNegativeAmount(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	return ok && !d.IsNegative()
}

// Platform fee percentage must be within [0,100].
func validateFeePercentage(fl validator.FieldLevel) bool {
	d, ok := fieldDecimal(fl)
	if !ok {
		return false
	}
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(100))
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return e.Field() + " must be at least " + e.Param() + " characters"
	case "max":
		return e.Field() + " must be at most " + e.Param() + " characters"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "currency_code":
		return "Currency must be a 3-letter code (e.g., USD)"
	case "positive_amount":
		return e.Field() + " must be positive"
	case "nonnegative_amount":
		return e.Field() + " must not be negative"
	case "fee_percentage":
		return e.Field() + " must be between 0 and 100"
	default:
		return e.Field() + " is invalid"
	}
}
