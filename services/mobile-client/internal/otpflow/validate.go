package otpflow

import (
	"github.com/go-playground/validator/v10"
)

// CountryCode is prefixed to the entered digits when calling the verification service.
const CountryCode = "+91"

type phoneInput struct {
	Digits string `validate:"len=10,number"`
}

type otpInput struct {
	Digits string `validate:"len=4,number"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidPhone reports whether raw is exactly 10 ASCII digits.
func ValidPhone(raw string) bool {
	return validate.Struct(phoneInput{Digits: raw}) == nil
}

// ValidOTP reports whether raw is exactly 4 ASCII digits.
func ValidOTP(raw string) bool {
	return validate.Struct(otpInput{Digits: raw}) == nil
}
