package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	accountIDRegex = `^[a-zA-Z0-9_-]{3,64}$`
	courierRegex   = `^[A-Z0-9]{2,20}$`
)

const (
	AccountIDTag = "account_id"
	CourierTag   = "courier_code"
)

var valid = map[string]func(fl validator.FieldLevel) bool{
	AccountIDTag: ValidateAccountID,
	CourierTag:   ValidateCourierCode,
}

func ValidateAccountID(fl validator.FieldLevel) bool {
	return regexp.MustCompile(accountIDRegex).MatchString(fl.Field().String())
}

func ValidateCourierCode(fl validator.FieldLevel) bool {
	return regexp.MustCompile(courierRegex).MatchString(fl.Field().String())
}
