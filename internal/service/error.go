package service

import "errors"

var (
	ErrInsufficientFunds = errors.New("INSUFFICIENT_FUNDS")
	ErrInvalidAmount     = errors.New("INVALID_AMOUNT")
	ErrDatabase          = errors.New("DATABASE_ERROR")
)

type Error struct {
	Code  string
	Cause error
}

func NewServiceError(code string, cause error) error {
	return Error{Code: code, Cause: cause}
}

func (e Error) Error() string {
	return e.Cause.Error()
}

func (e Error) Unwrap() error {
	return e.Cause
}
