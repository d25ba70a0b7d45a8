package domain

import "errors"

var (
	ErrInvalidVariant = errors.New("invalid value")
	ErrMissingField   = errors.New("required field missing")
)
