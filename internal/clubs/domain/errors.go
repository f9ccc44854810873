package domain

import "errors"

var (
	ErrRecordNotFound    = errors.New("values not found")
	ErrForbidden         = errors.New("you don't have permissions")
	ErrInvalidFieldGroup = errors.New("unknown field group")
	ErrInvalidPeriod     = errors.New("invalid date")
	ErrInvalidRecord     = errors.New("invalid club record")
)
