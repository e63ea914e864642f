package service

import "errors"

var (
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrInvalidBirthCredentials = errors.New("invalid username, password or birthdate")
	ErrUnknownUsername         = errors.New("username is not provisioned")
	ErrDuplicateUsername       = errors.New("username already exists")
	ErrMissingField            = errors.New("required field is missing")
	ErrInvalidBirthdate        = errors.New("birthdate must be YYYY-MM-DD")
	ErrForbidden               = errors.New("admin access required")
	ErrSelfDelete              = errors.New("cannot delete your own account")
)
