package customer

import "errors"

var (
	ErrInvalidCustomer   = errors.New("customer does not exist")
	ErrDuplicateUsername = errors.New("username is already taken")
	ErrInvalidUsername   = errors.New("username must be 4-20 characters of lowercase letters, digits, '-' or '_'")
	ErrInvalidProfile    = errors.New("nickname is required and age must not be negative")
	ErrBlankPassword     = errors.New("password must not be blank")
	ErrInvalidPassword   = errors.New("password must be 8-20 characters with letters, digits and one of !@#$%^*")
	ErrPasswordMismatch  = errors.New("password does not match")
	ErrUnauthorized      = errors.New("unauthorized")
)
