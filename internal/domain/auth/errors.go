package auth

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrTokenExpired          = errors.New("token has expired")
	ErrEmployeeIDRequired    = errors.New("token carries no employee_id")
	ErrManagerAccessRequired = errors.New("manager or owner role required")
)
