package user

import "errors"

// ErrInvalidCredentials is returned for both unknown emails and wrong
// passwords so login responses do not leak which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrUserNotFound is returned when an id or email resolves to no account.
var ErrUserNotFound = errors.New("user not found")

// DuplicateEmailError signals a signup against an already-registered email.
type DuplicateEmailError struct {
	Email string
}

func (e DuplicateEmailError) Error() string {
	return "user already exists with this email"
}
