package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrMissingAccountName = errors.New("account name is required")
	ErrMissingAccountType = errors.New("account type is required")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
)

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateAccountName(name string) error {
	if strings.TrimSpace(name) == "" || len(name) > 100 {
		return ErrMissingAccountName
	}
	return nil
}

func ValidateAccountType(accountType string) error {
	if strings.TrimSpace(accountType) == "" || len(accountType) > 50 {
		return ErrMissingAccountType
	}
	return nil
}
