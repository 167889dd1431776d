package auth

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

const (
	minPasswordLength = 8
	maxPasswordLength = 72
	passwordSpecials  = "!@#$%^&"
)

var (
	ErrPasswordTooShort   = errors.New("Password must be longer than 8 characters")
	ErrPasswordTooLong    = errors.New("Password must be less than 72 characters")
	ErrPasswordWhitespace = errors.New("Password must not start or end with empty spaces")
	ErrPasswordTooSimple  = errors.New("Password must contain one upper case, lower case, number and special character")
	ErrEmailInvalid       = errors.New("Email is invalid")
)

var (
	emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)
	lowerPattern = regexp.MustCompile(`[a-z]`)
	upperPattern = regexp.MustCompile(`[A-Z]`)
	digitPattern = regexp.MustCompile(`[0-9]`)
)

// ValidatePassword applies the password rules in order and returns the first failure.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	if strings.HasPrefix(password, " ") || strings.HasSuffix(password, " ") {
		return ErrPasswordWhitespace
	}
	if !lowerPattern.MatchString(password) ||
		!upperPattern.MatchString(password) ||
		!digitPattern.MatchString(password) ||
		!strings.ContainsAny(password, passwordSpecials) {
		return ErrPasswordTooSimple
	}
	return nil
}

func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func ComparePassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}
