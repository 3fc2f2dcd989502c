// Package auth covers the session boundary: password hashing and the issue
// and verification of bearer tokens. Its output is the Principal value the
// ledger consumes; nothing here is consulted by the core again afterwards.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

var (
	ErrPasswordTooShort   = errors.New("password too short (min 6 characters)")
	ErrEmailTaken         = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// HashPassword bcrypt-hashes a password after checking the length policy.
func HashPassword(password string) ([]byte, error) {
	if len(password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

// CheckPassword compares a stored hash against a candidate password.
func CheckPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
