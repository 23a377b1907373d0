// Package vault gates private-key export from internal/store behind an
// operator passphrase, using the same bcrypt hashing the teacher's
// auth_service.go used for chat login, repurposed here for key custody
// instead.
package vault

import (
	"fmt"

	myErrors "cryptolab/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of passphrase, stored alongside an
// operator record at registration time.
func Hash(passphrase string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("vault: hashing passphrase: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether passphrase matches hash, returning
// myErrors.ErrInvalidPassphrase (not the raw bcrypt error) on mismatch so
// callers can branch with errors.Is.
func Verify(hash, passphrase string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase)); err != nil {
		return myErrors.ErrInvalidPassphrase
	}
	return nil
}
