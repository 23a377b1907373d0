package myErrors

import "errors"

var (
	ErrOperatorNotFound  = errors.New("invalid operator")
	ErrInvalidPassphrase = errors.New("invalid passphrase")
	ErrOperatorExists    = errors.New("operator already exists")
	ErrKeyNotFound       = errors.New("key not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionIncomplete = errors.New("session has no peer public key yet")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrUnsupportedCipher = errors.New("unsupported cipher algorithm")
)
