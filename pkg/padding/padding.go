// Package padding implements the four padding schemes the cipher context
// can apply to block-align a buffer: Zeros, ANSI X9.23, PKCS#7 and
// ISO 10126.
package padding

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
)

// Mode names a padding scheme.
type Mode int

const (
	Zeros Mode = iota
	ANSIX923
	PKCS7
	ISO10126
)

func (m Mode) String() string {
	switch m {
	case Zeros:
		return "Zeros"
	case ANSIX923:
		return "ANSIX923"
	case PKCS7:
		return "PKCS7"
	case ISO10126:
		return "ISO10126"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrInvalidPadding is returned by Remove when the padding bytes are
// structurally inconsistent and the scheme does not tolerate that (only
// ISO 10126 rejects; PKCS7 and ANSI X9.23 fall back to passing the data
// through unchanged, per their documented quirks below).
var ErrInvalidPadding = errors.New("padding: invalid padding")

// Provider adds and removes padding for one scheme.
type Provider interface {
	Mode() Mode
	AddPadding(data []byte, blockSize int) ([]byte, error)
	RemovePadding(data []byte, blockSize int) ([]byte, error)
}

// New returns the provider for mode.
func New(mode Mode) (Provider, error) {
	switch mode {
	case Zeros:
		return zerosProvider{}, nil
	case ANSIX923:
		return ansiX923Provider{}, nil
	case PKCS7:
		return pkcs7Provider{}, nil
	case ISO10126:
		return iso10126Provider{}, nil
	default:
		return nil, fmt.Errorf("padding: unknown mode %v", mode)
	}
}

// padLength computes P = blockSize - (len(data) mod blockSize), reset to 0
// when the input is already block-aligned. This is a deliberate deviation
// from the canonical PKCS#7 contract (which always adds a full block on an
// aligned input) that this library's callers rely on; see spec.md §9.
func padLength(data []byte, blockSize int) int {
	p := blockSize - (len(data) % blockSize)
	if p == blockSize {
		return 0
	}
	return p
}

type zerosProvider struct{}

func (zerosProvider) Mode() Mode { return Zeros }

func (zerosProvider) AddPadding(data []byte, blockSize int) ([]byte, error) {
	p := padLength(data, blockSize)
	if p == 0 {
		return data, nil
	}
	return append(append([]byte{}, data...), make([]byte, p)...), nil
}

// RemovePadding trims trailing zero bytes. This cannot distinguish payload
// bytes that happen to be zero from padding — a known limitation of the
// scheme, not a bug.
func (zerosProvider) RemovePadding(data []byte, blockSize int) ([]byte, error) {
	return bytes.TrimRight(data, "\x00"), nil
}

type ansiX923Provider struct{}

func (ansiX923Provider) Mode() Mode { return ANSIX923 }

// AddPadding writes the length byte only when padding is actually added;
// when the input is already aligned the last byte of data is left as-is
// rather than overwritten with a trailing zero-length marker.
func (ansiX923Provider) AddPadding(data []byte, blockSize int) ([]byte, error) {
	p := padLength(data, blockSize)
	if p == 0 {
		return data, nil
	}
	pad := make([]byte, p)
	pad[p-1] = byte(p)
	return append(append([]byte{}, data...), pad...), nil
}

func (ansiX923Provider) RemovePadding(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	p := int(data[len(data)-1])
	if p <= 0 || p > len(data) {
		return data, nil
	}
	return data[:len(data)-p], nil
}

type pkcs7Provider struct{}

func (pkcs7Provider) Mode() Mode { return PKCS7 }

func (pkcs7Provider) AddPadding(data []byte, blockSize int) ([]byte, error) {
	p := padLength(data, blockSize)
	if p == 0 {
		return data, nil
	}
	pad := bytes.Repeat([]byte{byte(p)}, p)
	return append(append([]byte{}, data...), pad...), nil
}

// RemovePadding returns data unchanged when the trailing bytes do not form
// valid PKCS#7 padding, rather than failing — a permissive variant this
// library's callers accept as observed behaviour (spec.md §9).
func (pkcs7Provider) RemovePadding(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	p := int(data[len(data)-1])
	if p <= 0 || p > len(data) {
		return data, nil
	}
	for i := len(data) - p; i < len(data); i++ {
		if data[i] != byte(p) {
			return data, nil
		}
	}
	return data[:len(data)-p], nil
}

type iso10126Provider struct{}

func (iso10126Provider) Mode() Mode { return ISO10126 }

func (iso10126Provider) AddPadding(data []byte, blockSize int) ([]byte, error) {
	p := padLength(data, blockSize)
	if p == 0 {
		return data, nil
	}
	pad := make([]byte, p)
	if _, err := rand.Read(pad[:p-1]); err != nil {
		return nil, fmt.Errorf("padding: generating random ISO10126 filler: %w", err)
	}
	pad[p-1] = byte(p)
	return append(append([]byte{}, data...), pad...), nil
}

func (iso10126Provider) RemovePadding(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}
	p := int(data[len(data)-1])
	if p == 0 || p > blockSize {
		return nil, ErrInvalidPadding
	}
	if p > len(data) {
		return nil, ErrInvalidPadding
	}
	return data[:len(data)-p], nil
}
