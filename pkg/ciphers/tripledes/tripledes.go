// Package tripledes implements EDE Triple-DES over three independent DES
// keys, each 7 (raw) or 8 (parity) bytes, per spec.md §4.5.
package tripledes

import (
	"fmt"

	"cryptolab/pkg/ciphers/des"
)

const blockSize = 8

// Cipher is Triple-DES (EDE) as a blockcipher.Cipher.
type Cipher struct {
	k1, k2, k3  *des.Cipher
	initialized bool
}

// New returns an unkeyed Triple-DES cipher.
func New() *Cipher {
	return &Cipher{k1: des.New(), k2: des.New(), k3: des.New()}
}

func (c *Cipher) BlockSize() int          { return blockSize }
func (c *Cipher) SupportedKeySizes() []int { return []int{21, 24} }
func (c *Cipher) RoundsCount() int         { return 0 }
func (c *Cipher) IsInitialized() bool      { return c.initialized }

// Initialize splits key into three equal single-DES keys (7 or 8 bytes
// each) and initializes each sub-cipher independently.
func (c *Cipher) Initialize(key []byte) error {
	var part int
	switch len(key) {
	case 21:
		part = 7
	case 24:
		part = 8
	default:
		return fmt.Errorf("tripledes: key must be 21 or 24 bytes, got %d", len(key))
	}

	if err := c.k1.Initialize(key[0:part]); err != nil {
		return fmt.Errorf("tripledes: key 1: %w", err)
	}
	if err := c.k2.Initialize(key[part : 2*part]); err != nil {
		return fmt.Errorf("tripledes: key 2: %w", err)
	}
	if err := c.k3.Initialize(key[2*part : 3*part]); err != nil {
		return fmt.Errorf("tripledes: key 3: %w", err)
	}
	c.initialized = true
	return nil
}

// EncryptBlock computes E_K3(D_K2(E_K1(plaintext))).
func (c *Cipher) EncryptBlock(plaintext []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("tripledes: not initialized")
	}
	if len(plaintext) != blockSize {
		return nil, fmt.Errorf("tripledes: block must be %d bytes, got %d", blockSize, len(plaintext))
	}
	step1, err := c.k1.EncryptBlock(plaintext)
	if err != nil {
		return nil, fmt.Errorf("tripledes: %w", err)
	}
	step2, err := c.k2.DecryptBlock(step1)
	if err != nil {
		return nil, fmt.Errorf("tripledes: %w", err)
	}
	return c.k3.EncryptBlock(step2)
}

// DecryptBlock computes D_K1(E_K2(D_K3(ciphertext))).
func (c *Cipher) DecryptBlock(ciphertext []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("tripledes: not initialized")
	}
	if len(ciphertext) != blockSize {
		return nil, fmt.Errorf("tripledes: block must be %d bytes, got %d", blockSize, len(ciphertext))
	}
	step1, err := c.k3.DecryptBlock(ciphertext)
	if err != nil {
		return nil, fmt.Errorf("tripledes: %w", err)
	}
	step2, err := c.k2.EncryptBlock(step1)
	if err != nil {
		return nil, fmt.Errorf("tripledes: %w", err)
	}
	return c.k1.DecryptBlock(step2)
}
