// Package rc4 implements the RC4 stream cipher per spec.md §4.9. No repo
// in the retrieved pack implements RC4; this is built from the
// specification's KSA/PRGA description directly.
package rc4

import "fmt"

// Cipher is RC4 as a blockcipher.Cipher with BlockSize reported as 0,
// the convention that routes it around the block-mode engine.
type Cipher struct {
	s           [256]byte
	sInit       [256]byte
	i, j        int
	initialized bool
}

// New returns an unkeyed RC4 cipher.
func New() *Cipher {
	return &Cipher{}
}

func (c *Cipher) BlockSize() int  { return 0 }
func (c *Cipher) RoundsCount() int { return 0 }
func (c *Cipher) IsInitialized() bool { return c.initialized }

// SupportedKeySizes reports every length 5..256 is accepted.
func (c *Cipher) SupportedKeySizes() []int {
	sizes := make([]int, 0, 252)
	for n := 5; n <= 256; n++ {
		sizes = append(sizes, n)
	}
	return sizes
}

// Initialize runs the key-scheduling algorithm and snapshots the
// resulting permutation for later Reset calls.
func (c *Cipher) Initialize(key []byte) error {
	if len(key) < 5 || len(key) > 256 {
		return fmt.Errorf("rc4: key must be 5 to 256 bytes, got %d", len(key))
	}
	for i := 0; i < 256; i++ {
		c.s[i] = byte(i)
	}
	j := 0
	for i := 0; i < 256; i++ {
		j = (j + int(c.s[i]) + int(key[i%len(key)])) % 256
		c.s[i], c.s[j] = c.s[j], c.s[i]
	}
	c.sInit = c.s
	c.i, c.j = 0, 0
	c.initialized = true
	return nil
}

// Reset restores S to its post-KSA snapshot and zeroes the running
// indices, letting the same key be re-applied to a fresh stream.
func (c *Cipher) Reset() {
	c.s = c.sInit
	c.i, c.j = 0, 0
}

// Process runs PRGA over data, XORing each byte with the generated
// keystream. Encryption and decryption are the same operation.
func (c *Cipher) Process(data []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("rc4: not initialized")
	}
	out := make([]byte, len(data))
	for n, b := range data {
		c.i = (c.i + 1) % 256
		c.j = (c.j + int(c.s[c.i])) % 256
		c.s[c.i], c.s[c.j] = c.s[c.j], c.s[c.i]
		k := c.s[(int(c.s[c.i])+int(c.s[c.j]))%256]
		out[n] = b ^ k
	}
	return out, nil
}

// EncryptBlock and DecryptBlock exist to satisfy blockcipher.Cipher for
// callers that dispatch generically; RC4 has no fixed block size, so
// both simply run Process over whatever length is given.
func (c *Cipher) EncryptBlock(plaintext []byte) ([]byte, error) { return c.Process(plaintext) }
func (c *Cipher) DecryptBlock(ciphertext []byte) ([]byte, error) { return c.Process(ciphertext) }
