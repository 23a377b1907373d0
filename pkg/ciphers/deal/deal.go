// Package deal implements DEAL, a Feistel cipher whose round function is
// DES itself, per spec.md §4.6.
package deal

import (
	"fmt"

	"cryptolab/pkg/ciphers/des"
	"cryptolab/pkg/feistel"
)

const (
	blockSize = 16
	halfSize  = 8
)

var baseKeyConstant = []byte{0x12, 0x34, 0x56, 0x78, 0x90, 0xAB, 0xCD, 0xEF}

func roundsForKeySize(keySize int) (int, error) {
	switch keySize {
	case 16, 24:
		return 6, nil
	case 32:
		return 8, nil
	default:
		return 0, fmt.Errorf("deal: key must be 16, 24 or 32 bytes, got %d", keySize)
	}
}

// roundConstant is a single set bit rotating through the 64 bit positions
// of an 8-byte word, injected every |key|/8 rounds.
func roundConstant(injection int) []byte {
	pos := injection % 64
	c := make([]byte, 8)
	c[pos/8] = 1 << uint(7-pos%8)
	return c
}

func xor8(a, b []byte) []byte {
	out := make([]byte, 8)
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// keySchedule derives round keys by feeding an XOR-accumulator, combined
// with user-key segments and a rotating constant, through DES under a
// fixed base key.
type keySchedule struct{}

func (keySchedule) ExpandKey(key []byte) ([][]byte, error) {
	rounds, err := roundsForKeySize(len(key))
	if err != nil {
		return nil, err
	}
	n := len(key) / 8
	segments := make([][]byte, n)
	for i := 0; i < n; i++ {
		segments[i] = key[i*8 : i*8+8]
	}

	baseCipher := des.New()
	if err := baseCipher.Initialize(baseKeyConstant); err != nil {
		return nil, fmt.Errorf("deal: initializing base cipher: %w", err)
	}

	injection := 0
	accumulator := make([]byte, 8)
	roundKeys := make([][]byte, rounds)
	for r := 0; r < rounds; r++ {
		input := xor8(accumulator, segments[r%n])
		if r%n == 0 {
			input = xor8(input, roundConstant(injection))
			injection++
		}
		next, err := baseCipher.EncryptBlock(input)
		if err != nil {
			return nil, fmt.Errorf("deal: deriving round key %d: %w", r, err)
		}
		accumulator = next
		roundKeys[r] = next
	}
	return roundKeys, nil
}

// roundFunction is DES, keyed fresh with each round key, applied to the
// 8-byte half-block.
type roundFunction struct{}

func (roundFunction) Apply(half, roundKey []byte) ([]byte, error) {
	c := des.New()
	if err := c.Initialize(roundKey); err != nil {
		return nil, fmt.Errorf("deal: round DES: %w", err)
	}
	out, err := c.EncryptBlock(half)
	if err != nil {
		return nil, fmt.Errorf("deal: round DES: %w", err)
	}
	return out, nil
}

// Cipher is DEAL as a blockcipher.Cipher.
type Cipher struct {
	network     *feistel.Network
	rounds      int
	initialized bool
}

// New returns an unkeyed DEAL cipher.
func New() *Cipher {
	return &Cipher{}
}

func (c *Cipher) BlockSize() int          { return blockSize }
func (c *Cipher) SupportedKeySizes() []int { return []int{16, 24, 32} }
func (c *Cipher) RoundsCount() int         { return c.rounds }
func (c *Cipher) IsInitialized() bool      { return c.initialized }

func (c *Cipher) Initialize(key []byte) error {
	rounds, err := roundsForKeySize(len(key))
	if err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	c.network = feistel.New(keySchedule{}, roundFunction{}, rounds, halfSize)
	if err := c.network.SetupKeys(key); err != nil {
		return fmt.Errorf("deal: %w", err)
	}
	c.rounds = rounds
	c.initialized = true
	return nil
}

func (c *Cipher) EncryptBlock(plaintext []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("deal: not initialized")
	}
	if len(plaintext) != blockSize {
		return nil, fmt.Errorf("deal: block must be %d bytes, got %d", blockSize, len(plaintext))
	}
	return c.network.Encrypt(plaintext)
}

func (c *Cipher) DecryptBlock(ciphertext []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("deal: not initialized")
	}
	if len(ciphertext) != blockSize {
		return nil, fmt.Errorf("deal: block must be %d bytes, got %d", blockSize, len(ciphertext))
	}
	return c.network.Decrypt(ciphertext)
}
