// Package des implements the Data Encryption Standard as a
// blockcipher.Cipher, built on pkg/feistel and pkg/bitperm (spec.md §4.4).
package des

import (
	"fmt"

	"cryptolab/pkg/bitperm"
	"cryptolab/pkg/feistel"
)

const (
	blockSize = 8
	halfSize  = 4
	rounds    = 16
)

var initialPermutation = []int{
	58, 50, 42, 34, 26, 18, 10, 2,
	60, 52, 44, 36, 28, 20, 12, 4,
	62, 54, 46, 38, 30, 22, 14, 6,
	64, 56, 48, 40, 32, 24, 16, 8,
	57, 49, 41, 33, 25, 17, 9, 1,
	59, 51, 43, 35, 27, 19, 11, 3,
	61, 53, 45, 37, 29, 21, 13, 5,
	63, 55, 47, 39, 31, 23, 15, 7,
}

var finalPermutation = []int{
	40, 8, 48, 16, 56, 24, 64, 32,
	39, 7, 47, 15, 55, 23, 63, 31,
	38, 6, 46, 14, 54, 22, 62, 30,
	37, 5, 45, 13, 53, 21, 61, 29,
	36, 4, 44, 12, 52, 20, 60, 28,
	35, 3, 43, 11, 51, 19, 59, 27,
	34, 2, 42, 10, 50, 18, 58, 26,
	33, 1, 41, 9, 49, 17, 57, 25,
}

var expansion = []int{
	32, 1, 2, 3, 4, 5,
	4, 5, 6, 7, 8, 9,
	8, 9, 10, 11, 12, 13,
	12, 13, 14, 15, 16, 17,
	16, 17, 18, 19, 20, 21,
	20, 21, 22, 23, 24, 25,
	24, 25, 26, 27, 28, 29,
	28, 29, 30, 31, 32, 1,
}

var permutationP = []int{
	16, 7, 20, 21,
	29, 12, 28, 17,
	1, 15, 23, 26,
	5, 18, 31, 10,
	2, 8, 24, 14,
	32, 27, 3, 9,
	19, 13, 30, 6,
	22, 11, 4, 25,
}

var pc1 = []int{
	57, 49, 41, 33, 25, 17, 9,
	1, 58, 50, 42, 34, 26, 18,
	10, 2, 59, 51, 43, 35, 27,
	19, 11, 3, 60, 52, 44, 36,
	63, 55, 47, 39, 31, 23, 15,
	7, 62, 54, 46, 38, 30, 22,
	14, 6, 61, 53, 45, 37, 29,
	21, 13, 5, 28, 20, 12, 4,
}

var pc2 = []int{
	14, 17, 11, 24, 1, 5,
	3, 28, 15, 6, 21, 10,
	23, 19, 12, 4, 26, 8,
	16, 7, 27, 20, 13, 2,
	41, 52, 31, 37, 47, 55,
	30, 40, 51, 45, 33, 48,
	44, 49, 39, 56, 34, 53,
	46, 42, 50, 36, 29, 32,
}

var shiftSchedule = []int{1, 1, 2, 2, 2, 2, 2, 2, 1, 2, 2, 2, 2, 2, 2, 1}

var sBoxes = [8][4][16]int{
	{
		{14, 4, 13, 1, 2, 15, 11, 8, 3, 10, 6, 12, 5, 9, 0, 7},
		{0, 15, 7, 4, 14, 2, 13, 1, 10, 6, 12, 11, 9, 5, 3, 8},
		{4, 1, 14, 8, 13, 6, 2, 11, 15, 12, 9, 7, 3, 10, 5, 0},
		{15, 12, 8, 2, 4, 9, 1, 7, 5, 11, 3, 14, 10, 0, 6, 13},
	},
	{
		{15, 1, 8, 14, 6, 11, 3, 4, 9, 7, 2, 13, 12, 0, 5, 10},
		{3, 13, 4, 7, 15, 2, 8, 14, 12, 0, 1, 10, 6, 9, 11, 5},
		{0, 14, 7, 11, 10, 4, 13, 1, 5, 8, 12, 6, 9, 3, 2, 15},
		{13, 8, 10, 1, 3, 15, 4, 2, 11, 6, 7, 12, 0, 5, 14, 9},
	},
	{
		{10, 0, 9, 14, 6, 3, 15, 5, 1, 13, 12, 7, 11, 4, 2, 8},
		{13, 7, 0, 9, 3, 4, 6, 10, 2, 8, 5, 14, 12, 11, 15, 1},
		{13, 6, 4, 9, 8, 15, 3, 0, 11, 1, 2, 12, 5, 10, 14, 7},
		{1, 10, 13, 0, 6, 9, 8, 7, 4, 15, 14, 3, 11, 5, 2, 12},
	},
	{
		{7, 13, 14, 3, 0, 6, 9, 10, 1, 2, 8, 5, 11, 12, 4, 15},
		{13, 8, 11, 5, 6, 15, 0, 3, 4, 7, 2, 12, 1, 10, 14, 9},
		{10, 6, 9, 0, 12, 11, 7, 13, 15, 1, 3, 14, 5, 2, 8, 4},
		{3, 15, 0, 6, 10, 1, 13, 8, 9, 4, 5, 11, 12, 7, 2, 14},
	},
	{
		{2, 12, 4, 1, 7, 10, 11, 6, 8, 5, 3, 15, 13, 0, 14, 9},
		{14, 11, 2, 12, 4, 7, 13, 1, 5, 0, 15, 10, 3, 9, 8, 6},
		{4, 2, 1, 11, 10, 13, 7, 8, 15, 9, 12, 5, 6, 3, 0, 14},
		{11, 8, 12, 7, 1, 14, 2, 13, 6, 15, 0, 9, 10, 4, 5, 3},
	},
	{
		{12, 1, 10, 15, 9, 2, 6, 8, 0, 13, 3, 4, 14, 7, 5, 11},
		{10, 15, 4, 2, 7, 12, 9, 5, 6, 1, 13, 14, 0, 11, 3, 8},
		{9, 14, 15, 5, 2, 8, 12, 3, 7, 0, 4, 10, 1, 13, 11, 6},
		{4, 3, 2, 12, 9, 5, 15, 10, 11, 14, 1, 7, 6, 0, 8, 13},
	},
	{
		{4, 11, 2, 14, 15, 0, 8, 13, 3, 12, 9, 7, 5, 10, 6, 1},
		{13, 0, 11, 7, 4, 9, 1, 10, 14, 3, 5, 12, 2, 15, 8, 6},
		{1, 4, 11, 13, 12, 3, 7, 14, 10, 15, 6, 8, 0, 5, 9, 2},
		{6, 11, 13, 8, 1, 4, 10, 7, 9, 5, 0, 15, 14, 2, 3, 12},
	},
	{
		{13, 2, 8, 4, 6, 15, 11, 1, 10, 9, 3, 14, 5, 0, 12, 7},
		{1, 15, 13, 8, 10, 3, 7, 4, 12, 5, 6, 11, 0, 14, 9, 2},
		{7, 11, 4, 1, 9, 12, 14, 2, 0, 6, 10, 13, 15, 3, 5, 8},
		{2, 1, 14, 7, 4, 10, 8, 13, 15, 12, 9, 0, 3, 5, 6, 11},
	},
}

// keySchedule expands a 56-bit key into 16 six-byte (48-bit) round keys.
type keySchedule struct{}

// normalizeTo64 accepts a 7-byte raw key or an 8-byte key whose parity bits
// will be regenerated, and returns a 64-bit key with odd per-byte parity
// (spec.md §4.4).
func normalizeTo64(key []byte) ([]byte, error) {
	switch len(key) {
	case 8:
		out := make([]byte, 8)
		for i, b := range key {
			data7 := b &^ 1
			out[i] = data7 | oddParityBit(data7)
		}
		return out, nil
	case 7:
		bits := make([]int, 0, 56)
		for _, b := range key {
			for i := 7; i >= 0; i-- {
				bits = append(bits, int((b>>uint(i))&1))
			}
		}
		out := make([]byte, 8)
		for i := 0; i < 8; i++ {
			group := bits[i*7 : i*7+7]
			var data byte
			for _, bit := range group {
				data = (data << 1) | byte(bit)
			}
			data <<= 1
			out[i] = data | oddParityBit(data&^1)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("des: key must be 7 or 8 bytes, got %d", len(key))
	}
}

func oddParityBit(dataWithClearedLowBit byte) byte {
	ones := 0
	for i := 1; i < 8; i++ {
		if dataWithClearedLowBit&(1<<uint(i)) != 0 {
			ones++
		}
	}
	if ones%2 == 0 {
		return 1
	}
	return 0
}

func (keySchedule) ExpandKey(key []byte) ([][]byte, error) {
	key64, err := normalizeTo64(key)
	if err != nil {
		return nil, err
	}

	permuted := bitperm.Permute(key64, pc1)
	cBits := unpackBits(permuted)[:28]
	dBits := unpackBits(permuted)[28:]

	roundKeys := make([][]byte, rounds)
	for r := 0; r < rounds; r++ {
		cBits = rotateLeft(cBits, shiftSchedule[r])
		dBits = rotateLeft(dBits, shiftSchedule[r])
		combined := packBits(append(append([]int{}, cBits...), dBits...))
		roundKeys[r] = bitperm.Permute(combined, pc2)
	}
	return roundKeys, nil
}

func rotateLeft(bits []int, n int) []int {
	n %= len(bits)
	return append(append([]int{}, bits[n:]...), bits[:n]...)
}

func unpackBits(data []byte) []int {
	bits := make([]int, 0, len(data)*8)
	for _, b := range data {
		for i := 7; i >= 0; i-- {
			bits = append(bits, int((b>>uint(i))&1))
		}
	}
	return bits
}

func packBits(bits []int) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit == 0 {
			continue
		}
		out[i/8] |= byte(bit) << uint(7-(i%8))
	}
	return out
}

// roundFunction implements the Feistel F applied to a 4-byte half-block
// under a 6-byte round key: expand to 48 bits, XOR with the round key,
// split into eight 6-bit S-box lookups, permute the result.
type roundFunction struct{}

func (roundFunction) Apply(half, roundKey []byte) ([]byte, error) {
	if len(half) != halfSize {
		return nil, fmt.Errorf("des: round function expects %d-byte half, got %d", halfSize, len(half))
	}
	expanded := bitperm.Permute(half, expansion)
	xored := make([]byte, len(expanded))
	for i := range expanded {
		xored[i] = expanded[i] ^ roundKey[i]
	}

	bits := unpackBits(xored)
	sOut := make([]int, 0, 32)
	for i := 0; i < 8; i++ {
		group := bits[i*6 : i*6+6]
		row := group[0]<<1 | group[5]
		col := group[1]<<3 | group[2]<<2 | group[3]<<1 | group[4]
		val := sBoxes[i][row][col]
		for b := 3; b >= 0; b-- {
			sOut = append(sOut, (val>>uint(b))&1)
		}
	}

	return bitperm.Permute(packBits(sOut), permutationP), nil
}

// Cipher is DES as a blockcipher.Cipher.
type Cipher struct {
	network     *feistel.Network
	initialized bool
}

// New returns an unkeyed DES cipher.
func New() *Cipher {
	return &Cipher{network: feistel.New(keySchedule{}, roundFunction{}, rounds, halfSize)}
}

func (c *Cipher) BlockSize() int          { return blockSize }
func (c *Cipher) SupportedKeySizes() []int { return []int{7, 8} }
func (c *Cipher) RoundsCount() int         { return rounds }
func (c *Cipher) IsInitialized() bool      { return c.initialized }

// RoundKeys reports the 16 six-byte round keys derived by the last
// Initialize call (blockcipher.RoundKeyReporter).
func (c *Cipher) RoundKeys() [][]byte {
	return c.network.RoundKeys()
}

func (c *Cipher) Initialize(key []byte) error {
	if err := c.network.SetupKeys(key); err != nil {
		return fmt.Errorf("des: %w", err)
	}
	c.initialized = true
	return nil
}

func (c *Cipher) EncryptBlock(plaintext []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("des: not initialized")
	}
	if len(plaintext) != blockSize {
		return nil, fmt.Errorf("des: block must be %d bytes, got %d", blockSize, len(plaintext))
	}
	permuted := bitperm.Permute(plaintext, initialPermutation)
	rounded, err := c.network.Encrypt(permuted)
	if err != nil {
		return nil, fmt.Errorf("des: %w", err)
	}
	return bitperm.Permute(rounded, finalPermutation), nil
}

func (c *Cipher) DecryptBlock(ciphertext []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("des: not initialized")
	}
	if len(ciphertext) != blockSize {
		return nil, fmt.Errorf("des: block must be %d bytes, got %d", blockSize, len(ciphertext))
	}
	permuted := bitperm.Permute(ciphertext, initialPermutation)
	rounded, err := c.network.Decrypt(permuted)
	if err != nil {
		return nil, fmt.Errorf("des: %w", err)
	}
	return bitperm.Permute(rounded, finalPermutation), nil
}
