// Package rijndael implements the Rijndael block cipher, parameterized
// over block size, key size and finite-field modulus, per spec.md §4.8.
package rijndael

import (
	"fmt"

	"cryptolab/pkg/gf256"
)

// Cipher is Rijndael as a blockcipher.Cipher.
type Cipher struct {
	blockSize int
	keySize   int
	modulus   byte
	field     *gf256.Field
	sBox      [256]byte
	invSBox   [256]byte
	roundKeys [][]byte
	nb        int
	nk        int
	nr        int
	initialized bool
}

// New returns an unkeyed Rijndael cipher for the given block size, key
// size (both in {16,24,32} bytes) and GF(2^8) reduction modulus (0x1B is
// the AES default).
func New(blockSize, keySize int, modulus byte) (*Cipher, error) {
	if blockSize != 16 && blockSize != 24 && blockSize != 32 {
		return nil, fmt.Errorf("rijndael: block size must be 16, 24 or 32, got %d", blockSize)
	}
	if keySize != 16 && keySize != 24 && keySize != 32 {
		return nil, fmt.Errorf("rijndael: key size must be 16, 24 or 32, got %d", keySize)
	}
	field, err := gf256.New(modulus)
	if err != nil {
		return nil, fmt.Errorf("rijndael: %w", err)
	}

	nb := blockSize / 4
	nk := keySize / 4
	maxNbNk := nb
	if nk > maxNbNk {
		maxNbNk = nk
	}

	c := &Cipher{
		blockSize: blockSize,
		keySize:   keySize,
		modulus:   modulus,
		field:     field,
		nb:        nb,
		nk:        nk,
		nr:        maxNbNk + 6,
	}
	c.initializeSBox()
	return c, nil
}

func (c *Cipher) BlockSize() int          { return c.blockSize }
func (c *Cipher) SupportedKeySizes() []int { return []int{c.keySize} }
func (c *Cipher) RoundsCount() int         { return c.nr }
func (c *Cipher) IsInitialized() bool      { return c.initialized }

func (c *Cipher) Initialize(key []byte) error {
	if len(key) != c.keySize {
		return fmt.Errorf("rijndael: key must be %d bytes, got %d", c.keySize, len(key))
	}
	c.roundKeys = c.keyExpansion(key)
	c.initialized = true
	return nil
}

func (c *Cipher) EncryptBlock(plaintext []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("rijndael: not initialized")
	}
	if len(plaintext) != c.blockSize {
		return nil, fmt.Errorf("rijndael: block must be %d bytes, got %d", c.blockSize, len(plaintext))
	}

	state := c.bytesToState(plaintext)
	c.addRoundKey(state, 0)

	for round := 1; round < c.nr; round++ {
		c.subBytes(state)
		c.shiftRows(state)
		c.mixColumns(state)
		c.addRoundKey(state, round)
	}

	c.subBytes(state)
	c.shiftRows(state)
	c.addRoundKey(state, c.nr)

	return c.stateToBytes(state), nil
}

func (c *Cipher) DecryptBlock(ciphertext []byte) ([]byte, error) {
	if !c.initialized {
		return nil, fmt.Errorf("rijndael: not initialized")
	}
	if len(ciphertext) != c.blockSize {
		return nil, fmt.Errorf("rijndael: block must be %d bytes, got %d", c.blockSize, len(ciphertext))
	}

	state := c.bytesToState(ciphertext)
	c.addRoundKey(state, c.nr)

	for round := c.nr - 1; round > 0; round-- {
		c.invShiftRows(state)
		c.invSubBytes(state)
		c.addRoundKey(state, round)
		c.invMixColumns(state)
	}

	c.invShiftRows(state)
	c.invSubBytes(state)
	c.addRoundKey(state, 0)

	return c.stateToBytes(state), nil
}

// initializeSBox derives the S-box from the GF(2^8) multiplicative
// inverse followed by the standard affine transform, and its inverse by
// running the affine transform backward before inverting.
func (c *Cipher) initializeSBox() {
	for i := 0; i < 256; i++ {
		val := byte(i)
		if val != 0 {
			if inv, err := c.field.Inverse(val); err == nil {
				val = inv
			}
		}
		c.sBox[i] = affineTransform(val)
	}

	for i := 0; i < 256; i++ {
		val := invAffineTransform(byte(i))
		if val != 0 {
			if inv, err := c.field.Inverse(val); err == nil {
				val = inv
			}
		}
		c.invSBox[i] = val
	}
}

func affineTransform(b byte) byte {
	var result byte
	for i := 0; i < 8; i++ {
		var bit byte
		bit ^= (b >> uint(i)) & 1
		bit ^= (b >> uint((i+4)%8)) & 1
		bit ^= (b >> uint((i+5)%8)) & 1
		bit ^= (b >> uint((i+6)%8)) & 1
		bit ^= (b >> uint((i+7)%8)) & 1
		result |= bit << uint(i)
	}
	return result ^ 0x63
}

func invAffineTransform(b byte) byte {
	var result byte
	for i := 0; i < 8; i++ {
		var bit byte
		bit ^= (b >> uint((i+2)%8)) & 1
		bit ^= (b >> uint((i+5)%8)) & 1
		bit ^= (b >> uint((i+7)%8)) & 1
		result |= bit << uint(i)
	}
	return result ^ 0x05
}

func (c *Cipher) subBytes(state [][]byte) {
	for i := 0; i < 4; i++ {
		for j := 0; j < c.nb; j++ {
			state[i][j] = c.sBox[state[i][j]]
		}
	}
}

func (c *Cipher) invSubBytes(state [][]byte) {
	for i := 0; i < 4; i++ {
		for j := 0; j < c.nb; j++ {
			state[i][j] = c.invSBox[state[i][j]]
		}
	}
}

func (c *Cipher) shiftRows(state [][]byte) {
	for row := 1; row < 4; row++ {
		rotateLeft(state[row], c.getShift(row))
	}
}

func (c *Cipher) invShiftRows(state [][]byte) {
	for row := 1; row < 4; row++ {
		rotateRight(state[row], c.getShift(row))
	}
}

// getShift implements row1=1, row2=(2 if Nb<8 else 3), row3=(3 if Nb<8
// else 4).
func (c *Cipher) getShift(row int) int {
	if c.nb < 8 {
		return row
	}
	if row == 1 {
		return 1
	}
	return row + 1
}

func (c *Cipher) mixColumns(state [][]byte) {
	for col := 0; col < c.nb; col++ {
		c.mixColumn(state, col)
	}
}

func (c *Cipher) mixColumn(state [][]byte, col int) {
	a := [4]byte{state[0][col], state[1][col], state[2][col], state[3][col]}
	state[0][col] = c.gfMul(0x02, a[0]) ^ c.gfMul(0x03, a[1]) ^ a[2] ^ a[3]
	state[1][col] = a[0] ^ c.gfMul(0x02, a[1]) ^ c.gfMul(0x03, a[2]) ^ a[3]
	state[2][col] = a[0] ^ a[1] ^ c.gfMul(0x02, a[2]) ^ c.gfMul(0x03, a[3])
	state[3][col] = c.gfMul(0x03, a[0]) ^ a[1] ^ a[2] ^ c.gfMul(0x02, a[3])
}

func (c *Cipher) invMixColumns(state [][]byte) {
	for col := 0; col < c.nb; col++ {
		c.invMixColumn(state, col)
	}
}

func (c *Cipher) invMixColumn(state [][]byte, col int) {
	a := [4]byte{state[0][col], state[1][col], state[2][col], state[3][col]}
	state[0][col] = c.gfMul(0x0E, a[0]) ^ c.gfMul(0x0B, a[1]) ^ c.gfMul(0x0D, a[2]) ^ c.gfMul(0x09, a[3])
	state[1][col] = c.gfMul(0x09, a[0]) ^ c.gfMul(0x0E, a[1]) ^ c.gfMul(0x0B, a[2]) ^ c.gfMul(0x0D, a[3])
	state[2][col] = c.gfMul(0x0D, a[0]) ^ c.gfMul(0x09, a[1]) ^ c.gfMul(0x0E, a[2]) ^ c.gfMul(0x0B, a[3])
	state[3][col] = c.gfMul(0x0B, a[0]) ^ c.gfMul(0x0D, a[1]) ^ c.gfMul(0x09, a[2]) ^ c.gfMul(0x0E, a[3])
}

func (c *Cipher) gfMul(a, b byte) byte { return c.field.Multiply(a, b) }

func (c *Cipher) addRoundKey(state [][]byte, round int) {
	for col := 0; col < c.nb; col++ {
		for row := 0; row < 4; row++ {
			state[row][col] ^= c.roundKeys[round][row+col*4]
		}
	}
}

// keyExpansion produces Nb*(Nr+1) four-byte words via RotWord+SubBytes
// and a round constant at i%Nk==0, plus an extra SubBytes at i%Nk==4
// when Nk>6 (the AES-256 schedule wrinkle).
func (c *Cipher) keyExpansion(key []byte) [][]byte {
	totalWords := c.nb * (c.nr + 1)
	w := make([][]byte, totalWords)

	for i := 0; i < c.nk; i++ {
		w[i] = append([]byte{}, key[i*4:(i+1)*4]...)
	}

	for i := c.nk; i < totalWords; i++ {
		temp := append([]byte{}, w[i-1]...)
		if i%c.nk == 0 {
			temp = c.subWord(rotWord(temp))
			temp[0] ^= c.rcon(i / c.nk)
		} else if c.nk > 6 && i%c.nk == 4 {
			temp = c.subWord(temp)
		}

		word := make([]byte, 4)
		for j := 0; j < 4; j++ {
			word[j] = w[i-c.nk][j] ^ temp[j]
		}
		w[i] = word
	}

	roundKeys := make([][]byte, c.nr+1)
	for round := 0; round <= c.nr; round++ {
		roundKeys[round] = make([]byte, c.nb*4)
		for col := 0; col < c.nb; col++ {
			for row := 0; row < 4; row++ {
				roundKeys[round][row+col*4] = w[round*c.nb+col][row]
			}
		}
	}
	return roundKeys
}

func rotWord(word []byte) []byte {
	return []byte{word[1], word[2], word[3], word[0]}
}

func (c *Cipher) subWord(word []byte) []byte {
	out := make([]byte, 4)
	for i := 0; i < 4; i++ {
		out[i] = c.sBox[word[i]]
	}
	return out
}

func (c *Cipher) rcon(i int) byte {
	rc := byte(1)
	for j := 1; j < i; j++ {
		rc = c.gfMul(rc, 0x02)
	}
	return rc
}

func (c *Cipher) bytesToState(data []byte) [][]byte {
	state := make([][]byte, 4)
	for i := 0; i < 4; i++ {
		state[i] = make([]byte, c.nb)
		for j := 0; j < c.nb; j++ {
			state[i][j] = data[i+j*4]
		}
	}
	return state
}

func (c *Cipher) stateToBytes(state [][]byte) []byte {
	data := make([]byte, c.nb*4)
	for i := 0; i < 4; i++ {
		for j := 0; j < c.nb; j++ {
			data[i+j*4] = state[i][j]
		}
	}
	return data
}

func rotateLeft(slice []byte, n int) {
	n %= len(slice)
	temp := make([]byte, len(slice))
	copy(temp, slice[n:])
	copy(temp[len(slice)-n:], slice[:n])
	copy(slice, temp)
}

func rotateRight(slice []byte, n int) {
	n %= len(slice)
	temp := make([]byte, len(slice))
	copy(temp, slice[len(slice)-n:])
	copy(temp[n:], slice[:len(slice)-n])
	copy(slice, temp)
}
