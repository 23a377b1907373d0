package rsa

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"os"
)

// streamBufferSize is the spec-mandated I/O chunk for file encrypt/decrypt.
const streamBufferSize = 81920

var (
	ErrKeysNotGenerated = errors.New("rsa: keys not generated")
	ErrMessageTooLarge  = errors.New("rsa: message too large for modulus")
	ErrInvalidPadding   = errors.New("rsa: invalid PKCS#1 v1.5 padding")
	ErrBadKeySize       = errors.New("rsa: bit_length must be >= 128 and a multiple of 8")
	ErrBadProbability   = errors.New("rsa: min_prime_probability must be in [0.5, 1)")
)

// PublicKey is (N, E).
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// PrivateKey carries D plus the factors, kept around for diagnostics
// (Wiener attack verification) though decryption only needs D and N.
type PrivateKey struct {
	Public *PublicKey
	D      *big.Int
	P      *big.Int
	Q      *big.Int
}

// KeyGenerator produces RSA key pairs using one selectable primality
// test and a target modulus bit length.
type KeyGenerator struct {
	testKind       PrimeTestKind
	minProbability float64
	bitLength      int
}

// NewKeyGenerator validates its parameters per spec.md §6:
// prime_test_kind, min_prime_probability in [0.5, 1), bit_length >= 128
// and a multiple of 8.
func NewKeyGenerator(testKind PrimeTestKind, minProbability float64, bitLength int) (*KeyGenerator, error) {
	if minProbability < 0.5 || minProbability >= 1 {
		return nil, ErrBadProbability
	}
	if bitLength < 128 || bitLength%8 != 0 {
		return nil, ErrBadKeySize
	}
	return &KeyGenerator{testKind: testKind, minProbability: minProbability, bitLength: bitLength}, nil
}

func (kg *KeyGenerator) generatePrime() (*big.Int, error) {
	for {
		candidate, err := rand.Prime(rand.Reader, kg.bitLength/2)
		if err != nil {
			return nil, err
		}
		if isProbablyPrime(kg.testKind, candidate, kg.minProbability) {
			return candidate, nil
		}
	}
}

// GenerateKeyPair produces (pub, priv), rejecting factor pairs too
// close together (Fermat-factoring defense) and private exponents too
// small (Wiener-attack defense: d must exceed n^(1/4)).
func (kg *KeyGenerator) GenerateKeyPair() (*PublicKey, *PrivateKey, error) {
	for {
		p, err := kg.generatePrime()
		if err != nil {
			return nil, nil, err
		}
		q, err := kg.generatePrime()
		if err != nil {
			return nil, nil, err
		}

		diff := new(big.Int).Sub(p, q)
		diff.Abs(diff)
		if kg.bitLength/2 > 100 {
			minDiff := new(big.Int).Lsh(big.NewInt(1), uint(kg.bitLength/2-100))
			if diff.Cmp(minDiff) < 0 {
				continue
			}
		}

		n := new(big.Int).Mul(p, q)
		phi := new(big.Int).Mul(
			new(big.Int).Sub(p, big.NewInt(1)),
			new(big.Int).Sub(q, big.NewInt(1)),
		)

		e := big.NewInt(65537)
		gcd, d, _ := extendedGCD(e, phi)
		if gcd.Cmp(big.NewInt(1)) != 0 {
			continue
		}
		if d.Sign() < 0 {
			d.Add(d, phi)
		}

		nFourthRoot := new(big.Int).Sqrt(new(big.Int).Sqrt(n))
		if d.Cmp(nFourthRoot) <= 0 {
			continue
		}

		pub := &PublicKey{N: n, E: e}
		priv := &PrivateKey{Public: pub, D: d, P: p, Q: q}
		return pub, priv, nil
	}
}

// maxPayload is the PKCS#1 v1.5 type-2 usable payload size for a key
// whose modulus is byteLen(N) bytes: block size minus the 3 fixed
// padding bytes (0x00, 0x02, 0x00 delimiter) and at least 8 random pad
// bytes (spec.md §6: ⌈bit_length/8⌉ − 11).
func maxPayload(byteLen int) int {
	return byteLen - 11
}

// pkcs1Pad applies PKCS#1 v1.5 type-2 padding: 0x00 || 0x02 ||
// non-zero-random-pad || 0x00 || payload, to exactly blockLen bytes.
func pkcs1Pad(payload []byte, blockLen int) ([]byte, error) {
	padLen := blockLen - len(payload) - 3
	if padLen < 8 {
		return nil, fmt.Errorf("rsa: payload too long for block: %w", ErrMessageTooLarge)
	}

	block := make([]byte, blockLen)
	block[0] = 0x00
	block[1] = 0x02

	padding := make([]byte, padLen)
	for i := 0; i < padLen; {
		b := make([]byte, padLen-i)
		if _, err := rand.Read(b); err != nil {
			return nil, fmt.Errorf("rsa: generating pad bytes: %w", err)
		}
		for _, x := range b {
			if x != 0 {
				padding[i] = x
				i++
			}
		}
	}
	copy(block[2:], padding)
	block[2+padLen] = 0x00
	copy(block[3+padLen:], payload)
	return block, nil
}

// pkcs1Unpad reverses pkcs1Pad, rejecting a structurally inconsistent
// block (unlike the library's permissive block-cipher padders, RSA
// padding errors are fatal since an unpadding failure usually means
// decryption with the wrong key).
func pkcs1Unpad(block []byte) ([]byte, error) {
	if len(block) < 11 || block[0] != 0x00 || block[1] != 0x02 {
		return nil, ErrInvalidPadding
	}
	i := 2
	for i < len(block) && block[i] != 0x00 {
		i++
	}
	if i == len(block) || i < 10 {
		return nil, ErrInvalidPadding
	}
	return block[i+1:], nil
}

// Encrypt chunks message into maxPayload(byteLen)-byte pieces, PKCS#1
// v1.5-pads each, and RSA-encrypts it into a fixed byteLen-byte block;
// the output is the concatenation of those blocks.
func Encrypt(message []byte, pub *PublicKey) ([]byte, error) {
	if pub == nil {
		return nil, ErrKeysNotGenerated
	}
	byteLen := (pub.N.BitLen() + 7) / 8
	chunkSize := maxPayload(byteLen)
	if chunkSize <= 0 {
		return nil, fmt.Errorf("rsa: modulus too small: %w", ErrBadKeySize)
	}

	if len(message) == 0 {
		return nil, nil
	}

	var out []byte
	for off := 0; off < len(message); off += chunkSize {
		end := off + chunkSize
		if end > len(message) {
			end = len(message)
		}
		padded, err := pkcs1Pad(message[off:end], byteLen)
		if err != nil {
			return nil, err
		}
		c := modPow(new(big.Int).SetBytes(padded), pub.E, pub.N)
		block := c.FillBytes(make([]byte, byteLen))
		out = append(out, block...)
	}
	return out, nil
}

// Decrypt reverses Encrypt: ciphertext must be a multiple of byteLen.
func Decrypt(ciphertext []byte, priv *PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, ErrKeysNotGenerated
	}
	byteLen := (priv.Public.N.BitLen() + 7) / 8
	if len(ciphertext)%byteLen != 0 {
		return nil, fmt.Errorf("rsa: ciphertext not block-aligned: %w", ErrInvalidPadding)
	}

	var out []byte
	for off := 0; off < len(ciphertext); off += byteLen {
		block := ciphertext[off : off+byteLen]
		m := modPow(new(big.Int).SetBytes(block), priv.D, priv.Public.N)
		padded := m.FillBytes(make([]byte, byteLen))
		payload, err := pkcs1Unpad(padded)
		if err != nil {
			return nil, err
		}
		out = append(out, payload...)
	}
	return out, nil
}

// EncryptFile streams inputPath through Encrypt in reads aligned to a
// whole number of plaintext chunks within the 81,920-byte I/O buffer,
// writing one ciphertext block per plaintext chunk to outputPath.
func EncryptFile(inputPath, outputPath string, pub *PublicKey) error {
	byteLen := (pub.N.BitLen() + 7) / 8
	unit := maxPayload(byteLen)
	return streamFile(inputPath, outputPath, unit, func(chunk []byte) ([]byte, error) {
		return Encrypt(chunk, pub)
	})
}

// DecryptFile is EncryptFile's inverse: reads are aligned to a whole
// number of byteLen-sized ciphertext blocks.
func DecryptFile(inputPath, outputPath string, priv *PrivateKey) error {
	byteLen := (priv.Public.N.BitLen() + 7) / 8
	return streamFile(inputPath, outputPath, byteLen, func(chunk []byte) ([]byte, error) {
		return Decrypt(chunk, priv)
	})
}

// streamFile reads inputPath in buffers sized to the largest multiple
// of unit that still fits in streamBufferSize, so every read handed to
// transform is itself a whole number of RSA blocks.
func streamFile(inputPath, outputPath string, unit int, transform func([]byte) ([]byte, error)) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("rsa: opening input file: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("rsa: creating output file: %w", err)
	}
	defer out.Close()

	bufSize := (streamBufferSize / unit) * unit
	if bufSize == 0 {
		bufSize = unit
	}
	buf := make([]byte, bufSize)
	for {
		n, readErr := io.ReadFull(in, buf)
		if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
			return fmt.Errorf("rsa: reading input file: %w", readErr)
		}
		if n > 0 {
			transformed, err := transform(buf[:n])
			if err != nil {
				return err
			}
			if _, err := out.Write(transformed); err != nil {
				return fmt.Errorf("rsa: writing output file: %w", err)
			}
		}
		if readErr == io.ErrUnexpectedEOF || readErr == io.EOF {
			return nil
		}
	}
}
