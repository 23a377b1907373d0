package api

import (
	"encoding/hex"
	"fmt"

	myErrors "cryptolab/internal/errors"
	"cryptolab/pkg/blockcipher"
	"cryptolab/pkg/ciphers/deal"
	"cryptolab/pkg/ciphers/des"
	"cryptolab/pkg/ciphers/frog"
	"cryptolab/pkg/ciphers/rc4"
	"cryptolab/pkg/ciphers/rc5"
	"cryptolab/pkg/ciphers/rc6"
	"cryptolab/pkg/ciphers/rijndael"
	"cryptolab/pkg/ciphers/tripledes"
	"cryptolab/symmetric"
)

// CipherSpec is the wire shape of an /v1/encrypt, /v1/decrypt or
// /v1/stream/{op} request: enough to build a blockcipher.Cipher and a
// symmetric.Context around it.
type CipherSpec struct {
	Algorithm string `json:"algorithm"`
	Mode      string `json:"mode"`
	Padding   string `json:"padding"`
	KeyHex    string `json:"key_hex"`
	IVHex     string `json:"iv_hex,omitempty"`

	// Rijndael-specific; zero values fall back to AES defaults.
	BlockSize int `json:"block_size,omitempty"`
	Modulus   int `json:"modulus,omitempty"`

	// RC5-specific.
	WordSize uint `json:"word_size,omitempty"`
	Rounds   uint `json:"rounds,omitempty"`
}

func buildCipher(spec CipherSpec, keyLen int) (blockcipher.Cipher, error) {
	switch spec.Algorithm {
	case "des":
		return des.New(), nil
	case "tripledes":
		return tripledes.New(), nil
	case "deal":
		return deal.New(), nil
	case "frog":
		return frog.New(), nil
	case "rc4":
		return rc4.New(), nil
	case "rc6":
		return rc6.New(), nil
	case "rc5":
		wordSize, rounds := spec.WordSize, spec.Rounds
		if wordSize == 0 {
			wordSize = 32
		}
		if rounds == 0 {
			rounds = 12
		}
		return rc5.New(wordSize, rounds, uint(keyLen))
	case "rijndael":
		blockSize, modulus := spec.BlockSize, spec.Modulus
		if blockSize == 0 {
			blockSize = 16
		}
		if modulus == 0 {
			modulus = 0x1B
		}
		return rijndael.New(blockSize, keyLen, byte(modulus))
	default:
		return nil, fmt.Errorf("%w: %q", myErrors.ErrUnsupportedCipher, spec.Algorithm)
	}
}

func parseMode(mode string) (symmetric.CipherMode, error) {
	switch mode {
	case "ECB":
		return symmetric.ECB, nil
	case "CBC":
		return symmetric.CBC, nil
	case "PCBC":
		return symmetric.PCBC, nil
	case "CFB":
		return symmetric.CFB, nil
	case "OFB":
		return symmetric.OFB, nil
	case "CTR":
		return symmetric.CTR, nil
	case "RandomDelta":
		return symmetric.RandomDelta, nil
	default:
		return 0, fmt.Errorf("api: unknown mode %q", mode)
	}
}

func parsePadding(padding string) (symmetric.PaddingMode, error) {
	switch padding {
	case "Zeros":
		return symmetric.Zeros, nil
	case "ANSIX923":
		return symmetric.ANSIX923, nil
	case "PKCS7":
		return symmetric.PKCS7, nil
	case "ISO10126":
		return symmetric.ISO10126, nil
	default:
		return 0, fmt.Errorf("api: unknown padding %q", padding)
	}
}

// buildContext constructs a ready-to-use symmetric.Context from spec,
// decoding its hex key/iv fields.
func buildContext(spec CipherSpec) (*symmetric.Context, error) {
	key, err := hex.DecodeString(spec.KeyHex)
	if err != nil {
		return nil, fmt.Errorf("api: decoding key_hex: %w", err)
	}

	cipher, err := buildCipher(spec, len(key))
	if err != nil {
		return nil, err
	}

	mode, err := parseMode(spec.Mode)
	if err != nil {
		return nil, err
	}
	paddingMode, err := parsePadding(spec.Padding)
	if err != nil {
		return nil, err
	}

	var iv []byte
	if spec.IVHex != "" {
		iv, err = hex.DecodeString(spec.IVHex)
		if err != nil {
			return nil, fmt.Errorf("api: decoding iv_hex: %w", err)
		}
	}

	return symmetric.New(cipher, mode, paddingMode, key, iv)
}
