// Package symmetric is the cipher-context mode engine: it drives any
// blockcipher.Cipher through seven confidentiality modes with padding,
// over buffers and streamed files (spec.md §4.1, the library's core).
package symmetric

import "cryptolab/pkg/padding"

// CipherMode selects a confidentiality mode.
type CipherMode int

const (
	ECB CipherMode = iota
	CBC
	PCBC
	CFB
	OFB
	CTR
	RandomDelta
)

func (m CipherMode) String() string {
	switch m {
	case ECB:
		return "ECB"
	case CBC:
		return "CBC"
	case PCBC:
		return "PCBC"
	case CFB:
		return "CFB"
	case OFB:
		return "OFB"
	case CTR:
		return "CTR"
	case RandomDelta:
		return "RandomDelta"
	default:
		return "Unknown"
	}
}

func (m CipherMode) needsIV() bool { return m != ECB }

// PaddingMode re-exports pkg/padding's Mode so callers configure a
// context without importing pkg/padding directly.
type PaddingMode = padding.Mode

const (
	Zeros    = padding.Zeros
	ANSIX923 = padding.ANSIX923
	PKCS7    = padding.PKCS7
	ISO10126 = padding.ISO10126
)

// ModeState is the opaque per-stream continuation threaded through
// chunked file processing (spec.md §3, §9 — explicit, never stored by
// the context itself).
type ModeState struct {
	// Initial carries: previous ciphertext block (CBC), PCBC accumulator,
	// shift register (CFB), feedback (OFB), counter/nonce (CTR), running
	// state (RandomDelta). Always block_size bytes once populated.
	Initial []byte
	// Delta is RandomDelta's block_size/2-byte increment.
	Delta []byte
	// IsEnd is true on the final chunk of a stream; only then is
	// depadding applied.
	IsEnd bool
}
