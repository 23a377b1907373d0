// Package blockcipher defines the capability every concrete cipher in
// pkg/ciphers implements, and that the symmetric mode engine consumes
// without knowing which concrete cipher it was handed (spec.md §6).
package blockcipher

// Cipher is a block cipher capability: advertise block size and supported
// key sizes, accept a key once, then encrypt/decrypt fixed-size blocks.
// Once Initialize has returned, a Cipher must be safe to call from
// multiple goroutines concurrently (the mode engine's parallel dispatch
// relies on this — spec.md §5).
type Cipher interface {
	// BlockSize is the fixed block length in bytes. RC4 reports 0 (it is
	// a stream cipher, dispatched outside the block-mode engine).
	BlockSize() int

	// SupportedKeySizes lists the key lengths, in bytes, Initialize will
	// accept.
	SupportedKeySizes() []int

	// RoundsCount reports the number of internal rounds, where the
	// concept applies (0 for ciphers without a fixed round structure).
	RoundsCount() int

	// IsInitialized reports whether Initialize has completed
	// successfully.
	IsInitialized() bool

	// Initialize expands key into whatever round-key material the
	// cipher needs. It must be called exactly once before any
	// EncryptBlock/DecryptBlock call.
	Initialize(key []byte) error

	// EncryptBlock and DecryptBlock each require len(data) == BlockSize()
	// and return a fresh slice of the same length.
	EncryptBlock(plaintext []byte) ([]byte, error)
	DecryptBlock(ciphertext []byte) ([]byte, error)
}

// RoundKeyReporter is implemented by ciphers that can expose their
// generated round keys for inspection (e.g. test fixtures asserting DES
// produces 16 six-byte round keys per spec.md §8).
type RoundKeyReporter interface {
	RoundKeys() [][]byte
}
