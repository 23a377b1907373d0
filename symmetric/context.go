package symmetric

import (
	"crypto/rand"
	"fmt"

	"cryptolab/pkg/blockcipher"
	"cryptolab/pkg/padding"
)

// disposer is an optional capability a borrowed cipher may implement;
// Context.Dispose calls it when present (spec.md §5's shared-resource
// policy: "disposal of the context also disposes [the cipher] iff it
// claims the disposable capability").
type disposer interface {
	Dispose()
}

// Context is the cipher context — the mode engine. It owns a defensive
// copy of the IV and a freshly generated random_data block, borrows the
// block cipher, and holds the padding provider (spec.md §3).
type Context struct {
	cipher     blockcipher.Cipher
	mode       CipherMode
	padding    padding.Provider
	iv         []byte
	randomData []byte
	blockSize  int
	disposed   bool
}

// New builds a context around an already-unkeyed cipher: cipher must not
// be nil, iv must be exactly block-sized for every mode except ECB (and
// must be nil for ECB), key is forwarded to cipher.Initialize.
func New(cipher blockcipher.Cipher, mode CipherMode, paddingMode PaddingMode, key, iv []byte) (*Context, error) {
	if cipher == nil {
		return nil, fmt.Errorf("symmetric: new context: %w", ErrInvalidArgument)
	}

	blockSize := cipher.BlockSize()
	if blockSize <= 0 {
		return nil, fmt.Errorf("symmetric: cipher block size must be positive, got %d: %w", blockSize, ErrInvalidArgument)
	}
	if mode.needsIV() {
		if len(iv) != blockSize {
			return nil, fmt.Errorf("symmetric: iv must be %d bytes for mode %s: %w", blockSize, mode, ErrInvalidArgument)
		}
	} else if iv != nil {
		return nil, fmt.Errorf("symmetric: ECB must not be given an iv: %w", ErrInvalidArgument)
	}

	provider, err := padding.New(paddingMode)
	if err != nil {
		return nil, fmt.Errorf("symmetric: %w: %v", ErrInvalidArgument, err)
	}

	if err := cipher.Initialize(key); err != nil {
		return nil, fmt.Errorf("symmetric: initializing cipher: %w", err)
	}

	ctx := &Context{
		cipher:    cipher,
		mode:      mode,
		padding:   provider,
		blockSize: blockSize,
	}
	if iv != nil {
		ctx.iv = append([]byte{}, iv...)
	}
	if blockSize > 0 {
		ctx.randomData = make([]byte, blockSize)
		if _, err := rand.Read(ctx.randomData); err != nil {
			return nil, fmt.Errorf("symmetric: generating random_data: %w", err)
		}
	}
	return ctx, nil
}

// Dispose releases the context: key-adjacent buffers are zeroed and, if
// the borrowed cipher claims the disposable capability, it is disposed
// too. Every public operation after Dispose fails with ErrUseAfterClose.
func (c *Context) Dispose() {
	if c.disposed {
		return
	}
	zero(c.iv)
	zero(c.randomData)
	if d, ok := c.cipher.(disposer); ok {
		d.Dispose()
	}
	c.disposed = true
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

func (c *Context) checkOpen() error {
	if c.disposed {
		return fmt.Errorf("symmetric: %w", ErrUseAfterClose)
	}
	return nil
}

// Encrypt pads data and runs it through the configured mode.
func (c *Context) Encrypt(data []byte) ([]byte, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("symmetric: empty input: %w", ErrInvalidArgument)
	}

	padded, err := c.padding.AddPadding(data, c.blockSize)
	if err != nil {
		return nil, fmt.Errorf("symmetric: adding padding: %w", err)
	}

	out, err := c.encryptModeFull(padded)
	if err != nil {
		return nil, fmt.Errorf("symmetric: encrypt: %w", err)
	}
	return out, nil
}

// Decrypt reverses Encrypt: data must be a positive multiple of
// block_size (plus the CTR/RandomDelta prefix block where applicable).
func (c *Context) Decrypt(data []byte) ([]byte, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("symmetric: empty input: %w", ErrInvalidArgument)
	}

	decrypted, err := c.decryptModeFull(data)
	if err != nil {
		return nil, fmt.Errorf("symmetric: decrypt: %w", err)
	}

	stripped, err := c.padding.RemovePadding(decrypted, c.blockSize)
	if err != nil {
		return nil, fmt.Errorf("symmetric: removing padding: %w", err)
	}
	return stripped, nil
}

// EncryptInto runs Encrypt into a caller-provided buffer; returns −1
// (not an error) when out is too small.
func (c *Context) EncryptInto(data, out []byte) (int, error) {
	encrypted, err := c.Encrypt(data)
	if err != nil {
		return 0, err
	}
	if len(out) < len(encrypted) {
		return -1, nil
	}
	return copy(out, encrypted), nil
}

// DecryptInto runs Decrypt into a caller-provided buffer; returns −1
// (not an error) when out is too small.
func (c *Context) DecryptInto(data, out []byte) (int, error) {
	decrypted, err := c.Decrypt(data)
	if err != nil {
		return 0, err
	}
	if len(out) < len(decrypted) {
		return -1, nil
	}
	return copy(out, decrypted), nil
}
