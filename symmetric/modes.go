package symmetric

import (
	"fmt"
	"sync"

	"cryptolab/pkg/blockcipher"
)

// encryptModeFull dispatches a whole, already-padded buffer to the
// configured mode, handling the CTR/RandomDelta prefix block (spec.md
// §4.1.1).
func (c *Context) encryptModeFull(padded []byte) ([]byte, error) {
	switch c.mode {
	case ECB:
		if len(padded)%c.blockSize != 0 {
			return nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
		}
		return ecbEncryptBlocks(c.cipher, padded)
	case CBC:
		out, _, err := cbcEncryptBlocks(c.cipher, padded, c.iv)
		return out, err
	case PCBC:
		out, _, err := pcbcEncryptBlocks(c.cipher, padded, c.iv)
		return out, err
	case CFB:
		out, _, err := cfbEncryptBlocks(c.cipher, padded, c.iv)
		return out, err
	case OFB:
		out, _, err := ofbBlocks(c.cipher, padded, c.iv)
		return out, err
	case CTR:
		prefix, err := c.cipher.EncryptBlock(c.randomData)
		if err != nil {
			return nil, fmt.Errorf("encrypting CTR nonce: %w", err)
		}
		body, _, err := ctrXorBlocks(c.cipher, padded, c.randomData)
		if err != nil {
			return nil, err
		}
		return append(prefix, body...), nil
	case RandomDelta:
		prefix, err := c.cipher.EncryptBlock(c.randomData)
		if err != nil {
			return nil, fmt.Errorf("encrypting RandomDelta state: %w", err)
		}
		half := c.blockSize / 2
		delta := append([]byte{}, c.randomData[half:]...)
		body, _, err := randomDeltaProcess(c.cipher, padded, c.randomData, delta, true)
		if err != nil {
			return nil, err
		}
		return append(prefix, body...), nil
	default:
		return nil, fmt.Errorf("%w: unknown mode %v", ErrInvalidArgument, c.mode)
	}
}

// decryptModeFull is encryptModeFull's inverse.
func (c *Context) decryptModeFull(data []byte) ([]byte, error) {
	switch c.mode {
	case ECB:
		if len(data) == 0 || len(data)%c.blockSize != 0 {
			return nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
		}
		return ecbDecryptBlocks(c.cipher, data)
	case CBC:
		if len(data)%c.blockSize != 0 {
			return nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
		}
		out, _, err := cbcDecryptBlocks(c.cipher, data, c.iv)
		return out, err
	case PCBC:
		if len(data)%c.blockSize != 0 {
			return nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
		}
		out, _, err := pcbcDecryptBlocks(c.cipher, data, c.iv)
		return out, err
	case CFB:
		if len(data)%c.blockSize != 0 {
			return nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
		}
		out, _, err := cfbDecryptBlocks(c.cipher, data, c.iv)
		return out, err
	case OFB:
		if len(data)%c.blockSize != 0 {
			return nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
		}
		out, _, err := ofbBlocks(c.cipher, data, c.iv)
		return out, err
	case CTR:
		if len(data) < c.blockSize {
			return nil, fmt.Errorf("%w", ErrInputTooShort)
		}
		nonce, err := c.cipher.DecryptBlock(data[:c.blockSize])
		if err != nil {
			return nil, fmt.Errorf("decrypting CTR nonce: %w", err)
		}
		out, _, err := ctrXorBlocks(c.cipher, data[c.blockSize:], nonce)
		return out, err
	case RandomDelta:
		if len(data) < c.blockSize {
			return nil, fmt.Errorf("%w", ErrInputTooShort)
		}
		initial, err := c.cipher.DecryptBlock(data[:c.blockSize])
		if err != nil {
			return nil, fmt.Errorf("decrypting RandomDelta state: %w", err)
		}
		half := c.blockSize / 2
		delta := append([]byte{}, initial[half:]...)
		out, _, err := randomDeltaProcess(c.cipher, data[c.blockSize:], initial, delta, false)
		return out, err
	default:
		return nil, fmt.Errorf("%w: unknown mode %v", ErrInvalidArgument, c.mode)
	}
}

func xorBlocks(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}

// ecbEncryptBlocks and ecbDecryptBlocks dispatch every block to its own
// worker, writing to disjoint ranges of a shared output buffer
// (spec.md §5).
func ecbEncryptBlocks(cipher blockcipher.Cipher, data []byte) ([]byte, error) {
	blockSize := cipher.BlockSize()
	n := len(data) / blockSize
	out := make([]byte, len(data))

	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pos := i * blockSize
			block, err := cipher.EncryptBlock(data[pos : pos+blockSize])
			if err != nil {
				errCh <- fmt.Errorf("block %d: %w", i, err)
				return
			}
			copy(out[pos:], block)
		}(i)
	}
	wg.Wait()
	close(errCh)
	if err, ok := <-errCh; ok {
		return nil, err
	}
	return out, nil
}

func ecbDecryptBlocks(cipher blockcipher.Cipher, data []byte) ([]byte, error) {
	blockSize := cipher.BlockSize()
	n := len(data) / blockSize
	out := make([]byte, len(data))

	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			pos := i * blockSize
			block, err := cipher.DecryptBlock(data[pos : pos+blockSize])
			if err != nil {
				errCh <- fmt.Errorf("block %d: %w", i, err)
				return
			}
			copy(out[pos:], block)
		}(i)
	}
	wg.Wait()
	close(errCh)
	if err, ok := <-errCh; ok {
		return nil, err
	}
	return out, nil
}

// cbcEncryptBlocks/cbcDecryptBlocks run the chained CBC recurrence
// sequentially, carrying prev as they go; the caller gets the advanced
// prev back for the next chunk.
func cbcEncryptBlocks(cipher blockcipher.Cipher, data, prev []byte) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	if len(data)%blockSize != 0 {
		return nil, nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
	}
	out := make([]byte, len(data))
	running := append([]byte{}, prev...)
	for i := 0; i < len(data)/blockSize; i++ {
		pos := i * blockSize
		block, err := cipher.EncryptBlock(xorBlocks(data[pos:pos+blockSize], running))
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
		copy(out[pos:], block)
		running = block
	}
	return out, running, nil
}

func cbcDecryptBlocks(cipher blockcipher.Cipher, data, prev []byte) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	out := make([]byte, len(data))
	running := append([]byte{}, prev...)
	for i := 0; i < len(data)/blockSize; i++ {
		pos := i * blockSize
		cBlock := data[pos : pos+blockSize]
		dBlock, err := cipher.DecryptBlock(cBlock)
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
		copy(out[pos:], xorBlocks(dBlock, running))
		running = append([]byte{}, cBlock...)
	}
	return out, running, nil
}

func pcbcEncryptBlocks(cipher blockcipher.Cipher, data, prev []byte) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	if len(data)%blockSize != 0 {
		return nil, nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
	}
	out := make([]byte, len(data))
	running := append([]byte{}, prev...)
	for i := 0; i < len(data)/blockSize; i++ {
		pos := i * blockSize
		plain := data[pos : pos+blockSize]
		cBlock, err := cipher.EncryptBlock(xorBlocks(plain, running))
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
		copy(out[pos:], cBlock)
		running = xorBlocks(plain, cBlock)
	}
	return out, running, nil
}

func pcbcDecryptBlocks(cipher blockcipher.Cipher, data, prev []byte) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	out := make([]byte, len(data))
	running := append([]byte{}, prev...)
	for i := 0; i < len(data)/blockSize; i++ {
		pos := i * blockSize
		cBlock := data[pos : pos+blockSize]
		dBlock, err := cipher.DecryptBlock(cBlock)
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
		plain := xorBlocks(dBlock, running)
		copy(out[pos:], plain)
		running = xorBlocks(plain, cBlock)
	}
	return out, running, nil
}

func cfbEncryptBlocks(cipher blockcipher.Cipher, data, shiftReg []byte) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	if len(data)%blockSize != 0 {
		return nil, nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
	}
	out := make([]byte, len(data))
	shift := append([]byte{}, shiftReg...)
	for i := 0; i < len(data)/blockSize; i++ {
		pos := i * blockSize
		keystream, err := cipher.EncryptBlock(shift)
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
		cBlock := xorBlocks(data[pos:pos+blockSize], keystream)
		copy(out[pos:], cBlock)
		shift = cBlock
	}
	return out, shift, nil
}

func cfbDecryptBlocks(cipher blockcipher.Cipher, data, shiftReg []byte) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	out := make([]byte, len(data))
	shift := append([]byte{}, shiftReg...)
	for i := 0; i < len(data)/blockSize; i++ {
		pos := i * blockSize
		keystream, err := cipher.EncryptBlock(shift)
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
		cBlock := data[pos : pos+blockSize]
		copy(out[pos:], xorBlocks(cBlock, keystream))
		shift = append([]byte{}, cBlock...)
	}
	return out, shift, nil
}

// ofbBlocks implements both directions: OFB's key-stream chain does not
// depend on plaintext/ciphertext, so encrypt and decrypt are identical.
func ofbBlocks(cipher blockcipher.Cipher, data, feedbackReg []byte) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	if len(data)%blockSize != 0 {
		return nil, nil, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
	}
	out := make([]byte, len(data))
	feedback := append([]byte{}, feedbackReg...)
	for i := 0; i < len(data)/blockSize; i++ {
		pos := i * blockSize
		var err error
		feedback, err = cipher.EncryptBlock(feedback)
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}
		copy(out[pos:], xorBlocks(data[pos:pos+blockSize], feedback))
	}
	return out, feedback, nil
}

// ctrXorBlocks dispatches blocks in parallel, each keyed by
// counterBase + i (big-endian scalar increment over the full block,
// spec.md §4.1.4). It returns the counter value the next chunk should
// continue from (counterBase advanced by the number of blocks
// processed).
func ctrXorBlocks(cipher blockcipher.Cipher, data, counterBase []byte) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	n := (len(data) + blockSize - 1) / blockSize
	out := make([]byte, len(data))

	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			counter := append([]byte{}, counterBase...)
			incrementByScalar(counter, i)
			keystream, err := cipher.EncryptBlock(counter)
			if err != nil {
				errCh <- fmt.Errorf("block %d: %w", i, err)
				return
			}
			pos := i * blockSize
			end := pos + blockSize
			if end > len(data) {
				end = len(data)
			}
			for j := 0; j < end-pos; j++ {
				out[pos+j] = data[pos+j] ^ keystream[j]
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	if err, ok := <-errCh; ok {
		return nil, nil, err
	}

	next := append([]byte{}, counterBase...)
	incrementByScalar(next, n)
	return out, next, nil
}

// randomDeltaProcess implements the XORs-only-the-low-half-block quirk
// documented in spec.md §9: the running state is a full block_size
// value; only its first block_size/2 bytes (the current mask) are ever
// XORed into a block, and delta is added into the state's last
// block_size/2 bytes each round, with carry free to propagate into the
// mask-bearing first half over many blocks. Encrypt XORs the mask in
// before EncryptBlock; decrypt (encrypt=false) calls DecryptBlock on the
// unmodified ciphertext block and XORs the same mask in afterwards.
func randomDeltaProcess(cipher blockcipher.Cipher, data, initialState, delta []byte, encrypt bool) ([]byte, []byte, error) {
	blockSize := cipher.BlockSize()
	half := blockSize / 2
	n := (len(data) + blockSize - 1) / blockSize
	out := make([]byte, len(data))

	state := append([]byte{}, initialState...)
	for i := 0; i < n; i++ {
		pos := i * blockSize
		end := pos + blockSize
		if end > len(data) {
			end = len(data)
		}
		block := make([]byte, blockSize)
		copy(block, data[pos:end])

		masked := append([]byte{}, block...)
		if encrypt {
			for j := 0; j < half; j++ {
				masked[j] ^= state[j]
			}
		}

		var transformed []byte
		var err error
		if encrypt {
			transformed, err = cipher.EncryptBlock(masked)
		} else {
			transformed, err = cipher.DecryptBlock(masked)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("block %d: %w", i, err)
		}

		if encrypt {
			copy(out[pos:end], transformed[:end-pos])
		} else {
			result := append([]byte{}, transformed...)
			for j := 0; j < half; j++ {
				result[j] ^= state[j]
			}
			copy(out[pos:end], result[:end-pos])
		}

		addVectorLowAligned(state, delta)
	}
	return out, state, nil
}

// incrementByScalar treats counter as a big-endian integer over its full
// length, adds value, and propagates carry leftward, early-exiting once
// the carry is absorbed (spec.md §4.1.4, "by scalar i").
func incrementByScalar(counter []byte, value int) {
	for i := len(counter) - 1; i >= 0 && value != 0; i-- {
		sum := int(counter[i]) + (value & 0xFF)
		counter[i] = byte(sum)
		value >>= 8
		if sum > 0xFF {
			value++
		}
	}
}

// addVectorLowAligned adds delta into state in place, aligned to
// state's low (rightmost) end, with any residual carry propagating
// further left through the remainder of state (spec.md §4.1.4, "by
// byte-vector increment").
func addVectorLowAligned(state, delta []byte) {
	n, m := len(state), len(delta)
	carry := 0
	for i := 0; i < m; i++ {
		idx := n - 1 - i
		sum := int(state[idx]) + int(delta[m-1-i]) + carry
		state[idx] = byte(sum)
		carry = sum >> 8
	}
	for i := n - m - 1; i >= 0 && carry != 0; i-- {
		sum := int(state[i]) + carry
		state[i] = byte(sum)
		carry = sum >> 8
	}
}
