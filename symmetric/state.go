package symmetric

import "fmt"

// InitialState builds the ModeState a fresh stream starts from (spec.md
// §4.1.3): CBC/PCBC/CFB/OFB continue from the IV, CTR/RandomDelta
// continue from random_data (and RandomDelta also carries its delta),
// ECB carries nothing.
func (c *Context) InitialState() ModeState {
	switch c.mode {
	case CBC, PCBC, CFB, OFB:
		return ModeState{Initial: append([]byte{}, c.iv...)}
	case CTR:
		return ModeState{Initial: append([]byte{}, c.randomData...)}
	case RandomDelta:
		half := c.blockSize / 2
		return ModeState{
			Initial: append([]byte{}, c.randomData...),
			Delta:   append([]byte{}, c.randomData[half:]...),
		}
	default:
		return ModeState{}
	}
}

// PrefixBlock returns the one block a CTR/RandomDelta stream writes
// ahead of its body (E(state.Initial)); nil for modes that don't use a
// prefix block.
func (c *Context) PrefixBlock(state ModeState) ([]byte, error) {
	if err := c.checkOpen(); err != nil {
		return nil, err
	}
	switch c.mode {
	case CTR, RandomDelta:
		prefix, err := c.cipher.EncryptBlock(state.Initial)
		if err != nil {
			return nil, fmt.Errorf("symmetric: encrypting prefix block: %w", err)
		}
		return prefix, nil
	default:
		return nil, nil
	}
}

// ConsumePrefixBlock recovers the ModeState a CTR/RandomDelta stream
// continues from, given the prefix block read off the wire; for other
// modes it returns InitialState() unchanged.
func (c *Context) ConsumePrefixBlock(prefixBlock []byte) (ModeState, error) {
	if err := c.checkOpen(); err != nil {
		return ModeState{}, err
	}
	switch c.mode {
	case CTR:
		initial, err := c.cipher.DecryptBlock(prefixBlock)
		if err != nil {
			return ModeState{}, fmt.Errorf("symmetric: decrypting CTR prefix block: %w", err)
		}
		return ModeState{Initial: initial}, nil
	case RandomDelta:
		initial, err := c.cipher.DecryptBlock(prefixBlock)
		if err != nil {
			return ModeState{}, fmt.Errorf("symmetric: decrypting RandomDelta prefix block: %w", err)
		}
		half := c.blockSize / 2
		return ModeState{Initial: initial, Delta: append([]byte{}, initial[half:]...)}, nil
	default:
		return c.InitialState(), nil
	}
}

// EncryptChunk encrypts one chunk of a stream, padding only when
// state.IsEnd (spec.md §4.1.3), and returns the state the next chunk
// continues from.
func (c *Context) EncryptChunk(state ModeState, data []byte) ([]byte, ModeState, error) {
	if err := c.checkOpen(); err != nil {
		return nil, ModeState{}, err
	}

	chunk := data
	if state.IsEnd {
		padded, err := c.padding.AddPadding(data, c.blockSize)
		if err != nil {
			return nil, ModeState{}, fmt.Errorf("symmetric: adding padding: %w", err)
		}
		chunk = padded
	} else if len(chunk)%c.blockSize != 0 {
		return nil, ModeState{}, fmt.Errorf("%w: non-final chunk not block-aligned", ErrInvalidArgument)
	}

	out, next, err := c.encryptChunkMode(chunk, state)
	if err != nil {
		return nil, ModeState{}, fmt.Errorf("symmetric: encrypt chunk: %w", err)
	}
	return out, next, nil
}

// DecryptChunk is EncryptChunk's inverse: depadding is applied only on
// the final chunk.
func (c *Context) DecryptChunk(state ModeState, data []byte) ([]byte, ModeState, error) {
	if err := c.checkOpen(); err != nil {
		return nil, ModeState{}, err
	}
	if !state.IsEnd && len(data)%c.blockSize != 0 {
		return nil, ModeState{}, fmt.Errorf("%w: non-final chunk not block-aligned", ErrInvalidArgument)
	}

	decrypted, next, err := c.decryptChunkMode(data, state)
	if err != nil {
		return nil, ModeState{}, fmt.Errorf("symmetric: decrypt chunk: %w", err)
	}

	if !state.IsEnd {
		return decrypted, next, nil
	}
	stripped, err := c.padding.RemovePadding(decrypted, c.blockSize)
	if err != nil {
		return nil, ModeState{}, fmt.Errorf("symmetric: removing padding: %w", err)
	}
	return stripped, next, nil
}

func (c *Context) encryptChunkMode(chunk []byte, state ModeState) ([]byte, ModeState, error) {
	switch c.mode {
	case ECB:
		if len(chunk)%c.blockSize != 0 {
			return nil, ModeState{}, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
		}
		out, err := ecbEncryptBlocks(c.cipher, chunk)
		return out, ModeState{IsEnd: state.IsEnd}, err
	case CBC:
		out, next, err := cbcEncryptBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case PCBC:
		out, next, err := pcbcEncryptBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case CFB:
		out, next, err := cfbEncryptBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case OFB:
		out, next, err := ofbBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case CTR:
		out, next, err := ctrXorBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case RandomDelta:
		out, next, err := randomDeltaProcess(c.cipher, chunk, state.Initial, state.Delta, true)
		return out, ModeState{Initial: next, Delta: state.Delta, IsEnd: state.IsEnd}, err
	default:
		return nil, ModeState{}, fmt.Errorf("%w: unknown mode %v", ErrInvalidArgument, c.mode)
	}
}

func (c *Context) decryptChunkMode(chunk []byte, state ModeState) ([]byte, ModeState, error) {
	switch c.mode {
	case ECB:
		if len(chunk)%c.blockSize != 0 {
			return nil, ModeState{}, fmt.Errorf("%w: data not block-aligned", ErrInvalidArgument)
		}
		out, err := ecbDecryptBlocks(c.cipher, chunk)
		return out, ModeState{IsEnd: state.IsEnd}, err
	case CBC:
		out, next, err := cbcDecryptBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case PCBC:
		out, next, err := pcbcDecryptBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case CFB:
		out, next, err := cfbDecryptBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case OFB:
		out, next, err := ofbBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case CTR:
		out, next, err := ctrXorBlocks(c.cipher, chunk, state.Initial)
		return out, ModeState{Initial: next, IsEnd: state.IsEnd}, err
	case RandomDelta:
		out, next, err := randomDeltaProcess(c.cipher, chunk, state.Initial, state.Delta, false)
		return out, ModeState{Initial: next, Delta: state.Delta, IsEnd: state.IsEnd}, err
	default:
		return nil, ModeState{}, fmt.Errorf("%w: unknown mode %v", ErrInvalidArgument, c.mode)
	}
}
