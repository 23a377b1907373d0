package symmetric

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// EncryptStream drives the chunked file-processing state machine of
// spec.md §4.1.3 over src/dst: it builds the initial ModeState, writes
// the CTR/RandomDelta prefix block, then repeatedly reads up to
// chunkSize bytes, encrypting each chunk (padding only the final one)
// and carrying the returned ModeState to the next read.
//
// chunkSize must be a positive multiple of the cipher's block size; a
// violation is a caller error, not a data error, so it is reported
// through ErrInvalidArgument rather than retried or rounded.
func (c *Context) EncryptStream(dst io.Writer, src io.Reader, chunkSize int) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if c.blockSize > 0 && (chunkSize <= 0 || chunkSize%c.blockSize != 0) {
		return fmt.Errorf("symmetric: chunk size must be a positive multiple of %d: %w", c.blockSize, ErrInvalidArgument)
	}

	state := c.InitialState()
	if prefix, err := c.PrefixBlock(state); err != nil {
		return err
	} else if prefix != nil {
		if _, err := dst.Write(prefix); err != nil {
			return fmt.Errorf("symmetric: writing prefix block: %w", ErrIO)
		}
	}

	buf := make([]byte, chunkSize)
	for {
		n, readErr := io.ReadFull(src, buf)
		if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
			return fmt.Errorf("symmetric: reading input: %w", ErrIO)
		}
		isEnd := readErr == io.ErrUnexpectedEOF || readErr == io.EOF
		if n == 0 && isEnd {
			state.IsEnd = true
			out, _, err := c.EncryptChunk(state, nil)
			if err != nil {
				return err
			}
			if _, err := dst.Write(out); err != nil {
				return fmt.Errorf("symmetric: writing output: %w", ErrIO)
			}
			return nil
		}

		chunkState := state
		chunkState.IsEnd = isEnd
		out, next, err := c.EncryptChunk(chunkState, buf[:n])
		if err != nil {
			return err
		}
		if _, err := dst.Write(out); err != nil {
			return fmt.Errorf("symmetric: writing output: %w", ErrIO)
		}
		if isEnd {
			return nil
		}
		state = next
	}
}

// DecryptStream is EncryptStream's inverse: it consumes the
// CTR/RandomDelta prefix block first (failing with ErrInputTooShort if
// src is shorter than one block for those modes), then processes
// ciphertext chunks the same way, depadding only the final chunk.
func (c *Context) DecryptStream(dst io.Writer, src io.Reader, chunkSize int) error {
	if err := c.checkOpen(); err != nil {
		return err
	}
	if c.blockSize > 0 && (chunkSize <= 0 || chunkSize%c.blockSize != 0) {
		return fmt.Errorf("symmetric: chunk size must be a positive multiple of %d: %w", c.blockSize, ErrInvalidArgument)
	}

	state := c.InitialState()
	br := bufio.NewReader(src)
	if c.mode == CTR || c.mode == RandomDelta {
		prefix := make([]byte, c.blockSize)
		if _, err := io.ReadFull(br, prefix); err != nil {
			return fmt.Errorf("%w", ErrInputTooShort)
		}
		recovered, err := c.ConsumePrefixBlock(prefix)
		if err != nil {
			return err
		}
		state = recovered
	}

	buf := make([]byte, chunkSize)
	for {
		n, readErr := io.ReadFull(br, buf)
		if readErr != nil && readErr != io.ErrUnexpectedEOF && readErr != io.EOF {
			return fmt.Errorf("symmetric: reading input: %w", ErrIO)
		}
		isEnd := readErr == io.ErrUnexpectedEOF || readErr == io.EOF
		if !isEnd {
			// A full chunk is still the final one when nothing follows it.
			if _, peekErr := br.Peek(1); peekErr == io.EOF {
				isEnd = true
			}
		}
		if n == 0 && isEnd {
			return nil
		}

		chunkState := state
		chunkState.IsEnd = isEnd
		out, next, err := c.DecryptChunk(chunkState, buf[:n])
		if err != nil {
			return err
		}
		if _, err := dst.Write(out); err != nil {
			return fmt.Errorf("symmetric: writing output: %w", ErrIO)
		}
		if isEnd {
			return nil
		}
		state = next
	}
}

// EncryptFile and DecryptFile open inputPath/outputPath and run the
// corresponding stream operation with chunkSize-sized reads.
func (c *Context) EncryptFile(inputPath, outputPath string, chunkSize int) error {
	return c.runFile(inputPath, outputPath, func(dst io.Writer, src io.Reader) error {
		return c.EncryptStream(dst, src, chunkSize)
	})
}

func (c *Context) DecryptFile(inputPath, outputPath string, chunkSize int) error {
	return c.runFile(inputPath, outputPath, func(dst io.Writer, src io.Reader) error {
		return c.DecryptStream(dst, src, chunkSize)
	})
}

func (c *Context) runFile(inputPath, outputPath string, run func(dst io.Writer, src io.Reader) error) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("symmetric: opening input file: %w", ErrIO)
	}
	defer in.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("symmetric: creating output file: %w", ErrIO)
	}
	defer out.Close()

	return run(out, in)
}

// EncryptFileAsync and DecryptFileAsync run the file operation on a
// goroutine, signalling completion on one of the two returned channels.
func (c *Context) EncryptFileAsync(inputPath, outputPath string, chunkSize int) (<-chan struct{}, <-chan error) {
	done, errCh := make(chan struct{}, 1), make(chan error, 1)
	go func() {
		defer close(done)
		defer close(errCh)
		if err := c.EncryptFile(inputPath, outputPath, chunkSize); err != nil {
			errCh <- err
			return
		}
		done <- struct{}{}
	}()
	return done, errCh
}

func (c *Context) DecryptFileAsync(inputPath, outputPath string, chunkSize int) (<-chan struct{}, <-chan error) {
	done, errCh := make(chan struct{}, 1), make(chan error, 1)
	go func() {
		defer close(done)
		defer close(errCh)
		if err := c.DecryptFile(inputPath, outputPath, chunkSize); err != nil {
			errCh <- err
			return
		}
		done <- struct{}{}
	}()
	return done, errCh
}
