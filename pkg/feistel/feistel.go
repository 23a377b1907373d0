// Package feistel drives a key-expander/round-function pair through the
// classic Feistel half-block swap, the scaffold DES, DEAL and Triple-DES
// (via DES) all build on.
package feistel

import "fmt"

// KeyExpander produces the round keys a RoundFunction consumes.
type KeyExpander interface {
	ExpandKey(key []byte) ([][]byte, error)
}

// RoundFunction transforms one half-block under one round key.
type RoundFunction interface {
	Apply(half, roundKey []byte) ([]byte, error)
}

// Network drives rounds Feistel rounds over a block of 2*halfSize bytes.
type Network struct {
	keyExpander   KeyExpander
	roundFunction RoundFunction
	rounds        int
	halfSize      int
	roundKeys     [][]byte
}

// New returns a Network for the given half-block size and round count.
func New(ke KeyExpander, rf RoundFunction, rounds, halfSize int) *Network {
	return &Network{keyExpander: ke, roundFunction: rf, rounds: rounds, halfSize: halfSize}
}

// SetupKeys expands key into the round keys used by Encrypt/Decrypt.
func (n *Network) SetupKeys(key []byte) error {
	keys, err := n.keyExpander.ExpandKey(key)
	if err != nil {
		return fmt.Errorf("feistel: expanding key: %w", err)
	}
	if len(keys) != n.rounds {
		return fmt.Errorf("feistel: key expander produced %d round keys, want %d", len(keys), n.rounds)
	}
	n.roundKeys = keys
	return nil
}

// Encrypt runs the forward Feistel recurrence:
//
//	(L, R) <- (high half, low half)
//	for r in 0..rounds-1:
//	    T <- F(R, roundKey[r])
//	    L, R <- R, L xor T
//	output = concat(R, L)      // final half-swap
func (n *Network) Encrypt(block []byte) ([]byte, error) {
	if len(block) != 2*n.halfSize {
		return nil, fmt.Errorf("feistel: block must be %d bytes, got %d", 2*n.halfSize, len(block))
	}
	l := append([]byte{}, block[:n.halfSize]...)
	r := append([]byte{}, block[n.halfSize:]...)

	for round := 0; round < n.rounds; round++ {
		t, err := n.roundFunction.Apply(r, n.roundKeys[round])
		if err != nil {
			return nil, fmt.Errorf("feistel: round %d: %w", round, err)
		}
		l, r = r, xorBytes(l, t)
	}

	return concatSwapped(r, l, n.halfSize), nil
}

// RoundKeys returns the round keys computed by the last SetupKeys call,
// letting a wrapping cipher report them (blockcipher.RoundKeyReporter).
func (n *Network) RoundKeys() [][]byte {
	return n.roundKeys
}

// Decrypt runs the same recurrence with round keys in reverse order.
func (n *Network) Decrypt(block []byte) ([]byte, error) {
	if len(block) != 2*n.halfSize {
		return nil, fmt.Errorf("feistel: block must be %d bytes, got %d", 2*n.halfSize, len(block))
	}
	l := append([]byte{}, block[:n.halfSize]...)
	r := append([]byte{}, block[n.halfSize:]...)

	for round := n.rounds - 1; round >= 0; round-- {
		t, err := n.roundFunction.Apply(r, n.roundKeys[round])
		if err != nil {
			return nil, fmt.Errorf("feistel: round %d: %w", round, err)
		}
		l, r = r, xorBytes(l, t)
	}

	return concatSwapped(r, l, n.halfSize), nil
}

func concatSwapped(r, l []byte, halfSize int) []byte {
	out := make([]byte, 2*halfSize)
	copy(out[:halfSize], r)
	copy(out[halfSize:], l)
	return out
}

func xorBytes(a, b []byte) []byte {
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}
	return out
}
