package rc5

import (
	"bytes"
	"testing"
)

func TestNewRejectsUnsupportedWordSize(t *testing.T) {
	if _, err := New(24, 12, 16); err == nil {
		t.Fatalf("expected an error for a 24-bit word size")
	}
}

func TestBlockSizeMatchesWordSize(t *testing.T) {
	tests := []struct {
		wordSize uint
		want     int
	}{
		{16, 4},
		{32, 8},
		{64, 16},
	}
	for _, tt := range tests {
		c, err := New(tt.wordSize, 12, 16)
		if err != nil {
			t.Fatalf("wordSize=%d: New: %v", tt.wordSize, err)
		}
		if got := c.BlockSize(); got != tt.want {
			t.Errorf("wordSize=%d: BlockSize()=%d, want %d", tt.wordSize, got, tt.want)
		}
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		wordSize uint
		rounds   uint
		keyLen   uint
	}{
		{32, 12, 16},
		{64, 20, 24},
		{16, 8, 8},
	}
	for _, tt := range tests {
		c, err := New(tt.wordSize, tt.rounds, tt.keyLen)
		if err != nil {
			t.Fatalf("%+v: New: %v", tt, err)
		}
		key := make([]byte, tt.keyLen)
		for i := range key {
			key[i] = byte(i + 1)
		}
		if err := c.Initialize(key); err != nil {
			t.Fatalf("%+v: Initialize: %v", tt, err)
		}

		plaintext := make([]byte, c.BlockSize())
		for i := range plaintext {
			plaintext[i] = byte(0xA0 + i)
		}
		ciphertext, err := c.EncryptBlock(plaintext)
		if err != nil {
			t.Fatalf("%+v: EncryptBlock: %v", tt, err)
		}
		if bytes.Equal(ciphertext, plaintext) {
			t.Fatalf("%+v: ciphertext should not equal plaintext", tt)
		}
		decrypted, err := c.DecryptBlock(ciphertext)
		if err != nil {
			t.Fatalf("%+v: DecryptBlock: %v", tt, err)
		}
		if !bytes.Equal(decrypted, plaintext) {
			t.Fatalf("%+v: round trip mismatch: got %x want %x", tt, decrypted, plaintext)
		}
	}
}

func TestZeroRoundsIsIdentityAfterKeyMixing(t *testing.T) {
	c, err := New(32, 0, 16)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Initialize(make([]byte, 16)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	plaintext := make([]byte, c.BlockSize())
	ciphertext, err := c.EncryptBlock(plaintext)
	if err != nil {
		t.Fatalf("EncryptBlock: %v", err)
	}
	decrypted, err := c.DecryptBlock(ciphertext)
	if err != nil {
		t.Fatalf("DecryptBlock: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("round trip mismatch with zero rounds")
	}
}
