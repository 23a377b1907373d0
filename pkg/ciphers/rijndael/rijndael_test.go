package rijndael

import (
	"bytes"
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q): %v", s, err)
	}
	return b
}

// FIPS-197 appendix C.1: AES-128 known-answer test.
func TestAES128KnownAnswer(t *testing.T) {
	c, err := New(16, 16, 0x1B)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	key := mustHex(t, "000102030405060708090a0b0c0d0e0f")
	if err := c.Initialize(key); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	plaintext := mustHex(t, "00112233445566778899aabbccddeeff")
	want := mustHex(t, "69c4e0d86a7b0430d8cdb78070b4c55a")

	ciphertext, err := c.EncryptBlock(plaintext)
	if err != nil {
		t.Fatalf("EncryptBlock: %v", err)
	}
	if !bytes.Equal(ciphertext, want) {
		t.Fatalf("got %x, want %x", ciphertext, want)
	}

	decrypted, err := c.DecryptBlock(ciphertext)
	if err != nil {
		t.Fatalf("DecryptBlock: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Fatalf("round trip mismatch: got %x want %x", decrypted, plaintext)
	}
}

func TestRoundsCountByKeySize(t *testing.T) {
	tests := []struct {
		keySize int
		want    int
	}{
		{16, 10},
		{24, 12},
		{32, 14},
	}
	for _, tt := range tests {
		c, err := New(16, tt.keySize, 0x1B)
		if err != nil {
			t.Fatalf("keySize=%d: New: %v", tt.keySize, err)
		}
		if got := c.RoundsCount(); got != tt.want {
			t.Errorf("keySize=%d: RoundsCount()=%d, want %d", tt.keySize, got, tt.want)
		}
	}
}

// Key expansion must produce Nb*(Nr+1) words, i.e. one 16-byte round key
// per round including the whitening round.
func TestKeyExpansionProducesOneRoundKeyPerRound(t *testing.T) {
	c, err := New(16, 16, 0x1B)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Initialize(make([]byte, 16)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if got, want := len(c.roundKeys), c.nr+1; got != want {
		t.Fatalf("got %d round keys, want %d", got, want)
	}
	for i, rk := range c.roundKeys {
		if len(rk) != c.nb*4 {
			t.Errorf("round key %d is %d bytes, want %d", i, len(rk), c.nb*4)
		}
	}
}

func TestInitializeRejectsWrongKeySize(t *testing.T) {
	c, err := New(16, 16, 0x1B)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := c.Initialize(make([]byte, 15)); err == nil {
		t.Fatalf("expected an error for a 15-byte key")
	}
}

func TestNewRejectsUnsupportedSizes(t *testing.T) {
	if _, err := New(15, 16, 0x1B); err == nil {
		t.Fatalf("expected an error for a 15-byte block size")
	}
	if _, err := New(16, 15, 0x1B); err == nil {
		t.Fatalf("expected an error for a 15-byte key size")
	}
}

func TestEncryptDecryptRoundTrip192And256(t *testing.T) {
	sizes := []int{24, 32}
	for _, size := range sizes {
		c, err := New(16, size, 0x1B)
		if err != nil {
			t.Fatalf("size=%d: New: %v", size, err)
		}
		key := make([]byte, size)
		for i := range key {
			key[i] = byte(i)
		}
		if err := c.Initialize(key); err != nil {
			t.Fatalf("size=%d: Initialize: %v", size, err)
		}

		plaintext := []byte("sixteen byte msg")
		ciphertext, err := c.EncryptBlock(plaintext)
		if err != nil {
			t.Fatalf("size=%d: EncryptBlock: %v", size, err)
		}
		if bytes.Equal(ciphertext, plaintext) {
			t.Fatalf("size=%d: ciphertext should not equal plaintext", size)
		}
		decrypted, err := c.DecryptBlock(ciphertext)
		if err != nil {
			t.Fatalf("size=%d: DecryptBlock: %v", size, err)
		}
		if !bytes.Equal(decrypted, plaintext) {
			t.Fatalf("size=%d: round trip mismatch", size)
		}
	}
}
