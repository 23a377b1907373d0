package deal

import (
	"bytes"
	"testing"
)

func TestRoundsCountByKeySize(t *testing.T) {
	tests := []struct {
		keySize int
		want    int
	}{
		{16, 6},
		{24, 6},
		{32, 8},
	}
	for _, tt := range tests {
		c := New()
		if err := c.Initialize(make([]byte, tt.keySize)); err != nil {
			t.Fatalf("keySize=%d: Initialize: %v", tt.keySize, err)
		}
		if got := c.RoundsCount(); got != tt.want {
			t.Errorf("keySize=%d: RoundsCount()=%d, want %d", tt.keySize, got, tt.want)
		}
	}
}

func TestInitializeRejectsWrongKeySize(t *testing.T) {
	c := New()
	if err := c.Initialize(make([]byte, 20)); err == nil {
		t.Fatalf("expected an error for a 20-byte key")
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sizes := []int{16, 24, 32}
	for _, size := range sizes {
		c := New()
		key := make([]byte, size)
		for i := range key {
			key[i] = byte(i + 1)
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

func TestEncryptBlockRejectsWrongLength(t *testing.T) {
	c := New()
	if err := c.Initialize(make([]byte, 16)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if _, err := c.EncryptBlock(make([]byte, 8)); err == nil {
		t.Fatalf("expected an error for an 8-byte block")
	}
}
