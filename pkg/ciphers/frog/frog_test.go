package frog

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestKeySizeBoundaries(t *testing.T) {
	tests := []struct {
		size int
		ok   bool
	}{
		{4, false},
		{5, true},
		{64, true},
		{125, true},
		{126, false},
	}
	for _, tt := range tests {
		key := make([]byte, tt.size)
		err := New().Initialize(key)
		if tt.ok && err != nil {
			t.Errorf("size=%d: expected acceptance, got error: %v", tt.size, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("size=%d: expected rejection, got none", tt.size)
		}
	}
}

func TestRoundStructureCounts(t *testing.T) {
	c := New()
	if err := c.Initialize(make([]byte, 16)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if len(c.rnd) != 8 {
		t.Fatalf("got %d round structures, want 8", len(c.rnd))
	}
	for i, rs := range c.rnd {
		if len(rs.xorKey) != 16 {
			t.Errorf("round %d: xor key is %d bytes, want 16", i, len(rs.xorKey))
		}
		if len(rs.sBox) != 256 {
			t.Errorf("round %d: s-box is %d bytes, want 256", i, len(rs.sBox))
		}
		for v := 0; v < 256; v++ {
			if rs.invSBox[rs.sBox[v]] != byte(v) {
				t.Fatalf("round %d: inverse s-box does not invert s-box at %d", i, v)
			}
		}
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sizes := []int{5, 16, 32, 125}
	for _, size := range sizes {
		key := make([]byte, size)
		if _, err := rand.Read(key); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
		c := New()
		if err := c.Initialize(key); err != nil {
			t.Fatalf("size=%d: Initialize: %v", size, err)
		}

		plaintext := make([]byte, blockSize)
		if _, err := rand.Read(plaintext); err != nil {
			t.Fatalf("rand.Read: %v", err)
		}
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
