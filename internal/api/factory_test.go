package api

import (
	"encoding/hex"
	"testing"
)

func TestBuildContextRoundTripAES(t *testing.T) {
	key := make([]byte, 16)
	iv := make([]byte, 16)
	for i := range key {
		key[i] = byte(i)
	}
	for i := range iv {
		iv[i] = byte(0xF0 + i)
	}

	spec := CipherSpec{
		Algorithm: "rijndael",
		Mode:      "CBC",
		Padding:   "PKCS7",
		KeyHex:    hex.EncodeToString(key),
		IVHex:     hex.EncodeToString(iv),
	}

	ctx, err := buildContext(spec)
	if err != nil {
		t.Fatalf("buildContext: %v", err)
	}
	defer ctx.Dispose()

	plaintext := []byte("a message that spans multiple 16-byte blocks of AES")
	ciphertext, err := ctx.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	decrypted, err := ctx.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(decrypted) != string(plaintext) {
		t.Fatalf("got %q, want %q", decrypted, plaintext)
	}
}

func TestBuildContextRejectsUnknownAlgorithm(t *testing.T) {
	spec := CipherSpec{
		Algorithm: "twofish",
		Mode:      "ECB",
		Padding:   "Zeros",
		KeyHex:    "00112233445566778899aabbccddeeff",
	}
	if _, err := buildContext(spec); err == nil {
		t.Fatalf("expected an error for an unsupported algorithm")
	}
}

func TestBuildContextRejectsUnknownMode(t *testing.T) {
	spec := CipherSpec{
		Algorithm: "des",
		Mode:      "GCM",
		Padding:   "Zeros",
		KeyHex:    "0011223344556677",
	}
	if _, err := buildContext(spec); err == nil {
		t.Fatalf("expected an error for an unsupported mode")
	}
}

func TestBuildContextRC5UsesCustomWordSizeAndRounds(t *testing.T) {
	key := make([]byte, 16)
	spec := CipherSpec{
		Algorithm: "rc5",
		Mode:      "ECB",
		Padding:   "PKCS7",
		KeyHex:    hex.EncodeToString(key),
		WordSize:  64,
		Rounds:    20,
	}
	ctx, err := buildContext(spec)
	if err != nil {
		t.Fatalf("buildContext: %v", err)
	}
	defer ctx.Dispose()

	plaintext := []byte("sixteen-byte rc5 blocks come from a 64-bit word size and must round-trip")
	ciphertext, err := ctx.Encrypt(plaintext)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	decrypted, err := ctx.Decrypt(ciphertext)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if string(decrypted) != string(plaintext) {
		t.Fatalf("got %q, want %q", decrypted, plaintext)
	}
}
