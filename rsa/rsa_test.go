package rsa

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"
)

func TestKeyGenerationRejectsBadParameters(t *testing.T) {
	tests := []struct {
		name           string
		minProbability float64
		bitLength      int
	}{
		{"probability too low", 0.1, 256},
		{"probability at 1", 1.0, 256},
		{"bit length too small", 0.99, 64},
		{"bit length not a multiple of 8", 0.99, 129},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewKeyGenerator(MillerRabin, tt.minProbability, tt.bitLength); err == nil {
				t.Fatalf("expected an error, got none")
			}
		})
	}
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind PrimeTestKind
	}{
		{"Fermat", Fermat},
		{"Solovay-Strassen", SolovayStrassen},
		{"Miller-Rabin", MillerRabin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kg, err := NewKeyGenerator(tt.kind, 0.999, 256)
			if err != nil {
				t.Fatalf("NewKeyGenerator: %v", err)
			}
			pub, priv, err := kg.GenerateKeyPair()
			if err != nil {
				t.Fatalf("GenerateKeyPair: %v", err)
			}

			message := []byte("the quick brown fox jumps over the lazy dog, repeated a few times to span multiple RSA blocks")
			ciphertext, err := Encrypt(message, pub)
			if err != nil {
				t.Fatalf("Encrypt: %v", err)
			}

			decrypted, err := Decrypt(ciphertext, priv)
			if err != nil {
				t.Fatalf("Decrypt: %v", err)
			}
			if string(decrypted) != string(message) {
				t.Fatalf("round trip mismatch: got %q want %q", decrypted, message)
			}
		})
	}
}

func TestEncryptEmptyMessage(t *testing.T) {
	kg, _ := NewKeyGenerator(MillerRabin, 0.999, 256)
	pub, priv, err := kg.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	ciphertext, err := Encrypt(nil, pub)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	decrypted, err := Decrypt(ciphertext, priv)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if len(decrypted) != 0 {
		t.Fatalf("expected empty round trip, got %d bytes", len(decrypted))
	}
}

func TestDecryptRejectsMalformedPadding(t *testing.T) {
	kg, _ := NewKeyGenerator(MillerRabin, 0.999, 256)
	pub, priv, err := kg.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	byteLen := (pub.N.BitLen() + 7) / 8

	garbage := make([]byte, byteLen)
	garbage[0], garbage[1] = 0x01, 0x02 // wrong leading byte, not 0x00 0x02
	m := new(big.Int).SetBytes(garbage)
	m.Mod(m, pub.N)

	// Encrypt the malformed plaintext block so Decrypt sees it after the
	// modular exponentiation round trip and rejects its padding.
	c := modPow(m, pub.E, pub.N)
	block := c.FillBytes(make([]byte, byteLen))
	if _, err := Decrypt(block, priv); err == nil {
		t.Fatalf("expected a padding error")
	}
}

func TestFileEncryptDecryptRoundTrip(t *testing.T) {
	kg, _ := NewKeyGenerator(MillerRabin, 0.999, 256)
	pub, priv, err := kg.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	dir := t.TempDir()
	inputPath := filepath.Join(dir, "plain.bin")
	encPath := filepath.Join(dir, "cipher.bin")
	decPath := filepath.Join(dir, "decrypted.bin")

	payload := make([]byte, 5000)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	if err := os.WriteFile(inputPath, payload, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := EncryptFile(inputPath, encPath, pub); err != nil {
		t.Fatalf("EncryptFile: %v", err)
	}
	if err := DecryptFile(encPath, decPath, priv); err != nil {
		t.Fatalf("DecryptFile: %v", err)
	}

	got, err := os.ReadFile(decPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != string(payload) {
		t.Fatalf("file round trip mismatch: got %d bytes, want %d bytes", len(got), len(payload))
	}
}

func TestWienerAttackRecoversSmallExponent(t *testing.T) {
	p := big.NewInt(857)
	q := big.NewInt(1009)
	n := new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(
		new(big.Int).Sub(p, big.NewInt(1)),
		new(big.Int).Sub(q, big.NewInt(1)),
	)

	d := big.NewInt(5)
	gcd, e, _ := extendedGCD(d, phi)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		t.Fatalf("d=5 is not invertible mod phi for this fixture")
	}
	if e.Sign() < 0 {
		e.Add(e, phi)
	}

	pub := &PublicKey{N: n, E: e}
	result := WienerAttack(pub)
	if !result.Success {
		t.Fatalf("expected the attack to succeed against a deliberately small d")
	}
	if result.D.Cmp(d) != 0 {
		t.Fatalf("recovered d = %s, want %s", result.D, d)
	}
}

func TestWienerAttackFailsAgainstSafeExponent(t *testing.T) {
	kg, _ := NewKeyGenerator(MillerRabin, 0.999, 256)
	pub, _, err := kg.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	if WienerAttack(pub).Success {
		t.Fatalf("attack should not succeed against a key generated with the d > n^(1/4) defense")
	}
}
