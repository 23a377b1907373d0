package auth

import (
	"testing"
	"time"
)

func TestGenerateParseRoundTrip(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)

	token, err := issuer.GenerateToken("operator-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := issuer.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.OperatorID != "operator-1" {
		t.Fatalf("got operator id %q, want %q", claims.OperatorID, "operator-1")
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewIssuer("test-secret", time.Hour)
	token, err := issuer.GenerateToken("operator-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other := NewIssuer("different-secret", time.Hour)
	if _, err := other.ParseToken(token); err == nil {
		t.Fatalf("expected an error verifying under a different secret")
	}
}

func TestParseTokenRejectsExpiredToken(t *testing.T) {
	issuer := NewIssuer("test-secret", -time.Hour)
	token, err := issuer.GenerateToken("operator-1")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := issuer.ParseToken(token); err == nil {
		t.Fatalf("expected an error parsing an already-expired token")
	}
}
