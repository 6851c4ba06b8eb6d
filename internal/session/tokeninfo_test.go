package session

import (
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

func TestInspectToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "42",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	info, ok := InspectToken(signed)
	if !ok {
		t.Fatal("expected JWT-shaped token to parse")
	}
	if info.Subject != "42" {
		t.Fatalf("subject expected 42, got %q", info.Subject)
	}
	if !info.ExpiresAt.Equal(exp) {
		t.Fatalf("expiry expected %v, got %v", exp, info.ExpiresAt)
	}
}

func TestInspectTokenOpaque(t *testing.T) {
	if _, ok := InspectToken("not-a-jwt"); ok {
		t.Fatal("opaque token must not parse")
	}
	if _, ok := InspectToken(""); ok {
		t.Fatal("empty token must not parse")
	}
}
