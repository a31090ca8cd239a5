package client

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenExpiryReadsExpClaim(t *testing.T) {
	exp := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if got := tokenExpiry(token); !got.Equal(exp) {
		t.Fatalf("tokenExpiry = %v, want %v", got, exp)
	}
}

func TestTokenExpiryIgnoresOpaqueTokens(t *testing.T) {
	for _, tok := range []string{"", "opaque-token", "a.b.c"} {
		if got := tokenExpiry(tok); !got.IsZero() {
			t.Fatalf("tokenExpiry(%q) = %v", tok, got)
		}
	}
}
