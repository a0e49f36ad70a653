package crypto

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty string")
	}

	claims, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate() unexpected error: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("Validate() UserID = %d, want 42", claims.UserID)
	}
}

func TestTokenIssuerRejectsGarbage(t *testing.T) {
	if _, err := NewTokenIssuer("test-secret", time.Hour).Validate("not-a-valid-token"); err != ErrInvalidToken {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuerWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("correct-secret", time.Hour).Issue(42)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := NewTokenIssuer("wrong-secret", time.Hour).Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuerExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Minute)
	issued := time.Now()
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(42)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	issuer.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := issuer.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenIssuerForeignClaims(t *testing.T) {
	secret := "test-secret"
	now := time.Now()

	tests := []struct {
		name   string
		claims Claims
	}{
		{
			name: "wrong issuer",
			claims: Claims{RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Audience:  jwt.ClaimStrings{tokenAudience},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}, UserID: 42},
		},
		{
			name: "wrong audience",
			claims: Claims{RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				Audience:  jwt.ClaimStrings{"other-api"},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}, UserID: 42},
		},
		{
			name: "missing user",
			claims: Claims{RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    tokenIssuer,
				Audience:  jwt.ClaimStrings{tokenAudience},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tt.claims).SignedString([]byte(secret))
			if err != nil {
				t.Fatalf("SignedString() unexpected error: %v", err)
			}
			if _, err := NewTokenIssuer(secret, time.Hour).Validate(signed); err != ErrInvalidToken {
				t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
			}
		})
	}
}
