package auth

import (
	"testing"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	secret := []byte("test-secret")
	token, err := GenerateJWT("user-1", "a@b.com", "user", "pro", secret)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateJWT(token, secret)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "a@b.com" || claims.Role != "user" || claims.Tier != "pro" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestValidateJWT_WrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-1", "a@b.com", "user", "free", []byte("right"))
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWT(token, []byte("wrong")); err != ErrInvalidJWT {
		t.Fatalf("expected ErrInvalidJWT, got %v", err)
	}
}

func TestValidateJWT_Garbage(t *testing.T) {
	if _, err := ValidateJWT("not-a-token", []byte("secret")); err != ErrInvalidJWT {
		t.Fatalf("expected ErrInvalidJWT, got %v", err)
	}
}
