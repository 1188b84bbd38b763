package jwt

import (
	"errors"
	"testing"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken("user-1", "ana@example.com", "admin", secret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	claims, err := ValidateAccessToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "ana@example.com" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestValidateAccessToken_Errors(t *testing.T) {
	expired, err := GenerateAccessToken("user-1", "ana@example.com", "member", secret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}
	if _, err := ValidateAccessToken(expired, secret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token error = %v, want ErrTokenExpired", err)
	}

	valid, _ := GenerateAccessToken("user-1", "ana@example.com", "member", secret, 15)
	if _, err := ValidateAccessToken(valid, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("wrong secret error = %v, want ErrTokenInvalid", err)
	}
	if _, err := ValidateAccessToken("not-a-token", secret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage error = %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	token, err := GenerateRefreshToken("user-1", "tok-1", secret, 7)
	if err != nil {
		t.Fatalf("GenerateRefreshToken() error = %v", err)
	}
	claims, err := ValidateRefreshToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken() error = %v", err)
	}
	if claims.UserID != "user-1" || claims.TokenID != "tok-1" {
		t.Errorf("claims = %+v", claims)
	}
}
