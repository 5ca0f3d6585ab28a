package auth

import (
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	svc, err := NewTokenService("test-secret", 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, err := svc.IssueAccessToken(42)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("UserID = %d, want 42", claims.UserID)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenService("secret-a", 15*time.Minute)
	verifier, _ := NewTokenService("secret-b", 15*time.Minute)

	token, err := issuer.IssueAccessToken(7)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := verifier.ValidateToken(token); err == nil {
		t.Fatal("token signed with another secret validated")
	}
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc, _ := NewTokenService("test-secret", -time.Minute)
	token, err := svc.IssueAccessToken(7)
	if err != nil {
		t.Fatalf("IssueAccessToken: %v", err)
	}
	if _, err := svc.ValidateToken(token); err == nil {
		t.Fatal("expired token validated")
	}
}

func TestNewTokenServiceRequiresSecret(t *testing.T) {
	if _, err := NewTokenService("", time.Minute); err == nil {
		t.Fatal("empty secret accepted")
	}
}
