package auth

import (
	"strings"
	"testing"
	"time"
)

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid bearer", "Bearer abc123", "abc123", false},
		{"case insensitive scheme", "bearer abc123", "abc123", false},
		{"empty header", "", "", true},
		{"missing token", "Bearer ", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"no scheme", "abc123", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractToken(tt.header)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNewTokenIssuerRequiresSecret(t *testing.T) {
	if _, err := NewTokenIssuer("", 0); err == nil {
		t.Error("Expected error for empty secret")
	}
}

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("Failed to create issuer: %v", err)
	}

	scopes := []string{"beds:read", "claims:read"}
	token, err := issuer.Issue("operator-1", scopes, 0)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Failed to verify token: %v", err)
	}
	if claims.Subject != "operator-1" {
		t.Errorf("Expected subject operator-1, got %q", claims.Subject)
	}
	if len(claims.Scopes) != 2 || claims.Scopes[0] != "beds:read" {
		t.Errorf("Unexpected scopes: %v", claims.Scopes)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret-a", time.Hour)
	other, _ := NewTokenIssuer("secret-b", time.Hour)

	token, _ := issuer.Issue("operator-1", nil, 0)

	if _, err := other.Verify(token); err == nil {
		t.Error("Expected verification to fail with wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)

	token, err := issuer.Issue("operator-1", nil, -time.Minute)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	if _, err := issuer.Verify(token); err == nil {
		t.Error("Expected verification to fail for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)

	if _, err := issuer.Verify("not.a.token"); err == nil {
		t.Error("Expected verification to fail for garbage input")
	}
}

func TestMissingScopes(t *testing.T) {
	granted := []string{"beds:read", "claims:read"}

	missing := MissingScopes(granted, []string{"beds:read", "records:read", "appointments:read"})
	if strings.Join(missing, ",") != "records:read,appointments:read" {
		t.Errorf("Unexpected missing scopes: %v", missing)
	}

	if missing := MissingScopes(granted, []string{"beds:read"}); missing != nil {
		t.Errorf("Expected no missing scopes, got %v", missing)
	}
}

func TestHasScope(t *testing.T) {
	granted := []string{"beds:read"}

	if !HasScope(granted, "beds:read") {
		t.Error("Expected granted scope to be present")
	}
	if HasScope(granted, "records:read") {
		t.Error("Expected ungranted scope to be absent")
	}
	if HasScope(nil, "beds:read") {
		t.Error("Empty grant should have no scopes")
	}
}
