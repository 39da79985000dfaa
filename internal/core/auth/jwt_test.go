package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundtrip(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "vending", TTL: time.Hour}

	tok, err := j.Issue("u1", "BUYER")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := j.Parse(tok)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UID != "u1" || claims.Role != "BUYER" {
		t.Fatalf("claims = %q/%q, want u1/BUYER", claims.UID, claims.Role)
	}
}

func TestParseRejectsWrongSecret(t *testing.T) {
	a := &JWTer{Secret: []byte("secret-a"), Issuer: "vending", TTL: time.Hour}
	b := &JWTer{Secret: []byte("secret-b"), Issuer: "vending", TTL: time.Hour}

	tok, err := a.Issue("u1", "SELLER")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := b.Parse(tok); err == nil {
		t.Fatal("Parse accepted token signed with a different secret")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	j := &JWTer{Secret: []byte("test-secret"), Issuer: "vending", TTL: -2 * time.Minute}

	tok, err := j.Issue("u1", "BUYER")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := j.Parse(tok); err == nil {
		t.Fatal("Parse accepted expired token")
	}
}
