package utils

import (
	"testing"
	"time"
)

func TestGenerateAndParseToken(t *testing.T) {
	tok, err := GenerateToken("user-1", "member", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ParseToken(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "member" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestParseTokenRejectsExpiredAndGarbage(t *testing.T) {
	expired, err := GenerateToken("user-1", "member", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ParseToken(expired); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
	if _, err := ParseToken("not-a-token"); err == nil {
		t.Fatalf("expected garbage token to be rejected")
	}
}
