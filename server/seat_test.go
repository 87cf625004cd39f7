package main

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestSeatTokenRoundTrip(t *testing.T) {
	a, _ := NewSeatAuth(testSecret, "")
	token, err := a.Issue("sid-1", "JJ")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	seat, err := a.Verify(token, "sid-1")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if seat != "JJ" {
		t.Errorf("expected JJ, got %s", seat)
	}
}

func TestSeatTokenRejects(t *testing.T) {
	a, _ := NewSeatAuth(testSecret, "")
	token, _ := a.Issue("sid-1", "Brandon")

	if _, err := a.Verify(token, "sid-2"); !errors.Is(err, ErrBadToken) {
		t.Errorf("wrong session: expected ErrBadToken, got %v", err)
	}

	other, _ := NewSeatAuth([]byte("another-secret-another-secret-00"), "")
	if _, err := other.Verify(token, "sid-1"); !errors.Is(err, ErrBadToken) {
		t.Errorf("wrong secret: expected ErrBadToken, got %v", err)
	}

	// none-signed tokens must not pass
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sid": "sid-1", "seat": "JJ"})
	raw, _ := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := a.Verify(raw, "sid-1"); !errors.Is(err, ErrBadToken) {
		t.Errorf("alg none: expected ErrBadToken, got %v", err)
	}
}

func TestSeatPassword(t *testing.T) {
	open, _ := NewSeatAuth(testSecret, "")
	if open.HasPassword() || open.CheckPassword("anything") != nil {
		t.Error("no password set, every claim should pass")
	}

	locked, err := NewSeatAuth(testSecret, "cluck")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if !locked.HasPassword() {
		t.Error("expected a password gate")
	}
	if err := locked.CheckPassword("cluck"); err != nil {
		t.Errorf("right password rejected: %v", err)
	}
	if err := locked.CheckPassword("moo"); !errors.Is(err, ErrBadPassword) {
		t.Errorf("expected ErrBadPassword, got %v", err)
	}
}

func TestLoadOrCreateSecret(t *testing.T) {
	db := openTestDB(t)

	first, err := loadOrCreateSecret(db, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(first) != secretLen {
		t.Fatalf("expected %d bytes, got %d", secretLen, len(first))
	}
	second, _ := loadOrCreateSecret(db, "")
	if hex.EncodeToString(first) != hex.EncodeToString(second) {
		t.Error("secret should persist across loads")
	}

	flag, err := loadOrCreateSecret(db, "abcd")
	if err != nil || hex.EncodeToString(flag) != "abcd" {
		t.Errorf("flag secret should win, got %x %v", flag, err)
	}
	if _, err := loadOrCreateSecret(nil, "zz"); err == nil {
		t.Error("expected an error for bad hex")
	}
}

func TestSeatClaimRateLimit(t *testing.T) {
	a, _ := NewSeatAuth(testSecret, "")
	for i := 0; i < maxClaimAttempts; i++ {
		if !a.Allow("10.0.0.1") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if a.Allow("10.0.0.1") {
		t.Error("attempt past the limit should be refused")
	}
	if !a.Allow("10.0.0.2") {
		t.Error("limit is per IP")
	}
}
