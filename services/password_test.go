package services

import (
	"strings"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse-battery1!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if !strings.Contains(hash, "$") {
		t.Errorf("expected salt$hash encoding, got %q", hash)
	}

	ok, err := VerifyPassword(hash, "correct-horse-battery1!")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("correct password did not verify")
	}

	ok, err = VerifyPassword(hash, "wrong-password")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if ok {
		t.Error("wrong password verified")
	}
}

func TestHashPasswordSaltsAreUnique(t *testing.T) {
	first, err := HashPassword("same-password1!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	second, err := HashPassword("same-password1!")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if first == second {
		t.Error("two hashes of the same password should differ by salt")
	}
}

func TestVerifyPasswordMalformedStored(t *testing.T) {
	if _, err := VerifyPassword("not-a-valid-hash", "whatever"); err == nil {
		t.Error("expected an error for a malformed stored hash")
	}
}
