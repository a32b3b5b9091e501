package utils

import (
	"regexp"
	"testing"
)

func TestGenerateRecoveryCodes(t *testing.T) {
	codes, err := GenerateRecoveryCodes()
	if err != nil {
		t.Fatalf("GenerateRecoveryCodes failed: %v", err)
	}
	if len(codes) != NumRecoveryCodes {
		t.Fatalf("expected %d codes, got %d", NumRecoveryCodes, len(codes))
	}

	format := regexp.MustCompile(`^[0-9A-F]{4}-[0-9A-F]{4}$`)
	seen := map[string]struct{}{}
	for _, code := range codes {
		if !format.MatchString(code) {
			t.Errorf("code %q does not match XXXX-XXXX format", code)
		}
		if _, dup := seen[code]; dup {
			t.Errorf("duplicate recovery code %q", code)
		}
		seen[code] = struct{}{}
	}
}

func TestHashRecoveryCodes(t *testing.T) {
	codes := []string{"AAAA-BBBB", "CCCC-DDDD"}
	hashed := HashRecoveryCodes(codes)

	if len(hashed) != len(codes) {
		t.Fatalf("expected %d hashes, got %d", len(codes), len(hashed))
	}
	for i, h := range hashed {
		if h == codes[i] {
			t.Errorf("code %q stored unhashed", codes[i])
		}
		if h != HashString(codes[i]) {
			t.Errorf("hash is not deterministic for %q", codes[i])
		}
	}
}
