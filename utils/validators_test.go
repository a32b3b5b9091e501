package utils

import "testing"

func TestValidatePassword(t *testing.T) {
	valid := []string{"abc1!x", "longerpassword9$", "p@ssw0rd"}
	for _, password := range valid {
		if !ValidatePassword(password) {
			t.Errorf("ValidatePassword(%q) = false, want true", password)
		}
	}

	invalid := map[string]string{
		"a1!":     "too short",
		"abcdef!": "no number",
		"abcdef1": "no special character",
		"123456":  "numbers only",
		"":        "empty",
	}
	for password, reason := range invalid {
		if ValidatePassword(password) {
			t.Errorf("ValidatePassword(%q) = true, want false (%s)", password, reason)
		}
	}
}
