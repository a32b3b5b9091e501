package utils

import "testing"

func TestParseUserAgent(t *testing.T) {
	browser, os, device := ParseUserAgent("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if browser != "Chrome" {
		t.Errorf("expected Chrome, got %q", browser)
	}
	if os != "Windows" {
		t.Errorf("expected Windows, got %q", os)
	}
	if device != "Desktop" {
		t.Errorf("expected Desktop, got %q", device)
	}
}

func TestParseUserAgentEmpty(t *testing.T) {
	browser, os, device := ParseUserAgent("")
	if browser != "Unknown Browser" || os != "Unknown OS" || device != "Desktop" {
		t.Errorf("unexpected defaults: %q %q %q", browser, os, device)
	}
}

func TestParseUserAgentIPhone(t *testing.T) {
	_, _, device := ParseUserAgent("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
	if device != "iPhone" {
		t.Errorf("expected iPhone, got %q", device)
	}
}

func TestGenerateSessionName(t *testing.T) {
	name := GenerateSessionName("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	if name != "Chrome on Windows" {
		t.Errorf("expected %q, got %q", "Chrome on Windows", name)
	}
}
