package utils

import (
	"strings"
	"testing"

	"meetspot/core/constants"
)

func TestGenerateShareCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := GenerateShareCode()
		if err != nil {
			t.Fatalf("GenerateShareCode() error: %v", err)
		}
		if len(code) != constants.ShareCodeLength {
			t.Fatalf("len(code) = %d, want %d", len(code), constants.ShareCodeLength)
		}
		for _, r := range code {
			if !strings.ContainsRune(shareCodeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
		seen[code] = true
	}
	if len(seen) < 90 {
		t.Errorf("got %d distinct codes out of 100, expected near-unique output", len(seen))
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		title    string
		expected string
	}{
		{"Friday Team Dinner", "friday-team-dinner"},
		{"Coffee @ 3pm!!", "coffee-at-3pm"},
		{"  spaced  out  ", "spaced-out"},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.expected {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.expected)
			}
		})
	}
}
