package text_test

import (
	"testing"

	"docdiff/internal/utils/text"
)

// TestCountRunes tests the CountRunes function with various character types
func TestCountRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "ASCII text", input: "hello", expected: 5},
		{name: "ASCII with spaces", input: "hello world", expected: 11},
		{name: "Accented", input: "café", expected: 4},
		{name: "Japanese", input: "こんにちは世界", expected: 7},
		{name: "Emoji", input: "Hello👋", expected: 6},
		{name: "Empty string", input: "", expected: 0},
		{name: "Mixed whitespace", input: " \t\n ", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountRunes(tt.input); got != tt.expected {
				t.Errorf("CountRunes(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{name: "empty", input: "", expected: 0},
		{name: "whitespace only", input: " \t\n", expected: 0},
		{name: "single word", input: "summary", expected: 1},
		{name: "sentence", input: "New line here.", expected: 3},
		{name: "mixed separators", input: "  a\tb\nc  d ", expected: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := text.CountWords(tt.input); got != tt.expected {
				t.Errorf("CountWords(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}
