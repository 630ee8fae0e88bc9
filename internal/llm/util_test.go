package llm

import (
	"testing"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "json fence", input: "```json\n{\"tenure\": 3}\n```", expected: `{"tenure": 3}`},
		{name: "bare fence", input: "```\n{\"tenure\": 3}\n```", expected: `{"tenure": 3}`},
		{name: "single line fence", input: "```{\"tenure\": 3}```", expected: `{"tenure": 3}`},
		{name: "plain", input: "  {\"tenure\": 3}\n", expected: `{"tenure": 3}`},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanJSONBlock(tt.input); got != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", got, tt.expected)
			}
		})
	}
}
