package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanJSONBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"is_valid\": true}\n```",
			expected: `{"is_valid": true}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"is_valid\": true}\n```",
			expected: `{"is_valid": true}`,
		},
		{
			name:     "code block with language identifier",
			input:    "```javascript\n{\"is_valid\": true}\n```",
			expected: `{"is_valid": true}`,
		},
		{
			name:     "plain JSON",
			input:    `{"is_valid": true}`,
			expected: `{"is_valid": true}`,
		},
		{
			name:     "surrounding whitespace",
			input:    "\n  {\"is_valid\": false}  \n",
			expected: `{"is_valid": false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanJSONBlock(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "Here is the record:\n{\"chart_type\": \"bar\"}",
			expected: `{"chart_type": "bar"}`,
		},
		{
			name:     "trailing commentary",
			input:    `{"chart_type": "line"} Let me know if you need anything else.`,
			expected: `{"chart_type": "line"}`,
		},
		{
			name:     "nested objects",
			input:    `outer {"a": {"b": 1}, "c": 2} end`,
			expected: `{"a": {"b": 1}, "c": 2}`,
		},
		{
			name:     "braces inside strings",
			input:    `{"reason": "unbalanced } inside"}`,
			expected: `{"reason": "unbalanced } inside"}`,
		},
		{
			name:     "no object returns input",
			input:    "no json here",
			expected: "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractJSONObject(tt.input))
		})
	}
}

func TestConfigGetModelFallback(t *testing.T) {
	cfg := &Config{Models: map[ModelTier]string{TierLite: "gemini-2.5-flash-lite"}}
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierStandard))

	empty := &Config{Models: map[ModelTier]string{}}
	assert.Equal(t, "", empty.GetModel(TierLite))
}

func TestConfigWithModel(t *testing.T) {
	cfg := DefaultConfig()
	updated := cfg.WithModel(TierLite, "gemini-override")

	assert.Equal(t, "gemini-override", updated.GetModel(TierLite))
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.GetModel(TierLite))
}
