package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetResolverSystemPrompt(t *testing.T) {
	prompt, err := Get("resolver.json", "system")
	require.NoError(t, err)
	assert.Contains(t, prompt, "bar chart")
	assert.Contains(t, prompt, "{{.Message}}")
	assert.Contains(t, prompt, "{{.History}}")
}

func TestGetMissingKey(t *testing.T) {
	_, err := Get("resolver.json", "does-not-exist")
	assert.Error(t, err)
}

func TestGetMissingFile(t *testing.T) {
	_, err := Get("nope.json", "system")
	assert.Error(t, err)
}

func TestFormat(t *testing.T) {
	out := Format("Hello {{.Name}}, data: {{.Data}}", map[string]string{
		"Name": "world",
		"Data": "Q1=100",
	})
	assert.Equal(t, "Hello world, data: Q1=100", out)
}

func TestMustGetPanicsOnMissing(t *testing.T) {
	assert.Panics(t, func() { MustGet("resolver.json", "missing") })
}

func TestPromptHasNoUnresolvedPlaceholdersAfterFormat(t *testing.T) {
	prompt := MustGet("resolver.json", "system")
	out := Format(prompt, map[string]string{"History": "(none)", "Message": "hi"})
	assert.False(t, strings.Contains(out, "{{."))
}
