package gemini

import (
	"context"
	"testing"

	"hcp-chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	contents, system := toContents([]llm.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})

	require.Len(t, contents, 2)
	assert.Equal(t, genai.RoleUser, contents[0].Role)
	assert.Equal(t, genai.RoleModel, contents[1].Role)
	require.NotNil(t, system)
	assert.Equal(t, "be brief", system.Parts[0].Text)
}

func TestNewProvider_RequiresKey(t *testing.T) {
	_, err := NewProvider(context.Background(), "", "")
	assert.Error(t, err)
}
