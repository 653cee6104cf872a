package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeanpaul/learnsimply/internal/provider"
)

type stubLister struct {
	models []string
	err    error
}

func (s stubLister) Models(context.Context) ([]string, error) { return s.models, s.err }

func TestCheck(t *testing.T) {
	ctx := context.Background()

	s := Check(ctx, "gemini", "gemini-2.5-flash", stubLister{models: []string{"gemini-2.5-pro", "gemini-2.5-flash"}})
	assert.True(t, s.OK())
	assert.Empty(t, s.Error)

	s = Check(ctx, "gemini", "gemini-9", stubLister{models: []string{"gemini-2.5-flash"}})
	assert.True(t, s.Reachable)
	assert.False(t, s.OK())
	assert.Contains(t, s.Error, "gemini-2.5-flash")

	s = Check(ctx, "ollama", "llama3", stubLister{})
	assert.True(t, s.OK())

	s = Check(ctx, "gemini", "m", stubLister{err: &provider.APIError{Provider: "google", StatusCode: 400, Message: "API key not valid."}})
	assert.False(t, s.Reachable)
	assert.Equal(t, "authentication failed: API key not valid.", s.Error)

	s = Check(ctx, "ollama", "m", stubLister{err: errors.New("ollama API error: connection refused (is the service running?)")})
	assert.Contains(t, s.Error, "connection refused")
}
