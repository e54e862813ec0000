package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/domain"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/tools"
)

func testConfig(t *testing.T) *config.CompletionConfig {
	t.Helper()
	const keyEnv = "BLOGASSIST_TEST_COMPLETION_KEY"
	t.Setenv(keyEnv, "")
	return &config.CompletionConfig{
		BaseURL:        "http://localhost:1",
		APIKeyEnv:      keyEnv,
		Model:          "llama-3.3-70b-versatile",
		Temperature:    0.7,
		MaxTokens:      2048,
		RequestTimeout: 100 * time.Millisecond,
	}
}

func TestCompleteWithoutKey(t *testing.T) {
	client := New(testConfig(t), logger.NewNop())

	_, err := client.Complete(context.Background(), "", "hello")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindCompletionService))
	assert.Contains(t, domain.MessageOf(err), "BLOGASSIST_TEST_COMPLETION_KEY")
}

func TestCompleteWithToolsWithoutKey(t *testing.T) {
	client := New(testConfig(t), logger.NewNop())

	_, err := client.CompleteWithTools(context.Background(), "make a post", tools.Declarations())
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindCompletionService))
}
