package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bosbiss/internal/common"
	"github.com/ternarybob/bosbiss/internal/interfaces"
)

func newTestFactory(defaultProvider string) *ProviderFactory {
	cfg := common.NewDefaultConfig()
	cfg.LLM.DefaultProvider = common.LLMProvider(defaultProvider)
	return NewProviderFactory(&cfg.Gemini, &cfg.Claude, &cfg.LLM, arbor.NewLogger())
}

func TestProviderFactory_DetectProvider(t *testing.T) {
	factory := newTestFactory("gemini")

	tests := []struct {
		model    string
		expected ProviderType
	}{
		{"", ProviderGemini},
		{"claude-haiku-4-5", ProviderClaude},
		{"claude/claude-haiku-4-5", ProviderClaude},
		{"anthropic/claude-haiku-4-5", ProviderClaude},
		{"gemini-3-flash-preview", ProviderGemini},
		{"google/gemini-3-flash-preview", ProviderGemini},
		{"Claude-Sonnet", ProviderClaude},
		{"mystery-model", ProviderGemini},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.expected, factory.DetectProvider(tt.model))
		})
	}

	assert.Equal(t, ProviderClaude, newTestFactory("claude").DetectProvider(""))
}

func TestProviderFactory_NormalizeModel(t *testing.T) {
	factory := newTestFactory("gemini")

	assert.Equal(t, "claude-haiku-4-5", factory.NormalizeModel("claude/claude-haiku-4-5"))
	assert.Equal(t, "claude-haiku-4-5", factory.NormalizeModel("anthropic/claude-haiku-4-5"))
	assert.Equal(t, "gemini-3-flash-preview", factory.NormalizeModel("Gemini/gemini-3-flash-preview"))
	assert.Equal(t, "gemini-3-flash-preview", factory.NormalizeModel("gemini-3-flash-preview"))
}

func TestProviderFactory_GetDefaultModel(t *testing.T) {
	factory := newTestFactory("gemini")

	assert.Equal(t, factory.claudeConfig.Model, factory.GetDefaultModel(ProviderClaude))
	assert.Equal(t, factory.geminiConfig.Model, factory.GetDefaultModel(ProviderGemini))
}

func TestProviderFactory_SearchRequiresGemini(t *testing.T) {
	factory := newTestFactory("gemini")

	_, err := factory.GenerateContent(context.Background(), &ContentRequest{
		Messages:     userPrompt("harga BBCA"),
		Model:        "claude-haiku-4-5",
		GoogleSearch: true,
	})
	assert.ErrorIs(t, err, ErrSearchUnsupported)
}

func TestProviderFactory_WithRetryStopsOnContextCancel(t *testing.T) {
	factory := newTestFactory("gemini")
	factory.retryConfig.MaxRetries = 5

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := factory.withRetry(ctx, "Test", func() error {
		calls++
		cancel()
		return errors.New("429 RESOURCE_EXHAUSTED")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestProviderFactory_WithRetryNoRetries(t *testing.T) {
	factory := newTestFactory("gemini")
	factory.retryConfig.MaxRetries = 0

	err := factory.withRetry(context.Background(), "Test", func() error {
		return errors.New("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	err = factory.withRetry(context.Background(), "Test", func() error { return nil })
	assert.NoError(t, err)
}

func TestConvertMessages(t *testing.T) {
	messages := []interfaces.Message{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "price?"},
	}

	contents, system, err := convertMessagesToGemini(messages)
	require.NoError(t, err)
	assert.Equal(t, "be brief", system)
	require.Len(t, contents, 3)
	assert.Equal(t, "model", contents[1].Role)

	claudeMessages, system, err := convertMessagesToClaude(messages)
	require.NoError(t, err)
	assert.Equal(t, "be brief", system)
	assert.Len(t, claudeMessages, 3)

	_, _, err = convertMessagesToGemini(nil)
	assert.Error(t, err)
	_, _, err = convertMessagesToClaude([]interfaces.Message{{Role: "system", Content: "x"}})
	assert.Error(t, err)
}

func TestRetryConfig(t *testing.T) {
	cfg := NewDefaultRetryConfig()

	assert.True(t, IsRateLimitError(errors.New("Error 429, Status: RESOURCE_EXHAUSTED")))
	assert.False(t, IsRateLimitError(errors.New("bad request")))
	assert.False(t, IsRateLimitError(nil))

	delay := ExtractRetryDelay(errors.New("Please retry in 12.5s., Status: RESOURCE_EXHAUSTED"))
	assert.Equal(t, 12500*time.Millisecond, delay)
	assert.Equal(t, time.Duration(0), ExtractRetryDelay(errors.New("nothing")))

	assert.Equal(t, DefaultInitialBackoff, cfg.CalculateBackoff(0, 0))
	assert.Equal(t, 6*time.Second, cfg.CalculateBackoff(1, 0))
	assert.Equal(t, 14*time.Second, cfg.CalculateBackoff(0, 13*time.Second))
	assert.Equal(t, DefaultMaxBackoff, cfg.CalculateBackoff(10, 0))
}
