// Package llm adapts the OpenAI-compatible chat completions endpoint used
// for answering, generation and action planning. Every failure crossing this
// boundary carries the completion_service error kind.
package llm

import (
	"context"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/domain"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/tools"
)

var (
	completionRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blogassist_completion_requests_total",
			Help: "Completion requests by outcome.",
		},
		[]string{"outcome"},
	)
	completionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blogassist_completion_duration_seconds",
			Help:    "Completion request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// ToolCall is one action request emitted by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Completion is the model's reply: free text, tool calls, or both.
type Completion struct {
	Content   string
	ToolCalls []ToolCall
}

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	api     openai.Client
	cfg     *config.CompletionConfig
	logger  logger.Logger
	haveKey bool
}

// New builds a client from the completion configuration. A missing API key
// is reported on first use, not at construction, so the service can start
// without credentials.
func New(cfg *config.CompletionConfig, log logger.Logger) *Client {
	key := cfg.APIKey()
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &Client{
		api:     openai.NewClient(opts...),
		cfg:     cfg,
		logger:  log,
		haveKey: key != "",
	}
}

// Complete sends a plain prompt and returns the reply text.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user))

	completion, err := c.send(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.cfg.Model),
		Messages:    messages,
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(int64(c.cfg.MaxTokens)),
	})
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}

// CompleteWithTools sends a prompt along with tool declarations and returns
// the reply, including any tool calls the model chose to make.
func (c *Client) CompleteWithTools(ctx context.Context, user string, declarations []tools.Declaration) (*Completion, error) {
	toolParams := make([]openai.ChatCompletionToolUnionParam, 0, len(declarations))
	for _, decl := range declarations {
		toolParams = append(toolParams, openai.ChatCompletionFunctionTool(shared.FunctionDefinitionParam{
			Name:        decl.Name,
			Description: openai.String(decl.Description),
			Parameters:  shared.FunctionParameters(decl.Parameters),
		}))
	}

	return c.send(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.cfg.Model),
		Messages:    []openai.ChatCompletionMessageParamUnion{openai.UserMessage(user)},
		Tools:       toolParams,
		ToolChoice:  openai.ChatCompletionToolChoiceOptionUnionParam{OfAuto: openai.String("auto")},
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(int64(c.cfg.MaxTokens)),
	})
}

func (c *Client) send(ctx context.Context, params openai.ChatCompletionNewParams) (*Completion, error) {
	if !c.haveKey {
		completionRequests.WithLabelValues("error").Inc()
		return nil, domain.NewError(domain.KindCompletionService,
			"completion API key is not configured (set %s)", c.cfg.APIKeyEnv)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, params)
	completionDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		completionRequests.WithLabelValues("error").Inc()
		c.logger.Error("completion request failed",
			logger.String("model", c.cfg.Model),
			logger.Error(err))
		return nil, domain.WrapError(domain.KindCompletionService, err, "completion request failed")
	}
	if len(resp.Choices) == 0 {
		completionRequests.WithLabelValues("error").Inc()
		return nil, domain.NewError(domain.KindCompletionService, "completion returned no choices")
	}
	completionRequests.WithLabelValues("ok").Inc()

	message := resp.Choices[0].Message
	result := &Completion{Content: message.Content}
	for _, call := range message.ToolCalls {
		result.ToolCalls = append(result.ToolCalls, ToolCall{
			ID:        call.ID,
			Name:      call.Function.Name,
			Arguments: call.Function.Arguments,
		})
	}

	c.logger.Debug("completion received",
		logger.String("model", c.cfg.Model),
		logger.Int("tool_calls", len(result.ToolCalls)),
		logger.Duration("elapsed", time.Since(start)))

	return result, nil
}
