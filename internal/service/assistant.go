// Package service implements the assistant orchestrator: retrieval-grounded
// answering, contextual chat, content generation and action execution on
// behalf of the caller. The orchestrator is stateless per request.
package service

import (
	"context"
	"strings"

	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/domain"
	"github.com/thai2602/blogassist/internal/llm"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/relevance"
	"github.com/thai2602/blogassist/internal/store"
	"github.com/thai2602/blogassist/internal/tools"
)

// CompletionClient is the completion gateway the orchestrator talks to.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
	CompleteWithTools(ctx context.Context, user string, declarations []tools.Declaration) (*llm.Completion, error)
}

// ToolExecutor runs a single named tool call.
type ToolExecutor interface {
	Execute(ctx context.Context, name, rawArgs string) (tools.Result, error)
}

// SearchAnswer is the outcome of retrieval-grounded answering.
type SearchAnswer struct {
	Answer  string
	Results []domain.RankedResult
}

// ActionOutcome is the outcome of an action request: the model's reply plus
// the results of any tools it invoked, in invocation order.
type ActionOutcome struct {
	Message     string
	ToolInvoked bool
	Results     []tools.Result
}

// Assistant orchestrates retrieval, completions and tool execution.
type Assistant struct {
	blogs       store.BlogStore
	engine      *relevance.Engine
	completions CompletionClient
	executor    ToolExecutor
	logger      logger.Logger

	searchLimit     int
	relatedLimit    int
	chatContextSize int
}

// NewAssistant wires the orchestrator against its collaborators.
func NewAssistant(
	cfg *config.ServiceConfig,
	blogs store.BlogStore,
	engine *relevance.Engine,
	completions CompletionClient,
	executor ToolExecutor,
	log logger.Logger,
) *Assistant {
	return &Assistant{
		blogs:           blogs,
		engine:          engine,
		completions:     completions,
		executor:        executor,
		logger:          log,
		searchLimit:     cfg.SearchLimit,
		relatedLimit:    cfg.RelatedLimit,
		chatContextSize: cfg.ChatContextSize,
	}
}

// AnswerWithRetrieval ranks published blogs against the query and asks the
// completion endpoint to introduce the matches. When nothing matches, a
// canned answer is returned without a completion call.
func (a *Assistant) AnswerWithRetrieval(ctx context.Context, query string) (*SearchAnswer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewError(domain.KindValidation, "query is required")
	}

	corpus, err := a.blogs.Find(ctx, store.BlogFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}

	results := a.engine.Search(query, corpus, a.searchLimit)
	if len(results) == 0 {
		a.logger.Info("retrieval found nothing", logger.String("query", query))
		return &SearchAnswer{Answer: noMatchAnswer, Results: []domain.RankedResult{}}, nil
	}

	answer, err := a.completions.Complete(ctx, "", searchPrompt(query, results))
	if err != nil {
		return nil, err
	}

	return &SearchAnswer{Answer: answer, Results: results}, nil
}

// Chat answers a free-form question with the most viewed published posts as
// ambient context.
func (a *Assistant) Chat(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", domain.NewError(domain.KindValidation, "query is required")
	}

	contextBlogs, err := a.blogs.Find(ctx, store.BlogFilter{
		PublishedOnly: true,
		Sort:          store.SortViews,
		Limit:         a.chatContextSize,
	})
	if err != nil {
		return "", err
	}

	return a.completions.Complete(ctx, chatSystemPrompt, chatPrompt(contextBlogs, query))
}

// Generate drafts a blog post on the topic in the given style. Style
// defaults to "professional".
func (a *Assistant) Generate(ctx context.Context, topic, style string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", domain.NewError(domain.KindValidation, "topic is required")
	}
	if strings.TrimSpace(style) == "" {
		style = defaultStyle
	}

	return a.completions.Complete(ctx, "", generatePrompt(topic, style))
}

// Summarize produces a short summary of one blog.
func (a *Assistant) Summarize(ctx context.Context, blogID string) (string, error) {
	blog, err := a.fetchBlog(ctx, blogID)
	if err != nil {
		return "", err
	}
	return a.completions.Complete(ctx, "", summarizePrompt(blog))
}

// Analyze reports sentiment, topics, key terms and quality of one blog.
func (a *Assistant) Analyze(ctx context.Context, blogID string) (string, error) {
	blog, err := a.fetchBlog(ctx, blogID)
	if err != nil {
		return "", err
	}
	return a.completions.Complete(ctx, "", analyzePrompt(blog))
}

// ActOnRequest offers the tool set to the model and executes whatever calls
// it emits, in order. A failing call is recorded in its result and never
// cancels the calls after it.
func (a *Assistant) ActOnRequest(ctx context.Context, userRequest string) (*ActionOutcome, error) {
	userRequest = strings.TrimSpace(userRequest)
	if userRequest == "" {
		return nil, domain.NewError(domain.KindValidation, "user request is required")
	}

	completion, err := a.completions.CompleteWithTools(ctx, userRequest, tools.Declarations())
	if err != nil {
		return nil, err
	}

	if len(completion.ToolCalls) == 0 {
		return &ActionOutcome{Message: completion.Content}, nil
	}

	results := make([]tools.Result, 0, len(completion.ToolCalls))
	for _, call := range completion.ToolCalls {
		result, err := a.executor.Execute(ctx, call.Name, call.Arguments)
		if err != nil {
			result = tools.Result{
				ToolName: call.Name,
				Output:   tools.ErrorOutput{Error: domain.MessageOf(err)},
			}
		}
		results = append(results, result)
	}

	a.logger.Info("action request handled",
		logger.Int("tool_calls", len(completion.ToolCalls)))

	return &ActionOutcome{
		Message:     completion.Content,
		ToolInvoked: true,
		Results:     results,
	}, nil
}

// RelatedTo returns the published blogs closest to the given one.
func (a *Assistant) RelatedTo(ctx context.Context, blogID string, limit int) ([]domain.RankedResult, error) {
	target, err := a.fetchBlog(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = a.relatedLimit
	}

	corpus, err := a.blogs.Find(ctx, store.BlogFilter{PublishedOnly: true})
	if err != nil {
		return nil, err
	}
	return a.engine.Related(target, corpus, limit), nil
}

func (a *Assistant) fetchBlog(ctx context.Context, blogID string) (*domain.Blog, error) {
	if strings.TrimSpace(blogID) == "" {
		return nil, domain.NewError(domain.KindValidation, "blog id is required")
	}
	blog, err := a.blogs.FindByID(ctx, blogID)
	if err != nil {
		return nil, err
	}
	if blog == nil {
		return nil, domain.NewError(domain.KindNotFound, "blog %s not found", blogID)
	}
	return blog, nil
}
