package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/domain"
	"github.com/thai2602/blogassist/internal/llm"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/relevance"
	"github.com/thai2602/blogassist/internal/store"
	"github.com/thai2602/blogassist/internal/tools"
)

type fakeCompletions struct {
	reply      string
	completion *llm.Completion
	err        error

	calls       int
	lastSystem  string
	lastUser    string
	lastToolSet []tools.Declaration
}

func (f *fakeCompletions) Complete(_ context.Context, system, user string) (string, error) {
	f.calls++
	f.lastSystem = system
	f.lastUser = user
	return f.reply, f.err
}

func (f *fakeCompletions) CompleteWithTools(_ context.Context, user string, declarations []tools.Declaration) (*llm.Completion, error) {
	f.calls++
	f.lastUser = user
	f.lastToolSet = declarations
	return f.completion, f.err
}

type fakeExecutor struct {
	executed []string
	fail     map[string]error
}

func (f *fakeExecutor) Execute(_ context.Context, name, rawArgs string) (tools.Result, error) {
	f.executed = append(f.executed, name)
	if err, ok := f.fail[name]; ok {
		return tools.Result{}, err
	}
	return tools.Result{ToolName: name, Output: map[string]any{"args": rawArgs}}, nil
}

func testServiceConfig() *config.ServiceConfig {
	return &config.ServiceConfig{
		SearchLimit:     5,
		RelatedLimit:    5,
		ChatContextSize: 3,
	}
}

func testRelevanceEngine() *relevance.Engine {
	return relevance.New(&config.RelevanceConfig{
		TitleWeight:      3.0,
		TagWeight:        2.0,
		BodyWeight:       1.0,
		CategoryWeight:   2.0,
		TagOverlapWeight: 1.0,
	})
}

func newTestAssistant(t *testing.T, completions CompletionClient, executor ToolExecutor) (*Assistant, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	assistant := NewAssistant(testServiceConfig(), mem.Blogs(), testRelevanceEngine(), completions, executor, logger.NewNop())
	return assistant, mem
}

func addBlog(t *testing.T, mem *store.MemoryStore, blog *domain.Blog) *domain.Blog {
	t.Helper()
	created, err := mem.Blogs().Create(context.Background(), blog)
	require.NoError(t, err)
	return created
}

func TestAnswerWithRetrieval(t *testing.T) {
	completions := &fakeCompletions{reply: "Here are two posts about Go."}
	assistant, mem := newTestAssistant(t, completions, nil)
	ctx := context.Background()

	addBlog(t, mem, &domain.Blog{Title: "Go routines", Content: "about go", Category: "technology", Published: true})
	addBlog(t, mem, &domain.Blog{Title: "Gardening", Content: "plants", Category: "gardening", Published: true})

	answer, err := assistant.AnswerWithRetrieval(ctx, "go")
	require.NoError(t, err)

	assert.Equal(t, "Here are two posts about Go.", answer.Answer)
	require.Len(t, answer.Results, 1)
	assert.Equal(t, "Go routines", answer.Results[0].Blog.Title)
	assert.Equal(t, 1, completions.calls)
	assert.Contains(t, completions.lastUser, "Go routines (technology)")
}

func TestAnswerWithRetrievalNothingFound(t *testing.T) {
	completions := &fakeCompletions{reply: "should not be used"}
	assistant, mem := newTestAssistant(t, completions, nil)

	addBlog(t, mem, &domain.Blog{Title: "Gardening", Content: "plants", Category: "gardening", Published: true})

	answer, err := assistant.AnswerWithRetrieval(context.Background(), "quantum")
	require.NoError(t, err)

	assert.Equal(t, noMatchAnswer, answer.Answer)
	assert.Empty(t, answer.Results)
	assert.Zero(t, completions.calls, "no completion call on empty retrieval")
}

func TestAnswerWithRetrievalEmptyQuery(t *testing.T) {
	completions := &fakeCompletions{}
	assistant, _ := newTestAssistant(t, completions, nil)

	_, err := assistant.AnswerWithRetrieval(context.Background(), "   ")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
	assert.Zero(t, completions.calls)
}

func TestChatUsesTopViewedContext(t *testing.T) {
	completions := &fakeCompletions{reply: "hello"}
	assistant, mem := newTestAssistant(t, completions, nil)
	ctx := context.Background()

	addBlog(t, mem, &domain.Blog{Title: "Low", Content: "low content here", Views: 1, Published: true})
	addBlog(t, mem, &domain.Blog{Title: "Mid", Content: "mid content here", Views: 10, Published: true})
	addBlog(t, mem, &domain.Blog{Title: "High", Content: "high content here", Views: 100, Published: true})
	addBlog(t, mem, &domain.Blog{Title: "Top", Content: "top content here", Views: 1000, Published: true})

	answer, err := assistant.Chat(ctx, "what should I read?")
	require.NoError(t, err)
	assert.Equal(t, "hello", answer)

	assert.Equal(t, chatSystemPrompt, completions.lastSystem)
	assert.Contains(t, completions.lastUser, "Top")
	assert.Contains(t, completions.lastUser, "High")
	assert.Contains(t, completions.lastUser, "Mid")
	assert.NotContains(t, completions.lastUser, "Low")
}

func TestGenerateDefaultsStyle(t *testing.T) {
	completions := &fakeCompletions{reply: "a post"}
	assistant, _ := newTestAssistant(t, completions, nil)

	_, err := assistant.Generate(context.Background(), "minimalism", "")
	require.NoError(t, err)
	assert.Contains(t, completions.lastUser, "Style: professional")
	assert.Contains(t, completions.lastUser, "300-500")

	_, err = assistant.Generate(context.Background(), "minimalism", "casual")
	require.NoError(t, err)
	assert.Contains(t, completions.lastUser, "Style: casual")

	_, err = assistant.Generate(context.Background(), "  ", "casual")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidation))
}

func TestSummarizeAndAnalyze(t *testing.T) {
	completions := &fakeCompletions{reply: "text"}
	assistant, mem := newTestAssistant(t, completions, nil)
	ctx := context.Background()

	blog := addBlog(t, mem, &domain.Blog{Title: "Deep Work", Content: "focus matters", Published: true})

	_, err := assistant.Summarize(ctx, blog.ID)
	require.NoError(t, err)
	assert.Contains(t, completions.lastUser, "Deep Work")
	assert.Contains(t, completions.lastUser, "Summarize")

	_, err = assistant.Analyze(ctx, blog.ID)
	require.NoError(t, err)
	assert.Contains(t, completions.lastUser, "Sentiment")

	_, err = assistant.Summarize(ctx, "missing")
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestActOnRequestNoToolCalls(t *testing.T) {
	completions := &fakeCompletions{completion: &llm.Completion{Content: "I cannot help with that."}}
	executor := &fakeExecutor{}
	assistant, _ := newTestAssistant(t, completions, executor)

	outcome, err := assistant.ActOnRequest(context.Background(), "tell me a joke")
	require.NoError(t, err)

	assert.Equal(t, "I cannot help with that.", outcome.Message)
	assert.False(t, outcome.ToolInvoked)
	assert.Empty(t, outcome.Results)
	assert.Empty(t, executor.executed)
	require.NotEmpty(t, completions.lastToolSet)
}

func TestActOnRequestExecutesSequentially(t *testing.T) {
	completions := &fakeCompletions{completion: &llm.Completion{
		Content: "Working on it.",
		ToolCalls: []llm.ToolCall{
			{ID: "1", Name: tools.ToolGetCategories, Arguments: "{}"},
			{ID: "2", Name: tools.ToolGetUsers, Arguments: "{}"},
		},
	}}
	executor := &fakeExecutor{}
	assistant, _ := newTestAssistant(t, completions, executor)

	outcome, err := assistant.ActOnRequest(context.Background(), "list categories and authors")
	require.NoError(t, err)

	assert.True(t, outcome.ToolInvoked)
	require.Len(t, outcome.Results, 2)
	assert.Equal(t, []string{tools.ToolGetCategories, tools.ToolGetUsers}, executor.executed)
	assert.Equal(t, tools.ToolGetCategories, outcome.Results[0].ToolName)
	assert.Equal(t, tools.ToolGetUsers, outcome.Results[1].ToolName)
}

func TestActOnRequestFailureNeverCancelsSiblings(t *testing.T) {
	completions := &fakeCompletions{completion: &llm.Completion{
		ToolCalls: []llm.ToolCall{
			{ID: "1", Name: "bogus_tool", Arguments: "{}"},
			{ID: "2", Name: tools.ToolGetCategories, Arguments: "{}"},
		},
	}}
	executor := &fakeExecutor{fail: map[string]error{
		"bogus_tool": domain.NewError(domain.KindToolExecution, "tool bogus_tool not found"),
	}}
	assistant, _ := newTestAssistant(t, completions, executor)

	outcome, err := assistant.ActOnRequest(context.Background(), "do things")
	require.NoError(t, err)

	require.Len(t, outcome.Results, 2)
	failed, ok := outcome.Results[0].Output.(tools.ErrorOutput)
	require.True(t, ok)
	assert.Contains(t, failed.Error, "bogus_tool")
	assert.Equal(t, tools.ToolGetCategories, outcome.Results[1].ToolName)
}

func TestActOnRequestCompletionFailure(t *testing.T) {
	completions := &fakeCompletions{err: domain.NewError(domain.KindCompletionService, "endpoint down")}
	assistant, _ := newTestAssistant(t, completions, &fakeExecutor{})

	_, err := assistant.ActOnRequest(context.Background(), "create a post")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindCompletionService))
}

func TestRelatedTo(t *testing.T) {
	assistant, mem := newTestAssistant(t, &fakeCompletions{}, nil)
	ctx := context.Background()

	target := addBlog(t, mem, &domain.Blog{Title: "Go", Category: "technology", Tags: []string{"go", "api"}, Published: true})
	addBlog(t, mem, &domain.Blog{Title: "APIs", Category: "technology", Tags: []string{"api"}, Published: true})
	addBlog(t, mem, &domain.Blog{Title: "Cooking", Category: "food", Tags: []string{"pasta"}, Published: true})

	results, err := assistant.RelatedTo(ctx, target.ID, 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "APIs", results[0].Blog.Title)

	_, err = assistant.RelatedTo(ctx, "missing", 0)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestPromptsCarryBlogDetails(t *testing.T) {
	blog := &domain.Blog{Title: "T", Content: strings.Repeat("c", 10)}
	assert.Contains(t, summarizePrompt(blog), "Title: T")
	assert.Contains(t, analyzePrompt(blog), "Sentiment")
	assert.Contains(t, generatePrompt("x", "casual"), "Style: casual")
}
