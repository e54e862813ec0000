package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/thai2602/blogassist/internal/domain"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/store"
)

var toolExecutions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "blogassist_tool_executions_total",
		Help: "Tool executions by tool name and outcome.",
	},
	[]string{"tool", "outcome"},
)

// Result is the outcome of one tool execution. Output is either a
// tool-specific success payload or an ErrorOutput; tool-level failures are
// carried in the payload rather than aborting the batch.
type Result struct {
	ToolName string `json:"toolName"`
	Output   any    `json:"result"`
}

// ErrorOutput reports a failed tool execution.
type ErrorOutput struct {
	Error string `json:"error"`
}

// CreatedBlog is the summary of a blog created through the create_blog tool.
type CreatedBlog struct {
	ID       string   `json:"_id"`
	Title    string   `json:"title"`
	Category string   `json:"category"`
	Author   string   `json:"author"`
	Tags     []string `json:"tags"`
	ReadTime int      `json:"readTime"`
}

// CreateBlogOutput is the success payload of create_blog.
type CreateBlogOutput struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Blog    CreatedBlog `json:"blog"`
}

// CategoriesOutput is the payload of get_categories.
type CategoriesOutput struct {
	Success    bool     `json:"success"`
	Categories []string `json:"categories"`
	Message    string   `json:"message"`
}

// UsersOutput is the payload of get_users.
type UsersOutput struct {
	Success bool                `json:"success"`
	Users   []domain.PublicUser `json:"users"`
	Message string              `json:"message"`
}

// AuthorResolver picks the author for blogs created through tools. The
// production resolver returns the first user by insertion order.
type AuthorResolver func(ctx context.Context) (*domain.User, error)

// DefaultAuthorResolver resolves the default author from the user store.
func DefaultAuthorResolver(users store.UserStore) AuthorResolver {
	return func(ctx context.Context) (*domain.User, error) {
		return users.FindFirst(ctx)
	}
}

type handler func(ctx context.Context, rawArgs string) any

// Executor validates and runs tool calls emitted by the model.
type Executor struct {
	blogs    store.BlogStore
	users    store.UserStore
	author   AuthorResolver
	logger   logger.Logger
	handlers map[string]handler
}

// NewExecutor wires the executor against the store gateways and checks that
// the handler set matches the declared tools exactly.
func NewExecutor(blogs store.BlogStore, users store.UserStore, author AuthorResolver, log logger.Logger) (*Executor, error) {
	e := &Executor{
		blogs:  blogs,
		users:  users,
		author: author,
		logger: log,
	}
	e.handlers = map[string]handler{
		ToolCreateBlog:    e.createBlog,
		ToolGetCategories: e.getCategories,
		ToolGetUsers:      e.getUsers,
	}

	declared := make(map[string]struct{})
	for _, decl := range Declarations() {
		declared[decl.Name] = struct{}{}
		if _, ok := e.handlers[decl.Name]; !ok {
			return nil, fmt.Errorf("tool %q declared without a handler", decl.Name)
		}
	}
	for name := range e.handlers {
		if _, ok := declared[name]; !ok {
			return nil, fmt.Errorf("handler %q has no declared tool", name)
		}
	}
	return e, nil
}

// Execute runs a single named tool call. Unknown tools are reported as an
// error; failures inside a known tool come back as an ErrorOutput payload.
func (e *Executor) Execute(ctx context.Context, name, rawArgs string) (result Result, err error) {
	h, ok := e.handlers[name]
	if !ok {
		toolExecutions.WithLabelValues(name, "unknown").Inc()
		return Result{}, domain.NewError(domain.KindToolExecution, "tool %s not found", name)
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("tool execution panicked",
				logger.String("tool", name),
				logger.Any("panic", r))
			toolExecutions.WithLabelValues(name, "error").Inc()
			result = Result{ToolName: name, Output: ErrorOutput{Error: fmt.Sprintf("tool %s failed: %v", name, r)}}
			err = nil
		}
	}()

	e.logger.Info("executing tool", logger.String("tool", name))
	output := h(ctx, rawArgs)

	outcome := "ok"
	if _, failed := output.(ErrorOutput); failed {
		outcome = "error"
	}
	toolExecutions.WithLabelValues(name, outcome).Inc()

	return Result{ToolName: name, Output: output}, nil
}

// createBlogArgs carries the raw tool arguments. Tags stays raw so a
// malformed value degrades to an empty list instead of failing the call.
type createBlogArgs struct {
	Title    string          `json:"title"`
	Content  string          `json:"content"`
	Category string          `json:"category"`
	Tags     json.RawMessage `json:"tags"`
}

const maxTags = 5

func (e *Executor) createBlog(ctx context.Context, rawArgs string) any {
	var args createBlogArgs
	if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
		return ErrorOutput{Error: fmt.Sprintf("invalid arguments: %v", err)}
	}

	title := strings.TrimSpace(args.Title)
	if title == "" {
		return ErrorOutput{Error: "title must not be empty"}
	}

	content := strings.TrimSpace(args.Content)
	if len([]rune(content)) < 100 {
		return ErrorOutput{Error: "content must be at least 100 characters"}
	}

	category := domain.NormalizeCategory(args.Category)
	if !domain.IsValidCategory(category) {
		return ErrorOutput{Error: fmt.Sprintf("category %q is not valid. Choose one of: %s",
			args.Category, strings.Join(domain.ValidCategories(), ", "))}
	}

	var tags []string
	if len(args.Tags) > 0 {
		// Malformed tags are tolerated, not fatal.
		_ = json.Unmarshal(args.Tags, &tags)
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	if tags == nil {
		tags = []string{}
	}

	author, err := e.author(ctx)
	if err != nil {
		return ErrorOutput{Error: fmt.Sprintf("failed to resolve author: %v", err)}
	}
	if author == nil {
		return ErrorOutput{Error: "no authors in the system, seed sample data first"}
	}

	blog := &domain.Blog{
		Title:      title,
		Content:    content,
		AuthorID:   author.ID,
		Category:   category,
		Tags:       tags,
		CoverImage: fmt.Sprintf("https://picsum.photos/seed/%d/800/400", time.Now().UnixMilli()),
		Published:  true,
	}
	blog.RecomputeDerived()

	created, err := e.blogs.Create(ctx, blog)
	if err != nil {
		return ErrorOutput{Error: fmt.Sprintf("failed to create blog: %v", err)}
	}

	// Link is the second step of a non-transactional pair. A failure here
	// leaves the blog in place.
	if err := e.users.AddBlogRef(ctx, author.ID, created.ID); err != nil {
		return ErrorOutput{Error: fmt.Sprintf("blog created but linking to author failed: %v", err)}
	}

	e.logger.Info("blog created by tool",
		logger.String("blog_id", created.ID),
		logger.String("category", created.Category),
		logger.String("author", author.Username))

	return CreateBlogOutput{
		Success: true,
		Message: fmt.Sprintf("Blog %q was created successfully by %s", created.Title, author.FullName),
		Blog: CreatedBlog{
			ID:       created.ID,
			Title:    created.Title,
			Category: created.Category,
			Author:   author.FullName,
			Tags:     created.Tags,
			ReadTime: created.ReadTime,
		},
	}
}

func (e *Executor) getCategories(context.Context, string) any {
	categories := domain.LifestyleCategories
	return CategoriesOutput{
		Success:    true,
		Categories: categories,
		Message:    fmt.Sprintf("%d lifestyle categories available", len(categories)),
	}
}

func (e *Executor) getUsers(ctx context.Context, _ string) any {
	users, err := e.users.List(ctx)
	if err != nil {
		return ErrorOutput{Error: fmt.Sprintf("failed to list authors: %v", err)}
	}

	public := make([]domain.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}
	return UsersOutput{
		Success: true,
		Users:   public,
		Message: fmt.Sprintf("%d authors in the system", len(public)),
	}
}
