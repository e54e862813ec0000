package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thai2602/blogassist/internal/config"
	"github.com/thai2602/blogassist/internal/domain"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/seed"
	"github.com/thai2602/blogassist/internal/service"
	"github.com/thai2602/blogassist/internal/store"
	"github.com/thai2602/blogassist/internal/tools"
)

const defaultListLimit = 50

// ErrorResponse is the uniform error body for all routes.
type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthChecker reports connectivity of the backing store. A nil checker
// means the store has no external dependency.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Seeder wipes and repopulates sample data.
type Seeder interface {
	Run(ctx context.Context) (seed.Summary, error)
}

// Handler holds the HTTP request handlers.
type Handler struct {
	assistant *service.Assistant
	blogs     store.BlogStore
	users     store.UserStore
	seeder    Seeder
	health    HealthChecker
	cfg       *config.Config
	logger    logger.Logger
}

// NewHandler creates a handler over the orchestrator and the store gateways.
func NewHandler(
	assistant *service.Assistant,
	blogs store.BlogStore,
	users store.UserStore,
	seeder Seeder,
	health HealthChecker,
	cfg *config.Config,
	log logger.Logger,
) *Handler {
	return &Handler{
		assistant: assistant,
		blogs:     blogs,
		users:     users,
		seeder:    seeder,
		health:    health,
		cfg:       cfg,
		logger:    log,
	}
}

// fail maps a domain error kind to an HTTP status and writes the error body.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "INTERNAL_ERROR"
	switch domain.KindOf(err) {
	case domain.KindValidation:
		status = http.StatusBadRequest
		code = "VALIDATION_ERROR"
	case domain.KindNotFound:
		status = http.StatusNotFound
		code = "NOT_FOUND"
	case domain.KindCompletionService:
		status = http.StatusBadGateway
		code = "COMPLETION_ERROR"
	case domain.KindStore:
		code = "STORE_ERROR"
	case domain.KindToolExecution:
		code = "TOOL_ERROR"
	}

	_ = c.Error(err)
	c.JSON(status, ErrorResponse{
		Error:     domain.MessageOf(err),
		Code:      code,
		Timestamp: time.Now(),
	})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:     "invalid request body: " + err.Error(),
		Code:      "INVALID_REQUEST",
		Timestamp: time.Now(),
	})
}

func (h *Handler) notFound(c *gin.Context, what, id string) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:     fmt.Sprintf("%s %s not found", what, id),
		Code:      "NOT_FOUND",
		Timestamp: time.Now(),
	})
}

// HealthCheck reports liveness and store connectivity.
func (h *Handler) HealthCheck(c *gin.Context) {
	status := "healthy"
	dependencies := gin.H{}

	if h.health != nil {
		if err := h.health.Ping(c.Request.Context()); err != nil {
			status = "unhealthy"
			dependencies["mongo"] = "error: " + err.Error()
		} else {
			dependencies["mongo"] = "ok"
		}
	}

	body := gin.H{
		"status":       status,
		"service":      h.cfg.Service.Name,
		"version":      h.cfg.Service.Version,
		"dependencies": dependencies,
	}
	if status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}

// --- blog routes ---

type pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Pages int   `json:"pages"`
}

// ListBlogs returns published blogs with optional filters.
func (h *Handler) ListBlogs(c *gin.Context) {
	filter := store.BlogFilter{PublishedOnly: true, Sort: store.SortNewest}

	if category := c.Query("category"); category != "" && category != "all" {
		filter.Category = category
	}
	filter.AuthorID = c.Query("author")
	filter.Search = c.Query("search")
	if featured := c.Query("featured"); featured != "" {
		value := featured == "true"
		filter.Featured = &value
	}

	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	filter.Limit = limit

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	blogs, err := h.blogs.Find(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	total, err := h.blogs.Count(c.Request.Context(), filter)
	if err != nil {
		h.fail(c, err)
		return
	}

	if blogs == nil {
		blogs = []*domain.Blog{}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"blogs":   blogs,
		"pagination": pagination{
			Total: total,
			Page:  page,
			Pages: int(math.Ceil(float64(total) / float64(limit))),
		},
	})
}

// GetBlog returns one blog and counts the view.
func (h *Handler) GetBlog(c *gin.Context) {
	id := c.Param("id")
	blog, err := h.blogs.IncrementViews(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if blog == nil {
		h.notFound(c, "blog", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blog": blog})
}

type createBlogRequest struct {
	Title      string   `json:"title" binding:"required"`
	Content    string   `json:"content" binding:"required"`
	Excerpt    string   `json:"excerpt"`
	Author     string   `json:"author" binding:"required"`
	Category   string   `json:"category" binding:"required"`
	Tags       []string `json:"tags"`
	CoverImage string   `json:"coverImage"`
	Published  *bool    `json:"published"`
}

// CreateBlog creates a blog and links it to its author. The link is a second
// write; a failure there leaves the blog in place.
func (h *Handler) CreateBlog(c *gin.Context) {
	var req createBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	category := domain.NormalizeCategory(req.Category)
	if !domain.IsValidCategory(category) {
		h.fail(c, domain.NewError(domain.KindValidation, "category %q is not valid", req.Category))
		return
	}

	blog := &domain.Blog{
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   req.Author,
		Category:   category,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
		Published:  true,
	}
	if blog.Tags == nil {
		blog.Tags = []string{}
	}
	if blog.CoverImage == "" {
		blog.CoverImage = fmt.Sprintf("https://picsum.photos/seed/%d/800/400", time.Now().UnixMilli())
	}
	if req.Published != nil {
		blog.Published = *req.Published
	}
	blog.RecomputeDerived()
	if req.Excerpt != "" {
		blog.Excerpt = req.Excerpt
	}

	created, err := h.blogs.Create(c.Request.Context(), blog)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.users.AddBlogRef(c.Request.Context(), req.Author, created.ID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "blog": created})
}

type updateBlogRequest struct {
	Title      *string   `json:"title"`
	Content    *string   `json:"content"`
	Excerpt    *string   `json:"excerpt"`
	Category   *string   `json:"category"`
	Tags       *[]string `json:"tags"`
	CoverImage *string   `json:"coverImage"`
	Published  *bool     `json:"published"`
	Featured   *bool     `json:"featured"`
}

// UpdateBlog applies a partial update. Reading time and the excerpt are
// recomputed when the content changes.
func (h *Handler) UpdateBlog(c *gin.Context) {
	var req updateBlogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	if req.Category != nil {
		category := domain.NormalizeCategory(*req.Category)
		if !domain.IsValidCategory(category) {
			h.fail(c, domain.NewError(domain.KindValidation, "category %q is not valid", *req.Category))
			return
		}
		req.Category = &category
	}

	id := c.Param("id")
	blog, err := h.blogs.Update(c.Request.Context(), id, store.BlogPatch{
		Title:      req.Title,
		Content:    req.Content,
		Excerpt:    req.Excerpt,
		Category:   req.Category,
		Tags:       req.Tags,
		CoverImage: req.CoverImage,
		Published:  req.Published,
		Featured:   req.Featured,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if blog == nil {
		h.notFound(c, "blog", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blog": blog})
}

// DeleteBlog removes a blog and retracts the author's reference to it.
func (h *Handler) DeleteBlog(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	blog, err := h.blogs.FindByID(ctx, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if blog == nil {
		h.notFound(c, "blog", id)
		return
	}

	if err := h.users.RemoveBlogRef(ctx, blog.AuthorID, blog.ID); err != nil {
		h.fail(c, err)
		return
	}
	if _, err := h.blogs.Delete(ctx, id); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "blog deleted successfully"})
}

// LikeBlog counts a like.
func (h *Handler) LikeBlog(c *gin.Context) {
	id := c.Param("id")
	blog, err := h.blogs.IncrementLikes(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if blog == nil {
		h.notFound(c, "blog", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blog": blog})
}

// RelatedBlogs returns the published blogs closest to this one.
func (h *Handler) RelatedBlogs(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	results, err := h.assistant.RelatedTo(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	blogs := make([]*domain.Blog, 0, len(results))
	for _, result := range results {
		blogs = append(blogs, result.Blog)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blogs": blogs})
}

// CategoryStats aggregates published blog counts per category.
func (h *Handler) CategoryStats(c *gin.Context) {
	counts, err := h.blogs.CategoryCounts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if counts == nil {
		counts = []store.CategoryCount{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": counts})
}

// --- user routes ---

// ListUsers returns all users. Credential fields are never serialized.
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// GetUser returns one user.
func (h *Handler) GetUser(c *gin.Context) {
	id := c.Param("id")
	user, err := h.users.FindByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		h.notFound(c, "user", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

type createUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	FullName string `json:"fullName" binding:"required"`
	Bio      string `json:"bio"`
}

// CreateUser registers a user after a username/email uniqueness check.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	existing, err := h.users.FindByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		h.fail(c, err)
		return
	}
	if existing != nil {
		h.fail(c, domain.NewError(domain.KindValidation, "user already exists"))
		return
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Bio:      req.Bio,
		Avatar: fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=667eea&color=fff",
			url.QueryEscape(req.FullName)),
		Role: "user",
	}
	created, err := h.users.Create(ctx, user)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "user": created})
}

type updateUserRequest struct {
	FullName *string `json:"fullName"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

// UpdateUser applies a partial profile update.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	id := c.Param("id")
	user, err := h.users.Update(c.Request.Context(), id, store.UserPatch{
		FullName: req.FullName,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if user == nil {
		h.notFound(c, "user", id)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// UserBlogs returns all blogs authored by the user, drafts included.
func (h *Handler) UserBlogs(c *gin.Context) {
	blogs, err := h.blogs.Find(c.Request.Context(), store.BlogFilter{
		AuthorID: c.Param("id"),
		Sort:     store.SortNewest,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	if blogs == nil {
		blogs = []*domain.Blog{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blogs": blogs})
}

// --- assistant routes ---

type queryRequest struct {
	Query string `json:"query" binding:"required"`
}

type blogIDRequest struct {
	BlogID string `json:"blog_id" binding:"required"`
	Limit  int    `json:"limit"`
}

// SmartSearch answers a question grounded on retrieved blogs.
func (h *Handler) SmartSearch(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	answer, err := h.assistant.AnswerWithRetrieval(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"answer":  answer.Answer,
		"blogs":   answer.Results,
	})
}

// Chat answers a free-form question.
func (h *Handler) Chat(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	answer, err := h.assistant.Chat(c.Request.Context(), req.Query)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "answer": answer})
}

type generateRequest struct {
	Topic string `json:"topic" binding:"required"`
	Style string `json:"style"`
}

// Generate drafts a blog post on a topic.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	content, err := h.assistant.Generate(c.Request.Context(), req.Topic, req.Style)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"generated_content": content,
		"topic":             req.Topic,
	})
}

// Summarize produces a summary of one blog.
func (h *Handler) Summarize(c *gin.Context) {
	var req blogIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	summary, err := h.assistant.Summarize(c.Request.Context(), req.BlogID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "summary": summary})
}

// Analyze reports sentiment, topics and quality of one blog.
func (h *Handler) Analyze(c *gin.Context) {
	var req blogIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	analysis, err := h.assistant.Analyze(c.Request.Context(), req.BlogID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "analysis": analysis})
}

// Recommend returns blogs related to the given one, with scores.
func (h *Handler) Recommend(c *gin.Context) {
	var req blogIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	results, err := h.assistant.RelatedTo(c.Request.Context(), req.BlogID, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	if results == nil {
		results = []domain.RankedResult{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "blogs": results})
}

// --- tool routes ---

type actionRequest struct {
	UserRequest string `json:"userRequest" binding:"required"`
}

// CreateBlogWithAI lets the model act on the request with the tool set.
func (h *Handler) CreateBlogWithAI(c *gin.Context) {
	var req actionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	outcome, err := h.assistant.ActOnRequest(c.Request.Context(), req.UserRequest)
	if err != nil {
		h.fail(c, err)
		return
	}

	body := gin.H{
		"success":  true,
		"message":  outcome.Message,
		"toolUsed": outcome.ToolInvoked,
	}
	if outcome.ToolInvoked {
		body["toolResults"] = outcome.Results
	}
	c.JSON(http.StatusOK, body)
}

// AvailableTools lists the declared tools.
func (h *Handler) AvailableTools(c *gin.Context) {
	declarations := tools.Declarations()
	summaries := make([]gin.H, 0, len(declarations))
	for _, decl := range declarations {
		summaries = append(summaries, gin.H{
			"name":        decl.Name,
			"description": decl.Description,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "tools": summaries})
}

// --- seed route ---

// Seed wipes and repopulates sample data.
func (h *Handler) Seed(c *gin.Context) {
	summary, err := h.seeder.Run(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "sample data created",
		"users":   summary.Users,
		"blogs":   summary.Blogs,
	})
}
