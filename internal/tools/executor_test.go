package tools

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thai2602/blogassist/internal/domain"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/store"
)

func newTestExecutor(t *testing.T) (*Executor, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	exec, err := NewExecutor(mem.Blogs(), mem.Users(), DefaultAuthorResolver(mem.Users()), logger.NewNop())
	require.NoError(t, err)
	return exec, mem
}

func seedAuthor(t *testing.T, mem *store.MemoryStore) *domain.User {
	t.Helper()
	user, err := mem.Users().Create(context.Background(), &domain.User{
		Username: "russell",
		Email:    "russell@example.com",
		FullName: "Russell Jones",
	})
	require.NoError(t, err)
	return user
}

func validCreateArgs() string {
	content := strings.Repeat("All work and no play makes a dull blog post. ", 5)
	return `{"title":"A Fine Post","content":"` + content + `","category":"Technology","tags":["go","backend"]}`
}

func TestExecuteUnknownTool(t *testing.T) {
	exec, _ := newTestExecutor(t)

	_, err := exec.Execute(context.Background(), "delete_everything", "{}")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindToolExecution))
	assert.Contains(t, err.Error(), "delete_everything")
}

func TestCreateBlogValidation(t *testing.T) {
	exec, mem := newTestExecutor(t)
	seedAuthor(t, mem)
	ctx := context.Background()

	tests := []struct {
		name    string
		args    string
		wantErr string
	}{
		{
			name:    "empty title",
			args:    `{"title":"   ","content":"` + strings.Repeat("x", 120) + `","category":"food","tags":[]}`,
			wantErr: "title",
		},
		{
			name:    "content at 99 characters",
			args:    `{"title":"T","content":"` + strings.Repeat("x", 99) + `","category":"food","tags":[]}`,
			wantErr: "at least 100 characters",
		},
		{
			name:    "invalid category",
			args:    `{"title":"T","content":"` + strings.Repeat("x", 120) + `","category":"astrology","tags":[]}`,
			wantErr: "astrology",
		},
		{
			name:    "malformed json",
			args:    `{"title":`,
			wantErr: "invalid arguments",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := exec.Execute(ctx, ToolCreateBlog, tt.args)
			require.NoError(t, err)

			out, ok := result.Output.(ErrorOutput)
			require.True(t, ok, "expected error output, got %T", result.Output)
			assert.Contains(t, out.Error, tt.wantErr)
		})
	}
}

func TestCreateBlogContentBoundary(t *testing.T) {
	exec, mem := newTestExecutor(t)
	seedAuthor(t, mem)

	args := `{"title":"T","content":"` + strings.Repeat("x", 100) + `","category":"food","tags":[]}`
	result, err := exec.Execute(context.Background(), ToolCreateBlog, args)
	require.NoError(t, err)

	out, ok := result.Output.(CreateBlogOutput)
	require.True(t, ok, "expected success at exactly 100 characters, got %+v", result.Output)
	assert.True(t, out.Success)
}

func TestCreateBlogInvalidCategoryListsAll(t *testing.T) {
	exec, mem := newTestExecutor(t)
	seedAuthor(t, mem)

	args := `{"title":"T","content":"` + strings.Repeat("x", 120) + `","category":"astrology","tags":[]}`
	result, err := exec.Execute(context.Background(), ToolCreateBlog, args)
	require.NoError(t, err)

	out := result.Output.(ErrorOutput)
	for _, category := range domain.ValidCategories() {
		assert.Contains(t, out.Error, category)
	}
}

func TestCreateBlogSuccess(t *testing.T) {
	exec, mem := newTestExecutor(t)
	author := seedAuthor(t, mem)
	ctx := context.Background()

	result, err := exec.Execute(ctx, ToolCreateBlog, validCreateArgs())
	require.NoError(t, err)

	out, ok := result.Output.(CreateBlogOutput)
	require.True(t, ok, "unexpected output %+v", result.Output)
	assert.True(t, out.Success)
	assert.Equal(t, "technology", out.Blog.Category)
	assert.Equal(t, "Russell Jones", out.Blog.Author)

	stored, err := mem.Blogs().FindByID(ctx, out.Blog.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.True(t, stored.Published)
	assert.Equal(t, int64(0), stored.Views)
	assert.Equal(t, int64(0), stored.Likes)
	assert.Equal(t, 1, stored.ReadTime)
	assert.True(t, strings.HasSuffix(stored.Excerpt, "..."))

	linked, err := mem.Users().FindByID(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{out.Blog.ID}, linked.BlogIDs)
}

func TestCreateBlogTagHandling(t *testing.T) {
	exec, mem := newTestExecutor(t)
	seedAuthor(t, mem)
	ctx := context.Background()
	content := strings.Repeat("x", 120)

	t.Run("truncates to five", func(t *testing.T) {
		args := `{"title":"T","content":"` + content + `","category":"food","tags":["a","b","c","d","e","f","g"]}`
		result, err := exec.Execute(ctx, ToolCreateBlog, args)
		require.NoError(t, err)
		out := result.Output.(CreateBlogOutput)
		assert.Equal(t, []string{"a", "b", "c", "d", "e"}, out.Blog.Tags)
	})

	t.Run("non-array tags become empty", func(t *testing.T) {
		args := `{"title":"T","content":"` + content + `","category":"food","tags":"oops"}`
		result, err := exec.Execute(ctx, ToolCreateBlog, args)
		require.NoError(t, err)
		out := result.Output.(CreateBlogOutput)
		assert.Empty(t, out.Blog.Tags)
	})

	t.Run("absent tags become empty", func(t *testing.T) {
		args := `{"title":"T","content":"` + content + `","category":"food"}`
		result, err := exec.Execute(ctx, ToolCreateBlog, args)
		require.NoError(t, err)
		out := result.Output.(CreateBlogOutput)
		assert.Empty(t, out.Blog.Tags)
	})
}

func TestCreateBlogNoAuthors(t *testing.T) {
	exec, _ := newTestExecutor(t)

	result, err := exec.Execute(context.Background(), ToolCreateBlog, validCreateArgs())
	require.NoError(t, err)

	out, ok := result.Output.(ErrorOutput)
	require.True(t, ok)
	assert.Contains(t, out.Error, "no authors")
}

func TestGetCategories(t *testing.T) {
	exec, _ := newTestExecutor(t)

	result, err := exec.Execute(context.Background(), ToolGetCategories, "{}")
	require.NoError(t, err)

	out := result.Output.(CategoriesOutput)
	assert.True(t, out.Success)
	assert.Equal(t, domain.LifestyleCategories, out.Categories)
	assert.Contains(t, out.Message, "10")
}

func TestGetUsers(t *testing.T) {
	exec, mem := newTestExecutor(t)
	seedAuthor(t, mem)

	result, err := exec.Execute(context.Background(), ToolGetUsers, "{}")
	require.NoError(t, err)

	out := result.Output.(UsersOutput)
	assert.True(t, out.Success)
	require.Len(t, out.Users, 1)
	assert.Equal(t, "russell", out.Users[0].Username)
}

func TestDeclarationsMatchHandlers(t *testing.T) {
	exec, _ := newTestExecutor(t)

	decls := Declarations()
	assert.Len(t, decls, len(exec.handlers))
	for _, decl := range decls {
		_, ok := exec.handlers[decl.Name]
		assert.True(t, ok, "declaration %s has no handler", decl.Name)
	}
}
