package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/store"
)

func TestRunPopulatesSampleData(t *testing.T) {
	mem := store.NewMemoryStore()
	seeder := New(mem.Blogs(), mem.Users(), logger.NewNop())
	ctx := context.Background()

	summary, err := seeder.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Users)
	assert.Equal(t, 6, summary.Blogs)

	blogs, err := mem.Blogs().Find(ctx, store.BlogFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Len(t, blogs, 6, "every sample blog is published")

	for _, blog := range blogs {
		assert.NotEmpty(t, blog.AuthorID)
		assert.NotZero(t, blog.ReadTime)
		assert.NotEmpty(t, blog.Excerpt)
	}

	users, err := mem.Users().List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 5)

	var linked int
	for _, user := range users {
		linked += len(user.BlogIDs)
	}
	assert.Equal(t, 6, linked, "every blog is linked to exactly one author")
}

func TestRunWipesBeforeInserting(t *testing.T) {
	mem := store.NewMemoryStore()
	seeder := New(mem.Blogs(), mem.Users(), logger.NewNop())
	ctx := context.Background()

	_, err := seeder.Run(ctx)
	require.NoError(t, err)
	_, err = seeder.Run(ctx)
	require.NoError(t, err)

	count, err := mem.Blogs().Count(ctx, store.BlogFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	users, err := mem.Users().List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 5)
}
