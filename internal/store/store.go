// Package store provides the content store gateway for blogs and users.
// It exposes a storage-neutral interface with a MongoDB implementation for
// production and an in-memory implementation for tests and local use.
package store

import (
	"context"

	"github.com/thai2602/blogassist/internal/domain"
)

// Sort orders available for blog queries.
const (
	SortNewest = "newest"
	SortViews  = "views"
)

// BlogFilter narrows a blog query. Zero values mean "no constraint".
type BlogFilter struct {
	Category      string
	AuthorID      string
	Search        string // case-insensitive substring match on title or content
	Featured      *bool
	PublishedOnly bool
	Sort          string // SortNewest (default) or SortViews
	Limit         int
}

// BlogPatch holds the mutable blog fields for an update. Nil fields are left
// unchanged. When Content is set, ReadTime and Excerpt are recomputed by the
// store before persisting.
type BlogPatch struct {
	Title      *string
	Content    *string
	Excerpt    *string
	Category   *string
	Tags       *[]string
	CoverImage *string
	Published  *bool
	Featured   *bool
}

// UserPatch holds the mutable user fields for an update.
type UserPatch struct {
	FullName *string
	Bio      *string
	Avatar   *string
}

// CategoryCount is one bucket of the per-category aggregation.
type CategoryCount struct {
	Category string `bson:"_id" json:"_id"`
	Count    int64  `bson:"count" json:"count"`
}

// BlogStore is the gateway to persisted blog records. Lookups that resolve
// nothing return (nil, nil); errors are reserved for store failures.
type BlogStore interface {
	Find(ctx context.Context, filter BlogFilter) ([]*domain.Blog, error)
	FindByID(ctx context.Context, id string) (*domain.Blog, error)
	Create(ctx context.Context, blog *domain.Blog) (*domain.Blog, error)
	Update(ctx context.Context, id string, patch BlogPatch) (*domain.Blog, error)
	Delete(ctx context.Context, id string) (bool, error)
	IncrementViews(ctx context.Context, id string) (*domain.Blog, error)
	IncrementLikes(ctx context.Context, id string) (*domain.Blog, error)
	Count(ctx context.Context, filter BlogFilter) (int64, error)
	CategoryCounts(ctx context.Context) ([]CategoryCount, error)
	DeleteAll(ctx context.Context) error
}

// UserStore is the gateway to persisted user records. List returns users in
// insertion order; FindFirst returns the first user by that order.
type UserStore interface {
	List(ctx context.Context) ([]*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindFirst(ctx context.Context) (*domain.User, error)
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, patch UserPatch) (*domain.User, error)
	AddBlogRef(ctx context.Context, userID, blogID string) error
	RemoveBlogRef(ctx context.Context, userID, blogID string) error
	DeleteAll(ctx context.Context) error
}

// applyPatch copies the set fields of a patch onto a blog and refreshes
// derived fields when content changed. Shared by both implementations.
func applyPatch(blog *domain.Blog, patch BlogPatch) {
	if patch.Title != nil {
		blog.Title = *patch.Title
	}
	if patch.Content != nil {
		blog.Content = *patch.Content
		blog.RecomputeDerived()
	}
	if patch.Excerpt != nil {
		blog.Excerpt = *patch.Excerpt
	}
	if patch.Category != nil {
		blog.Category = *patch.Category
	}
	if patch.Tags != nil {
		blog.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.CoverImage != nil {
		blog.CoverImage = *patch.CoverImage
	}
	if patch.Published != nil {
		blog.Published = *patch.Published
	}
	if patch.Featured != nil {
		blog.Featured = *patch.Featured
	}
}
