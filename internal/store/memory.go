package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/thai2602/blogassist/internal/domain"
)

// MemoryStore is an in-memory implementation of BlogStore and UserStore.
// It preserves insertion order and is safe for concurrent use. Intended for
// tests and for running the service without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	blogs   []*domain.Blog
	users   []*domain.User
	nextSeq int64
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Blogs returns the blog store gateway.
func (m *MemoryStore) Blogs() BlogStore { return &memoryBlogStore{m} }

// Users returns the user store gateway.
func (m *MemoryStore) Users() UserStore { return &memoryUserStore{m} }

func (m *MemoryStore) nextID() string {
	m.nextSeq++
	return fmt.Sprintf("mem-%06d", m.nextSeq)
}

type memoryBlogStore struct {
	store *MemoryStore
}

func matchesFilter(blog *domain.Blog, filter BlogFilter) bool {
	if filter.PublishedOnly && !blog.Published {
		return false
	}
	if filter.Category != "" && blog.Category != filter.Category {
		return false
	}
	if filter.AuthorID != "" && blog.AuthorID != filter.AuthorID {
		return false
	}
	if filter.Featured != nil && blog.Featured != *filter.Featured {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		title := strings.ToLower(blog.Title)
		content := strings.ToLower(blog.Content)
		if !strings.Contains(title, needle) && !strings.Contains(content, needle) {
			return false
		}
	}
	return true
}

func (s *memoryBlogStore) Find(_ context.Context, filter BlogFilter) ([]*domain.Blog, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	var result []*domain.Blog
	for _, blog := range s.store.blogs {
		if matchesFilter(blog, filter) {
			result = append(result, cloneBlog(blog))
		}
	}

	if filter.Sort == SortViews {
		sort.SliceStable(result, func(i, j int) bool {
			if result[i].Views != result[j].Views {
				return result[i].Views > result[j].Views
			}
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	} else {
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		})
	}

	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (s *memoryBlogStore) FindByID(_ context.Context, id string) (*domain.Blog, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	if blog := s.store.findBlog(id); blog != nil {
		return cloneBlog(blog), nil
	}
	return nil, nil
}

func (s *memoryBlogStore) Create(_ context.Context, blog *domain.Blog) (*domain.Blog, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := time.Now().UTC()
	stored := cloneBlog(blog)
	stored.ID = s.store.nextID()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.store.blogs = append(s.store.blogs, stored)

	*blog = *cloneBlog(stored)
	return blog, nil
}

func (s *memoryBlogStore) Update(_ context.Context, id string, patch BlogPatch) (*domain.Blog, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	blog := s.store.findBlog(id)
	if blog == nil {
		return nil, nil
	}
	applyPatch(blog, patch)
	blog.UpdatedAt = time.Now().UTC()
	return cloneBlog(blog), nil
}

func (s *memoryBlogStore) Delete(_ context.Context, id string) (bool, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	for i, blog := range s.store.blogs {
		if blog.ID == id {
			s.store.blogs = append(s.store.blogs[:i], s.store.blogs[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memoryBlogStore) IncrementViews(_ context.Context, id string) (*domain.Blog, error) {
	return s.increment(id, func(b *domain.Blog) { b.Views++ })
}

func (s *memoryBlogStore) IncrementLikes(_ context.Context, id string) (*domain.Blog, error) {
	return s.increment(id, func(b *domain.Blog) { b.Likes++ })
}

func (s *memoryBlogStore) increment(id string, bump func(*domain.Blog)) (*domain.Blog, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	blog := s.store.findBlog(id)
	if blog == nil {
		return nil, nil
	}
	bump(blog)
	return cloneBlog(blog), nil
}

func (s *memoryBlogStore) Count(_ context.Context, filter BlogFilter) (int64, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	var count int64
	for _, blog := range s.store.blogs {
		if matchesFilter(blog, filter) {
			count++
		}
	}
	return count, nil
}

func (s *memoryBlogStore) CategoryCounts(_ context.Context) ([]CategoryCount, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	buckets := make(map[string]int64)
	for _, blog := range s.store.blogs {
		if blog.Published {
			buckets[blog.Category]++
		}
	}

	counts := make([]CategoryCount, 0, len(buckets))
	for category, count := range buckets {
		counts = append(counts, CategoryCount{Category: category, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Category < counts[j].Category
	})
	return counts, nil
}

func (s *memoryBlogStore) DeleteAll(_ context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.store.blogs = nil
	return nil
}

type memoryUserStore struct {
	store *MemoryStore
}

func (s *memoryUserStore) List(_ context.Context) ([]*domain.User, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.store.users))
	for _, user := range s.store.users {
		users = append(users, cloneUser(user))
	}
	return users, nil
}

func (s *memoryUserStore) FindByID(_ context.Context, id string) (*domain.User, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	if user := s.store.findUser(id); user != nil {
		return cloneUser(user), nil
	}
	return nil, nil
}

func (s *memoryUserStore) FindFirst(_ context.Context) (*domain.User, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	if len(s.store.users) == 0 {
		return nil, nil
	}
	return cloneUser(s.store.users[0]), nil
}

func (s *memoryUserStore) FindByUsernameOrEmail(_ context.Context, username, email string) (*domain.User, error) {
	s.store.mu.RLock()
	defer s.store.mu.RUnlock()

	for _, user := range s.store.users {
		if user.Username == username || user.Email == email {
			return cloneUser(user), nil
		}
	}
	return nil, nil
}

func (s *memoryUserStore) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	now := time.Now().UTC()
	stored := cloneUser(user)
	stored.ID = s.store.nextID()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	if stored.BlogIDs == nil {
		stored.BlogIDs = []string{}
	}
	if stored.FavoriteBlogIDs == nil {
		stored.FavoriteBlogIDs = []string{}
	}
	s.store.users = append(s.store.users, stored)

	*user = *cloneUser(stored)
	return user, nil
}

func (s *memoryUserStore) Update(_ context.Context, id string, patch UserPatch) (*domain.User, error) {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user := s.store.findUser(id)
	if user == nil {
		return nil, nil
	}
	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
	if patch.Avatar != nil {
		user.Avatar = *patch.Avatar
	}
	user.UpdatedAt = time.Now().UTC()
	return cloneUser(user), nil
}

func (s *memoryUserStore) AddBlogRef(_ context.Context, userID, blogID string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user := s.store.findUser(userID)
	if user == nil {
		return domain.NewError(domain.KindNotFound, "user %s not found", userID)
	}
	user.BlogIDs = append(user.BlogIDs, blogID)
	return nil
}

func (s *memoryUserStore) RemoveBlogRef(_ context.Context, userID, blogID string) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	user := s.store.findUser(userID)
	if user == nil {
		return nil
	}
	refs := user.BlogIDs[:0]
	for _, id := range user.BlogIDs {
		if id != blogID {
			refs = append(refs, id)
		}
	}
	user.BlogIDs = refs
	return nil
}

func (s *memoryUserStore) DeleteAll(_ context.Context) error {
	s.store.mu.Lock()
	defer s.store.mu.Unlock()

	s.store.users = nil
	return nil
}

func (m *MemoryStore) findBlog(id string) *domain.Blog {
	for _, blog := range m.blogs {
		if blog.ID == id {
			return blog
		}
	}
	return nil
}

func (m *MemoryStore) findUser(id string) *domain.User {
	for _, user := range m.users {
		if user.ID == id {
			return user
		}
	}
	return nil
}

func cloneBlog(b *domain.Blog) *domain.Blog {
	copied := *b
	copied.Tags = append([]string(nil), b.Tags...)
	return &copied
}

func cloneUser(u *domain.User) *domain.User {
	copied := *u
	copied.BlogIDs = append([]string(nil), u.BlogIDs...)
	copied.FavoriteBlogIDs = append([]string(nil), u.FavoriteBlogIDs...)
	return &copied
}
