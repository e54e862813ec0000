// Package domain defines the persisted records and shared value types for
// the blogassist service.
package domain

import (
	"math"
	"strings"
	"time"
)

// Reading speed used to derive ReadTime from content length.
const wordsPerMinute = 200

// Maximum number of characters kept in a generated excerpt.
const excerptLength = 150

// Blog represents a single piece of written content with its metadata.
type Blog struct {
	ID         string    `bson:"_id,omitempty" json:"_id"`
	Title      string    `bson:"title" json:"title"`
	Content    string    `bson:"content" json:"content"`
	Excerpt    string    `bson:"excerpt" json:"excerpt"`
	AuthorID   string    `bson:"author" json:"author"`
	Category   string    `bson:"category" json:"category"`
	Tags       []string  `bson:"tags" json:"tags"`
	CoverImage string    `bson:"coverImage" json:"coverImage"`
	Views      int64     `bson:"views" json:"views"`
	Likes      int64     `bson:"likes" json:"likes"`
	Published  bool      `bson:"published" json:"published"`
	Featured   bool      `bson:"featured" json:"featured"`
	ReadTime   int       `bson:"readTime" json:"readTime"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt" json:"updatedAt"`
}

// User represents the owning account of blogs.
type User struct {
	ID              string    `bson:"_id,omitempty" json:"_id"`
	Username        string    `bson:"username" json:"username"`
	Email           string    `bson:"email" json:"email"`
	Password        string    `bson:"password" json:"-"`
	FullName        string    `bson:"fullName" json:"fullName"`
	Avatar          string    `bson:"avatar" json:"avatar"`
	Bio             string    `bson:"bio" json:"bio"`
	Role            string    `bson:"role" json:"role"`
	BlogIDs         []string  `bson:"blogs" json:"blogs"`
	FavoriteBlogIDs []string  `bson:"favoriteBlogs" json:"favoriteBlogs"`
	CreatedAt       time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PublicUser is the credential-free projection of a User returned to callers.
type PublicUser struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// Public returns the credential-free projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
	}
}

// RankedResult pairs a blog with its relevance score. Results are ordered
// score-descending with deterministic tie-breaks.
type RankedResult struct {
	Blog  *Blog   `json:"blog"`
	Score float64 `json:"score"`
}

// WordCount counts whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// ReadTimeMinutes derives the estimated reading time in minutes from
// content, assuming wordsPerMinute. Always at least 0; empty content is 0.
func ReadTimeMinutes(content string) int {
	words := WordCount(content)
	return int(math.Ceil(float64(words) / float64(wordsPerMinute)))
}

// MakeExcerpt returns the first excerptLength characters of the trimmed
// content followed by an ellipsis marker.
func MakeExcerpt(content string) string {
	trimmed := strings.TrimSpace(content)
	runes := []rune(trimmed)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes) + "..."
}

// RecomputeDerived refreshes the fields derived from Content (ReadTime and
// Excerpt). Call after any content mutation.
func (b *Blog) RecomputeDerived() {
	b.ReadTime = ReadTimeMinutes(b.Content)
	b.Excerpt = MakeExcerpt(b.Content)
}
