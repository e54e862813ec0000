// Package seed wipes and repopulates sample users and blogs through the
// store gateway, for demos and local development.
package seed

import (
	"context"
	"fmt"
	"net/url"

	"github.com/thai2602/blogassist/internal/domain"
	"github.com/thai2602/blogassist/internal/logger"
	"github.com/thai2602/blogassist/internal/store"
)

// Summary reports what a seeding run created.
type Summary struct {
	Users int `json:"users"`
	Blogs int `json:"blogs"`
}

// Seeder populates sample data.
type Seeder struct {
	blogs  store.BlogStore
	users  store.UserStore
	logger logger.Logger
}

// New returns a seeder over the store gateways.
func New(blogs store.BlogStore, users store.UserStore, log logger.Logger) *Seeder {
	return &Seeder{blogs: blogs, users: users, logger: log}
}

type sampleUser struct {
	username string
	email    string
	fullName string
	bio      string
}

type sampleBlog struct {
	title    string
	content  string
	category string
	tags     []string
	views    int64
	likes    int64
	featured bool
}

var sampleUsers = []sampleUser{
	{"russellj", "russellj@example.com", "Russell Jones", "Full-stack developer"},
	{"mariaw", "mariaw@example.com", "Maria Williams", "Food blogger"},
	{"chenl", "chenl@example.com", "Chen Liu", "Travel writer"},
	{"priyak", "priyak@example.com", "Priya Kumar", "Health coach"},
	{"tomasb", "tomasb@example.com", "Tomas Berg", "Entrepreneur"},
}

var sampleBlogs = []sampleBlog{
	{
		title: "Machine Learning Fundamentals",
		content: "Machine learning is the branch of artificial intelligence that lets computers " +
			"learn from data without explicit programming. There are three main flavours: supervised " +
			"learning, unsupervised learning and reinforcement learning. Applications range from image " +
			"recognition and natural language processing to self-driving cars. Start by understanding " +
			"the difference between training and inference, then pick a framework and a small dataset.",
		category: "technology",
		tags:     []string{"ai", "ml"},
		views:    150,
		likes:    24,
	},
	{
		title: "Python for Beginners",
		content: "Python is one of the easiest programming languages to pick up. The syntax reads " +
			"close to plain English, and the ecosystem covers web development with Django and Flask, " +
			"data science with NumPy and Pandas, and machine learning with TensorFlow and PyTorch. " +
			"Begin with variables, loops and functions, then move on to classes and modules. The " +
			"community is huge and documentation is everywhere.",
		category: "technology",
		tags:     []string{"python", "programming"},
		views:    300,
		likes:    51,
		featured: true,
	},
	{
		title: "A Proper Bowl of Pho",
		content: "Pho is Vietnam's signature noodle soup. A good bowl stands or falls on the broth: " +
			"clear, fragrant, simmered from bones for eight to ten hours. Charred onion and ginger, " +
			"star anise and cinnamon do the heavy lifting. The noodles should be soft but springy, the " +
			"beef sliced paper thin so the hot broth cooks it in the bowl. Serve with fresh herbs, lime " +
			"and chili on the side.",
		category: "food",
		tags:     []string{"pho", "vietnamese"},
		views:    200,
		likes:    38,
	},
	{
		title: "Weekend in Dalat",
		content: "Dalat is known as the city of eternal spring, cool all year round with pine hills " +
			"and flower gardens everywhere you look. Do not miss Xuan Huong Lake, the Valley of Love " +
			"and the city flower park. Local specialties include strawberries, artichoke tea and a " +
			"surprisingly decent red wine. The best months to visit run from December through March, " +
			"when the dry season keeps the trails walkable.",
		category: "travel",
		tags:     []string{"dalat", "vietnam"},
		views:    180,
		likes:    29,
	},
	{
		title: "Staying Healthy Through Winter",
		content: "Winter health comes down to a few habits kept consistently. Keep your neck, chest " +
			"and feet warm, drink enough water even when you do not feel thirsty, and load up on fruit " +
			"rich in vitamin C. Keep exercising, but skip the pre-dawn runs when it is coldest. Sleep " +
			"seven to eight hours and wash your hands often. None of it is glamorous; all of it works.",
		category: "health",
		tags:     []string{"health", "winter"},
		views:    120,
		likes:    17,
	},
	{
		title: "Minimalism Without the Aesthetic",
		content: "Minimalism is not about owning exactly thirty things or living in an empty white " +
			"room. It is about removing what does not earn its keep so the things that matter get your " +
			"attention. Start with one drawer. Keep what you use, donate what you do not, and notice " +
			"how much easier it is to find things. Apply the same rule to commitments on your calendar " +
			"and subscriptions on your card statement.",
		category: "minimalism",
		tags:     []string{"minimalism", "lifestyle"},
		views:    95,
		likes:    12,
	},
}

// Run wipes existing data and inserts the sample set. Each blog is linked to
// its author the same way the create flow does it.
func (s *Seeder) Run(ctx context.Context) (Summary, error) {
	if err := s.blogs.DeleteAll(ctx); err != nil {
		return Summary{}, fmt.Errorf("wipe blogs: %w", err)
	}
	if err := s.users.DeleteAll(ctx); err != nil {
		return Summary{}, fmt.Errorf("wipe users: %w", err)
	}

	created := make([]*domain.User, 0, len(sampleUsers))
	for _, sample := range sampleUsers {
		user, err := s.users.Create(ctx, &domain.User{
			Username: sample.username,
			Email:    sample.email,
			Password: "password123",
			FullName: sample.fullName,
			Bio:      sample.bio,
			Avatar: fmt.Sprintf("https://ui-avatars.com/api/?name=%s&background=667eea&color=fff",
				url.QueryEscape(sample.fullName)),
			Role: "user",
		})
		if err != nil {
			return Summary{}, fmt.Errorf("seed user %s: %w", sample.username, err)
		}
		created = append(created, user)
	}

	for i, sample := range sampleBlogs {
		author := created[i%len(created)]
		blog := &domain.Blog{
			Title:      sample.title,
			Content:    sample.content,
			AuthorID:   author.ID,
			Category:   sample.category,
			Tags:       sample.tags,
			CoverImage: fmt.Sprintf("https://picsum.photos/seed/%d/800/400", i),
			Views:      sample.views,
			Likes:      sample.likes,
			Published:  true,
			Featured:   sample.featured,
		}
		blog.RecomputeDerived()

		stored, err := s.blogs.Create(ctx, blog)
		if err != nil {
			return Summary{}, fmt.Errorf("seed blog %q: %w", sample.title, err)
		}
		if err := s.users.AddBlogRef(ctx, author.ID, stored.ID); err != nil {
			return Summary{}, fmt.Errorf("link blog %q to %s: %w", sample.title, author.Username, err)
		}
	}

	s.logger.Info("sample data seeded",
		logger.Int("users", len(sampleUsers)),
		logger.Int("blogs", len(sampleBlogs)))

	return Summary{Users: len(sampleUsers), Blogs: len(sampleBlogs)}, nil
}
