// Package tools defines the actions the assistant can take on the blog
// platform and the executor that validates and runs them. Declarations are
// passed to the completion endpoint; the executor handles the calls the
// model emits in response.
package tools

// Tool action names.
const (
	ToolCreateBlog    = "create_blog"
	ToolGetCategories = "get_categories"
	ToolGetUsers      = "get_users"
)

// Declaration describes one callable action: its name, what it does, and the
// JSON schema of its parameters.
type Declaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// Declarations returns the full set of actions offered to the model. The
// executor must handle exactly this set.
func Declarations() []Declaration {
	return []Declaration{
		{
			Name: ToolCreateBlog,
			Description: "Create a new blog post with a title, content, category and tags. " +
				"Use this tool when the user asks to write or publish a new post.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{
						"type":        "string",
						"description": "Title of the blog post",
					},
					"content": map[string]any{
						"type":        "string",
						"description": "Full body of the blog post (at least 200 words)",
					},
					"category": map[string]any{
						"type": "string",
						"description": "Category of the post. Lifestyle topics (minimalism, time-management, " +
							"morning-routine, work-life-balance, personal-finance, reading-habits, home-decor, " +
							"gardening, sustainable-living, language-learning) or traditional topics (technology, " +
							"food, travel, health, lifestyle, business, education, entertainment, sports, science)",
					},
					"tags": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Tags related to the post (at most 5)",
					},
				},
				"required": []string{"title", "content", "category", "tags"},
			},
		},
		{
			Name:        ToolGetCategories,
			Description: "List all available blog categories.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        ToolGetUsers,
			Description: "List all authors so one can be chosen for a new blog post.",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
	}
}
