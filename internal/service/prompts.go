package service

import (
	"fmt"
	"strings"

	"github.com/thai2602/blogassist/internal/domain"
)

// Canned reply when retrieval finds nothing. Returned without calling the
// completion endpoint.
const noMatchAnswer = "Sorry, I could not find any blogs matching your question."

const defaultStyle = "professional"

const chatSystemPrompt = "You are an AI assistant for a blog platform. " +
	"Answer the user's question helpfully and in a friendly tone."

func searchPrompt(query string, results []domain.RankedResult) string {
	var list strings.Builder
	for _, r := range results {
		fmt.Fprintf(&list, "- %s (%s)\n", r.Blog.Title, r.Blog.Category)
	}

	return fmt.Sprintf(`Based on the question: %q

I found the following blogs:
%s
Write a short answer (2-3 sentences) introducing these blogs and explaining why they match the question.`,
		query, list.String())
}

func chatPrompt(contextBlogs []*domain.Blog, query string) string {
	var context strings.Builder
	for i, blog := range contextBlogs {
		if i > 0 {
			context.WriteString("\n\n")
		}
		fmt.Fprintf(&context, "%s: %s", blog.Title, blog.Excerpt)
	}

	return fmt.Sprintf(`Here are some popular posts on the platform:

%s

User question: %s`, context.String(), query)
}

func generatePrompt(topic, style string) string {
	return fmt.Sprintf(`Write a blog post about the topic: %s

Style: %s
Length: around 300-500 words

Post:`, topic, style)
}

func summarizePrompt(blog *domain.Blog) string {
	return fmt.Sprintf(`Summarize the following post briefly and concisely:

Title: %s
Content: %s

Summary:`, blog.Title, blog.Content)
}

func analyzePrompt(blog *domain.Blog) string {
	return fmt.Sprintf(`Analyze the following post:

Title: %s
Content: %s

Provide:
1. Sentiment (positive/negative/neutral)
2. Main topics
3. Key terms
4. Content quality assessment

Analysis:`, blog.Title, blog.Content)
}
