package domain

import "strings"

// LifestyleCategories are the curated lifestyle topics surfaced by the
// get_categories tool.
var LifestyleCategories = []string{
	"minimalism",
	"time-management",
	"morning-routine",
	"work-life-balance",
	"personal-finance",
	"reading-habits",
	"home-decor",
	"gardening",
	"sustainable-living",
	"language-learning",
}

// TraditionalCategories are the classic blog categories.
var TraditionalCategories = []string{
	"technology",
	"food",
	"travel",
	"health",
	"lifestyle",
	"business",
	"education",
	"entertainment",
	"sports",
	"science",
}

// ValidCategories returns the union of lifestyle and traditional categories,
// lifestyle first, preserving declaration order.
func ValidCategories() []string {
	out := make([]string, 0, len(LifestyleCategories)+len(TraditionalCategories))
	out = append(out, LifestyleCategories...)
	out = append(out, TraditionalCategories...)
	return out
}

// NormalizeCategory lowercases and trims a raw category value.
func NormalizeCategory(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// IsValidCategory reports whether the normalized category is in the union of
// lifestyle and traditional categories.
func IsValidCategory(normalized string) bool {
	for _, c := range LifestyleCategories {
		if c == normalized {
			return true
		}
	}
	for _, c := range TraditionalCategories {
		if c == normalized {
			return true
		}
	}
	return false
}
