package domain

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestReadTimeMinutes(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"one word", "hello", 1},
		{"exactly 200 words", strings.Repeat("word ", 200), 1},
		{"201 words rounds up", strings.Repeat("word ", 201), 2},
		{"450 words", strings.Repeat("word ", 450), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ReadTimeMinutes(tt.content); got != tt.want {
				t.Errorf("ReadTimeMinutes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMakeExcerpt(t *testing.T) {
	t.Run("short content keeps everything", func(t *testing.T) {
		if got := MakeExcerpt("short text"); got != "short text..." {
			t.Errorf("MakeExcerpt() = %q", got)
		}
	})

	t.Run("long content is cut at 150 characters", func(t *testing.T) {
		got := MakeExcerpt(strings.Repeat("a", 400))
		if len([]rune(got)) != 153 {
			t.Errorf("excerpt length = %d, want 153", len([]rune(got)))
		}
		if !strings.HasSuffix(got, "...") {
			t.Errorf("excerpt %q has no ellipsis", got)
		}
	})

	t.Run("surrounding whitespace is trimmed first", func(t *testing.T) {
		if got := MakeExcerpt("  padded  "); got != "padded..." {
			t.Errorf("MakeExcerpt() = %q", got)
		}
	})
}

func TestRecomputeDerived(t *testing.T) {
	blog := &Blog{Content: strings.Repeat("word ", 250)}
	blog.RecomputeDerived()

	if blog.ReadTime != 2 {
		t.Errorf("ReadTime = %d, want 2", blog.ReadTime)
	}
	if !strings.HasSuffix(blog.Excerpt, "...") {
		t.Errorf("Excerpt = %q", blog.Excerpt)
	}
}

func TestCategories(t *testing.T) {
	all := ValidCategories()
	if len(all) != 20 {
		t.Fatalf("ValidCategories() has %d entries, want 20", len(all))
	}
	// Lifestyle categories come first.
	if all[0] != "minimalism" || all[10] != "technology" {
		t.Errorf("unexpected ordering: %v", all)
	}

	tests := []struct {
		raw   string
		valid bool
	}{
		{"technology", true},
		{"  Technology ", true},
		{"MINIMALISM", true},
		{"astrology", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidCategory(NormalizeCategory(tt.raw)); got != tt.valid {
			t.Errorf("IsValidCategory(%q) = %v, want %v", tt.raw, got, tt.valid)
		}
	}
}

func TestUserPasswordNeverSerialized(t *testing.T) {
	user := User{Username: "russell", Password: "secret"}

	data, err := json.Marshal(user)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("password leaked in %s", data)
	}

	public := user.Public()
	data, err = json.Marshal(public)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Errorf("password leaked in public projection %s", data)
	}
}
