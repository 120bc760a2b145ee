package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"linkscout/internal/domain"
)

func TestSiloFromURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		url  string
		want string
	}{
		{"first segment", "https://example.com/gardening/tomato-care/", "gardening"},
		{"lowercased", "https://example.com/Gardening/post", "gardening"},
		{"empty path", "https://example.com", "root"},
		{"root path", "https://example.com/", "root"},
		{"unparseable", "://not a url", "root"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, domain.SiloFromURL(tc.url))
		})
	}
}

func TestURLPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gardening/tomato-care", domain.URLPath("https://example.com/gardening/tomato-care/"))
	assert.Equal(t, "", domain.URLPath("https://example.com/"))
}

func TestCombinedText(t *testing.T) {
	t.Parallel()

	rec := domain.ContentRecord{
		Title:       "Tomato Care",
		Description: "A growing guide",
		Headings:    []string{"Watering", "Pruning"},
		BodyText:    "Water deeply once a week.",
	}
	combined := rec.CombinedText()
	assert.Contains(t, combined, "Tomato Care")
	assert.Contains(t, combined, "A growing guide")
	assert.Contains(t, combined, "Watering")
	assert.Contains(t, combined, "Water deeply once a week.")
}
