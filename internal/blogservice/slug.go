package blogservice

import (
	"regexp"
	"strings"
)

var (
	slugInvalidRX = regexp.MustCompile(`[^a-z0-9]+`)
	slugTrimRX    = regexp.MustCompile(`^-+|-+$`)
)

// Slugify derives a URL slug from a title: lowercased, runs of non-alphanumeric
// characters collapsed to single hyphens.
func Slugify(title string) string {
	slug := strings.ToLower(title)
	slug = slugInvalidRX.ReplaceAllString(slug, "-")
	slug = slugTrimRX.ReplaceAllString(slug, "")
	return slug
}
