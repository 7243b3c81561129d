package auth

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	maxSlugLength = 64
	slugAttempts  = 5
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and collapses everything outside [a-z0-9] to
// single dashes. Names that leave fewer than 3 characters get a random slug.
func Slugify(name string) string {
	base := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	base = strings.Trim(base, "-")
	if len(base) >= 3 {
		return cut(base, maxSlugLength)
	}
	return "t-" + strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

// SlugCandidates returns the slugs tried in order when creating a tenant.
func SlugCandidates(name string) []string {
	base := Slugify(name)
	out := make([]string, slugAttempts)
	out[0] = base
	for i := 1; i < slugAttempts; i++ {
		out[i] = cut(fmt.Sprintf("%s-%d", base, i+1), maxSlugLength)
	}
	return out
}

func cut(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
