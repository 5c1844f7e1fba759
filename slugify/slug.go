// Package slugify turns model captions into deterministic, filesystem-safe
// filename stems. All functions are pure and total: any input, including
// empty or garbage captions, yields a non-empty slug.
package slugify

import (
	"regexp"
	"strings"
	"time"
)

// Fallback literals substituted when slugification yields nothing usable.
const (
	// FallbackImage is the fallback stem for the image caption flow
	FallbackImage = "image"

	// FallbackDownload is the fallback stem for the text suggestion flow
	FallbackDownload = "download"
)

// MaxSlugLength is the hard cap on slug length before any date suffix.
const MaxSlugLength = 60

// Options controls the slug transform. The zero value disables caption
// cleanup and word capping and falls back to FallbackDownload.
type Options struct {
	// CleanCaptions removes whole-word articles ("a", "an", "the")
	CleanCaptions bool

	// MaxWords caps the number of hyphen-separated tokens (0 = no cap)
	MaxWords int

	// AddDateSuffix appends -YYYY-MM-DD (UTC calendar date at call time)
	AddDateSuffix bool

	// Fallback replaces empty/too-short results (default FallbackDownload)
	Fallback string
}

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	articleWords = regexp.MustCompile(`\b(?:a|an|the)\b`)
	prepositions = regexp.MustCompile(`\s(?:on|in|at|with|by|of)\s`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// ToSlug converts a caption into a slug using the current UTC date for any
// date suffix. Identical captions always yield identical slugs under the
// same options, so repeated runs produce the same filename.
func ToSlug(caption string, opts Options) string {
	return ToSlugAt(caption, opts, time.Now())
}

// ToSlugAt is ToSlug with an explicit clock, for deterministic tests.
func ToSlugAt(caption string, opts Options, now time.Time) string {
	s := strings.ToLower(caption)
	s = nonSlugChars.ReplaceAllString(s, "")

	if opts.CleanCaptions {
		s = articleWords.ReplaceAllString(s, " ")
		s = whitespace.ReplaceAllString(s, " ")
	}

	// Connective prepositions are dropped only when surrounded by whitespace,
	// so a leading or trailing "of"/"in" survives. Replacing consumes the
	// surrounding spaces, so repeat until stable to catch adjacent matches.
	for {
		next := prepositions.ReplaceAllString(s, " ")
		if next == s {
			break
		}
		s = next
	}

	s = strings.TrimSpace(s)
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")

	if opts.MaxWords > 0 {
		words := strings.Split(s, "-")
		if len(words) > opts.MaxWords {
			s = strings.Join(words[:opts.MaxWords], "-")
		}
	}

	if len(s) > MaxSlugLength {
		s = strings.TrimRight(s[:MaxSlugLength], "-")
	}

	if len(s) < 2 {
		s = opts.Fallback
		if s == "" {
			s = FallbackDownload
		}
	}

	if opts.AddDateSuffix {
		s += now.UTC().Format("-2006-01-02")
	}

	return s
}
