package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrEmptySlug means the name reduced to nothing after normalization
// (empty or all punctuation). Callers must reject the input.
var ErrEmptySlug = errors.New("name produces an empty slug")

var (
	slugSeparators = regexp.MustCompile(`[\s_]+`)
	slugInvalid    = regexp.MustCompile(`[^a-z0-9-]`)
	slugHyphens    = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases the name, collapses whitespace and underscores to
// single hyphens, strips everything outside [a-z0-9-], collapses
// repeated hyphens and trims the ends.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = slugSeparators.ReplaceAllString(s, "-")
	s = slugInvalid.ReplaceAllString(s, "")
	s = slugHyphens.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// AssignSlug derives a unique slug for name. The exists predicate is
// supplied by the caller so the uniqueness scope stays under its control
// (e.g. excluding the record being renamed). On collision a numeric
// suffix -1, -2, … is appended until the predicate clears.
func AssignSlug(name string, exists func(slug string) (bool, error)) (string, error) {
	base := Slugify(name)
	if base == "" {
		return "", ErrEmptySlug
	}

	candidate := base
	for i := 1; ; i++ {
		taken, err := exists(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
