package utils

import "strings"

// SplitTags turns comma-separated free text into an ordered set of
// trimmed, non-empty names. Duplicates (exact match, case-sensitive)
// are dropped keeping the first occurrence.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		name := strings.TrimSpace(p)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
