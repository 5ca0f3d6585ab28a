// Package taglist treats the free-text comma-joined fields on
// achievements (skillsUsed, technologies, skillsLearned) as a proper
// value type instead of ad hoc splitting in every handler.
package taglist

import "strings"

// Parse splits a comma-separated list, trims each entry and drops
// empties. A nil input yields nil.
func Parse(raw *string) []string {
	if raw == nil {
		return nil
	}
	parts := strings.Split(*raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Join serializes tags back to the stored comma-joined form.
func Join(tags []string) string {
	return strings.Join(tags, ", ")
}

// Normalize returns the case-insensitive comparison key for a tag.
func Normalize(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
