package ai

import "strings"

// cleanModelJSON strips Markdown fences and surrounding junk from a model
// reply, keeping only the span from the first open delimiter to the last
// close delimiter.
func cleanModelJSON(raw, open, closing string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}
	s = strings.TrimSpace(s)

	if start := strings.Index(s, open); start != -1 {
		if end := strings.LastIndex(s, closing); end != -1 && end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}
	return s
}
