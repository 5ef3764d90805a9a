// Package analysis - json.go extracts the JSON payload from free-form
// model replies.
package analysis

import "strings"

// ExtractJSON returns the first balanced {...} span in reply. Models are
// instructed to return bare JSON but often wrap it in prose or markdown
// fences; this scanner skips anything before the first brace and tracks
// brace depth, so nested objects survive intact.
//
// This is a best-effort heuristic, not a parser: a brace inside a string
// literal can unbalance the count. The schema validation step after it
// catches anything mangled.
func ExtractJSON(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	if start < 0 {
		return "", false
	}

	depth := 0
	for i := start; i < len(reply); i++ {
		switch reply[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return reply[start : i+1], true
			}
		}
	}

	return "", false
}
