package aibridge

import (
	"strings"
)

// extractJSON performs the single lenient re-extraction pass applied to a
// response that failed strict decoding: markdown code fences are stripped
// and the payload is trimmed to the outermost JSON value. Returns false
// when no candidate JSON remains. No second remediation is attempted; a
// payload that still fails to decode is a provider failure.
func extractJSON(content string) (string, bool) {
	s := strings.TrimSpace(content)

	// Strip a leading ```json / ``` fence and its closing fence.
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if idx := strings.Index(s, "\n"); idx >= 0 {
			// Drop the language tag line, e.g. "json".
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Trim any prose around the outermost JSON object or array.
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndex(s, "}")
	} else {
		end = strings.LastIndex(s, "]")
	}
	if end <= start {
		return "", false
	}

	return s[start : end+1], true
}
