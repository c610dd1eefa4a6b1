package assistant

import "strings"

// preamblePrefixes are literal lead-ins the backend has been observed to
// prepend despite being told not to. Matched case-sensitively, stripped
// at most once, in this order.
var preamblePrefixes = []string{
	"Here's a human-like response:",
	"Here is a human-readable version:",
	"Here's the answer:",
	"Sure!",
	"Sure,",
	"Answer:",
}

// sanitize cleans a narration reply. When the reply contains quotation
// marks the text between the first and last quote wins, since the
// backend is prompted to quote its final answer. Otherwise one known
// preamble prefix is stripped. Keep every rule here; phrasing drift is
// a one-place fix.
func sanitize(text string) string {
	trimmed := strings.TrimSpace(text)

	first := strings.Index(trimmed, `"`)
	last := strings.LastIndex(trimmed, `"`)
	if first >= 0 && last > first {
		return strings.TrimSpace(trimmed[first+1 : last])
	}

	for _, prefix := range preamblePrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(trimmed, prefix))
		}
	}
	return trimmed
}
