package generator

import (
	"regexp"
	"strings"
)

// fenceOpenPattern matches a leading markdown fence with an optional language
// tag, e.g. ```json.
var fenceOpenPattern = regexp.MustCompile("^```[a-zA-Z]*")

// CleanModelText extracts the first JSON block from free-form model output,
// removing markdown fencing and surrounding prose. This is a lossy
// best-effort cleanup, not a JSON parser: the caller still has to parse the
// result and fall back when that fails.
func CleanModelText(text string) string {
	if strings.HasPrefix(text, "```") {
		text = fenceOpenPattern.ReplaceAllString(text, "")
		text = strings.ReplaceAll(text, "```", "")
	}
	return extractJSONSpan(text)
}

// extractJSONSpan returns the span from the first opening bracket to the last
// matching-kind closing bracket, or the text unmodified when no such span
// exists. The match is greedy to the last closing bracket in the whole text,
// so trailing unrelated bracketed prose widens the span.
func extractJSONSpan(text string) string {
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '[':
			if j := strings.LastIndexByte(text, ']'); j > i {
				return text[i : j+1]
			}
		case '{':
			if j := strings.LastIndexByte(text, '}'); j > i {
				return text[i : j+1]
			}
		}
	}
	return text
}
