package llm

import (
	"regexp"
	"strings"
)

var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// CleanResponse strips reasoning-model noise from a raw chat answer:
// <think> blocks emitted by models whose chain of thought cannot be disabled
// over the OpenAI-compatible API, plus surrounding markdown code fences.
func CleanResponse(raw string) string {
	raw = thinkBlock.ReplaceAllString(raw, "")
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		lines := strings.SplitN(raw, "\n", 2)
		if len(lines) > 1 {
			raw = lines[1]
		}
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "```")
		raw = strings.TrimSpace(raw)
	}
	return raw
}

// JSONBody cuts a cleaned response down to the outermost JSON object. Some
// models wrap their JSON answer in prose even in JSON mode. Returns the
// input unchanged when no object boundaries are found; the schema validator
// rejects it downstream.
func JSONBody(raw string) string {
	raw = CleanResponse(raw)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}
