package llm

import "strings"

// CleanJSONBlock strips markdown code fences that models add around JSON
// even when asked not to. Text outside a fence is returned trimmed.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	// drop a language tag such as "json" on the opening fence line
	if idx := strings.Index(text, "\n"); idx >= 0 {
		tag := strings.TrimSpace(text[:idx])
		if !strings.ContainsAny(tag, "{[ ") {
			text = text[idx+1:]
		}
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}
