package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// stripFences removes a surrounding markdown code block, which models add
// even when asked for bare JSON
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		// drop the language tag line, e.g. ```json
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

func decodeJSON(text string, v any) error {
	if err := json.Unmarshal([]byte(stripFences(text)), v); err != nil {
		return fmt.Errorf("malformed model output: %w", err)
	}
	return nil
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
// max <= 0 disables the bound.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
