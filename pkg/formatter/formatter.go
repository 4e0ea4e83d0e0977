package formatter

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EscapeMarkdownV2 escapes special characters in Markdown V2 format
func EscapeMarkdownV2(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// Truncate cuts s to at most limit runes, ending with an ellipsis when shortened.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

// Caption renders a post caption for Telegram as MarkdownV2.
// The visible text is truncated to limit runes before escaping.
func Caption(username, caption string, limit int) string {
	var text string
	switch {
	case username != "" && caption != "":
		text = fmt.Sprintf("From @%s:\n\n%s", username, caption)
	case username != "":
		text = fmt.Sprintf("From @%s", username)
	default:
		text = caption
	}
	return EscapeMarkdownV2(Truncate(text, limit))
}
