package composer

import (
	"strings"
	"unicode/utf8"
)

// PlatformMaxLength is the maximum character count for a reply on the
// target platform.
const PlatformMaxLength = 280

// Truncate caps text at maxLen runes, preferring a word boundary and
// appending an ellipsis when it cuts.
func Truncate(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}

	runes := []rune(text)
	available := maxLen - 3 // room for "..."
	if available <= 0 {
		return string(runes[:maxLen])
	}

	truncated := string(runes[:available])

	// Avoid cutting mid-word unless the boundary is too far back.
	lastSpace := strings.LastIndex(truncated, " ")
	if lastSpace > available/2 {
		truncated = truncated[:lastSpace]
	}

	return strings.TrimRight(truncated, " .,;:!?") + "..."
}

// FitsInLimit checks if text fits within the limit.
func FitsInLimit(text string, limit int) bool {
	return utf8.RuneCountInString(text) <= limit
}

// cleanReply strips wrapping quotes and whitespace models tend to add.
func cleanReply(reply string) string {
	reply = strings.TrimSpace(reply)
	if len(reply) >= 2 && reply[0] == '"' && reply[len(reply)-1] == '"' {
		reply = reply[1 : len(reply)-1]
	}
	return strings.TrimSpace(reply)
}
