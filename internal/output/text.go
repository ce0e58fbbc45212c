package output

import (
	"strings"
	"unicode/utf8"
)

func Indent(spaces int, multilineText string) string {
	indent := strings.Repeat(" ", spaces)
	lines := strings.Split(multilineText, "\n")
	var indented strings.Builder
	for i, line := range lines {
		if line != "" {
			indented.WriteString(indent)
			indented.WriteString(line)
		}
		if i < len(lines)-1 {
			indented.WriteRune('\n')
		}
	}
	return indented.String()
}

func Plural(count int, singular string, plural string) string {
	if count != 1 {
		return plural
	}
	return singular
}

// Abbreviate shortens text to at most width runes, marking the cut with an ellipsis.
func Abbreviate(text string, width int) string {
	if width < 1 || utf8.RuneCountInString(text) <= width {
		return text
	}
	runes := []rune(text)
	return string(runes[:width-1]) + "…"
}

// FirstLine returns the first non-blank line of a body, trimmed.
func FirstLine(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
