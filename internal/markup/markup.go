// Package markup recognizes the structural line shapes inside node bodies:
// directives, section references, @others and @all lines.
package markup

import (
	"strings"
)

var directives = map[string]bool{
	"language":     true,
	"nocolor":      true,
	"killcolor":    true,
	"color":        true,
	"tabwidth":     true,
	"pagewidth":    true,
	"beautify":     true,
	"nobeautify":   true,
	"killbeautify": true,
	"nopyflakes":   true,
	"lineending":   true,
	"wrap":         true,
	"nowrap":       true,
	"encoding":     true,
	"comment":      true,
	"delims":       true,
	"path":         true,
	"c":            true,
	"code":         true,
}

// LeadingSpaces counts the blanks in front of the first other character.
func LeadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}

// word returns the @-word starting the line after its indentation.
func word(line string) (string, bool) {
	rest := line[LeadingSpaces(line):]
	if !strings.HasPrefix(rest, "@") {
		return "", false
	}
	rest = rest[1:]
	end := strings.IndexAny(rest, " \t\r\n")
	if end < 0 {
		end = len(rest)
	}
	return rest[:end], true
}

// IsDirective reports lines like "@language python" whose word is a known directive.
func IsDirective(line string) bool {
	w, found := word(line)
	return found && directives[w]
}

// IsCodeDirective reports "@c" and "@code", which end a documentation part.
func IsCodeDirective(line string) bool {
	w, found := word(line)
	return found && (w == "c" || w == "code")
}

// IsOthers reports an @others line and its indentation.
func IsOthers(line string) (indent int, ok bool) {
	w, found := word(line)
	return LeadingSpaces(line), found && w == "others"
}

// IsAll reports an @all line and its indentation.
func IsAll(line string) (indent int, ok bool) {
	w, found := word(line)
	return LeadingSpaces(line), found && w == "all"
}

// HasOthers reports whether any body line is an @others line.
func HasOthers(body string) bool {
	for _, line := range SplitLines(body) {
		if _, ok := IsOthers(strings.TrimSuffix(line, "\n")); ok {
			return true
		}
	}
	return false
}

// SectionRef splits a reference line "    <<name>> tail" into its parts. The name keeps
// its angle brackets and must contain more than blanks.
func SectionRef(line string) (indent int, name string, tail string, ok bool) {
	indent = LeadingSpaces(line)
	rest := line[indent:]
	if !strings.HasPrefix(rest, "<<") {
		return 0, "", "", false
	}
	closing := strings.Index(rest[2:], ">>")
	if closing < 0 || strings.TrimSpace(rest[2:2+closing]) == "" {
		return 0, "", "", false
	}
	end := 2 + closing + 2
	return indent, rest[:end], rest[end:], true
}

// SectionName returns the reference a heading defines, e.g. "<< imports >>".
func SectionName(heading string) (string, bool) {
	_, name, _, ok := SectionRef(strings.TrimSpace(heading))
	return name, ok
}

// SplitLines cuts text after every newline; a final unterminated line is kept as is.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
