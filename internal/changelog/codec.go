package changelog

import (
	"fmt"
	"strings"

	"github.com/n2code/leocore/internal/position"
)

type DecodeError struct {
	Token  string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed change log token %q: %s", e.Token, e.Reason)
}

func (e Edit) String() string {
	var token strings.Builder
	token.WriteString(string(e.Kind))
	token.WriteByte(':')
	if e.Kind == ShiftBlocks {
		delta := e.Delta
		if delta < 0 {
			token.WriteByte('-')
			delta = -delta
		} else {
			token.WriteByte('+')
		}
		token.WriteString(position.FormatNumber(uint64(delta)))
		token.WriteByte('.')
	}
	token.WriteString(position.FormatNumber(uint64(e.Size)))
	token.WriteString(",(")
	for k, off := range e.Offsets {
		if k > 0 {
			token.WriteByte(',')
		}
		token.WriteString(position.FormatNumber(uint64(off)))
	}
	token.WriteString("),(")
	for k, c := range e.Cells {
		if k > 0 {
			token.WriteByte(',')
		}
		token.WriteString(c.String())
	}
	token.WriteByte(')')
	return token.String()
}

// Join renders a compound edit, one token per line.
func Join(edits []Edit) string {
	tokens := make([]string, len(edits))
	for k, e := range edits {
		tokens[k] = e.String()
	}
	return strings.Join(tokens, "\n")
}

// Decode parses and validates one token.
func Decode(token string) (Edit, error) {
	fail := func(format string, values ...interface{}) (Edit, error) {
		return Edit{}, &DecodeError{Token: token, Reason: fmt.Sprintf(format, values...)}
	}

	if len(token) < 3 || token[2] != ':' {
		return fail("missing opcode")
	}
	e := Edit{Kind: Kind(token[:2])}
	switch e.Kind {
	case InsertBlocks, DeleteBlocks, ShiftBlocks, ReplaceBlocks, Expand, Collapse:
	default:
		return fail("unknown opcode %q", e.Kind)
	}

	rest := token[3:]
	comma := strings.IndexByte(rest, ',')
	if comma < 0 {
		return fail("missing size field")
	}
	field := rest[:comma]
	offsetsText, rest, ok := parenthesized(rest[comma+1:])
	if !ok || !strings.HasPrefix(rest, ",") {
		return fail("missing offset list")
	}
	cellsText, rest, ok := parenthesized(rest[1:])
	if !ok || rest != "" {
		return fail("missing or trailing cell list")
	}

	if e.Kind == ShiftBlocks {
		if len(field) < 2 || (field[0] != '+' && field[0] != '-') {
			return fail("shift field %q lacks a sign", field)
		}
		dot := strings.IndexByte(field, '.')
		if dot < 0 {
			return fail("shift field %q lacks a size", field)
		}
		delta, err := position.ParseNumber(field[1:dot])
		if err != nil || delta == 0 || delta > position.MaxLevel {
			return fail("bad shift delta in %q", field)
		}
		e.Delta = int(delta)
		if field[0] == '-' {
			e.Delta = -e.Delta
		}
		field = field[dot+1:]
	}
	size, err := position.ParseNumber(field)
	if err != nil || size == 0 || size > position.MaxContentIndex {
		return fail("bad block size %q", field)
	}
	e.Size = int(size)

	if offsetsText == "" {
		return fail("no offsets")
	}
	for _, text := range strings.Split(offsetsText, ",") {
		off, err := position.ParseNumber(text)
		if err != nil || off > position.MaxContentIndex {
			return fail("bad offset %q", text)
		}
		e.Offsets = append(e.Offsets, int(off))
	}
	if cellsText != "" {
		for _, text := range strings.Split(cellsText, ",") {
			c, err := position.Parse(text)
			if err != nil {
				return fail("%s", err)
			}
			e.Cells = append(e.Cells, c)
		}
	}

	expectedCells := 0
	switch e.Kind {
	case InsertBlocks, DeleteBlocks:
		expectedCells = len(e.Offsets) * e.Size
	case ReplaceBlocks:
		expectedCells = 2 * len(e.Offsets) * e.Size
	case Expand, Collapse:
		if e.Size != 1 || len(e.Offsets) != 1 {
			return fail("flag edits address exactly one cell")
		}
	}
	if len(e.Cells) != expectedCells {
		return fail("expected %d cells, got %d", expectedCells, len(e.Cells))
	}
	return e, nil
}

// Split decodes a compound edit. Nothing is returned unless every token decodes.
func Split(text string) ([]Edit, error) {
	if text == "" {
		return nil, &DecodeError{Token: text, Reason: "empty change log"}
	}
	var edits []Edit
	for _, token := range strings.Split(text, "\n") {
		e, err := Decode(token)
		if err != nil {
			return nil, err
		}
		edits = append(edits, e)
	}
	return edits, nil
}

func parenthesized(text string) (inner string, rest string, ok bool) {
	if !strings.HasPrefix(text, "(") {
		return "", text, false
	}
	end := strings.IndexByte(text, ')')
	if end < 0 {
		return "", text, false
	}
	return text[1:end], text[end+1:], true
}
