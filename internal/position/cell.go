package position

import (
	"fmt"
	"strings"
)

// Cell is one occurrence of a node inside an outline, packed into a single word:
//   bits  0-23  content index
//   bits 24-31  level
//   bits 32-62  label
//   bit  63     expanded flag
type Cell uint64

const (
	indexBits = 24
	levelBits = 8
	labelBits = 31

	levelShift = indexBits
	labelShift = indexBits + levelBits

	indexMask   = 1<<indexBits - 1
	levelMask   = 1<<levelBits - 1
	labelMask   = 1<<labelBits - 1
	expandedBit = Cell(1) << 63
)

const (
	MaxContentIndex = indexMask
	MaxLevel        = levelMask
	MaxLabel        = labelMask
)

// Make packs a collapsed cell. It panics if a field does not fit its bit range.
func Make(level int, contentIndex int, label int) Cell {
	mustFit("level", level, MaxLevel)
	mustFit("content index", contentIndex, MaxContentIndex)
	mustFit("label", label, MaxLabel)
	return Cell(contentIndex) | Cell(level)<<levelShift | Cell(label)<<labelShift
}

func mustFit(field string, value int, max int) {
	if value < 0 || value > max {
		panic(fmt.Sprintf("cell %s %d out of range [0,%d]", field, value, max))
	}
}

func (c Cell) Level() int {
	return int(c >> levelShift & levelMask)
}

func (c Cell) ContentIndex() int {
	return int(c & indexMask)
}

func (c Cell) Label() int {
	return int(c >> labelShift & labelMask)
}

func (c Cell) IsExpanded() bool {
	return c&expandedBit != 0
}

func (c *Cell) SetLevel(level int) {
	mustFit("level", level, MaxLevel)
	*c = *c&^(levelMask<<levelShift) | Cell(level)<<levelShift
}

func (c *Cell) SetContentIndex(contentIndex int) {
	mustFit("content index", contentIndex, MaxContentIndex)
	*c = *c&^indexMask | Cell(contentIndex)
}

func (c *Cell) SetLabel(label int) {
	mustFit("label", label, MaxLabel)
	*c = *c&^(labelMask<<labelShift) | Cell(label)<<labelShift
}

func (c *Cell) Expand() {
	*c |= expandedBit
}

func (c *Cell) Collapse() {
	*c &^= expandedBit
}

// Shift adds delta to the level, clamping to [0,MaxLevel].
func (c *Cell) Shift(delta int) {
	level := c.Level() + delta
	if level < 0 {
		level = 0
	} else if level > MaxLevel {
		level = MaxLevel
	}
	c.SetLevel(level)
}

// Shifted is the value form of Shift.
func (c Cell) Shifted(delta int) Cell {
	c.Shift(delta)
	return c
}

// WithLabel returns a copy carrying another label.
func (c Cell) WithLabel(label int) Cell {
	c.SetLabel(label)
	return c
}

// SameShape compares level and content index only.
func (c Cell) SameShape(other Cell) bool {
	return c.Level() == other.Level() && c.ContentIndex() == other.ContentIndex()
}

// String renders the change log form: <+|-><level>.<contentIndex>.<label>
func (c Cell) String() string {
	var text strings.Builder
	if c.IsExpanded() {
		text.WriteByte('+')
	} else {
		text.WriteByte('-')
	}
	text.WriteString(FormatNumber(uint64(c.Level())))
	text.WriteByte('.')
	text.WriteString(FormatNumber(uint64(c.ContentIndex())))
	text.WriteByte('.')
	text.WriteString(FormatNumber(uint64(c.Label())))
	return text.String()
}

// Parse reads the form produced by String.
func Parse(text string) (Cell, error) {
	if len(text) < 6 {
		return 0, fmt.Errorf("cell %q too short", text)
	}
	var expanded bool
	switch text[0] {
	case '+':
		expanded = true
	case '-':
	default:
		return 0, fmt.Errorf("cell %q lacks expansion marker", text)
	}
	fields := strings.Split(text[1:], ".")
	if len(fields) != 3 {
		return 0, fmt.Errorf("cell %q needs 3 fields, has %d", text, len(fields))
	}
	limits := [3]uint64{MaxLevel, MaxContentIndex, MaxLabel}
	var values [3]int
	for i, field := range fields {
		n, err := ParseNumber(field)
		if err != nil {
			return 0, fmt.Errorf("cell %q: %w", text, err)
		}
		if n > limits[i] {
			return 0, fmt.Errorf("cell %q: field %d exceeds %d", text, i, limits[i])
		}
		values[i] = int(n)
	}
	c := Make(values[0], values[1], values[2])
	if expanded {
		c.Expand()
	}
	return c, nil
}
