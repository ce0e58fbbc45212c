package outline

import (
	"github.com/n2code/leocore/internal/position"
)

// Outline is the depth-first sequence of cells of one tree. Element 0 is the
// hidden root whose label field holds the next free label.
type Outline []position.Cell

// New returns an outline holding only the expanded hidden root.
func New() Outline {
	root := position.Make(0, 0, 1)
	root.Expand()
	return Outline{root}
}

func (o Outline) Clone() Outline {
	c := make(Outline, len(o))
	copy(c, o)
	return c
}

func (o Outline) Valid(i int) bool {
	return i >= 0 && i < len(o)
}

// NextLabel hands out a fresh label by advancing the root counter.
func (o Outline) NextLabel() int {
	label := o[0].Label()
	o[0].SetLabel(label + 1)
	return label
}

// Relabel gives every cell of block a fresh label.
func (o Outline) Relabel(block []position.Cell) {
	for k := range block {
		block[k].SetLabel(o.NextLabel())
	}
}

// IndexOfLabel resolves an occurrence label, never matching the root counter.
func (o Outline) IndexOfLabel(label int) (int, bool) {
	for i := 1; i < len(o); i++ {
		if o[i].Label() == label {
			return i, true
		}
	}
	return 0, false
}

// SameShape compares content indices and levels while ignoring labels and flags.
func (o Outline) SameShape(other Outline) bool {
	if len(o) != len(other) {
		return false
	}
	for i := range o {
		if !o[i].SameShape(other[i]) {
			return false
		}
	}
	return true
}
