package changelog

import (
	"errors"
	"fmt"

	"github.com/n2code/leocore/internal/outline"
	"github.com/n2code/leocore/internal/position"
)

var ErrMismatch = errors.New("edit does not match the outline")

// Apply performs one edit. On error the outline may be partially changed, which is why
// Redo and Undo stage their work on a copy.
func Apply(o *outline.Outline, e Edit) error {
	switch e.Kind {
	case InsertBlocks:
		return o.InsertBlocks(e.Offsets, e.Cells)
	case DeleteBlocks:
		removed, err := o.DeleteBlocks(e.Offsets, e.Size)
		if err != nil {
			return err
		}
		return expectShape(removed, e.Cells)
	case ShiftBlocks:
		return o.ShiftBlocks(e.Offsets, e.Size, e.Delta)
	case ReplaceBlocks:
		half := len(e.Cells) / 2
		previous, err := o.ReplaceBlocks(e.Offsets, e.Cells[half:])
		if err != nil {
			return err
		}
		return expectShape(previous, e.Cells[:half])
	case Expand, Collapse:
		i := e.Offsets[0]
		if i < 1 || i >= len(*o) {
			return fmt.Errorf("%w: no cell at %d", ErrMismatch, i)
		}
		if e.Kind == Expand {
			(*o)[i].Expand()
		} else {
			(*o)[i].Collapse()
		}
		return nil
	}
	return fmt.Errorf("%w: unknown kind %q", ErrMismatch, e.Kind)
}

func expectShape(actual []position.Cell, expected []position.Cell) error {
	for k := range expected {
		if !actual[k].SameShape(expected[k]) {
			return fmt.Errorf("%w: found %s where %s was recorded", ErrMismatch, actual[k], expected[k])
		}
	}
	return nil
}

// Redo replays a compound edit in order. The outline is only changed if every edit applies.
func Redo(o *outline.Outline, text string) error {
	edits, err := Split(text)
	if err != nil {
		return err
	}
	staged := o.Clone()
	for k, e := range edits {
		if err := Apply(&staged, e); err != nil {
			return fmt.Errorf("redo of token %d (%s): %w", k, e, err)
		}
	}
	*o = staged
	return nil
}

// Undo replays the inverse of a compound edit in reverse order, all or nothing.
func Undo(o *outline.Outline, text string) error {
	edits, err := Split(text)
	if err != nil {
		return err
	}
	staged := o.Clone()
	for k := len(edits) - 1; k >= 0; k-- {
		if err := Apply(&staged, edits[k].Invert()); err != nil {
			return fmt.Errorf("undo of token %d (%s): %w", k, edits[k], err)
		}
	}
	*o = staged
	return nil
}
