package outline

import (
	"errors"
	"fmt"

	"github.com/n2code/leocore/internal/position"
)

// Block-set primitives. They refuse to touch the hidden root at index 0 and validate
// every offset before changing anything.

var ErrBadBlockSet = errors.New("invalid block set")

func badBlocks(format string, values ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrBadBlockSet, fmt.Sprintf(format, values...))
}

// InsertBlocks inserts len(data)/len(offsets) cells at each offset. Offsets refer to the
// outline before insertion and must be ascending, so block k ends up at offsets[k]+k*size.
func (o *Outline) InsertBlocks(offsets []int, data []position.Cell) error {
	if len(offsets) == 0 || len(data)%len(offsets) != 0 {
		return badBlocks("%d cells cannot be split over %d offsets", len(data), len(offsets))
	}
	size := len(data) / len(offsets)
	for k, off := range offsets {
		if off < 1 || off > len(*o) {
			return badBlocks("insert offset %d outside [1,%d]", off, len(*o))
		}
		if k > 0 && off < offsets[k-1] {
			return badBlocks("insert offsets not ascending at %d", off)
		}
	}
	grown := make(Outline, 0, len(*o)+len(data))
	from := 0
	for k, off := range offsets {
		grown = append(grown, (*o)[from:off]...)
		grown = append(grown, data[k*size:(k+1)*size]...)
		from = off
	}
	grown = append(grown, (*o)[from:]...)
	*o = grown
	return nil
}

// DeleteBlocks removes size cells at each offset and returns the removed cells in order.
// Offsets refer to the outline before deletion and blocks must not overlap.
func (o *Outline) DeleteBlocks(offsets []int, size int) ([]position.Cell, error) {
	if err := o.checkFixedBlocks(offsets, size); err != nil {
		return nil, err
	}
	removed := make([]position.Cell, 0, len(offsets)*size)
	shrunk := make(Outline, 0, len(*o)-len(offsets)*size)
	from := 0
	for _, off := range offsets {
		shrunk = append(shrunk, (*o)[from:off]...)
		removed = append(removed, (*o)[off:off+size]...)
		from = off + size
	}
	shrunk = append(shrunk, (*o)[from:]...)
	*o = shrunk
	return removed, nil
}

// ShiftBlocks adds delta to the level of every cell in each block.
func (o Outline) ShiftBlocks(offsets []int, size int, delta int) error {
	if err := o.checkFixedBlocks(offsets, size); err != nil {
		return err
	}
	for _, off := range offsets {
		for j := off; j < off+size; j++ {
			if l := o[j].Level() + delta; l < 1 || l > position.MaxLevel {
				return badBlocks("shift by %d moves cell %d to level %d", delta, j, l)
			}
		}
	}
	for _, off := range offsets {
		for j := off; j < off+size; j++ {
			o[j].Shift(delta)
		}
	}
	return nil
}

// ReplaceBlocks overwrites the block at each offset with the matching slice of cells and
// returns the previous cells.
func (o Outline) ReplaceBlocks(offsets []int, cells []position.Cell) ([]position.Cell, error) {
	if len(offsets) == 0 || len(cells)%len(offsets) != 0 {
		return nil, badBlocks("%d cells cannot be split over %d offsets", len(cells), len(offsets))
	}
	size := len(cells) / len(offsets)
	if err := o.checkFixedBlocks(offsets, size); err != nil {
		return nil, err
	}
	previous := make([]position.Cell, 0, len(cells))
	for k, off := range offsets {
		previous = append(previous, o[off:off+size]...)
		copy(o[off:off+size], cells[k*size:(k+1)*size])
	}
	return previous, nil
}

func (o Outline) checkFixedBlocks(offsets []int, size int) error {
	if len(offsets) == 0 {
		return badBlocks("no offsets")
	}
	if size < 1 {
		return badBlocks("block size %d", size)
	}
	for k, off := range offsets {
		if off < 1 || off+size > len(o) {
			return badBlocks("block [%d,%d) outside [1,%d)", off, off+size, len(o))
		}
		if k > 0 && off < offsets[k-1]+size {
			return badBlocks("block at %d overlaps its predecessor", off)
		}
	}
	return nil
}
