// Package changelog encodes outline edits as replayable text tokens.
//
// A token reads <opcode>:<field>,(<offset>,...),(<cell>,...) with numbers written in the
// position numeral alphabet. Opcodes:
//
//   ip  insert a block at each offset; field is the block size, cells are the inserted blocks
//   db  delete a block at each offset; field is the block size, cells are the removed blocks
//   sb  shift the levels of a block at each offset; field is <+|-><delta>.<size>, no cells
//   sn  replace a block at each offset; field is the block size, cells are all old blocks
//       followed by all new blocks
//   ex  expand the cell at each offset; field is 1, no cells
//   co  collapse the cell at each offset; field is 1, no cells
//
// Offsets of ip refer to the outline before insertion, all others to the outline the edit
// applies to. Compound edits join tokens with newlines.
package changelog

import (
	"github.com/n2code/leocore/internal/position"
)

type Kind string

const (
	InsertBlocks  Kind = "ip"
	DeleteBlocks  Kind = "db"
	ShiftBlocks   Kind = "sb"
	ReplaceBlocks Kind = "sn"
	Expand        Kind = "ex"
	Collapse      Kind = "co"
)

// Edit is one decoded token.
type Edit struct {
	Kind    Kind
	Size    int //cells per block
	Delta   int //level change, shift only
	Offsets []int
	Cells   []position.Cell
}

func Insert(offsets []int, blocks []position.Cell) Edit {
	return Edit{Kind: InsertBlocks, Size: len(blocks) / len(offsets), Offsets: offsets, Cells: blocks}
}

func Delete(offsets []int, size int, removed []position.Cell) Edit {
	return Edit{Kind: DeleteBlocks, Size: size, Offsets: offsets, Cells: removed}
}

func Shift(offsets []int, size int, delta int) Edit {
	return Edit{Kind: ShiftBlocks, Size: size, Delta: delta, Offsets: offsets}
}

// Replace expects all old blocks followed by all new blocks.
func Replace(offsets []int, size int, oldThenNew []position.Cell) Edit {
	return Edit{Kind: ReplaceBlocks, Size: size, Offsets: offsets, Cells: oldThenNew}
}

func Flag(kind Kind, index int) Edit {
	return Edit{Kind: kind, Size: 1, Offsets: []int{index}}
}

// Invert returns the edit that undoes e.
func (e Edit) Invert() Edit {
	switch e.Kind {
	case InsertBlocks:
		offsets := make([]int, len(e.Offsets))
		for k, off := range e.Offsets {
			offsets[k] = off + k*e.Size
		}
		return Delete(offsets, e.Size, e.Cells)
	case DeleteBlocks:
		offsets := make([]int, len(e.Offsets))
		for k, off := range e.Offsets {
			offsets[k] = off - k*e.Size
		}
		return Edit{Kind: InsertBlocks, Size: e.Size, Offsets: offsets, Cells: e.Cells}
	case ShiftBlocks:
		return Shift(e.Offsets, e.Size, -e.Delta)
	case ReplaceBlocks:
		half := len(e.Cells) / 2
		swapped := make([]position.Cell, 0, len(e.Cells))
		swapped = append(swapped, e.Cells[half:]...)
		swapped = append(swapped, e.Cells[:half]...)
		return Replace(e.Offsets, e.Size, swapped)
	case Expand:
		return Edit{Kind: Collapse, Size: e.Size, Offsets: e.Offsets}
	case Collapse:
		return Edit{Kind: Expand, Size: e.Size, Offsets: e.Offsets}
	}
	return e
}
