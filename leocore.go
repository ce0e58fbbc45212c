// Package leocore maintains clone-aware outlines: trees whose nodes may occur at several
// places at once, each occurrence showing the same subtree. Outlines are read from
// sentinel-carrying external files, clean files or the XML outline format, restructured
// with undoable operations and written back.
package leocore

import (
	"fmt"
	"io"

	"github.com/n2code/leocore/internal/atclean"
	"github.com/n2code/leocore/internal/leoxml"
	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/outline"
)

type tree struct {
	o     outline.Outline
	table *node.Table
}

func makeTree(o outline.Outline, table *node.Table) *tree {
	return &tree{o: o, table: table}
}

// ParseXML reads an outline stored in the XML outline format.
func ParseXML(r io.Reader) (Tree, error) {
	o, table, err := leoxml.Parse(r)
	if err != nil {
		return nil, newCommandError("XML outline not readable", err)
	}
	return makeTree(o, table), nil
}

// ParseClean holds the text of a sentinel-free file in a single node below the root.
func ParseClean(heading string, text string) Tree {
	return makeTree(atclean.ParseClean(heading, text))
}

// Combine merges trees by content key. The first tree supplies the structure, later trees
// supply content and the children of nodes they share with the first.
func Combine(trees ...Tree) (Tree, error) {
	parts := make([]outline.Part, 0, len(trees))
	for k, t := range trees {
		concrete, ok := t.(*tree)
		if !ok {
			return nil, newCommandError(fmt.Sprintf("tree %d cannot be combined", k), ErrForeignTree)
		}
		parts = append(parts, outline.Part{Outline: concrete.o, Table: concrete.table})
	}
	o, table, err := outline.Combine(parts)
	if err != nil {
		return nil, newCommandError("combine failed", err)
	}
	return makeTree(o, table), nil
}

// ParseTraversalMode accepts the names printed by TraversalMode.String.
func ParseTraversalMode(name string) (TraversalMode, error) {
	for _, mode := range []TraversalMode{TraverseAll, SkipSections, SkipSectionsAndOthers} {
		if mode.String() == name {
			return mode, nil
		}
	}
	return TraverseAll, fmt.Errorf("unknown traversal mode %q", name)
}

func (t *tree) valid(i int) error {
	if i < 0 || i >= len(t.o) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(t.o))
	}
	return nil
}

func (t *tree) visible(i int) error {
	if i == 0 {
		return fmt.Errorf("%w: the hidden root has no such property", ErrIndexOutOfRange)
	}
	return t.valid(i)
}
