package mutate

import (
	"github.com/n2code/leocore/internal/changelog"
	"github.com/n2code/leocore/internal/outline"
)

// Every operation returns the change log token of its effect and whether anything changed.
// A rejected operation leaves the outline untouched.

// MoveRight makes the node at i the last child of its elder sibling.
func MoveRight(o *outline.Outline, i int) (string, bool) {
	w := *o
	if i < 1 || i >= len(w) {
		return none, false
	}
	s, found := w.ElderSibling(i)
	if !found {
		return none, false
	}
	p := w.ParentIndex(i)
	return reparent(o, i, s, -1, shiftFast(p, i, w.SubtreeSize(i), +1))
}

// MoveLeft makes the node at i the next sibling of its parent.
func MoveLeft(o *outline.Outline, i int) (string, bool) {
	w := *o
	if i < 1 || i >= len(w) || w[i].Level() < 2 {
		return none, false
	}
	p := w.ParentIndex(i)
	g := w.ParentIndex(p)
	size := w.SubtreeSize(i)
	var fast fastPath
	if parentEnd := w.SubtreeEnd(p); w.SubtreeEnd(i) == parentEnd {
		fast = shiftFast(g, i, size, -1)
	} else {
		fast = rotateFast(g, i, parentEnd-i, size, -1, 0)
	}
	return reparent(o, i, g, w.ChildIndex(p)+1, fast)
}

// MoveUp moves the node at i above the row visible directly above it.
func MoveUp(o *outline.Outline, i int) (string, bool) {
	w := *o
	if i < 2 || i >= len(w) {
		return none, false
	}
	level := w[i].Level()
	p := w.ParentIndex(i)
	size := w.SubtreeSize(i)
	v := w.VisibleBefore(i)

	switch above := w[v].Level(); {
	case v == p:
		g := w.ParentIndex(p)
		var fast fastPath
		if i == p+1 {
			fast = rotateFast(g, p, 1+size, 1, 0, -1)
		}
		return reparent(o, i, g, w.ChildIndex(p), fast)
	case above == level:
		s, found := w.ElderSibling(i)
		if !found {
			return none, false
		}
		k := w.ChildIndex(i)
		changes := restructure{w[p].ContentIndex(): swapped(w.Children(p), k-1, k)}
		return commit(o, changes, rotateFast(p, s, w.SubtreeEnd(i)-s, i-s, 0, 0))
	case above > level:
		target := w.ParentIndex(v)
		return reparent(o, i, target, -1, shiftFast(p, i, size, above-level))
	}
	return none, false
}

// MoveDown moves the node at i below its younger sibling, into it when that sibling shows children.
// Without a younger sibling the node is moved right instead.
func MoveDown(o *outline.Outline, i int) (string, bool) {
	w := *o
	if i < 1 || i >= len(w)-1 {
		return none, false
	}
	n, found := w.YoungerSibling(i)
	if !found {
		return MoveRight(o, i)
	}
	p := w.ParentIndex(i)
	size := w.SubtreeSize(i)
	if w[n].IsExpanded() && n+1 < len(w) && w[n+1].Level() == w[n].Level()+1 {
		return reparent(o, i, n, 0, rotateFast(p, i, size+1, size, +1, 0))
	}
	k := w.ChildIndex(i)
	changes := restructure{w[p].ContentIndex(): swapped(w.Children(p), k, k+1)}
	return commit(o, changes, rotateFast(p, i, size+w.SubtreeSize(n), size, 0, 0))
}

// reparent detaches the node at i from its parent and inserts it as child of target at
// the ordinal, appending for a negative ordinal.
func reparent(o *outline.Outline, i int, target int, ordinal int, fast fastPath) (string, bool) {
	w := *o
	moved := w[i].ContentIndex()
	destination := w[target].ContentIndex()
	if w.Contains(i, w.SubtreeEnd(i), destination) {
		return none, false
	}
	p := w.ParentIndex(i)
	source := w[p].ContentIndex()

	changes := restructure{source: without(w.Children(p), w.ChildIndex(i))}
	children, ok := changes[destination]
	if !ok {
		children = w.Children(target)
	}
	changes[destination] = with(children, ordinal, moved)
	return commit(o, changes, fast)
}

// CreateLink inserts a clone of child as the ordinal-th child of parent everywhere parent occurs.
func CreateLink(o *outline.Outline, parent int, ordinal int, child int) (string, bool) {
	w := *o
	if child <= 0 || parent == child {
		return none, false
	}
	at, found := w.Find(parent)
	if !found {
		return none, false
	}
	c, found := w.Find(child)
	if !found || w.Contains(c, w.SubtreeEnd(c), parent) {
		return none, false
	}
	children := w.Children(at)
	if ordinal < 0 || ordinal > len(children) {
		return none, false
	}
	changes := restructure{parent: with(children, ordinal, child)}
	return commit(o, changes, linkFast(parent, ordinal, child))
}

// BreakLink removes the ordinal-th child of parent everywhere parent occurs.
func BreakLink(o *outline.Outline, parent int, ordinal int) (string, bool) {
	w := *o
	at, found := w.Find(parent)
	if !found {
		return none, false
	}
	children := w.Children(at)
	if ordinal < 0 || ordinal >= len(children) {
		return none, false
	}
	changes := restructure{parent: without(children, ordinal)}
	return commit(o, changes, unlinkFast(parent, ordinal))
}

// Expand sets the expanded flag of the cell at i.
func Expand(o *outline.Outline, i int) (string, bool) {
	return flag(o, i, changelog.Expand)
}

// Collapse clears the expanded flag of the cell at i.
func Collapse(o *outline.Outline, i int) (string, bool) {
	return flag(o, i, changelog.Collapse)
}

func flag(o *outline.Outline, i int, kind changelog.Kind) (string, bool) {
	w := *o
	if i < 1 || i >= len(w) || w[i].IsExpanded() == (kind == changelog.Expand) {
		return none, false
	}
	e := changelog.Flag(kind, i)
	if err := changelog.Apply(o, e); err != nil {
		return none, false
	}
	return e.String(), true
}
