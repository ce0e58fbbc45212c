package outline

import "github.com/n2code/leocore/internal/position"

// Find returns the first occurrence of a content index.
func (o Outline) Find(contentIndex int) (int, bool) {
	for i, c := range o {
		if c.ContentIndex() == contentIndex {
			return i, true
		}
	}
	return 0, false
}

// Occurrences lists every index whose cell carries the content index, ascending.
func (o Outline) Occurrences(contentIndex int) (indexes []int) {
	for i, c := range o {
		if c.ContentIndex() == contentIndex {
			indexes = append(indexes, i)
		}
	}
	return
}

// Subtree copies the first occurrence of contentIndex and its descendants,
// shifted so that the copied head sits at level 0. The copy is empty if absent.
func (o Outline) Subtree(contentIndex int) Outline {
	i, found := o.Find(contentIndex)
	if !found {
		return Outline{}
	}
	end := o.SubtreeEnd(i)
	shift := -o[i].Level()
	sub := make(Outline, 0, end-i)
	for _, c := range o[i:end] {
		sub = append(sub, c.Shifted(shift))
	}
	return sub
}

// ParentIndex returns the nearest preceding index one level up, 0 for top-level nodes and the root.
func (o Outline) ParentIndex(i int) int {
	level := o[i].Level()
	if level < 2 {
		return 0
	}
	for j := i - 1; j > 0; j-- {
		if o[j].Level() == level-1 {
			return j
		}
	}
	return 0
}

// SubtreeSize counts the cell itself plus the contiguous deeper cells following it.
func (o Outline) SubtreeSize(i int) int {
	return o.SubtreeEnd(i) - i
}

// SubtreeEnd is the index just past the subtree rooted at i.
func (o Outline) SubtreeEnd(i int) int {
	level := o[i].Level()
	j := i + 1
	for j < len(o) && o[j].Level() > level {
		j++
	}
	return j
}

// ChildIndex is the ordinal of i among its siblings.
func (o Outline) ChildIndex(i int) int {
	if i == 0 {
		return 0
	}
	level := o[i].Level()
	ordinal := 0
	for j := o.ParentIndex(i) + 1; j < i; j++ {
		if o[j].Level() == level {
			ordinal++
		}
	}
	return ordinal
}

// ChildPositions lists the indexes of the direct children of i.
func (o Outline) ChildPositions(i int) (indexes []int) {
	level := o[i].Level()
	for j := i + 1; j < len(o) && o[j].Level() > level; j++ {
		if o[j].Level() == level+1 {
			indexes = append(indexes, j)
		}
	}
	return
}

// Children lists the content indices of the direct children of i.
func (o Outline) Children(i int) []int {
	positions := o.ChildPositions(i)
	children := make([]int, len(positions))
	for k, j := range positions {
		children[k] = o[j].ContentIndex()
	}
	return children
}

// ParentsIndexes returns, for every occurrence of the content at i, the index of that occurrence's parent.
func (o Outline) ParentsIndexes(i int) []int {
	occurrences := o.Occurrences(o[i].ContentIndex())
	parents := make([]int, len(occurrences))
	for k, j := range occurrences {
		parents[k] = o.ParentIndex(j)
	}
	return parents
}

// ElderSibling finds the closest preceding sibling.
func (o Outline) ElderSibling(i int) (int, bool) {
	level := o[i].Level()
	for j := i - 1; j > 0; j-- {
		switch l := o[j].Level(); {
		case l == level:
			return j, true
		case l < level:
			return 0, false
		}
	}
	return 0, false
}

// YoungerSibling finds the sibling directly following the subtree at i.
func (o Outline) YoungerSibling(i int) (int, bool) {
	j := o.SubtreeEnd(i)
	if j < len(o) && o[j].Level() == o[i].Level() {
		return j, true
	}
	return 0, false
}

// Contains reports whether a content index appears within [from,to).
func (o Outline) Contains(from int, to int, contentIndex int) bool {
	for _, c := range o[from:to] {
		if c.ContentIndex() == contentIndex {
			return true
		}
	}
	return false
}

// Ancestors lists the indexes of all ancestors of i, nearest first, ending with the root.
func (o Outline) Ancestors(i int) (indexes []int) {
	for i > 0 {
		i = o.ParentIndex(i)
		indexes = append(indexes, i)
	}
	return
}

// VisibleBefore returns the row shown directly above i when collapsed nodes hide their descendants.
func (o Outline) VisibleBefore(i int) int {
	v := i - 1
	for _, a := range o.Ancestors(v) {
		if a > 0 && !o[a].IsExpanded() {
			v = a
		}
	}
	return v
}

// Block returns a copy of the cells in [from,to).
func (o Outline) Block(from int, to int) []position.Cell {
	block := make([]position.Cell, to-from)
	copy(block, o[from:to])
	return block
}
