// Package mutate edits outlines structurally while keeping every clone identical.
//
// Each operation describes its effect as new child lists for the content indices it
// touches. The general path rebuilds the children of every outermost occurrence of those
// indices. A fast path (a pure shift or an in-place rearrangement that keeps labels) is
// taken instead whenever it yields exactly the same shape.
package mutate

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/n2code/leocore/internal/changelog"
	"github.com/n2code/leocore/internal/outline"
	"github.com/n2code/leocore/internal/position"
)

var errInconsistentClones = errors.New("occurrences of the same content differ")

// restructure maps content indices to their new ordered child lists.
type restructure map[int][]int

// fastPath edits the work copy directly and reports the edits it applied.
type fastPath func(work *outline.Outline) ([]changelog.Edit, error)

const none = ""

// commit applies the restructuring all or nothing and returns the change log token.
func commit(o *outline.Outline, changes restructure, fast fastPath) (string, bool) {
	general, target, err := rebuild(*o, changes)
	if err != nil {
		return none, false
	}
	if fast != nil {
		work := o.Clone()
		if edits, err := fast(&work); err == nil && len(edits) > 0 && work.SameShape(target) {
			*o = work
			return changelog.Join(edits), true
		}
	}
	if len(general) == 0 {
		return none, false
	}
	*o = target
	return changelog.Join(general), true
}

type site struct {
	at   int
	ignx int
}

// rebuild regenerates the children of every outermost occurrence of a changed content index.
func rebuild(o outline.Outline, changes restructure) ([]changelog.Edit, outline.Outline, error) {
	lists := childLists(o)
	for ignx, children := range changes {
		lists[ignx] = children
	}
	expanded := expansionFlags(o)

	var sites []site
	var groups []int
	grouped := make(map[int]bool)
	for i, end := 0, 0; i < len(o); i++ {
		if i < end {
			continue
		}
		ignx := o[i].ContentIndex()
		if _, changed := changes[ignx]; changed {
			sites = append(sites, site{at: i, ignx: ignx})
			end = o.SubtreeEnd(i)
			if !grouped[ignx] {
				grouped[ignx] = true
				groups = append(groups, ignx)
			}
		}
	}

	work := o.Clone()
	var edits []changelog.Edit
	for _, g := range groups {
		var offsets []int
		var blocks []position.Cell
		oldSize := -1
		for _, s := range sites {
			if s.ignx != g {
				continue
			}
			size := work.SubtreeSize(s.at) - 1
			if oldSize >= 0 && size != oldSize {
				return nil, nil, errInconsistentClones
			}
			oldSize = size
			flags := expansion{byContent: expanded, local: occurrenceFlags(work, s.at)}
			children, err := expand(g, work[s.at].Level(), lists, flags, strconv.Itoa(g), nil)
			if err != nil {
				return nil, nil, err
			}
			offsets = append(offsets, s.at+1)
			blocks = append(blocks, children...)
		}
		newSize := len(blocks) / len(offsets)

		if oldSize > 0 {
			removed, err := work.DeleteBlocks(offsets, oldSize)
			if err != nil {
				return nil, nil, err
			}
			edits = append(edits, changelog.Delete(offsets, oldSize, removed))
		}
		if newSize > 0 {
			at := make([]int, len(offsets))
			for k, off := range offsets {
				at[k] = off - k*oldSize
			}
			work.Relabel(blocks)
			if err := work.InsertBlocks(at, blocks); err != nil {
				return nil, nil, err
			}
			edits = append(edits, changelog.Insert(at, blocks))
		}

		growth := newSize - oldSize
		for k := range sites {
			if sites[k].ignx == g {
				continue
			}
			before := 0
			for _, s := range sites {
				if s.ignx == g && s.at < sites[k].at {
					before++
				}
			}
			sites[k].at += before * growth
		}
		for k := range sites {
			if sites[k].ignx == g {
				sites[k].at = -1 //done
			}
		}
	}
	return edits, work, nil
}

// expansion resolves the expanded flag of a rebuilt cell. A path that already existed
// below the rebuilt occurrence keeps its own flag, anything else gets the flag of the
// first occurrence of its content.
type expansion struct {
	byContent map[int]bool
	local     map[string]bool
}

func (e expansion) of(key string, ignx int) bool {
	if expanded, found := e.local[key]; found {
		return expanded
	}
	return e.byContent[ignx]
}

func pathKey(prefix string, ignx int) string {
	return prefix + "." + strconv.Itoa(ignx)
}

// occurrenceFlags records the expanded flag of every descendant of the occurrence at,
// keyed by the content indices leading to it. Repeated siblings keep the first flag.
func occurrenceFlags(o outline.Outline, at int) map[string]bool {
	flags := make(map[string]bool)
	base := o[at].Level()
	prefixes := []string{strconv.Itoa(o[at].ContentIndex())}
	for i, end := at+1, o.SubtreeEnd(at); i < end; i++ {
		depth := o[i].Level() - base
		if depth < 1 || depth > len(prefixes) {
			break
		}
		key := pathKey(prefixes[depth-1], o[i].ContentIndex())
		prefixes = append(prefixes[:depth], key)
		if _, seen := flags[key]; !seen {
			flags[key] = o[i].IsExpanded()
		}
	}
	return flags
}

// expand renders the descendants of ignx as seen below a head at the given level.
func expand(ignx int, level int, lists map[int][]int, flags expansion, prefix string, path []int) ([]position.Cell, error) {
	for _, ancestor := range path {
		if ancestor == ignx {
			return nil, fmt.Errorf("content %d would contain itself", ignx)
		}
	}
	if level+1 > position.MaxLevel {
		return nil, fmt.Errorf("content %d nests deeper than %d", ignx, position.MaxLevel)
	}
	path = append(path, ignx)
	var cells []position.Cell
	for _, child := range lists[ignx] {
		key := pathKey(prefix, child)
		c := position.Make(level+1, child, 0)
		if flags.of(key, child) {
			c.Expand()
		}
		cells = append(cells, c)
		below, err := expand(child, level+1, lists, flags, key, path)
		if err != nil {
			return nil, err
		}
		cells = append(cells, below...)
	}
	return cells, nil
}

func childLists(o outline.Outline) map[int][]int {
	lists := make(map[int][]int)
	for i, c := range o {
		if _, seen := lists[c.ContentIndex()]; !seen {
			lists[c.ContentIndex()] = o.Children(i)
		}
	}
	return lists
}

func expansionFlags(o outline.Outline) map[int]bool {
	flags := make(map[int]bool)
	for _, c := range o {
		if _, seen := flags[c.ContentIndex()]; !seen {
			flags[c.ContentIndex()] = c.IsExpanded()
		}
	}
	return flags
}

// slots maps the offset of i inside the occurrence p to the same offset inside every
// occurrence of p's content.
func slots(o outline.Outline, p int, i int) []int {
	occurrences := o.Occurrences(o[p].ContentIndex())
	offsets := make([]int, len(occurrences))
	for k, q := range occurrences {
		offsets[k] = q + (i - p)
	}
	return offsets
}

// shiftFast shifts the block of i, as found in every occurrence of its parent p.
func shiftFast(p int, i int, size int, delta int) fastPath {
	return func(work *outline.Outline) ([]changelog.Edit, error) {
		offsets := slots(*work, p, i)
		if err := work.ShiftBlocks(offsets, size, delta); err != nil {
			return nil, err
		}
		return []changelog.Edit{changelog.Shift(offsets, size, delta)}, nil
	}
}

// rotateFast turns the block [from,from+size) of every occurrence of p into its tail
// (starting at split) shifted by tailDelta followed by its head shifted by headDelta.
func rotateFast(p int, from int, size int, split int, headDelta int, tailDelta int) fastPath {
	return func(work *outline.Outline) ([]changelog.Edit, error) {
		offsets := slots(*work, p, from)
		var old, replacement []position.Cell
		for _, off := range offsets {
			if off+size > len(*work) {
				return nil, errors.New("rotation exceeds outline")
			}
			block := work.Block(off, off+size)
			old = append(old, block...)
			for _, c := range block[split:] {
				replacement = append(replacement, c.Shifted(tailDelta))
			}
			for _, c := range block[:split] {
				replacement = append(replacement, c.Shifted(headDelta))
			}
		}
		if _, err := work.ReplaceBlocks(offsets, replacement); err != nil {
			return nil, err
		}
		return []changelog.Edit{changelog.Replace(offsets, size, append(old, replacement...))}, nil
	}
}

// linkFast inserts a fresh copy of child's subtree at the ordinal under every occurrence of parent.
func linkFast(parent int, ordinal int, child int) fastPath {
	return func(work *outline.Outline) ([]changelog.Edit, error) {
		template := work.Subtree(child)
		var offsets []int
		var blocks []position.Cell
		for _, q := range work.Occurrences(parent) {
			at := work.SubtreeEnd(q)
			if siblings := work.ChildPositions(q); ordinal < len(siblings) {
				at = siblings[ordinal]
			}
			offsets = append(offsets, at)
			for _, c := range template {
				blocks = append(blocks, c.Shifted((*work)[q].Level()+1))
			}
		}
		work.Relabel(blocks)
		if err := work.InsertBlocks(offsets, blocks); err != nil {
			return nil, err
		}
		return []changelog.Edit{changelog.Insert(offsets, blocks)}, nil
	}
}

// unlinkFast removes the child at the ordinal under every occurrence of parent.
func unlinkFast(parent int, ordinal int) fastPath {
	return func(work *outline.Outline) ([]changelog.Edit, error) {
		var offsets []int
		size := -1
		for _, q := range work.Occurrences(parent) {
			siblings := work.ChildPositions(q)
			if ordinal >= len(siblings) {
				return nil, errInconsistentClones
			}
			at := siblings[ordinal]
			if s := work.SubtreeSize(at); size >= 0 && s != size {
				return nil, errInconsistentClones
			} else {
				size = s
			}
			offsets = append(offsets, at)
		}
		removed, err := work.DeleteBlocks(offsets, size)
		if err != nil {
			return nil, err
		}
		return []changelog.Edit{changelog.Delete(offsets, size, removed)}, nil
	}
}

func without(list []int, k int) []int {
	result := make([]int, 0, len(list)-1)
	result = append(result, list[:k]...)
	return append(result, list[k+1:]...)
}

func with(list []int, k int, value int) []int {
	if k < 0 || k > len(list) {
		k = len(list)
	}
	result := make([]int, 0, len(list)+1)
	result = append(result, list[:k]...)
	result = append(result, value)
	return append(result, list[k:]...)
}

func swapped(list []int, a int, b int) []int {
	result := make([]int, len(list))
	copy(result, list)
	result[a], result[b] = result[b], result[a]
	return result
}
