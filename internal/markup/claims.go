package markup

import (
	"strings"

	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/outline"
)

// Claims lists the descendants of i that an @others line in i's body expands to, in
// outline order. Section definitions are left out together with their subtrees. A
// descendant whose own body has @others claims everything below it, so its subtree is
// skipped here; the descendants of any other node are claimed alongside it.
func Claims(o outline.Outline, t *node.Table, i int) (claimed []int) {
	skipBelow := -1
	for j, end := i+1, o.SubtreeEnd(i); j < end; j++ {
		level := o[j].Level()
		if skipBelow >= 0 {
			if level > skipBelow {
				continue
			}
			skipBelow = -1
		}
		ignx := o[j].ContentIndex()
		if _, isSection := SectionName(t.Heading(ignx)); isSection {
			skipBelow = level
			continue
		}
		claimed = append(claimed, j)
		if HasOthers(t.Body(ignx)) {
			skipBelow = level
		}
	}
	return
}

// FindSection returns the first index within [from,to) whose heading is exactly name.
func FindSection(o outline.Outline, t *node.Table, name string, from int, to int) (int, bool) {
	if to > len(o) {
		to = len(o)
	}
	for j := from; j < to; j++ {
		if strings.TrimSpace(t.Heading(o[j].ContentIndex())) == name {
			return j, true
		}
	}
	return 0, false
}
