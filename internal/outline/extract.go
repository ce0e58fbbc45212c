package outline

import (
	"github.com/n2code/leocore/internal/node"
)

// Extract copies the subtree at i (which must not be the root) into a new tree whose
// single top-level node is the copied head. Only referenced records are copied.
func Extract(o Outline, t *node.Table, i int) (Outline, *node.Table) {
	table := node.NewTable()
	remap := map[int]int{0: 0}
	sub := New()
	shift := 1 - o[i].Level()
	for _, c := range o[i:o.SubtreeEnd(i)] {
		ignx, seen := remap[c.ContentIndex()]
		if !seen {
			ignx = table.Append(t.Record(c.ContentIndex()))
			remap[c.ContentIndex()] = ignx
		}
		cell := c.Shifted(shift)
		cell.SetContentIndex(ignx)
		cell.SetLabel(sub.NextLabel())
		sub = append(sub, cell)
	}
	return sub, table
}

// Part is one tree taking part in Combine.
type Part struct {
	Outline Outline
	Table   *node.Table
}

// Combine merges trees by content key. The first part supplies the resulting structure;
// later parts override record content and provide the subtrees of nodes they share with
// the first part (an external file grafting its children under the matching node).
func Combine(parts []Part) (Outline, *node.Table, error) {
	table := node.NewTable()
	if len(parts) == 0 {
		return New(), table, nil
	}
	latest := make(map[string]node.Record)
	for _, p := range parts {
		for i := 1; i < p.Table.Len(); i++ {
			r := p.Table.Record(i)
			latest[r.Key] = r
		}
	}
	intern := func(key string) int {
		if i, found := table.Find(key); found {
			return i
		}
		return table.Append(latest[key])
	}
	for i := 1; i < parts[0].Table.Len(); i++ {
		intern(parts[0].Table.Key(i))
	}

	staging := New()
	for k := len(parts) - 1; k > 0; k-- {
		if err := graft(&staging, parts[k], intern); err != nil {
			return nil, nil, err
		}
	}
	realStart := len(staging)
	if err := graft(&staging, parts[0], intern); err != nil {
		return nil, nil, err
	}
	combined := make(Outline, 0, 1+len(staging)-realStart)
	combined = append(combined, staging[0])
	combined = append(combined, staging[realStart:]...)
	return combined, table, nil
}

func graft(dst *Outline, p Part, intern func(key string) int) error {
	src := p.Outline
	for j := 1; j < len(src); {
		c := src[j]
		cloned, err := dst.AddNode(c.Level(), intern(p.Table.Key(c.ContentIndex())), c.IsExpanded())
		if err != nil {
			return err
		}
		if cloned {
			j = src.SubtreeEnd(j)
		} else {
			j++
		}
	}
	return nil
}
