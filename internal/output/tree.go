package output

import (
	"github.com/disiqueira/gotree/v3"
)

// VisualOutline renders nodes given in depth-first order with their levels.
type VisualOutline struct {
	tree    gotree.Tree
	parents []gotree.Tree //parents[k] receives the nodes of level k+1
}

func NewVisualOutline(rootLabel string) *VisualOutline {
	root := gotree.New(rootLabel)
	return &VisualOutline{tree: root, parents: []gotree.Tree{root}}
}

// Insert adds a node below the latest node of the previous level. Levels deeper than
// one below the latest node are attached to the latest node.
func (v *VisualOutline) Insert(level int, nodePrefix string, heading string) {
	if level < 1 {
		level = 1
	}
	if level > len(v.parents) {
		level = len(v.parents)
	}
	v.parents = v.parents[:level]
	added := v.parents[level-1].Add(nodePrefix + heading)
	v.parents = append(v.parents, added)
}

func (v *VisualOutline) Render() string {
	return v.tree.Print()
}
