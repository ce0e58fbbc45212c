package leocore

import (
	"fmt"
	"strings"

	"github.com/n2code/leocore/internal/atclean"
	"github.com/n2code/leocore/internal/outline"
)

func (t *tree) Len() int {
	return len(t.o)
}

func (t *tree) NodeAt(i int) (Node, error) {
	if err := t.valid(i); err != nil {
		return Node{}, err
	}
	c := t.o[i]
	r := t.table.Record(c.ContentIndex())
	return Node{
		Index:    i,
		Level:    c.Level(),
		Label:    c.Label(),
		Expanded: c.IsExpanded(),
		Cloned:   i > 0 && len(t.o.Occurrences(c.ContentIndex())) > 1,
		Key:      r.Key,
		Heading:  r.Heading,
		Body:     r.Body,
	}, nil
}

func (t *tree) Children(i int) ([]int, error) {
	if err := t.valid(i); err != nil {
		return nil, err
	}
	return t.o.ChildPositions(i), nil
}

func (t *tree) ParentIndex(i int) (int, error) {
	if err := t.visible(i); err != nil {
		return 0, err
	}
	return t.o.ParentIndex(i), nil
}

func (t *tree) ParentsIndexes(i int) ([]int, error) {
	if err := t.visible(i); err != nil {
		return nil, err
	}
	return t.o.ParentsIndexes(i), nil
}

func (t *tree) SubtreeSize(i int) (int, error) {
	if err := t.valid(i); err != nil {
		return 0, err
	}
	return t.o.SubtreeSize(i), nil
}

func (t *tree) KeyIndex() map[string]int {
	return t.table.KeyIndex()
}

func (t *tree) Find(key string) (int, bool) {
	ignx, found := t.table.Find(key)
	if !found {
		return 0, false
	}
	return t.o.Find(ignx)
}

func (t *tree) IndexOfLabel(label int) (int, bool) {
	return t.o.IndexOfLabel(label)
}

func (t *tree) Check() (found []*ValidationError) {
	if i, ok := t.o.CheckLevels(); !ok {
		found = append(found, &ValidationError{Kind: ErrLevelStep, Index: i})
		return //the remaining checks rely on sound levels
	}
	if i, ok := t.o.CheckLabels(); !ok {
		found = append(found, &ValidationError{Kind: ErrDuplicateLabel, Index: i})
	}
	if ignx, ok := t.o.CheckClones(); !ok {
		first, _ := t.o.Find(ignx)
		found = append(found, &ValidationError{Kind: ErrCloneMismatch, Index: first, Key: t.table.Key(ignx)})
	}
	if i, ok := t.o.CheckCycles(); !ok {
		found = append(found, &ValidationError{Kind: ErrCycle, Index: i, Key: t.table.Key(t.o[i].ContentIndex())})
	}
	return
}

func (t *tree) CleanText(i int, mode TraversalMode) (string, error) {
	if err := t.visible(i); err != nil {
		return "", err
	}
	return atclean.Text(t.o, t.table, i, mode), nil
}

func (t *tree) Extract(i int) (Tree, error) {
	if err := t.visible(i); err != nil {
		return nil, err
	}
	return makeTree(outline.Extract(t.o, t.table, i)), nil
}

func (t *tree) DebugString() string {
	var b strings.Builder
	for i := 1; i < len(t.o); i++ {
		c := t.o[i]
		state := '-'
		if c.IsExpanded() {
			state = '+'
		}
		fmt.Fprintf(&b, "%s%c %d:%d %s\n", strings.Repeat("  ", max(c.Level()-1, 0)), state, c.Label(), c.Level(), t.table.Heading(c.ContentIndex()))
	}
	return b.String()
}
