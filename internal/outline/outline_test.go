package outline

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/position"
)

// build creates an outline from (level, content index) pairs following the root, labelled in order.
func build(pairs ...int) Outline {
	o := New()
	for k := 0; k < len(pairs); k += 2 {
		o = append(o, position.Make(pairs[k], pairs[k+1], o.NextLabel()))
	}
	return o
}

func shape(o Outline) (levels []int, indexes []int) {
	for _, c := range o {
		levels = append(levels, c.Level())
		indexes = append(indexes, c.ContentIndex())
	}
	return
}

func numberedTable(count int) *node.Table {
	table := node.NewTable()
	for i := 1; i <= count; i++ {
		r := node.NewRecord(fmt.Sprintf("k%d", i), fmt.Sprintf("H%d", i))
		table.Append(r)
	}
	return table
}

//  1 A          5 E
//    2 B          6 B (clone)
//      3 C          7 C
//    4 D
func sample() Outline {
	return build(1, 1, 2, 2, 3, 3, 2, 4, 1, 5, 2, 2, 3, 3)
}

func TestReadAlgorithms(t *testing.T) {
	o := sample()

	expectInts := func(what string, actual []int, expected []int) {
		t.Helper()
		if !reflect.DeepEqual(actual, expected) {
			t.Errorf("%s: expected %v, got %v", what, expected, actual)
		}
	}

	var parents, sizes, ordinals []int
	for i := range o {
		parents = append(parents, o.ParentIndex(i))
		sizes = append(sizes, o.SubtreeSize(i))
		ordinals = append(ordinals, o.ChildIndex(i))
	}
	expectInts("parents", parents, []int{0, 0, 1, 2, 1, 0, 5, 6})
	expectInts("sizes", sizes, []int{8, 4, 2, 1, 1, 3, 2, 1})
	expectInts("ordinals", ordinals, []int{0, 0, 0, 0, 1, 1, 0, 0})

	expectInts("children of root", o.Children(0), []int{1, 5})
	expectInts("children of A", o.Children(1), []int{2, 4})
	expectInts("children of E", o.Children(5), []int{2})
	expectInts("child positions of A", o.ChildPositions(1), []int{2, 4})
	expectInts("parents of B occurrences", o.ParentsIndexes(6), []int{1, 5})
	expectInts("parents of C occurrences", o.ParentsIndexes(3), []int{2, 6})
	expectInts("occurrences of C", o.Occurrences(3), []int{3, 7})
	expectInts("ancestors of 3", o.Ancestors(3), []int{2, 1, 0})

	if i, found := o.Find(4); !found || i != 4 {
		t.Error("find D failed", i, found)
	}
	if _, found := o.Find(42); found {
		t.Error("found absent content")
	}

	levels, indexes := shape(o.Subtree(2))
	expectInts("subtree levels", levels, []int{0, 1})
	expectInts("subtree indexes", indexes, []int{2, 3})
	if len(o.Subtree(42)) != 0 {
		t.Error("subtree of absent content must be empty")
	}

	if s, found := o.ElderSibling(4); !found || s != 2 {
		t.Error("elder sibling of D must be B", s, found)
	}
	if _, found := o.ElderSibling(2); found {
		t.Error("first child has no elder sibling")
	}
	if s, found := o.YoungerSibling(1); !found || s != 5 {
		t.Error("younger sibling of A must be E", s, found)
	}
	if _, found := o.YoungerSibling(4); found {
		t.Error("last child has no younger sibling")
	}
	if !o.Contains(5, 8, 3) || o.Contains(1, 3, 4) {
		t.Error("range containment wrong")
	}
}

func TestVisibleBefore(t *testing.T) {
	o := build(1, 1, 2, 2, 3, 3, 1, 4)
	if v := o.VisibleBefore(4); v != 1 {
		t.Error("collapsed A must hide its descendants, got", v)
	}
	o[1].Expand()
	if v := o.VisibleBefore(4); v != 2 {
		t.Error("expanded A shows B but collapsed B hides C, got", v)
	}
	o[2].Expand()
	if v := o.VisibleBefore(4); v != 3 {
		t.Error("everything expanded, got", v)
	}
}

func TestLabels(t *testing.T) {
	o := sample()
	if o[0].Label() != 8 {
		t.Fatal("root counter must point past the last label, got", o[0].Label())
	}
	if l := o.NextLabel(); l != 8 || o[0].Label() != 9 {
		t.Fatal("label allocation broken")
	}
	if i, found := o.IndexOfLabel(3); !found || i != 3 {
		t.Error("label 3 expected at index 3, got", i)
	}
	if _, found := o.IndexOfLabel(9); found {
		t.Error("the root counter must not be addressable as a label")
	}
}

func TestAddNode(t *testing.T) {
	o := New()
	steps := []struct {
		level, ignx int
		cloned      bool
	}{{1, 1, false}, {2, 2, false}, {3, 3, false}, {1, 5, false}, {2, 2, true}}
	for _, s := range steps {
		cloned, err := o.AddNode(s.level, s.ignx, false)
		if err != nil {
			t.Fatal(err)
		}
		if cloned != s.cloned {
			t.Fatalf("adding %d at level %d: expected cloned=%v", s.ignx, s.level, s.cloned)
		}
	}
	levels, indexes := shape(o)
	if !reflect.DeepEqual(levels, []int{0, 1, 2, 3, 1, 2, 3}) || !reflect.DeepEqual(indexes, []int{0, 1, 2, 3, 5, 2, 3}) {
		t.Fatal("unexpected outline", levels, indexes)
	}
	if _, ok := o.CheckLabels(); !ok {
		t.Error("clone expansion reused labels")
	}

	if _, err := o.AddNode(5, 9, false); !errors.Is(err, ErrLevelJump) {
		t.Error("expected level jump error, got", err)
	}
	if _, err := o.AddNode(0, 9, false); err == nil {
		t.Error("level 0 accepted")
	}
}

func TestInsertBlocks(t *testing.T) {
	o := build(1, 1, 1, 5, 1, 9, 1, 13)
	var data []position.Cell
	for _, v := range []int{2, 3, 4, 6, 7, 8, 10, 11, 12, 14, 15, 16} {
		data = append(data, position.Make(1, v, 0))
	}
	if err := o.InsertBlocks([]int{2, 3, 4, 5}, data); err != nil {
		t.Fatal(err)
	}
	_, indexes := shape(o)
	for i := 1; i <= 16; i++ {
		if indexes[i] != i {
			t.Fatal("expected 1..16 after the root, got", indexes)
		}
	}

	removed, err := o.DeleteBlocks([]int{2, 6, 10, 14}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if _, indexes := shape(o); !reflect.DeepEqual(indexes, []int{0, 1, 5, 9, 13}) {
		t.Fatal("unexpected remainder", indexes)
	}
	if len(removed) != 12 || removed[0].ContentIndex() != 2 || removed[11].ContentIndex() != 16 {
		t.Fatal("removed cells not reported in order")
	}
}

func TestBlockValidation(t *testing.T) {
	o := sample()
	original := o.Clone()
	cell := []position.Cell{position.Make(1, 9, 99)}

	if err := o.InsertBlocks([]int{0}, cell); !errors.Is(err, ErrBadBlockSet) {
		t.Error("insert before root accepted")
	}
	if err := o.InsertBlocks([]int{3, 2}, append(cell, cell...)); err == nil {
		t.Error("descending offsets accepted")
	}
	if _, err := o.DeleteBlocks([]int{2, 3}, 2); err == nil {
		t.Error("overlapping blocks accepted")
	}
	if _, err := o.DeleteBlocks([]int{7}, 2); err == nil {
		t.Error("block past the end accepted")
	}
	if err := o.ShiftBlocks([]int{1}, 1, -1); err == nil {
		t.Error("shift to level 0 accepted")
	}
	if _, err := o.ReplaceBlocks([]int{1, 2}, cell); err == nil {
		t.Error("uneven replacement accepted")
	}
	if !reflect.DeepEqual(o, original) {
		t.Fatal("rejected operations modified the outline")
	}

	if err := o.ShiftBlocks([]int{4}, 1, 1); err != nil {
		t.Fatal(err)
	}
	if o[4].Level() != 3 {
		t.Error("shift not applied")
	}
	previous, err := o.ReplaceBlocks([]int{4}, cell)
	if err != nil || previous[0].ContentIndex() != 4 || o[4] != cell[0] {
		t.Error("replace not applied", err)
	}
}

func TestValidators(t *testing.T) {
	good := sample()
	if _, ok := good.CheckLevels(); !ok {
		t.Error("levels of sample rejected")
	}
	if _, ok := good.CheckLabels(); !ok {
		t.Error("labels of sample rejected")
	}
	if _, ok := good.CheckClones(); !ok {
		t.Error("clones of sample rejected")
	}
	if _, ok := good.CheckCycles(); !ok {
		t.Error("sample has no cycles")
	}

	jump := build(1, 1, 3, 2)
	if i, ok := jump.CheckLevels(); ok || i != 2 {
		t.Error("expected level violation at 2, got", i, ok)
	}
	secondRoot := build(1, 1, 0, 2)
	if i, ok := secondRoot.CheckLevels(); ok || i != 2 {
		t.Error("expected level violation at 2, got", i, ok)
	}

	duplicate := sample()
	duplicate[6].SetLabel(duplicate[2].Label())
	if i, ok := duplicate.CheckLabels(); ok || i != 6 {
		t.Error("expected duplicate label at 6, got", i, ok)
	}

	diverged := sample()
	diverged[7].SetContentIndex(4)
	if ignx, ok := diverged.CheckClones(); ok || ignx != 2 {
		t.Error("expected clone mismatch for content 2, got", ignx, ok)
	}

	cyclic := build(1, 1, 2, 2, 3, 1)
	if i, ok := cyclic.CheckCycles(); ok || i != 3 {
		t.Error("expected cycle at 3, got", i, ok)
	}
}

func TestExtract(t *testing.T) {
	table := numberedTable(5)
	sub, subTable := Extract(sample(), table, 5)

	levels, indexes := shape(sub)
	if !reflect.DeepEqual(levels, []int{0, 1, 2, 3}) || !reflect.DeepEqual(indexes, []int{0, 1, 2, 3}) {
		t.Fatal("unexpected extracted outline", levels, indexes)
	}
	var keys []string
	for i := 0; i < subTable.Len(); i++ {
		keys = append(keys, subTable.Key(i))
	}
	if !reflect.DeepEqual(keys, []string{node.RootKey, "k5", "k2", "k3"}) {
		t.Fatal("unexpected extracted records", keys)
	}
	if _, ok := sub.CheckLabels(); !ok {
		t.Error("extracted labels collide")
	}
}

func TestCombine(t *testing.T) {
	main := node.NewTable()
	x := main.Append(node.NewRecord("x", "@file x.py"))
	y := main.Append(node.NewRecord("y", "notes"))
	mainOutline := build(1, x, 1, y)

	external := node.NewTable()
	ex := external.Append(node.Record{Key: "x", Heading: "@file x.py", Body: "@others\n"})
	ez := external.Append(node.Record{Key: "z", Heading: "helper", Body: "def z(): pass\n"})
	externalOutline := build(1, ex, 2, ez)

	combined, table, err := Combine([]Part{{mainOutline, main}, {externalOutline, external}})
	if err != nil {
		t.Fatal(err)
	}
	var keys []string
	var levels []int
	for _, c := range combined {
		keys = append(keys, table.Key(c.ContentIndex()))
		levels = append(levels, c.Level())
	}
	if !reflect.DeepEqual(keys, []string{node.RootKey, "x", "z", "y"}) || !reflect.DeepEqual(levels, []int{0, 1, 2, 1}) {
		t.Fatal("unexpected combination", keys, levels)
	}
	if i, _ := table.Find("x"); table.Body(i) != "@others\n" {
		t.Error("later trees must override record content")
	}
	if _, ok := combined.CheckLabels(); !ok {
		t.Error("combined labels collide")
	}
}
