package mutate

import (
	"reflect"
	"strings"
	"testing"

	"github.com/n2code/leocore/internal/changelog"
	"github.com/n2code/leocore/internal/outline"
	"github.com/n2code/leocore/internal/position"
)

// build creates an expanded outline from (level, content index) pairs following the root.
func build(pairs ...int) outline.Outline {
	o := outline.New()
	for k := 0; k < len(pairs); k += 2 {
		c := position.Make(pairs[k], pairs[k+1], o.NextLabel())
		c.Expand()
		o = append(o, c)
	}
	return o
}

func shape(o outline.Outline) (levels []int, indexes []int) {
	for _, c := range o {
		levels = append(levels, c.Level())
		indexes = append(indexes, c.ContentIndex())
	}
	return
}

//  1 A          5 E
//    2 B          6 B (clone)
//      3 C          7 C
//    4 D
func clones() outline.Outline {
	return build(1, 1, 2, 2, 3, 3, 2, 4, 1, 5, 2, 2, 3, 3)
}

func expectShape(t *testing.T, o outline.Outline, levels []int, indexes []int) {
	t.Helper()
	actualLevels, actualIndexes := shape(o)
	if !reflect.DeepEqual(actualLevels, levels) || !reflect.DeepEqual(actualIndexes, indexes) {
		t.Fatalf("expected levels %v indexes %v, got levels %v indexes %v", levels, indexes, actualLevels, actualIndexes)
	}
}

func expectValid(t *testing.T, o outline.Outline) {
	t.Helper()
	if i, ok := o.CheckLevels(); !ok {
		t.Fatal("level violation at", i)
	}
	if i, ok := o.CheckLabels(); !ok {
		t.Fatal("duplicate label at", i)
	}
	if ignx, ok := o.CheckClones(); !ok {
		t.Fatal("diverged clones of", ignx)
	}
	if i, ok := o.CheckCycles(); !ok {
		t.Fatal("cycle at", i)
	}
}

// expectReversible undoes and redoes the token of an operation that turned before into after.
func expectReversible(t *testing.T, before outline.Outline, after outline.Outline, token string) {
	t.Helper()
	o := after.Clone()
	if err := changelog.Undo(&o, token); err != nil {
		t.Fatal("undo failed:", err)
	}
	if !reflect.DeepEqual(o[1:], before[1:]) {
		t.Fatal("undo did not restore the previous outline")
	}
	if err := changelog.Redo(&o, token); err != nil {
		t.Fatal("redo failed:", err)
	}
	if !reflect.DeepEqual(o, after) {
		t.Fatal("redo did not reproduce the edited outline")
	}
}

func TestNoEffect(t *testing.T) {
	single := build(1, 1)
	original := single.Clone()
	for name, op := range map[string]func(*outline.Outline, int) (string, bool){
		"right": MoveRight, "left": MoveLeft, "up": MoveUp, "down": MoveDown,
	} {
		if token, ok := op(&single, 1); ok || token != "" {
			t.Errorf("move %s of the only node must have no effect, got %q", name, token)
		}
		if !reflect.DeepEqual(single, original) {
			t.Fatalf("move %s changed the outline without effect", name)
		}
	}
	if _, ok := MoveRight(&single, 0); ok {
		t.Error("the root cannot move")
	}
	if _, ok := MoveDown(&single, 7); ok {
		t.Error("out of range index accepted")
	}
}

func TestSiblingMoves(t *testing.T) {
	// A[B, C]
	base := func() outline.Outline { return build(1, 1, 2, 2, 2, 3) }

	tests := []struct {
		name    string
		op      func(*outline.Outline, int) (string, bool)
		at      int
		levels  []int
		indexes []int
		prefix  string
	}{
		{"up swaps with elder sibling", MoveUp, 3, []int{0, 1, 2, 2}, []int{0, 1, 3, 2}, "sn:2,"},
		{"down swaps with younger sibling", MoveDown, 2, []int{0, 1, 2, 2}, []int{0, 1, 3, 2}, "sn:2,"},
		{"left of last child shifts", MoveLeft, 3, []int{0, 1, 2, 1}, []int{0, 1, 2, 3}, "sb:-1.1,"},
		{"left of inner child moves behind parent", MoveLeft, 2, []int{0, 1, 2, 1}, []int{0, 1, 3, 2}, "sn:2,"},
		{"up of first child precedes the parent", MoveUp, 2, []int{0, 1, 1, 2}, []int{0, 2, 1, 3}, "sn:2,"},
		{"right joins elder sibling", MoveRight, 3, []int{0, 1, 2, 3}, []int{0, 1, 2, 3}, "sb:+1.1,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := base()
			o := before.Clone()
			token, ok := tt.op(&o, tt.at)
			if !ok {
				t.Fatal("operation had no effect")
			}
			expectShape(t, o, tt.levels, tt.indexes)
			expectValid(t, o)
			if !strings.HasPrefix(token, tt.prefix) {
				t.Errorf("expected a %q token, got %q", tt.prefix, token)
			}
			expectReversible(t, before, o, token)
		})
	}
}

func TestMoveDependsOnVisibility(t *testing.T) {
	// A[B], D
	collapsed := build(1, 1, 2, 2, 1, 4)
	collapsed[1].Collapse()
	if _, ok := MoveUp(&collapsed, 3); !ok {
		t.Fatal("move up failed")
	}
	expectShape(t, collapsed, []int{0, 1, 1, 2}, []int{0, 4, 1, 2})

	open := build(1, 1, 2, 2, 1, 4)
	token, ok := MoveUp(&open, 3)
	if !ok {
		t.Fatal("move up failed")
	}
	expectShape(t, open, []int{0, 1, 2, 2}, []int{0, 1, 2, 4})
	if !strings.HasPrefix(token, "sb:+1.1,") {
		t.Error("entering the visible subtree above is a shift, got", token)
	}

	// A, B[C]
	into := build(1, 1, 1, 2, 2, 3)
	if _, ok := MoveDown(&into, 1); !ok {
		t.Fatal("move down failed")
	}
	expectShape(t, into, []int{0, 1, 2, 2}, []int{0, 2, 1, 3})

	past := build(1, 1, 1, 2, 2, 3)
	past[2].Collapse()
	if _, ok := MoveDown(&past, 1); !ok {
		t.Fatal("move down failed")
	}
	expectShape(t, past, []int{0, 1, 2, 1}, []int{0, 2, 3, 1})

	last := build(1, 1, 1, 2, 2, 3)
	token, ok = MoveDown(&last, 2)
	if !ok {
		t.Fatal("move down without younger sibling failed")
	}
	expectShape(t, last, []int{0, 1, 2, 3}, []int{0, 1, 2, 3})
	if !strings.HasPrefix(token, "sb:+1.2,") {
		t.Error("without a younger sibling the node moves right, got", token)
	}
}

func TestMovePropagatesToClones(t *testing.T) {
	before := clones()
	o := before.Clone()
	token, ok := MoveRight(&o, 4)
	if !ok {
		t.Fatal("move right of D failed")
	}
	expectShape(t, o, []int{0, 1, 2, 3, 3, 1, 2, 3, 3}, []int{0, 1, 2, 3, 4, 5, 2, 3, 4})
	expectValid(t, o)
	expectReversible(t, before, o, token)

	o = before.Clone()
	token, ok = MoveUp(&o, 7)
	if !ok {
		t.Fatal("move up of C inside E failed")
	}
	expectShape(t, o, []int{0, 1, 2, 2, 1, 2, 2}, []int{0, 1, 2, 4, 5, 3, 2})
	expectValid(t, o)
	expectReversible(t, before, o, token)
}

func TestRebuildKeepsExpansionPerOccurrence(t *testing.T) {
	o := clones()
	if _, ok := Collapse(&o, 7); !ok {
		t.Fatal("collapsing C inside E failed")
	}
	if _, ok := MoveRight(&o, 4); !ok {
		t.Fatal("move right of D failed")
	}
	expectShape(t, o, []int{0, 1, 2, 3, 3, 1, 2, 3, 3}, []int{0, 1, 2, 3, 4, 5, 2, 3, 4})
	expectValid(t, o)
	if !o[3].IsExpanded() {
		t.Error("C below A lost its expansion")
	}
	if o[7].IsExpanded() {
		t.Error("C below E was expanded by the rebuild")
	}
	for _, i := range []int{1, 2, 4, 5, 6, 8} {
		if !o[i].IsExpanded() {
			t.Error("cell lost its expansion at", i)
		}
	}
}

func TestCycleRejection(t *testing.T) {
	// S, X[S]
	o := build(1, 2, 1, 1, 2, 2)
	original := o.Clone()
	if _, ok := MoveRight(&o, 2); ok {
		t.Fatal("moving X below S would nest S inside itself")
	}
	if _, ok := CreateLink(&o, 2, 0, 1); ok {
		t.Fatal("linking X below S would nest S inside itself")
	}
	if _, ok := CreateLink(&o, 1, 0, 1); ok {
		t.Fatal("self link accepted")
	}
	if _, ok := CreateLink(&o, 1, 0, 0); ok {
		t.Fatal("the root cannot be linked")
	}
	if _, ok := CreateLink(&o, 1, 5, 2); ok {
		t.Fatal("ordinal beyond the child count accepted")
	}
	if _, ok := CreateLink(&o, 9, 0, 2); ok {
		t.Fatal("absent parent accepted")
	}
	if !reflect.DeepEqual(o, original) {
		t.Fatal("rejected operations changed the outline")
	}
}

func TestLinks(t *testing.T) {
	o := build(1, 1, 1, 2)
	token, ok := CreateLink(&o, 1, 0, 2)
	if !ok {
		t.Fatal("create link failed")
	}
	expectShape(t, o, []int{0, 1, 2, 1}, []int{0, 1, 2, 2})
	if !strings.HasPrefix(token, "ip:1,(2),") {
		t.Error("unexpected token", token)
	}
	expectValid(t, o)
	linked := o.Clone()

	broken, ok := BreakLink(&o, 1, 0)
	if !ok {
		t.Fatal("break link failed")
	}
	expectShape(t, o, []int{0, 1, 1}, []int{0, 1, 2})
	if err := changelog.Undo(&o, broken); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(o, linked) {
		t.Fatal("undoing the break must restore the linked outline")
	}

	if _, ok := BreakLink(&o, 1, 1); ok {
		t.Error("break of a missing ordinal accepted")
	}
	if _, ok := CreateLink(&o, 0, 2, 1); !ok {
		t.Fatal("linking below the root failed")
	}
	expectShape(t, o, []int{0, 1, 2, 1, 1, 2}, []int{0, 1, 2, 2, 1, 2})
	expectValid(t, o)
}

func TestLinkPropagatesToClones(t *testing.T) {
	before := clones()
	o := before.Clone()
	token, ok := CreateLink(&o, 2, 1, 4)
	if !ok {
		t.Fatal("link failed")
	}
	expectShape(t, o, []int{0, 1, 2, 3, 3, 2, 1, 2, 3, 3}, []int{0, 1, 2, 3, 4, 4, 5, 2, 3, 4})
	expectValid(t, o)
	expectReversible(t, before, o, token)

	o = before.Clone()
	token, ok = BreakLink(&o, 2, 0)
	if !ok {
		t.Fatal("unlink failed")
	}
	expectShape(t, o, []int{0, 1, 2, 2, 1, 2}, []int{0, 1, 2, 4, 5, 2})
	if !strings.HasPrefix(token, "db:1,(3,7),") {
		t.Error("both occurrences must lose C in one token, got", token)
	}
	expectReversible(t, before, o, token)
}

func TestEveryMoveKeepsInvariants(t *testing.T) {
	ops := map[string]func(*outline.Outline, int) (string, bool){
		"right": MoveRight, "left": MoveLeft, "up": MoveUp, "down": MoveDown,
	}
	for name, op := range ops {
		for i := 0; i < len(clones()); i++ {
			before := clones()
			o := before.Clone()
			token, ok := op(&o, i)
			if !ok {
				if !reflect.DeepEqual(o, before) {
					t.Fatalf("move %s at %d had no effect but changed the outline", name, i)
				}
				continue
			}
			expectValid(t, o)
			expectReversible(t, before, o, token)
		}
	}
}

func TestEveryLinkKeepsInvariants(t *testing.T) {
	for parent := 0; parent <= 5; parent++ {
		for child := 0; child <= 5; child++ {
			for ordinal := 0; ordinal <= 2; ordinal++ {
				before := clones()
				o := before.Clone()
				if token, ok := CreateLink(&o, parent, ordinal, child); ok {
					expectValid(t, o)
					expectReversible(t, before, o, token)
				}
				o = before.Clone()
				if token, ok := BreakLink(&o, parent, ordinal); ok {
					expectValid(t, o)
					expectReversible(t, before, o, token)
				}
			}
		}
	}
}

func TestExpandCollapse(t *testing.T) {
	o := build(1, 1)
	if _, ok := Expand(&o, 1); ok {
		t.Error("expanding an expanded node must have no effect")
	}
	token, ok := Collapse(&o, 1)
	if !ok || token != "co:1,(1),()" || o[1].IsExpanded() {
		t.Fatal("collapse failed", token)
	}
	if err := changelog.Undo(&o, token); err != nil || !o[1].IsExpanded() {
		t.Fatal("undo of collapse failed", err)
	}
	if _, ok := Collapse(&o, 0); ok {
		t.Error("the root cannot be collapsed")
	}
}
