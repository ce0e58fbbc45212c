package changelog

import (
	"errors"
	"reflect"
	"testing"

	"github.com/n2code/leocore/internal/outline"
	"github.com/n2code/leocore/internal/position"
)

func sample() outline.Outline {
	o := outline.New()
	for _, pair := range [][2]int{{1, 1}, {2, 2}, {1, 3}} {
		o = append(o, position.Make(pair[0], pair[1], o.NextLabel()))
	}
	return o
}

func TestTokenText(t *testing.T) {
	expanded := position.Make(1, 3, 3)
	expanded.Expand()
	tests := []struct {
		edit Edit
		text string
	}{
		{Insert([]int{2, 3}, []position.Cell{position.Make(2, 4, 5), position.Make(2, 5, 64)}), "ip:1,(2,3),(-2.4.5,-2.5.10)"},
		{Delete([]int{1}, 2, []position.Cell{position.Make(1, 1, 1), position.Make(2, 2, 2)}), "db:2,(1),(-1.1.1,-2.2.2)"},
		{Shift([]int{1, 7}, 2, -1), "sb:-1.2,(1,7),()"},
		{Shift([]int{4}, 1, 3), "sb:+3.1,(4),()"},
		{Replace([]int{1}, 1, []position.Cell{position.Make(1, 1, 1), expanded}), "sn:1,(1),(-1.1.1,+1.3.3)"},
		{Flag(Expand, 3), "ex:1,(3),()"},
		{Flag(Collapse, 64), "co:1,(10),()"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if actual := tt.edit.String(); actual != tt.text {
				t.Fatalf("rendered %q", actual)
			}
			decoded, err := Decode(tt.text)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(decoded, tt.edit) {
				t.Fatalf("decoded %+v, expected %+v", decoded, tt.edit)
			}
		})
	}
}

func TestDecodeRejects(t *testing.T) {
	for _, token := range []string{
		"",
		"zz:1,(1),()",
		"ip1,(1),()",
		"ip:1,(1)",
		"ip:1,(1),(-1.1.1",
		"db:1,(1),(-1.1.1)x",
		"ip:0,(1),(-1.1.1)",
		"ip:1,(),(-1.1.1)",
		"ip:1,(1),(-1.1.1,-1.1.2)",
		"sn:1,(1),(-1.1.1)",
		"sb:1.1,(1),()",
		"sb:+0.1,(1),()",
		"sb:+1.1,(1),(-1.1.1)",
		"ex:2,(1),()",
		"ex:1,(1,2),()",
		"ip:1,(1),(1.1.1)",
	} {
		_, err := Decode(token)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("expected %q to be rejected with a decode error, got %v", token, err)
		}
	}
}

func TestInvertIsSymmetric(t *testing.T) {
	insert := Insert([]int{1, 3}, make([]position.Cell, 4))
	deletion := insert.Invert()
	if deletion.Kind != DeleteBlocks || !reflect.DeepEqual(deletion.Offsets, []int{1, 5}) {
		t.Fatal("unexpected inverse", deletion)
	}
	if back := deletion.Invert(); !reflect.DeepEqual(back.Offsets, insert.Offsets) || back.Kind != InsertBlocks {
		t.Fatal("double inversion changed the edit", back)
	}
	if inv := Shift([]int{2}, 1, 2).Invert(); inv.Delta != -2 {
		t.Error("shift inverse must negate the delta")
	}
	if inv := Flag(Expand, 1).Invert(); inv.Kind != Collapse {
		t.Error("expand inverts to collapse")
	}
}

func TestRedoUndo(t *testing.T) {
	before := sample()
	text := Join([]Edit{
		Insert([]int{2}, []position.Cell{position.Make(2, 9, 10)}),
		Shift([]int{4}, 1, 1),
		Flag(Expand, 1),
	})

	o := before.Clone()
	if err := Redo(&o, text); err != nil {
		t.Fatal(err)
	}
	var levels, indexes []int
	for _, c := range o {
		levels = append(levels, c.Level())
		indexes = append(indexes, c.ContentIndex())
	}
	if !reflect.DeepEqual(levels, []int{0, 1, 2, 2, 2}) || !reflect.DeepEqual(indexes, []int{0, 1, 9, 2, 3}) {
		t.Fatal("unexpected result of redo", levels, indexes)
	}
	if !o[1].IsExpanded() {
		t.Error("expand not replayed")
	}
	after := o.Clone()

	if err := Undo(&o, text); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(o, before) {
		t.Fatal("undo did not restore the original outline")
	}
	if err := Redo(&o, text); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(o, after) {
		t.Fatal("redo after undo did not restore the edited outline")
	}
}

func TestReplayIsAllOrNothing(t *testing.T) {
	o := sample()
	original := o.Clone()

	outOfRange := Join([]Edit{Shift([]int{2}, 1, 1), Insert([]int{99}, []position.Cell{position.Make(1, 5, 20)})})
	if err := Redo(&o, outOfRange); !errors.Is(err, outline.ErrBadBlockSet) {
		t.Fatal("expected block set error, got", err)
	}
	if !reflect.DeepEqual(o, original) {
		t.Fatal("failed redo changed the outline")
	}

	mismatch := Delete([]int{1}, 1, []position.Cell{position.Make(1, 7, 1)}).String()
	if err := Redo(&o, mismatch); !errors.Is(err, ErrMismatch) {
		t.Fatal("expected mismatch, got", err)
	}
	if err := Undo(&o, "ip:1,(1),(-1.1.1)\nbogus"); err == nil {
		t.Fatal("malformed compound accepted")
	}
	if !reflect.DeepEqual(o, original) {
		t.Fatal("failed replay changed the outline")
	}
}
