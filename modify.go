package leocore

import (
	"github.com/n2code/leocore/internal/changelog"
	"github.com/n2code/leocore/internal/mutate"
)

func (t *tree) MoveUp(i int) (string, bool) {
	return mutate.MoveUp(&t.o, i)
}

func (t *tree) MoveDown(i int) (string, bool) {
	return mutate.MoveDown(&t.o, i)
}

func (t *tree) MoveLeft(i int) (string, bool) {
	return mutate.MoveLeft(&t.o, i)
}

func (t *tree) MoveRight(i int) (string, bool) {
	return mutate.MoveRight(&t.o, i)
}

func (t *tree) CreateLink(parent string, ordinal int, child string) (string, bool) {
	p, found := t.table.Find(parent)
	if !found {
		return "", false
	}
	c, found := t.table.Find(child)
	if !found {
		return "", false
	}
	return mutate.CreateLink(&t.o, p, ordinal, c)
}

func (t *tree) BreakLink(parent string, ordinal int) (string, bool) {
	p, found := t.table.Find(parent)
	if !found {
		return "", false
	}
	return mutate.BreakLink(&t.o, p, ordinal)
}

func (t *tree) Expand(i int) (string, bool) {
	return mutate.Expand(&t.o, i)
}

func (t *tree) Collapse(i int) (string, bool) {
	return mutate.Collapse(&t.o, i)
}

func (t *tree) Redo(token string) error {
	if err := changelog.Redo(&t.o, token); err != nil {
		return newCommandError("redo failed", err)
	}
	return nil
}

func (t *tree) Undo(token string) error {
	if err := changelog.Undo(&t.o, token); err != nil {
		return newCommandError("undo failed", err)
	}
	return nil
}

func (t *tree) UpdateNode(key string, heading string, body string) bool {
	ignx, found := t.table.Find(key)
	if !found || ignx == 0 {
		return false
	}
	t.table.SetHeading(ignx, heading)
	t.table.SetBody(ignx, body)
	return true
}
