package leocore

import "errors"

var (
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrNothingToRedo = errors.New("nothing to redo")
)

// History keeps the tokens of performed and reverted operations. Recording a new
// operation discards everything that was undone.
type History struct {
	Done   []string `yaml:"done,omitempty"`
	Undone []string `yaml:"undone,omitempty"`
}

func (h *History) Record(token string) {
	h.Done = append(h.Done, token)
	h.Undone = nil
}

// Undo reverts the latest operation on t. A failing token stays on record.
func (h *History) Undo(t Tree) (string, error) {
	if len(h.Done) == 0 {
		return "", ErrNothingToUndo
	}
	token := h.Done[len(h.Done)-1]
	if err := t.Undo(token); err != nil {
		return "", err
	}
	h.Done = h.Done[:len(h.Done)-1]
	h.Undone = append(h.Undone, token)
	return token, nil
}

// Redo performs the latest reverted operation on t again.
func (h *History) Redo(t Tree) (string, error) {
	if len(h.Undone) == 0 {
		return "", ErrNothingToRedo
	}
	token := h.Undone[len(h.Undone)-1]
	if err := t.Redo(token); err != nil {
		return "", err
	}
	h.Undone = h.Undone[:len(h.Undone)-1]
	h.Done = append(h.Done, token)
	return token, nil
}
