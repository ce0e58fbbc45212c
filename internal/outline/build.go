package outline

import (
	"errors"
	"fmt"

	"github.com/n2code/leocore/internal/position"
)

var ErrLevelJump = errors.New("level increases by more than one step")

// AddNode appends an occurrence at the end. If the content already occurs, its whole
// subtree is appended with fresh labels and cloned reports true so a builder can skip the
// source children. The new head copies the expansion state passed in.
func (o *Outline) AddNode(level int, contentIndex int, expanded bool) (cloned bool, err error) {
	last := (*o)[len(*o)-1].Level()
	if level < 1 || level > last+1 {
		return false, fmt.Errorf("adding level %d after level %d: %w", level, last, ErrLevelJump)
	}
	if contentIndex == 0 {
		return false, errors.New("hidden root cannot be added as a node")
	}
	head := position.Make(level, contentIndex, 0)
	if expanded {
		head.Expand()
	}
	sub := o.Subtree(contentIndex)
	if len(sub) == 0 {
		head.SetLabel(o.NextLabel())
		*o = append(*o, head)
		return false, nil
	}
	sub[0] = head
	for k := range sub {
		if k > 0 {
			sub[k].Shift(level)
		}
		sub[k].SetLabel(o.NextLabel())
	}
	*o = append(*o, sub...)
	return true, nil
}
