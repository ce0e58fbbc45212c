package leocore

import (
	"fmt"

	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/outline"
	"github.com/n2code/leocore/internal/position"
)

// Snapshot is the serializable state of a tree. Records keep their table order so that
// change-log tokens recorded against the tree stay valid, cells use their text form.
type Snapshot struct {
	Records []RecordSnapshot `yaml:"records"`
	Cells   []string         `yaml:"cells"`
}

type RecordSnapshot struct {
	Key       string `yaml:"key"`
	Heading   string `yaml:"heading"`
	Body      string `yaml:"body,omitempty"`
	Collapsed bool   `yaml:"collapsed,omitempty"` //new occurrences start collapsed
}

func (t *tree) Snapshot() Snapshot {
	s := Snapshot{
		Records: make([]RecordSnapshot, 0, t.table.Len()),
		Cells:   make([]string, 0, len(t.o)),
	}
	for _, r := range t.table.Records() {
		s.Records = append(s.Records, RecordSnapshot{Key: r.Key, Heading: r.Heading, Body: r.Body, Collapsed: !r.ExpandedByDefault()})
	}
	for _, c := range t.o {
		s.Cells = append(s.Cells, c.String())
	}
	return s
}

// FromSnapshot restores a tree and verifies its invariants.
func FromSnapshot(s Snapshot) (Tree, error) {
	records := make([]node.Record, 0, len(s.Records))
	for _, r := range s.Records {
		record := node.NewRecord(r.Key, r.Heading)
		record.Body = r.Body
		if r.Collapsed {
			record.Flags &^= node.ExpandedByDefault
		}
		records = append(records, record)
	}
	table, err := node.FromRecords(records)
	if err != nil {
		return nil, newCommandError("snapshot records unusable", fmt.Errorf("%w: %s", ErrBadSnapshot, err))
	}

	o := make(outline.Outline, 0, len(s.Cells))
	for k, text := range s.Cells {
		c, err := position.Parse(text)
		if err != nil {
			return nil, newCommandError(fmt.Sprintf("snapshot cell %d unusable", k), fmt.Errorf("%w: %s", ErrBadSnapshot, err))
		}
		if !table.Has(c.ContentIndex()) {
			return nil, newCommandError(fmt.Sprintf("snapshot cell %d unusable", k), fmt.Errorf("%w: no record %d", ErrBadSnapshot, c.ContentIndex()))
		}
		o = append(o, c)
	}
	if len(o) == 0 || o[0].ContentIndex() != 0 {
		return nil, newCommandError("snapshot lacks the hidden root", ErrBadSnapshot)
	}

	restored := makeTree(o, table)
	if broken := restored.Check(); len(broken) > 0 {
		return nil, newCommandError("snapshot violates invariants", fmt.Errorf("%w: %s", ErrBadSnapshot, broken[0]))
	}
	return restored, nil
}
