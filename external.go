package leocore

import (
	"fmt"

	"github.com/n2code/leocore/internal"
	"github.com/n2code/leocore/internal/sentinel"
)

// ExternalFile ties a tree to the sentinel-carrying text it was read from. The file node
// is tracked by content key so that restructuring the tree does not lose it.
type ExternalFile struct {
	tree    *tree
	layout  sentinel.Layout
	fileKey string
}

// ParseSentinel reads the text of an external file, leading and trailing material included.
func ParseSentinel(text string) (*ExternalFile, error) {
	o, table, layout, err := sentinel.Parse(text)
	if err != nil {
		return nil, newCommandError("external file not readable", err)
	}
	if len(o) < 2 {
		return nil, newCommandError("external file holds no node", nil)
	}
	return &ExternalFile{tree: makeTree(o, table), layout: layout, fileKey: table.Key(o[1].ContentIndex())}, nil
}

// AttachSource pairs a tree restored elsewhere (e.g. from a snapshot) with the text it
// was originally read from. The text determines delimiters and the file node.
func AttachSource(t Tree, source string) (*ExternalFile, error) {
	concrete, ok := t.(*tree)
	if !ok {
		return nil, newCommandError("source cannot be attached", ErrForeignTree)
	}
	parsed, err := ParseSentinel(source)
	if err != nil {
		return nil, err
	}
	if _, found := concrete.table.Find(parsed.fileKey); !found {
		return nil, newCommandError(fmt.Sprintf("tree lacks file node %s", parsed.fileKey), ErrBadSnapshot)
	}
	parsed.tree = concrete
	return parsed, nil
}

func (f *ExternalFile) Tree() Tree {
	return f.tree
}

func (f *ExternalFile) Source() string {
	return f.layout.Source
}

func (f *ExternalFile) Delims() (prefix string, suffix string) {
	return f.layout.Delims.Prefix, f.layout.Delims.Suffix
}

func (f *ExternalFile) fileNode() (int, error) {
	ignx, found := f.tree.table.Find(f.fileKey)
	if found {
		if i, present := f.tree.o.Find(ignx); present {
			return i, nil
		}
	}
	return 0, newCommandError(fmt.Sprintf("file node %s no longer part of the tree", f.fileKey), ErrIndexOutOfRange)
}

// Changed reports whether regenerating would alter the text.
func (f *ExternalFile) Changed() (bool, error) {
	i, err := f.fileNode()
	if err != nil {
		return false, err
	}
	return f.layout.Changed(f.tree.o, f.tree.table, i), nil
}

// Regenerate returns the file text for the current tree. An unchanged tree yields the
// source text byte for byte.
func (f *ExternalFile) Regenerate() (string, error) {
	i, err := f.fileNode()
	if err != nil {
		return "", err
	}
	return f.layout.Regenerate(f.tree.o, f.tree.table, i), nil
}

// Commit makes the regenerated text the new source, e.g. after it was written to disk.
func (f *ExternalFile) Commit() (string, error) {
	text, err := f.Regenerate()
	if err != nil {
		return "", err
	}
	_, _, layout, err := sentinel.Parse(text)
	internal.AssertNoError(err, "regenerated text keeps the header it was parsed with")
	f.layout = layout
	return text, nil
}
