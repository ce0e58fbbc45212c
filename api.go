package leocore

import (
	"github.com/n2code/leocore/internal/atclean"
	"github.com/n2code/leocore/internal/node"
)

// RootKey is the content key of the hidden root.
const RootKey = node.RootKey

// Tree lets you read and restructure one outline whose handle was retrieved using one of
// the Parse functions, FromSnapshot or Combine. Index 0 is the hidden root, visible
// nodes start at index 1. A Tree is not safe for concurrent use, see Registry.
type Tree interface {

	// Len returns the number of occurrences including the hidden root.
	Len() int

	// NodeAt describes the occurrence at index i.
	NodeAt(i int) (Node, error)

	// Children lists the indexes of the direct children of the occurrence at i.
	Children(i int) ([]int, error)

	// ParentIndex returns the index of the parent, 0 for top-level nodes.
	ParentIndex(i int) (int, error)

	// ParentsIndexes returns the index of the parent of every occurrence of the node at i.
	ParentsIndexes(i int) ([]int, error)

	// SubtreeSize counts the occurrence at i and all its descendants.
	SubtreeSize(i int) (int, error)

	// KeyIndex maps each content key to its content index, the value shared by all clones.
	// Nodes no longer part of the outline keep their entry.
	KeyIndex() map[string]int

	// Find returns the index of the first occurrence of the node with the given content key.
	Find(key string) (int, bool)

	// IndexOfLabel resolves a stable occurrence label to its current index.
	IndexOfLabel(label int) (int, bool)

	// Check runs all validators and reports every broken invariant, nil for a sound tree.
	Check() []*ValidationError

	// MoveUp, MoveDown, MoveLeft and MoveRight restructure the tree around the occurrence at i.
	// Each returns the change-log token of the move or false if the move has no effect, in which
	// case the tree is unchanged. Every clone of an affected node is updated alike.
	MoveUp(i int) (token string, ok bool)
	MoveDown(i int) (token string, ok bool)
	MoveLeft(i int) (token string, ok bool)
	MoveRight(i int) (token string, ok bool)

	// CreateLink inserts a clone of the node with content key child as child number ordinal
	// of every occurrence of the node with content key parent (RootKey for top level).
	// Links that would make a node its own descendant have no effect.
	CreateLink(parent string, ordinal int, child string) (token string, ok bool)

	// BreakLink removes child number ordinal of every occurrence of parent. Records are kept.
	BreakLink(parent string, ordinal int) (token string, ok bool)

	// Expand and Collapse change the display state of the single occurrence at i.
	Expand(i int) (token string, ok bool)
	Collapse(i int) (token string, ok bool)

	// Redo applies a (compound) token again, Undo reverts it. Malformed or mismatching tokens
	// leave the tree untouched.
	Redo(token string) error
	Undo(token string) error

	// UpdateNode replaces heading and body of the node with the given content key and reports
	// whether such a node exists.
	UpdateNode(key string, heading string, body string) bool

	// CleanText reconstructs the sentinel-free file text of the subtree at i.
	CleanText(i int, mode TraversalMode) (string, error)

	// Extract copies the subtree at i into a new tree.
	Extract(i int) (Tree, error)

	// Snapshot captures the full state for persistence, see FromSnapshot.
	Snapshot() Snapshot

	// DebugString lists every occurrence on one line with its state, label, level and heading.
	DebugString() string
}

// Node represents one occurrence together with the content it shares with its clones.
type Node struct {
	Index    int
	Level    int
	Label    int
	Expanded bool
	Cloned   bool //the content occurs more than once
	Key      string
	Heading  string
	Body     string
}

type TraversalMode = atclean.Mode

const (
	TraverseAll           = atclean.TraverseAll
	SkipSections          = atclean.SkipSections
	SkipSectionsAndOthers = atclean.SkipSectionsAndOthers
)
