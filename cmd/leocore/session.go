package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/n2code/leocore"
)

// Kinds of files a session can be opened on.
const (
	sentinelFile = "sentinel"
	cleanFile    = "clean"
	xmlOutline   = "xml"
)

// session is the persisted state between two CLI calls: the tree, the text it was read
// from and the tokens needed to undo and redo.
type session struct {
	ID      string           `yaml:"id"`
	File    string           `yaml:"file"` //absolute path
	Kind    string           `yaml:"kind"`
	Source  string           `yaml:"source,omitempty"`
	Tree    leocore.Snapshot `yaml:"tree"`
	History leocore.History  `yaml:"history"`
	Journal []journalEntry   `yaml:"journal,omitempty"`

	path string
	tree leocore.Tree
	ext  *leocore.ExternalFile //sentinel sessions only
}

type journalEntry struct {
	Session string `yaml:"session"`
	Command string `yaml:"command"`
	Token   string `yaml:"token,omitempty"`
}

var errNoSession = errors.New("no session, use the open command first")

func newSession(path string, file string, kind string, source string) (*session, error) {
	s := &session{ID: uuid.NewString(), File: file, Kind: kind, path: path}
	switch kind {
	case sentinelFile:
		ext, err := leocore.ParseSentinel(source)
		if err != nil {
			return nil, err
		}
		s.Source = source
		s.ext = ext
		s.tree = ext.Tree()
	case xmlOutline:
		tree, err := leocore.ParseXML(bytes.NewReader([]byte(source)))
		if err != nil {
			return nil, err
		}
		s.tree = tree
	case cleanFile:
		s.tree = leocore.ParseClean("@clean "+filepath.Base(file), source)
	default:
		return nil, fmt.Errorf("unknown file format %q", kind)
	}
	return s, nil
}

func loadSession(path string) (*session, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w (%s)", errNoSession, path)
	}
	if err != nil {
		return nil, err
	}
	s := &session{path: path}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("session file %s unreadable: %w", path, err)
	}
	if s.tree, err = leocore.FromSnapshot(s.Tree); err != nil {
		return nil, fmt.Errorf("session file %s: %w", path, err)
	}
	if s.Kind == sentinelFile {
		if s.ext, err = leocore.AttachSource(s.tree, s.Source); err != nil {
			return nil, fmt.Errorf("session file %s: %w", path, err)
		}
	}
	return s, nil
}

func (s *session) save() error {
	s.Tree = s.tree.Snapshot()
	if s.ext != nil {
		s.Source = s.ext.Source()
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing session file %s: %w", s.path, err)
	}
	return nil
}

// record files a successful operation for undo and in the journal.
func (s *session) record(command string, token string) {
	s.History.Record(token)
	s.journal(command, token)
}

func (s *session) journal(command string, token string) {
	s.Journal = append(s.Journal, journalEntry{Session: s.ID, Command: command, Token: token})
}
