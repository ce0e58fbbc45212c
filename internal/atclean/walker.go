// Package atclean reconstructs the text of sentinel-free files from a subtree.
package atclean

import (
	"strings"

	"github.com/google/uuid"

	"github.com/n2code/leocore/internal/markup"
	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/outline"
)

// Mode selects which structural lines are expanded. Lines that are not expanded are
// emitted as they are written.
type Mode int

const (
	TraverseAll           Mode = iota //expand @others and section references
	SkipSections                      //expand @others only
	SkipSectionsAndOthers             //expand nothing
)

func (m Mode) String() string {
	switch m {
	case TraverseAll:
		return "all"
	case SkipSections:
		return "skip-sections"
	case SkipSectionsAndOthers:
		return "skip-sections-and-others"
	}
	return "unknown"
}

// Line is one reconstructed output line.
type Line struct {
	Index   int //outline index of the node the line belongs to
	Level   int
	Indent  int
	Text    string //without the newline
	Newline bool
}

func (l Line) String() string {
	var b strings.Builder
	if l.Text != "" {
		b.WriteString(strings.Repeat(" ", l.Indent))
		b.WriteString(l.Text)
	}
	if l.Newline {
		b.WriteByte('\n')
	}
	return b.String()
}

type frame struct {
	index    int
	indent   int
	lines    []string
	next     int
	literal  bool //lines pass through without interpretation
	complete bool //every line ends with a newline, even an unterminated last one
}

// Walker produces the lines of a subtree lazily.
type Walker struct {
	o     outline.Outline
	t     *node.Table
	start int
	mode  Mode
	stack []*frame
}

func NewWalker(o outline.Outline, t *node.Table, i int, mode Mode) *Walker {
	w := &Walker{o: o, t: t, start: i, mode: mode}
	w.Reset()
	return w
}

// Reset restarts the walk at the first line of the start node.
func (w *Walker) Reset() {
	w.stack = w.stack[:0]
	if w.o.Valid(w.start) {
		w.push(w.start, 0, false)
	}
}

func (w *Walker) push(i int, indent int, complete bool) {
	w.stack = append(w.stack, &frame{
		index:    i,
		indent:   indent,
		lines:    markup.SplitLines(w.t.Body(w.o[i].ContentIndex())),
		complete: complete,
	})
}

// Next returns the following line, false once the subtree is exhausted.
func (w *Walker) Next() (Line, bool) {
	for len(w.stack) > 0 {
		f := w.stack[len(w.stack)-1]
		if f.next >= len(f.lines) {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}
		line := f.lines[f.next]
		f.next++
		text := strings.TrimSuffix(line, "\n")
		emit := Line{
			Index:   f.index,
			Level:   w.o[f.index].Level(),
			Indent:  f.indent,
			Text:    text,
			Newline: f.complete || strings.HasSuffix(line, "\n"),
		}
		if f.literal {
			return emit, true
		}
		if markup.IsDirective(text) {
			continue
		}
		if at, ok := markup.IsOthers(text); ok && w.mode != SkipSectionsAndOthers {
			if claimed := markup.Claims(w.o, w.t, f.index); len(claimed) > 0 {
				for k := len(claimed) - 1; k >= 0; k-- {
					w.push(claimed[k], f.indent+at, true)
				}
				continue
			}
		}
		if at, name, tail, ok := markup.SectionRef(line); ok && w.mode == TraverseAll {
			if s, found := markup.FindSection(w.o, w.t, name, f.index+1, len(w.o)); found {
				if strings.TrimSuffix(tail, "\n") != "" {
					w.stack = append(w.stack, &frame{
						index:    f.index,
						indent:   f.indent,
						lines:    []string{tail},
						literal:  true,
						complete: f.complete,
					})
				}
				w.push(s, f.indent+at, true)
				continue
			}
		}
		return emit, true
	}
	return Line{}, false
}

// Text reconstructs the whole subtree at i.
func Text(o outline.Outline, t *node.Table, i int, mode Mode) string {
	var b strings.Builder
	w := NewWalker(o, t, i, mode)
	for line, ok := w.Next(); ok; line, ok = w.Next() {
		b.WriteString(line.String())
	}
	return b.String()
}

// ParseClean turns the text of a sentinel-free file into a single node under the root.
func ParseClean(heading string, text string) (outline.Outline, *node.Table) {
	table := node.NewTable()
	ignx := table.Append(node.Record{
		Key:     uuid.NewString(),
		Heading: heading,
		Body:    text,
		Flags:   node.ExpandedByDefault,
	})
	o := outline.New()
	if _, err := o.AddNode(1, ignx, true); err != nil {
		panic(err) //a fresh root always accepts a first level node
	}
	return o, table
}
