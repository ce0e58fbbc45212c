package sentinel

import (
	"strconv"
	"strings"

	"github.com/n2code/leocore/internal/markup"
	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/outline"
)

type writer struct {
	o    outline.Outline
	t    *node.Table
	d    Delims
	root int
	out  strings.Builder
}

// Write renders the sentinel stream of the subtree at i, from the header line through
// the closing @-leo line. Lines in front of the header are not part of the stream.
func Write(o outline.Outline, t *node.Table, i int, d Delims) string {
	w := &writer{o: o, t: t, d: d, root: i}
	w.sentinel(0, marker[1:])
	if i > 0 && i < len(o) {
		w.node(i, 0)
	}
	w.sentinel(0, "-leo")
	return w.out.String()
}

// Render produces a complete derived file for the subtree at i, including the lines
// that @first directives place in front of the header.
func Render(o outline.Outline, t *node.Table, i int, d Delims) string {
	stream := Write(o, t, i, d)
	var leading strings.Builder
	if i > 0 && i < len(o) {
		for _, line := range markup.SplitLines(t.Body(o[i].ContentIndex())) {
			if strings.HasPrefix(line, "@first ") {
				leading.WriteString(terminated(strings.TrimPrefix(line, "@first ")))
			}
		}
	}
	return leading.String() + stream
}

func (w *writer) sentinel(indent int, text string) {
	w.out.WriteString(strings.Repeat(" ", indent))
	w.out.WriteString(w.d.Prefix)
	w.out.WriteByte('@')
	w.out.WriteString(text)
	w.out.WriteString(w.d.Suffix)
	w.out.WriteByte('\n')
}

func (w *writer) raw(indent int, line string) {
	if line == "\n" {
		w.out.WriteString(line)
		return
	}
	w.out.WriteString(strings.Repeat(" ", indent))
	w.out.WriteString(terminated(line))
}

func terminated(line string) string {
	if strings.HasSuffix(line, "\n") {
		return line
	}
	return line + "\n"
}

func levelStars(level int) string {
	switch level {
	case 1:
		return "*"
	case 2:
		return "**"
	}
	return "*" + strconv.Itoa(level) + "*"
}

func (w *writer) open(i int, indent int) {
	r := w.t.Record(w.o[i].ContentIndex())
	level := w.o[i].Level() - w.o[w.root].Level() + 1
	w.sentinel(indent, "+node:"+r.Key+": "+levelStars(level)+" "+r.Heading)
}

func (w *writer) node(i int, indent int) {
	w.open(i, indent)
	inDoc := false
	for _, line := range markup.SplitLines(w.t.Body(w.o[i].ContentIndex())) {
		text := strings.TrimRight(line, "\r\n")
		if inDoc {
			if !markup.IsCodeDirective(text) {
				w.docLine(indent, line)
				continue
			}
			w.closeDoc(indent)
			inDoc = false
		}
		if i == w.root && strings.HasPrefix(line, "@first ") {
			w.sentinel(indent, "@first")
			continue
		}
		if word, rest, ok := docStart(text); ok {
			w.sentinel(indent, word+rest)
			inDoc = true
			if w.d.Suffix != "" {
				w.raw(indent, w.d.Prefix+"\n")
			}
			continue
		}
		if !w.structure(i, indent, line) {
			w.plain(indent, line)
		}
	}
	if inDoc {
		w.closeDoc(indent)
	}
}

// docStart recognizes the column-0 lines "@", "@ text", "@doc" and "@doc text".
func docStart(text string) (word string, rest string, ok bool) {
	switch {
	case text == "@" || strings.HasPrefix(text, "@ "):
		return "+at", text[1:], true
	case text == "@doc" || strings.HasPrefix(text, "@doc "):
		return "+doc", text[4:], true
	}
	return "", "", false
}

func (w *writer) docLine(indent int, line string) {
	if w.d.Suffix != "" {
		w.raw(indent, line)
		return
	}
	text := strings.TrimRight(line, "\r\n")
	if text == "" {
		w.raw(indent, w.d.Prefix+"\n")
		return
	}
	w.raw(indent, w.d.Prefix+" "+text+"\n")
}

func (w *writer) closeDoc(indent int) {
	if w.d.Suffix != "" {
		w.raw(indent, strings.TrimSpace(w.d.Suffix)+"\n")
	}
}

// structure expands @others, @all, section references and directives. It reports false
// for lines that are plain text.
func (w *writer) structure(i int, indent int, line string) bool {
	text := strings.TrimRight(line, "\r\n")
	if at, ok := markup.IsOthers(text); ok {
		w.sentinel(indent+at, "+others")
		for _, j := range markup.Claims(w.o, w.t, i) {
			w.node(j, indent+at)
		}
		w.sentinel(indent+at, "-others")
		return true
	}
	if at, ok := markup.IsAll(text); ok {
		w.sentinel(indent+at, "+all")
		for j := i + 1; j < w.o.SubtreeEnd(i); j++ {
			w.verbatimNode(j, indent+at)
		}
		w.sentinel(indent+at, "-all")
		return true
	}
	if at, name, tail, ok := markup.SectionRef(line); ok {
		s, found := markup.FindSection(w.o, w.t, name, i+1, w.o.SubtreeEnd(i))
		if !found {
			return false
		}
		w.sentinel(indent+at, "+"+name)
		w.node(s, indent+at)
		w.sentinel(indent+at, "-"+name)
		if strings.TrimRight(tail, "\r\n") != "" {
			w.sentinel(indent+at, "afterref")
			w.out.WriteString(terminated(tail))
		}
		return true
	}
	if markup.IsDirective(text) {
		at := markup.LeadingSpaces(text)
		w.sentinel(indent+at, "@"+text[at+1:])
		return true
	}
	return false
}

func (w *writer) plain(indent int, line string) {
	if strings.TrimRight(line, "\r\n") == "" {
		w.out.WriteString(terminated(line))
		return
	}
	if strings.HasPrefix(strings.TrimLeft(line, " "), w.d.Prefix+"@") {
		w.sentinel(indent, "verbatim")
	}
	w.raw(indent, line)
}

// verbatimNode writes a node inside @all, where bodies are not interpreted.
func (w *writer) verbatimNode(i int, indent int) {
	w.open(i, indent)
	for _, line := range markup.SplitLines(w.t.Body(w.o[i].ContentIndex())) {
		w.plain(indent, line)
	}
}
