package sentinel

import (
	"strings"

	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/outline"
)

// Layout remembers where the sentinel stream sat inside the parsed text so that an
// unchanged tree reproduces the exact input.
type Layout struct {
	Source        string
	Delims        Delims
	LeadingEnd    int //start of the header line
	TrailingStart int //just past the @-leo line
	stream        string
}

func (l Layout) Leading() string {
	return l.Source[:l.LeadingEnd]
}

func (l Layout) Trailing() string {
	return l.Source[l.TrailingStart:]
}

// Changed reports whether the subtree at i no longer renders to the parsed stream.
func (l Layout) Changed(o outline.Outline, t *node.Table, i int) bool {
	return Write(o, t, i, l.Delims) != l.stream
}

// Regenerate returns the original text while the subtree at i is unchanged. Otherwise
// the stream between the leading and trailing material is written anew.
func (l Layout) Regenerate(o outline.Outline, t *node.Table, i int) string {
	stream := Write(o, t, i, l.Delims)
	if stream == l.stream {
		return l.Source
	}
	return l.Leading() + l.header() + stream[strings.IndexByte(stream, '\n')+1:] + l.Trailing()
}

// header is the header line exactly as it was read.
func (l Layout) header() string {
	line := l.Source[l.LeadingEnd:]
	if end := strings.IndexByte(line, '\n'); end >= 0 {
		return line[:end+1]
	}
	return line + "\n"
}
