// Package sentinel reads and writes derived files whose structure is carried by
// comment-wrapped sentinel lines ("#@+node:...", "#@+others", ...).
package sentinel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/n2code/leocore/internal/markup"
	"github.com/n2code/leocore/internal/node"
	"github.com/n2code/leocore/internal/outline"
)

const marker = "@+leo-ver=5-thin"

var ErrNoHeader = errors.New("no " + marker + " header line")

// Delims are the comment tokens surrounding every sentinel, taken from the header line.
type Delims struct {
	Prefix string
	Suffix string
}

type parser struct {
	text      string
	pos       int
	delims    Delims
	outline   outline.Outline
	table     *node.Table
	bodies    map[int]*strings.Builder
	indents   []int
	scopes    []int //current node per open scope, -1 discards
	first     []string
	inDoc     bool
	inAll     bool
	sinkLevel int //level of a repeated node whose lines are dropped, 0 if none
}

// Parse builds an outline and its table from a derived file. Unknown sentinels are skipped.
func Parse(text string) (outline.Outline, *node.Table, Layout, error) {
	p := &parser{
		text:    text,
		outline: outline.New(),
		table:   node.NewTable(),
		bodies:  make(map[int]*strings.Builder),
		indents: []int{0},
		scopes:  []int{-1},
	}
	leadingEnd, err := p.header()
	if err != nil {
		return nil, nil, Layout{}, err
	}
	p.first = markup.SplitLines(text[:leadingEnd])
	trailingStart, err := p.run()
	if err != nil {
		return nil, nil, Layout{}, err
	}
	for ignx, body := range p.bodies {
		p.table.SetBody(ignx, body.String())
	}
	layout := Layout{
		Source:        text,
		Delims:        p.delims,
		LeadingEnd:    leadingEnd,
		TrailingStart: trailingStart,
	}
	layout.stream = Write(p.outline, p.table, 1, p.delims)
	return p.outline, p.table, layout, nil
}

func (p *parser) header() (int, error) {
	for p.pos < len(p.text) {
		start := p.pos
		line := p.next()
		at := strings.Index(line, marker)
		if at < 0 {
			continue
		}
		p.delims.Prefix = strings.TrimLeft(line[:at], " \t")
		p.delims.Suffix = strings.TrimRight(line[at+len(marker):], "\r\n")
		if strings.TrimSpace(p.delims.Suffix) == strings.TrimSpace(p.delims.Prefix) {
			p.delims.Suffix = "" //"#@+leo-ver=5-thin#" repeats the line comment, it closes nothing
		}
		return start, nil
	}
	return 0, ErrNoHeader
}

// next consumes one physical line including its newline.
func (p *parser) next() string {
	end := strings.IndexByte(p.text[p.pos:], '\n')
	if end < 0 {
		line := p.text[p.pos:]
		p.pos = len(p.text)
		return line
	}
	line := p.text[p.pos : p.pos+end+1]
	p.pos += end + 1
	return line
}

func (p *parser) peek() string {
	pos := p.pos
	line := p.next()
	p.pos = pos
	return line
}

func (p *parser) run() (int, error) {
	for p.pos < len(p.text) {
		line := p.next()
		ws := markup.LeadingSpaces(line)
		if !strings.HasPrefix(line[ws:], p.delims.Prefix+"@") {
			p.plain(line)
			continue
		}
		keyword := p.keyword(line[ws:])
		if p.inAll {
			handled, err := p.allSentinel(keyword)
			if err != nil {
				return 0, err
			}
			if !handled {
				p.appendBody(p.unindent(line))
			}
			continue
		}
		if strings.HasPrefix(keyword, "-leo") {
			return p.pos, nil
		}
		if err := p.sentinel(keyword, ws); err != nil {
			return 0, err
		}
	}
	return len(p.text), nil
}

// keyword strips the prefix, the @, the newline and a present suffix.
func (p *parser) keyword(rest string) string {
	keyword := strings.TrimRight(rest[len(p.delims.Prefix)+1:], "\r\n")
	if p.delims.Suffix != "" {
		keyword = strings.TrimSuffix(keyword, p.delims.Suffix)
	}
	return keyword
}

func (p *parser) plain(line string) {
	if !p.inDoc {
		p.appendBody(p.unindent(line))
		return
	}
	text := strings.TrimRight(p.unindent(line), "\r\n")
	text = strings.TrimPrefix(text, p.delims.Prefix)
	text = strings.TrimPrefix(text, " ")
	p.appendBody(text + "\n")
}

func (p *parser) sentinel(keyword string, ws int) error {
	pad := strings.Repeat(" ", max(ws-p.indent(), 0))
	switch {
	case strings.HasPrefix(keyword, "+node:"):
		return p.openNode(keyword[len("+node:"):])
	case strings.HasPrefix(keyword, "+others"):
		p.appendBody(pad + "@others\n")
		p.push(ws)
	case strings.HasPrefix(keyword, "-others"):
		p.pop()
	case strings.HasPrefix(keyword, "+<<"):
		name := keyword[1:]
		if end := strings.Index(name, ">>"); end >= 0 {
			name = name[:end+2]
		}
		p.appendBody(pad + name)
		p.push(ws)
	case strings.HasPrefix(keyword, "-<<"):
		p.pop()
		following := p.peek()
		if strings.HasPrefix(strings.TrimLeft(following, " "), p.delims.Prefix+"@afterref") {
			p.next()
			p.appendBody(p.next())
		} else {
			p.appendBody("\n")
		}
	case strings.HasPrefix(keyword, "+all"):
		p.appendBody(pad + "@all\n")
		p.push(ws)
		p.inAll = true
	case strings.HasPrefix(keyword, "+at"), strings.HasPrefix(keyword, "+doc"):
		p.docPart(keyword)
	case keyword == "@first":
		line := "\n"
		if len(p.first) > 0 {
			line, p.first = p.first[0], p.first[1:]
		}
		p.appendBody("@first " + line)
	case keyword == "verbatim":
		if p.pos < len(p.text) {
			p.appendBody(p.unindent(p.next()))
		}
	case strings.HasPrefix(keyword, "@"):
		if markup.IsCodeDirective(keyword) {
			p.inDoc = false
		}
		p.appendBody(pad + keyword + "\n")
	}
	return nil
}

// allSentinel handles the few sentinels honoured inside @all.
func (p *parser) allSentinel(keyword string) (bool, error) {
	switch {
	case keyword == "verbatim":
		if p.pos < len(p.text) {
			p.appendBody(p.unindent(p.next()))
		}
	case strings.HasPrefix(keyword, "+node:"):
		return true, p.openNode(keyword[len("+node:"):])
	case strings.HasPrefix(keyword, "-all"):
		p.pop()
		p.inAll = false
	default:
		return false, nil
	}
	return true, nil
}

func (p *parser) openNode(rest string) error {
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return nil
	}
	key := rest[:colon]
	level, heading, ok := stars(strings.TrimPrefix(rest[colon+1:], " "))
	if !ok {
		return nil
	}
	p.inDoc = false
	if p.sinkLevel > 0 && level > p.sinkLevel {
		p.setCurrent(-1)
		return nil
	}
	p.sinkLevel = 0

	ignx, created := p.table.Intern(key, heading)
	exists := !created
	if _, err := p.outline.AddNode(level, ignx, p.table.Record(ignx).ExpandedByDefault()); err != nil {
		return fmt.Errorf("node %s: %w", key, err)
	}
	if exists {
		p.sinkLevel = level
		p.setCurrent(-1)
		return nil
	}
	p.setCurrent(ignx)
	return nil
}

// stars decodes the level marker "* ", "** " or "*N* " in front of a heading.
func stars(text string) (level int, heading string, ok bool) {
	switch {
	case text == "*":
		return 1, "", true
	case text == "**":
		return 2, "", true
	case strings.HasPrefix(text, "* "):
		return 1, text[2:], true
	case strings.HasPrefix(text, "** "):
		return 2, text[3:], true
	case strings.HasPrefix(text, "*"):
		end := strings.IndexByte(text[1:], '*')
		if end < 0 {
			return 0, "", false
		}
		n, err := strconv.Atoi(text[1 : 1+end])
		if err != nil || n < 1 {
			return 0, "", false
		}
		return n, strings.TrimPrefix(text[end+2:], " "), true
	}
	return 0, "", false
}

func (p *parser) docPart(keyword string) {
	word, rest := "@", strings.TrimPrefix(keyword, "+at")
	if strings.HasPrefix(keyword, "+doc") {
		word, rest = "@doc", strings.TrimPrefix(keyword, "+doc")
	}
	if rest == "" {
		p.appendBody(word + "\n")
	} else {
		p.appendBody(word + " " + strings.TrimPrefix(rest, " ") + "\n")
	}

	if p.delims.Suffix == "" {
		p.inDoc = true
		return
	}
	if strings.TrimSpace(p.peek()) == strings.TrimSpace(p.delims.Prefix) {
		p.next()
	}
	closing := strings.TrimSpace(p.delims.Suffix)
	for p.pos < len(p.text) {
		line := p.next()
		if strings.TrimSpace(line) == closing {
			break
		}
		p.appendBody(p.unindent(line))
	}
}

func (p *parser) indent() int {
	return p.indents[len(p.indents)-1]
}

func (p *parser) unindent(line string) string {
	n := min(markup.LeadingSpaces(line), p.indent())
	return line[n:]
}

func (p *parser) push(ws int) {
	p.indents = append(p.indents, ws)
	p.scopes = append(p.scopes, -1)
	p.inDoc = false
}

func (p *parser) pop() {
	if len(p.scopes) > 1 {
		p.indents = p.indents[:len(p.indents)-1]
		p.scopes = p.scopes[:len(p.scopes)-1]
	}
	p.inDoc = false
}

func (p *parser) setCurrent(ignx int) {
	p.scopes[len(p.scopes)-1] = ignx
}

func (p *parser) appendBody(text string) {
	ignx := p.scopes[len(p.scopes)-1]
	if ignx < 0 {
		return
	}
	body, found := p.bodies[ignx]
	if !found {
		body = &strings.Builder{}
		p.bodies[ignx] = body
	}
	body.WriteString(text)
}
