// Package jsonpath implements RFC 9535 JSONPath query expressions over
// value.Value trees: parsing a path string into a Query, and evaluating a
// Query against a root document to produce an ordered node list.
//
// Grounded on the pointer package's own parser shape (hand-written
// recursive-descent over a byte cursor, no parser-generator dependency)
// since no example in the retrieved pack exercises a third-party JSONPath
// library's actual call surface (only a go.mod manifest lists one), and
// guessing that surface blind would risk fabricating an API the way the
// early CBOR/JSON codec drafts did.
package jsonpath

import (
	"fmt"
	"strconv"
	"strings"
)

// Query is a compiled JSONPath expression ($ followed by zero or more
// segments).
type Query struct {
	segments []segment
}

// String renders q back to its canonical textual form.
func (q Query) String() string {
	var b strings.Builder
	b.WriteByte('$')
	for _, s := range q.segments {
		s.writeTo(&b)
	}
	return b.String()
}

// ParseError reports a JSONPath syntax error with the byte offset it was
// found at.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonpath: %s (at offset %d)", e.Message, e.Offset)
}

// Compile parses a JSONPath query string, e.g. "$.store.book[0].title" or
// "$..book[?@.price<10]".
func Compile(path string) (Query, error) {
	p := &parser{src: path}
	p.skipSpace()
	if !p.consumeByte('$') {
		return Query{}, p.errorf("query must start with '$'")
	}
	var segs []segment
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		seg, ok, err := p.parseSegment()
		if err != nil {
			return Query{}, err
		}
		if !ok {
			break
		}
		segs = append(segs, seg)
	}
	if p.pos != len(p.src) {
		return Query{}, p.errorf("unexpected trailing input")
	}
	return Query{segments: segs}, nil
}

// MustCompile is like Compile but panics on error, for static path literals.
func MustCompile(path string) Query {
	q, err := Compile(path)
	if err != nil {
		panic(err)
	}
	return q
}

type segmentKind int

const (
	segChild segmentKind = iota
	segDescendant
)

type segment struct {
	kind      segmentKind
	selectors []selector
}

func (s segment) writeTo(b *strings.Builder) {
	if s.kind == segDescendant {
		b.WriteString("..")
	} else if len(s.selectors) == 1 {
		if n, ok := s.selectors[0].(nameSelector); ok && isShorthandName(n.name) {
			b.WriteByte('.')
			b.WriteString(n.name)
			return
		}
	}
	b.WriteByte('[')
	for i, sel := range s.selectors {
		if i > 0 {
			b.WriteByte(',')
		}
		sel.writeTo(b)
	}
	b.WriteByte(']')
}

// isShorthandName reports whether name can be written in dot notation.
func isShorthandName(name string) bool {
	if name == "" || isDigit(name[0]) {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentCont(name[i]) && name[i] < 0x80 {
			return false
		}
	}
	return true
}

type selector interface {
	writeTo(b *strings.Builder)
}

type nameSelector struct{ name string }
type wildcardSelector struct{}
type indexSelector struct{ index int }
type sliceSelector struct {
	start, end, step *int
}
type filterSelector struct{ expr expr }

func (n nameSelector) writeTo(b *strings.Builder)     { fmt.Fprintf(b, "%q", n.name) }
func (wildcardSelector) writeTo(b *strings.Builder)   { b.WriteByte('*') }
func (i indexSelector) writeTo(b *strings.Builder)    { fmt.Fprintf(b, "%d", i.index) }
func (s sliceSelector) writeTo(b *strings.Builder) {
	writeIntPtr(b, s.start)
	b.WriteByte(':')
	writeIntPtr(b, s.end)
	if s.step != nil {
		b.WriteByte(':')
		writeIntPtr(b, s.step)
	}
}
func (f filterSelector) writeTo(b *strings.Builder) {
	b.WriteByte('?')
	f.expr.writeTo(b)
}

func writeIntPtr(b *strings.Builder, p *int) {
	if p != nil {
		fmt.Fprintf(b, "%d", *p)
	}
}

// parser is a hand-written recursive-descent parser over the raw path
// bytes, mirroring the byte-cursor style pointer.Parse uses.
type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &ParseError{Offset: p.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consumeByte(b byte) bool {
	if p.peek() == b {
		p.pos++
		return true
	}
	return false
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseSegment() (segment, bool, error) {
	switch p.peek() {
	case '.':
		p.pos++
		if p.consumeByte('.') {
			sel, err := p.parseDescendantTarget()
			if err != nil {
				return segment{}, false, err
			}
			return segment{kind: segDescendant, selectors: sel}, true, nil
		}
		if p.consumeByte('*') {
			return segment{kind: segChild, selectors: []selector{wildcardSelector{}}}, true, nil
		}
		name, err := p.parseShorthandName()
		if err != nil {
			return segment{}, false, err
		}
		return segment{kind: segChild, selectors: []selector{nameSelector{name: name}}}, true, nil
	case '[':
		sels, err := p.parseBracketed()
		if err != nil {
			return segment{}, false, err
		}
		return segment{kind: segChild, selectors: sels}, true, nil
	default:
		return segment{}, false, nil
	}
}

func (p *parser) parseDescendantTarget() ([]selector, error) {
	if p.peek() == '*' {
		p.pos++
		return []selector{wildcardSelector{}}, nil
	}
	if p.peek() == '[' {
		return p.parseBracketed()
	}
	name, err := p.parseShorthandName()
	if err != nil {
		return nil, err
	}
	return []selector{nameSelector{name: name}}, nil
}

func (p *parser) parseShorthandName() (string, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if !isIdentCont(c) && c < 0x80 {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected member name")
	}
	return p.src[start:p.pos], nil
}

func (p *parser) parseBracketed() ([]selector, error) {
	if !p.consumeByte('[') {
		return nil, p.errorf("expected '['")
	}
	var sels []selector
	for {
		p.skipSpace()
		sel, err := p.parseSelector()
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
		p.skipSpace()
		if p.consumeByte(',') {
			continue
		}
		break
	}
	p.skipSpace()
	if !p.consumeByte(']') {
		return nil, p.errorf("expected ']'")
	}
	return sels, nil
}

func (p *parser) parseSelector() (selector, error) {
	switch p.peek() {
	case '*':
		p.pos++
		return wildcardSelector{}, nil
	case '?':
		p.pos++
		p.skipSpace()
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return filterSelector{expr: e}, nil
	case '\'', '"':
		s, err := p.parseQuotedString()
		if err != nil {
			return nil, err
		}
		return nameSelector{name: s}, nil
	default:
		return p.parseIndexOrSlice()
	}
}

func (p *parser) parseQuotedString() (string, error) {
	quote := p.src[p.pos]
	p.pos++
	var b strings.Builder
	for {
		if p.pos >= len(p.src) {
			return "", p.errorf("unterminated string literal")
		}
		c := p.src[p.pos]
		if c == quote {
			p.pos++
			return b.String(), nil
		}
		if c == '\\' && p.pos+1 < len(p.src) {
			p.pos++
			b.WriteByte(unescapeByte(p.src[p.pos]))
			p.pos++
			continue
		}
		b.WriteByte(c)
		p.pos++
	}
}

func unescapeByte(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}

func (p *parser) parseIndexOrSlice() (selector, error) {
	start, hasStart, err := p.parseOptionalInt()
	if err != nil {
		return nil, err
	}
	if !p.consumeByte(':') {
		if !hasStart {
			return nil, p.errorf("expected index, slice, name, or filter")
		}
		return indexSelector{index: *start}, nil
	}
	end, _, err := p.parseOptionalInt()
	if err != nil {
		return nil, err
	}
	var step *int
	if p.consumeByte(':') {
		step, _, err = p.parseOptionalInt()
		if err != nil {
			return nil, err
		}
	}
	return sliceSelector{start: start, end: end, step: step}, nil
}

func (p *parser) parseOptionalInt() (*int, bool, error) {
	start := p.pos
	if p.peek() == '-' {
		p.pos++
	}
	digitStart := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	if p.pos == digitStart {
		p.pos = start
		return nil, false, nil
	}
	n, err := strconv.Atoi(p.src[start:p.pos])
	if err != nil {
		return nil, false, p.errorf("invalid integer")
	}
	return &n, true, nil
}
