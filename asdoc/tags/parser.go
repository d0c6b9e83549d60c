package tags

import (
	"strings"
	"unicode"

	"github.com/dhamidi/asdoc/asdoc/diag"
)

const (
	cdataOpen  = "<![CDATA["
	cdataClose = "]]>"
)

// Parser scans a raw tag string for top-level tag blocks.
type Parser struct {
	input []rune
	pos   int
	len   int

	owner string
	diags *diag.List

	set        *TagSet
	seenDesc   bool
	lastTopEnd int
}

// Parse parses a raw tag string. Problems are reported to diags on behalf
// of owner; parsing always completes.
func Parse(raw, owner string, diags *diag.List) *TagSet {
	p := &Parser{
		input: []rune(raw),
		owner: owner,
		diags: diags,
		set:   newTagSet(),
	}
	p.len = len(p.input)
	p.parse()
	return p.set
}

func (p *Parser) parse() {
	for p.pos < p.len {
		switch {
		case p.match(cdataOpen):
			p.skipCDATA()
		case p.match("</"):
			p.parseClosingTag()
		case p.peek() == '<' && p.atTopLevel(p.pos):
			if !p.parseEmptyTag() {
				p.advance(1)
			}
		default:
			p.advance(1)
		}
	}
}

// parseClosingTag handles a closing marker. The matching opening tag is
// searched backward, bounded by the end of the previous top-level block.
// A closing marker whose opening tag is not the first thing after that
// boundary belongs to markup inside a body and is skipped.
func (p *Parser) parseClosingTag() {
	closeStart := p.pos
	p.advance(2)
	name := p.readTagName()
	p.skipWhitespace()
	if p.peek() == '>' {
		p.advance(1)
	}
	if name == "" {
		return
	}

	openStart, bodyStart, ok := p.findOpenTag(name, p.lastTopEnd, closeStart)
	if !ok {
		// a stray marker between blocks is skipped over
		if p.atTopLevel(closeStart) {
			p.lastTopEnd = p.pos
		}
		return
	}
	if !p.atTopLevel(openStart) {
		return
	}

	body := unwrapBody(string(p.input[bodyStart:closeStart]))
	p.lastTopEnd = p.pos
	p.add(name, body)
}

// parseEmptyTag handles a self-closing top-level tag such as <private/>.
func (p *Parser) parseEmptyTag() bool {
	start := p.pos
	p.advance(1)
	name := p.readTagName()
	p.skipWhitespace()
	if name == "" || !p.match("/>") {
		p.pos = start
		return false
	}
	p.advance(2)
	p.lastTopEnd = p.pos
	p.add(name, "")
	return true
}

// findOpenTag searches backward from to down to from for <name> or
// <name attr...>. It returns the position of '<' and the start of the body.
func (p *Parser) findOpenTag(name string, from, to int) (int, int, bool) {
	open := []rune("<" + name)
	for i := to - len(open); i >= from; i-- {
		if !p.matchAt(i, open) {
			continue
		}
		j := i + len(open)
		if j >= to {
			continue
		}
		ch := p.input[j]
		if ch != '>' && !unicode.IsSpace(ch) {
			continue
		}
		for j < to && p.input[j] != '>' {
			j++
		}
		if j >= to {
			continue
		}
		return i, j + 1, true
	}
	return 0, 0, false
}

// atTopLevel reports whether only whitespace separates pos from the end of
// the previous top-level block.
func (p *Parser) atTopLevel(pos int) bool {
	for i := p.lastTopEnd; i < pos; i++ {
		if !unicode.IsSpace(p.input[i]) {
			return false
		}
	}
	return true
}

func (p *Parser) add(name, body string) {
	if name == Description {
		if p.seenDesc {
			p.diags.Errorf(diag.KindMalformedTag, p.owner, "duplicate <description> block ignored")
			return
		}
		p.seenDesc = true
		p.set.Description = body
		return
	}

	canon, shape, known := Lookup(name)
	if !known {
		if strings.ContainsAny(name, "!:") {
			p.diags.Errorf(diag.KindMalformedTag, p.owner, "malformed tag name @%s", name)
			return
		}
		p.set.addCustom(name, body)
		return
	}

	existing, seen := p.set.values[canon]
	switch shape {
	case ShapeSingle:
		if seen {
			p.diags.Errorf(diag.KindMalformedTag, p.owner, "duplicate @%s tag; keeping the first", canon)
			return
		}
		p.set.Set(canon, Value{Shape: ShapeSingle, Text: body})
	case ShapeList:
		existing.Shape = ShapeList
		existing.Items = append(existing.Items, body)
		p.set.Set(canon, existing)
	case ShapeFlag:
		p.set.Set(canon, Value{Shape: ShapeFlag, Present: true})
	}
}

func (p *Parser) skipCDATA() {
	p.advance(len(cdataOpen))
	for p.pos < p.len && !p.match(cdataClose) {
		p.advance(1)
	}
	p.advance(len(cdataClose))
}

// unwrapBody strips CDATA wrappers and surrounding whitespace.
func unwrapBody(body string) string {
	if !strings.Contains(body, cdataOpen) {
		return strings.TrimSpace(body)
	}
	var sb strings.Builder
	rest := body
	for {
		i := strings.Index(rest, cdataOpen)
		if i < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:i])
		rest = rest[i+len(cdataOpen):]
		j := strings.Index(rest, cdataClose)
		if j < 0 {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:j])
		rest = rest[j+len(cdataClose):]
	}
	return strings.TrimSpace(sb.String())
}

// Helper methods for reading tokens

func (p *Parser) peek() rune {
	if p.pos >= p.len {
		return 0
	}
	return p.input[p.pos]
}

func (p *Parser) advance(n int) {
	p.pos += n
	if p.pos > p.len {
		p.pos = p.len
	}
}

func (p *Parser) match(s string) bool {
	return p.matchAt(p.pos, []rune(s))
}

func (p *Parser) matchAt(pos int, s []rune) bool {
	if pos < 0 || pos+len(s) > p.len {
		return false
	}
	for i, ch := range s {
		if p.input[pos+i] != ch {
			return false
		}
	}
	return true
}

func (p *Parser) skipWhitespace() {
	for p.pos < p.len && unicode.IsSpace(p.peek()) {
		p.advance(1)
	}
}

// readTagName reads up to whitespace, '>' or '/'. Names are not restricted
// to identifier characters so that malformed names can be reported.
func (p *Parser) readTagName() string {
	start := p.pos
	for p.pos < p.len {
		ch := p.peek()
		if unicode.IsSpace(ch) || ch == '>' || ch == '/' || ch == '<' {
			break
		}
		p.advance(1)
	}
	return string(p.input[start:p.pos])
}
