package moltcl

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseError reports a lexical or syntactic problem in a script, per
// spec §4.2 ("errors: unmatched brace/bracket/quote... with a parse
// location embedded in the message").
type ParseError struct {
	Message string
	Pos     int
}

func (e *ParseError) Error() string {
	if e.Pos > 0 {
		return fmt.Sprintf("%s (character %d)", e.Message, e.Pos)
	}
	return e.Message
}

func parseErrAt(pos int, format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...), Pos: pos}
}

// PartKind distinguishes the pieces a substitutable [Word] is built from.
type PartKind int

const (
	// PartLiteral is text with no further substitution required.
	PartLiteral PartKind = iota
	// PartVar is a $name / $name(index) / ${braced name} substitution.
	PartVar
	// PartCmd is a [...] command substitution.
	PartCmd
)

// Part is one piece of a [Word].
type Part struct {
	Kind PartKind

	Literal string // PartLiteral

	Name    string // PartVar: variable or array name
	IsArray bool   // PartVar: true if Name(Index) syntax was used
	Index   []Part // PartVar: substitutable parts of the array index, if IsArray

	Script string // PartCmd: raw source between [ and ]
}

// Word is one whitespace-separated token of a [Command], built from one or
// more substitutable [Part]s.
type Word struct {
	Parts []Part
}

// Command is one semicolon/newline-separated line of a script: a sequence
// of words, the first of which names the command to invoke.
type Command struct {
	Words []Word
}

// Script is a fully parsed sequence of commands.
type Script struct {
	Commands []Command
}

// Parser turns TCL source text into a [Script]. It has no notion of
// variables or commands; substitution and dispatch happen in the evaluator.
type Parser struct {
	src string
	pos int
}

// NewParser creates a Parser over src.
func NewParser(src string) *Parser {
	return &Parser{src: src}
}

// ParseScript parses src as a full script (spec §4.2).
func ParseScript(src string) (*Script, error) {
	return NewParser(src).Parse()
}

// Parse runs the parser to completion, producing a [Script] or a
// [ParseError] naming the offending construct and its position.
func (p *Parser) Parse() (*Script, error) {
	var cmds []Command
	for {
		p.skipSeparators()
		if p.atEnd() {
			break
		}
		cmd, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		if len(cmd.Words) > 0 {
			cmds = append(cmds, cmd)
		}
	}
	return &Script{Commands: cmds}, nil
}

func (p *Parser) atEnd() bool { return p.pos >= len(p.src) }
func (p *Parser) cur() byte   { return p.src[p.pos] }

// skipSeparators consumes inline whitespace, command separators (`;` and
// newline), and `#` line comments that start a command, per spec §4.2.
func (p *Parser) skipSeparators() {
	for !p.atEnd() {
		c := p.cur()
		switch {
		case isInlineSpace(c):
			p.pos++
		case c == ';' || c == '\n':
			p.pos++
		case c == '\r':
			p.pos++
		case c == '#':
			p.skipComment()
		default:
			return
		}
	}
}

// skipComment consumes a `#`-introduced comment through the next unescaped
// newline.
func (p *Parser) skipComment() {
	for !p.atEnd() && p.cur() != '\n' {
		if p.cur() == '\\' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n' {
			p.pos += 2
			continue
		}
		p.pos++
	}
}

func isInlineSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\f' || c == '\r'
}

// parseCommand parses one command: a run of words terminated by `;`,
// newline, or end of input.
func (p *Parser) parseCommand() (Command, error) {
	var cmd Command
	for {
		for !p.atEnd() && isInlineSpace(p.cur()) {
			p.pos++
		}
		if p.atEnd() || p.cur() == ';' || p.cur() == '\n' {
			return cmd, nil
		}
		word, err := p.parseWord()
		if err != nil {
			return cmd, err
		}
		cmd.Words = append(cmd.Words, word)
	}
}

// parseWord parses one word: brace-quoted, double-quoted, or bare.
func (p *Parser) parseWord() (Word, error) {
	switch p.cur() {
	case '{':
		return p.parseBracedWord()
	case '"':
		return p.parseQuotedWord()
	default:
		return p.parseBareWord()
	}
}

// parseBracedWord parses a `{...}` word: balanced braces, no substitution,
// only `\<newline>` line continuation is special.
func (p *Parser) parseBracedWord() (Word, error) {
	start := p.pos
	depth := 1
	p.pos++
	contentStart := p.pos
	for !p.atEnd() && depth > 0 {
		switch p.cur() {
		case '\\':
			p.pos += 2
			continue
		case '{':
			depth++
		case '}':
			depth--
		}
		p.pos++
	}
	if depth != 0 {
		return Word{}, parseErrAt(start, "unmatched open brace in list")
	}
	content := p.src[contentStart : p.pos-1]
	content = collapseContinuations(content)
	return Word{Parts: []Part{{Kind: PartLiteral, Literal: content}}}, nil
}

// collapseContinuations turns every `\<newline><whitespace>` run inside a
// brace-quoted word into a single space, its only recognized escape.
func collapseContinuations(s string) string {
	if !strings.Contains(s, "\\\n") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && s[i+1] == '\n' {
			b.WriteByte(' ')
			i++
			for i+1 < len(s) && isInlineSpace(s[i+1]) {
				i++
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// parseQuotedWord parses a `"..."` word: substitutions as in a bare word,
// but embedded whitespace is literal and the word ends at the first
// unescaped closing quote.
func (p *Parser) parseQuotedWord() (Word, error) {
	start := p.pos
	p.pos++
	parts, err := p.parseSubstitutedRun(func(c byte) bool { return c == '"' })
	if err != nil {
		return Word{}, err
	}
	if p.atEnd() {
		return Word{}, parseErrAt(start, "unmatched open quote")
	}
	p.pos++ // consume closing quote
	return Word{Parts: parts}, nil
}

// parseBareWord parses a substitutable word ending at whitespace or a
// command separator.
func (p *Parser) parseBareWord() (Word, error) {
	parts, err := p.parseSubstitutedRun(func(c byte) bool {
		return isInlineSpace(c) || c == ';' || c == '\n'
	})
	if err != nil {
		return Word{}, err
	}
	return Word{Parts: parts}, nil
}

// parseSubstitutedRun scans parts (literal runs, backslash escapes, $-subs,
// [ ]-subs) until stop reports true for the current byte or input ends.
func (p *Parser) parseSubstitutedRun(stop func(byte) bool) ([]Part, error) {
	var parts []Part
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			parts = append(parts, Part{Kind: PartLiteral, Literal: lit.String()})
			lit.Reset()
		}
	}
	for !p.atEnd() && !stop(p.cur()) {
		switch p.cur() {
		case '\\':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '\n' {
				lit.WriteByte(' ')
				p.pos += 2
				for !p.atEnd() && isInlineSpace(p.cur()) {
					p.pos++
				}
				continue
			}
			r, width := unescapeAt(p.src[p.pos+1:])
			lit.WriteString(r)
			p.pos += 1 + width
		case '$':
			part, ok, err := p.tryParseVar()
			if err != nil {
				return nil, err
			}
			if !ok {
				lit.WriteByte('$')
				p.pos++
				continue
			}
			flush()
			parts = append(parts, part)
		case '[':
			flush()
			script, newPos, err := scanCommandSub(p.src, p.pos)
			if err != nil {
				return nil, err
			}
			parts = append(parts, Part{Kind: PartCmd, Script: script})
			p.pos = newPos
		default:
			lit.WriteByte(p.cur())
			p.pos++
		}
	}
	flush()
	return parts, nil
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// tryParseVar attempts to parse a $-substitution at p.pos (which must be
// '$'). Returns ok=false, leaving p.pos unchanged, if '$' is not followed by
// a valid variable reference (in which case it is a literal dollar sign).
func (p *Parser) tryParseVar() (Part, bool, error) {
	start := p.pos
	pos := p.pos + 1
	if pos < len(p.src) && p.src[pos] == '{' {
		end := strings.IndexByte(p.src[pos+1:], '}')
		if end < 0 {
			return Part{}, false, parseErrAt(start, "missing close-brace for variable name")
		}
		name := p.src[pos+1 : pos+1+end]
		p.pos = pos + 1 + end + 1
		return Part{Kind: PartVar, Name: name}, true, nil
	}
	nameStart := pos
	for pos < len(p.src) && isNameByte(p.src[pos]) {
		pos++
	}
	if pos == nameStart {
		return Part{}, false, nil
	}
	name := p.src[nameStart:pos]
	if pos < len(p.src) && p.src[pos] == '(' {
		idxParts, newPos, err := p.parseArrayIndex(pos)
		if err != nil {
			return Part{}, false, err
		}
		p.pos = newPos
		return Part{Kind: PartVar, Name: name, IsArray: true, Index: idxParts}, true, nil
	}
	p.pos = pos
	return Part{Kind: PartVar, Name: name}, true, nil
}

// parseArrayIndex parses the substitutable "(index)" suffix of $name(index),
// starting at the '(' byte, returning the index's parts and the position
// just past the matching ')'.
func (p *Parser) parseArrayIndex(openPos int) ([]Part, int, error) {
	sub := &Parser{src: p.src, pos: openPos + 1}
	parts, err := sub.parseSubstitutedRun(func(c byte) bool { return c == ')' })
	if err != nil {
		return nil, 0, err
	}
	if sub.atEnd() {
		return nil, 0, parseErrAt(openPos, "unmatched open paren in array index")
	}
	return parts, sub.pos + 1, nil
}

// scanCommandSub scans a `[...]` command substitution starting at s[pos]
// (which must be '['), honoring nested brace/quote/bracket grouping the way
// a recursive script parse would, and returns the raw script text between
// the brackets and the position just past the closing bracket.
func scanCommandSub(s string, pos int) (string, int, error) {
	start := pos
	pos++ // skip '['
	contentStart := pos
	depth := 1
	braceDepth := 0
	inQuote := false
	for pos < len(s) {
		c := s[pos]
		switch {
		case c == '\\' && pos+1 < len(s):
			pos += 2
			continue
		case inQuote:
			if c == '"' {
				inQuote = false
			}
		case braceDepth > 0:
			if c == '{' {
				braceDepth++
			} else if c == '}' {
				braceDepth--
			}
		case c == '"':
			inQuote = true
		case c == '{':
			braceDepth++
		case c == '[':
			depth++
		case c == ']':
			depth--
			if depth == 0 {
				return s[contentStart:pos], pos + 1, nil
			}
		}
		pos++
	}
	return "", pos, parseErrAt(start, "unmatched open bracket in command substitution")
}

// unescapeAt decodes the backslash escape beginning right after the
// backslash (s[0] is the character following '\'), per spec §4.2, and
// returns its replacement text and how many bytes of s it consumed.
func unescapeAt(s string) (string, int) {
	if s == "" {
		return "\\", 0
	}
	switch s[0] {
	case 'a':
		return "\a", 1
	case 'b':
		return "\b", 1
	case 'f':
		return "\f", 1
	case 'n':
		return "\n", 1
	case 'r':
		return "\r", 1
	case 't':
		return "\t", 1
	case 'v':
		return "\v", 1
	case 'x':
		return unescapeHex(s[1:], 2, func(v rune) string { return string(byte(v)) })
	case 'u':
		return unescapeHex(s[1:], 4, func(v rune) string { return string(v) })
	default:
		return string(s[0]), 1
	}
}

// unescapeHex consumes up to maxDigits hex digits from s and renders the
// parsed value with render; width includes the leading marker byte ('x'/'u').
func unescapeHex(s string, maxDigits int, render func(rune) string) (string, int) {
	n := 0
	for n < len(s) && n < maxDigits && isHexDigit(s[n]) {
		n++
	}
	if n == 0 {
		return "x", 1
	}
	v, _ := strconv.ParseInt(s[:n], 16, 32)
	return render(rune(v)), 1 + n
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
