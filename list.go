package moltcl

import "strings"

// ParseList parses s as a TCL list per spec §4.3: elements separated by
// whitespace, brace- and quote-grouped elements, and backslash escapes —
// but no variable or command substitution. It is independent of the script
// [Parser] but shares its escape table (see unescapeAt).
func ParseList(s string) ([]string, error) {
	var items []string
	pos := 0
	n := len(s)

	for {
		for pos < n && isListSpace(s[pos]) {
			pos++
		}
		if pos >= n {
			break
		}

		var elem string
		var err error
		switch s[pos] {
		case '{':
			elem, pos, err = scanBracedElement(s, pos)
		case '"':
			elem, pos, err = scanQuotedElement(s, pos)
		default:
			elem, pos, err = scanBareElement(s, pos)
		}
		if err != nil {
			return nil, err
		}
		items = append(items, elem)
	}
	return items, nil
}

func isListSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func scanBracedElement(s string, pos int) (string, int, error) {
	depth := 1
	start := pos + 1
	pos++
	for pos < len(s) && depth > 0 {
		switch s[pos] {
		case '\\':
			pos++ // skip escaped char, including an escaped brace
		case '{':
			depth++
		case '}':
			depth--
		}
		pos++
	}
	if depth != 0 {
		return "", pos, listErr("unmatched open brace in list")
	}
	return s[start : pos-1], pos, nil
}

func scanQuotedElement(s string, pos int) (string, int, error) {
	start := pos + 1
	pos++
	var b strings.Builder
	for pos < len(s) && s[pos] != '"' {
		if s[pos] == '\\' && pos+1 < len(s) {
			r, width := unescapeAt(s[pos+1:])
			b.WriteString(r)
			pos += 1 + width
			continue
		}
		b.WriteByte(s[pos])
		pos++
	}
	if pos >= len(s) {
		return "", pos, listErr("unmatched open quote in list")
	}
	_ = start
	pos++ // consume closing quote
	return b.String(), pos, nil
}

func scanBareElement(s string, pos int) (string, int, error) {
	var b strings.Builder
	for pos < len(s) && !isListSpace(s[pos]) {
		if s[pos] == '\\' && pos+1 < len(s) {
			r, width := unescapeAt(s[pos+1:])
			b.WriteString(r)
			pos += 1 + width
			continue
		}
		b.WriteByte(s[pos])
		pos++
	}
	return b.String(), pos, nil
}

func listErr(msg string) error {
	return &ParseError{Message: msg}
}

// needsListQuoting reports whether elem must be brace- or quote-wrapped to
// round-trip through ParseList unchanged.
func needsListQuoting(elem string) (brace bool, quote bool) {
	if elem == "" {
		return true, false
	}
	depth := 0
	hasSpecial := false
	for i := 0; i < len(elem); i++ {
		switch elem[i] {
		case ' ', '\t', '\n', '\r', '\f', '{', '}', '"', ';', '$', '[', ']', '\\':
			hasSpecial = true
		}
		if elem[i] == '{' {
			depth++
		} else if elem[i] == '}' {
			depth--
			if depth < 0 {
				return false, true
			}
		}
	}
	if !hasSpecial {
		return false, false
	}
	if depth != 0 {
		return false, true
	}
	// Braces alone (balanced, no trailing backslash) are safe to wrap in braces.
	if elem[len(elem)-1] == '\\' {
		return false, true
	}
	return true, false
}

// FormatList renders elems as a single TCL list string, quoting each
// element only as much as needed to make ParseList(FormatList(elems))
// reproduce elems exactly (the round-trip law from spec §8).
func FormatList(elems []string) string {
	var b strings.Builder
	for i, e := range elems {
		if i > 0 {
			b.WriteByte(' ')
		}
		brace, quote := needsListQuoting(e)
		switch {
		case brace:
			b.WriteByte('{')
			b.WriteString(e)
			b.WriteByte('}')
		case quote:
			b.WriteByte('"')
			for j := 0; j < len(e); j++ {
				switch e[j] {
				case '"', '\\', '$', '[':
					b.WriteByte('\\')
					b.WriteByte(e[j])
				case '\n':
					b.WriteString(`\n`)
				case '\t':
					b.WriteString(`\t`)
				default:
					b.WriteByte(e[j])
				}
			}
			b.WriteByte('"')
		default:
			b.WriteString(e)
		}
	}
	return b.String()
}
