package stdlib

import (
	"fmt"
	"strconv"
	"strings"

	"moltcl"
)

func registerStringCommands[Ctx any](i *moltcl.Interp[Ctx]) {
	i.RegisterCommand("string", 2, moltcl.ArgMax, cmdString[Ctx])
	i.RegisterCommand("append", 1, moltcl.ArgMax, cmdAppend[Ctx])
	i.RegisterCommand("format", 1, moltcl.ArgMax, cmdFormat[Ctx])
}

func cmdString[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	sub := args[0].String()
	rest := args[1:]
	switch sub {
	case "length":
		if len(rest) != 1 {
			return moltcl.Err(`wrong # args: should be "string length string"`)
		}
		return moltcl.Ok(moltcl.NewInt(int64(len([]rune(rest[0].String())))))
	case "index":
		if len(rest) != 2 {
			return moltcl.Err(`wrong # args: should be "string index string charIndex"`)
		}
		r := []rune(rest[0].String())
		idx, err := listIndex(rest[1].String(), len(r))
		if err != nil {
			return moltcl.Err(err.Error())
		}
		if idx < 0 || idx >= len(r) {
			return moltcl.Ok(moltcl.NewString(""))
		}
		return moltcl.Ok(moltcl.NewString(string(r[idx])))
	case "range":
		if len(rest) != 3 {
			return moltcl.Err(`wrong # args: should be "string range string first last"`)
		}
		r := []rune(rest[0].String())
		first, err := listIndex(rest[1].String(), len(r))
		if err != nil {
			return moltcl.Err(err.Error())
		}
		last, err := listIndex(rest[2].String(), len(r))
		if err != nil {
			return moltcl.Err(err.Error())
		}
		if first < 0 {
			first = 0
		}
		if last >= len(r) {
			last = len(r) - 1
		}
		if first > last || first >= len(r) {
			return moltcl.Ok(moltcl.NewString(""))
		}
		return moltcl.Ok(moltcl.NewString(string(r[first : last+1])))
	case "toupper":
		if len(rest) != 1 {
			return moltcl.Err(`wrong # args: should be "string toupper string"`)
		}
		return moltcl.Ok(moltcl.NewString(strings.ToUpper(rest[0].String())))
	case "tolower":
		if len(rest) != 1 {
			return moltcl.Err(`wrong # args: should be "string tolower string"`)
		}
		return moltcl.Ok(moltcl.NewString(strings.ToLower(rest[0].String())))
	case "trim":
		if len(rest) < 1 || len(rest) > 2 {
			return moltcl.Err(`wrong # args: should be "string trim string ?chars?"`)
		}
		cut := " \t\n\r"
		if len(rest) == 2 {
			cut = rest[1].String()
		}
		return moltcl.Ok(moltcl.NewString(strings.Trim(rest[0].String(), cut)))
	case "trimleft":
		cut := " \t\n\r"
		if len(rest) == 2 {
			cut = rest[1].String()
		}
		return moltcl.Ok(moltcl.NewString(strings.TrimLeft(rest[0].String(), cut)))
	case "trimright":
		cut := " \t\n\r"
		if len(rest) == 2 {
			cut = rest[1].String()
		}
		return moltcl.Ok(moltcl.NewString(strings.TrimRight(rest[0].String(), cut)))
	case "compare":
		if len(rest) != 2 {
			return moltcl.Err(`wrong # args: should be "string compare string1 string2"`)
		}
		return moltcl.Ok(moltcl.NewInt(int64(strings.Compare(rest[0].String(), rest[1].String()))))
	case "equal":
		if len(rest) != 2 {
			return moltcl.Err(`wrong # args: should be "string equal string1 string2"`)
		}
		return moltcl.Ok(moltcl.NewBool(rest[0].String() == rest[1].String()))
	case "first":
		if len(rest) < 2 {
			return moltcl.Err(`wrong # args: should be "string first needle haystack"`)
		}
		idx := strings.Index(rest[1].String(), rest[0].String())
		return moltcl.Ok(moltcl.NewInt(int64(idx)))
	case "last":
		if len(rest) < 2 {
			return moltcl.Err(`wrong # args: should be "string last needle haystack"`)
		}
		idx := strings.LastIndex(rest[1].String(), rest[0].String())
		return moltcl.Ok(moltcl.NewInt(int64(idx)))
	case "repeat":
		if len(rest) != 2 {
			return moltcl.Err(`wrong # args: should be "string repeat string count"`)
		}
		n, err := strconv.Atoi(rest[1].String())
		if err != nil || n < 0 {
			return moltcl.Err("expected non-negative integer but got " + rest[1].String())
		}
		return moltcl.Ok(moltcl.NewString(strings.Repeat(rest[0].String(), n)))
	case "match":
		if len(rest) != 2 {
			return moltcl.Err(`wrong # args: should be "string match pattern string"`)
		}
		return moltcl.Ok(moltcl.NewBool(moltcl.Match(rest[0].String(), rest[1].String())))
	case "reverse":
		if len(rest) != 1 {
			return moltcl.Err(`wrong # args: should be "string reverse string"`)
		}
		r := []rune(rest[0].String())
		for a, b := 0, len(r)-1; a < b; a, b = a+1, b-1 {
			r[a], r[b] = r[b], r[a]
		}
		return moltcl.Ok(moltcl.NewString(string(r)))
	case "is":
		if len(rest) < 2 {
			return moltcl.Err(`wrong # args: should be "string is class string"`)
		}
		return moltcl.Ok(moltcl.NewBool(stringIs(rest[0].String(), rest[len(rest)-1].String())))
	default:
		return moltcl.Err("unknown or ambiguous subcommand \"" + sub + "\": must be length, index, range, toupper, tolower, trim, trimleft, trimright, compare, equal, first, last, repeat, match, reverse, or is")
	}
}

func stringIs(class, s string) bool {
	switch class {
	case "integer":
		_, err := moltcl.NewString(s).Int()
		return err == nil
	case "double":
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	case "alpha":
		if s == "" {
			return false
		}
		for _, r := range s {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')) {
				return false
			}
		}
		return true
	case "alnum":
		if s == "" {
			return false
		}
		for _, r := range s {
			if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				return false
			}
		}
		return true
	case "digit":
		if s == "" {
			return false
		}
		for _, r := range s {
			if r < '0' || r > '9' {
				return false
			}
		}
		return true
	case "space":
		for _, r := range s {
			if !strings.ContainsRune(" \t\n\r\v\f", r) {
				return false
			}
		}
		return true
	case "boolean":
		switch strings.ToLower(s) {
		case "1", "0", "true", "false", "yes", "no", "on", "off":
			return true
		}
		return false
	}
	return false
}

func cmdAppend[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	name := args[0].String()
	var b strings.Builder
	if interp.ExistsVar(name) {
		cur, err := interp.GetVar(name)
		if err != nil {
			return moltcl.Err(err.Error())
		}
		b.WriteString(cur.String())
	}
	for _, a := range args[1:] {
		b.WriteString(a.String())
	}
	result := moltcl.NewString(b.String())
	if _, err := interp.SetVar(name, result); err != nil {
		return moltcl.Err(err.Error())
	}
	return moltcl.Ok(result)
}

// cmdFormat implements a subset of the format command: %s, %d, %x, %X,
// %o, %c, %f, %e, %E, %g, %G, and %%. Each verb converts its *Obj argument to the Go
// type fmt.Sprintf expects for that verb before formatting the segment,
// since Go's Sprintf requires typed arguments and a raw TCL string
// can't stand in for a numeric verb's argument.
func cmdFormat[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	tmpl := args[0].String()
	vals := args[1:]
	var out strings.Builder
	vi := 0
	errNoMoreArgs := fmt.Errorf("not enough arguments")
	nextObj := func() (*moltcl.Obj, error) {
		if vi >= len(vals) {
			return nil, errNoMoreArgs
		}
		o := vals[vi]
		vi++
		return o, nil
	}
	i := 0
	for i < len(tmpl) {
		c := tmpl[i]
		if c != '%' {
			out.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(tmpl) && strings.ContainsRune("-+ 0#123456789.", rune(tmpl[j])) {
			j++
		}
		if j >= len(tmpl) {
			return moltcl.Err("format string ended in middle of field specifier")
		}
		verb := tmpl[j]
		spec := tmpl[i : j+1]
		if verb == '%' {
			out.WriteByte('%')
			i = j + 1
			continue
		}
		o, err := nextObj()
		if err != nil {
			return moltcl.Err("not enough arguments for all format specifiers")
		}
		switch verb {
		case 's':
			out.WriteString(fmt.Sprintf(spec, o.String()))
		case 'd':
			n, err := o.Int()
			if err != nil {
				return moltcl.Err("expected integer but got \"" + o.String() + "\"")
			}
			out.WriteString(fmt.Sprintf(spec, n))
		case 'x', 'X', 'o':
			n, err := o.Int()
			if err != nil {
				return moltcl.Err("expected integer but got \"" + o.String() + "\"")
			}
			out.WriteString(fmt.Sprintf(spec, n))
		case 'c':
			n, err := o.Int()
			if err != nil {
				return moltcl.Err("expected integer but got \"" + o.String() + "\"")
			}
			out.WriteString(string(rune(n)))
		case 'f', 'e', 'g', 'G', 'E':
			f, err := o.Float()
			if err != nil {
				return moltcl.Err("expected floating-point number but got \"" + o.String() + "\"")
			}
			out.WriteString(fmt.Sprintf(spec, f))
		default:
			return moltcl.Err("bad field specifier \"" + string(verb) + "\"")
		}
		i = j + 1
	}
	return moltcl.Ok(moltcl.NewString(out.String()))
}
