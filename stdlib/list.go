package stdlib

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"moltcl"
)

func registerListCommands[Ctx any](i *moltcl.Interp[Ctx]) {
	i.RegisterCommand("list", 0, moltcl.ArgMax, cmdList[Ctx])
	i.RegisterCommand("lindex", 1, moltcl.ArgMax, cmdLindex[Ctx])
	i.RegisterCommand("llength", 1, 1, cmdLlength[Ctx])
	i.RegisterCommand("lappend", 1, moltcl.ArgMax, cmdLappend[Ctx])
	i.RegisterCommand("linsert", 2, moltcl.ArgMax, cmdLinsert[Ctx])
	i.RegisterCommand("lrange", 3, 3, cmdLrange[Ctx])
	i.RegisterCommand("lreplace", 3, moltcl.ArgMax, cmdLreplace[Ctx])
	i.RegisterCommand("lsearch", 2, moltcl.ArgMax, cmdLsearch[Ctx])
	i.RegisterCommand("lsort", 1, moltcl.ArgMax, cmdLsort[Ctx])
	i.RegisterCommand("join", 1, 2, cmdJoin[Ctx])
	i.RegisterCommand("split", 1, 2, cmdSplit[Ctx])
}

func cmdList[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	return moltcl.Ok(moltcl.NewList(args...))
}

// listIndex resolves a TCL list index token, supporting "end" and
// "end-N" in addition to plain non-negative integers.
func listIndex(tok string, length int) (int, error) {
	if tok == "end" {
		return length - 1, nil
	}
	if strings.HasPrefix(tok, "end-") {
		n, err := strconv.Atoi(tok[4:])
		if err != nil {
			return 0, fmt.Errorf("bad index %q", tok)
		}
		return length - 1 - n, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("bad index %q: must be integer or end?-integer?", tok)
	}
	return n, nil
}

func cmdLindex[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	items, err := args[0].ObjList()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	var result *moltcl.Obj
	for n, idxArg := range args[1:] {
		idx, err := listIndex(idxArg.String(), len(items))
		if err != nil {
			return moltcl.Err(err.Error())
		}
		if idx < 0 || idx >= len(items) {
			return moltcl.Ok(moltcl.NewString(""))
		}
		result = items[idx]
		if n < len(args)-2 {
			items, err = result.ObjList()
			if err != nil {
				return moltcl.Err(err.Error())
			}
		}
	}
	return moltcl.Ok(result)
}

func cmdLlength[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	items, err := args[0].ObjList()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	return moltcl.Ok(moltcl.NewInt(int64(len(items))))
}

func cmdLappend[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	name := args[0].String()
	var items []*moltcl.Obj
	if interp.ExistsVar(name) {
		cur, err := interp.GetVar(name)
		if err != nil {
			return moltcl.Err(err.Error())
		}
		items, err = cur.ObjList()
		if err != nil {
			return moltcl.Err(err.Error())
		}
	}
	items = append(items, args[1:]...)
	result := moltcl.NewList(items...)
	if _, err := interp.SetVar(name, result); err != nil {
		return moltcl.Err(err.Error())
	}
	return moltcl.Ok(result)
}

func cmdLinsert[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	items, err := args[0].ObjList()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	idx, err := listIndex(args[1].String(), len(items))
	if err != nil {
		return moltcl.Err(err.Error())
	}
	if idx < 0 {
		idx = 0
	}
	if idx > len(items) {
		idx = len(items)
	}
	out := make([]*moltcl.Obj, 0, len(items)+len(args)-2)
	out = append(out, items[:idx]...)
	out = append(out, args[2:]...)
	out = append(out, items[idx:]...)
	return moltcl.Ok(moltcl.NewList(out...))
}

func cmdLrange[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	items, err := args[0].ObjList()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	first, err := listIndex(args[1].String(), len(items))
	if err != nil {
		return moltcl.Err(err.Error())
	}
	last, err := listIndex(args[2].String(), len(items))
	if err != nil {
		return moltcl.Err(err.Error())
	}
	if first < 0 {
		first = 0
	}
	if last >= len(items) {
		last = len(items) - 1
	}
	if first > last || first >= len(items) {
		return moltcl.Ok(moltcl.NewString(""))
	}
	return moltcl.Ok(moltcl.NewList(items[first : last+1]...))
}

func cmdLreplace[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	items, err := args[0].ObjList()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	first, err := listIndex(args[1].String(), len(items))
	if err != nil {
		return moltcl.Err(err.Error())
	}
	last, err := listIndex(args[2].String(), len(items))
	if err != nil {
		return moltcl.Err(err.Error())
	}
	if first < 0 {
		first = 0
	}
	if last >= len(items) {
		last = len(items) - 1
	}
	if first > len(items) {
		first = len(items)
	}
	out := make([]*moltcl.Obj, 0, len(items))
	out = append(out, items[:first]...)
	out = append(out, args[3:]...)
	if last+1 <= len(items) && last >= first {
		out = append(out, items[last+1:]...)
	} else if last < first {
		out = append(out, items[first:]...)
	}
	return moltcl.Ok(moltcl.NewList(out...))
}

func cmdLsearch[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	mode := "exact"
	for len(args) > 2 {
		switch args[0].String() {
		case "-exact":
			mode = "exact"
		case "-glob":
			mode = "glob"
		default:
			goto scan
		}
		args = args[1:]
	}
scan:
	if len(args) != 2 {
		return moltcl.Err(`wrong # args: should be "lsearch ?-exact|-glob? list pattern"`)
	}
	items, err := args[0].ObjList()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	pattern := args[1].String()
	for idx, it := range items {
		s := it.String()
		match := s == pattern
		if mode == "glob" {
			match = moltcl.Match(pattern, s)
		}
		if match {
			return moltcl.Ok(moltcl.NewInt(int64(idx)))
		}
	}
	return moltcl.Ok(moltcl.NewInt(-1))
}

func cmdLsort[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	numeric := false
	decreasing := false
	for len(args) > 1 {
		switch args[0].String() {
		case "-integer", "-real":
			numeric = true
		case "-ascii":
			numeric = false
		case "-decreasing":
			decreasing = true
		case "-increasing":
			decreasing = false
		default:
			goto sortNow
		}
		args = args[1:]
	}
sortNow:
	if len(args) != 1 {
		return moltcl.Err(`wrong # args: should be "lsort ?options? list"`)
	}
	items, err := args[0].ObjList()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	out := make([]*moltcl.Obj, len(items))
	copy(out, items)
	sort.SliceStable(out, func(a, b int) bool {
		var less bool
		if numeric {
			af, _ := out[a].Float()
			bf, _ := out[b].Float()
			less = af < bf
		} else {
			less = out[a].String() < out[b].String()
		}
		if decreasing {
			return !less && out[a].String() != out[b].String()
		}
		return less
	})
	return moltcl.Ok(moltcl.NewList(out...))
}

func cmdJoin[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	items, err := args[0].ObjList()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	sep := " "
	if len(args) == 2 {
		sep = args[1].String()
	}
	return moltcl.Ok(moltcl.NewString(strings.Join(objStrings(items), sep)))
}

func cmdSplit[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	s := args[0].String()
	chars := " \t\n\r"
	if len(args) == 2 {
		chars = args[1].String()
	}
	if chars == "" {
		items := make([]*moltcl.Obj, 0, len(s))
		for _, r := range s {
			items = append(items, moltcl.NewString(string(r)))
		}
		return moltcl.Ok(moltcl.NewList(items...))
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return strings.ContainsRune(chars, r) })
	items := make([]*moltcl.Obj, len(parts))
	for i, p := range parts {
		items[i] = moltcl.NewString(p)
	}
	return moltcl.Ok(moltcl.NewList(items...))
}

func objStrings(items []*moltcl.Obj) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.String()
	}
	return out
}
