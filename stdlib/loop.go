package stdlib

import (
	"moltcl"
)

func registerLoopCommands[Ctx any](i *moltcl.Interp[Ctx]) {
	i.RegisterCommand("if", 1, moltcl.ArgMax, cmdIf[Ctx])
	i.RegisterCommand("while", 2, 2, cmdWhile[Ctx])
	i.RegisterCommand("for", 4, 4, cmdFor[Ctx])
	i.RegisterCommand("foreach", 3, moltcl.ArgMax, cmdForeach[Ctx])
	i.RegisterCommand("incr", 1, 2, cmdIncr[Ctx])
}

func evalCond[Ctx any](interp *moltcl.Interp[Ctx], expr string) (bool, moltcl.Completion) {
	c := interp.EvalTop("expr {" + expr + "}")
	if c.Code != moltcl.CodeOK {
		return false, c
	}
	b, err := c.Value.Bool()
	if err != nil {
		return false, moltcl.Err(err.Error())
	}
	return b, moltcl.Completion{}
}

func cmdIf[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	i := 0
	for i < len(args) {
		cond := args[i].String()
		i++
		if i < len(args) && args[i].String() == "then" {
			i++
		}
		if i >= len(args) {
			return moltcl.Err(`wrong # args: no script following "if" argument`)
		}
		ok, errC := evalCond(interp, cond)
		if errC.Code != moltcl.CodeOK {
			return errC
		}
		if ok {
			return interp.EvalBody(args[i].String())
		}
		i++
		if i >= len(args) {
			return moltcl.Ok(moltcl.NewString(""))
		}
		if args[i].String() == "elseif" {
			i++
			continue
		}
		if args[i].String() == "else" {
			i++
			if i >= len(args) {
				return moltcl.Err(`wrong # args: no script following "else" argument`)
			}
			return interp.EvalBody(args[i].String())
		}
		return interp.EvalBody(args[i].String())
	}
	return moltcl.Ok(moltcl.NewString(""))
}

func cmdWhile[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	cond := args[0].String()
	body := args[1].String()
	for {
		ok, errC := evalCond(interp, cond)
		if errC.Code != moltcl.CodeOK {
			return errC
		}
		if !ok {
			break
		}
		c := interp.EvalBody(body)
		switch c.Code {
		case moltcl.CodeBreak:
			return moltcl.Ok(moltcl.NewString(""))
		case moltcl.CodeContinue, moltcl.CodeOK:
			continue
		default:
			return c
		}
	}
	return moltcl.Ok(moltcl.NewString(""))
}

func cmdFor[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	start, cond, next, body := args[0].String(), args[1].String(), args[2].String(), args[3].String()
	if c := interp.EvalTop(start); c.Code != moltcl.CodeOK {
		return c
	}
	for {
		ok, errC := evalCond(interp, cond)
		if errC.Code != moltcl.CodeOK {
			return errC
		}
		if !ok {
			break
		}
		c := interp.EvalBody(body)
		switch c.Code {
		case moltcl.CodeBreak:
			return moltcl.Ok(moltcl.NewString(""))
		case moltcl.CodeContinue, moltcl.CodeOK:
			// fall through to increment
		default:
			return c
		}
		if c := interp.EvalTop(next); c.Code != moltcl.CodeOK {
			return c
		}
	}
	return moltcl.Ok(moltcl.NewString(""))
}

func cmdForeach[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	if len(args)%2 != 1 {
		return moltcl.Err(`wrong # args: should be "foreach varList list ?varList list ...? body"`)
	}
	body := args[len(args)-1].String()
	pairs := args[:len(args)-1]

	type group struct {
		names []string
		items []*moltcl.Obj
		pos   int
	}
	var groups []group
	maxIter := 0
	for k := 0; k < len(pairs); k += 2 {
		names, err := pairs[k].ObjList()
		if err != nil {
			return moltcl.Err(err.Error())
		}
		items, err := pairs[k+1].ObjList()
		if err != nil {
			return moltcl.Err(err.Error())
		}
		nameStrs := objStrings(names)
		if len(nameStrs) == 0 {
			return moltcl.Err("foreach varlist is empty")
		}
		g := group{names: nameStrs, items: items}
		groups = append(groups, g)
		need := (len(items) + len(nameStrs) - 1) / len(nameStrs)
		if need > maxIter {
			maxIter = need
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		for gi := range groups {
			g := &groups[gi]
			for _, name := range g.names {
				var v *moltcl.Obj
				if g.pos < len(g.items) {
					v = g.items[g.pos]
				} else {
					v = moltcl.NewString("")
				}
				g.pos++
				if _, err := interp.SetVar(name, v); err != nil {
					return moltcl.Err(err.Error())
				}
			}
		}
		c := interp.EvalBody(body)
		switch c.Code {
		case moltcl.CodeBreak:
			return moltcl.Ok(moltcl.NewString(""))
		case moltcl.CodeContinue, moltcl.CodeOK:
			continue
		default:
			return c
		}
	}
	return moltcl.Ok(moltcl.NewString(""))
}

func cmdIncr[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	name := args[0].String()
	delta := int64(1)
	if len(args) == 2 {
		n, err := args[1].Int()
		if err != nil {
			return moltcl.Err("expected integer but got \"" + args[1].String() + "\"")
		}
		delta = n
	}
	var cur int64
	if interp.ExistsVar(name) {
		v, err := interp.GetVar(name)
		if err != nil {
			return moltcl.Err(err.Error())
		}
		n, err := v.Int()
		if err != nil {
			return moltcl.Err("expected integer but got \"" + v.String() + "\"")
		}
		cur = n
	}
	result := moltcl.NewInt(cur + delta)
	if _, err := interp.SetVar(name, result); err != nil {
		return moltcl.Err(err.Error())
	}
	return moltcl.Ok(result)
}
