package stdlib

import "moltcl"

func registerDictCommands[Ctx any](i *moltcl.Interp[Ctx]) {
	i.RegisterCommand("dict", 1, moltcl.ArgMax, cmdDict[Ctx])
}

func cmdDict[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	sub := args[0].String()
	rest := args[1:]
	switch sub {
	case "create":
		if len(rest)%2 != 0 {
			return moltcl.Err("wrong # args: should be an even number of key/value pairs")
		}
		dt := newDictType()
		for k := 0; k < len(rest); k += 2 {
			dt.Set(rest[k].String(), rest[k+1])
		}
		return moltcl.Ok(moltcl.NewObj(dt))
	case "get":
		if len(rest) < 1 {
			return moltcl.Err(`wrong # args: should be "dict get dictionary ?key ...?"`)
		}
		dt, err := rest[0].ObjDict()
		if err != nil {
			return moltcl.Err(err.Error())
		}
		cur := dt
		var val *moltcl.Obj
		for k, key := range rest[1:] {
			v, ok := cur.Get(key.String())
			if !ok {
				return moltcl.Err("key \"" + key.String() + "\" not known in dictionary")
			}
			val = v
			if k < len(rest)-2 {
				cur, err = v.ObjDict()
				if err != nil {
					return moltcl.Err(err.Error())
				}
			}
		}
		return moltcl.Ok(val)
	case "exists":
		if len(rest) < 2 {
			return moltcl.Err(`wrong # args: should be "dict exists dictionary key ?key ...?"`)
		}
		dt, err := rest[0].ObjDict()
		if err != nil {
			return moltcl.Ok(moltcl.NewBool(false))
		}
		cur := dt
		for k, key := range rest[1:] {
			v, ok := cur.Get(key.String())
			if !ok {
				return moltcl.Ok(moltcl.NewBool(false))
			}
			if k < len(rest)-2 {
				cur, err = v.ObjDict()
				if err != nil {
					return moltcl.Ok(moltcl.NewBool(false))
				}
			}
		}
		return moltcl.Ok(moltcl.NewBool(true))
	case "set":
		if len(rest) < 3 {
			return moltcl.Err(`wrong # args: should be "dict set varName key ?key ...? value"`)
		}
		name := rest[0].String()
		keys := rest[1 : len(rest)-1]
		value := rest[len(rest)-1]
		var dt *moltcl.DictType
		if interp.ExistsVar(name) {
			cur, err := interp.GetVar(name)
			if err != nil {
				return moltcl.Err(err.Error())
			}
			dt, err = cur.ObjDict()
			if err != nil {
				return moltcl.Err(err.Error())
			}
			dt = dt.Dup().(*moltcl.DictType)
		} else {
			dt = newDictType()
		}
		if err := dictSetPath(dt, keys, value); err != nil {
			return moltcl.Err(err.Error())
		}
		d := moltcl.NewObj(dt)
		if _, err := interp.SetVar(name, d); err != nil {
			return moltcl.Err(err.Error())
		}
		return moltcl.Ok(d)
	case "unset":
		if len(rest) < 2 {
			return moltcl.Err(`wrong # args: should be "dict unset varName key ?key ...?"`)
		}
		name := rest[0].String()
		if !interp.ExistsVar(name) {
			return moltcl.Ok(moltcl.NewString(""))
		}
		cur, err := interp.GetVar(name)
		if err != nil {
			return moltcl.Err(err.Error())
		}
		orig, err := cur.ObjDict()
		if err != nil {
			return moltcl.Err(err.Error())
		}
		dt := orig.Dup().(*moltcl.DictType)
		keys := rest[1:]
		target := dt
		for _, key := range keys[:len(keys)-1] {
			v, ok := target.Get(key.String())
			if !ok {
				return moltcl.Ok(cur)
			}
			nested, err := v.ObjDict()
			if err != nil {
				return moltcl.Err(err.Error())
			}
			nestedCopy := nested.Dup().(*moltcl.DictType)
			target.Set(key.String(), moltcl.NewObj(nestedCopy))
			target = nestedCopy
		}
		target.Delete(keys[len(keys)-1].String())
		d := moltcl.NewObj(dt)
		if _, err := interp.SetVar(name, d); err != nil {
			return moltcl.Err(err.Error())
		}
		return moltcl.Ok(d)
	case "keys":
		if len(rest) != 1 {
			return moltcl.Err(`wrong # args: should be "dict keys dictionary"`)
		}
		dt, err := rest[0].ObjDict()
		if err != nil {
			return moltcl.Err(err.Error())
		}
		items := make([]*moltcl.Obj, len(dt.Order))
		for i, k := range dt.Order {
			items[i] = moltcl.NewString(k)
		}
		return moltcl.Ok(moltcl.NewList(items...))
	case "values":
		if len(rest) != 1 {
			return moltcl.Err(`wrong # args: should be "dict values dictionary"`)
		}
		dt, err := rest[0].ObjDict()
		if err != nil {
			return moltcl.Err(err.Error())
		}
		items := make([]*moltcl.Obj, len(dt.Order))
		for i, k := range dt.Order {
			items[i] = dt.Items[k]
		}
		return moltcl.Ok(moltcl.NewList(items...))
	case "size":
		if len(rest) != 1 {
			return moltcl.Err(`wrong # args: should be "dict size dictionary"`)
		}
		dt, err := rest[0].ObjDict()
		if err != nil {
			return moltcl.Err(err.Error())
		}
		return moltcl.Ok(moltcl.NewInt(int64(len(dt.Order))))
	case "for":
		return dictFor(interp, rest)
	case "merge":
		dt := newDictType()
		for _, arg := range rest {
			src, err := arg.ObjDict()
			if err != nil {
				return moltcl.Err(err.Error())
			}
			for _, k := range src.Order {
				dt.Set(k, src.Items[k])
			}
		}
		return moltcl.Ok(moltcl.NewObj(dt))
	default:
		return moltcl.Err("unknown or ambiguous subcommand \"" + sub + "\": must be create, get, exists, set, unset, keys, values, size, merge, or for")
	}
}

func newDictType() *moltcl.DictType {
	return &moltcl.DictType{Items: make(map[string]*moltcl.Obj)}
}

func dictSetPath(dt *moltcl.DictType, keys []*moltcl.Obj, value *moltcl.Obj) error {
	if len(keys) == 1 {
		dt.Set(keys[0].String(), value)
		return nil
	}
	key := keys[0].String()
	var ndt *moltcl.DictType
	if existing, ok := dt.Get(key); ok {
		nested, err := existing.ObjDict()
		if err != nil {
			return err
		}
		ndt = nested.Dup().(*moltcl.DictType)
	} else {
		ndt = newDictType()
	}
	if err := dictSetPath(ndt, keys[1:], value); err != nil {
		return err
	}
	dt.Set(key, moltcl.NewObj(ndt))
	return nil
}

func dictFor[Ctx any](interp *moltcl.Interp[Ctx], rest []*moltcl.Obj) moltcl.Completion {
	if len(rest) != 3 {
		return moltcl.Err(`wrong # args: should be "dict for {keyVar valueVar} dictionary body"`)
	}
	vars, err := rest[0].ObjList()
	if err != nil || len(vars) != 2 {
		return moltcl.Err("must have exactly two variable names")
	}
	dt, err := rest[1].ObjDict()
	if err != nil {
		return moltcl.Err(err.Error())
	}
	body := rest[2].String()
	keyVar, valVar := vars[0].String(), vars[1].String()
	for _, k := range dt.Order {
		if _, err := interp.SetVar(keyVar, moltcl.NewString(k)); err != nil {
			return moltcl.Err(err.Error())
		}
		if _, err := interp.SetVar(valVar, dt.Items[k]); err != nil {
			return moltcl.Err(err.Error())
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
