package moltcl

import (
	"fmt"
	"strconv"
)

// registerControlCommands installs the control-flow, variable-scope, and
// procedure-definition commands that need direct access to Interp's
// unexported state (spec.md §1: "built-in commands... that interact with
// evaluator state" stay part of the core, unlike moltcl/stdlib's library
// commands).
func registerControlCommands[Ctx any](i *Interp[Ctx]) {
	i.RegisterCommand("return", 0, ArgMax, cmdReturn[Ctx])
	i.RegisterCommand("break", 0, 0, cmdBreak[Ctx])
	i.RegisterCommand("continue", 0, 0, cmdContinue[Ctx])
	i.RegisterCommand("error", 1, 3, cmdError[Ctx])
	i.RegisterCommand("catch", 1, 3, cmdCatch[Ctx])
	i.RegisterCommand("uplevel", 1, 2, cmdUplevel[Ctx])
	i.RegisterCommand("upvar", 2, ArgMax, cmdUpvar[Ctx])
	i.RegisterCommand("global", 1, ArgMax, cmdGlobal[Ctx])
	i.RegisterCommand("set", 1, 2, cmdSet[Ctx])
	i.RegisterCommand("unset", 1, ArgMax, cmdUnset[Ctx])
	i.RegisterCommand("proc", 3, 3, cmdProc[Ctx])
	i.RegisterCommand("rename", 2, 2, cmdRename[Ctx])
	i.RegisterCommand("info", 1, 2, cmdInfo[Ctx])
}

// cmdReturn implements `return ?-code C? ?-errorcode L? ?-errorinfo S? ?value?`.
func cmdReturn[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	code := CodeReturn
	var errorCode *Obj
	var errorInfo string
	i := 0
	for i+1 < len(args) {
		switch args[i].String() {
		case "-code":
			n, err := codeFromSpec(args[i+1].String())
			if err != nil {
				return Err(err.Error())
			}
			code = n
		case "-errorcode":
			errorCode = args[i+1]
		case "-errorinfo":
			errorInfo = args[i+1].String()
		default:
			goto done
		}
		i += 2
	}
done:
	var value *Obj
	switch len(args) - i {
	case 0:
		value = NewString("")
	case 1:
		value = args[i]
	default:
		return Err(`wrong # args: should be "return ?-code code? ?value?"`)
	}
	return Completion{Code: code, Value: value, ErrorCode: errorCode, ErrorInfo: errorInfo}
}

// codeFromSpec parses the -code argument of return: a named code
// (ok/error/return/break/continue) or an integer level.
func codeFromSpec(s string) (Code, error) {
	switch s {
	case "ok":
		return CodeOK, nil
	case "error":
		return CodeError, nil
	case "return":
		return CodeReturn, nil
	case "break":
		return CodeBreak, nil
	case "continue":
		return CodeContinue, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return CodeOK, fmt.Errorf("bad completion code %q", s)
	}
	switch n {
	case 0:
		return CodeOK, nil
	case 1:
		return CodeError, nil
	case 2:
		return CodeReturn, nil
	case 3:
		return CodeBreak, nil
	case 4:
		return CodeContinue, nil
	}
	return Level(n), nil
}

func cmdBreak[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	return Completion{Code: CodeBreak, Value: NewString("")}
}

func cmdContinue[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	return Completion{Code: CodeContinue, Value: NewString("")}
}

// cmdError implements `error msg ?info? ?code?`.
func cmdError[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	msg := args[0].String()
	c := Err(msg)
	if len(args) >= 2 {
		c.ErrorInfo = args[1].String()
	}
	if len(args) >= 3 {
		c.ErrorCode = args[2]
	}
	return c
}

// cmdCatch implements `catch body ?varname? ?optionsVar?`, total per
// spec.md §8: it always returns OK with an integer completion code, unless
// its own arguments are wrong (already checked by the registry).
func cmdCatch[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	body := args[0].String()
	result := interp.EvalBody(body)
	code := int(result.Code)
	if lvl, ok := result.Code.IsLevel(); ok {
		code = lvl
	}
	if len(args) >= 2 {
		if _, err := interp.SetVar(args[1].String(), result.Value); err != nil {
			return Err(err.Error())
		}
	}
	if len(args) >= 3 {
		opts := &DictType{Items: map[string]*Obj{}}
		opts.Set("-code", NewInt(int64(code)))
		errorCode := result.ErrorCode
		if errorCode == nil {
			errorCode = NewString("NONE")
		}
		opts.Set("-errorcode", errorCode)
		opts.Set("-errorinfo", NewString(result.ErrorInfo))
		if _, err := interp.SetVar(args[2].String(), NewObj(opts)); err != nil {
			return Err(err.Error())
		}
	}
	return Ok(NewInt(int64(code)))
}

// cmdUplevel implements `uplevel ?level? script`.
func cmdUplevel[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	level := "1"
	script := args[0].String()
	if len(args) == 2 {
		level = args[0].String()
		script = args[1].String()
	}
	return interp.Uplevel(level, script)
}

// cmdUpvar implements `upvar ?level? otherName localName ?otherName localName ...?`.
func cmdUpvar[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	level := "1"
	rest := args
	if len(args)%2 == 1 {
		level = args[0].String()
		rest = args[1:]
	}
	if len(rest) == 0 || len(rest)%2 != 0 {
		return Err(`wrong # args: should be "upvar ?level? otherVar localVar ?otherVar localVar ...?"`)
	}
	for k := 0; k < len(rest); k += 2 {
		if err := interp.Upvar(level, rest[k].String(), rest[k+1].String()); err != nil {
			return Err(err.Error())
		}
	}
	return Ok(NewString(""))
}

// cmdGlobal implements `global name ?name ...?`: an upvar shortcut binding
// each name to the same name in the absolute global frame (#0).
func cmdGlobal[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	for _, a := range args {
		name := a.String()
		if err := interp.Upvar("#0", name, name); err != nil {
			return Err(err.Error())
		}
	}
	return Ok(NewString(""))
}

// cmdSet implements `set name ?value?`.
func cmdSet[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	name := args[0].String()
	if len(args) == 1 {
		v, err := interp.GetVar(name)
		if err != nil {
			return Err(err.Error())
		}
		return Ok(v)
	}
	v, err := interp.SetVar(name, args[1])
	if err != nil {
		return Err(err.Error())
	}
	return Ok(v)
}

// cmdUnset implements `unset ?-nocomplain? name ?name ...?`.
func cmdUnset[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	lenient := false
	for len(args) > 0 && args[0].String() == "-nocomplain" {
		lenient = true
		args = args[1:]
	}
	for _, a := range args {
		if err := interp.UnsetVar(a.String(), lenient); err != nil {
			return Err(err.Error())
		}
	}
	return Ok(NewString(""))
}

// cmdProc implements `proc name paramSpec body`.
func cmdProc[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	name := args[0].String()
	spec, err := ParseList(args[1].String())
	if err != nil {
		return Err(err.Error())
	}
	if err := interp.DefineProcedure(name, spec, args[2].String()); err != nil {
		return Err(err.Error())
	}
	return Ok(NewString(""))
}

// cmdRename implements `rename oldName newName`.
func cmdRename[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	if err := interp.RenameCommand(args[0].String(), args[1].String()); err != nil {
		return Err(err.Error())
	}
	return Ok(NewString(""))
}

// cmdInfo implements a small `info` introspection subset: `info commands
// ?pattern?`, `info vars ?pattern?`, `info level`, `info exists name`.
func cmdInfo[Ctx any](interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
	sub := args[0].String()
	rest := args[1:]
	switch sub {
	case "commands":
		pattern := ""
		if len(rest) > 0 {
			pattern = rest[0].String()
		}
		return Ok(NewString(FormatList(interp.CommandNames(pattern))))
	case "vars":
		pattern := ""
		if len(rest) > 0 {
			pattern = rest[0].String()
		}
		return Ok(NewString(FormatList(interp.vars.namesMatching(pattern))))
	case "level":
		return Ok(NewInt(int64(interp.ScopeLevel())))
	case "exists":
		if len(rest) != 1 {
			return Err(`wrong # args: should be "info exists varName"`)
		}
		return Ok(NewBool(interp.ExistsVar(rest[0].String())))
	default:
		return Err(fmt.Sprintf("unknown or ambiguous subcommand %q: must be commands, exists, level, or vars", sub))
	}
}
