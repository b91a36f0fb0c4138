package stdlib

import (
	"fmt"
	"os"

	"moltcl"
)

func registerMiscCommands[Ctx any](i *moltcl.Interp[Ctx]) {
	i.RegisterCommand("puts", 1, 3, cmdPuts[Ctx])
}

func cmdPuts[Ctx any](interp *moltcl.Interp[Ctx], ctx Ctx, args []*moltcl.Obj) moltcl.Completion {
	nonewline := false
	if args[0].String() == "-nonewline" {
		nonewline = true
		args = args[1:]
	}
	w := os.Stdout
	if len(args) == 2 {
		switch args[0].String() {
		case "stdout":
			w = os.Stdout
		case "stderr":
			w = os.Stderr
		default:
			return moltcl.Err("can not find channel named \"" + args[0].String() + "\"")
		}
		args = args[1:]
	}
	if len(args) != 1 {
		return moltcl.Err(`wrong # args: should be "puts ?-nonewline? ?channelId? string"`)
	}
	if nonewline {
		fmt.Fprint(w, args[0].String())
	} else {
		fmt.Fprintln(w, args[0].String())
	}
	return moltcl.Ok(moltcl.NewString(""))
}
