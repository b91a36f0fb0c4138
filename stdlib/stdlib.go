// Package stdlib provides the non-control-flow built-in commands a
// complete moltcl installation needs: list, string, dict, and looping
// utilities layered on top of the evaluator core. It is a library atop
// moltcl, not part of it — embedders wanting a bare evaluator can skip
// Register entirely and install only the commands they need.
package stdlib

import "moltcl"

// Register installs every command in this package into i.
func Register[Ctx any](i *moltcl.Interp[Ctx]) {
	registerListCommands(i)
	registerStringCommands(i)
	registerDictCommands(i)
	registerLoopCommands(i)
	registerMiscCommands(i)
}
