package moltcl

import (
	"os"
	"strings"
)

// seedEnvArray populates the `env` array from the host process environment
// at construction time, per spec §6.
func (i *Interp[Ctx]) seedEnvArray() {
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		_, _ = i.vars.setVar("env("+k+")", NewString(v))
	}
}

// syncEnvWrite propagates a write to env(NAME) back to the host process
// environment when [WithEnvSync] is enabled; without it, writes stay local
// to the interpreter (spec §9: env write behavior is host-configurable).
func (i *Interp[Ctx]) syncEnvWrite(name string, value *Obj) {
	base, key, hasIndex := splitName(name)
	if base != "env" || !hasIndex {
		return
	}
	os.Setenv(key, value.String())
}
