package moltcl

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// defaultRecursionLimit bounds nested eval/procedure-call depth (spec §7:
// "the evaluator should attempt to impose a configurable recursion-depth
// ceiling and surface an ERROR when exceeded rather than crashing").
const defaultRecursionLimit = 1000

// Logger is the ambient logging hook a host may supply; see [WithLogger]
// and [Interp.SetLogger]. Interp calls it for diagnostic events that are
// not part of the script result (recursion-limit trips, unknown-command
// lookups). A nil Logger disables logging; the zero value of [Interp] has
// none installed, keeping the evaluator silent by default.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Interp is a TCL interpreter instance, generic over a host-supplied
// context datum Ctx visible to native commands.
//
// Create one with [New] and reuse it across calls to [Interp.Eval]; there
// is no Close, since the type owns no external resources.
//
//	interp := moltcl.New[any](nil)
//	result, err := interp.Eval("expr {2 + 2}")
type Interp[Ctx any] struct {
	ctx    Ctx
	vars   *varStack
	cmds   *registry[Ctx]
	logger Logger

	recursionLimit int
	depth          int

	envArray bool
	envSync  bool

	// cancel is the single polled extension point spec §5 asks
	// implementers to leave for a future cancellation hook: checked at
	// the top of evalCommand, set by the unexported cancelled hook, and
	// not yet wired to any public API.
	cancel atomic.Bool
}

// cancelled marks the interpreter so its next evalCommand call fails
// with an ERROR instead of dispatching. Unexported: no public API wires
// host-driven cancellation yet, per spec §5.
func (i *Interp[Ctx]) cancelled() {
	i.cancel.Store(true)
}

// Option configures an [Interp] at construction time, following the
// functional-options shape the rest of the ecosystem uses for optional
// interpreter setup.
type Option[Ctx any] func(*Interp[Ctx])

// WithRecursionLimit overrides the default nested-eval depth ceiling.
func WithRecursionLimit[Ctx any](n int) Option[Ctx] {
	return func(i *Interp[Ctx]) { i.recursionLimit = n }
}

// WithLogger attaches a diagnostic logger; see [Logger].
func WithLogger[Ctx any](l Logger) Option[Ctx] {
	return func(i *Interp[Ctx]) { i.logger = l }
}

// WithEnvArray populates the `env` array from the host process environment
// at construction time (spec §6's "designated array variable env").
func WithEnvArray[Ctx any](enabled bool) Option[Ctx] {
	return func(i *Interp[Ctx]) { i.envArray = enabled }
}

// WithEnvSync additionally propagates `env` writes back to the host process
// environment; without it, writes are local to the interpreter (spec §9:
// "behavior of env writes... is intentionally host-configurable").
func WithEnvSync[Ctx any](enabled bool) Option[Ctx] {
	return func(i *Interp[Ctx]) { i.envSync = enabled }
}

// New creates an interpreter carrying ctx, with the core control-flow
// commands registered. Host and stdlib packages register additional
// commands with [Interp.RegisterCommand] or [RegisterFunc].
func New[Ctx any](ctx Ctx, opts ...Option[Ctx]) *Interp[Ctx] {
	interp := &Interp[Ctx]{
		ctx:            ctx,
		vars:           newVarStack(),
		cmds:           newRegistry[Ctx](),
		recursionLimit: defaultRecursionLimit,
		envArray:       true,
	}
	for _, opt := range opts {
		opt(interp)
	}
	registerControlCommands(interp)
	registerExprCommand(interp)
	if interp.envArray {
		interp.seedEnvArray()
	}
	return interp
}

// Context returns the host context datum.
func (i *Interp[Ctx]) Context() Ctx { return i.ctx }

// StackDepth returns the current nested-eval/call depth.
func (i *Interp[Ctx]) StackDepth() int { return i.depth }

// ScopeLevel returns the index of the current variable scope (0 = global).
func (i *Interp[Ctx]) ScopeLevel() int { return i.vars.depth() - 1 }

// SetLogger installs or replaces the interpreter's diagnostic logger.
func (i *Interp[Ctx]) SetLogger(l Logger) { i.logger = l }

func (i *Interp[Ctx]) logf(format string, args ...any) {
	if i.logger != nil {
		i.logger.Debugf(format, args...)
	}
}

// RegisterCommand installs a native command under name, with the given
// argument count bounds (max may be [ArgMax] for unbounded), per spec §6.
func (i *Interp[Ctx]) RegisterCommand(name string, min, max int, fn NativeFunc[Ctx]) {
	i.cmds.define(name, min, max, fn)
}

// DefineProcedure installs a script-defined procedure, validating its
// parameter spec per spec §4.5.
func (i *Interp[Ctx]) DefineProcedure(name string, paramSpec []string, body string) error {
	params, err := parseParamSpec(paramSpec)
	if err != nil {
		return err
	}
	proc, err := newProcedure(params, body)
	if err != nil {
		return err
	}
	i.cmds.defineProc(name, proc)
	return nil
}

// parseParamSpec turns a TCL-style parameter list (each entry either a bare
// name or a two-element `{name default}` list) into procedure parameters.
func parseParamSpec(spec []string) ([]param, error) {
	params := make([]param, 0, len(spec))
	for _, entry := range spec {
		if strings.HasPrefix(entry, "{") {
			trimmed := strings.TrimSuffix(strings.TrimPrefix(entry, "{"), "}")
			parts, err := ParseList(trimmed)
			if err != nil || len(parts) != 2 {
				return nil, fmt.Errorf("bad parameter default %q", entry)
			}
			params = append(params, param{name: parts[0], hasDefault: true, deflt: parts[1]})
			continue
		}
		parts, err := ParseList(entry)
		if err == nil && len(parts) == 2 {
			params = append(params, param{name: parts[0], hasDefault: true, deflt: parts[1]})
			continue
		}
		params = append(params, param{name: entry})
	}
	return params, nil
}

// RenameCommand renames a registered command, or deletes it if to is "".
func (i *Interp[Ctx]) RenameCommand(from, to string) error {
	return i.cmds.rename(from, to)
}

// CommandNames lists registered command names, optionally glob-filtered.
func (i *Interp[Ctx]) CommandNames(pattern string) []string {
	return i.cmds.names(pattern)
}

// GetVar reads a variable (spec §4.4).
func (i *Interp[Ctx]) GetVar(name string) (*Obj, error) {
	return i.vars.getVar(name)
}

// SetVar stores a variable, creating it if absent.
func (i *Interp[Ctx]) SetVar(name string, value *Obj) (*Obj, error) {
	if i.envSync && strings.HasPrefix(name, "env(") {
		i.syncEnvWrite(name, value)
	}
	return i.vars.setVar(name, value)
}

// UnsetVar removes a variable.
func (i *Interp[Ctx]) UnsetVar(name string, lenient bool) error {
	return i.vars.unsetVar(name, lenient)
}

// ExistsVar reports whether a variable is bound.
func (i *Interp[Ctx]) ExistsVar(name string) bool {
	return i.vars.existsVar(name)
}

// Eval parses and runs script as a top-level script: a leaked RETURN,
// BREAK, or CONTINUE is normalized to ERROR per spec §4.7, and the result
// is reduced to a plain (value, error) pair for host convenience.
func (i *Interp[Ctx]) Eval(script string) (*Obj, error) {
	c := i.EvalTop(script)
	if c.Code == CodeOK {
		return c.Value, nil
	}
	return nil, c.asError()
}

// EvalTop parses and runs script, returning the raw top-level [Completion]
// with loop/proc control codes normalized to ERROR (spec §4.7).
func (i *Interp[Ctx]) EvalTop(script string) Completion {
	c := i.evalSource(script)
	return normalizeTopLevel(c)
}

// EvalBody parses and runs script as a loop body: BREAK/CONTINUE/RETURN
// pass through uncorrected for the caller (a loop command, typically) to
// interpret, per spec §4.6/§4.7's "body evaluation mode".
func (i *Interp[Ctx]) EvalBody(script string) Completion {
	return i.evalSource(script)
}

func normalizeTopLevel(c Completion) Completion {
	switch c.Code {
	case CodeOK, CodeError:
		return c
	case CodeReturn:
		return Err(`invoked "return" outside of a proc`)
	case CodeBreak:
		return Err(`invoked "break" outside of a loop`)
	case CodeContinue:
		return Err(`invoked "continue" outside of a loop`)
	default:
		if n, ok := c.Code.IsLevel(); ok {
			return Err(fmt.Sprintf("command returned bad completion code %d", n))
		}
		return Err(fmt.Sprintf("command returned bad completion code %d", int(c.Code)))
	}
}

// evalSource parses script one command at a time, running each command
// before the next is parsed, and short circuits on the first non-OK
// completion or parse error.
func (i *Interp[Ctx]) evalSource(script string) Completion {
	p := NewParser(script)
	last := Ok(NewString(""))
	for {
		p.skipSeparators()
		if p.atEnd() {
			return last
		}
		cmd, err := p.parseCommand()
		if err != nil {
			return Err(err.Error())
		}
		if len(cmd.Words) == 0 {
			continue
		}
		c := i.evalCommand(cmd)
		if !c.IsOk() {
			return c
		}
		last = c
	}
}

func (i *Interp[Ctx]) evalScript(s *Script) Completion {
	var last Completion = Ok(NewString(""))
	for _, cmd := range s.Commands {
		c := i.evalCommand(cmd)
		if !c.IsOk() {
			return c
		}
		last = c
	}
	return last
}

// evalCommand substitutes a command's words and dispatches it, per spec
// §4.6.
func (i *Interp[Ctx]) evalCommand(cmd Command) Completion {
	if i.cancel.Load() {
		return Err("evaluation cancelled")
	}
	words := make([]*Obj, 0, len(cmd.Words))
	for _, w := range cmd.Words {
		v, c := i.substituteWord(w)
		if c != nil {
			return *c
		}
		words = append(words, v)
	}
	if len(words) == 0 {
		return Ok(NewString(""))
	}
	name := words[0].String()
	return i.dispatch(name, words[1:], cmd)
}

// substituteWord evaluates a word's parts. A single-part word returns that
// part's Obj directly, preserving its cached typed view (shimmering); a
// multi-part word concatenates parts' string forms into a new string Obj.
// If a part's substitution produces a non-OK completion, it is returned via
// the second result and the word's value is undefined.
func (i *Interp[Ctx]) substituteWord(w Word) (*Obj, *Completion) {
	if len(w.Parts) == 1 {
		return i.substitutePart(w.Parts[0])
	}
	var b strings.Builder
	for _, p := range w.Parts {
		v, c := i.substitutePart(p)
		if c != nil {
			return nil, c
		}
		b.WriteString(v.String())
	}
	return NewString(b.String()), nil
}

func (i *Interp[Ctx]) substitutePart(p Part) (*Obj, *Completion) {
	switch p.Kind {
	case PartLiteral:
		return NewString(p.Literal), nil
	case PartVar:
		name := p.Name
		if p.IsArray {
			idx, c := i.substituteParts(p.Index)
			if c != nil {
				return nil, c
			}
			name = fmt.Sprintf("%s(%s)", p.Name, idx)
		}
		v, err := i.vars.getVar(name)
		if err != nil {
			c := Err(err.Error())
			return nil, &c
		}
		return v, nil
	case PartCmd:
		c := i.evalNested(p.Script)
		if c.Code != CodeOK {
			return nil, &c
		}
		return c.Value, nil
	default:
		panic("moltcl: unknown part kind")
	}
}

// substituteParts concatenates the string form of each part, used for
// array-index sub-scripts.
func (i *Interp[Ctx]) substituteParts(parts []Part) (string, *Completion) {
	var b strings.Builder
	for _, p := range parts {
		v, c := i.substitutePart(p)
		if c != nil {
			return "", c
		}
		b.WriteString(v.String())
	}
	return b.String(), nil
}

// evalNested runs a command-substitution or uplevel/eval script one
// recursion level deeper, enforcing the recursion ceiling.
func (i *Interp[Ctx]) evalNested(script string) Completion {
	i.depth++
	defer func() { i.depth-- }()
	if i.depth > i.recursionLimit {
		i.logf("recursion limit %d exceeded", i.recursionLimit)
		return Err("too many nested evaluations (infinite loop?)")
	}
	return i.evalSource(script)
}

// dispatch resolves name in the command registry and invokes it, checking
// arity and translating RETURN/error-info per spec §4.5/§4.6/§7.
func (i *Interp[Ctx]) dispatch(name string, args []*Obj, src Command) Completion {
	cmd, ok := i.cmds.lookup(name)
	if !ok {
		i.logf("invalid command name %q", name)
		return Err(fmt.Sprintf("invalid command name %q", name))
	}
	if len(args) < cmd.min || (cmd.max != ArgMax && len(args) > cmd.max) {
		return Err(fmt.Sprintf(`wrong # args: should be "%s"`, cmd.usage()))
	}
	var c Completion
	if cmd.proc != nil {
		c = i.callProcedure(cmd, args)
	} else {
		c = cmd.fn(i, i.ctx, args)
	}
	if c.Code == CodeError {
		c.ErrorInfo = appendErrorInfo(c.ErrorInfo, name, src)
	}
	return c
}

// appendErrorInfo appends a stack-trace line for the frame the error is
// crossing, per spec §7 ("every frame that an ERROR crosses appends a line
// to error_info").
func appendErrorInfo(info, name string, src Command) string {
	line := fmt.Sprintf(`    while executing "%s"`, elideCommand(src))
	if info == "" {
		return line
	}
	return info + "\n" + line
}

const errorInfoElideLimit = 60

// elideCommand renders src's source words, joined by spaces, truncated to
// errorInfoElideLimit runes with an ellipsis (spec §7's "elided form of the
// whole command"; the exact truncation length is not spec-mandated and is
// fixed here as an implementation choice).
func elideCommand(src Command) string {
	var b strings.Builder
	for idx, w := range src.Words {
		if idx > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(wordSource(w))
	}
	s := b.String()
	runes := []rune(s)
	if len(runes) <= errorInfoElideLimit {
		return s
	}
	return string(runes[:errorInfoElideLimit]) + "..."
}

// wordSource renders a word approximately as written, for error messages
// only; it does not need to round-trip.
func wordSource(w Word) string {
	var b strings.Builder
	for _, p := range w.Parts {
		switch p.Kind {
		case PartLiteral:
			b.WriteString(p.Literal)
		case PartVar:
			b.WriteByte('$')
			b.WriteString(p.Name)
		case PartCmd:
			b.WriteByte('[')
			b.WriteString(p.Script)
			b.WriteByte(']')
		}
	}
	return b.String()
}

// callProcedure pushes a fresh scope, binds parameters, evaluates the body,
// and pops the scope, per spec §4.5.
func (i *Interp[Ctx]) callProcedure(cmd *command[Ctx], args []*Obj) Completion {
	i.depth++
	defer func() { i.depth-- }()
	if i.depth > i.recursionLimit {
		i.logf("recursion limit %d exceeded in proc %q", i.recursionLimit, cmd.name)
		return Err("too many nested evaluations (infinite loop?)")
	}
	s := i.vars.push(cmd.name)
	cmd.proc.bind(s, args)
	c := i.evalSource(cmd.proc.body)
	i.vars.pop()
	switch c.Code {
	case CodeReturn:
		return Ok(c.Value)
	case CodeBreak:
		return Err(`invoked "break" outside of a loop`)
	case CodeContinue:
		return Err(`invoked "continue" outside of a loop`)
	default:
		return c
	}
}

// Uplevel evaluates script in the scope at level (upvar/uplevel encoding,
// spec §4.4/§4.6), returning its completion unaltered.
func (i *Interp[Ctx]) Uplevel(level, script string) Completion {
	idx, err := i.vars.resolveLevel(level)
	if err != nil {
		return Err(err.Error())
	}
	// Copy rather than reslice: appends made while running script (nested
	// procedure calls) must not clobber the original stack's backing array
	// above idx, which we restore afterward.
	truncated := make([]*scope, idx+1)
	copy(truncated, i.vars.frames[:idx+1])
	saved := i.vars.frames
	i.vars.frames = truncated
	c := i.evalSource(script)
	i.vars.frames = saved
	return c
}

// Upvar binds localName in the current scope to otherName at otherLevel.
func (i *Interp[Ctx]) Upvar(otherLevel, otherName, localName string) error {
	return i.vars.upvar(otherLevel, otherName, localName)
}
