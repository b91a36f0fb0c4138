package moltcl

import (
	"fmt"
	"strconv"
	"strings"
)

// cell is one variable slot: either a scalar value, an array of elements,
// or an upvar link fully dereferenced to a cell in another scope. Links
// never chain (spec §4.4: "resolving a link yields a scalar or array cell,
// never another link").
type cell struct {
	scalar  *Obj
	array   map[string]*Obj
	isArray bool
}

func newScalarCell(v *Obj) *cell { return &cell{scalar: v} }
func newArrayCell() *cell        { return &cell{isArray: true, array: map[string]*Obj{}} }

// scope is one frame of the variable stack: a procedure invocation or the
// global frame. Names bound via upvar resolve through links to point
// directly at the owning frame's cell map entry.
type scope struct {
	vars  map[string]*cell
	links map[string]*linkTarget
	proc  string // name of the procedure this frame belongs to, "" for global
}

// linkTarget is where an upvar-bound name in this scope actually lives.
type linkTarget struct {
	owner *scope
	name  string
}

func newScope(proc string) *scope {
	return &scope{vars: map[string]*cell{}, links: map[string]*linkTarget{}, proc: proc}
}

// resolveCell finds the effective (name, scope) for a bare or array
// variable name in s, following an upvar link if one is bound, and reports
// whether a cell already exists there.
func (s *scope) resolveCell(name string) (*scope, *cell, bool) {
	if lt, ok := s.links[name]; ok {
		c, exists := lt.owner.vars[lt.name]
		return lt.owner, c, exists
	}
	c, exists := s.vars[name]
	return s, c, exists
}

// bindName returns the scope and storage name that name refers to in s,
// following any upvar link.
func (s *scope) bindName(name string) (*scope, string) {
	if lt, ok := s.links[name]; ok {
		return lt.owner, lt.name
	}
	return s, name
}

// varStack is the interpreter's call stack of scopes, index 0 is global.
type varStack struct {
	frames []*scope
}

func newVarStack() *varStack {
	return &varStack{frames: []*scope{newScope("")}}
}

func (v *varStack) global() *scope { return v.frames[0] }
func (v *varStack) current() *scope { return v.frames[len(v.frames)-1] }
func (v *varStack) depth() int      { return len(v.frames) }

func (v *varStack) push(proc string) *scope {
	s := newScope(proc)
	v.frames = append(v.frames, s)
	return s
}

func (v *varStack) pop() {
	v.frames = v.frames[:len(v.frames)-1]
}

// resolveLevel turns an upvar/uplevel level spec into a frame index. `#N` is
// absolute (N counted from the global frame, `#0`); a bare decimal is
// relative to the current frame, defaulting to 1 (the caller) when spec is
// empty.
func (v *varStack) resolveLevel(spec string) (int, error) {
	cur := len(v.frames) - 1
	if spec == "" {
		spec = "1"
	}
	if strings.HasPrefix(spec, "#") {
		n, err := strconv.Atoi(spec[1:])
		if err != nil {
			return 0, fmt.Errorf("bad level %q", spec)
		}
		if n < 0 || n >= len(v.frames) {
			return 0, fmt.Errorf("bad level %q", spec)
		}
		return n, nil
	}
	n, err := strconv.Atoi(spec)
	if err != nil {
		return 0, fmt.Errorf("bad level %q", spec)
	}
	idx := cur - n
	if idx < 0 || idx > cur {
		return 0, fmt.Errorf("bad level %q", spec)
	}
	return idx, nil
}

// splitName splits a variable reference into its base name and, if it uses
// name(index) syntax, the element index. hasIndex is false for bare scalar
// or whole-array names.
func splitName(ref string) (base, index string, hasIndex bool) {
	if !strings.HasSuffix(ref, ")") {
		return ref, "", false
	}
	open := strings.IndexByte(ref, '(')
	if open < 0 {
		return ref, "", false
	}
	return ref[:open], ref[open+1 : len(ref)-1], true
}

// getVar reads name (spec §4.4's get). name may use array(index) syntax.
func (v *varStack) getVar(name string) (*Obj, error) {
	base, index, hasIndex := splitName(name)
	owner, c, exists := v.current().resolveCell(base)
	if !exists {
		return nil, fmt.Errorf("can't read %q: no such variable", name)
	}
	_ = owner
	if hasIndex {
		if !c.isArray {
			return nil, fmt.Errorf("can't read %q: variable isn't array", name)
		}
		val, ok := c.array[index]
		if !ok {
			return nil, fmt.Errorf("can't read %q: no such element in array", name)
		}
		return val, nil
	}
	if c.isArray {
		return nil, fmt.Errorf("can't read %q: variable is array", name)
	}
	return c.scalar, nil
}

// setVar stores value under name (spec §4.4's set), creating the cell if
// absent, and returns the stored value.
func (v *varStack) setVar(name string, value *Obj) (*Obj, error) {
	base, index, hasIndex := splitName(name)
	owner, storeName := v.current().bindName(base)
	c, exists := owner.vars[storeName]
	if hasIndex {
		if !exists {
			c = newArrayCell()
			owner.vars[storeName] = c
		} else if !c.isArray {
			return nil, fmt.Errorf("can't set %q: variable isn't array", name)
		}
		c.array[index] = value
		return value, nil
	}
	if exists && c.isArray {
		return nil, fmt.Errorf("can't set %q: variable is array", name)
	}
	owner.vars[storeName] = newScalarCell(value)
	return value, nil
}

// unsetVar removes name, erroring unless lenient is set (spec §4.4's unset).
func (v *varStack) unsetVar(name string, lenient bool) error {
	base, index, hasIndex := splitName(name)
	cur := v.current()
	owner, storeName := cur.bindName(base)
	c, exists := owner.vars[storeName]
	if !exists || (hasIndex && (!c.isArray || func() bool { _, ok := c.array[index]; return !ok }())) {
		if lenient {
			return nil
		}
		return fmt.Errorf("can't unset %q: no such variable", name)
	}
	if hasIndex {
		delete(c.array, index)
		return nil
	}
	delete(owner.vars, storeName)
	delete(cur.links, base)
	return nil
}

// existsVar reports whether name is bound (spec §4.4's exists).
func (v *varStack) existsVar(name string) bool {
	base, index, hasIndex := splitName(name)
	_, c, exists := v.current().resolveCell(base)
	if !exists {
		return false
	}
	if hasIndex {
		if !c.isArray {
			return false
		}
		_, ok := c.array[index]
		return ok
	}
	return true
}

// upvar binds localName in the current scope to otherName at otherLevel,
// per spec §4.4. The target cell is created (as a scalar) if it does not
// yet exist, matching TCL's usual upvar-to-fresh-name idiom.
func (v *varStack) upvar(otherLevel, otherName, localName string) error {
	idx, err := v.resolveLevel(otherLevel)
	if err != nil {
		return err
	}
	target := v.frames[idx]
	base, _, _ := splitName(otherName)
	owner, storeName := target.bindName(base)
	if _, exists := owner.vars[storeName]; !exists {
		owner.vars[storeName] = newScalarCell(nil)
	}
	localBase, _, _ := splitName(localName)
	v.current().links[localBase] = &linkTarget{owner: owner, name: storeName}
	return nil
}

// namesMatching returns the names bound in the current scope, restricted to
// those matching pattern (a glob per [Match]), or all names if pattern is "".
func (v *varStack) namesMatching(pattern string) []string {
	cur := v.current()
	seen := map[string]bool{}
	var names []string
	add := func(n string) {
		if seen[n] {
			return
		}
		if pattern == "" || Match(pattern, n) {
			seen[n] = true
			names = append(names, n)
		}
	}
	for n := range cur.vars {
		add(n)
	}
	for n := range cur.links {
		add(n)
	}
	return names
}
