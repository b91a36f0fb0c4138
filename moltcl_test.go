// Package moltcl_test runs the literal input/output scenarios spec.md
// lists as testable properties, exercising moltcl together with its
// stdlib command set the way an embedding host would.
package moltcl_test

import (
	"testing"

	"moltcl"
	"moltcl/stdlib"
)

func newTestInterp() *moltcl.Interp[any] {
	i := moltcl.New[any](nil)
	stdlib.Register(i)
	return i
}

func TestScenarios(t *testing.T) {
	t.Run("incr and set roundtrip", func(t *testing.T) {
		i := newTestInterp()
		result, err := i.Eval("set x 1; incr x; set x")
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "2" {
			t.Errorf("got %q, want 2", result.String())
		}
	})

	t.Run("proc call with expr", func(t *testing.T) {
		i := newTestInterp()
		result, err := i.Eval(`proc add {a b} { return [expr {$a + $b}] }
add 2 3`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "5" {
			t.Errorf("got %q, want 5", result.String())
		}
	})

	t.Run("catch totality", func(t *testing.T) {
		i := newTestInterp()
		result, err := i.Eval(`catch { error "boom" MYCODE } msg`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "1" {
			t.Errorf("catch code = %q, want 1", result.String())
		}
		msg, err := i.GetVar("msg")
		if err != nil {
			t.Fatalf("GetVar: %v", err)
		}
		if msg.String() != "boom" {
			t.Errorf("msg = %q, want boom", msg.String())
		}
	})

	t.Run("list and lindex", func(t *testing.T) {
		i := newTestInterp()
		result, err := i.Eval(`list a {b c} d`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "a {b c} d" {
			t.Errorf("got %q, want %q", result.String(), "a {b c} d")
		}
		result, err = i.Eval(`lindex [list a {b c} d] 1`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "b c" {
			t.Errorf("got %q, want %q", result.String(), "b c")
		}
	})

	t.Run("upvar transitivity", func(t *testing.T) {
		i := newTestInterp()
		result, err := i.Eval(`
proc outer {} { set v 10; inner; set v }
proc inner {} { upvar 1 v w; set w 20 }
outer`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "20" {
			t.Errorf("outer's v after inner wrote through w = %q, want 20", result.String())
		}
		if i.ExistsVar("v") {
			t.Errorf("global v should not exist: outer's v was local, not global")
		}
	})

	t.Run("for loop with break", func(t *testing.T) {
		i := newTestInterp()
		result, err := i.Eval(`for {set i 0} {$i < 3} {incr i} { if {$i == 2} break }
set i`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "2" {
			t.Errorf("i = %q, want 2", result.String())
		}
	})

	t.Run("expr hex and binary literals, no octal", func(t *testing.T) {
		i := newTestInterp()
		result, err := i.Eval(`expr {0x10 + 0b10}`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "18" {
			t.Errorf("got %q, want 18", result.String())
		}
		result, err = i.Eval(`expr {010}`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "10" {
			t.Errorf("leading-zero literal = %q, want 10 (not octal 8)", result.String())
		}
	})

	t.Run("list round trip law", func(t *testing.T) {
		elems := []string{"a", "b c", "", "d{e", `f\g`}
		formatted := moltcl.FormatList(elems)
		parsed, err := moltcl.ParseList(formatted)
		if err != nil {
			t.Fatalf("ParseList: %v", err)
		}
		if len(parsed) != len(elems) {
			t.Fatalf("got %d elements, want %d", len(parsed), len(elems))
		}
		for idx, e := range elems {
			if parsed[idx] != e {
				t.Errorf("element %d = %q, want %q", idx, parsed[idx], e)
			}
		}
	})

	t.Run("arity enforcement", func(t *testing.T) {
		i := newTestInterp()
		i.RegisterCommand("needs2", 2, 2, func(interp *moltcl.Interp[any], ctx any, args []*moltcl.Obj) moltcl.Completion {
			return moltcl.Ok(moltcl.NewString("called"))
		})
		if _, err := i.Eval("needs2 onlyone"); err == nil {
			t.Fatal("expected an arity error")
		}
	})

	t.Run("bare top-level return is an error", func(t *testing.T) {
		i := newTestInterp()
		if _, err := i.Eval(`return hello`); err == nil {
			t.Fatal("expected an error for a top-level return")
		}
	})

	t.Run("bare top-level break and continue are errors", func(t *testing.T) {
		i := newTestInterp()
		if _, err := i.Eval(`break`); err == nil {
			t.Fatal("expected an error for a top-level break")
		}
		i2 := newTestInterp()
		if _, err := i2.Eval(`continue`); err == nil {
			t.Fatal("expected an error for a top-level continue")
		}
	})

	t.Run("catch around a custom return level", func(t *testing.T) {
		i := newTestInterp()
		result, err := i.Eval(`catch { return -code 5 foo } msg opts`)
		if err != nil {
			t.Fatalf("eval error: %v", err)
		}
		if result.String() != "5" {
			t.Errorf("catch code = %q, want 5", result.String())
		}
		msg, err := i.GetVar("msg")
		if err != nil {
			t.Fatalf("GetVar msg: %v", err)
		}
		if msg.String() != "foo" {
			t.Errorf("msg = %q, want foo", msg.String())
		}
		opts, err := i.GetVar("opts")
		if err != nil {
			t.Fatalf("GetVar opts: %v", err)
		}
		optsDict, err := opts.ObjDict()
		if err != nil {
			t.Fatalf("ObjDict: %v", err)
		}
		code, ok := optsDict.Get("-code")
		if !ok {
			t.Fatal("opts missing -code")
		}
		if code.String() != "5" {
			t.Errorf("opts(-code) = %q, want 5", code.String())
		}
	})
}
