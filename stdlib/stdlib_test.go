package stdlib_test

import (
	"testing"

	"moltcl"
	"moltcl/stdlib"
)

func newInterp() *moltcl.Interp[any] {
	i := moltcl.New[any](nil)
	stdlib.Register(i)
	return i
}

func eval(t *testing.T, i *moltcl.Interp[any], script string) string {
	t.Helper()
	result, err := i.Eval(script)
	if err != nil {
		t.Fatalf("eval %q: %v", script, err)
	}
	return result.String()
}

func TestListCommands(t *testing.T) {
	cases := []struct {
		name, script, want string
	}{
		{"llength", "llength {a b c}", "3"},
		{"lappend", "set l {a b}; lappend l c d; set l", "a b c d"},
		{"linsert", "linsert {a b c} 1 x", "a x b c"},
		{"lrange", "lrange {a b c d} 1 2", "b c"},
		{"lreplace", "lreplace {a b c d} 1 2 x y z", "a x y z d"},
		{"lsearch found", "lsearch {a b c} b", "1"},
		{"lsearch not found", "lsearch {a b c} z", "-1"},
		{"lsearch glob", "lsearch -glob {abc def} a*", "0"},
		{"lsort ascii", "lsort {c a b}", "a b c"},
		{"lsort integer", "lsort -integer {10 9 2}", "2 9 10"},
		{"join", "join {a b c} ,", "a,b,c"},
		{"split", "split a,b,c ,", "a b c"},
		{"lindex end", "lindex {a b c} end", "c"},
		{"lindex nested", "lindex {a {b c} d} 1 0", "b"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			i := newInterp()
			if got := eval(t, i, c.script); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestStringCommands(t *testing.T) {
	cases := []struct {
		name, script, want string
	}{
		{"length", "string length hello", "5"},
		{"index", "string index hello 1", "e"},
		{"range", "string range hello 1 3", "ell"},
		{"toupper", "string toupper hello", "HELLO"},
		{"tolower", "string tolower HELLO", "hello"},
		{"trim", `string trim "  hi  "`, "hi"},
		{"compare eq", "string compare abc abc", "0"},
		{"first", "string first b abcbc", "1"},
		{"last", "string last b abcbc", "3"},
		{"repeat", "string repeat ab 3", "ababab"},
		{"match", "string match a*c abc", "1"},
		{"reverse", "string reverse abc", "cba"},
		{"is integer true", "string is integer 42", "1"},
		{"is integer false", "string is integer abc", "0"},
		{"format d", "format {%d-%s} 5 hi", "5-hi"},
		{"format hex", "format %x 255", "ff"},
		{"append", "set s foo; append s bar baz; set s", "foobarbaz"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			i := newInterp()
			if got := eval(t, i, c.script); got != c.want {
				t.Errorf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestDictCommands(t *testing.T) {
	t.Run("create get", func(t *testing.T) {
		i := newInterp()
		if got := eval(t, i, "dict get [dict create a 1 b 2] b"); got != "2" {
			t.Errorf("got %q, want 2", got)
		}
	})
	t.Run("set nested and get path", func(t *testing.T) {
		i := newInterp()
		eval(t, i, "dict set d a b 1")
		if got := eval(t, i, "dict get $d a b"); got != "1" {
			t.Errorf("got %q, want 1", got)
		}
	})
	t.Run("exists", func(t *testing.T) {
		i := newInterp()
		eval(t, i, "set d [dict create a 1]")
		if got := eval(t, i, "dict exists $d a"); got != "1" {
			t.Errorf("got %q, want 1", got)
		}
		if got := eval(t, i, "dict exists $d z"); got != "0" {
			t.Errorf("got %q, want 0", got)
		}
	})
	t.Run("unset", func(t *testing.T) {
		i := newInterp()
		eval(t, i, "set d [dict create a 1 b 2]")
		eval(t, i, "dict unset d a")
		if got := eval(t, i, "dict exists $d a"); got != "0" {
			t.Errorf("got %q, want 0", got)
		}
		if got := eval(t, i, "dict size $d"); got != "1" {
			t.Errorf("got %q, want 1", got)
		}
	})
	t.Run("keys and values preserve insertion order", func(t *testing.T) {
		i := newInterp()
		eval(t, i, "set d [dict create z 1 a 2]")
		if got := eval(t, i, "dict keys $d"); got != "z a" {
			t.Errorf("got %q, want z a", got)
		}
		if got := eval(t, i, "dict values $d"); got != "1 2" {
			t.Errorf("got %q, want 1 2", got)
		}
	})
	t.Run("set does not mutate a shared original", func(t *testing.T) {
		i := newInterp()
		eval(t, i, "set orig [dict create a 1]")
		eval(t, i, "set copy $orig")
		eval(t, i, "dict set copy b 2")
		if got := eval(t, i, "dict exists $orig b"); got != "0" {
			t.Errorf("mutating copy leaked into orig: dict exists $orig b = %q", got)
		}
	})
	t.Run("for accumulates", func(t *testing.T) {
		i := newInterp()
		eval(t, i, "set d [dict create a 1 b 2 c 3]")
		got := eval(t, i, "set total 0; dict for {k v} $d { incr total $v }; set total")
		if got != "6" {
			t.Errorf("got %q, want 6", got)
		}
	})
}

func TestLoopCommands(t *testing.T) {
	t.Run("while", func(t *testing.T) {
		i := newInterp()
		got := eval(t, i, "set i 0; while {$i < 5} { incr i }; set i")
		if got != "5" {
			t.Errorf("got %q, want 5", got)
		}
	})
	t.Run("foreach single list", func(t *testing.T) {
		i := newInterp()
		got := eval(t, i, "set out {}; foreach x {a b c} { lappend out $x }; set out")
		if got != "a b c" {
			t.Errorf("got %q, want %q", got, "a b c")
		}
	})
	t.Run("foreach parallel lists", func(t *testing.T) {
		i := newInterp()
		got := eval(t, i, "set out {}; foreach x {1 2} y {a b} { lappend out $x$y }; set out")
		if got != "1a 2b" {
			t.Errorf("got %q, want %q", got, "1a 2b")
		}
	})
	t.Run("foreach multi-var single list", func(t *testing.T) {
		i := newInterp()
		got := eval(t, i, "set out {}; foreach {a b} {1 2 3 4} { lappend out $a-$b }; set out")
		if got != "1-2 3-4" {
			t.Errorf("got %q, want %q", got, "1-2 3-4")
		}
	})
	t.Run("continue skips rest of body", func(t *testing.T) {
		i := newInterp()
		got := eval(t, i, "set out {}; foreach x {1 2 3} { if {$x == 2} continue; lappend out $x }; set out")
		if got != "1 3" {
			t.Errorf("got %q, want %q", got, "1 3")
		}
	})
	t.Run("if elseif else chain", func(t *testing.T) {
		i := newInterp()
		got := eval(t, i, "set x 2; if {$x == 1} { set r one } elseif {$x == 2} { set r two } else { set r other }; set r")
		if got != "two" {
			t.Errorf("got %q, want two", got)
		}
	})
	t.Run("incr with explicit delta", func(t *testing.T) {
		i := newInterp()
		got := eval(t, i, "set x 5; incr x -2; set x")
		if got != "3" {
			t.Errorf("got %q, want 3", got)
		}
	})
}

func TestPuts(t *testing.T) {
	i := newInterp()
	if _, err := i.Eval("puts hello"); err != nil {
		t.Fatalf("puts errored: %v", err)
	}
}
