// Package moltcl provides an embeddable interpreter for a dialect of TCL.
//
// # Overview
//
// moltcl is a from-scratch implementation of the core TCL language,
// designed for embedding into a host Go application. It provides:
//
//   - A clean, idiomatic Go API generic over a host context type
//   - Automatic type conversion between Go and TCL values
//   - Foreign object support for exposing Go types to TCL
//   - No external dependencies beyond the Go standard library
//
// # Quick Start
//
//	import "moltcl"
//
//	func main() {
//	    interp := moltcl.New[any](nil)
//
//	    // Evaluate TCL scripts
//	    result, _ := interp.Eval("expr {2 + 2}")
//	    fmt.Println(result.String()) // "4"
//
//	    // Set and get variables
//	    interp.SetVar("name", moltcl.NewString("World"))
//	    result, _ = interp.Eval(`set greeting "Hello, $name!"`)
//
//	    // Register Go functions
//	    interp.RegisterFunc("double", func(x int) int { return x * 2 })
//	    result, _ = interp.Eval("double 21") // "42"
//	}
//
// # Registering Go Functions
//
// RegisterFunc accepts any Go function and automatically converts
// arguments and return values:
//
//	// Simple function
//	interp.RegisterFunc("greet", func(name string) string {
//	    return "Hello, " + name + "!"
//	})
//
//	// Function with error return
//	interp.RegisterFunc("divide", func(a, b int) (int, error) {
//	    if b == 0 {
//	        return 0, errors.New("division by zero")
//	    }
//	    return a / b, nil
//	})
//
//	// Variadic function
//	interp.RegisterFunc("sum", func(nums ...int) int {
//	    total := 0
//	    for _, n := range nums {
//	        total += n
//	    }
//	    return total
//	})
//
// # Foreign Objects
//
// Expose Go types as TCL commands using the generic RegisterType function:
//
//	type Counter struct {
//	    value int
//	}
//
//	moltcl.RegisterType[*Counter, any](interp, "Counter", moltcl.TypeDef[*Counter]{
//	    New: func() *Counter { return &Counter{} },
//	    Methods: map[string]any{
//	        "get":  func(c *Counter) int { return c.value },
//	        "set":  func(c *Counter, v int) { c.value = v },
//	        "incr": func(c *Counter) int { c.value++; return c.value },
//	    },
//	})
//
//	// In TCL:
//	// set c [Counter new]
//	// $c set 10
//	// $c incr  ;# returns 11
//	// $c destroy
//
// # Value Interface
//
// The [Value] interface provides type-safe, shimmering access to TCL values:
//
//	result, _ := interp.Eval("list 1 2 3")
//
//	// Get as different types
//	str := result.String()        // "1 2 3"
//	list, _ := result.List()      // []Value with 3 elements
//	for _, v := range list {
//	    n, _ := v.Int()           // 1, 2, 3
//	}
//
// # Supported Type Conversions
//
// Go to TCL:
//   - string → string
//   - int, int64 → integer
//   - float64 → double
//   - bool → "1" or "0"
//   - []T → list
//   - map[string]T → dict
//
// TCL to Go:
//   - string → string
//   - integer → int, int64
//   - double → float64
//   - list → []T
//   - "1"/"true"/"yes"/"on" → true
//   - "0"/"false"/"no"/"off" → false
//
// # What is missing on purpose
//
// moltcl has no namespaces, no object system, no event loop, no
// channels, no regular expressions, and no octal integer literals. It
// is not a drop-in replacement for a full TCL 8.6 runtime; it is the
// evaluator core a larger command set can be built on top of (see the
// stdlib subpackage for one such command set).
package moltcl
