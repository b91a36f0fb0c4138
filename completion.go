package moltcl

import "fmt"

// Code is a completion code, the tag half of a [Completion].
type Code int

const (
	// CodeOK marks a normal, successful completion.
	CodeOK Code = iota
	// CodeError marks a failed completion; the payload is the error message
	// and ErrorCode/ErrorInfo may be populated.
	CodeError
	// CodeReturn marks a `return` completion. Crossing a procedure boundary
	// turns it into CodeOK with the same payload; escaping the top level
	// is remapped to CodeError.
	CodeReturn
	// CodeBreak marks a `break` completion, consumed by the nearest
	// enclosing loop command.
	CodeBreak
	// CodeContinue marks a `continue` completion, consumed by the nearest
	// enclosing loop command.
	CodeContinue
	// codeLevelBase is added to n for `return -code n` when n is an integer
	// other than the named codes 0-4; see Level and IsLevel.
	codeLevelBase = 100
)

// Level returns a Code representing a user-defined return level, as used by
// `return -code <integer>`. Levels above codeLevelBase are reserved for this.
func Level(n int) Code {
	return Code(codeLevelBase + n)
}

// IsLevel reports whether c is a user-defined level code, and if so, which one.
func (c Code) IsLevel() (int, bool) {
	if int(c) >= codeLevelBase {
		return int(c) - codeLevelBase, true
	}
	return 0, false
}

// String renders the completion code the way TCL error messages do
// ("return", "break", "continue"), used to build boundary-crossing
// error messages.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeError:
		return "error"
	case CodeReturn:
		return "return"
	case CodeBreak:
		return "break"
	case CodeContinue:
		return "continue"
	default:
		if n, ok := c.IsLevel(); ok {
			return fmt.Sprintf("level %d", n)
		}
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Completion is the uniform result of evaluating any command or script.
// It carries a completion [Code], a payload Value, and — for errors — an
// error-code list and an accumulated stack trace, per spec §4.7.
type Completion struct {
	Code      Code
	Value     *Obj
	ErrorCode *Obj   // defaults to the one-element list "NONE" for errors
	ErrorInfo string // accumulated trace, populated only for CodeError
}

// Ok builds a successful completion carrying v.
func Ok(v *Obj) Completion {
	return Completion{Code: CodeOK, Value: v}
}

// OkString builds a successful completion carrying a bare string.
func OkString(s string) Completion {
	return Completion{Code: CodeOK, Value: NewString(s)}
}

// Err builds an error completion with the default error code NONE.
func Err(msg string) Completion {
	return Completion{Code: CodeError, Value: NewString(msg), ErrorCode: NewString("NONE")}
}

// Errf builds a formatted error completion with the default error code NONE.
func Errf(format string, args ...any) Completion {
	return Err(fmt.Sprintf(format, args...))
}

// IsOk reports whether c completed successfully.
func (c Completion) IsOk() bool { return c.Code == CodeOK }

// String renders the completion payload's string form, or "" if there is none.
func (c Completion) String() string {
	if c.Value == nil {
		return ""
	}
	return c.Value.String()
}

// asError turns a CodeError completion into a Go error for the host boundary.
func (c Completion) asError() error {
	if c.Code != CodeError {
		return nil
	}
	return &EvalError{
		Message:   c.String(),
		ErrorCode: c.ErrorCode,
		ErrorInfo: c.ErrorInfo,
	}
}

// EvalError is the error type returned by [Interp.Eval] when a script
// completes with CodeError ([Interp.EvalTop] and [Interp.EvalBody] return
// the [Completion] itself). It carries the structured error
// state a host can use to print a full traceback.
type EvalError struct {
	Message   string
	ErrorCode *Obj
	ErrorInfo string
}

func (e *EvalError) Error() string { return e.Message }
