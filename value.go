package moltcl

// Value is the host-facing, type-safe view onto a TCL datum. Both *Obj and
// the lighter-weight stringValue (used for values that never need to be fed
// back into an interpreter) implement it.
type Value interface {
	// String returns the value's canonical string representation.
	String() string

	// Int returns the value as an integer, shimmering as needed.
	Int() (int64, error)

	// Float returns the value as a floating-point number, shimmering as needed.
	Float() (float64, error)

	// Bool returns the value's TCL truthiness.
	Bool() (bool, error)

	// List returns the value's elements, parsing the string form as a TCL
	// list if necessary.
	List() ([]Value, error)

	// Dict returns the value as a string-keyed map, parsing the string form
	// as a flat even-length TCL list if necessary.
	Dict() (map[string]Value, error)

	// Type returns the underlying representation's type name: "string",
	// "int", "double", "boolean", "list", "dict", or a foreign type name.
	Type() string

	// IsNil reports whether this is an empty, untyped value.
	IsNil() bool
}

// stringValue is a Value with no backing Obj — returned where a caller
// needs a Value but there is no reason to allocate a full Obj (e.g. reading
// individual elements out of a parsed list without re-parsing them).
type stringValue string

func (v stringValue) String() string { return string(v) }
func (v stringValue) Int() (int64, error) {
	n, ok := parseTclInt(string(v))
	if !ok {
		return 0, convErr("integer", string(v))
	}
	return n, nil
}
func (v stringValue) Float() (float64, error) {
	f, ok := parseTclFloat(string(v))
	if !ok {
		return 0, convErr("floating-point number", string(v))
	}
	return f, nil
}
func (v stringValue) Bool() (bool, error) {
	b, ok := parseTclBool(string(v))
	if !ok {
		return false, convErr("boolean", string(v))
	}
	return b, nil
}
func (v stringValue) List() ([]Value, error) {
	elems, err := ParseList(string(v))
	if err != nil {
		return nil, err
	}
	result := make([]Value, len(elems))
	for i, e := range elems {
		result[i] = stringValue(e)
	}
	return result, nil
}
func (v stringValue) Dict() (map[string]Value, error) {
	elems, err := ParseList(string(v))
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, convErr("dict", string(v))
	}
	result := make(map[string]Value, len(elems)/2)
	for i := 0; i < len(elems); i += 2 {
		result[elems[i]] = stringValue(elems[i+1])
	}
	return result, nil
}
func (v stringValue) Type() string { return "string" }
func (v stringValue) IsNil() bool  { return string(v) == "" }
