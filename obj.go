package moltcl

// Obj is a moltcl value: an immutable, shareable handle carrying a
// canonical string form and at most one cached typed view. It implements
// [Value]. Copies of an *Obj pointer share the same allocation; nothing in
// this package mutates an Obj's bytes or intrep once observed by more than
// one caller except to populate the string-form cache, which is required by
// spec to be observably equivalent to a pure immutable value (see [Obj.String]).
type Obj struct {
	bytes  string  // canonical string; computed lazily from intrep if empty and intrep != nil
	intrep ObjType // cached typed view, or nil for a pure string
}

// ObjType is the internal representation behind a shimmering Obj.
type ObjType interface {
	// Name returns the type name (e.g. "int", "list").
	Name() string
	// UpdateString regenerates the canonical string from this internal rep.
	UpdateString() string
	// Dup returns a copy of this internal representation.
	Dup() ObjType
}

// IntoInt is implemented by internal representations that convert directly
// to int64 without reparsing the string form.
type IntoInt interface {
	IntoInt() (int64, bool)
}

// IntoDouble is implemented by internal representations that convert
// directly to float64.
type IntoDouble interface {
	IntoDouble() (float64, bool)
}

// IntoBool is implemented by internal representations that convert directly
// to bool.
type IntoBool interface {
	IntoBool() (bool, bool)
}

// IntoList is implemented by internal representations that convert directly
// to a list of Obj.
type IntoList interface {
	IntoList() ([]*Obj, bool)
}

// IntoDict is implemented by internal representations that convert directly
// to a dict: the item map, the key insertion order, and ok.
type IntoDict interface {
	IntoDict() (map[string]*Obj, []string, bool)
}

// NewString creates a pure-string Obj.
func NewString(s string) *Obj {
	return &Obj{bytes: s}
}

// NewInt creates an integer Obj.
func NewInt(v int64) *Obj {
	return &Obj{intrep: IntType(v)}
}

// NewFloat creates a floating-point Obj.
func NewFloat(v float64) *Obj {
	return &Obj{intrep: DoubleType(v)}
}

// NewBool creates a boolean Obj, cached as [BoolType]; it stringifies as
// "1" or "0", matching TCL's lack of a distinct boolean literal syntax.
func NewBool(v bool) *Obj {
	return &Obj{intrep: BoolType(v)}
}

// NewList creates a list Obj from the given elements.
func NewList(items ...*Obj) *Obj {
	return &Obj{intrep: ListType(items)}
}

// NewDict creates an empty dict Obj.
func NewDict() *Obj {
	return &Obj{intrep: &DictType{Items: make(map[string]*Obj)}}
}

// NewObj creates an Obj wrapping a custom [ObjType] internal representation,
// for host-defined shimmering types (foreign objects).
func NewObj(intrep ObjType) *Obj {
	return &Obj{intrep: intrep}
}

// String returns the canonical string representation, computing it from the
// cached typed view on first use.
func (o *Obj) String() string {
	if o == nil {
		return ""
	}
	if o.bytes == "" && o.intrep != nil {
		o.bytes = o.intrep.UpdateString()
	}
	return o.bytes
}

// Type returns the type name of the cached view, or "string" for a pure
// string Obj.
func (o *Obj) Type() string {
	if o == nil || o.intrep == nil {
		return "string"
	}
	return o.intrep.Name()
}

// InternalRep returns the cached typed view, or nil for a pure string Obj.
func (o *Obj) InternalRep() ObjType {
	if o == nil {
		return nil
	}
	return o.intrep
}

// IsNil reports whether o is nil or the empty string with no typed view.
func (o *Obj) IsNil() bool {
	return o == nil || (o.intrep == nil && o.bytes == "")
}

// Copy returns a shallow copy of o, duplicating the internal representation
// (if any) via Dup so mutating the copy's typed view (e.g. through a
// host-defined ObjType) cannot be observed on the original.
func (o *Obj) Copy() *Obj {
	if o == nil {
		return nil
	}
	if o.intrep == nil {
		return &Obj{bytes: o.bytes}
	}
	return &Obj{bytes: o.bytes, intrep: o.intrep.Dup()}
}

// Int returns the integer value of o, shimmering from the string form or an
// IntoInt-capable typed view as needed.
func (o *Obj) Int() (int64, error) { return asInt(o) }

// Float returns the floating-point value of o, shimmering as needed.
func (o *Obj) Float() (float64, error) { return asFloat(o) }

// Bool returns the boolean value of o using TCL boolean literal rules.
func (o *Obj) Bool() (bool, error) { return asBool(o) }

// List returns the elements of o, parsing the string form as a TCL list if
// there is no cached list view yet. The parsed view is cached for later
// calls, matching the shimmering contract in spec §4.1.
func (o *Obj) List() ([]Value, error) {
	items, err := asObjList(o)
	if err != nil {
		return nil, err
	}
	result := make([]Value, len(items))
	for i, it := range items {
		result[i] = it
	}
	return result, nil
}

// ObjList is like List but returns the elements as *Obj, preserving any
// typed views they already carry. Used internally by commands that want to
// avoid boxing into the Value interface.
func (o *Obj) ObjList() ([]*Obj, error) { return asObjList(o) }

// Dict returns the key/value pairs of o as a map, parsing the string form as
// a flat even-length TCL list if there is no cached dict view yet.
func (o *Obj) Dict() (map[string]Value, error) {
	d, err := asDict(o)
	if err != nil {
		return nil, err
	}
	result := make(map[string]Value, len(d.Items))
	for k, v := range d.Items {
		result[k] = v
	}
	return result, nil
}

// ObjDict is like Dict but returns the *DictType directly, preserving key
// order and *Obj values.
func (o *Obj) ObjDict() (*DictType, error) { return asDict(o) }
