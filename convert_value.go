package moltcl

import (
	"fmt"
	"strconv"
	"strings"
)

// parseTclInt parses s per spec §3: signed 64-bit decimal, or an explicit
// 0x/0b prefix; a leading zero alone never means octal.
func parseTclInt(s string) (int64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	sign := int64(1)
	rest := trimmed
	switch rest[0] {
	case '+':
		rest = rest[1:]
	case '-':
		sign = -1
		rest = rest[1:]
	}
	if rest == "" {
		return 0, false
	}
	var v uint64
	var err error
	switch {
	case len(rest) > 2 && (rest[:2] == "0x" || rest[:2] == "0X"):
		v, err = strconv.ParseUint(rest[2:], 16, 64)
	case len(rest) > 2 && (rest[:2] == "0b" || rest[:2] == "0B"):
		v, err = strconv.ParseUint(rest[2:], 2, 64)
	default:
		v, err = strconv.ParseUint(rest, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	return sign * int64(v), true
}

// parseTclFloat parses s per spec §3: standard textual floats plus Inf/NaN,
// but rejects them for integer conversion (handled by the caller only
// calling this from asFloat, never asInt).
func parseTclFloat(s string) (float64, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// parseTclBool parses s per spec §3's boolean literal set, case-insensitive.
func parseTclBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func convErr(kind, s string) error {
	return fmt.Errorf("expected %s but got %q", kind, s)
}

// asInt shimmers o to an integer view: reuse an IntoInt-capable cached view
// if present, otherwise reparse the canonical string and cache an IntType.
func asInt(o *Obj) (int64, error) {
	if o == nil {
		return 0, convErr("integer", "")
	}
	if ii, ok := o.intrep.(IntoInt); ok {
		if v, ok := ii.IntoInt(); ok {
			return v, nil
		}
	}
	s := o.String()
	v, ok := parseTclInt(s)
	if !ok {
		return 0, convErr("integer", s)
	}
	o.intrep = IntType(v)
	return v, nil
}

// asFloat shimmers o to a floating-point view.
func asFloat(o *Obj) (float64, error) {
	if o == nil {
		return 0, convErr("floating-point number", "")
	}
	if id, ok := o.intrep.(IntoDouble); ok {
		if v, ok := id.IntoDouble(); ok {
			return v, nil
		}
	}
	s := o.String()
	v, ok := parseTclFloat(s)
	if !ok {
		return 0, convErr("floating-point number", s)
	}
	o.intrep = DoubleType(v)
	return v, nil
}

// asBool shimmers o to a boolean view using TCL boolean literal rules.
// Numeric values are truthy per their numeric value (0 is false, everything
// else is true), matching TCL's `if {$n}` idiom.
func asBool(o *Obj) (bool, error) {
	if o == nil {
		return false, convErr("boolean", "")
	}
	if ib, ok := o.intrep.(IntoBool); ok {
		if v, ok := ib.IntoBool(); ok {
			return v, nil
		}
	}
	if iv, ok := o.intrep.(IntoInt); ok {
		if n, ok := iv.IntoInt(); ok {
			return n != 0, nil
		}
	}
	if id, ok := o.intrep.(IntoDouble); ok {
		if f, ok := id.IntoDouble(); ok {
			return f != 0, nil
		}
	}
	s := o.String()
	if n, ok := parseTclInt(s); ok {
		o.intrep = IntType(n)
		return n != 0, nil
	}
	v, ok := parseTclBool(s)
	if !ok {
		if f, fok := parseTclFloat(s); fok {
			o.intrep = DoubleType(f)
			return f != 0, nil
		}
		return false, convErr("boolean", s)
	}
	o.intrep = BoolType(v)
	return v, nil
}

// asObjList shimmers o to a list view, parsing the canonical string as a
// TCL list if there is no cached list-capable view yet.
func asObjList(o *Obj) ([]*Obj, error) {
	if o == nil {
		return nil, nil
	}
	if il, ok := o.intrep.(IntoList); ok {
		if v, ok := il.IntoList(); ok {
			return v, nil
		}
	}
	elems, err := ParseList(o.String())
	if err != nil {
		return nil, err
	}
	items := make([]*Obj, len(elems))
	for i, e := range elems {
		items[i] = NewString(e)
	}
	o.intrep = ListType(items)
	return items, nil
}

// asDict shimmers o to a dict view, parsing the canonical string as a flat
// even-length TCL list if there is no cached dict-capable view yet.
func asDict(o *Obj) (*DictType, error) {
	if o == nil {
		return &DictType{Items: map[string]*Obj{}}, nil
	}
	if id, ok := o.intrep.(IntoDict); ok {
		if items, order, ok := id.IntoDict(); ok {
			return &DictType{Items: items, Order: order}, nil
		}
	}
	elems, err := asObjList(o)
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, fmt.Errorf("missing value to go with key")
	}
	d := &DictType{Items: make(map[string]*Obj, len(elems)/2), Order: make([]string, 0, len(elems)/2)}
	for i := 0; i < len(elems); i += 2 {
		d.Set(elems[i].String(), elems[i+1])
	}
	o.intrep = d
	return d, nil
}
