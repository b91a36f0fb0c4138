package moltcl

// BoolType is the internal representation cached when a value is read via
// Obj.Bool() from a string spelled as one of TCL's boolean literals
// ("true"/"false", "yes"/"no", "on"/"off" — "0"/"1" shimmer to IntType
// instead, since they are valid integers first). A value constructed
// directly with NewBool always stringifies as "1" or "0", matching TCL's
// lack of a distinct boolean literal type.
type BoolType bool

func (t BoolType) Name() string { return "boolean" }
func (t BoolType) Dup() ObjType { return t }
func (t BoolType) UpdateString() string {
	if t {
		return "1"
	}
	return "0"
}

func (t BoolType) IntoBool() (bool, bool) { return bool(t), true }
func (t BoolType) IntoInt() (int64, bool) {
	if t {
		return 1, true
	}
	return 0, true
}
func (t BoolType) IntoDouble() (float64, bool) {
	if t {
		return 1, true
	}
	return 0, true
}
