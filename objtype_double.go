package moltcl

import (
	"strconv"
	"strings"
)

// DoubleType is the internal representation for floating-point values.
type DoubleType float64

func (t DoubleType) Name() string { return "double" }
func (t DoubleType) Dup() ObjType { return t }
func (t DoubleType) UpdateString() string {
	s := strconv.FormatFloat(float64(t), 'g', -1, 64)
	// Go spells the infinities "+Inf"/"-Inf"; TCL spells them "Inf"/"-Inf".
	if s == "+Inf" {
		s = "Inf"
	}
	if !strings.Contains(s, ".") && !strings.Contains(s, "e") &&
		!strings.Contains(s, "NaN") && !strings.Contains(s, "Inf") {
		s += ".0"
	}
	return s
}

// IntoInt never converts: asInt falls back to reparsing the string form,
// so a fractional value is not silently truncated to an integer.
func (t DoubleType) IntoInt() (int64, bool)      { return 0, false }
func (t DoubleType) IntoDouble() (float64, bool) { return float64(t), true }
