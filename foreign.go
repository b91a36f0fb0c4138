package moltcl

import (
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"
)

// ForeignType is the internal representation for a value wrapping a Go
// type registered with [RegisterType]. It stringifies as the instance's
// command name, matching the TCL idiom of an object being its own handle.
type ForeignType struct {
	TypeName string
	CmdName  string
	Value    any
}

func (t *ForeignType) Name() string         { return t.TypeName }
func (t *ForeignType) UpdateString() string { return t.CmdName }
func (t *ForeignType) Dup() ObjType         { c := *t; return &c }

// TypeDef defines a foreign type that can be exposed to TCL, grounded on
// the same shape the teacher uses for its own foreign-object support.
type TypeDef[T any] struct {
	// New is the constructor called when "TypeName new ?args...?" runs.
	// Required.
	New func() T

	// Methods maps subcommand names to Go functions whose first parameter
	// is the receiver T; remaining parameters and return values are
	// converted via [RegisterFunc]'s rules.
	Methods map[string]any

	// String is not consulted: an instance's string form is always its
	// command name.
	String func(T) string

	// Destroy is called by the instance's "destroy" subcommand, if present.
	Destroy func(T)
}

var foreignInstanceCounter int64

// RegisterType registers typeName as a constructor command on i. Each call
// to "typeName new" creates an instance-command whose name is returned as
// the constructor's result, dispatching "$instance method ?arg...?" to
// def.Methods, per the doc.go Foreign Objects example.
func RegisterType[T any, Ctx any](i *Interp[Ctx], typeName string, def TypeDef[T]) error {
	if def.New == nil {
		return fmt.Errorf("RegisterType: New function is required for type %s", typeName)
	}
	i.RegisterCommand(typeName, 1, ArgMax, func(interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
		if args[0].String() != "new" {
			return Err(fmt.Sprintf(`unknown subcommand %q: must be new`, args[0].String()))
		}
		value := def.New()
		n := atomic.AddInt64(&foreignInstanceCounter, 1)
		cmdName := fmt.Sprintf("%s@%d", typeName, n)
		foreign := &ForeignType{TypeName: typeName, CmdName: cmdName, Value: value}
		interp.RegisterCommand(cmdName, 0, ArgMax, foreignInstanceDispatch[T, Ctx](def, value, cmdName))
		return Ok(NewObj(foreign))
	})
	return nil
}

// foreignInstanceDispatch builds the native command backing one instance:
// method lookup by first argument, "destroy" to unregister and run
// def.Destroy, and a bare instance name printing its string form.
func foreignInstanceDispatch[T any, Ctx any](def TypeDef[T], value T, cmdName string) NativeFunc[Ctx] {
	return func(interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
		if len(args) == 0 {
			return Ok(NewString(cmdName))
		}
		method := args[0].String()
		rest := args[1:]
		if method == "destroy" {
			if def.Destroy != nil {
				def.Destroy(value)
			}
			_ = interp.RenameCommand(cmdName, "")
			return Ok(NewString(""))
		}
		fn, ok := def.Methods[method]
		if !ok {
			return Err(fmt.Sprintf("unknown method %q for %s", method, cmdName))
		}
		return callMethod(reflect.ValueOf(fn), value, rest)
	}
}

// callMethod invokes fn, whose first Go parameter is the instance receiver
// (not converted from an Obj), with rest converted per fn's remaining
// parameter types.
func callMethod(fn reflect.Value, receiver any, rest []*Obj) Completion {
	fnType := fn.Type()
	numIn := fnType.NumIn()
	isVariadic := fnType.IsVariadic()
	if !isVariadic && len(rest) != numIn-1 {
		return Err(fmt.Sprintf("wrong # args: expected %d, got %d", numIn-1, len(rest)))
	}
	if isVariadic && len(rest) < numIn-2 {
		return Err(fmt.Sprintf("wrong # args: expected at least %d, got %d", numIn-2, len(rest)))
	}
	callArgs := make([]reflect.Value, 0, len(rest)+1)
	callArgs = append(callArgs, reflect.ValueOf(receiver))
	for j, a := range rest {
		var paramType reflect.Type
		if isVariadic && j+1 >= numIn-1 {
			paramType = fnType.In(numIn - 1).Elem()
		} else {
			paramType = fnType.In(j + 1)
		}
		converted, err := convertArg(a, paramType)
		if err != nil {
			return Err(fmt.Sprintf("argument %d: %v", j+1, err))
		}
		callArgs = append(callArgs, converted)
	}
	return convertResults(fn.Call(callArgs), fnType)
}

// RegisterFunc registers name as a native command backed by fn, an
// arbitrary Go function. Arguments are converted from their Obj string
// form to fn's parameter types; a variadic trailing parameter consumes any
// extra arguments; a final `error` return becomes an ERROR completion.
func (i *Interp[Ctx]) RegisterFunc(name string, fn any) {
	fnVal := reflect.ValueOf(fn)
	if fnVal.Kind() != reflect.Func {
		panic(fmt.Sprintf("moltcl: RegisterFunc(%q): not a function: %T", name, fn))
	}
	fnType := fnVal.Type()
	min, max := arityOf(fnType)
	i.RegisterCommand(name, min, max, func(interp *Interp[Ctx], ctx Ctx, args []*Obj) Completion {
		return callReflectedTyped(fnVal, fnType, args)
	})
}

func arityOf(fnType reflect.Type) (min, max int) {
	n := fnType.NumIn()
	if fnType.IsVariadic() {
		return n - 1, ArgMax
	}
	return n, n
}

func callReflectedTyped(fn reflect.Value, fnType reflect.Type, args []*Obj) Completion {
	numIn := fnType.NumIn()
	isVariadic := fnType.IsVariadic()
	callArgs := make([]reflect.Value, len(args))
	for j, a := range args {
		var paramType reflect.Type
		switch {
		case isVariadic && j >= numIn-1:
			paramType = fnType.In(numIn - 1).Elem()
		case j < numIn:
			paramType = fnType.In(j)
		default:
			return Err(fmt.Sprintf("wrong # args: expected at most %d, got %d", numIn, len(args)))
		}
		converted, err := convertArg(a, paramType)
		if err != nil {
			return Err(fmt.Sprintf("argument %d: %v", j+1, err))
		}
		callArgs[j] = converted
	}
	results := fn.Call(callArgs)
	return convertResults(results, fnType)
}

// convertArg converts a to a Go value of targetType, matching the type set
// documented in doc.go's "Supported Type Conversions".
func convertArg(a *Obj, targetType reflect.Type) (reflect.Value, error) {
	if ft, ok := a.InternalRep().(*ForeignType); ok {
		val := reflect.ValueOf(ft.Value)
		if val.IsValid() && val.Type().AssignableTo(targetType) {
			return val, nil
		}
	}
	switch targetType.Kind() {
	case reflect.String:
		return reflect.ValueOf(a.String()).Convert(targetType), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := asInt(a)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(targetType), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := asInt(a)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(uint64(n)).Convert(targetType), nil
	case reflect.Float32, reflect.Float64:
		f, err := asFloat(a)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(f).Convert(targetType), nil
	case reflect.Bool:
		b, err := asBool(a)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(b), nil
	case reflect.Slice:
		items, err := asObjList(a)
		if err != nil {
			return reflect.Value{}, err
		}
		slice := reflect.MakeSlice(targetType, len(items), len(items))
		for j, item := range items {
			converted, err := convertArg(item, targetType.Elem())
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %v", j, err)
			}
			slice.Index(j).Set(converted)
		}
		return slice, nil
	case reflect.Map:
		d, err := asDict(a)
		if err != nil {
			return reflect.Value{}, err
		}
		m := reflect.MakeMapWithSize(targetType, len(d.Items))
		for _, k := range d.Order {
			kv := reflect.ValueOf(k).Convert(targetType.Key())
			vv, err := convertArg(d.Items[k], targetType.Elem())
			if err != nil {
				return reflect.Value{}, err
			}
			m.SetMapIndex(kv, vv)
		}
		return m, nil
	case reflect.Interface:
		if targetType.NumMethod() == 0 {
			return reflect.ValueOf(a.String()), nil
		}
		return reflect.Value{}, fmt.Errorf("cannot convert to interface %v", targetType)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported parameter type: %v", targetType)
	}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// convertResults turns fn's return values into a Completion: a trailing
// non-nil error becomes CodeError, otherwise the first value (if any) is
// converted to an Obj via toObj.
func convertResults(results []reflect.Value, fnType reflect.Type) Completion {
	if len(results) == 0 {
		return Ok(NewString(""))
	}
	last := results[len(results)-1]
	if fnType.Out(fnType.NumOut()-1).Implements(errType) {
		if !last.IsNil() {
			return Err(last.Interface().(error).Error())
		}
		results = results[:len(results)-1]
	}
	if len(results) == 0 {
		return Ok(NewString(""))
	}
	return Ok(toObj(results[0]))
}

// toObj converts a reflected Go value to an Obj, matching doc.go's
// "Go to TCL" conversion table.
func toObj(v reflect.Value) *Obj {
	switch v.Kind() {
	case reflect.String:
		return NewString(v.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NewInt(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return NewInt(int64(v.Uint()))
	case reflect.Float32, reflect.Float64:
		return NewFloat(v.Float())
	case reflect.Bool:
		return NewBool(v.Bool())
	case reflect.Slice, reflect.Array:
		items := make([]*Obj, v.Len())
		for j := range items {
			items[j] = toObj(v.Index(j))
		}
		return NewList(items...)
	case reflect.Map:
		d := &DictType{Items: map[string]*Obj{}}
		iter := v.MapRange()
		for iter.Next() {
			d.Set(fmt.Sprintf("%v", iter.Key().Interface()), toObj(iter.Value()))
		}
		return NewObj(d)
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return NewString("")
		}
		if o, ok := v.Interface().(*Obj); ok {
			return o
		}
		return NewString(fmt.Sprintf("%v", v.Interface()))
	default:
		return NewString(fmt.Sprintf("%v", v.Interface()))
	}
}

// quote braces s if it contains characters that need list quoting,
// mirroring the teacher's toTclString helper for ad hoc string building
// outside the Obj/Value pipeline (e.g. building usage strings).
func quote(s string) string {
	brace, dq := needsListQuoting(s)
	if !brace && !dq {
		return s
	}
	if brace {
		return "{" + s + "}"
	}
	return "\"" + strings.ReplaceAll(s, `"`, `\"`) + "\""
}
