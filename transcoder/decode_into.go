package transcoder

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/value"
)

var (
	valueType           = reflect.TypeOf((*value.Value)(nil)).Elem()
	jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// Into assigns v to the Go value target points to.
//
// Null zeroes the target. Pointers, maps and slices are allocated as needed.
// Struct fields match object keys by json tag or field name, exact first then
// case-insensitive; unknown keys are skipped. Numbers assigned to integer
// targets must be integral and in range. Any other mismatch is a structure
// error carrying the path to the offending node.
func Into(v value.Value, target any) error {
	return defaultCompiler.Into(v, target)
}

// Into assigns v to target using c's struct plans.
func (c *Compiler) Into(v value.Value, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New(errors.PhaseConvert, errors.KindInvalidInput).
			GoType(fmt.Sprintf("%T", target)).
			Detail("target must be a non-nil pointer").
			Build()
	}
	return c.into(v, rv.Elem(), nil)
}

func (c *Compiler) into(v value.Value, rv reflect.Value, path []string) error {
	if v == nil {
		v = value.Null{}
	}

	// Value-typed targets take the node as is.
	if rv.Type() == valueType {
		rv.Set(reflect.ValueOf(v))
		return nil
	}
	if rv.Kind() != reflect.Interface && reflect.TypeOf(v).AssignableTo(rv.Type()) {
		rv.Set(reflect.ValueOf(v))
		return nil
	}

	if _, null := v.(value.Null); null {
		rv.Set(reflect.Zero(rv.Type()))
		return nil
	}

	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		return c.into(v, rv.Elem(), path)
	}

	if rv.CanAddr() {
		pt := rv.Addr().Type()
		if pt.Implements(jsonUnmarshalerType) {
			return c.intoUnmarshaler(v, rv.Addr().Interface().(json.Unmarshaler), path)
		}
		if s, ok := v.(value.String); ok && pt.Implements(textUnmarshalerType) {
			if err := rv.Addr().Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return structureCause(path, rv.Type(), err, "unmarshal text")
			}
			return nil
		}
	}

	switch rv.Kind() {
	case reflect.Interface:
		if rv.NumMethod() != 0 {
			return mismatch(path, rv.Type(), v)
		}
		rv.Set(reflect.ValueOf(ToGo(v)))
		return nil

	case reflect.Bool:
		b, ok := v.(value.Boolean)
		if !ok {
			return mismatch(path, rv.Type(), v)
		}
		rv.SetBool(bool(b))
		return nil

	case reflect.String:
		s, ok := v.(value.String)
		if !ok {
			return mismatch(path, rv.Type(), v)
		}
		rv.SetString(string(s))
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, err := integral(v, rv.Type(), path)
		if err != nil {
			return err
		}
		if f < math.MinInt64 || f >= -math.MinInt64 || rv.OverflowInt(int64(f)) {
			return overflow(path, rv.Type(), f)
		}
		rv.SetInt(int64(f))
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		f, err := integral(v, rv.Type(), path)
		if err != nil {
			return err
		}
		if f < 0 || f >= math.MaxUint64 || rv.OverflowUint(uint64(f)) {
			return overflow(path, rv.Type(), f)
		}
		rv.SetUint(uint64(f))
		return nil

	case reflect.Float32, reflect.Float64:
		n, ok := v.(value.Number)
		if !ok {
			return mismatch(path, rv.Type(), v)
		}
		if rv.OverflowFloat(float64(n)) {
			return overflow(path, rv.Type(), float64(n))
		}
		rv.SetFloat(float64(n))
		return nil

	case reflect.Slice:
		arr, ok := v.(value.Array)
		if !ok {
			return mismatch(path, rv.Type(), v)
		}
		out := reflect.MakeSlice(rv.Type(), len(arr), len(arr))
		for i, item := range arr {
			if err := c.into(item, out.Index(i), append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		rv.Set(out)
		return nil

	case reflect.Array:
		arr, ok := v.(value.Array)
		if !ok {
			return mismatch(path, rv.Type(), v)
		}
		if len(arr) != rv.Len() {
			return errors.Structure(copyPath(path), rv.Type().String(),
				fmt.Sprintf("array of %d elements into length %d", len(arr), rv.Len()))
		}
		for i, item := range arr {
			if err := c.into(item, rv.Index(i), append(path, strconv.Itoa(i))); err != nil {
				return err
			}
		}
		return nil

	case reflect.Map:
		return c.intoMap(v, rv, path)

	case reflect.Struct:
		return c.intoStruct(v, rv, path)

	default:
		return errors.Structure(copyPath(path), rv.Type().String(),
			fmt.Sprintf("unsupported target kind %s", rv.Kind()))
	}
}

func (c *Compiler) intoMap(v value.Value, rv reflect.Value, path []string) error {
	obj, ok := v.(value.Object)
	if !ok {
		return mismatch(path, rv.Type(), v)
	}
	mt := rv.Type()
	if mt.Key().Kind() != reflect.String {
		return errors.Structure(copyPath(path), mt.String(),
			fmt.Sprintf("map key type %s is not a string", mt.Key()))
	}
	if rv.IsNil() {
		rv.Set(reflect.MakeMapWithSize(mt, len(obj)))
	}
	for _, m := range obj {
		elem := reflect.New(mt.Elem()).Elem()
		if err := c.into(m.Value, elem, append(path, m.Key)); err != nil {
			return err
		}
		rv.SetMapIndex(reflect.ValueOf(m.Key).Convert(mt.Key()), elem)
	}
	return nil
}

func (c *Compiler) intoStruct(v value.Value, rv reflect.Value, path []string) error {
	obj, ok := v.(value.Object)
	if !ok {
		return mismatch(path, rv.Type(), v)
	}
	plan := c.Plan(rv.Type())
	for _, m := range obj {
		f, ok := plan.Lookup(m.Key)
		if !ok {
			continue
		}
		if err := c.into(m.Value, fieldAlloc(rv, f.Index), append(path, m.Key)); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) intoUnmarshaler(v value.Value, u json.Unmarshaler, path []string) error {
	data, err := ToJSON(v)
	if err != nil {
		return err
	}
	if err := u.UnmarshalJSON(data); err != nil {
		return structureCause(path, reflect.TypeOf(u).Elem(), err, "unmarshal json")
	}
	return nil
}

// fieldAlloc walks an index path, allocating nil embedded pointers on the way.
func fieldAlloc(rv reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				rv.Set(reflect.New(rv.Type().Elem()))
			}
			rv = rv.Elem()
		}
		rv = rv.Field(x)
	}
	return rv
}

func integral(v value.Value, goType reflect.Type, path []string) (float64, error) {
	n, ok := v.(value.Number)
	if !ok {
		return 0, mismatch(path, goType, v)
	}
	f := float64(n)
	if f != math.Trunc(f) {
		return 0, errors.New(errors.PhaseConvert, errors.KindStructure).
			Path(copyPath(path)...).
			GoType(goType.String()).
			Value(f).
			Detail("number %v is not an integer", f).
			Build()
	}
	return f, nil
}

func mismatch(path []string, goType reflect.Type, v value.Value) error {
	return errors.Structure(copyPath(path), goType.String(),
		fmt.Sprintf("cannot assign %s", value.KindOf(v)))
}

func overflow(path []string, goType reflect.Type, f float64) error {
	return errors.New(errors.PhaseConvert, errors.KindStructure).
		Path(copyPath(path)...).
		GoType(goType.String()).
		Value(f).
		Detail("number %v overflows %s", f, goType).
		Build()
}

func structureCause(path []string, goType reflect.Type, cause error, detail string) error {
	return errors.New(errors.PhaseConvert, errors.KindStructure).
		Path(copyPath(path)...).
		GoType(goType.String()).
		Cause(cause).
		Detail("%s", detail).
		Build()
}
