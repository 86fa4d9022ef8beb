package transcoder

import (
	"encoding"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/value"
)

var (
	jsonMarshalerType = reflect.TypeOf((*json.Marshaler)(nil)).Elem()
	textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
)

// FromGo converts a Go value into a value tree.
//
// Checks run in order: value.Value passthrough, bool, string, nil, finite
// number, array-like, string-keyed object. Pointers and interfaces are
// followed; nil ones become null. Types implementing json.Marshaler or
// encoding.TextMarshaler are converted through their marshaled form.
func FromGo(v any) (value.Value, error) {
	return defaultCompiler.FromGo(v)
}

// FromGo converts a Go value into a value tree using c's struct plans.
func (c *Compiler) FromGo(v any) (value.Value, error) {
	return c.fromGo(v, nil)
}

func (c *Compiler) fromGo(v any, path []string) (value.Value, error) {
	switch t := v.(type) {
	case value.Value:
		return t, nil
	case bool:
		return value.Boolean(t), nil
	case string:
		return value.String(t), nil
	case nil:
		return value.Null{}, nil
	case float64:
		return finite(t, path, "float64")
	case int:
		return value.Number(float64(t)), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return nil, errors.New(errors.PhaseConvert, errors.KindConversion).
				Path(copyPath(path)...).
				GoType("json.Number").
				Cause(err).
				Detail("number %s out of range", t).
				Build()
		}
		return finite(f, path, "json.Number")
	case []any:
		arr := make(value.Array, len(t))
		for i, item := range t {
			cv, err := c.fromGo(item, append(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			arr[i] = cv
		}
		return arr, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		obj := make(value.Object, 0, len(t))
		for _, k := range keys {
			cv, err := c.fromGo(t[k], append(path, k))
			if err != nil {
				return nil, err
			}
			obj = append(obj, value.Member{Key: k, Value: cv})
		}
		return obj, nil
	}
	return c.fromReflect(reflect.ValueOf(v), path)
}

func (c *Compiler) fromReflect(rv reflect.Value, path []string) (value.Value, error) {
	if !rv.IsValid() {
		return value.Null{}, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return value.Null{}, nil
		}
	}

	if rv.Type().Implements(jsonMarshalerType) {
		return c.fromMarshaler(rv.Interface().(json.Marshaler), rv.Type(), path)
	}
	if rv.Type().Implements(textMarshalerType) {
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return nil, marshalFailure(path, rv.Type(), err)
		}
		return value.String(text), nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return c.fromGo(rv.Elem().Interface(), path)

	case reflect.Bool:
		return value.Boolean(rv.Bool()), nil

	case reflect.String:
		return value.String(rv.String()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value.Number(float64(rv.Int())), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value.Number(float64(rv.Uint())), nil

	case reflect.Float32, reflect.Float64:
		return finite(rv.Float(), path, rv.Type().String())

	case reflect.Slice:
		if rv.IsNil() {
			return value.Null{}, nil
		}
		return c.fromSequence(rv, path)

	case reflect.Array:
		return c.fromSequence(rv, path)

	case reflect.Map:
		return c.fromMap(rv, path)

	case reflect.Struct:
		return c.fromStruct(rv, path)

	default:
		return nil, errors.Conversion(copyPath(path), rv.Type().String(),
			fmt.Sprintf("%s has no value representation", rv.Kind()))
	}
}

func (c *Compiler) fromSequence(rv reflect.Value, path []string) (value.Value, error) {
	n := rv.Len()
	arr := make(value.Array, n)
	for i := 0; i < n; i++ {
		cv, err := c.fromGo(rv.Index(i).Interface(), append(path, strconv.Itoa(i)))
		if err != nil {
			return nil, err
		}
		arr[i] = cv
	}
	return arr, nil
}

// fromMap emits members in sorted key order so output is deterministic.
func (c *Compiler) fromMap(rv reflect.Value, path []string) (value.Value, error) {
	if rv.Type().Key().Kind() != reflect.String {
		return nil, errors.Conversion(copyPath(path), rv.Type().String(),
			fmt.Sprintf("map key type %s is not a string", rv.Type().Key()))
	}
	if rv.IsNil() {
		return value.Null{}, nil
	}

	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return strings.Compare(a.String(), b.String())
	})

	obj := make(value.Object, 0, len(keys))
	for _, k := range keys {
		key := k.String()
		cv, err := c.fromGo(rv.MapIndex(k).Interface(), append(path, key))
		if err != nil {
			return nil, err
		}
		obj = append(obj, value.Member{Key: key, Value: cv})
	}
	return obj, nil
}

func (c *Compiler) fromStruct(rv reflect.Value, path []string) (value.Value, error) {
	plan := c.Plan(rv.Type())
	obj := make(value.Object, 0, len(plan.Fields))
	for i := range plan.Fields {
		f := &plan.Fields[i]
		fv, err := rv.FieldByIndexErr(f.Index)
		if err != nil {
			// promoted through a nil embedded pointer
			continue
		}
		if f.OmitEmpty && isEmpty(fv) {
			continue
		}
		cv, err := c.fromGo(fv.Interface(), append(path, f.Key))
		if err != nil {
			return nil, err
		}
		obj = append(obj, value.Member{Key: f.Key, Value: cv})
	}
	return obj, nil
}

func (c *Compiler) fromMarshaler(m json.Marshaler, goType reflect.Type, path []string) (value.Value, error) {
	data, err := m.MarshalJSON()
	if err != nil {
		return nil, marshalFailure(path, goType, err)
	}
	v, err := FromJSON(data)
	if err != nil {
		return nil, marshalFailure(path, goType, err)
	}
	return v, nil
}

func marshalFailure(path []string, goType reflect.Type, cause error) error {
	return errors.New(errors.PhaseConvert, errors.KindConversion).
		Path(copyPath(path)...).
		GoType(goType.String()).
		Cause(cause).
		Detail("marshal failed").
		Build()
}

func finite(f float64, path []string, goType string) (value.Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, errors.New(errors.PhaseConvert, errors.KindConversion).
			Path(copyPath(path)...).
			GoType(goType).
			Value(f).
			Detail("non-finite number %v", f).
			Build()
	}
	return value.Number(f), nil
}

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Array, reflect.Map, reflect.Slice, reflect.String:
		return v.Len() == 0
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64,
		reflect.Interface, reflect.Pointer:
		return v.IsZero()
	}
	return false
}

// copyPath detaches a path from the shared traversal slice before it is stored in an error.
func copyPath(path []string) []string {
	return append([]string(nil), path...)
}
