package value

import (
	"math"
)

// Value is a sealed interface over the six variants of the value tree.
// Only Boolean, Null, Number, String, Array and Object implement it.
type Value interface {
	// Tag returns the wire tag for this value.
	Tag() Tag
	sealed()
}

// Boolean is a true/false value. It encodes as a bare TRUE or FALSE tag.
type Boolean bool

func (b Boolean) Tag() Tag {
	if b {
		return TagTrue
	}
	return TagFalse
}

func (Boolean) sealed() {}

// Null is the null value. It encodes as a bare NULL tag.
type Null struct{}

func (Null) Tag() Tag { return TagNull }
func (Null) sealed() {}

// Number is an IEEE-754 double. NaN and infinities are carried as opaque bit patterns.
type Number float64

func (Number) Tag() Tag { return TagNumber }
func (Number) sealed() {}

// String is a text value, encoded as UTF-8.
type String string

func (String) Tag() Tag { return TagString }
func (String) sealed() {}

// Array is an ordered sequence of values.
type Array []Value

func (Array) Tag() Tag { return TagArray }
func (Array) sealed() {}

// Member is one key/value entry of an Object.
type Member struct {
	Key   string
	Value Value
}

// Object is an ordered mapping of string keys to values.
// Enumeration order is insertion order and is preserved on the wire.
type Object []Member

func (Object) Tag() Tag { return TagObject }
func (Object) sealed() {}

// Get returns the value of the last member named key.
func (o Object) Get(key string) (Value, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Key == key {
			return o[i].Value, true
		}
	}
	return nil, false
}

// Set replaces the value of the first member named key, keeping its position,
// or appends a new member.
func (o *Object) Set(key string, v Value) {
	for i := range *o {
		if (*o)[i].Key == key {
			(*o)[i].Value = v
			return
		}
	}
	*o = append(*o, Member{Key: key, Value: v})
}

// Keys returns member keys in enumeration order.
func (o Object) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Constructors mirroring the variant names, for readable literals in callers and tests.

func Bool(v bool) Boolean { return Boolean(v) }
func Num(v float64) Number { return Number(v) }
func Str(v string) String { return String(v) }
func List(items ...Value) Array { return Array(items) }

// Obj builds an object from alternating key, value arguments.
// It panics if a key is not a string or the argument count is odd.
func Obj(kv ...any) Object {
	if len(kv)%2 != 0 {
		panic("value.Obj: odd argument count")
	}
	o := make(Object, 0, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic("value.Obj: key is not a string")
		}
		v, _ := kv[i+1].(Value)
		o = append(o, Member{Key: key, Value: v})
	}
	return o
}

// KindOf returns the variant name of v, or "nil" for a nil Value.
func KindOf(v Value) string {
	switch v.(type) {
	case Boolean:
		return "boolean"
	case Null:
		return "null"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "nil"
	}
}

// Equal reports whether a and b are structurally equal.
// Numbers compare by bit pattern, so NaN equals an identical NaN and -0 differs from +0.
// Objects compare member by member in order.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Null:
		_, ok := b.(Null)
		return ok
	case Number:
		bv, ok := b.(Number)
		return ok && math.Float64bits(float64(av)) == math.Float64bits(float64(bv))
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case Object:
		bv, ok := b.(Object)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i].Key != bv[i].Key || !Equal(av[i].Value, bv[i].Value) {
				return false
			}
		}
		return true
	default:
		return a == nil && b == nil
	}
}

// Depth returns the nesting depth of v: 1 for scalars, 1 + the deepest child for containers.
// Empty containers have depth 1.
func Depth(v Value) int {
	switch t := v.(type) {
	case Array:
		deepest := 0
		for _, item := range t {
			if d := Depth(item); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	case Object:
		deepest := 0
		for _, m := range t {
			if d := Depth(m.Value); d > deepest {
				deepest = d
			}
		}
		return deepest + 1
	default:
		return 1
	}
}
