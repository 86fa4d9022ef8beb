package transcoder

import (
	"reflect"
	"strings"
)

// StructPlan is the compiled field layout of a struct type.
type StructPlan struct {
	GoType reflect.Type
	Fields []FieldPlan
	byKey  map[string]int
}

// FieldPlan describes one exported struct field and the object key it maps to.
type FieldPlan struct {
	Name      string // Go field name
	Key       string // object key
	Index     []int  // reflect index path, longer than 1 for promoted fields
	OmitEmpty bool
}

// Lookup finds the field for key: exact match first, then case-insensitive.
func (p *StructPlan) Lookup(key string) (*FieldPlan, bool) {
	if i, ok := p.byKey[key]; ok {
		return &p.Fields[i], true
	}
	for i := range p.Fields {
		if strings.EqualFold(p.Fields[i].Key, key) {
			return &p.Fields[i], true
		}
	}
	return nil, false
}
