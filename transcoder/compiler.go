package transcoder

import (
	"reflect"
	"strings"
	"sync"
)

// Compiler builds and caches struct field plans.
type Compiler struct {
	cache sync.Map // reflect.Type -> *StructPlan
}

func NewCompiler() *Compiler {
	return &Compiler{}
}

var defaultCompiler = NewCompiler()

// Plan returns the cached field plan for a struct type, compiling it on first use.
func (c *Compiler) Plan(goType reflect.Type) *StructPlan {
	if cached, ok := c.cache.Load(goType); ok {
		return cached.(*StructPlan)
	}
	plan := compileStruct(goType)
	actual, _ := c.cache.LoadOrStore(goType, plan)
	return actual.(*StructPlan)
}

func compileStruct(goType reflect.Type) *StructPlan {
	plan := &StructPlan{
		GoType: goType,
		byKey:  make(map[string]int),
	}
	collectFields(plan, goType, nil, make(map[reflect.Type]bool))
	return plan
}

// collectFields walks fields in declaration order. Untagged exported embedded
// structs are inlined; a key seen earlier wins over a later one.
func collectFields(plan *StructPlan, goType reflect.Type, index []int, visiting map[reflect.Type]bool) {
	if visiting[goType] {
		return
	}
	visiting[goType] = true
	defer delete(visiting, goType)

	for i := 0; i < goType.NumField(); i++ {
		field := goType.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, opts := parseTag(tag)

		fieldIndex := append(append([]int{}, index...), i)

		if field.Anonymous && name == "" && field.IsExported() {
			ft := field.Type
			if ft.Kind() == reflect.Pointer {
				ft = ft.Elem()
			}
			if ft.Kind() == reflect.Struct {
				collectFields(plan, ft, fieldIndex, visiting)
				continue
			}
		}
		if !field.IsExported() {
			continue
		}

		if name == "" {
			name = field.Name
		}
		if _, dup := plan.byKey[name]; dup {
			continue
		}

		plan.byKey[name] = len(plan.Fields)
		plan.Fields = append(plan.Fields, FieldPlan{
			Name:      field.Name,
			Key:       name,
			Index:     fieldIndex,
			OmitEmpty: opts.has("omitempty"),
		})
	}
}

type tagOptions string

func parseTag(tag string) (string, tagOptions) {
	name, opts, _ := strings.Cut(tag, ",")
	return name, tagOptions(opts)
}

func (o tagOptions) has(opt string) bool {
	s := string(o)
	for s != "" {
		var cur string
		cur, s, _ = strings.Cut(s, ",")
		if cur == opt {
			return true
		}
	}
	return false
}
