package accessor

import (
	"reflect"
	"sort"
	"strings"
	"time"
)

// maxNestingDepth limits how deep nested structs are flattened into dotted attribute names.
const maxNestingDepth = 3

type fieldKind uint8

const (
	kindOther fieldKind = iota
	kindString
	kindInt
	kindUint
	kindFloat
	kindBool
	kindTime
)

var timeType = reflect.TypeOf(time.Time{})

type field struct {
	name  string
	index []int
	kind  fieldKind
}

// Schema holds the attribute accessors of a struct type. It is built once
// per model type, so that queries only do keyed lookups.
type Schema struct {
	typ    reflect.Type
	fields map[string]*field
}

// NewSchema builds the attribute schema for the type of the given sample,
// which must be a struct or a pointer to a struct.
//
// Attribute names are taken from the json struct tag, falling back to the
// field name. Embedded structs are flattened, other nested structs are
// reachable with dotted names, eg. "address.city".
func NewSchema(sample interface{}) (*Schema, error) {
	typ := reflect.TypeOf(sample)
	if typ == nil {
		return nil, ErrNotAStruct
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, ErrNotAStruct
	}

	s := &Schema{
		typ:    typ,
		fields: make(map[string]*field),
	}
	s.addFields(typ, nil, "", 0)
	return s, nil
}

func (s *Schema) addFields(typ reflect.Type, parentIndex []int, prefix string, depth int) {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, skip := fieldName(sf)
		if skip {
			continue
		}

		index := make([]int, len(parentIndex), len(parentIndex)+1)
		copy(index, parentIndex)
		index = append(index, i)

		fieldType := sf.Type
		for fieldType.Kind() == reflect.Pointer {
			fieldType = fieldType.Elem()
		}

		// flatten embedded structs without a name of their own
		if sf.Anonymous && fieldType.Kind() == reflect.Struct && sf.Tag.Get("json") == "" {
			s.addFields(fieldType, index, prefix, depth)
			continue
		}

		fullName := prefix + name
		kind := kindOf(fieldType)
		// fields of outer structs take precedence over embedded ones
		if _, exists := s.fields[fullName]; !exists || len(index) < len(s.fields[fullName].index) {
			s.fields[fullName] = &field{
				name:  fullName,
				index: index,
				kind:  kind,
			}
		}

		if kind == kindOther && fieldType.Kind() == reflect.Struct && depth < maxNestingDepth {
			s.addFields(fieldType, index, fullName+".", depth+1)
		}
	}
}

func fieldName(sf reflect.StructField) (name string, skip bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", true
	}
	if tagName, _, _ := strings.Cut(tag, ","); tagName != "" {
		return tagName, false
	}
	return sf.Name, false
}

func kindOf(typ reflect.Type) fieldKind {
	if typ == timeType {
		return kindTime
	}

	switch typ.Kind() {
	case reflect.String:
		return kindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindUint
	case reflect.Float32, reflect.Float64:
		return kindFloat
	case reflect.Bool:
		return kindBool
	default:
		return kindOther
	}
}

// Type returns the struct type of the schema.
func (s *Schema) Type() reflect.Type {
	return s.typ
}

// Attributes returns the sorted names of all attributes.
func (s *Schema) Attributes() []string {
	names := make([]string, 0, len(s.fields))
	for name := range s.fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasAttribute returns whether the schema knows an attribute with the given name.
func (s *Schema) HasAttribute(name string) bool {
	_, ok := s.fields[name]
	return ok
}

// Accessor returns an accessor for the given object, which must be of the
// schema type or a pointer to it.
func (s *Schema) Accessor(object interface{}) (*StructAccessor, error) {
	val := reflect.ValueOf(object)
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil, &TypeMismatchError{Expected: s.typ, Actual: reflect.TypeOf(object)}
		}
		val = val.Elem()
	}
	if val.Type() != s.typ {
		return nil, &TypeMismatchError{Expected: s.typ, Actual: reflect.TypeOf(object)}
	}

	return &StructAccessor{
		schema: s,
		object: val,
	}, nil
}
