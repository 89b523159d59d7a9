package model

import (
	"fmt"
	"reflect"
)

// FieldSpec is one field of a Source, in declaration order.
type FieldSpec struct {
	Name     string
	Type     reflect.Type
	Index    []int // index path for reflect.Value.FieldByIndex; resolved by name when nil
	Writable bool
	Markers  Markers
}

// Source is the structural description a Table is built from.
type Source struct {
	Type      reflect.Type // required to read or write records
	TableName string       // explicit table name; empty falls back to Type.Name()
	Fields    []FieldSpec
}

// Enumerator produces the Source of a struct type.
type Enumerator interface {
	Enumerate(t reflect.Type) (*Source, error)
}

// Tabler overrides the table name of a model.
type Tabler interface {
	TableName() string
}

var tablerType = reflect.TypeFor[Tabler]()

// TagEnumerator reads fields through reflection and markers from struct tags.
// Anonymous non-pointer struct fields are flattened in place.
type TagEnumerator struct {
	Key string // tag key, "jorm" when empty
}

func (e TagEnumerator) Enumerate(t reflect.Type) (*Source, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil type", ErrInvalidModel)
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: value must be a struct or pointer to struct, got %s", ErrInvalidModel, t.Kind())
	}

	key := e.Key
	if key == "" {
		key = DefaultConventions().TagKey
	}

	src := &Source{Type: t, TableName: tableNameOf(t)}
	src.Fields = e.appendFields(src.Fields, t, nil, key)
	return src, nil
}

func (e TagEnumerator) appendFields(fields []FieldSpec, t reflect.Type, parent []int, key string) []FieldSpec {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := make([]int, len(parent)+1)
		copy(index, parent)
		index[len(parent)] = i

		tagStr, hasTag := sf.Tag.Lookup(key)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && !hasTag {
			fields = e.appendFields(fields, sf.Type, index, key)
			continue
		}

		markers := ParseTag(tagStr)
		fields = append(fields, FieldSpec{
			Name:     sf.Name,
			Type:     sf.Type,
			Index:    index,
			Writable: sf.IsExported() && !markers.ReadOnly,
			Markers:  markers,
		})
	}
	return fields
}

func tableNameOf(t reflect.Type) string {
	if t.Implements(tablerType) {
		return reflect.Zero(t).Interface().(Tabler).TableName()
	}
	if pt := reflect.PointerTo(t); pt.Implements(tablerType) {
		return reflect.New(t).Interface().(Tabler).TableName()
	}
	return ""
}

// SourceOf enumerates value's type with the default TagEnumerator.
func SourceOf(value any) (*Source, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: value is nil", ErrInvalidModel)
	}
	return TagEnumerator{}.Enumerate(reflect.TypeOf(value))
}
