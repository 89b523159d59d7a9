package model

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

type enumMode uint8

const (
	enumNone     enumMode = iota
	enumPlain             // declared type is an enum
	enumOptional          // declared type is a pointer to an enum
)

// Column maps one struct field to one table column.
// A Column is immutable once built and safe for concurrent use.
type Column struct {
	name         string       // storage name
	propertyName string       // struct field name
	declaredType reflect.Type // field type as declared
	columnType   reflect.Type // declaredType without nullable wrapper
	collation    string
	isPK         bool
	isAutoInc    bool
	isAutoGUID   bool
	isNullable   bool
	maxLength    int
	defaultValue *string
	indices      []IndexSpec

	owner reflect.Type                           // struct type the field belongs to
	field func(root reflect.Value) reflect.Value // resolves the field from the struct value
	enum  enumMode
}

func newColumn(owner reflect.Type, f FieldSpec, flags CreateFlags, conv Conventions) *Column {
	if f.Type == nil && owner != nil {
		if sf, ok := owner.FieldByName(f.Name); ok {
			f.Type = sf.Type
		}
	}
	m := f.Markers
	c := &Column{
		name:         f.Name,
		propertyName: f.Name,
		declaredType: f.Type,
		columnType:   storageType(f.Type),
		collation:    m.Collation,
		maxLength:    m.MaxLength,
		defaultValue: m.Default,
		owner:        owner,
		field:        accessor(owner, f),
	}
	if m.Column != "" {
		c.name = m.Column
	}

	c.isPK = m.PrimaryKey || (flags.Has(ImplicitPK) && strings.EqualFold(f.Name, conv.ImplicitPKName))

	auto := m.AutoIncrement || (c.isPK && flags.Has(AutoIncPK))
	if auto {
		if c.columnType == guidType {
			c.isAutoGUID = true
		} else {
			c.isAutoInc = true
		}
	}

	switch {
	case len(m.Indices) > 0:
		c.indices = append([]IndexSpec(nil), m.Indices...)
	case !c.isPK && flags.Has(ImplicitIndex) && hasSuffixFold(f.Name, conv.IndexSuffix):
		c.indices = []IndexSpec{{}}
	}

	c.isNullable = !(c.isPK || m.NotNull)

	switch {
	case f.Type == nil:
	case isOptionalEnum(f.Type):
		c.enum = enumOptional
	case isEnum(f.Type):
		c.enum = enumPlain
	}
	return c
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// accessor captures the field index path once so reads and writes skip name lookups.
func accessor(owner reflect.Type, f FieldSpec) func(reflect.Value) reflect.Value {
	index := f.Index
	if index == nil && owner != nil {
		if sf, ok := owner.FieldByName(f.Name); ok {
			index = sf.Index
		}
	}
	switch len(index) {
	case 0:
		return func(reflect.Value) reflect.Value { return reflect.Value{} }
	case 1:
		i := index[0]
		return func(root reflect.Value) reflect.Value { return root.Field(i) }
	default:
		return func(root reflect.Value) reflect.Value { return root.FieldByIndex(index) }
	}
}

// Name returns the storage (column) name.
func (c *Column) Name() string { return c.name }

// PropertyName returns the struct field name.
func (c *Column) PropertyName() string { return c.propertyName }

// ColumnType returns the field type with any nullable wrapper removed.
func (c *Column) ColumnType() reflect.Type { return c.columnType }

// DeclaredType returns the field type as declared on the struct.
func (c *Column) DeclaredType() reflect.Type { return c.declaredType }

func (c *Column) Collation() string { return c.collation }
func (c *Column) IsPK() bool        { return c.isPK }
func (c *Column) IsAutoInc() bool   { return c.isAutoInc }
func (c *Column) IsAutoGUID() bool  { return c.isAutoGUID }
func (c *Column) IsNullable() bool  { return c.isNullable }

// MaxLength returns the declared maximum text length, if any.
func (c *Column) MaxLength() (int, bool) {
	return c.maxLength, c.maxLength > 0
}

// DefaultValue returns the declared default, if any.
func (c *Column) DefaultValue() (string, bool) {
	if c.defaultValue == nil {
		return "", false
	}
	return *c.defaultValue, true
}

// Indices returns a copy of the column's index specs.
func (c *Column) Indices() []IndexSpec {
	if len(c.indices) == 0 {
		return nil
	}
	return append([]IndexSpec(nil), c.indices...)
}

func (c *Column) String() string {
	return fmt.Sprintf("%s (%s %s)", c.name, c.propertyName, c.declaredType)
}

// resolve returns the field value of record. Writes require a non-nil pointer.
func (c *Column) resolve(record any, write bool) (reflect.Value, error) {
	if c.owner == nil {
		return reflect.Value{}, fmt.Errorf("%w: column %s has no mapped type", ErrRecordType, c.name)
	}
	rv := reflect.ValueOf(record)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("%w: nil %T", ErrRecordType, record)
		}
		rv = rv.Elem()
	} else if write {
		return reflect.Value{}, fmt.Errorf("%w: %s needs a pointer to %s, got %T", ErrRecordType, c.propertyName, c.owner, record)
	}
	if rv.Type() != c.owner {
		return reflect.Value{}, fmt.Errorf("%w: column %s belongs to %s, got %T", ErrRecordType, c.name, c.owner, record)
	}
	fv := c.field(rv)
	if !fv.IsValid() || (write && !fv.CanSet()) {
		return reflect.Value{}, fmt.Errorf("%w: field %s of %s is not writable", ErrRecordType, c.propertyName, c.owner)
	}
	return fv, nil
}

// GetValue returns the current value of the mapped field without conversion.
// record may be the struct or a pointer to it; any other value panics.
func (c *Column) GetValue(record any) any {
	fv, err := c.resolve(record, false)
	if err != nil {
		panic("tablemap: GetValue: " + err.Error())
	}
	return fv.Interface()
}

// SetValue writes a storage value into the mapped field of record, which must be
// a non-nil pointer to the mapped struct. Integers destined for enum fields are
// converted to the enum type; nil clears the field.
func (c *Column) SetValue(record any, value any) error {
	fv, err := c.resolve(record, true)
	if err != nil {
		return err
	}

	switch c.enum {
	case enumOptional:
		if value == nil {
			fv.SetZero()
			return nil
		}
		ev, ok := enumValue(value, fv.Type().Elem())
		if !ok {
			return c.mismatch(value)
		}
		p := reflect.New(fv.Type().Elem())
		p.Elem().Set(ev)
		fv.Set(p)
		return nil
	case enumPlain:
		if value == nil {
			fv.SetZero()
			return nil
		}
		ev, ok := enumValue(value, fv.Type())
		if !ok {
			return c.mismatch(value)
		}
		fv.Set(ev)
		return nil
	}
	return c.assign(fv, value)
}

func (c *Column) assign(fv reflect.Value, value any) error {
	ft := fv.Type()
	scanner := reflect.PointerTo(ft).Implements(scannerType)

	if value == nil {
		fv.SetZero()
		if scanner {
			if err := fv.Addr().Interface().(sql.Scanner).Scan(nil); err != nil {
				return fmt.Errorf("%w: column %s: %v", ErrTypeMismatch, c.name, err)
			}
		}
		return nil
	}

	vv := reflect.ValueOf(value)
	if vv.Type().AssignableTo(ft) {
		fv.Set(vv)
		return nil
	}
	if ft.Kind() == reflect.Pointer {
		p := reflect.New(ft.Elem())
		if err := c.assign(p.Elem(), value); err != nil {
			return err
		}
		fv.Set(p)
		return nil
	}
	if scanner {
		if err := fv.Addr().Interface().(sql.Scanner).Scan(value); err != nil {
			return fmt.Errorf("%w: column %s: %v", ErrTypeMismatch, c.name, err)
		}
		return nil
	}
	if cv, ok := convertValue(vv, ft); ok {
		fv.Set(cv)
		return nil
	}
	return c.mismatch(value)
}

func (c *Column) mismatch(value any) error {
	return fmt.Errorf("%w: cannot assign %T to column %s (%s)", ErrTypeMismatch, value, c.name, c.declaredType)
}
