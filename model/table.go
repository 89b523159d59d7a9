package model

import (
	"fmt"
	"reflect"

	"github.com/lib/pq"
)

// Table is the mapping of one struct type to one table.
// It is built once per (type, flags) and never modified afterwards.
type Table struct {
	mappedType    reflect.Type
	tableName     string
	flags         CreateFlags
	columns       []*Column
	pk            *Column
	autoIncPK     *Column
	insertColumns []*Column
	getByPKSQL    string
}

// NewTable builds the mapping for src. It never fails: a source without
// mappable fields yields a table with no columns. A source without a Type
// still describes its columns, but every record is rejected with ErrRecordType.
func NewTable(src *Source, flags CreateFlags, opts ...Option) *Table {
	s := newSettings(opts)

	t := &Table{
		mappedType: src.Type,
		tableName:  src.TableName,
		flags:      flags,
	}
	if t.tableName == "" && src.Type != nil {
		t.tableName = src.Type.Name()
	}

	for _, f := range src.Fields {
		if f.Markers.Ignore || !f.Writable {
			continue
		}
		t.columns = append(t.columns, newColumn(src.Type, f, flags, s.conv))
	}

	for _, c := range t.columns {
		if c.isPK {
			if t.pk == nil {
				t.pk = c
			} else {
				s.log.Warn("table %q: %s is also marked primary key, keeping %s", t.tableName, c.propertyName, t.pk.propertyName)
			}
		}
		if c.isPK && c.isAutoInc && t.autoIncPK == nil {
			t.autoIncPK = c
		}
		if !c.isAutoInc {
			t.insertColumns = append(t.insertColumns, c)
		}
	}

	t.getByPKSQL = getByPrimaryKeySQL(t.tableName, t.pk)
	return t
}

// getByPrimaryKeySQL builds the single-row lookup. Without a primary key it
// degrades to "limit 1", which returns an arbitrary row.
func getByPrimaryKeySQL(table string, pk *Column) string {
	if pk == nil {
		return fmt.Sprintf("select * from %s limit 1", pq.QuoteIdentifier(table))
	}
	return fmt.Sprintf("select * from %s where %s = ?", pq.QuoteIdentifier(table), pq.QuoteIdentifier(pk.name))
}

func (t *Table) MappedType() reflect.Type { return t.mappedType }
func (t *Table) TableName() string        { return t.tableName }
func (t *Table) Flags() CreateFlags       { return t.flags }

// Columns returns the mapped columns in declaration order.
// The slice is shared; callers must not modify it.
func (t *Table) Columns() []*Column { return t.columns }

// PK returns the primary key column, or nil.
func (t *Table) PK() *Column { return t.pk }

// RequirePK returns the primary key column, or ErrNoPrimaryKey.
func (t *Table) RequirePK() (*Column, error) {
	if t.pk == nil {
		return nil, fmt.Errorf("%w: table %s", ErrNoPrimaryKey, t.tableName)
	}
	return t.pk, nil
}

// AutoIncPK returns the auto-increment primary key column, or nil.
func (t *Table) AutoIncPK() *Column { return t.autoIncPK }

func (t *Table) HasAutoIncPK() bool { return t.autoIncPK != nil }

// InsertColumns returns the columns an INSERT binds: every column that is not
// auto-increment. The slice is shared; callers must not modify it.
func (t *Table) InsertColumns() []*Column { return t.insertColumns }

// GetByPrimaryKeySQL returns `select * from "<table>" where "<pk>" = ?`, or
// `select * from "<table>" limit 1` when the table has no primary key.
func (t *Table) GetByPrimaryKeySQL() string { return t.getByPKSQL }

// FindColumnWithPropertyName returns the column mapped from the named struct field, or nil.
func (t *Table) FindColumnWithPropertyName(name string) *Column {
	for _, c := range t.columns {
		if c.propertyName == name {
			return c
		}
	}
	return nil
}

// FindColumn returns the column with the given storage name, or nil.
func (t *Table) FindColumn(name string) *Column {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

// AssignGeneratedKey stores a storage-assigned identifier into the auto-increment
// primary key of record. It does nothing when the table has no such key, and
// returns ErrTypeMismatch when id does not fit the key's type.
func (t *Table) AssignGeneratedKey(record any, id int64) error {
	if t.autoIncPK == nil {
		return nil
	}
	return t.autoIncPK.SetValue(record, id)
}

func (t *Table) String() string {
	return fmt.Sprintf("%s -> %q (%d columns)", t.mappedType, t.tableName, len(t.columns))
}
