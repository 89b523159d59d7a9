package model

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
)

// Rows is the part of *sql.Rows that ScanRow reads from.
type Rows interface {
	Columns() ([]string, error)
	Scan(dest ...any) error
}

// ScanRow reads the current row into record, a pointer to the mapped struct.
// Result columns without a mapped column are discarded.
func (t *Table) ScanRow(rows Rows, record any) error {
	names, err := rows.Columns()
	if err != nil {
		return err
	}

	values := make([]any, len(names))
	dest := make([]any, len(names))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return err
	}

	for i, name := range names {
		c := t.FindColumn(name)
		if c == nil {
			continue
		}
		if err := c.SetValue(record, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// AssignGeneratedGUIDs gives every auto-GUID column still holding uuid.Nil a new random UUID.
func (t *Table) AssignGeneratedGUIDs(record any) error {
	for _, c := range t.columns {
		if !c.isAutoGUID {
			continue
		}
		fv, err := c.resolve(record, true)
		if err != nil {
			return err
		}
		switch v := fv.Interface().(type) {
		case uuid.UUID:
			if v != uuid.Nil {
				continue
			}
		case *uuid.UUID:
			if v != nil && *v != uuid.Nil {
				continue
			}
		}
		if err := c.SetValue(record, uuid.New()); err != nil {
			return err
		}
	}
	return nil
}

// InsertValues returns the current values of InsertColumns in order, ready to be
// bound as INSERT parameters. Auto-GUID keys are generated first, so record must
// be a pointer when the table has any.
func (t *Table) InsertValues(record any) ([]any, error) {
	if err := t.AssignGeneratedGUIDs(record); err != nil {
		return nil, err
	}
	if err := t.checkRecord(record); err != nil {
		return nil, err
	}
	values := make([]any, len(t.insertColumns))
	for i, c := range t.insertColumns {
		values[i] = c.GetValue(record)
	}
	return values, nil
}

// PKValue returns the primary key value of record. The boolean is false when the
// table has no primary key.
func (t *Table) PKValue(record any) (any, bool) {
	if t.pk == nil {
		return nil, false
	}
	return t.pk.GetValue(record), true
}

func (t *Table) checkRecord(record any) error {
	rv := reflect.ValueOf(record)
	if rv.Kind() == reflect.Pointer && !rv.IsNil() {
		rv = rv.Elem()
	}
	if !rv.IsValid() || rv.Type() != t.mappedType {
		return fmt.Errorf("%w: table %s maps %s, got %T", ErrRecordType, t.tableName, t.mappedType, record)
	}
	return nil
}
