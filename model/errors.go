package model

import (
	"errors"
)

var (
	// ErrInvalidModel is returned when a value cannot be mapped to a table (nil, or not a struct).
	ErrInvalidModel = errors.New("invalid model")
	// ErrRecordType is returned when a record passed to a descriptor is not of the mapped type,
	// or is not a non-nil pointer where the field has to be written.
	ErrRecordType = errors.New("record type mismatch")
	// ErrTypeMismatch is returned when a storage value cannot be assigned to a mapped field.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrNoPrimaryKey is returned by Table.RequirePK when the table has no primary key.
	ErrNoPrimaryKey = errors.New("no primary key")
)
