package model

import "strings"

// CreateFlags controls the naming conventions applied while a table is mapped.
// Flags combine with bitwise OR.
type CreateFlags int

const CreateNone CreateFlags = 0

const (
	ImplicitPK    CreateFlags = 1 << iota // field named like Conventions.ImplicitPKName becomes the primary key
	ImplicitIndex                         // field ending with Conventions.IndexSuffix gets an index
	AutoIncPK                             // primary key is auto-increment without an explicit marker
)

// AllImplicit enables every convention.
const AllImplicit = ImplicitPK | ImplicitIndex | AutoIncPK

// Has reports whether all bits of f are set.
func (c CreateFlags) Has(f CreateFlags) bool {
	return c&f == f
}

func (c CreateFlags) String() string {
	if c == CreateNone {
		return "none"
	}
	var parts []string
	if c.Has(ImplicitPK) {
		parts = append(parts, "implicit_pk")
	}
	if c.Has(ImplicitIndex) {
		parts = append(parts, "implicit_index")
	}
	if c.Has(AutoIncPK) {
		parts = append(parts, "auto_inc_pk")
	}
	return strings.Join(parts, "|")
}

// Conventions holds the names used by the implicit flags.
type Conventions struct {
	ImplicitPKName string // compared case-insensitively with the field name
	IndexSuffix    string // compared case-insensitively with the end of the field name
	TagKey         string // struct tag key read by TagEnumerator
}

// DefaultConventions returns the stock conventions: "Id" for both the implicit
// primary key and the index suffix, markers under the "jorm" tag key.
func DefaultConventions() Conventions {
	return Conventions{
		ImplicitPKName: "Id",
		IndexSuffix:    "Id",
		TagKey:         "jorm",
	}
}

func (c Conventions) withDefaults() Conventions {
	d := DefaultConventions()
	if c.ImplicitPKName == "" {
		c.ImplicitPKName = d.ImplicitPKName
	}
	if c.IndexSuffix == "" {
		c.IndexSuffix = d.IndexSuffix
	}
	if c.TagKey == "" {
		c.TagKey = d.TagKey
	}
	return c
}
