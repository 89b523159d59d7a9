package model

import (
	"fmt"
	"reflect"
	"sync"
	"time"
)

type tableKey struct {
	typ   reflect.Type
	flags CreateFlags
}

// Registry caches one Table per (struct type, flags) for the life of the process.
// It is safe for concurrent use.
type Registry struct {
	tables sync.Map // tableKey -> *Table
	s      settings
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{s: newSettings(opts)}
}

// Get returns the table for value using the registry's default flags.
func (r *Registry) Get(value any) (*Table, error) {
	return r.Table(value, r.s.flags)
}

// Table returns the table for value, mapping its type on first use.
// value may be a struct, a pointer to one, or a reflect.Type.
func (r *Registry) Table(value any, flags CreateFlags) (*Table, error) {
	if value == nil {
		return nil, fmt.Errorf("%w: value is nil", ErrInvalidModel)
	}
	typ, ok := value.(reflect.Type)
	if !ok {
		typ = reflect.TypeOf(value)
	}
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	key := tableKey{typ: typ, flags: flags}
	if cached, ok := r.tables.Load(key); ok {
		return cached.(*Table), nil
	}

	start := time.Now()
	src, err := r.s.enum.Enumerate(typ)
	if err != nil {
		return nil, err
	}
	t := NewTable(src, flags, WithConventions(r.s.conv), WithLogger(r.s.log))

	actual, loaded := r.tables.LoadOrStore(key, t)
	if !loaded {
		r.s.log.Debug("mapped %s [%s] in %v", t, flags, time.Since(start))
	}
	return actual.(*Table), nil
}

// Reset drops every cached table.
func (r *Registry) Reset() {
	r.tables.Range(func(k, _ any) bool {
		r.tables.Delete(k)
		return true
	})
}

var (
	defaultRegistry     *Registry
	defaultRegistryOnce sync.Once
)

// Default returns the process-wide registry used by GetTable.
func Default() *Registry {
	defaultRegistryOnce.Do(func() { defaultRegistry = NewRegistry() })
	return defaultRegistry
}

// GetTable returns the cached table for value from the default registry.
func GetTable(value any, flags CreateFlags) (*Table, error) {
	return Default().Table(value, flags)
}
