package tablemap

import (
	"github.com/shrek82/tablemap/config"
	"github.com/shrek82/tablemap/model"
)

// Re-export model types and functions
type Table = model.Table
type Column = model.Column
type Registry = model.Registry
type Markers = model.Markers
type IndexSpec = model.IndexSpec
type Source = model.Source
type FieldSpec = model.FieldSpec
type CreateFlags = model.CreateFlags
type Conventions = model.Conventions

const (
	CreateNone    = model.CreateNone
	ImplicitPK    = model.ImplicitPK
	ImplicitIndex = model.ImplicitIndex
	AutoIncPK     = model.AutoIncPK
	AllImplicit   = model.AllImplicit
)

var (
	GetTable    = model.GetTable
	NewTable    = model.NewTable
	NewRegistry = model.NewRegistry
	SourceOf    = model.SourceOf
	ParseTag    = model.ParseTag
	FormatTag   = model.FormatTag

	ErrInvalidModel = model.ErrInvalidModel
	ErrRecordType   = model.ErrRecordType
	ErrTypeMismatch = model.ErrTypeMismatch
	ErrNoPrimaryKey = model.ErrNoPrimaryKey
)

// NewRegistryFromConfig builds a registry whose conventions, default flags and
// logger come from cfg.
func NewRegistryFromConfig(cfg *config.Config) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	flags, err := cfg.CreateFlags()
	if err != nil {
		return nil, err
	}
	l, err := cfg.NewLogger()
	if err != nil {
		return nil, err
	}
	return model.NewRegistry(
		model.WithConventions(cfg.ModelConventions()),
		model.WithDefaultFlags(flags),
		model.WithLogger(l),
	), nil
}
