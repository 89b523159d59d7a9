package model_test

import (
	"reflect"
	"testing"

	"github.com/shrek82/tablemap/model"
)

func TestParseTag(t *testing.T) {
	t.Run("Separators", func(t *testing.T) {
		for _, tag := range []string{
			"pk auto column:user_id",
			"pk;auto;column:user_id",
			"pk,auto,column:user_id",
			" PK ; Auto , column:user_id ",
		} {
			m := model.ParseTag(tag)
			if !m.PrimaryKey || !m.AutoIncrement || m.Column != "user_id" {
				t.Errorf("ParseTag(%q) = %+v", tag, m)
			}
		}
	})

	t.Run("Ignore", func(t *testing.T) {
		if !model.ParseTag("-").Ignore {
			t.Error("Expected '-' to ignore the field")
		}
		if !model.ParseTag("ignore column:x").Ignore {
			t.Error("Expected 'ignore' key to ignore the field")
		}
	})

	t.Run("Values", func(t *testing.T) {
		m := model.ParseTag("size:100 notnull default:18 collate:NOCASE readonly")
		if m.MaxLength != 100 {
			t.Errorf("Expected MaxLength 100, got %d", m.MaxLength)
		}
		if !m.NotNull || !m.ReadOnly {
			t.Errorf("Expected notnull and readonly, got %+v", m)
		}
		if v, ok := m.DefaultValue(); !ok || v != "18" {
			t.Errorf("Expected default 18, got %q (%v)", v, ok)
		}
		if m.Collation != "NOCASE" {
			t.Errorf("Expected collation NOCASE, got %q", m.Collation)
		}
	})

	t.Run("EmptyDefault", func(t *testing.T) {
		m := model.ParseTag("default:")
		if v, ok := m.DefaultValue(); !ok || v != "" {
			t.Errorf("Expected an empty default to be present, got %q (%v)", v, ok)
		}
		if _, ok := model.ParseTag("notnull").DefaultValue(); ok {
			t.Error("Expected no default")
		}
	})

	t.Run("Indices", func(t *testing.T) {
		m := model.ParseTag("index index:idx_a(2) uniqueindex:idx_b unique")
		want := []model.IndexSpec{
			{},
			{Name: "idx_a", Order: 2},
			{Name: "idx_b", Unique: true},
			{Unique: true},
		}
		if !reflect.DeepEqual(m.Indices, want) {
			t.Errorf("Expected %+v, got %+v", want, m.Indices)
		}
	})

	t.Run("InvalidSize", func(t *testing.T) {
		if m := model.ParseTag("size:abc"); m.MaxLength != 0 {
			t.Errorf("Expected MaxLength 0, got %d", m.MaxLength)
		}
	})
}

func TestFormatTag(t *testing.T) {
	def := "'none'"
	m := model.Markers{
		Column:        "user_name",
		PrimaryKey:    true,
		AutoIncrement: true,
		NotNull:       true,
		Default:       &def,
		MaxLength:     32,
		Collation:     "utf8mb4_bin",
		Indices: []model.IndexSpec{
			{Unique: true},
			{Name: "idx_user", Order: 1},
		},
	}

	tag := model.FormatTag(m)
	if want := "column:user_name;pk;auto;notnull;default:'none';size:32;collate:utf8mb4_bin;unique;index:idx_user(1)"; tag != want {
		t.Errorf("Expected %q, got %q", want, tag)
	}
	if back := model.ParseTag(tag); !reflect.DeepEqual(back, m) {
		t.Errorf("ParseTag(FormatTag(m)) = %+v, want %+v", back, m)
	}

	if got := model.FormatTag(model.Markers{Ignore: true, Column: "x"}); got != "-" {
		t.Errorf("Expected '-', got %q", got)
	}
}
