package model_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shrek82/tablemap/logger"
	"github.com/shrek82/tablemap/model"
)

func columnNames(cols []*model.Column) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name()
	}
	return names
}

func TestNewTable(t *testing.T) {
	t.Run("Columns", func(t *testing.T) {
		table := mustTable(t, Account{}, model.CreateNone)
		if table.TableName() != "Account" {
			t.Errorf("Expected table name Account, got %q", table.TableName())
		}
		if table.MappedType() != reflect.TypeFor[Account]() {
			t.Errorf("Unexpected mapped type %s", table.MappedType())
		}
		want := []string{"Id", "OwnerId", "name", "Email", "Status", "Previous", "Balance"}
		if got := columnNames(table.Columns()); !reflect.DeepEqual(got, want) {
			t.Errorf("Expected columns %v, got %v", want, got)
		}
		if table.PK() != nil || table.HasAutoIncPK() {
			t.Error("Expected no primary key without flags")
		}
		if len(table.InsertColumns()) != len(table.Columns()) {
			t.Errorf("Expected every column to be insertable, got %v", columnNames(table.InsertColumns()))
		}
	})

	t.Run("AllImplicit", func(t *testing.T) {
		table := mustTable(t, Account{}, model.AllImplicit)
		if table.Flags() != model.AllImplicit {
			t.Errorf("Expected flags %s, got %s", model.AllImplicit, table.Flags())
		}
		if table.PK() == nil || table.PK().Name() != "Id" {
			t.Fatalf("Expected primary key Id, got %v", table.PK())
		}
		if table.AutoIncPK() != table.PK() {
			t.Error("Expected the primary key to be the auto-increment key")
		}
		want := []string{"OwnerId", "name", "Email", "Status", "Previous", "Balance"}
		if got := columnNames(table.InsertColumns()); !reflect.DeepEqual(got, want) {
			t.Errorf("Expected insert columns %v, got %v", want, got)
		}
	})

	t.Run("Tabler", func(t *testing.T) {
		table := mustTable(t, &Post{}, model.CreateNone)
		if table.TableName() != "posts" {
			t.Errorf("Expected table name posts, got %q", table.TableName())
		}
		want := []string{"ID", "CreatedBy", "UpdatedBy", "Title"}
		if got := columnNames(table.Columns()); !reflect.DeepEqual(got, want) {
			t.Errorf("Expected columns %v, got %v", want, got)
		}
	})

	t.Run("DuplicatePK", func(t *testing.T) {
		var buf bytes.Buffer
		l := logger.NewStdLogger()
		l.SetOutput(&buf)
		l.SetLevel(logger.LogLevelWarn)

		src, err := model.SourceOf(Twin{})
		if err != nil {
			t.Fatal(err)
		}
		table := model.NewTable(src, model.CreateNone, model.WithLogger(l))
		if table.PK().PropertyName() != "A" {
			t.Errorf("Expected the first key A to win, got %s", table.PK().PropertyName())
		}
		if table.AutoIncPK() == nil || table.AutoIncPK().PropertyName() != "B" {
			t.Errorf("Expected B as auto-increment key, got %v", table.AutoIncPK())
		}
		if !strings.Contains(buf.String(), "also marked primary key") {
			t.Errorf("Expected a warning, got %q", buf.String())
		}
	})

	t.Run("Empty", func(t *testing.T) {
		table := mustTable(t, Empty{}, model.AllImplicit)
		if len(table.Columns()) != 0 || table.PK() != nil || len(table.InsertColumns()) != 0 {
			t.Errorf("Expected an empty table, got %s", table)
		}
		if got := table.GetByPrimaryKeySQL(); got != `select * from "Empty" limit 1` {
			t.Errorf("Unexpected SQL %q", got)
		}
	})

	t.Run("GUIDKeyIsInserted", func(t *testing.T) {
		table := mustTable(t, Document{}, model.AllImplicit)
		if table.HasAutoIncPK() {
			t.Error("Expected a GUID key not to count as auto-increment")
		}
		if got := columnNames(table.InsertColumns()); !reflect.DeepEqual(got, []string{"Key", "Title"}) {
			t.Errorf("Unexpected insert columns %v", got)
		}
	})
}

func TestGetByPrimaryKeySQL(t *testing.T) {
	table := mustTable(t, Account{}, model.ImplicitPK)
	if got := table.GetByPrimaryKeySQL(); got != `select * from "Account" where "Id" = ?` {
		t.Errorf("Unexpected SQL %q", got)
	}

	src := &model.Source{
		Type:      reflect.TypeFor[Account](),
		TableName: `odd"name`,
		Fields: []model.FieldSpec{
			{Name: "Name", Type: reflect.TypeFor[string](), Writable: true, Markers: model.Markers{PrimaryKey: true, Column: "user name"}},
		},
	}
	if got := model.NewTable(src, model.CreateNone).GetByPrimaryKeySQL(); got != `select * from "odd""name" where "user name" = ?` {
		t.Errorf("Unexpected SQL %q", got)
	}
}

func TestFindColumn(t *testing.T) {
	table := mustTable(t, Account{}, model.CreateNone)
	if c := table.FindColumn("name"); c == nil || c.PropertyName() != "Name" {
		t.Errorf("Expected to find column name, got %v", c)
	}
	if c := table.FindColumn("Name"); c != nil {
		t.Errorf("Expected storage lookup to be exact, got %v", c)
	}
	if c := table.FindColumnWithPropertyName("Name"); c == nil || c.Name() != "name" {
		t.Errorf("Expected to find property Name, got %v", c)
	}
	for _, missing := range []string{"Note", "Computed", "secret"} {
		if c := table.FindColumnWithPropertyName(missing); c != nil {
			t.Errorf("Expected %s not to be mapped", missing)
		}
	}
}

func TestAssignGeneratedKey(t *testing.T) {
	t.Run("Int32", func(t *testing.T) {
		table := mustTable(t, Counter{}, model.CreateNone)
		var c Counter
		if err := table.AssignGeneratedKey(&c, 42); err != nil {
			t.Fatal(err)
		}
		if c.ID != 42 {
			t.Errorf("Expected ID 42, got %d", c.ID)
		}
	})

	t.Run("Pointer", func(t *testing.T) {
		table := mustTable(t, Ticket{}, model.CreateNone)
		var tk Ticket
		if err := table.AssignGeneratedKey(&tk, 7); err != nil {
			t.Fatal(err)
		}
		if tk.ID == nil || *tk.ID != 7 {
			t.Errorf("Expected ID 7, got %v", tk.ID)
		}
	})

	t.Run("Range", func(t *testing.T) {
		table := mustTable(t, Gauge{}, model.CreateNone)
		cases := []struct {
			id int64
			ok bool
		}{
			{127, true},
			{-128, true},
			{128, false},
			{300, false},
			{-129, false},
		}
		for _, tc := range cases {
			g := Gauge{Key: 5}
			err := table.AssignGeneratedKey(&g, tc.id)
			if tc.ok {
				if err != nil || int64(g.Key) != tc.id {
					t.Errorf("AssignGeneratedKey(%d): Key=%d, err=%v", tc.id, g.Key, err)
				}
				continue
			}
			if !errors.Is(err, model.ErrTypeMismatch) {
				t.Errorf("AssignGeneratedKey(%d): expected ErrTypeMismatch, got %v", tc.id, err)
			}
			if g.Key != 5 {
				t.Errorf("AssignGeneratedKey(%d): expected Key to be untouched, got %d", tc.id, g.Key)
			}
		}
	})

	t.Run("NoKey", func(t *testing.T) {
		table := mustTable(t, Account{}, model.CreateNone)
		var a Account
		if err := table.AssignGeneratedKey(&a, 1); err != nil || a.Id != 0 {
			t.Errorf("Expected no-op, got Id=%d (%v)", a.Id, err)
		}
	})

	t.Run("WrongRecord", func(t *testing.T) {
		table := mustTable(t, Counter{}, model.CreateNone)
		if err := table.AssignGeneratedKey(Counter{}, 1); !errors.Is(err, model.ErrRecordType) {
			t.Errorf("Expected ErrRecordType, got %v", err)
		}
	})
}

func TestInsertValues(t *testing.T) {
	t.Run("GeneratesGUID", func(t *testing.T) {
		table := mustTable(t, Document{}, model.CreateNone)
		doc := Document{Title: "notes"}
		values, err := table.InsertValues(&doc)
		if err != nil {
			t.Fatal(err)
		}
		if doc.Key == uuid.Nil {
			t.Fatal("Expected a generated key")
		}
		if !reflect.DeepEqual(values, []any{doc.Key, "notes"}) {
			t.Errorf("Unexpected values %v", values)
		}

		key := doc.Key
		if _, err := table.InsertValues(&doc); err != nil || doc.Key != key {
			t.Errorf("Expected an existing key to be kept, got %s (%v)", doc.Key, err)
		}
	})

	t.Run("SkipsAutoIncrement", func(t *testing.T) {
		table := mustTable(t, Counter{}, model.CreateNone)
		values, err := table.InsertValues(Counter{ID: 3, Hits: 5})
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(values, []any{uint16(5)}) {
			t.Errorf("Unexpected values %v", values)
		}
	})

	t.Run("WrongRecord", func(t *testing.T) {
		table := mustTable(t, Counter{}, model.CreateNone)
		if _, err := table.InsertValues(&Ticket{}); !errors.Is(err, model.ErrRecordType) {
			t.Errorf("Expected ErrRecordType, got %v", err)
		}
	})
}

func TestPKValue(t *testing.T) {
	table := mustTable(t, Account{}, model.ImplicitPK)
	if v, ok := table.PKValue(Account{Id: 11}); !ok || v != int64(11) {
		t.Errorf("Expected 11, got %v (%v)", v, ok)
	}
	if _, ok := mustTable(t, Account{}, model.CreateNone).PKValue(Account{}); ok {
		t.Error("Expected no key value without a primary key")
	}
}

func TestRequirePK(t *testing.T) {
	if c, err := mustTable(t, Account{}, model.ImplicitPK).RequirePK(); err != nil || c.Name() != "Id" {
		t.Errorf("Expected Id, got %v (%v)", c, err)
	}
	if _, err := mustTable(t, Account{}, model.CreateNone).RequirePK(); !errors.Is(err, model.ErrNoPrimaryKey) {
		t.Errorf("Expected ErrNoPrimaryKey, got %v", err)
	}
}
