package model_test

import (
	"errors"
	"testing"

	"github.com/shrek82/tablemap/model"
)

// textRows returns every value as []byte, the way the MySQL text protocol does.
type textRows struct {
	names  []string
	values []string
}

func (r *textRows) Columns() ([]string, error) { return r.names, nil }

func (r *textRows) Scan(dest ...any) error {
	for i, d := range dest {
		*d.(*any) = []byte(r.values[i])
	}
	return nil
}

func TestScanRowTextProtocol(t *testing.T) {
	table := mustTable(t, Gauge{}, model.CreateNone)

	t.Run("Numbers", func(t *testing.T) {
		rows := &textRows{
			names:  []string{"Key", "Count", "Ratio", "Total", "On", "Level", "extra"},
			values: []string{"9", "200", "0.25", "42", "1", "3", "ignored"},
		}
		var g Gauge
		if err := table.ScanRow(rows, &g); err != nil {
			t.Fatalf("ScanRow failed: %v", err)
		}
		want := Gauge{Key: 9, Count: 200, Ratio: 0.25, Total: 42, On: true, Level: 3}
		if g != want {
			t.Errorf("Expected %+v, got %+v", want, g)
		}
	})

	t.Run("OutOfRange", func(t *testing.T) {
		rows := &textRows{names: []string{"Count"}, values: []string{"256"}}
		var g Gauge
		if err := table.ScanRow(rows, &g); !errors.Is(err, model.ErrTypeMismatch) {
			t.Errorf("Expected ErrTypeMismatch, got %v", err)
		}
	})
}
