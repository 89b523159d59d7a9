package model

import (
	"database/sql"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	guidType    = reflect.TypeFor[uuid.UUID]()
	timeType    = reflect.TypeFor[time.Time]()
	scannerType = reflect.TypeFor[sql.Scanner]()
)

// nullWrappers lists driver-specific optional types and the value they wrap.
// The database/sql Null* family is recognised structurally in nullableValue.
var nullWrappers = map[reflect.Type]reflect.Type{
	reflect.TypeFor[mysql.NullTime](): timeType,
	reflect.TypeFor[pq.NullTime]():    timeType,
}

// storageType strips one level of nullable wrapping from t.
func storageType(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer && t.Elem().Kind() != reflect.Pointer {
		return t.Elem()
	}
	if v, ok := nullableValue(t); ok {
		return v
	}
	return t
}

func nullableValue(t reflect.Type) (reflect.Type, bool) {
	if v, ok := nullWrappers[t]; ok {
		return v, true
	}
	if t.Kind() == reflect.Struct && t.PkgPath() == "database/sql" &&
		strings.HasPrefix(t.Name(), "Null") && t.NumField() == 2 &&
		t.Field(1).Name == "Valid" && t.Field(1).Type.Kind() == reflect.Bool {
		return t.Field(0).Type, true
	}
	return nil, false
}

// isEnum reports whether t is a declared integer type such as `type Status int`.
func isEnum(t reflect.Type) bool {
	return t.Name() != "" && t.PkgPath() != "" && isIntKind(t.Kind())
}

func isOptionalEnum(t reflect.Type) bool {
	return t.Kind() == reflect.Pointer && isEnum(t.Elem())
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return isUintKind(k)
}

func isUintKind(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumberKind(k reflect.Kind) bool {
	return isIntKind(k) || k == reflect.Float32 || k == reflect.Float64
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}

// enumValue reinterprets v as an integer and converts it to the enum type t.
// Text values are parsed, since text-protocol drivers hand integers back as bytes.
// Values outside the range of t are rejected.
func enumValue(v any, t reflect.Type) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return reflect.Value{}, false
	case rv.CanInt(), rv.CanUint():
		return convertNumber(rv, t)
	case rv.Kind() == reflect.String:
		return parseNumber(rv.String(), t)
	case isBytes(rv.Type()):
		return parseNumber(string(rv.Bytes()), t)
	}
	return reflect.Value{}, false
}

// parseNumber parses text into the numeric type t.
func parseNumber(s string, t reflect.Type) (reflect.Value, bool) {
	s = strings.TrimSpace(s)
	switch {
	case t.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return reflect.Value{}, false
		}
		return reflect.ValueOf(b).Convert(t), true
	case isUintKind(t.Kind()):
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		return convertNumber(reflect.ValueOf(n), t)
	case isIntKind(t.Kind()):
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		return convertNumber(reflect.ValueOf(n), t)
	case isNumberKind(t.Kind()):
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return reflect.Value{}, false
		}
		return convertNumber(reflect.ValueOf(f), t)
	}
	return reflect.Value{}, false
}

// convertNumber converts between numeric kinds, refusing conversions that
// overflow t, turn a negative value unsigned, or drop a fractional part.
func convertNumber(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	target := reflect.Zero(t)
	tk := t.Kind()
	switch {
	case v.CanInt():
		n := v.Int()
		switch {
		case isUintKind(tk):
			if n < 0 || target.OverflowUint(uint64(n)) {
				return reflect.Value{}, false
			}
		case isIntKind(tk):
			if target.OverflowInt(n) {
				return reflect.Value{}, false
			}
		}
	case v.CanUint():
		n := v.Uint()
		switch {
		case isUintKind(tk):
			if target.OverflowUint(n) {
				return reflect.Value{}, false
			}
		case isIntKind(tk):
			if n > math.MaxInt64 || target.OverflowInt(int64(n)) {
				return reflect.Value{}, false
			}
		}
	case v.CanFloat():
		f := v.Float()
		switch {
		case isUintKind(tk):
			if f != math.Trunc(f) || f < 0 || f >= 1<<64 || target.OverflowUint(uint64(f)) {
				return reflect.Value{}, false
			}
		case isIntKind(tk):
			if f != math.Trunc(f) || f < math.MinInt64 || f >= 1<<63 || target.OverflowInt(int64(f)) {
				return reflect.Value{}, false
			}
		default:
			if target.OverflowFloat(f) {
				return reflect.Value{}, false
			}
		}
	default:
		return reflect.Value{}, false
	}
	return v.Convert(t), true
}

// intBool accepts 0 and 1 as booleans, as drivers report tinyint(1) columns.
func intBool(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	var n uint64
	if v.CanInt() {
		if v.Int() < 0 {
			return reflect.Value{}, false
		}
		n = uint64(v.Int())
	} else {
		n = v.Uint()
	}
	if n > 1 {
		return reflect.Value{}, false
	}
	return reflect.ValueOf(n == 1).Convert(t), true
}

// convertValue performs the conversions drivers commonly need: between numeric
// kinds within range, from 0/1 and text to booleans, from text to numbers, and
// between string and byte-slice kinds.
func convertValue(v reflect.Value, t reflect.Type) (reflect.Value, bool) {
	vk, tk := v.Kind(), t.Kind()
	text := vk == reflect.String || isBytes(v.Type())
	switch {
	case isNumberKind(vk) && isNumberKind(tk):
		return convertNumber(v, t)
	case isIntKind(vk) && tk == reflect.Bool:
		return intBool(v, t)
	case text && (isNumberKind(tk) || tk == reflect.Bool):
		if vk == reflect.String {
			return parseNumber(v.String(), t)
		}
		return parseNumber(string(v.Bytes()), t)
	case text && (tk == reflect.String || isBytes(t)):
	default:
		return reflect.Value{}, false
	}
	if !v.Type().ConvertibleTo(t) {
		return reflect.Value{}, false
	}
	return v.Convert(t), true
}
