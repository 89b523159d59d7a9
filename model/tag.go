package model

import (
	"fmt"
	"strconv"
	"strings"
)

// IndexSpec describes one index a column takes part in.
// Columns sharing a Name form a composite index ordered by Order.
type IndexSpec struct {
	Name   string
	Order  int
	Unique bool
}

// Markers is the declarative metadata attached to one field.
// The zero value means "no markers".
type Markers struct {
	Column        string  // storage name override
	Ignore        bool    // field is not mapped
	PrimaryKey    bool
	AutoIncrement bool
	NotNull       bool
	Default       *string // nil when no default is declared
	MaxLength     int     // 0 when unset
	Collation     string
	Indices       []IndexSpec
	ReadOnly      bool // consumed by enumerators; the field is reported as not writable
}

// DefaultValue returns the declared default and whether one exists.
func (m Markers) DefaultValue() (string, bool) {
	if m.Default == nil {
		return "", false
	}
	return *m.Default, true
}

// ParseTag parses a marker tag such as `pk auto column:user_id size:64 index:idx_user(1)`.
// Space, semicolon and comma all separate entries, except inside parentheses.
// Unknown keys are skipped.
func ParseTag(tagStr string) Markers {
	var m Markers
	tagStr = strings.TrimSpace(tagStr)
	if tagStr == "" {
		return m
	}
	if tagStr == "-" {
		m.Ignore = true
		return m
	}

	var sb strings.Builder
	inParen := false
	for _, r := range tagStr {
		switch r {
		case '(':
			inParen = true
			sb.WriteRune(r)
		case ')':
			inParen = false
			sb.WriteRune(r)
		case ';', ',':
			if inParen {
				sb.WriteRune(r)
			} else {
				sb.WriteRune(' ')
			}
		default:
			sb.WriteRune(r)
		}
	}

	for _, part := range strings.Fields(sb.String()) {
		kv := strings.SplitN(part, ":", 2)
		key := strings.ToLower(kv[0])
		var val string
		if len(kv) > 1 {
			val = strings.TrimSpace(kv[1])
		}

		switch key {
		case "-", "ignore":
			m.Ignore = true
		case "column":
			m.Column = val
		case "pk", "primarykey":
			m.PrimaryKey = true
		case "auto", "autoincrement":
			m.AutoIncrement = true
		case "notnull":
			m.NotNull = true
		case "default":
			v := val
			m.Default = &v
		case "size", "maxlen":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				m.MaxLength = n
			}
		case "collate", "collation":
			m.Collation = val
		case "index":
			m.Indices = append(m.Indices, parseIndex(val, false))
		case "unique":
			m.Indices = append(m.Indices, IndexSpec{Unique: true})
		case "uniqueindex":
			m.Indices = append(m.Indices, parseIndex(val, true))
		case "readonly":
			m.ReadOnly = true
		}
	}
	return m
}

// parseIndex reads "name" or "name(order)".
func parseIndex(val string, unique bool) IndexSpec {
	spec := IndexSpec{Unique: unique}
	if i := strings.IndexByte(val, '('); i >= 0 {
		order := strings.TrimSuffix(val[i+1:], ")")
		if n, err := strconv.Atoi(strings.TrimSpace(order)); err == nil {
			spec.Order = n
		}
		val = val[:i]
	}
	spec.Name = strings.TrimSpace(val)
	return spec
}

// FormatTag renders m in the syntax accepted by ParseTag.
func FormatTag(m Markers) string {
	if m.Ignore {
		return "-"
	}
	var tags []string
	if m.Column != "" {
		tags = append(tags, "column:"+m.Column)
	}
	if m.PrimaryKey {
		tags = append(tags, "pk")
	}
	if m.AutoIncrement {
		tags = append(tags, "auto")
	}
	if m.NotNull {
		tags = append(tags, "notnull")
	}
	if m.Default != nil {
		tags = append(tags, "default:"+*m.Default)
	}
	if m.MaxLength > 0 {
		tags = append(tags, fmt.Sprintf("size:%d", m.MaxLength))
	}
	if m.Collation != "" {
		tags = append(tags, "collate:"+m.Collation)
	}
	for _, idx := range m.Indices {
		tags = append(tags, formatIndex(idx))
	}
	if m.ReadOnly {
		tags = append(tags, "readonly")
	}
	return strings.Join(tags, ";")
}

func formatIndex(idx IndexSpec) string {
	if idx.Name == "" {
		if idx.Unique {
			return "unique"
		}
		return "index"
	}
	key := "index:"
	if idx.Unique {
		key = "uniqueindex:"
	}
	if idx.Order != 0 {
		return fmt.Sprintf("%s%s(%d)", key, idx.Name, idx.Order)
	}
	return key + idx.Name
}
