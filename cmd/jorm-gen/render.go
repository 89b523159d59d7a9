package main

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"
	"unicode"

	"github.com/shrek82/tablemap/model"
)

const modelTemplate = `// Code generated by jorm-gen. DO NOT EDIT.

package {{.Package}}
{{if .Imports}}
import (
{{- range .Imports}}
	"{{.}}"
{{- end}}
)
{{end}}
// {{.StructName}} maps table {{.RawTableName}}.
type {{.StructName}} struct {
{{- range .Fields}}
	{{.Name}} {{.Type}} ` + "`" + `{{$.TagKey}}:"{{.Tag}}"` + "`" + `{{if .Comment}} // {{.Comment}}{{end}}
{{- end}}
}

// TableName returns the table {{.StructName}} is stored in.
func (m *{{.StructName}}) TableName() string {
	return "{{.RawTableName}}"
}
`

var tmpl = template.Must(template.New("model").Parse(modelTemplate))

type field struct {
	Name    string
	Type    string
	Tag     string
	Comment string
}

type modelData struct {
	Package      string
	TagKey       string
	StructName   string
	RawTableName string
	Imports      []string
	Fields       []field
}

// renderModel produces gofmt-ed source for one table.
func renderModel(pkg, tagKey, table string, columns []dbColumn) ([]byte, error) {
	data := modelData{
		Package:      pkg,
		TagKey:       tagKey,
		StructName:   snakeToCamel(table, true),
		RawTableName: table,
	}

	imports := map[string]bool{}
	for _, c := range columns {
		goType := goTypeFor(c)
		switch strings.TrimPrefix(goType, "*") {
		case "time.Time":
			imports["time"] = true
		case "uuid.UUID":
			imports["github.com/google/uuid"] = true
		}
		data.Fields = append(data.Fields, field{
			Name:    snakeToCamel(c.Name, true),
			Type:    goType,
			Tag:     model.FormatTag(markersFor(c)),
			Comment: strings.Join(strings.Fields(c.Comment), " "),
		})
	}
	for _, imp := range []string{"time", "github.com/google/uuid"} {
		if imports[imp] {
			data.Imports = append(data.Imports, imp)
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("format %s: %w", table, err)
	}
	return src, nil
}

// markersFor translates catalog metadata into the markers the mapper reads back.
func markersFor(c dbColumn) model.Markers {
	m := model.Markers{
		Column:        c.Name,
		PrimaryKey:    c.IsPK,
		AutoIncrement: c.IsPK && c.IsAuto,
		NotNull:       c.IsNotNull && !c.IsPK,
		Collation:     c.Collation,
	}
	if c.Default.Valid && !strings.ContainsAny(c.Default.String, " \t;,") {
		v := c.Default.String
		m.Default = &v
	}
	if c.Size > 0 && isTextType(mapType(c.DBType)) {
		m.MaxLength = c.Size
	}
	if c.IsUnique {
		m.Indices = append(m.Indices, model.IndexSpec{Unique: true})
	}
	return m
}

func isTextType(goType string) bool {
	return goType == "string" || goType == "[]byte"
}

// goTypeFor maps nullable scalar columns to pointers.
func goTypeFor(c dbColumn) string {
	t := mapType(c.DBType)
	if c.IsNotNull || c.IsPK || t == "[]byte" || t == "any" {
		return t
	}
	return "*" + t
}

// mapType maps a database type to a Go type.
func mapType(dbType string) string {
	dbTypeUpper := strings.ToUpper(dbType)
	// "TINYINT(1)" -> "TINYINT"
	if idx := strings.Index(dbTypeUpper, "("); idx != -1 {
		dbTypeUpper = dbTypeUpper[:idx]
	}
	dbTypeUpper = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(dbTypeUpper), "UNSIGNED"))

	switch {
	case dbTypeUpper == "TINYINT":
		return "int8"
	case dbTypeUpper == "SMALLINT" || dbTypeUpper == "INT2":
		return "int16"
	case dbTypeUpper == "MEDIUMINT" || dbTypeUpper == "INT4":
		return "int32"
	case dbTypeUpper == "INT":
		return "int32"
	case dbTypeUpper == "INTEGER" || dbTypeUpper == "BIGINT" || dbTypeUpper == "INT8":
		return "int64"
	case dbTypeUpper == "BOOLEAN" || dbTypeUpper == "BOOL":
		return "bool"
	case dbTypeUpper == "UUID":
		return "uuid.UUID"
	case dbTypeUpper == "TEXT" || dbTypeUpper == "LONGTEXT" || dbTypeUpper == "MEDIUMTEXT":
		return "string"
	case dbTypeUpper == "BLOB" || dbTypeUpper == "LONGBLOB" || dbTypeUpper == "MEDIUMBLOB" || dbTypeUpper == "BYTEA" ||
		strings.HasPrefix(dbTypeUpper, "BINARY") || strings.HasPrefix(dbTypeUpper, "VARBINARY"):
		return "[]byte"
	case strings.Contains(dbTypeUpper, "CHAR"):
		return "string"
	case dbTypeUpper == "DECIMAL" || dbTypeUpper == "NUMERIC":
		return "float64"
	case dbTypeUpper == "FLOAT" || dbTypeUpper == "REAL" || dbTypeUpper == "FLOAT4":
		return "float32"
	case dbTypeUpper == "DOUBLE" || dbTypeUpper == "FLOAT8":
		return "float64"
	case dbTypeUpper == "JSON" || dbTypeUpper == "JSONB":
		return "string"
	case dbTypeUpper == "DATE" || dbTypeUpper == "TIME" || dbTypeUpper == "DATETIME" ||
		strings.HasPrefix(dbTypeUpper, "TIMESTAMP"):
		return "time.Time"
	default:
		return "any"
	}
}

// snakeToCamel converts snake_case to CamelCase, spelling "id" as "ID".
func snakeToCamel(s string, upperFirst bool) string {
	parts := strings.Split(s, "_")
	for i := range parts {
		if i == 0 && !upperFirst {
			continue
		}
		if parts[i] == "id" {
			parts[i] = "ID"
		} else if len(parts[i]) > 0 {
			runes := []rune(parts[i])
			runes[0] = unicode.ToUpper(runes[0])
			parts[i] = string(runes)
		}
	}
	return strings.Join(parts, "")
}
