package main

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// dbColumn is one column as reported by the database catalog.
type dbColumn struct {
	Name      string
	DBType    string
	Comment   string
	Collation string
	Default   sql.NullString
	Size      int
	IsPK      bool
	IsAuto    bool
	IsNotNull bool
	IsUnique  bool
}

type introspector interface {
	tables(db *sql.DB) ([]string, error)
	columns(db *sql.DB, table string) ([]dbColumn, error)
}

func introspectorFor(driver string) (introspector, error) {
	switch driver {
	case "sqlite3":
		return sqliteIntrospector{}, nil
	case "mysql":
		return mysqlIntrospector{}, nil
	case "postgres":
		return postgresIntrospector{}, nil
	}
	return nil, fmt.Errorf("unsupported driver: %s", driver)
}

func queryStrings(db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// sizeOf extracts n from types such as "varchar(64)".
func sizeOf(dbType string) int {
	var n int
	if i := strings.Index(dbType, "("); i != -1 {
		fmt.Sscanf(dbType[i+1:], "%d", &n)
	}
	return n
}

type sqliteIntrospector struct{}

func (sqliteIntrospector) tables(db *sql.DB) ([]string, error) {
	return queryStrings(db, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
}

func (sqliteIntrospector) columns(db *sql.DB, table string) ([]dbColumn, error) {
	uniques, err := sqliteUniqueColumns(db, table)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", pq.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []dbColumn
	for rows.Next() {
		var (
			cid       int
			name      string
			dataType  string
			notnull   int
			dfltValue sql.NullString
			pk        int
		)
		if err := rows.Scan(&cid, &name, &dataType, &notnull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		c := dbColumn{
			Name:      name,
			DBType:    dataType,
			Default:   dfltValue,
			Size:      sizeOf(dataType),
			IsPK:      pk == 1,
			IsNotNull: notnull == 1,
			IsUnique:  uniques[name],
		}
		// INTEGER PRIMARY KEY aliases the rowid and is assigned by sqlite.
		if c.IsPK && strings.EqualFold(strings.TrimSpace(dataType), "integer") {
			c.IsAuto = true
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

// sqliteUniqueColumns returns the columns covered by a single-column unique index.
func sqliteUniqueColumns(db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA index_list(%s)", pq.QuoteIdentifier(table)))
	if err != nil {
		return nil, err
	}
	var names []string
	for rows.Next() {
		var (
			seq     int
			name    string
			unique  int
			origin  string
			partial int
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if unique == 1 && origin != "pk" {
			names = append(names, name)
		}
	}
	rows.Close()

	out := make(map[string]bool)
	for _, idx := range names {
		cols, err := sqliteIndexColumns(db, idx)
		if err != nil {
			return nil, err
		}
		if len(cols) == 1 {
			out[cols[0]] = true
		}
	}
	return out, nil
}

func sqliteIndexColumns(db *sql.DB, index string) ([]string, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA index_info(%s)", pq.QuoteIdentifier(index)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			seqno int
			cid   int
			name  sql.NullString
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		cols = append(cols, name.String)
	}
	return cols, rows.Err()
}

type mysqlIntrospector struct{}

func (mysqlIntrospector) tables(db *sql.DB) ([]string, error) {
	return queryStrings(db, "SHOW TABLES")
}

func (mysqlIntrospector) columns(db *sql.DB, table string) ([]dbColumn, error) {
	rows, err := db.Query(fmt.Sprintf("SHOW FULL COLUMNS FROM `%s`", strings.ReplaceAll(table, "`", "``")))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []dbColumn
	for rows.Next() {
		var (
			field      string
			typ        string
			collation  sql.NullString
			null       string
			key        string
			defaultVal sql.NullString
			extra      string
			privileges string
			comment    string
		)
		if err := rows.Scan(&field, &typ, &collation, &null, &key, &defaultVal, &extra, &privileges, &comment); err != nil {
			return nil, err
		}
		cols = append(cols, dbColumn{
			Name:      field,
			DBType:    typ,
			Comment:   comment,
			Collation: collation.String,
			Default:   defaultVal,
			Size:      sizeOf(typ),
			IsPK:      key == "PRI",
			IsAuto:    strings.Contains(strings.ToLower(extra), "auto_increment"),
			IsNotNull: null == "NO",
			IsUnique:  key == "UNI",
		})
	}
	return cols, rows.Err()
}

type postgresIntrospector struct{}

func (postgresIntrospector) tables(db *sql.DB) ([]string, error) {
	return queryStrings(db, "SELECT tablename FROM pg_catalog.pg_tables WHERE schemaname != 'pg_catalog' AND schemaname != 'information_schema'")
}

func (postgresIntrospector) columns(db *sql.DB, table string) ([]dbColumn, error) {
	rows, err := db.Query(`
		SELECT
			c.column_name,
			c.udt_name,
			c.is_nullable,
			COALESCE(bool_or(tc.constraint_type = 'PRIMARY KEY'), false) AS is_pk,
			COALESCE(bool_or(tc.constraint_type = 'UNIQUE'), false) AS is_unique,
			c.column_default,
			c.character_maximum_length,
			c.collation_name,
			col_description(format('%I.%I', c.table_schema, c.table_name)::regclass, c.ordinal_position::int)
		FROM information_schema.columns c
		LEFT JOIN information_schema.key_column_usage kcu
			ON c.table_name = kcu.table_name
			AND c.column_name = kcu.column_name
			AND c.table_schema = kcu.table_schema
		LEFT JOIN information_schema.table_constraints tc
			ON kcu.constraint_name = tc.constraint_name
			AND kcu.table_schema = tc.table_schema
		WHERE c.table_name = $1 AND c.table_schema = 'public'
		GROUP BY c.table_schema, c.table_name, c.column_name, c.udt_name, c.is_nullable,
			c.column_default, c.character_maximum_length, c.collation_name, c.ordinal_position
		ORDER BY c.ordinal_position`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []dbColumn
	for rows.Next() {
		var (
			name, dataType, isNullable string
			isPK, isUnique             bool
			columnDefault              sql.NullString
			maxLength                  sql.NullInt64
			collation, comment         sql.NullString
		)
		if err := rows.Scan(&name, &dataType, &isNullable, &isPK, &isUnique, &columnDefault, &maxLength, &collation, &comment); err != nil {
			return nil, err
		}
		c := dbColumn{
			Name:      name,
			DBType:    dataType,
			Comment:   comment.String,
			Collation: collation.String,
			Default:   columnDefault,
			Size:      int(maxLength.Int64),
			IsPK:      isPK,
			IsNotNull: isNullable == "NO",
			IsUnique:  isUnique && !isPK,
		}
		// serial columns default to nextval(); the default is owned by the sequence.
		if strings.HasPrefix(strings.ToLower(columnDefault.String), "nextval(") {
			c.IsAuto = true
			c.Default = sql.NullString{}
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}
