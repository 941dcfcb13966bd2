package database

import "fmt"

// Dialect wraps a statement so the database folds its rows into JSON.
type Dialect interface {
	Name() string
	// WrapArray returns SQL yielding one row whose only column is a JSON
	// array of all rows produced by sql.
	WrapArray(sql string) string
	// WrapObject returns SQL yielding the first row of sql as a JSON object.
	WrapObject(sql string) string
}

// Postgres aggregates with row_to_json/array_agg; any column list works.
var Postgres Dialect = postgresDialect{}

// SQLite aggregates with json_group_array. Statements must select a single
// JSON object column named obj.
var SQLite Dialect = sqliteDialect{}

// DialectByName resolves "postgres" or "sqlite".
func DialectByName(name string) (Dialect, error) {
	switch name {
	case "postgres":
		return Postgres, nil
	case "sqlite":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", name)
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return "postgres" }

func (postgresDialect) WrapArray(sql string) string {
	return "SELECT COALESCE(array_to_json(array_agg(row_to_json(array_row))),'[]'::json) FROM (\n" +
		sql + "\n) array_row"
}

func (postgresDialect) WrapObject(sql string) string {
	return "SELECT COALESCE(row_to_json(object_row),'{}'::json) FROM (\n" +
		sql + "\n) object_row"
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return "sqlite" }

func (sqliteDialect) WrapArray(sql string) string {
	return "SELECT json_group_array(json(array_row.obj)) FROM (\n" +
		sql + "\n) array_row"
}

func (sqliteDialect) WrapObject(sql string) string {
	return "SELECT json(object_row.obj) FROM (\n" +
		sql + "\n) object_row"
}
