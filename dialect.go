package vessel

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// ColumnKind is a portable column type, mapped to SQL by each dialect.
type ColumnKind int

const (
	ColumnText ColumnKind = iota
	ColumnInt
	ColumnBool
	ColumnUUID
	ColumnTimestamp
	ColumnBlob
)

type Dialect interface {
	ColumnType(ColumnKind) (string, error)
	DriverName() string
	Param(i int) string
	QuoteIdentifier(string) string
}

type Column struct {
	Name string
	Kind ColumnKind
	Null bool
}

type QueryConfig struct {
	Columns []string
	// Conflict lists the unique columns an upsert resolves on.
	Conflict []string
	// Filters are columns compared for equality, joined with AND. Their
	// params follow any column params in order.
	Filters []string
	Limit   int
	Sort    []string
	Table   string
}

type TableCreateConfig struct {
	Columns     []Column
	IfNotExists bool
	PrimaryKey  []string
}

type TableDropConfig struct {
	IfExists bool
}

func BuildDelete(dialect Dialect, config QueryConfig) (string, error) {
	if config.Table == "" {
		return "", fmt.Errorf("vessel: DELETE requires a table")
	}
	if len(config.Sort) > 0 {
		return "", fmt.Errorf("vessel: DELETE does not support ORDER BY")
	}
	if config.Limit > 0 {
		return "", fmt.Errorf("vessel: DELETE does not support LIMIT")
	}
	var query strings.Builder
	query.WriteString("DELETE FROM ")
	query.WriteString(dialect.QuoteIdentifier(config.Table))
	buildWhere(&query, dialect, config.Filters, 0)
	return query.String(), nil
}

func BuildInsert(dialect Dialect, config QueryConfig) (string, error) {
	if config.Table == "" || len(config.Columns) == 0 {
		return "", fmt.Errorf("vessel: INSERT requires a table and columns")
	}
	var query strings.Builder
	query.WriteString("INSERT INTO ")
	query.WriteString(dialect.QuoteIdentifier(config.Table))
	query.WriteString(" (")
	for i, column := range config.Columns {
		if i > 0 {
			query.WriteString(",")
		}
		query.WriteString(dialect.QuoteIdentifier(column))
	}
	query.WriteString(") VALUES (")
	for i := range config.Columns {
		if i > 0 {
			query.WriteString(",")
		}
		query.WriteString(dialect.Param(i + 1))
	}
	query.WriteString(")")
	return query.String(), nil
}

// BuildUpsert builds an INSERT that updates every non-conflict column when a
// row with the same conflict columns exists. Postgres and sqlite share the
// ON CONFLICT syntax.
func BuildUpsert(dialect Dialect, config QueryConfig) (string, error) {
	if len(config.Conflict) == 0 {
		return "", fmt.Errorf("vessel: upsert on '%s' requires conflict columns", config.Table)
	}
	insert, err := BuildInsert(dialect, config)
	if err != nil {
		return "", err
	}
	var query strings.Builder
	query.WriteString(insert)
	query.WriteString(" ON CONFLICT (")
	for i, column := range config.Conflict {
		if i > 0 {
			query.WriteString(",")
		}
		query.WriteString(dialect.QuoteIdentifier(column))
	}
	query.WriteString(")")

	first := true
	for _, column := range config.Columns {
		if slices.Contains(config.Conflict, column) {
			continue
		}
		if first {
			query.WriteString(" DO UPDATE SET ")
			first = false
		} else {
			query.WriteString(",")
		}
		quoted := dialect.QuoteIdentifier(column)
		query.WriteString(quoted)
		query.WriteString(" = excluded.")
		query.WriteString(quoted)
	}
	if first {
		query.WriteString(" DO NOTHING")
	}
	return query.String(), nil
}

func BuildSelect(dialect Dialect, config QueryConfig) (string, error) {
	if config.Table == "" {
		return "", fmt.Errorf("vessel: SELECT requires a table")
	}
	var query strings.Builder
	if len(config.Columns) > 0 {
		query.WriteString("SELECT ")
		for i, column := range config.Columns {
			if i > 0 {
				query.WriteString(",")
			}
			query.WriteString(dialect.QuoteIdentifier(column))
		}
		query.WriteString(" FROM ")
	} else {
		query.WriteString("SELECT * FROM ")
	}
	query.WriteString(dialect.QuoteIdentifier(config.Table))

	// WHERE
	buildWhere(&query, dialect, config.Filters, 0)

	// ORDER BY
	if len(config.Sort) > 0 {
		query.WriteString(" ORDER BY ")
		for i, column := range config.Sort {
			if i > 0 {
				query.WriteString(", ")
			}
			if strings.HasPrefix(column, "-") {
				query.WriteString(dialect.QuoteIdentifier(column[1:]))
				query.WriteString(" DESC")
			} else {
				query.WriteString(dialect.QuoteIdentifier(column))
				query.WriteString(" ASC")
			}
		}
	}

	// LIMIT
	if config.Limit > 0 {
		query.WriteString(" LIMIT ")
		query.WriteString(strconv.Itoa(config.Limit))
	}

	return query.String(), nil
}

func BuildTableCreate(dialect Dialect, config QueryConfig, create TableCreateConfig) (string, error) {
	var query strings.Builder
	query.WriteString("CREATE TABLE ")
	if create.IfNotExists {
		query.WriteString("IF NOT EXISTS ")
	}
	query.WriteString(dialect.QuoteIdentifier(config.Table))
	query.WriteString(" (")
	for i, column := range create.Columns {
		columnType, err := dialect.ColumnType(column.Kind)
		if err != nil {
			return "", fmt.Errorf("vessel: column '%s' on table '%s': %w", column.Name, config.Table, err)
		}
		if i > 0 {
			query.WriteString(",")
		}
		query.WriteString("\n\t")
		query.WriteString(dialect.QuoteIdentifier(column.Name))
		query.WriteString(" ")
		query.WriteString(columnType)
		if column.Null {
			query.WriteString(" NULL")
		} else {
			query.WriteString(" NOT NULL")
		}
	}
	if len(create.PrimaryKey) > 0 {
		query.WriteString(",\n\tPRIMARY KEY (")
		for i, column := range create.PrimaryKey {
			if i > 0 {
				query.WriteString(",")
			}
			query.WriteString(dialect.QuoteIdentifier(column))
		}
		query.WriteString(")")
	}
	query.WriteString("\n)")
	return query.String(), nil
}

func BuildTableDrop(dialect Dialect, config QueryConfig, drop TableDropConfig) (string, error) {
	var query strings.Builder
	query.WriteString("DROP TABLE ")
	if drop.IfExists {
		query.WriteString("IF EXISTS ")
	}
	query.WriteString(dialect.QuoteIdentifier(config.Table))
	return query.String(), nil
}

func buildWhere(query *strings.Builder, dialect Dialect, filters []string, offset int) {
	for i, column := range filters {
		if i == 0 {
			query.WriteString(" WHERE ")
		} else {
			query.WriteString(" AND ")
		}
		query.WriteString(dialect.QuoteIdentifier(column))
		query.WriteString(" = ")
		query.WriteString(dialect.Param(offset + i + 1))
	}
}
