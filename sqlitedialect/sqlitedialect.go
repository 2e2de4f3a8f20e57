package sqlitedialect

import (
	"fmt"
	"strings"

	"github.com/evantbyrne/vessel"
	// registers the "sqlite3" database/sql driver
	_ "github.com/mattn/go-sqlite3"
)

type SqliteDialect struct{}

func (dialect SqliteDialect) ColumnType(kind vessel.ColumnKind) (string, error) {
	switch kind {
	case vessel.ColumnText, vessel.ColumnUUID:
		return "TEXT", nil
	case vessel.ColumnInt, vessel.ColumnBool:
		return "INTEGER", nil
	case vessel.ColumnTimestamp:
		return "DATETIME", nil
	case vessel.ColumnBlob:
		return "BLOB", nil
	}
	return "", fmt.Errorf("vessel: unsupported column kind %d", kind)
}

func (dialect SqliteDialect) DriverName() string {
	return "sqlite3"
}

func (dialect SqliteDialect) Param(identifier int) string {
	return "?"
}

func (dialect SqliteDialect) QuoteIdentifier(identifier string) string {
	var query strings.Builder
	for i, part := range strings.Split(identifier, ".") {
		if i > 0 {
			query.WriteString(".")
		}
		query.WriteString("`")
		query.WriteString(strings.ReplaceAll(part, "`", "``"))
		query.WriteString("`")
	}
	return query.String()
}
