package pqdialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/evantbyrne/vessel"
)

// PqDialect targets postgres through the pgx stdlib driver.
type PqDialect struct{}

func (dialect PqDialect) ColumnType(kind vessel.ColumnKind) (string, error) {
	switch kind {
	case vessel.ColumnText:
		return "TEXT", nil
	case vessel.ColumnInt:
		return "BIGINT", nil
	case vessel.ColumnBool:
		return "BOOLEAN", nil
	case vessel.ColumnUUID:
		return "UUID", nil
	case vessel.ColumnTimestamp:
		return "TIMESTAMP WITH TIME ZONE", nil
	case vessel.ColumnBlob:
		return "BYTEA", nil
	}
	return "", fmt.Errorf("vessel: unsupported column kind %d", kind)
}

func (dialect PqDialect) DriverName() string {
	return "pgx"
}

func (dialect PqDialect) Param(identifier int) string {
	var query strings.Builder
	query.WriteString("$")
	query.WriteString(strconv.Itoa(identifier))
	return query.String()
}

func (dialect PqDialect) QuoteIdentifier(identifier string) string {
	var query strings.Builder
	for i, part := range strings.Split(identifier, ".") {
		if i > 0 {
			query.WriteString(".")
		}
		query.WriteString(QuoteIdentifier(part))
	}
	return query.String()
}

// QuoteIdentifier quotes an "identifier" (e.g. a table or a column name) to be
// used as part of an SQL statement.  For example:
//
//	tblname := "my_table"
//	data := "my_data"
//	quoted := pq.QuoteIdentifier(tblname)
//	err := db.Exec(fmt.Sprintf("INSERT INTO %s VALUES ($1)", quoted), data)
//
// Any double quotes in name will be escaped.  The quoted identifier will be
// case sensitive when used in a query.  If the input string contains a zero
// byte, the result will be truncated immediately before it.
//
// Via https://github.com/lib/pq v1.10.9.
// Copyright (c) 2011-2013, 'pq' Contributors Portions Copyright (C) 2011 Blake Mizerany
// Permission is hereby granted, free of charge, to any person obtaining a copy of this software and associated documentation files (the "Software"), to deal in the Software without restriction, including without limitation the rights to use, copy, modify, merge, publish, distribute, sublicense, and/or sell copies of the Software, and to permit persons to whom the Software is furnished to do so, subject to the following conditions:
// The above copyright notice and this permission notice shall be included in all copies or substantial portions of the Software.
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
func QuoteIdentifier(name string) string {
	end := strings.IndexRune(name, 0)
	if end > -1 {
		name = name[:end]
	}
	return `"` + strings.Replace(name, `"`, `""`, -1) + `"`
}
