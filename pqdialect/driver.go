package pqdialect

import (
	// registers the "pgx" database/sql driver
	_ "github.com/jackc/pgx/v5/stdlib"
)
