package vessel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"time"
)

const migrationLogsTable = "migration_logs"

type Migration interface {
	Down(context.Context, *sql.Tx, Dialect) error
	Up(context.Context, *sql.Tx, Dialect) error
}

// NamedMigration lets a migration choose the name recorded in the logs.
// Otherwise the migration's type name is used.
type NamedMigration interface {
	Migration
	Name() string
}

type MigrationLog struct {
	CreatedAt time.Time
	Direction string
	Name      string
	Position  int64
}

func migrationName(migration Migration) string {
	if named, ok := migration.(NamedMigration); ok {
		return named.Name()
	}
	return reflect.TypeOf(migration).String()
}

// MigrateDown reverts applied migrations, newest first. steps limits how
// many are reverted; zero reverts all of them.
func MigrateDown(ctx context.Context, db *sql.DB, dialect Dialect, migrations []Migration, steps int) ([]string, error) {
	logs, latest, err := migrateSetup(ctx, db, dialect, migrations)
	if err != nil {
		return logs, err
	}

	for i := latest.index; i > -1; i-- {
		if steps > 0 && latest.index-i >= steps {
			break
		}
		name := migrationName(migrations[i])
		logs = append(logs, "Migrating down from "+name+"...")
		err := migrateOne(ctx, db, dialect, latest.nextPosition(), name, "down", migrations[i].Down)
		if err != nil {
			return logs, err
		}
		latest.position++
	}

	return logs, nil
}

// MigrateUp applies every migration after the latest applied one.
func MigrateUp(ctx context.Context, db *sql.DB, dialect Dialect, migrations []Migration) ([]string, error) {
	logs, latest, err := migrateSetup(ctx, db, dialect, migrations)
	if err != nil {
		return logs, err
	}

	for i := latest.index + 1; i < len(migrations); i++ {
		name := migrationName(migrations[i])
		logs = append(logs, "Migrating up to "+name+"...")
		err := migrateOne(ctx, db, dialect, latest.nextPosition(), name, "up", migrations[i].Up)
		if err != nil {
			return logs, err
		}
		latest.position++
	}

	return logs, nil
}

type migrationState struct {
	index    int
	position int64
}

func (state migrationState) nextPosition() int64 {
	return state.position + 1
}

func migrateOne(ctx context.Context, db *sql.DB, dialect Dialect, position int64, name, direction string, apply func(context.Context, *sql.Tx, Dialect) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(fmt.Errorf("vessel: migration %s: failed to begin transaction", name), err)
	}
	if err := apply(ctx, tx, dialect); err != nil {
		_ = tx.Rollback()
		return errors.Join(fmt.Errorf("vessel: migration %s: failed", name), err)
	}
	insert, err := BuildInsert(dialect, QueryConfig{
		Table:   migrationLogsTable,
		Columns: []string{"position", "name", "direction", "created_at"},
	})
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, insert, position, name, direction, time.Now().UTC()); err != nil {
		_ = tx.Rollback()
		return errors.Join(fmt.Errorf("vessel: migration %s: failed to insert migration logs", name), err)
	}
	return tx.Commit()
}

func migrateSetup(ctx context.Context, db *sql.DB, dialect Dialect, migrations []Migration) ([]string, migrationState, error) {
	logs := make([]string, 0)
	state := migrationState{index: -1}

	create, err := BuildTableCreate(dialect, QueryConfig{Table: migrationLogsTable}, TableCreateConfig{
		IfNotExists: true,
		Columns: []Column{
			{Name: "position", Kind: ColumnInt},
			{Name: "name", Kind: ColumnText},
			{Name: "direction", Kind: ColumnText},
			{Name: "created_at", Kind: ColumnTimestamp},
		},
		PrimaryKey: []string{"position"},
	})
	if err != nil {
		return nil, state, err
	}
	if _, err := db.ExecContext(ctx, create); err != nil {
		return nil, state, errors.Join(errors.New("vessel: migrations setup: failed to create table for migration logs"), err)
	}

	query, err := BuildSelect(dialect, QueryConfig{
		Table:   migrationLogsTable,
		Columns: []string{"position", "name", "direction"},
		Sort:    []string{"-position"},
		Limit:   1,
	})
	if err != nil {
		return nil, state, err
	}
	var latest MigrationLog
	err = db.QueryRowContext(ctx, query).Scan(&latest.Position, &latest.Name, &latest.Direction)
	if errors.Is(err, sql.ErrNoRows) {
		return logs, state, nil
	}
	if err != nil {
		return nil, state, errors.Join(errors.New("vessel: migrations setup: failed to get migrations list"), err)
	}

	state.position = latest.Position
	for i, migration := range migrations {
		if latest.Name == migrationName(migration) {
			if latest.Direction == "down" {
				state.index = i - 1
			} else {
				state.index = i
			}
			break
		}
	}
	return logs, state, nil
}
