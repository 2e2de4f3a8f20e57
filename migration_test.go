package vessel

import (
	"context"
	"database/sql"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

type testMigration struct {
	name  string
	table string
}

func (m testMigration) Name() string {
	return m.name
}

func (m testMigration) Up(ctx context.Context, tx *sql.Tx, dialect Dialect) error {
	_, err := tx.ExecContext(ctx, "CREATE TABLE "+dialect.QuoteIdentifier(m.table))
	return err
}

func (m testMigration) Down(ctx context.Context, tx *sql.Tx, dialect Dialect) error {
	_, err := tx.ExecContext(ctx, "DROP TABLE "+dialect.QuoteIdentifier(m.table))
	return err
}

const (
	testCreateLogs   = "CREATE TABLE IF NOT EXISTS \"migration_logs\" (\n\t\"position\" INTEGER NOT NULL,\n\t\"name\" TEXT NOT NULL,\n\t\"direction\" TEXT NOT NULL,\n\t\"created_at\" TIMESTAMP NOT NULL,\n\tPRIMARY KEY (\"position\")\n)"
	testSelectLatest = `SELECT "position","name","direction" FROM "migration_logs" ORDER BY "position" DESC LIMIT 1`
	testInsertLog    = `INSERT INTO "migration_logs" ("position","name","direction","created_at") VALUES ($1,$2,$3,$4)`
)

var testMigrations = []Migration{
	testMigration{name: "0001_users", table: "users"},
	testMigration{name: "0002_resources", table: "resources"},
}

func TestMigrateUp(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(testCreateLogs).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(testSelectLatest).WillReturnRows(sqlmock.NewRows([]string{"position", "name", "direction"}))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE "users"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(testInsertLog).WithArgs(int64(1), "0001_users", "up", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE "resources"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(testInsertLog).WithArgs(int64(2), "0002_resources", "up", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	logs, err := MigrateUp(context.Background(), db, testDialect{}, testMigrations)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	expected := []string{"Migrating up to 0001_users...", "Migrating up to 0002_resources..."}
	if !reflect.DeepEqual(expected, logs) {
		t.Errorf("Expected '%+v', got '%+v'", expected, logs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMigrateUpFromLatest(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(testCreateLogs).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(testSelectLatest).WillReturnRows(sqlmock.NewRows([]string{"position", "name", "direction"}).AddRow(int64(2), "0002_resources", "up"))

	logs, err := MigrateUp(context.Background(), db, testDialect{}, testMigrations)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	if len(logs) != 0 {
		t.Errorf("Expected no logs, got '%+v'", logs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMigrateDown(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(testCreateLogs).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(testSelectLatest).WillReturnRows(sqlmock.NewRows([]string{"position", "name", "direction"}).AddRow(int64(2), "0002_resources", "up"))
	mock.ExpectBegin()
	mock.ExpectExec(`DROP TABLE "resources"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(testInsertLog).WithArgs(int64(3), "0002_resources", "down", sqlmock.AnyArg()).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	logs, err := MigrateDown(context.Background(), db, testDialect{}, testMigrations, 1)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err)
	}
	expected := []string{"Migrating down from 0002_resources..."}
	if !reflect.DeepEqual(expected, logs) {
		t.Errorf("Expected '%+v', got '%+v'", expected, logs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestMigrateRollsBackFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(testCreateLogs).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(testSelectLatest).WillReturnRows(sqlmock.NewRows([]string{"position", "name", "direction"}))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE "users"`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err = MigrateUp(context.Background(), db, testDialect{}, testMigrations)
	if err == nil {
		t.Fatal("Expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}
