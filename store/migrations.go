package store

import (
	"context"
	"database/sql"

	"github.com/evantbyrne/vessel"
)

// tableMigration creates one table on the way up and drops it on the way
// down.
type tableMigration struct {
	name   string
	table  string
	create vessel.TableCreateConfig
}

func (m tableMigration) Name() string {
	return m.name
}

func (m tableMigration) Up(ctx context.Context, tx *sql.Tx, dialect vessel.Dialect) error {
	query, err := vessel.BuildTableCreate(dialect, vessel.QueryConfig{Table: m.table}, m.create)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query)
	return err
}

func (m tableMigration) Down(ctx context.Context, tx *sql.Tx, dialect vessel.Dialect) error {
	query, err := vessel.BuildTableDrop(dialect, vessel.QueryConfig{Table: m.table}, vessel.TableDropConfig{IfExists: true})
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, query)
	return err
}

// Migrations returns the schema of the content store in apply order.
func Migrations() []vessel.Migration {
	text := func(name string) vessel.Column { return vessel.Column{Name: name, Kind: vessel.ColumnText} }
	return []vessel.Migration{
		tableMigration{name: "0001_users", table: "users", create: vessel.TableCreateConfig{
			Columns: []vessel.Column{
				{Name: "id", Kind: vessel.ColumnUUID},
				text("name"),
				{Name: "locale", Kind: vessel.ColumnText, Null: true},
			},
			PrimaryKey: []string{"id"},
		}},
		tableMigration{name: "0002_resources", table: "resources", create: vessel.TableCreateConfig{
			Columns: []vessel.Column{
				{Name: "id", Kind: vessel.ColumnUUID},
				text("root_path"),
				text("site_root"),
				text("type_name"),
				{Name: "date_last_modified", Kind: vessel.ColumnTimestamp},
				{Name: "user_last_modified", Kind: vessel.ColumnUUID},
				{Name: "state", Kind: vessel.ColumnInt},
				{Name: "locked_by", Kind: vessel.ColumnUUID, Null: true},
				{Name: "content", Kind: vessel.ColumnBlob, Null: true},
			},
			PrimaryKey: []string{"id"},
		}},
		tableMigration{name: "0003_resource_properties", table: "resource_properties", create: vessel.TableCreateConfig{
			Columns:    []vessel.Column{{Name: "resource_id", Kind: vessel.ColumnUUID}, text("name"), text("value")},
			PrimaryKey: []string{"resource_id", "name"},
		}},
		tableMigration{name: "0004_formatters", table: "formatters", create: vessel.TableCreateConfig{
			Columns:    []vessel.Column{text("type_name"), text("container_type"), text("formatter_path")},
			PrimaryKey: []string{"type_name", "container_type"},
		}},
		tableMigration{name: "0005_property_configs", table: "property_configs", create: vessel.TableCreateConfig{
			Columns: []vessel.Column{
				text("type_name"), text("name"), {Name: "position", Kind: vessel.ColumnInt},
				text("property_type"), text("widget"), text("widget_config"), text("default_value"),
				text("rule_type"), text("rule_regex"), text("nice_name"), text("description"),
				text("error_message"),
			},
			PrimaryKey: []string{"type_name", "name"},
		}},
		tableMigration{name: "0006_element_properties", table: "element_properties", create: vessel.TableCreateConfig{
			Columns:    []vessel.Column{text("client_id"), text("name"), text("value")},
			PrimaryKey: []string{"client_id", "name"},
		}},
		tableMigration{name: "0007_messages", table: "messages", create: vessel.TableCreateConfig{
			Columns:    []vessel.Column{text("bundle"), text("locale"), text("key_name"), text("value")},
			PrimaryKey: []string{"bundle", "locale", "key_name"},
		}},
	}
}
