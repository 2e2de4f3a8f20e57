// Package store implements cms.Store on database/sql.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/evantbyrne/vessel"
	"github.com/evantbyrne/vessel/cms"
	"github.com/evantbyrne/vessel/macro"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

var _ cms.Store = (*Store)(nil)

var resourceColumns = []string{
	"id", "root_path", "site_root", "type_name", "date_last_modified",
	"user_last_modified", "state", "locked_by", "content",
}

var propertyConfigColumns = []string{
	"type_name", "name", "position", "property_type", "widget", "widget_config",
	"default_value", "rule_type", "rule_regex", "nice_name", "description", "error_message",
}

type Store struct {
	DB      *sql.DB
	Dialect vessel.Dialect

	queries map[string]string
}

// Open opens a database for dialect.
func Open(dialect vessel.Dialect, dsn string) (*sql.DB, error) {
	db, err := sql.Open(dialect.DriverName(), dsn)
	if err != nil {
		return nil, err
	}
	if dialect.DriverName() == "sqlite3" {
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	}
	return db, nil
}

// New prepares the query strings for dialect.
func New(db *sql.DB, dialect vessel.Dialect) (*Store, error) {
	store := &Store{DB: db, Dialect: dialect, queries: make(map[string]string)}
	builds := map[string]func() (string, error){
		"resource": func() (string, error) {
			return vessel.BuildSelect(dialect, vessel.QueryConfig{Table: "resources", Columns: resourceColumns, Filters: []string{"id"}})
		},
		"resourceByPath": func() (string, error) {
			return vessel.BuildSelect(dialect, vessel.QueryConfig{Table: "resources", Columns: resourceColumns, Filters: []string{"root_path"}, Limit: 1})
		},
		"user": func() (string, error) {
			return vessel.BuildSelect(dialect, vessel.QueryConfig{Table: "users", Columns: []string{"id", "name", "locale"}, Filters: []string{"id"}})
		},
		"properties": func() (string, error) {
			return vessel.BuildSelect(dialect, vessel.QueryConfig{Table: "resource_properties", Columns: []string{"name", "value"}, Filters: []string{"resource_id"}})
		},
		"formatter": func() (string, error) {
			return vessel.BuildSelect(dialect, vessel.QueryConfig{Table: "formatters", Columns: []string{"formatter_path"}, Filters: []string{"type_name", "container_type"}})
		},
		"propertyConfig": func() (string, error) {
			return vessel.BuildSelect(dialect, vessel.QueryConfig{Table: "property_configs", Columns: propertyConfigColumns[1:], Filters: []string{"type_name"}, Sort: []string{"position"}})
		},
		"elementProperties": func() (string, error) {
			return vessel.BuildSelect(dialect, vessel.QueryConfig{Table: "element_properties", Columns: []string{"name", "value"}, Filters: []string{"client_id"}})
		},
		"messages": func() (string, error) {
			return vessel.BuildSelect(dialect, vessel.QueryConfig{Table: "messages", Columns: []string{"locale", "key_name", "value"}, Filters: []string{"bundle"}})
		},
		"upsertUser": func() (string, error) {
			return vessel.BuildUpsert(dialect, vessel.QueryConfig{Table: "users", Columns: []string{"id", "name", "locale"}, Conflict: []string{"id"}})
		},
		"upsertResource": func() (string, error) {
			return vessel.BuildUpsert(dialect, vessel.QueryConfig{Table: "resources", Columns: resourceColumns, Conflict: []string{"id"}})
		},
		"upsertProperty": func() (string, error) {
			return vessel.BuildUpsert(dialect, vessel.QueryConfig{Table: "resource_properties", Columns: []string{"resource_id", "name", "value"}, Conflict: []string{"resource_id", "name"}})
		},
		"upsertFormatter": func() (string, error) {
			return vessel.BuildUpsert(dialect, vessel.QueryConfig{Table: "formatters", Columns: []string{"type_name", "container_type", "formatter_path"}, Conflict: []string{"type_name", "container_type"}})
		},
		"upsertPropertyConfig": func() (string, error) {
			return vessel.BuildUpsert(dialect, vessel.QueryConfig{Table: "property_configs", Columns: propertyConfigColumns, Conflict: []string{"type_name", "name"}})
		},
		"upsertElementProperty": func() (string, error) {
			return vessel.BuildUpsert(dialect, vessel.QueryConfig{Table: "element_properties", Columns: []string{"client_id", "name", "value"}, Conflict: []string{"client_id", "name"}})
		},
		"upsertMessage": func() (string, error) {
			return vessel.BuildUpsert(dialect, vessel.QueryConfig{Table: "messages", Columns: []string{"bundle", "locale", "key_name", "value"}, Conflict: []string{"bundle", "locale", "key_name"}})
		},
	}
	for name, build := range builds {
		query, err := build()
		if err != nil {
			return nil, fmt.Errorf("store: building %s query: %w", name, err)
		}
		store.queries[name] = query
	}
	return store, nil
}

func (s *Store) ReadResource(ctx context.Context, id uuid.UUID) (*cms.Resource, error) {
	r, err := scanResource(s.DB.QueryRowContext(ctx, s.queries["resource"], id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", cms.ErrResourceNotFound, id)
	}
	return r, err
}

func (s *Store) ReadResourceByPath(ctx context.Context, rootPath string) (*cms.Resource, error) {
	r, err := scanResource(s.DB.QueryRowContext(ctx, s.queries["resourceByPath"], rootPath))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", cms.ErrResourceNotFound, rootPath)
	}
	return r, err
}

func scanResource(row *sql.Row) (*cms.Resource, error) {
	var r cms.Resource
	var state int64
	err := row.Scan(&r.ID, &r.RootPath, &r.SiteRoot, &r.TypeName, &r.DateLastModified,
		&r.UserLastModified, &state, &r.LockedBy, &r.Content)
	if err != nil {
		return nil, err
	}
	r.State = cms.State(state)
	return &r, nil
}

func (s *Store) ReadUser(ctx context.Context, id uuid.UUID) (*cms.User, error) {
	var u cms.User
	var locale sql.NullString
	err := s.DB.QueryRowContext(ctx, s.queries["user"], id).Scan(&u.ID, &u.Name, &locale)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", cms.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	u.Locale = locale.String
	return &u, nil
}

func (s *Store) ReadProperties(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	return s.queryPairs(ctx, s.queries["properties"], id)
}

func (s *Store) ElementProperties(ctx context.Context, clientID string) (map[string]string, error) {
	return s.queryPairs(ctx, s.queries["elementProperties"], clientID)
}

func (s *Store) queryPairs(ctx context.Context, query string, args ...any) (map[string]string, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pairs := make(map[string]string)
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		pairs[name] = value
	}
	return pairs, rows.Err()
}

func (s *Store) FormatterFor(ctx context.Context, typeName, containerType string) (string, error) {
	var path string
	err := s.DB.QueryRowContext(ctx, s.queries["formatter"], typeName, containerType).Scan(&path)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return path, err
}

func (s *Store) PropertyConfiguration(ctx context.Context, typeName string) (cms.PropertyConfig, error) {
	rows, err := s.DB.QueryContext(ctx, s.queries["propertyConfig"], typeName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	conf := make(cms.PropertyConfig, 0)
	for rows.Next() {
		var def cms.PropertyDefinition
		var position int64
		err := rows.Scan(&def.Name, &position, &def.Type, &def.Widget, &def.WidgetConfig,
			&def.Default, &def.RuleType, &def.RuleRegex, &def.NiceName, &def.Description, &def.Error)
		if err != nil {
			return nil, err
		}
		conf = append(conf, def)
	}
	return conf, rows.Err()
}

func (s *Store) Messages(ctx context.Context, bundle string, locale language.Tag) (macro.Messages, error) {
	rows, err := s.DB.QueryContext(ctx, s.queries["messages"], bundle)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	b := macro.NewBundle(bundle)
	for rows.Next() {
		var tag, key, value string
		if err := rows.Scan(&tag, &key, &value); err != nil {
			return nil, err
		}
		parsed, err := language.Parse(tag)
		if err != nil {
			return nil, fmt.Errorf("store: message %s/%s: %w", bundle, key, err)
		}
		b.Set(parsed, key, value)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return b.For(locale), nil
}
