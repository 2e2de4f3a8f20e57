package store

import (
	"context"

	"github.com/evantbyrne/vessel/cms"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

func (s *Store) CreateUser(ctx context.Context, user *cms.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	_, err := s.DB.ExecContext(ctx, s.queries["upsertUser"], user.ID, user.Name, user.Locale)
	return err
}

func (s *Store) CreateResource(ctx context.Context, r *cms.Resource) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	_, err := s.DB.ExecContext(ctx, s.queries["upsertResource"], r.ID, r.RootPath, r.SiteRoot,
		r.TypeName, r.DateLastModified, r.UserLastModified, int64(r.State), r.LockedBy, r.Content)
	return err
}

func (s *Store) SetProperty(ctx context.Context, id uuid.UUID, name, value string) error {
	_, err := s.DB.ExecContext(ctx, s.queries["upsertProperty"], id, name, value)
	return err
}

func (s *Store) SetFormatter(ctx context.Context, typeName, containerType, formatterPath string) error {
	_, err := s.DB.ExecContext(ctx, s.queries["upsertFormatter"], typeName, containerType, formatterPath)
	return err
}

// SetPropertyConfiguration stores conf for typeName in its slice order.
func (s *Store) SetPropertyConfiguration(ctx context.Context, typeName string, conf cms.PropertyConfig) error {
	for i, def := range conf {
		_, err := s.DB.ExecContext(ctx, s.queries["upsertPropertyConfig"], typeName, def.Name, int64(i),
			def.Type, def.Widget, def.WidgetConfig, def.Default, def.RuleType, def.RuleRegex,
			def.NiceName, def.Description, def.Error)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) SetElementProperty(ctx context.Context, clientID, name, value string) error {
	_, err := s.DB.ExecContext(ctx, s.queries["upsertElementProperty"], clientID, name, value)
	return err
}

func (s *Store) SetMessage(ctx context.Context, bundle string, locale language.Tag, key, value string) error {
	_, err := s.DB.ExecContext(ctx, s.queries["upsertMessage"], bundle, locale.String(), key, value)
	return err
}
