// Package cmstest provides an in-memory cms.Store for tests.
package cmstest

import (
	"context"
	"fmt"
	"sync"

	"github.com/evantbyrne/vessel/cms"
	"github.com/evantbyrne/vessel/macro"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

var _ cms.Store = (*MemoryStore)(nil)

type MemoryStore struct {
	mu sync.Mutex

	resources    map[uuid.UUID]*cms.Resource
	users        map[uuid.UUID]*cms.User
	properties   map[uuid.UUID]map[string]string
	formatters   map[string]map[string]string
	propertyConf map[string]cms.PropertyConfig
	elementProps map[string]map[string]string
	bundles      map[string]*macro.Bundle

	// Err, when set, is returned by every read.
	Err error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resources:    make(map[uuid.UUID]*cms.Resource),
		users:        make(map[uuid.UUID]*cms.User),
		properties:   make(map[uuid.UUID]map[string]string),
		formatters:   make(map[string]map[string]string),
		propertyConf: make(map[string]cms.PropertyConfig),
		elementProps: make(map[string]map[string]string),
		bundles:      make(map[string]*macro.Bundle),
	}
}

func (s *MemoryStore) AddUser(user *cms.User) *cms.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	s.users[user.ID] = user
	return user
}

func (s *MemoryStore) AddResource(resource *cms.Resource) *cms.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()
	if resource.ID == uuid.Nil {
		resource.ID = uuid.New()
	}
	s.resources[resource.ID] = resource
	return resource
}

func (s *MemoryStore) SetProperty(id uuid.UUID, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.properties[id] == nil {
		s.properties[id] = make(map[string]string)
	}
	s.properties[id][name] = value
}

func (s *MemoryStore) SetFormatter(typeName, containerType, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.formatters[typeName] == nil {
		s.formatters[typeName] = make(map[string]string)
	}
	s.formatters[typeName][containerType] = path
}

func (s *MemoryStore) SetPropertyConfiguration(typeName string, conf cms.PropertyConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.propertyConf[typeName] = conf
}

func (s *MemoryStore) SetElementProperty(clientID, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.elementProps[clientID] == nil {
		s.elementProps[clientID] = make(map[string]string)
	}
	s.elementProps[clientID][name] = value
}

func (s *MemoryStore) SetMessage(bundle string, locale language.Tag, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bundles[bundle] == nil {
		s.bundles[bundle] = macro.NewBundle(bundle)
	}
	s.bundles[bundle].Set(locale, key, value)
}

func (s *MemoryStore) ReadResource(ctx context.Context, id uuid.UUID) (*cms.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	r, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cms.ErrResourceNotFound, id)
	}
	return r, nil
}

func (s *MemoryStore) ReadResourceByPath(ctx context.Context, rootPath string) (*cms.Resource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, r := range s.resources {
		if r.RootPath == rootPath {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", cms.ErrResourceNotFound, rootPath)
}

func (s *MemoryStore) ReadUser(ctx context.Context, id uuid.UUID) (*cms.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", cms.ErrUserNotFound, id)
	}
	return u, nil
}

func (s *MemoryStore) ReadProperties(ctx context.Context, id uuid.UUID) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	props := make(map[string]string, len(s.properties[id]))
	for k, v := range s.properties[id] {
		props[k] = v
	}
	return props, nil
}

func (s *MemoryStore) FormatterFor(ctx context.Context, typeName, containerType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return "", s.Err
	}
	return s.formatters[typeName][containerType], nil
}

func (s *MemoryStore) PropertyConfiguration(ctx context.Context, typeName string) (cms.PropertyConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return s.propertyConf[typeName], nil
}

func (s *MemoryStore) ElementProperties(ctx context.Context, clientID string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	props := make(map[string]string, len(s.elementProps[clientID]))
	for k, v := range s.elementProps[clientID] {
		props[k] = v
	}
	return props, nil
}

func (s *MemoryStore) Messages(ctx context.Context, bundle string, locale language.Tag) (macro.Messages, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	b, ok := s.bundles[bundle]
	if !ok {
		return macro.MessageMap{}, nil
	}
	return b.For(locale), nil
}
