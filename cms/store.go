package cms

import (
	"context"

	"github.com/evantbyrne/vessel/macro"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Store is the read side of the content repository.
type Store interface {
	ReadResource(ctx context.Context, id uuid.UUID) (*Resource, error)
	ReadResourceByPath(ctx context.Context, rootPath string) (*Resource, error)
	ReadUser(ctx context.Context, id uuid.UUID) (*User, error)
	// ReadProperties returns the properties set directly on a resource.
	ReadProperties(ctx context.Context, id uuid.UUID) (map[string]string, error)
	// FormatterFor returns the root path of the formatter configured for a
	// resource type and container type, or "" when there is none.
	FormatterFor(ctx context.Context, typeName, containerType string) (string, error)
	PropertyConfiguration(ctx context.Context, typeName string) (PropertyConfig, error)
	// ElementProperties returns the property values stored for an element
	// placement.
	ElementProperties(ctx context.Context, clientID string) (map[string]string, error)
	Messages(ctx context.Context, bundle string, locale language.Tag) (macro.Messages, error)
}
