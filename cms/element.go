package cms

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ContainerElement is one element placed in a container page. The client
// id is how the browser-side page model refers to this placement; it is the
// element id optionally followed by "#" and a discriminator.
type ContainerElement struct {
	ElementID uuid.UUID
	ClientID  string
}

// ParseClientID returns the element a client id refers to.
func ParseClientID(clientID string) (ContainerElement, error) {
	id, _, _ := strings.Cut(clientID, "#")
	elementID, err := uuid.Parse(id)
	if err != nil {
		return ContainerElement{}, fmt.Errorf("invalid client id %q: %w", clientID, err)
	}
	return ContainerElement{ElementID: elementID, ClientID: clientID}, nil
}

// NewContainerElement returns an element whose client id is its element id.
func NewContainerElement(id uuid.UUID) ContainerElement {
	return ContainerElement{ElementID: id, ClientID: id.String()}
}
