// Package cms holds the content model consumed by the element assembler:
// resources, users, container elements, sub-containers and property
// configuration.
package cms

import (
	"errors"
)

const (
	// DefaultFormatterType is the container type every element is rendered
	// for in addition to the requested types.
	DefaultFormatterType = "_DEFAULT_"

	// SubContainerType is the resource type name of sub-containers.
	SubContainerType = "subcontainer"

	PropertyNavText  = "NavText"
	PropertyTitle    = "Title"
	PropertyEncoding = "content-encoding"
	PropertyLocale   = "locale"

	// WorkplaceBundle names the message bundle used for workplace texts.
	WorkplaceBundle = "workplace"
)

var (
	ErrResourceNotFound = errors.New("resource not found")
	ErrUserNotFound     = errors.New("user not found")
)
