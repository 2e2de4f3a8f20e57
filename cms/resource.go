package cms

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// State is the publish state of a resource.
type State int

const (
	StateUnchanged State = iota
	StateChanged
	StateNew
	StateDeleted
)

// Abbreviation returns the one letter code shown in the workplace.
func (s State) Abbreviation() string {
	switch s {
	case StateChanged:
		return "C"
	case StateNew:
		return "N"
	case StateDeleted:
		return "D"
	default:
		return "U"
	}
}

func (s State) String() string {
	switch s {
	case StateChanged:
		return "changed"
	case StateNew:
		return "new"
	case StateDeleted:
		return "deleted"
	default:
		return "unchanged"
	}
}

type Resource struct {
	ID               uuid.UUID
	RootPath         string
	SiteRoot         string
	TypeName         string
	DateLastModified time.Time
	UserLastModified uuid.UUID
	State            State
	LockedBy         uuid.NullUUID
	Content          []byte
}

// SitePath returns the path of the resource relative to its site root.
func (r *Resource) SitePath() string {
	if r.SiteRoot == "" || r.SiteRoot == "/" {
		return r.RootPath
	}
	root := strings.TrimSuffix(r.SiteRoot, "/")
	if rest, ok := strings.CutPrefix(r.RootPath, root); ok && (rest == "" || rest[0] == '/') {
		if rest == "" {
			return "/"
		}
		return rest
	}
	return r.RootPath
}

func (r *Resource) IsSubContainer() bool {
	return r.TypeName == SubContainerType
}

type User struct {
	ID     uuid.UUID
	Name   string
	Locale string
}
