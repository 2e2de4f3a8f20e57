package cms

import (
	"context"
	"fmt"

	"github.com/evantbyrne/vessel/macro"
	"golang.org/x/text/language"
)

const (
	msgNoEditLocked  = "noedit.locked"
	msgNoEditDeleted = "noedit.deleted"
)

var workplaceMessages = macro.NewBundle(WorkplaceBundle).
	Set(language.English, msgNoEditLocked, "The resource is locked by user %s.").
	Set(language.English, msgNoEditDeleted, "The resource has been deleted.").
	Set(language.German, msgNoEditLocked, "Die Ressource ist durch den Benutzer %s gesperrt.").
	Set(language.German, msgNoEditDeleted, "Die Ressource wurde gelöscht.")

// WorkplaceMessages returns the built-in workplace texts for locale.
func WorkplaceMessages(locale language.Tag) macro.Messages {
	return workplaceMessages.For(locale)
}

// ResourceUtil is a workplace view of a resource: display paths, navigation
// properties and editability for the current user.
type ResourceUtil struct {
	Resource   *Resource
	Properties map[string]string

	currentUser *User
	lockOwner   *User
}

// NewResourceUtil reads everything the view needs from store.
func NewResourceUtil(ctx context.Context, store Store, resource *Resource, currentUser *User) (*ResourceUtil, error) {
	props, err := store.ReadProperties(ctx, resource.ID)
	if err != nil {
		return nil, fmt.Errorf("reading properties of %s: %w", resource.RootPath, err)
	}
	util := &ResourceUtil{
		Resource:    resource,
		Properties:  props,
		currentUser: currentUser,
	}
	if resource.LockedBy.Valid {
		owner, err := store.ReadUser(ctx, resource.LockedBy.UUID)
		if err != nil {
			return nil, fmt.Errorf("reading lock owner of %s: %w", resource.RootPath, err)
		}
		util.lockOwner = owner
	}
	return util, nil
}

func (u *ResourceUtil) FullPath() string {
	return u.Resource.RootPath
}

func (u *ResourceUtil) NavText() string {
	return u.Properties[PropertyNavText]
}

func (u *ResourceUtil) Title() string {
	return u.Properties[PropertyTitle]
}

func (u *ResourceUtil) StateAbbreviation() string {
	return u.Resource.State.Abbreviation()
}

// NoEditReason explains why the current user may not edit the resource, in
// the given messages' locale. It is empty when the resource is editable.
func (u *ResourceUtil) NoEditReason(messages macro.Messages) string {
	if u.Resource.State == StateDeleted {
		return macro.Text(messages, msgNoEditDeleted)
	}
	if u.lockOwner != nil && (u.currentUser == nil || u.lockOwner.ID != u.currentUser.ID) {
		return fmt.Sprintf(macro.Text(messages, msgNoEditLocked), u.lockOwner.Name)
	}
	return ""
}
