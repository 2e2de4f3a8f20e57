package cms_test

import (
	"context"
	"testing"

	"github.com/evantbyrne/vessel/cms"
	"github.com/evantbyrne/vessel/cms/cmstest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestResourceUtil(t *testing.T) {
	ctx := context.Background()
	store := cmstest.NewMemoryStore()
	admin := store.AddUser(&cms.User{Name: "Admin"})
	editor := store.AddUser(&cms.User{Name: "editor"})
	res := store.AddResource(&cms.Resource{
		RootPath: "/sites/default/news/a.html",
		SiteRoot: "/sites/default",
		State:    cms.StateChanged,
		LockedBy: uuid.NullUUID{UUID: editor.ID, Valid: true},
	})
	store.SetProperty(res.ID, cms.PropertyTitle, "A <b>title</b>")
	store.SetProperty(res.ID, cms.PropertyNavText, "A")

	util, err := cms.NewResourceUtil(ctx, store, res, admin)
	require.NoError(t, err)

	assert.Equal(t, "/sites/default/news/a.html", util.FullPath())
	assert.Equal(t, "A <b>title</b>", util.Title())
	assert.Equal(t, "A", util.NavText())
	assert.Equal(t, "C", util.StateAbbreviation())
	assert.Equal(t, "The resource is locked by user editor.", util.NoEditReason(cms.WorkplaceMessages(language.English)))
	assert.Equal(t, "Die Ressource ist durch den Benutzer editor gesperrt.", util.NoEditReason(cms.WorkplaceMessages(language.German)))

	// the lock owner may edit
	util, err = cms.NewResourceUtil(ctx, store, res, editor)
	require.NoError(t, err)
	assert.Empty(t, util.NoEditReason(cms.WorkplaceMessages(language.English)))
}

func TestResourceUtilDeleted(t *testing.T) {
	store := cmstest.NewMemoryStore()
	res := store.AddResource(&cms.Resource{RootPath: "/a.html", State: cms.StateDeleted})

	util, err := cms.NewResourceUtil(context.Background(), store, res, nil)
	require.NoError(t, err)
	assert.Equal(t, "The resource has been deleted.", util.NoEditReason(cms.WorkplaceMessages(language.English)))
}

func TestResourceUtilMissingLockOwner(t *testing.T) {
	store := cmstest.NewMemoryStore()
	res := store.AddResource(&cms.Resource{
		RootPath: "/a.html",
		LockedBy: uuid.NullUUID{UUID: uuid.New(), Valid: true},
	})

	_, err := cms.NewResourceUtil(context.Background(), store, res, nil)
	assert.ErrorIs(t, err, cms.ErrUserNotFound)
}
