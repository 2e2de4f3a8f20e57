package element

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/evantbyrne/vessel/cms"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestGetElementPropertyInfo(t *testing.T) {
	f := newFixture(t)
	article := f.addArticle()
	image := f.store.AddResource(&cms.Resource{RootPath: "/sites/default/img/a.png", SiteRoot: "/sites/default", TypeName: "image"})
	f.store.SetPropertyConfiguration("article", cms.PropertyConfig{
		{
			Name:         "size",
			Type:         "string",
			Widget:       "select",
			WidgetConfig: "small:%(key.size.small)|large:%(key.size.large)",
			Default:      "small",
			RuleType:     "error",
			RuleRegex:    "small|large",
			NiceName:     "%(key.size)",
			Description:  "Chosen by ${currentuser.name}",
			Error:        "%(key.size.error)",
		},
		{Name: "images", Type: cms.PropertyTypeVfsList, Widget: "vfslist"},
		{Name: "anchor", Type: "string", Default: "top"},
	})
	f.store.SetMessage("article", language.English, "size", "Size")
	f.store.SetMessage("article", language.English, "size.small", "Small")
	f.store.SetMessage("article", language.English, "size.large", "Large")
	f.store.SetMessage("article", language.German, "size", "Größe")

	element := cms.NewContainerElement(article.ID)
	f.store.SetElementProperty(element.ClientID, "size", "large")
	f.store.SetElementProperty(element.ClientID, "images", image.ID.String()+"|"+uuid.NewString()+"|not-an-id")
	f.store.SetElementProperty(element.ClientID, "unconfigured", "dropped")

	info, err := f.util.GetElementPropertyInfo(context.Background(), element)
	require.NoError(t, err)

	require.Len(t, info.Properties, 3)
	assert.Equal(t, Property{
		Name:         "size",
		Value:        "large",
		DefaultValue: "small",
		Type:         "string",
		Widget:       "select",
		WidgetConf:   "small:Small|large:Large",
		RuleType:     "error",
		RuleRegex:    "small|large",
		NiceName:     "Size",
		Description:  "Chosen by editor",
		Error:        "???size.error???",
	}, info.Properties[0])

	images, ok := info.Lookup("images")
	require.True(t, ok)
	assert.Equal(t, "/img/a.png", images.Value)

	anchor, ok := info.Lookup("anchor")
	require.True(t, ok)
	assert.Equal(t, "top", anchor.Value)

	_, ok = info.Lookup("unconfigured")
	assert.False(t, ok)
}

func TestGetElementPropertyInfoUserLocale(t *testing.T) {
	f := newFixture(t)
	article := f.addArticle()
	f.store.SetPropertyConfiguration("article", cms.PropertyConfig{{Name: "size", NiceName: "%(key.size)"}})
	f.store.SetMessage("article", language.English, "size", "Size")
	f.store.SetMessage("article", language.German, "size", "Größe")
	f.util.User = &cms.User{ID: f.editor.ID, Name: "editor", Locale: "de"}

	info, err := f.util.GetElementPropertyInfo(context.Background(), cms.NewContainerElement(article.ID))
	require.NoError(t, err)
	assert.Equal(t, "Größe", info.Properties[0].NiceName)
}

func TestPropertyInfoJSONKeepsOrder(t *testing.T) {
	info := PropertyInfo{Properties: []Property{
		{Name: "zeta", Value: "1"},
		{Name: "alpha", Value: "2"},
	}}

	out, err := json.Marshal(info)
	require.NoError(t, err)
	assert.Equal(t, `{"properties":{`+
		`"zeta":{"value":"1","defaultValue":"","type":"","widget":"","widgetConf":"","ruleType":"","ruleRegex":"","niceName":"","description":"","error":""},`+
		`"alpha":{"value":"2","defaultValue":"","type":"","widget":"","widgetConf":"","ruleType":"","ruleRegex":"","niceName":"","description":"","error":""}`+
		`}}`, string(out))

	empty, err := json.Marshal(PropertyInfo{})
	require.NoError(t, err)
	assert.Equal(t, `{"properties":{}}`, string(empty))
}

func TestGetElementPropertyInfoErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.util.GetElementPropertyInfo(context.Background(), cms.NewContainerElement(uuid.New()))
	assert.ErrorIs(t, err, cms.ErrResourceNotFound)

	article := f.addArticle()
	f.store.Err = errors.New("connection refused")
	_, err = f.util.GetElementPropertyInfo(context.Background(), cms.NewContainerElement(article.ID))
	assert.Error(t, err)
}
