package vessel

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/evantbyrne/vessel/cms"
	"github.com/evantbyrne/vessel/cms/cmstest"
	"github.com/evantbyrne/vessel/render"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

type elementsFixture struct {
	app     *App
	store   *cmstest.MemoryStore
	article *cms.Resource
	editor  *cms.User
}

func newElementsFixture() *elementsFixture {
	store := cmstest.NewMemoryStore()
	editor := store.AddUser(&cms.User{Name: "editor", Locale: "de"})
	article := store.AddResource(&cms.Resource{
		RootPath:         "/sites/default/news/a.html",
		SiteRoot:         "/sites/default",
		TypeName:         "article",
		DateLastModified: time.UnixMilli(1000),
		UserLastModified: editor.ID,
		Content:          []byte("Hello"),
	})
	store.AddResource(&cms.Resource{RootPath: "/system/teaser.html", TypeName: render.TemplateFormatterType, Content: []byte(`<b>{{.Content}}</b>`)})
	store.AddResource(&cms.Resource{RootPath: "/system/default.html", TypeName: render.StaticFormatterType, Content: []byte(`<i>static</i>`)})
	store.SetFormatter("article", "teaser", "/system/teaser.html")
	store.SetFormatter("article", "wide", "/system/teaser.html")
	store.SetFormatter("article", cms.DefaultFormatterType, "/system/default.html")
	store.SetPropertyConfiguration("article", cms.PropertyConfig{{Name: "size", Default: "small", NiceName: "%(key.size)"}})
	store.SetMessage("article", language.German, "size", "Größe")

	app := NewApp(logr.Discard())
	elements := &Elements{Store: store, Engine: render.NewEngine("UTF-8"), Logger: logr.Discard(), DefaultLocale: language.English}
	elements.AddHandlers(app)
	return &elementsFixture{app: app, store: store, article: article, editor: editor}
}

func TestElementsData(t *testing.T) {
	f := newElementsFixture()

	response := serve(f.app, http.MethodGet, "/elements/"+f.article.ID.String()+"?types=teaser,list&page=/index.html", nil)
	if response.Code != http.StatusOK {
		t.Fatalf("Expected '%d', got '%d': %s", http.StatusOK, response.Code, response.Body.String())
	}
	if contentType := response.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("Expected '%s', got '%s'", "application/json", contentType)
	}
	var doc struct {
		ObjType    string            `json:"objtype"`
		ID         string            `json:"id"`
		Date       int64             `json:"date"`
		User       string            `json:"user"`
		Contents   map[string]string `json:"contents"`
		Formatters map[string]string `json:"formatters"`
	}
	if err := json.Unmarshal(response.Body.Bytes(), &doc); err != nil {
		t.Fatal(err)
	}
	if doc.ObjType != "Element" || doc.ID != f.article.ID.String() || doc.Date != 1000 || doc.User != "editor" {
		t.Errorf("Unexpected document '%+v'", doc)
	}
	expected := map[string]string{"teaser": "<b>Hello</b>", cms.DefaultFormatterType: "<i>static</i>"}
	if len(doc.Contents) != len(expected) || doc.Contents["teaser"] != expected["teaser"] || doc.Contents[cms.DefaultFormatterType] != expected[cms.DefaultFormatterType] {
		t.Errorf("Expected '%+v', got '%+v'", expected, doc.Contents)
	}
	if _, ok := doc.Formatters["list"]; ok {
		t.Errorf("Expected no 'list' formatter, got '%+v'", doc.Formatters)
	}
}

func TestElementsDataClientIDWithDiscriminator(t *testing.T) {
	f := newElementsFixture()
	clientID := f.article.ID.String() + "#3"

	response := serve(f.app, http.MethodGet, "/elements/"+url.PathEscape(clientID), nil)
	if response.Code != http.StatusOK {
		t.Fatalf("Expected '%d', got '%d': %s", http.StatusOK, response.Code, response.Body.String())
	}
	if !strings.Contains(response.Body.String(), `"id":"`+clientID+`"`) {
		t.Errorf("Expected client id '%s' in '%s'", clientID, response.Body.String())
	}
}

func TestElementsDataErrors(t *testing.T) {
	f := newElementsFixture()
	expected := map[string]int{
		"/elements/not-a-uuid":                                             http.StatusBadRequest,
		"/elements/" + uuid.NewString():                                    http.StatusNotFound,
		"/elements/" + f.article.ID.String() + "?locale=%25%25":            http.StatusBadRequest,
		"/elements/" + f.article.ID.String() + "?user=bad":                 http.StatusBadRequest,
		"/elements/" + f.article.ID.String() + "?user=" + uuid.NewString(): http.StatusBadRequest,
	}
	for target, status := range expected {
		response := serve(f.app, http.MethodGet, target, nil)
		if response.Code != status {
			t.Errorf("Expected '%d', got '%d' for '%s'", status, response.Code, target)
		}
	}
}

func TestElementsProperties(t *testing.T) {
	f := newElementsFixture()

	response := serve(f.app, http.MethodGet, "/elements/"+f.article.ID.String()+"/properties?user="+f.editor.ID.String(), nil)
	if response.Code != http.StatusOK {
		t.Fatalf("Expected '%d', got '%d': %s", http.StatusOK, response.Code, response.Body.String())
	}
	expected := `{"properties":{"size":{"value":"small","defaultValue":"small","type":"","widget":"","widgetConf":"","ruleType":"","ruleRegex":"","niceName":"Größe","description":"","error":""}}}`
	if body := response.Body.String(); body != expected {
		t.Errorf("Expected '%s', got '%s'", expected, body)
	}
}

func TestElementsTypes(t *testing.T) {
	f := newElementsFixture()

	response := serve(f.app, http.MethodGet, "/elements/"+f.article.ID.String()+"/types?types=teaser,list,wide&selected=wide", nil)
	if response.Code != http.StatusOK {
		t.Fatalf("Expected '%d', got '%d': %s", http.StatusOK, response.Code, response.Body.String())
	}
	body := response.Body.String()
	for _, fragment := range []string{
		`data-value="wide"`,
		`<div class="select-box-opener select-box-selected corner-all">wide</div>`,
		`<div class="select-box-cell" data-value="teaser" title="teaser">teaser</div>`,
	} {
		if !strings.Contains(body, fragment) {
			t.Errorf("Expected '%s' in '%s'", fragment, body)
		}
	}
	if strings.Contains(body, `data-value="list"`) {
		t.Errorf("Expected no 'list' option in '%s'", body)
	}

	response = serve(f.app, http.MethodGet, "/elements/"+f.article.ID.String()+"/types?width=wide", nil)
	if response.Code != http.StatusBadRequest {
		t.Errorf("Expected '%d', got '%d'", http.StatusBadRequest, response.Code)
	}
}

func TestElementsUnsupportedSubContainer(t *testing.T) {
	f := newElementsFixture()
	content, err := cms.MarshalSubContainer(map[language.Tag]*cms.SubContainer{
		language.English: {Elements: []cms.ContainerElement{cms.NewContainerElement(f.article.ID)}},
	})
	if err != nil {
		t.Fatal(err)
	}
	sub := f.store.AddResource(&cms.Resource{
		RootPath:         "/sites/default/.content/sub-1.xml",
		SiteRoot:         "/sites/default",
		TypeName:         cms.SubContainerType,
		UserLastModified: f.editor.ID,
		Content:          content,
	})

	expected := "sub-container has elements but no types: /sites/default/.content/sub-1.xml"
	for _, target := range []string{
		"/elements/" + sub.ID.String() + "?types=teaser",
		"/elements/" + sub.ID.String() + "/types?types=teaser",
	} {
		response := serve(f.app, http.MethodGet, target, nil)
		if response.Code != http.StatusConflict {
			t.Errorf("Expected '%d', got '%d' for '%s'", http.StatusConflict, response.Code, target)
		}
		if body := response.Body.String(); body != expected+"\n" {
			t.Errorf("Expected '%s', got '%s'", expected, body)
		}
	}
}

func TestServerRoutes(t *testing.T) {
	f := newElementsFixture()
	NewServer(logr.Discard(), ServerConfig{EnableRequestLogging: true}, f.app)

	response := serve(f.app, http.MethodGet, "/healthz", nil)
	if body := response.Body.String(); body != `{"ok":true}` {
		t.Errorf("Expected '%s', got '%s'", `{"ok":true}`, body)
	}

	serve(f.app, http.MethodGet, "/elements/"+f.article.ID.String()+"?types=teaser", nil)
	response = serve(f.app, http.MethodGet, "/metrics", nil)
	if response.Code != http.StatusOK {
		t.Errorf("Expected '%d', got '%d'", http.StatusOK, response.Code)
	}
}
