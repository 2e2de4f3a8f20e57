package macro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestBundleFallback(t *testing.T) {
	bundle := NewBundle("article").
		Set(language.English, "title", "Title").
		Set(language.English, "teaser", "Teaser").
		Set(language.German, "title", "Titel").
		Set(language.Und, "root", "Root")

	de := bundle.For(language.MustParse("de-CH"))

	got, ok := de.Key("title")
	assert.True(t, ok)
	assert.Equal(t, "Titel", got)

	_, ok = de.Key("teaser")
	assert.False(t, ok)

	got, ok = de.Key("root")
	assert.True(t, ok)
	assert.Equal(t, "Root", got)

	assert.ElementsMatch(t, []language.Tag{language.English, language.German, language.Und}, bundle.Locales())
}

func TestText(t *testing.T) {
	messages := MessageMap{"known": "Known"}
	assert.Equal(t, "Known", Text(messages, "known"))
	assert.Equal(t, "???unknown???", Text(messages, "unknown"))
	assert.Equal(t, "???nil???", Text(nil, "nil"))
}

func TestResolve(t *testing.T) {
	r := Resolver{
		Messages: MessageMap{"label.title": "Title", "label.loop": "%(key.label.title)"},
		Values:   map[string]string{"currentuser.name": "admin"},
	}
	tests := map[string]string{
		"":                               "",
		"plain text":                     "plain text",
		"%(key.label.title)":             "Title",
		"${key.label.title}:":            "Title:",
		"by %(currentuser.name)":         "by admin",
		"%(key.missing)":                 "???missing???",
		"%(unknown.macro) stays":         "%(unknown.macro) stays",
		"unterminated %(key.label.title": "unterminated %(key.label.title",
		"%(key.label.loop)":              "%(key.label.title)",
		"a=%(key.label.title)|b=${currentuser.name}": "a=Title|b=admin",
	}
	for input, expected := range tests {
		assert.Equal(t, expected, r.Resolve(input), input)
	}
}
