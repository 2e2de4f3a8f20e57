package macro

import (
	"golang.org/x/text/language"
)

// Messages looks up localized message strings.
type Messages interface {
	Key(key string) (string, bool)
}

// MessageMap is a Messages backed by a plain map.
type MessageMap map[string]string

func (m MessageMap) Key(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Bundle holds messages for several locales of one bundle name. Lookups
// walk the locale's parent chain, e.g. de-CH -> de -> und.
type Bundle struct {
	Name    string
	locales map[language.Tag]MessageMap
}

func NewBundle(name string) *Bundle {
	return &Bundle{Name: name, locales: make(map[language.Tag]MessageMap)}
}

// Set adds or replaces one message for a locale.
func (b *Bundle) Set(locale language.Tag, key, value string) *Bundle {
	m, ok := b.locales[locale]
	if !ok {
		m = make(MessageMap)
		b.locales[locale] = m
	}
	m[key] = value
	return b
}

// Locales returns the locales the bundle has messages for.
func (b *Bundle) Locales() []language.Tag {
	tags := make([]language.Tag, 0, len(b.locales))
	for tag := range b.locales {
		tags = append(tags, tag)
	}
	return tags
}

// For returns the messages visible in the given locale.
func (b *Bundle) For(locale language.Tag) Messages {
	chain := make([]MessageMap, 0, 3)
	for tag := locale; ; tag = tag.Parent() {
		if m, ok := b.locales[tag]; ok {
			chain = append(chain, m)
		}
		if tag == language.Und {
			break
		}
	}
	return localized(chain)
}

type localized []MessageMap

func (l localized) Key(key string) (string, bool) {
	for _, m := range l {
		if v, ok := m[key]; ok {
			return v, true
		}
	}
	return "", false
}

// Text returns the message for key, or the "???key???" marker when the key
// is unknown.
func Text(messages Messages, key string) string {
	if messages != nil {
		if v, ok := messages.Key(key); ok {
			return v
		}
	}
	return "???" + key + "???"
}
