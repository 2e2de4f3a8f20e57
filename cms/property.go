package cms

// PropertyTypeVfsList marks a property whose value is a "|" separated list
// of resource ids.
const PropertyTypeVfsList = "vfslist"

// PropertyDefinition configures one editable element property.
type PropertyDefinition struct {
	Name         string
	Type         string
	Widget       string
	WidgetConfig string
	Default      string
	RuleType     string
	RuleRegex    string
	NiceName     string
	Description  string
	Error        string
}

// PropertyConfig is the ordered set of properties configured for a resource
// type.
type PropertyConfig []PropertyDefinition

func (c PropertyConfig) Names() []string {
	names := make([]string, len(c))
	for i, def := range c {
		names[i] = def.Name
	}
	return names
}

func (c PropertyConfig) Lookup(name string) (PropertyDefinition, bool) {
	for _, def := range c {
		if def.Name == name {
			return def, true
		}
	}
	return PropertyDefinition{}, false
}

// Resolve returns a value for every configured property: the stored value
// when present, otherwise the configured default. Stored values for names
// not in the configuration are dropped.
func (c PropertyConfig) Resolve(stored map[string]string) map[string]string {
	values := make(map[string]string, len(c))
	for _, def := range c {
		if v, ok := stored[def.Name]; ok {
			values[def.Name] = v
		} else {
			values[def.Name] = def.Default
		}
	}
	return values
}
