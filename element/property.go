package element

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/evantbyrne/vessel/cms"
	"github.com/evantbyrne/vessel/macro"
	"github.com/google/uuid"
	"golang.org/x/text/language"
)

// Property describes one editable element property.
type Property struct {
	Name         string `json:"-"`
	Value        string `json:"value"`
	DefaultValue string `json:"defaultValue"`
	Type         string `json:"type"`
	Widget       string `json:"widget"`
	WidgetConf   string `json:"widgetConf"`
	RuleType     string `json:"ruleType"`
	RuleRegex    string `json:"ruleRegex"`
	NiceName     string `json:"niceName"`
	Description  string `json:"description"`
	Error        string `json:"error"`
}

// PropertyInfo lists properties in configuration order. It marshals to
// {"properties": {name: property, ...}} with keys in that order.
type PropertyInfo struct {
	Properties []Property
}

func (p PropertyInfo) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"properties":{`)
	for i, prop := range p.Properties {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(prop)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteString(`}}`)
	return buf.Bytes(), nil
}

// Lookup returns the property named name.
func (p PropertyInfo) Lookup(name string) (Property, bool) {
	for _, prop := range p.Properties {
		if prop.Name == name {
			return prop, true
		}
	}
	return Property{}, false
}

// GetElementPropertyInfo describes every property configured for the
// element's resource type. Texts are macro expanded with the current user's
// messages. Any read failure aborts the whole call.
func (u *Util) GetElementPropertyInfo(ctx context.Context, element cms.ContainerElement) (*PropertyInfo, error) {
	resource, err := u.Store.ReadResource(ctx, element.ElementID)
	if err != nil {
		return nil, err
	}
	messages, err := u.Store.Messages(ctx, resource.TypeName, u.userLocale())
	if err != nil {
		return nil, fmt.Errorf("reading messages for %s: %w", resource.TypeName, err)
	}
	conf, err := u.Store.PropertyConfiguration(ctx, resource.TypeName)
	if err != nil {
		return nil, fmt.Errorf("reading property configuration of %s: %w", resource.TypeName, err)
	}
	stored, err := u.Store.ElementProperties(ctx, element.ClientID)
	if err != nil {
		return nil, fmt.Errorf("reading element properties of %s: %w", element.ClientID, err)
	}
	values := conf.Resolve(stored)

	resolver := macro.Resolver{Messages: messages, Values: u.macroValues()}
	info := &PropertyInfo{Properties: make([]Property, 0, len(conf))}
	for _, def := range conf {
		value, err := u.valuePaths(ctx, def.Type, values[def.Name])
		if err != nil {
			return nil, err
		}
		info.Properties = append(info.Properties, Property{
			Name:         def.Name,
			Value:        value,
			DefaultValue: def.Default,
			Type:         def.Type,
			Widget:       def.Widget,
			WidgetConf:   resolver.Resolve(def.WidgetConfig),
			RuleType:     def.RuleType,
			RuleRegex:    def.RuleRegex,
			NiceName:     resolver.Resolve(def.NiceName),
			Description:  resolver.Resolve(def.Description),
			Error:        resolver.Resolve(def.Error),
		})
	}
	return info, nil
}

// valuePaths converts a vfslist value from resource ids to site paths. Ids
// that do not resolve are dropped.
func (u *Util) valuePaths(ctx context.Context, propertyType, value string) (string, error) {
	if propertyType != cms.PropertyTypeVfsList || value == "" {
		return value, nil
	}
	var paths []string
	for _, part := range strings.Split(value, "|") {
		id, err := uuid.Parse(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		resource, err := u.Store.ReadResource(ctx, id)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return "", err
		}
		paths = append(paths, resource.SitePath())
	}
	return strings.Join(paths, "|"), nil
}

func (u *Util) userLocale() language.Tag {
	if u.User != nil && u.User.Locale != "" {
		if tag, err := language.Parse(u.User.Locale); err == nil {
			return tag
		}
	}
	return u.Locale
}

func (u *Util) macroValues() map[string]string {
	values := map[string]string{
		"locale":   u.userLocale().String(),
		"page.uri": u.PageURI,
	}
	if u.User != nil {
		values["currentuser.name"] = u.User.Name
	}
	return values
}
