package macro

import (
	"strings"
)

const (
	keyPrefix = "key."
)

// Resolver expands macros of the forms %(name) and ${name}. Names starting
// with "key." are looked up in Messages; any other name is looked up in
// Values. Unknown macros are left in place, except unknown message keys
// which expand to "???key???".
type Resolver struct {
	Messages Messages
	Values   map[string]string
}

// Resolve expands every macro in input. Expanded text is not rescanned.
func (r Resolver) Resolve(input string) string {
	if input == "" || (!strings.Contains(input, "%(") && !strings.Contains(input, "${")) {
		return input
	}
	var out strings.Builder
	for i := 0; i < len(input); {
		closer, width := opener(input[i:])
		if width == 0 {
			out.WriteByte(input[i])
			i++
			continue
		}
		end := strings.IndexByte(input[i+width:], closer)
		if end < 0 {
			out.WriteString(input[i:])
			break
		}
		name := input[i+width : i+width+end]
		if value, ok := r.lookup(name); ok {
			out.WriteString(value)
		} else {
			out.WriteString(input[i : i+width+end+1])
		}
		i += width + end + 1
	}
	return out.String()
}

func (r Resolver) lookup(name string) (string, bool) {
	if key, ok := strings.CutPrefix(name, keyPrefix); ok {
		return Text(r.Messages, key), true
	}
	v, ok := r.Values[name]
	return v, ok
}

func opener(s string) (byte, int) {
	switch {
	case strings.HasPrefix(s, "%("):
		return ')', 2
	case strings.HasPrefix(s, "${"):
		return '}', 2
	}
	return 0, 0
}
