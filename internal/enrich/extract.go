package enrich

import (
	"encoding/json"
	"strings"
)

// ExtractJSON returns the first JSON object or array embedded in a model
// reply. Code fences and surrounding prose are ignored. ok is false when
// nothing decodes.
func ExtractJSON(reply string) (any, bool) {
	for i := 0; i < len(reply); i++ {
		if reply[i] != '{' && reply[i] != '[' {
			continue
		}
		var v any
		// Decode stops after the first value, so trailing prose is fine.
		if err := json.NewDecoder(strings.NewReader(reply[i:])).Decode(&v); err == nil {
			return v, true
		}
	}
	return nil, false
}

// object returns the payload as an object, unwrapping a single-element
// array.
func object(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		if len(t) == 1 {
			m, ok := t[0].(map[string]any)
			return m, ok
		}
	}
	return nil, false
}
