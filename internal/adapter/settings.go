package adapter

import (
	"fmt"
	"strings"
)

// stringList reads a list of strings from adapter settings.
// YAML decodes lists as []any, so both shapes are accepted.
func stringList(settings map[string]any, key string, def []string) ([]string, error) {
	raw, ok := settings[key]
	if !ok || raw == nil {
		return def, nil
	}

	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("setting %s: expected string, got %T", key, item)
			}
			out = append(out, s)
		}
		return out, nil
	case string:
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("setting %s: expected list of strings, got %T", key, raw)
	}
}

// extensionSet normalizes extensions to a lower-case lookup set with leading dots
func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}
	return set
}
