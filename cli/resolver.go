package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

// loadYAML is a [kong.ConfigurationLoader] for YAML config files.
//
// Top-level keys name flags. Hyphens and underscores are interchangeable,
// and nested mappings join their keys with a hyphen, so all of these set
// --log-level:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Command-line flags override config file values. An empty file yields an
// empty configuration.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var raw map[string]any

	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, err
	}

	cfg := config{}
	cfg.flatten("", raw)

	return cfg, nil
}

// config implements [kong.Resolver] over a flattened YAML mapping.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := normalize(prefix + k)

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key+"-", sub)

			continue
		}

		c[key] = scalar(v)
	}
}

// normalize maps a config key to its flag name.
func normalize(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "_", "-")
}

// scalar converts numbers to strings for kong's mappers and leaves other
// values as decoded.
func scalar(v any) any {
	switch n := v.(type) {
	case int, int64, uint64, float64:
		return fmt.Sprint(n)

	case []any:
		out := make([]any, len(n))
		for i, e := range n {
			out[i] = scalar(e)
		}

		return out

	default:
		return v
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if v, ok := c[normalize(flag.Name)]; ok {
		return v, nil
	}

	return nil, nil
}
