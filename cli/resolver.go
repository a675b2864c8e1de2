package cli

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/formula/cli/cmd"
	"github.com/ardnew/formula/log"
)

// resolveYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolveYAML, "/path/to/config.yaml")
//
// Keys are flag names. Nested mappings are joined with hyphens, and
// underscores may stand in for hyphens, so all of these set --log-level:
//
//	log-level: debug
//	log_level: debug
//	log:
//	  level: debug
//
// Sequences are joined with commas for slice flags. Command-line flags
// override configuration values.
func resolveYAML(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, cmd.ErrReadConfig.Wrap(err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, cmd.ErrReadConfig.Wrap(err)
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over flattened YAML documents.
type config map[string]any

// Validate implements [kong.Resolver]. Unknown keys are logged, not
// rejected, so a configuration file can be shared across versions.
func (c config) Validate(app *kong.Application) error {
	known := map[string]bool{}

	_ = kong.Visit(app.Node, func(n kong.Visitable, next kong.Next) error {
		if f, ok := n.(*kong.Flag); ok {
			known[f.Name] = true
		}

		return next(nil)
	})

	for _, key := range slices.Sorted(maps.Keys(c)) {
		if !known[key] {
			log.Warn("unknown configuration key", slog.String("key", key))
		}
	}

	return nil
}

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	_ *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if value, ok := c[flag.Name]; ok {
		return value, nil
	}

	// Not found, let kong use defaults.
	return nil, nil //nolint:nilnil
}

// flatten stores every scalar of v under its hyphen-joined key path.
func (c config) flatten(prefix string, v any) {
	switch t := v.(type) {
	case map[string]any:
		for k, sub := range t {
			key := strings.ReplaceAll(k, "_", "-")
			if prefix != "" {
				key = prefix + "-" + key
			}

			c.flatten(key, sub)
		}

	case []any:
		parts := make([]string, len(t))
		for i, e := range t {
			parts[i] = scalar(e)
		}

		c[prefix] = strings.Join(parts, ",")

	case bool:
		c[prefix] = t

	case nil:
		// An empty value leaves the flag at its default.

	default:
		c[prefix] = scalar(t)
	}
}

// scalar returns the flag text of a decoded YAML scalar.
func scalar(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case uint64:
		return strconv.FormatUint(t, 10)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}
