package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/formula/lang"
)

// ParseValue parses the text form of a custom item value: a number, or a
// vector of numbers in braces such as "{1, 2.5, -3}". The words NaN and
// Inf (with optional sign) are accepted as numbers.
func ParseValue(s string) (lang.Value, error) {
	s = strings.TrimSpace(s)

	inner, ok := strings.CutPrefix(s, "{")
	if !ok {
		f, err := parseFloat(s)
		if err != nil {
			return lang.Value{}, err
		}

		return lang.Scalar(f), nil
	}

	inner, ok = strings.CutSuffix(inner, "}")
	if !ok {
		return lang.Value{}, fmt.Errorf("vector %q is missing '}'", s)
	}

	if strings.TrimSpace(inner) == "" {
		return lang.Vector(), nil
	}

	parts := strings.Split(inner, ",")
	v := make([]float64, len(parts))

	for i, part := range parts {
		f, err := parseFloat(strings.TrimSpace(part))
		if err != nil {
			return lang.Value{}, fmt.Errorf("component %d: %w", i, err)
		}

		v[i] = f
	}

	return lang.Vector(v...), nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}

	return f, nil
}

// ParseAssignment parses "name=value" into the custom item name and value.
func ParseAssignment(s string) (string, lang.Value, error) {
	name, text, ok := strings.Cut(s, "=")
	if !ok {
		return "", lang.Value{}, ErrBinding.
			With(slog.String("binding", s)).
			Wrap(errors.New("expected name=value"))
	}

	v, err := ParseValue(text)
	if err != nil {
		return "", lang.Value{}, ErrBinding.
			With(slog.String("binding", s)).
			Wrap(err)
	}

	return strings.TrimSpace(name), v, nil
}

// ValueOf converts a decoded YAML or JSON value into a custom item value.
// Numbers become scalars, sequences of numbers become vectors, and strings
// are parsed with [ParseValue].
func ValueOf(v any) (lang.Value, error) {
	switch t := v.(type) {
	case []any:
		fs := make([]float64, len(t))

		for i, e := range t {
			f, ok := number(e)
			if !ok {
				return lang.Value{}, fmt.Errorf("component %d: %v is not a number", i, e)
			}

			fs[i] = f
		}

		return lang.Vector(fs...), nil

	case string:
		return ParseValue(t)

	default:
		f, ok := number(t)
		if !ok {
			return lang.Value{}, fmt.Errorf("%v (%T) is not a number or vector", v, v)
		}

		return lang.Scalar(f), nil
	}
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}

		return 0, true
	case string:
		f, err := parseFloat(strings.TrimSpace(t))

		return f, err == nil
	case nil:
		return math.NaN(), true
	default:
		return 0, false
	}
}

// bindingsOf converts one decoded mapping into bindings. Names are
// validated as a batch, so nothing is bound if any name is illegal.
func bindingsOf(row map[string]any) (*lang.Bindings, error) {
	values := make(map[string]lang.Value, len(row))

	for name, raw := range row {
		v, err := ValueOf(raw)
		if err != nil {
			return nil, ErrBinding.With(slog.String("name", name)).Wrap(err)
		}

		values[name] = v
	}

	b := lang.NewBindings()
	if d := b.SetAll(values); !d.OK() {
		return nil, ErrBinding.Wrap(d)
	}

	return b, nil
}

// decodeBindings reads a YAML (or JSON) mapping of custom item names to
// values.
func decodeBindings(ctx context.Context, r io.Reader) (*lang.Bindings, error) {
	var row map[string]any
	if err := yaml.NewDecoder(r).DecodeContext(ctx, &row); err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrReadInput.Wrap(err)
	}

	return bindingsOf(row)
}

// decodeRows reads a YAML (or JSON) sequence of mappings, one per
// evaluation.
func decodeRows(ctx context.Context, r io.Reader) ([]map[string]any, error) {
	var rows []map[string]any
	if err := yaml.NewDecoder(r).DecodeContext(ctx, &rows); err != nil && !errors.Is(err, io.EOF) {
		return nil, ErrReadInput.Wrap(err)
	}

	return rows, nil
}
