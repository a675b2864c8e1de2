package cmd

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/goccy/go-yaml"
)

// Output selects how a command renders its result.
type Output string

const (
	OutputText Output = "text"
	OutputJSON Output = "json"
	OutputYAML Output = "yaml"
)

// encode writes v to w as JSON or YAML.
func encode(ctx context.Context, w io.Writer, format Output, indent int, v any) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		if indent > 0 {
			enc.SetIndent("", strings.Repeat(" ", indent))
		}

		if err := enc.Encode(v); err != nil {
			return ErrMarshal.With(slog.String("format", string(format))).Wrap(err)
		}

	case OutputYAML:
		opts := []yaml.EncodeOption{yaml.Indent(max(indent, 2))}

		data, err := yaml.MarshalContext(ctx, v, opts...)
		if err != nil {
			return ErrMarshal.With(slog.String("format", string(format))).Wrap(err)
		}

		if _, err := w.Write(data); err != nil {
			return err
		}

	default:
		return ErrInvalidFormat.With(slog.String("format", string(format)))
	}

	return nil
}
