package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// palette holds the styles used for each kind of value. Styles are bound to
// a renderer for the output writer, so they render plain text whenever the
// writer is not a color-capable terminal.
type palette struct {
	key, str, num, dur, tim, yes, no, null lipgloss.Style
	trace, debug, info, warn, err         lipgloss.Style
}

func newPalette(w io.Writer) *palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style { return r.NewStyle().Foreground(lipgloss.Color(c)) }

	return &palette{
		key:   fg("8"),
		str:   fg("6"),
		num:   fg("3"),
		dur:   fg("5"),
		tim:   fg("4"),
		yes:   fg("2"),
		no:    fg("1"),
		null:  fg("8"),
		trace: fg("8"),
		debug: fg("4"),
		info:  fg("2"),
		warn:  fg("3").Bold(true),
		err:   fg("1").Bold(true),
	}
}

func (p *palette) level(l slog.Level) lipgloss.Style {
	switch {
	case l >= slog.LevelError:
		return p.err
	case l >= slog.LevelWarn:
		return p.warn
	case l >= slog.LevelInfo:
		return p.info
	case l >= slog.LevelDebug:
		return p.debug
	default:
		return p.trace
	}
}

// prettyHandler renders records for a human reader, either as one line of
// key=value pairs or as a multi-line object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	colors *palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr // already qualified by the groups active when added
	groups []string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		colors: newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	threshold := slog.LevelInfo
	if h.opts.Level != nil {
		threshold = h.opts.Level.Level()
	}

	return level >= threshold
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Clip(h.attrs)

	for _, a := range attrs {
		c.attrs = flatten(c.attrs, h.groups, a)
	}

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.groups = append(slices.Clip(h.groups), name)

	return &c
}

// field is one rendered key/value pair.
type field struct {
	key, val string
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]field, 0, 4+len(h.attrs)+r.NumAttrs())

	if !r.Time.IsZero() {
		if a := h.replace(slog.Time(slog.TimeKey, r.Time)); a.Key != "" {
			fields = append(fields, field{a.Key, h.colors.tim.Render(a.Value.String())})
		}
	}

	if a := h.replace(slog.Any(slog.LevelKey, r.Level)); a.Key != "" {
		fields = append(fields, field{a.Key, h.colors.level(r.Level).Render(a.Value.String())})
	}

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields, field{
				slog.SourceKey,
				h.colors.str.Render(src.File + ":" + strconv.Itoa(src.Line)),
			})
		}
	}

	fields = append(fields, field{slog.MessageKey, h.colors.str.Render(r.Message)})

	attrs := slices.Clip(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		attrs = flatten(attrs, h.groups, a)

		return true
	})

	for _, a := range attrs {
		fields = append(fields, field{a.Key, h.value(a.Value)})
	}

	var buf bytes.Buffer

	if h.format == FormatJSON {
		buf.WriteString("{\n")

		for i, f := range fields {
			buf.WriteString("  ")
			buf.WriteString(h.colors.key.Render(f.key))
			buf.WriteString(": ")
			buf.WriteString(f.val)

			if i < len(fields)-1 {
				buf.WriteByte(',')
			}

			buf.WriteByte('\n')
		}

		buf.WriteString("}\n")
	} else {
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.colors.key.Render(f.key))
			buf.WriteByte('=')
			buf.WriteString(f.val)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		return h.colors.str.Render(v.String())
	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return h.colors.num.Render(v.String())
	case slog.KindBool:
		if v.Bool() {
			return h.colors.yes.Render("true")
		}

		return h.colors.no.Render("false")
	case slog.KindDuration:
		return h.colors.dur.Render(v.String())
	case slog.KindTime:
		return h.colors.tim.Render(v.String())
	case slog.KindAny:
		if v.Any() == nil {
			return h.colors.null.Render("null")
		}

		if err, ok := v.Any().(error); ok {
			return h.colors.no.Render(err.Error())
		}

		return h.colors.str.Render(v.String())
	default:
		return h.colors.str.Render(v.String())
	}
}

// flatten appends a to dst, resolving [slog.LogValuer] values and expanding
// groups into dotted keys.
func flatten(dst []slog.Attr, groups []string, a slog.Attr) []slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return dst
	}

	if a.Value.Kind() == slog.KindGroup {
		sub := groups
		if a.Key != "" {
			sub = append(slices.Clip(groups), a.Key)
		}

		for _, g := range a.Value.Group() {
			dst = flatten(dst, sub, g)
		}

		return dst
	}

	if len(groups) > 0 {
		a.Key = strings.Join(groups, ".") + "." + a.Key
	}

	return append(dst, a)
}
