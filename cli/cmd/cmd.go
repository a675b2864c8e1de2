package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/alecthomas/kong"
	"github.com/klauspost/readahead"

	"github.com/ardnew/formula/lang"
	"github.com/ardnew/formula/lang/builtin"
	"github.com/ardnew/formula/log"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// Cache returns the process-wide program cache over the default catalog.
// Programs it compiles trace through the default logger as configured when
// the cache is first used.
//
//nolint:gochecknoglobals
var Cache = sync.OnceValue(func() *lang.Cache {
	return lang.NewCache(builtin.Registry(), lang.WithLogger(log.Default()))
})

// stdinSource is the special source indicator for reading from stdin.
const stdinSource = "-"

// fileSource prefixes a formula argument naming a file to read it from.
const fileSource = "@"

// openInput opens path for reading with asynchronous read-ahead. The path
// "-" reads standard input, which is not closed.
func openInput(path string) (io.ReadCloser, error) {
	if path == stdinSource {
		return readahead.NewReader(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, ErrReadInput.With(slog.String("file", path)).Wrap(err)
	}

	return readahead.NewReadCloser(f), nil
}

// formulaText returns the formula named by a command argument: the
// argument itself, "-" to read it from standard input, or "@path" to read
// it from a file. A single trailing line terminator is removed from text
// read from input.
func formulaText(arg string) (string, error) {
	path, isFile := strings.CutPrefix(arg, fileSource)
	if arg == stdinSource {
		path, isFile = stdinSource, true
	}

	if !isFile {
		return arg, nil
	}

	r, err := openInput(path)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", ErrReadInput.With(slog.String("file", path)).Wrap(err)
	}

	text := strings.TrimSuffix(string(data), "\n")

	return strings.TrimSuffix(text, "\r"), nil
}

// compile resolves a formula argument with [formulaText] and compiles it
// through [Cache]. The formula text is returned even when compiling fails.
func compile(ctx context.Context, arg string) (string, *lang.Program, error) {
	text, err := formulaText(arg)
	if err != nil {
		return "", nil, err
	}

	p, err := Cache().Compile(ctx, text)

	return text, p, err
}

// stdout returns w, or standard output when w is nil.
func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}

	return w
}
