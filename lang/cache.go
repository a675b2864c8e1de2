package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// Cache memoizes compiled programs by formula text. Programs are immutable,
// so a cached program is shared by every caller that compiles the same text.
// A Cache is safe for concurrent use.
type Cache struct {
	reg     *Registry
	opts    []Option
	entries sync.Map // uint64 -> *cacheEntry
}

// cacheEntry compiles its source at most once.
type cacheEntry struct {
	once   sync.Once
	source string
	prog   *Program
	err    error
}

// NewCache returns an empty cache that compiles against reg with opts.
func NewCache(reg *Registry, opts ...Option) *Cache {
	return &Cache{reg: reg, opts: opts}
}

// Registry returns the registry programs are compiled against.
func (c *Cache) Registry() *Registry { return c.reg }

// Compile returns the cached program for text, compiling it on first use.
// Failed compilations are cached too and return the same diagnostic.
func (c *Cache) Compile(ctx context.Context, text string) (*Program, error) {
	cfg := makeConfig(c.opts...)
	key := xxh3.HashString(text)

	value, hit := c.entries.LoadOrStore(key, &cacheEntry{source: text})

	entry, ok := value.(*cacheEntry)
	if !ok || entry.source != text {
		cfg.logger.TraceContext(ctx, "cache bypass",
			slog.String("hash", strconv.FormatUint(key, 16)),
		)

		return Compile(ctx, text, c.reg, c.opts...)
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("hash", strconv.FormatUint(key, 16)),
		slog.Bool("cache_hit", hit),
	)

	entry.once.Do(func() {
		entry.prog, entry.err = Compile(ctx, text, c.reg, c.opts...)
	})

	return entry.prog, entry.err
}

// CompileReader reads a formula from r and compiles it through the cache.
// A single trailing line terminator is removed.
func (c *Cache) CompileReader(ctx context.Context, r io.Reader) (*Program, error) {
	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	text := strings.TrimSuffix(string(data), "\n")
	text = strings.TrimSuffix(text, "\r")

	return c.Compile(ctx, text)
}

// Len returns the number of cached formulas.
func (c *Cache) Len() int {
	n := 0

	c.entries.Range(func(_, _ any) bool {
		n++

		return true
	})

	return n
}

// Clear removes every cached program.
func (c *Cache) Clear() {
	c.entries.Clear()
}
