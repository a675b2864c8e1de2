package lang

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheSharesPrograms(t *testing.T) {
	c := NewCache(testRegistry(t))

	p1, err := c.Compile(t.Context(), "sum({1,2,3})")
	require.NoError(t, err)

	p2, err := c.Compile(t.Context(), "sum({1,2,3})")
	require.NoError(t, err)

	assert.Same(t, p1, p2)
	assert.Equal(t, 1, c.Len())

	p3, err := c.Compile(t.Context(), "sum({1,2})")
	require.NoError(t, err)
	assert.NotSame(t, p1, p3)
	assert.Equal(t, 2, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestCacheRemembersFailures(t *testing.T) {
	c := NewCache(testRegistry(t))

	_, err1 := c.Compile(t.Context(), "(1")
	_, err2 := c.Compile(t.Context(), "(1")

	require.Error(t, err1)
	assert.Same(t, err1, err2)
	assert.True(t, errors.Is(err1, &Diagnostic{Code: MissingClosingBracket}))
}

func TestCacheCompileReader(t *testing.T) {
	c := NewCache(testRegistry(t))

	p, err := c.CompileReader(t.Context(), strings.NewReader("  1 + 1\n"))
	require.NoError(t, err)
	assert.Equal(t, "  1 + 1", p.Source())

	v, err := p.Evaluate(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	_, err = c.CompileReader(t.Context(), strings.NewReader(" \t \r\n"))
	assert.True(t, errors.Is(err, &Diagnostic{Code: NoFormula}))

	_, err = c.CompileReader(t.Context(), strings.NewReader("\n"))
	assert.True(t, errors.Is(err, &Diagnostic{Code: FormulaNullEmpty}))
}

func TestCacheConcurrent(t *testing.T) {
	c := NewCache(testRegistry(t))
	progs := make([]*Program, 16)

	var wg sync.WaitGroup

	for i := range progs {
		wg.Add(1)

		go func() {
			defer wg.Done()

			progs[i], _ = c.Compile(t.Context(), "max('a', 'b') * 2")
		}()
	}

	wg.Wait()

	for _, p := range progs {
		require.NotNil(t, p)
		assert.Same(t, progs[0], p)
	}
}

func BenchmarkCacheCompile(b *testing.B) {
	c := NewCache(testRegistry(b))
	f := "component({1,2,3,4}, 'i') * max('x', sin(pi/4))"

	b.ReportAllocs()

	for b.Loop() {
		if _, err := c.Compile(b.Context(), f); err != nil {
			b.Fatalf("compile: %v", err)
		}
	}
}
