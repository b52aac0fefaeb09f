package source

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(50, 7, false)
	b := Generate(50, 7, false)
	c := Generate(50, 8, false)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	for i, it := range a {
		assert.Equal(t, i, it.Index)
		assert.NotEmpty(t, it.Body)
		assert.True(t, strings.HasSuffix(it.Body, "."))
	}
}

func TestGenerate_MarkdownHeightsVary(t *testing.T) {
	items := Generate(40, 3, true)
	heights := map[int]bool{}
	for _, it := range items {
		assert.True(t, strings.HasPrefix(it.Body, "### "+it.Title))
		heights[strings.Count(it.Body, "\n")] = true
	}
	assert.Greater(t, len(heights), 1)
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(Generate(3, 1, false))

	n, err := m.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	it, err := m.Get(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Item 2", it.Title)

	_, err = m.Get(ctx, 3)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = m.Get(ctx, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.NoError(t, m.Close())
}

func TestSQLite_FillAndGet(t *testing.T) {
	ctx := context.Background()
	s, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	items := Generate(100, 5, true)
	require.NoError(t, s.Fill(ctx, items))

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, n)

	for _, i := range []int{0, 42, 99} {
		got, err := s.Get(ctx, i)
		require.NoError(t, err)
		assert.Equal(t, items[i], got)
	}

	_, err = s.Get(ctx, 100)
	assert.ErrorIs(t, err, ErrOutOfRange)

	// Refilling replaces the collection.
	require.NoError(t, s.Fill(ctx, items[:10]))
	n, err = s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
}

func TestSQLite_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "items.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Fill(ctx, Generate(12, 2, false)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, n)
}

func TestSQLite_CancelledContext(t *testing.T) {
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Get(ctx, 0)
	assert.Error(t, err)
}

func TestSourceInterface(t *testing.T) {
	var _ Source = (*Memory)(nil)
	var _ Source = (*SQLite)(nil)
}
