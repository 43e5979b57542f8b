package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wordgames/hangman-server/internal/game"
)

func TestMemoryStoreSaveGet(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	g := game.New("CAT")
	require.NoError(t, m.Save(ctx, g))

	got, err := m.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Same(t, g, got, "store hands back the live session")
}

func TestMemoryStoreGetMissing(t *testing.T) {
	m := NewMemoryStore()
	_, err := m.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	g := game.New("CAT")
	require.NoError(t, m.Save(ctx, g))
	_, err := g.Guess("C")
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx, g))

	got, err := m.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "C _ _", got.RenderedWord())
}
