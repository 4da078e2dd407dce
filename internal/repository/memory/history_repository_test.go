package memory

import (
	"context"
	"testing"
	"time"

	"hcp-chatbot-be/pkg/rag/state"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewHistoryRepository(time.Minute)

	turns, err := repo.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.NotNil(t, turns)

	saved := []state.Turn{{Query: "v4", Route: state.RouteVersion}}
	require.NoError(t, repo.Save(ctx, "s1", saved))
	saved[0].Query = "mutated"

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v4", got[0].Query)

	n, err := repo.CountSessions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, repo.Delete(ctx, "s1"))
	got, err = repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, got)
}
