package insights

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	settings, err := s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Nil(t, settings)

	last, err := s.LastAnalysis(ctx)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	list := []Insight{{ID: "a", Evidence: []Evidence{{Date: "2025-03-01", Description: "x"}}}}
	at := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveAnalysis(ctx, list, at))

	// Callers cannot mutate stored state through their copies.
	list[0].Evidence[0].Description = "changed"
	got, err := s.LoadInsights(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "x", got[0].Evidence[0].Description)

	last, err = s.LastAnalysis(ctx)
	require.NoError(t, err)
	assert.Equal(t, at, last)

	require.NoError(t, s.SaveSettings(ctx, DefaultSettings()))
	settings, err = s.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), *settings)
}
