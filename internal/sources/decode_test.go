package sources

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeBundle(t *testing.T) {
	doc := `
logs:
  - timestamp: 2025-03-01T21:30:00Z
    text: "Went for a run, felt great"
    mood: 8
events:
  - start: 2025-03-01T09:00:00Z
    category: work
    attendees: 4
contacts:
  - name: Sam
    type: friend
    timestamp: 2025-03-01T18:00:00Z
health:
  - date: "2025-03-01"
    steps: 12000
    sleep_hours: 7.5
weather:
  - date: "2025-03-01"
    condition: sunny
`
	b, err := DecodeBundle([]byte(doc))
	require.NoError(t, err)

	require.Len(t, b.Logs, 1)
	assert.NotEmpty(t, b.Logs[0].ID)
	require.NotNil(t, b.Logs[0].Mood)
	assert.Equal(t, 8.0, *b.Logs[0].Mood)

	require.Len(t, b.Events, 1)
	assert.NotEmpty(t, b.Events[0].ID)
	assert.Equal(t, 4, b.Events[0].Attendees)

	require.Len(t, b.Contacts, 1)
	assert.Equal(t, "Sam", b.Contacts[0].ContactID)

	assert.Equal(t, 12000, b.Health[0].Steps)
	assert.Equal(t, "sunny", b.Weather[0].Condition)
	assert.Equal(t, 5, b.Count())
	assert.False(t, b.Empty())
}

func TestDecodeBundle_InvalidDate(t *testing.T) {
	_, err := DecodeBundle([]byte("health:\n  - date: yesterday\n    steps: 10\n"))
	assert.Error(t, err)
}

func TestDateKey_UsesLocalWallClock(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	// 02:00 UTC on the 2nd is still the evening of the 1st locally.
	ts := time.Date(2025, 3, 2, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01", DateKey(ts, loc))
	assert.Equal(t, "2025-03-02", DateKey(ts, time.UTC))
}
