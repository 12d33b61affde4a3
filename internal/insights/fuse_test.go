package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atharva-Kanherkar/reverie/internal/sources"
	"github.com/Atharva-Kanherkar/reverie/internal/textanalysis"
)

func at(date string, hour int) time.Time {
	t, _ := time.ParseInLocation(sources.DateLayout, date, time.UTC)
	return t.Add(time.Duration(hour) * time.Hour)
}

func TestBusynessFor(t *testing.T) {
	tests := []struct {
		events int
		want   Busyness
	}{
		{0, BusynessFree},
		{1, BusynessLight},
		{2, BusynessModerate},
		{3, BusynessModerate},
		{4, BusynessBusy},
		{5, BusynessBusy},
		{6, BusynessPacked},
		{12, BusynessPacked},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BusynessFor(tt.events), "events=%d", tt.events)
	}
}

func TestFuse_SortedUnionOfDates(t *testing.T) {
	f := NewFuser(textanalysis.NewKeywordAnalyzer(), time.UTC)

	b := &sources.Bundle{
		Logs:    []sources.LogEntry{{Timestamp: at("2025-03-03", 9), Text: "great day"}},
		Health:  []sources.HealthSample{{Date: "2025-03-01", SleepHours: 7}},
		Weather: []sources.WeatherSample{{Date: "2025-03-02", Condition: "Rain"}},
	}

	points := f.Fuse(b)
	require.Len(t, points, 3)
	assert.Equal(t, "2025-03-01", points[0].Date)
	assert.Equal(t, "2025-03-02", points[1].Date)
	assert.Equal(t, "2025-03-03", points[2].Date)
	assert.True(t, points[1].WeatherConditions.Has("rain"))
}

func TestFuse_LocalDateKey(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	f := NewFuser(nil, loc)

	// 01:30 UTC on the 2nd is 20:30 on the 1st locally.
	b := &sources.Bundle{
		Logs: []sources.LogEntry{{Timestamp: at("2025-03-02", 1).Add(30 * time.Minute), Text: "late"}},
	}

	points := f.Fuse(b)
	require.Len(t, points, 1)
	assert.Equal(t, "2025-03-01", points[0].Date)
	assert.True(t, points[0].TimesOfDay.Has("evening"))
}

func TestFuse_LogMood(t *testing.T) {
	f := NewFuser(nil, time.UTC)

	b := &sources.Bundle{
		Logs: []sources.LogEntry{
			{Timestamp: at("2025-03-01", 9), Text: "happy and calm"},
			{Timestamp: at("2025-03-02", 9), Text: "tired, anxious"},
			{Timestamp: at("2025-03-03", 9), Text: "anxious", Mood: fp(8)},
			{Timestamp: at("2025-03-04", 9), Text: "ate lunch"},
		},
	}

	points := f.Fuse(b)
	require.Len(t, points, 4)
	assert.Equal(t, 7.0, *points[0].Mood)
	assert.Equal(t, 3.0, *points[1].Mood)
	assert.Equal(t, 8.0, *points[2].Mood, "recorded mood beats the text estimate")
	assert.Equal(t, 5.0, *points[3].Mood)
}

func TestFuse_RecordedMoodNotOverwrittenByEstimate(t *testing.T) {
	f := NewFuser(nil, time.UTC)

	b := &sources.Bundle{
		Logs: []sources.LogEntry{
			{Timestamp: at("2025-03-01", 9), Text: "morning", Mood: fp(9)},
			{Timestamp: at("2025-03-01", 21), Text: "evening notes"},
		},
	}

	points := f.Fuse(b)
	require.Len(t, points, 1)
	assert.Equal(t, 9.0, *points[0].Mood)
	assert.Equal(t, NewSet("morning", "evening"), points[0].TimesOfDay)
}

func TestFuse_SourceSpecificFields(t *testing.T) {
	f := NewFuser(nil, time.UTC)

	b := &sources.Bundle{
		Logs: []sources.LogEntry{{Timestamp: at("2025-03-01", 8), Text: "Morning run then coffee"}},
		Events: []sources.CalendarEvent{
			{Start: at("2025-03-01", 9), Category: "Work"},
			{Start: at("2025-03-01", 11)},
			{Start: at("2025-03-01", 14)},
			{Start: at("2025-03-01", 16)},
		},
		Contacts: []sources.ContactInteraction{
			{Name: "Mom", Type: "family", Timestamp: at("2025-03-01", 18)},
			{Name: "Sam", Type: "friend", Timestamp: at("2025-03-01", 19)},
		},
		Locations:  []sources.LocationSample{{Timestamp: at("2025-03-01", 12), Category: "nature"}},
		ScreenTime: []sources.ScreenTimeSample{{Date: "2025-03-01", Minutes: 300, Pickups: 80, Apps: map[string]float64{"Instagram": 90}}},
		Health:     []sources.HealthSample{{Date: "2025-03-01", Steps: 12000, SleepHours: 6.5, MenstrualPhase: "Luteal"}},
	}

	points := f.Fuse(b)
	require.Len(t, points, 1)
	dp := points[0]

	assert.True(t, dp.Exercise)
	assert.True(t, dp.Caffeine)
	assert.True(t, dp.Outdoor)
	assert.True(t, dp.Social)
	assert.Equal(t, 2, dp.SocialCount)
	assert.True(t, dp.ContactTypes.Has("family"))
	assert.True(t, dp.ContactTypes.Has("friend"))
	assert.True(t, dp.Contacts.Has("Mom"))
	assert.Equal(t, 4, dp.EventCount)
	assert.Equal(t, BusynessBusy, dp.Busyness())
	assert.True(t, dp.EventCategories.Has("work"))
	assert.True(t, dp.LocationCategories.Has("nature"))
	assert.Equal(t, 300.0, *dp.ScreenTimeMinutes)
	assert.Equal(t, 80, *dp.Pickups)
	assert.Equal(t, 90.0, dp.AppUsage["instagram"])
	assert.Equal(t, 12000, *dp.Steps)
	assert.Equal(t, 6.5, *dp.SleepHours)
	assert.True(t, dp.MenstrualPhases.Has("luteal"))
}

func TestFuse_CalendarCoverageMarksFreeDays(t *testing.T) {
	f := NewFuser(nil, time.UTC)

	b := &sources.Bundle{
		Events: []sources.CalendarEvent{
			{Start: at("2025-03-01", 9)},
			{Start: at("2025-03-03", 9)},
		},
		Health: []sources.HealthSample{
			{Date: "2025-02-20", Steps: 4000},
			{Date: "2025-03-02", Steps: 4000},
			{Date: "2025-03-10", Steps: 4000},
		},
	}

	points := f.Fuse(b)
	require.Len(t, points, 5)
	assert.Equal(t, Busyness(""), points[0].Busyness(), "before the calendar starts")
	assert.Equal(t, BusynessLight, points[1].Busyness())
	assert.Equal(t, BusynessFree, points[2].Busyness())
	assert.Equal(t, BusynessLight, points[3].Busyness())
	assert.Equal(t, Busyness(""), points[4].Busyness(), "after the last event")

	noCalendar := f.Fuse(&sources.Bundle{Health: b.Health})
	require.Len(t, noCalendar, 3)
	for _, dp := range noCalendar {
		assert.Equal(t, Busyness(""), dp.Busyness())
	}
}

func TestFuse_ContactCoverage(t *testing.T) {
	f := NewFuser(nil, time.UTC)

	b := &sources.Bundle{
		Contacts: []sources.ContactInteraction{
			{Name: "Sam", Type: "friend", Timestamp: at("2025-03-02", 18)},
			{Name: "Mom", Type: "family", Timestamp: at("2025-03-05", 12)},
		},
		Logs: []sources.LogEntry{
			{Timestamp: at("2025-03-01", 9), Mood: fp(6)},
			{Timestamp: at("2025-03-03", 9), Mood: fp(6)},
			{Timestamp: at("2025-03-08", 9), Mood: fp(6)},
		},
	}

	points := f.Fuse(b)
	require.Len(t, points, 5)
	covered := map[string]bool{}
	for _, dp := range points {
		covered[dp.Date] = dp.HasContacts
	}
	assert.Equal(t, map[string]bool{
		"2025-03-01": false,
		"2025-03-02": true,
		"2025-03-03": true,
		"2025-03-05": true,
		"2025-03-08": false,
	}, covered)

	for _, dp := range f.Fuse(&sources.Bundle{Logs: b.Logs}) {
		assert.False(t, dp.HasContacts, dp.Date)
	}
}

func TestFuse_OrderDoesNotChangeSetFields(t *testing.T) {
	b := &sources.Bundle{
		Logs: []sources.LogEntry{
			{Timestamp: at("2025-03-01", 8), Text: "yoga then wine with friends"},
			{Timestamp: at("2025-03-02", 23), Text: "deadline panic"},
		},
		Events: []sources.CalendarEvent{
			{Start: at("2025-03-01", 10), Category: "work"},
			{Start: at("2025-03-02", 10), Category: "health"},
		},
		Contacts: []sources.ContactInteraction{
			{Name: "Sam", Type: "friend", Timestamp: at("2025-03-01", 19)},
			{Name: "Dad", Type: "family", Timestamp: at("2025-03-02", 19)},
		},
		Locations: []sources.LocationSample{
			{Timestamp: at("2025-03-01", 12), Category: "gym"},
			{Timestamp: at("2025-03-02", 12), Category: "nature"},
		},
		Health:  []sources.HealthSample{{Date: "2025-03-01", Steps: 15000, MenstrualPhase: "follicular"}},
		Weather: []sources.WeatherSample{{Date: "2025-03-02", Condition: "snow"}},
	}

	forward := NewFuser(nil, time.UTC)
	backward := NewFuser(nil, time.UTC)
	backward.Order = make([]SourceKind, len(DefaultOrder))
	for i, k := range DefaultOrder {
		backward.Order[len(DefaultOrder)-1-i] = k
	}

	a := forward.Fuse(b)
	z := backward.Fuse(b)
	require.Equal(t, len(a), len(z))

	for i := range a {
		assertSameCategoricalFields(t, &a[i], &z[i])
	}
}

func TestDataPointMerge_Commutative(t *testing.T) {
	mk := func() (*DataPoint, *DataPoint) {
		a := NewDataPoint("2025-03-01")
		a.Keywords = NewSet("work", "deadline")
		a.Contacts = NewSet("Sam")
		a.Social = true
		a.SocialCount = 1
		a.Mood = fp(4)

		b := NewDataPoint("2025-03-01")
		b.Keywords = NewSet("deadline", "walk")
		b.LocationCategories = NewSet("nature")
		b.Outdoor = true
		b.EventCount = 3
		b.HasCalendar = true
		b.Mood = fp(6)
		return a, b
	}

	a1, b1 := mk()
	a1.Merge(b1)

	a2, b2 := mk()
	b2.Merge(a2)

	assertSameCategoricalFields(t, a1, b2)
	// Scalars are last-write-wins.
	assert.Equal(t, 6.0, *a1.Mood)
	assert.Equal(t, 4.0, *b2.Mood)
}

func assertSameCategoricalFields(t *testing.T, a, b *DataPoint) {
	t.Helper()
	assert.Equal(t, a.Date, b.Date)
	assert.Equal(t, a.Activities, b.Activities)
	assert.Equal(t, a.Keywords, b.Keywords)
	assert.Equal(t, a.Contacts, b.Contacts)
	assert.Equal(t, a.ContactTypes, b.ContactTypes)
	assert.Equal(t, a.EventCategories, b.EventCategories)
	assert.Equal(t, a.LocationCategories, b.LocationCategories)
	assert.Equal(t, a.WeatherConditions, b.WeatherConditions)
	assert.Equal(t, a.MenstrualPhases, b.MenstrualPhases)
	assert.Equal(t, a.TimesOfDay, b.TimesOfDay)
	assert.Equal(t, a.HasCalendar, b.HasCalendar)
	assert.Equal(t, a.HasContacts, b.HasContacts)
	assert.Equal(t, a.Social, b.Social)
	assert.Equal(t, a.Outdoor, b.Outdoor)
	assert.Equal(t, a.Exercise, b.Exercise)
	assert.Equal(t, a.Caffeine, b.Caffeine)
	assert.Equal(t, a.Alcohol, b.Alcohol)
	assert.Equal(t, a.SocialCount, b.SocialCount)
	assert.Equal(t, a.EventCount, b.EventCount)
	assert.Equal(t, a.Busyness(), b.Busyness())
}
