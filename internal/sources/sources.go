// Package sources defines the raw life-tracking records consumed by the
// insight engine.
//
// Each source has its own coverage: a day may have a journal entry but no
// calendar events, or health data but no weather. Records carrying a full
// timestamp are bucketed by local wall-clock date; samples that are already
// per-day carry a YYYY-MM-DD date string.
package sources

import (
	"context"
	"time"
)

// DateLayout is the calendar-date key format used across the engine.
const DateLayout = "2006-01-02"

// LogEntry is a journal or habit log written by the user.
type LogEntry struct {
	ID         string    `json:"id" yaml:"id"`
	Timestamp  time.Time `json:"timestamp" yaml:"timestamp"`
	Text       string    `json:"text" yaml:"text"`
	Mood       *float64  `json:"mood,omitempty" yaml:"mood,omitempty"`
	Energy     *float64  `json:"energy,omitempty" yaml:"energy,omitempty"`
	SleepHours *float64  `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
}

// CalendarEvent is a single calendar entry.
type CalendarEvent struct {
	ID        string    `json:"id" yaml:"id"`
	Start     time.Time `json:"start" yaml:"start"`
	Category  string    `json:"category,omitempty" yaml:"category,omitempty"`
	Attendees int       `json:"attendees,omitempty" yaml:"attendees,omitempty"`
}

// ContactInteraction records a message or call with a contact.
type ContactInteraction struct {
	ContactID string    `json:"contact_id" yaml:"contact_id"`
	Name      string    `json:"name" yaml:"name"`
	Type      string    `json:"type" yaml:"type"` // family, friend, work, ...
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// LocationSample is a categorized location visit.
type LocationSample struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Category  string    `json:"category" yaml:"category"` // home, work, nature, gym, social, ...
}

// ScreenTimeSample is one day of device usage.
type ScreenTimeSample struct {
	Date    string             `json:"date" yaml:"date"`
	Minutes float64            `json:"minutes" yaml:"minutes"`
	Pickups int                `json:"pickups,omitempty" yaml:"pickups,omitempty"`
	Apps    map[string]float64 `json:"apps,omitempty" yaml:"apps,omitempty"`
}

// HealthSample is one day of health metrics. Zero values mean "not recorded".
type HealthSample struct {
	Date           string  `json:"date" yaml:"date"`
	Steps          int     `json:"steps,omitempty" yaml:"steps,omitempty"`
	SleepHours     float64 `json:"sleep_hours,omitempty" yaml:"sleep_hours,omitempty"`
	HeartRate      float64 `json:"heart_rate,omitempty" yaml:"heart_rate,omitempty"`
	MenstrualPhase string  `json:"menstrual_phase,omitempty" yaml:"menstrual_phase,omitempty"`
}

// WeatherSample is one day of weather.
type WeatherSample struct {
	Date        string   `json:"date" yaml:"date"`
	Condition   string   `json:"condition" yaml:"condition"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty"`
}

// Bundle groups every source list for one analysis pass.
type Bundle struct {
	Logs       []LogEntry           `json:"logs,omitempty" yaml:"logs,omitempty"`
	Events     []CalendarEvent      `json:"events,omitempty" yaml:"events,omitempty"`
	Contacts   []ContactInteraction `json:"contacts,omitempty" yaml:"contacts,omitempty"`
	Locations  []LocationSample     `json:"locations,omitempty" yaml:"locations,omitempty"`
	ScreenTime []ScreenTimeSample   `json:"screen_time,omitempty" yaml:"screen_time,omitempty"`
	Health     []HealthSample       `json:"health,omitempty" yaml:"health,omitempty"`
	Weather    []WeatherSample      `json:"weather,omitempty" yaml:"weather,omitempty"`
}

// Empty reports whether the bundle carries no records at all.
func (b *Bundle) Empty() bool {
	return len(b.Logs) == 0 && len(b.Events) == 0 && len(b.Contacts) == 0 &&
		len(b.Locations) == 0 && len(b.ScreenTime) == 0 && len(b.Health) == 0 &&
		len(b.Weather) == 0
}

// Count returns the total number of records.
func (b *Bundle) Count() int {
	return len(b.Logs) + len(b.Events) + len(b.Contacts) + len(b.Locations) +
		len(b.ScreenTime) + len(b.Health) + len(b.Weather)
}

// Loader supplies source data recorded since a point in time.
type Loader interface {
	LoadBundle(ctx context.Context, since time.Time) (*Bundle, error)
}
