package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Atharva-Kanherkar/reverie/internal/sources"
)

var _ sources.Loader = (*Store)(nil)

// SaveBundle upserts every record of b in one transaction. Records are keyed
// by ID (logs, events), by contact and time, by time and category, or by
// date for daily samples, so importing the same file twice is idempotent.
func (s *Store) SaveBundle(ctx context.Context, b *sources.Bundle) error {
	if b == nil {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, l := range b.Logs {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO journal_logs (id, timestamp, text, mood, energy, sleep_hours)
			VALUES (?, ?, ?, ?, ?, ?)
		`, l.ID, l.Timestamp.UTC(), l.Text, nullFloat(l.Mood), nullFloat(l.Energy), nullFloat(l.SleepHours))
		if err != nil {
			return fmt.Errorf("failed to insert log %s: %w", l.ID, err)
		}
	}

	for _, e := range b.Events {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO calendar_events (id, start_time, category, attendees)
			VALUES (?, ?, ?, ?)
		`, e.ID, e.Start.UTC(), e.Category, e.Attendees)
		if err != nil {
			return fmt.Errorf("failed to insert event %s: %w", e.ID, err)
		}
	}

	for _, c := range b.Contacts {
		id := c.ContactID
		if id == "" {
			id = c.Name
		}
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO contact_interactions (contact_id, name, type, timestamp)
			VALUES (?, ?, ?, ?)
		`, id, c.Name, c.Type, c.Timestamp.UTC())
		if err != nil {
			return fmt.Errorf("failed to insert contact interaction: %w", err)
		}
	}

	for _, l := range b.Locations {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO location_samples (timestamp, category) VALUES (?, ?)
		`, l.Timestamp.UTC(), l.Category)
		if err != nil {
			return fmt.Errorf("failed to insert location sample: %w", err)
		}
	}

	for _, st := range b.ScreenTime {
		apps, err := json.Marshal(st.Apps)
		if err != nil {
			return fmt.Errorf("failed to serialize app usage: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO screen_time_samples (date, minutes, pickups, apps)
			VALUES (?, ?, ?, ?)
		`, st.Date, st.Minutes, st.Pickups, string(apps))
		if err != nil {
			return fmt.Errorf("failed to insert screen time for %s: %w", st.Date, err)
		}
	}

	for _, h := range b.Health {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO health_samples (date, steps, sleep_hours, heart_rate, menstrual_phase)
			VALUES (?, ?, ?, ?, ?)
		`, h.Date, h.Steps, h.SleepHours, h.HeartRate, h.MenstrualPhase)
		if err != nil {
			return fmt.Errorf("failed to insert health sample for %s: %w", h.Date, err)
		}
	}

	for _, w := range b.Weather {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO weather_samples (date, condition, temperature)
			VALUES (?, ?, ?)
		`, w.Date, w.Condition, nullFloat(w.Temperature))
		if err != nil {
			return fmt.Errorf("failed to insert weather for %s: %w", w.Date, err)
		}
	}

	return tx.Commit()
}

// LoadBundle returns every record at or after since. Daily samples are
// selected by date string against since's calendar date.
func (s *Store) LoadBundle(ctx context.Context, since time.Time) (*sources.Bundle, error) {
	b := &sources.Bundle{}
	sinceUTC := since.UTC()
	sinceDate := since.Format(sources.DateLayout)

	var err error
	if b.Logs, err = s.loadLogs(ctx, sinceUTC); err != nil {
		return nil, err
	}
	if b.Events, err = s.loadEvents(ctx, sinceUTC); err != nil {
		return nil, err
	}
	if b.Contacts, err = s.loadContacts(ctx, sinceUTC); err != nil {
		return nil, err
	}
	if b.Locations, err = s.loadLocations(ctx, sinceUTC); err != nil {
		return nil, err
	}
	if b.ScreenTime, err = s.loadScreenTime(ctx, sinceDate); err != nil {
		return nil, err
	}
	if b.Health, err = s.loadHealth(ctx, sinceDate); err != nil {
		return nil, err
	}
	if b.Weather, err = s.loadWeather(ctx, sinceDate); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Store) loadLogs(ctx context.Context, since time.Time) ([]sources.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, timestamp, text, mood, energy, sleep_hours
		FROM journal_logs
		WHERE timestamp >= ?
		ORDER BY timestamp
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal logs: %w", err)
	}
	defer rows.Close()

	var out []sources.LogEntry
	for rows.Next() {
		var l sources.LogEntry
		var text sql.NullString
		var mood, energy, sleep sql.NullFloat64
		if err := rows.Scan(&l.ID, &l.Timestamp, &text, &mood, &energy, &sleep); err != nil {
			return nil, fmt.Errorf("failed to scan journal log: %w", err)
		}
		l.Text = text.String
		l.Mood = floatOrNil(mood)
		l.Energy = floatOrNil(energy)
		l.SleepHours = floatOrNil(sleep)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) loadEvents(ctx context.Context, since time.Time) ([]sources.CalendarEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_time, category, attendees
		FROM calendar_events
		WHERE start_time >= ?
		ORDER BY start_time
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query calendar events: %w", err)
	}
	defer rows.Close()

	var out []sources.CalendarEvent
	for rows.Next() {
		var e sources.CalendarEvent
		var category sql.NullString
		if err := rows.Scan(&e.ID, &e.Start, &category, &e.Attendees); err != nil {
			return nil, fmt.Errorf("failed to scan calendar event: %w", err)
		}
		e.Category = category.String
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) loadContacts(ctx context.Context, since time.Time) ([]sources.ContactInteraction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT contact_id, name, type, timestamp
		FROM contact_interactions
		WHERE timestamp >= ?
		ORDER BY timestamp
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact interactions: %w", err)
	}
	defer rows.Close()

	var out []sources.ContactInteraction
	for rows.Next() {
		var c sources.ContactInteraction
		var typ sql.NullString
		if err := rows.Scan(&c.ContactID, &c.Name, &typ, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan contact interaction: %w", err)
		}
		c.Type = typ.String
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) loadLocations(ctx context.Context, since time.Time) ([]sources.LocationSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, category
		FROM location_samples
		WHERE timestamp >= ?
		ORDER BY timestamp
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query location samples: %w", err)
	}
	defer rows.Close()

	var out []sources.LocationSample
	for rows.Next() {
		var l sources.LocationSample
		if err := rows.Scan(&l.Timestamp, &l.Category); err != nil {
			return nil, fmt.Errorf("failed to scan location sample: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) loadScreenTime(ctx context.Context, since string) ([]sources.ScreenTimeSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, minutes, pickups, apps
		FROM screen_time_samples
		WHERE date >= ?
		ORDER BY date
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query screen time: %w", err)
	}
	defer rows.Close()

	var out []sources.ScreenTimeSample
	for rows.Next() {
		var st sources.ScreenTimeSample
		var apps sql.NullString
		if err := rows.Scan(&st.Date, &st.Minutes, &st.Pickups, &apps); err != nil {
			return nil, fmt.Errorf("failed to scan screen time: %w", err)
		}
		if apps.Valid && apps.String != "" {
			if err := json.Unmarshal([]byte(apps.String), &st.Apps); err != nil {
				return nil, fmt.Errorf("failed to parse app usage for %s: %w", st.Date, err)
			}
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) loadHealth(ctx context.Context, since string) ([]sources.HealthSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, steps, sleep_hours, heart_rate, menstrual_phase
		FROM health_samples
		WHERE date >= ?
		ORDER BY date
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query health samples: %w", err)
	}
	defer rows.Close()

	var out []sources.HealthSample
	for rows.Next() {
		var h sources.HealthSample
		var phase sql.NullString
		if err := rows.Scan(&h.Date, &h.Steps, &h.SleepHours, &h.HeartRate, &phase); err != nil {
			return nil, fmt.Errorf("failed to scan health sample: %w", err)
		}
		h.MenstrualPhase = phase.String
		out = append(out, h)
	}
	return out, rows.Err()
}

func (s *Store) loadWeather(ctx context.Context, since string) ([]sources.WeatherSample, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, condition, temperature
		FROM weather_samples
		WHERE date >= ?
		ORDER BY date
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query weather: %w", err)
	}
	defer rows.Close()

	var out []sources.WeatherSample
	for rows.Next() {
		var w sources.WeatherSample
		var condition sql.NullString
		var temp sql.NullFloat64
		if err := rows.Scan(&w.Date, &condition, &temp); err != nil {
			return nil, fmt.Errorf("failed to scan weather: %w", err)
		}
		w.Condition = condition.String
		w.Temperature = floatOrNil(temp)
		out = append(out, w)
	}
	return out, rows.Err()
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatOrNil(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
