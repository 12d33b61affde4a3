package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Atharva-Kanherkar/reverie/internal/insights"
)

// Keys of the insight state snapshots in the kv table.
const (
	keyInsights     = "insights"
	keySettings     = "insight_settings"
	keyLastAnalysis = "last_analysis"
)

var _ insights.Store = (*Store)(nil)

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putValue(ctx context.Context, db execer, key, value string) error {
	_, err := db.ExecContext(ctx, `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// getValue returns ok=false when the key was never written.
func (s *Store) getValue(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

// LoadInsights returns the stored insight collection.
func (s *Store) LoadInsights(ctx context.Context) ([]insights.Insight, error) {
	value, ok, err := s.getValue(ctx, keyInsights)
	if err != nil || !ok {
		return nil, err
	}
	var list []insights.Insight
	if err := json.Unmarshal([]byte(value), &list); err != nil {
		return nil, fmt.Errorf("failed to parse stored insights: %w", err)
	}
	return list, nil
}

// SaveInsights replaces the stored insight collection.
func (s *Store) SaveInsights(ctx context.Context, list []insights.Insight) error {
	data, err := marshalInsights(list)
	if err != nil {
		return err
	}
	return putValue(ctx, s.db, keyInsights, data)
}

// LoadSettings returns the stored settings, or nil when none were saved.
func (s *Store) LoadSettings(ctx context.Context) (*insights.Settings, error) {
	value, ok, err := s.getValue(ctx, keySettings)
	if err != nil || !ok {
		return nil, err
	}
	var settings insights.Settings
	if err := json.Unmarshal([]byte(value), &settings); err != nil {
		return nil, fmt.Errorf("failed to parse stored settings: %w", err)
	}
	return &settings, nil
}

// SaveSettings replaces the stored settings.
func (s *Store) SaveSettings(ctx context.Context, settings insights.Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	return putValue(ctx, s.db, keySettings, string(data))
}

// LastAnalysis returns when the last analysis ran, or the zero time.
func (s *Store) LastAnalysis(ctx context.Context) (time.Time, error) {
	value, ok, err := s.getValue(ctx, keyLastAnalysis)
	if err != nil || !ok {
		return time.Time{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse last analysis time: %w", err)
	}
	return t, nil
}

// SaveAnalysis writes the insight collection and the run timestamp in one
// transaction.
func (s *Store) SaveAnalysis(ctx context.Context, list []insights.Insight, at time.Time) error {
	data, err := marshalInsights(list)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := putValue(ctx, tx, keyInsights, data); err != nil {
		return err
	}
	if err := putValue(ctx, tx, keyLastAnalysis, at.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}

	return tx.Commit()
}

func marshalInsights(list []insights.Insight) (string, error) {
	if list == nil {
		list = []insights.Insight{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to serialize insights: %w", err)
	}
	return string(data), nil
}
