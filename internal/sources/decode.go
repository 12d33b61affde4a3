package sources

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DecodeBundle parses a YAML (or JSON, which is valid YAML) import document.
// Records without an ID get a generated one; date-only samples are validated.
func DecodeBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse source bundle: %w", err)
	}

	for i := range b.Logs {
		if b.Logs[i].ID == "" {
			b.Logs[i].ID = uuid.NewString()
		}
	}
	for i := range b.Events {
		if b.Events[i].ID == "" {
			b.Events[i].ID = uuid.NewString()
		}
	}
	for i := range b.Contacts {
		if b.Contacts[i].ContactID == "" {
			b.Contacts[i].ContactID = b.Contacts[i].Name
		}
	}

	for _, s := range b.ScreenTime {
		if !ValidDate(s.Date) {
			return nil, fmt.Errorf("screen_time: invalid date %q", s.Date)
		}
	}
	for _, h := range b.Health {
		if !ValidDate(h.Date) {
			return nil, fmt.Errorf("health: invalid date %q", h.Date)
		}
	}
	for _, w := range b.Weather {
		if !ValidDate(w.Date) {
			return nil, fmt.Errorf("weather: invalid date %q", w.Date)
		}
	}

	return &b, nil
}

// ReadBundleFile reads and decodes an import file from disk.
func ReadBundleFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return DecodeBundle(data)
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DateKey returns the local wall-clock date of t in loc.
func DateKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(DateLayout)
}
