package insights

import (
	"context"
	"sync"
	"time"
)

// Store persists the insight collection, the settings object, and the
// last-analysis timestamp. Each is replaced as a whole on write.
type Store interface {
	LoadInsights(ctx context.Context) ([]Insight, error)
	SaveInsights(ctx context.Context, insights []Insight) error

	// LoadSettings returns nil, nil when no settings were ever saved.
	LoadSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings Settings) error

	// LastAnalysis returns the zero time when no analysis has run.
	LastAnalysis(ctx context.Context) (time.Time, error)

	// SaveAnalysis atomically replaces the collection and the run timestamp.
	SaveAnalysis(ctx context.Context, insights []Insight, at time.Time) error
}

// MemoryStore is an in-process Store, used by tests and dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	insights []Insight
	settings *Settings
	last     time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func cloneInsights(in []Insight) []Insight {
	out := make([]Insight, len(in))
	for i, ins := range in {
		ins.Evidence = append([]Evidence(nil), ins.Evidence...)
		out[i] = ins
	}
	return out
}

// LoadInsights returns a copy of the stored collection.
func (s *MemoryStore) LoadInsights(ctx context.Context) ([]Insight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneInsights(s.insights), nil
}

// SaveInsights replaces the stored collection.
func (s *MemoryStore) SaveInsights(ctx context.Context, insights []Insight) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = cloneInsights(insights)
	return nil
}

// LoadSettings returns the saved settings, if any.
func (s *MemoryStore) LoadSettings(ctx context.Context) (*Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.settings == nil {
		return nil, nil
	}
	cp := *s.settings
	return &cp, nil
}

// SaveSettings replaces the saved settings.
func (s *MemoryStore) SaveSettings(ctx context.Context, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &settings
	return nil
}

// LastAnalysis returns the last run timestamp.
func (s *MemoryStore) LastAnalysis(ctx context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, nil
}

// SaveAnalysis replaces the collection and timestamp together.
func (s *MemoryStore) SaveAnalysis(ctx context.Context, insights []Insight, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = cloneInsights(insights)
	s.last = at
	return nil
}
