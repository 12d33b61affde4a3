package insights

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Atharva-Kanherkar/reverie/internal/sources"
)

// Ledger owns the persisted insight collection. It runs analysis passes,
// merges new candidates into existing insights, and applies user and coach
// state changes. Calls are serialized by an internal mutex.
type Ledger struct {
	store     Store
	loader    sources.Loader
	fuser     *Fuser
	catalog   []PatternDefinition
	scheduler *Scheduler
	deep      DeepAnalyzer
	defaults  Settings
	location  *time.Location
	lookback  int
	now       func() time.Time
	logger    *zap.Logger

	mu sync.Mutex
}

// LedgerConfig configures a Ledger. Store is required; everything else has
// a default.
type LedgerConfig struct {
	Store     Store
	Loader    sources.Loader
	Fuser     *Fuser
	Catalog   []PatternDefinition
	Scheduler *Scheduler
	Deep      DeepAnalyzer
	Defaults  *Settings
	Location  *time.Location
	// LookbackDays bounds how much source history a run loads.
	LookbackDays int
	Clock        func() time.Time
	Logger       *zap.Logger
}

// DefaultLookbackDays covers the longest catalog window with room to spare.
const DefaultLookbackDays = 60

// NewLedger creates a Ledger.
func NewLedger(cfg LedgerConfig) (*Ledger, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}

	l := &Ledger{
		store:     cfg.Store,
		loader:    cfg.Loader,
		fuser:     cfg.Fuser,
		catalog:   cfg.Catalog,
		scheduler: cfg.Scheduler,
		deep:      cfg.Deep,
		location:  cfg.Location,
		lookback:  cfg.LookbackDays,
		now:       cfg.Clock,
		logger:    cfg.Logger,
		defaults:  DefaultSettings(),
	}

	if cfg.Defaults != nil {
		l.defaults = *cfg.Defaults
	}
	if l.location == nil {
		l.location = time.Local
	}
	if l.fuser == nil {
		l.fuser = NewFuser(nil, l.location)
	}
	if l.catalog == nil {
		catalog, err := DefaultCatalog()
		if err != nil {
			return nil, err
		}
		l.catalog = catalog
	}
	if l.scheduler == nil {
		l.scheduler = NewScheduler()
	}
	if l.deep == nil {
		l.deep = DisabledDeepAnalyzer{}
	}
	if l.lookback <= 0 {
		l.lookback = DefaultLookbackDays
	}
	if l.now == nil {
		l.now = time.Now
	}
	if l.logger == nil {
		l.logger = zap.NewNop()
	}
	l.logger = l.logger.Named("insights")

	return l, nil
}

// RunOptions controls a single analysis pass.
type RunOptions struct {
	// Force runs even if the frequency window has not elapsed.
	Force bool
	// Sources replaces the loader for this run.
	Sources *sources.Bundle
}

// RunResult summarizes an analysis pass.
type RunResult struct {
	Skipped    bool      `json:"skipped"`
	Reason     string    `json:"reason,omitempty"`
	DataPoints int       `json:"data_points"`
	Candidates int       `json:"candidates"`
	Created    int       `json:"created"`
	Reinforced int       `json:"reinforced"`
	Discarded  int       `json:"discarded"`
	RanAt      time.Time `json:"ran_at,omitempty"`
}

// RunAnalysis performs one analysis pass if it is due.
func (l *Ledger) RunAnalysis(ctx context.Context, opts RunOptions) (*RunResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	settings := l.loadSettings(ctx)

	last, err := l.store.LastAnalysis(ctx)
	if err != nil {
		l.logger.Warn("failed to read last analysis time", zap.Error(err))
		last = time.Time{}
	}

	if due, reason := l.scheduler.Due(last, settings, now, opts.Force); !due {
		l.logger.Debug("analysis skipped", zap.String("reason", reason))
		return &RunResult{Skipped: true, Reason: reason}, nil
	}

	bundle := opts.Sources
	if bundle == nil {
		bundle = l.loadBundle(ctx, now)
	}

	points := l.fuser.Fuse(bundle)
	asOf := sources.DateKey(now, l.location)

	candidates := MatchCatalog(l.catalog, points, asOf)
	candidates = append(candidates, MineCorrelations(points)...)
	if settings.DeepAnalysis {
		deep, err := l.deep.Analyze(ctx, points)
		if err != nil {
			l.logger.Warn("deep analysis failed", zap.Error(err))
		}
		candidates = append(candidates, deep...)
	}

	existing, err := l.store.LoadInsights(ctx)
	if err != nil {
		l.logger.Warn("failed to load insights, starting empty", zap.Error(err))
		existing = nil
	}

	result := &RunResult{
		DataPoints: len(points),
		Candidates: len(candidates),
		RanAt:      now,
	}
	merged := mergeCandidates(existing, candidates, settings.MinConfidence, now, result)

	if err := l.store.SaveAnalysis(ctx, merged, now); err != nil {
		l.logger.Error("failed to persist analysis", zap.Error(err), zap.Int("insights", len(merged)))
	}

	l.logger.Info("analysis complete",
		zap.Int("data_points", result.DataPoints),
		zap.Int("candidates", result.Candidates),
		zap.Int("created", result.Created),
		zap.Int("reinforced", result.Reinforced),
	)
	return result, nil
}

func (l *Ledger) loadBundle(ctx context.Context, now time.Time) *sources.Bundle {
	if l.loader == nil {
		return &sources.Bundle{}
	}
	since := now.AddDate(0, 0, -l.lookback)
	b, err := l.loader.LoadBundle(ctx, since)
	if err != nil || b == nil {
		l.logger.Warn("failed to load source data", zap.Error(err))
		return &sources.Bundle{}
	}
	return b
}

// mergeCandidates folds candidates into existing and returns the new
// collection. Tallies are written to result.
func mergeCandidates(existing, candidates []Insight, minConfidence float64, now time.Time, result *RunResult) []Insight {
	merged := existing
	for i := range candidates {
		c := &candidates[i]

		idx := -1
		for j := range merged {
			if merged[j].matchesCandidate(c) {
				idx = j
				break
			}
		}

		if idx >= 0 {
			reinforce(&merged[idx], c, now)
			result.Reinforced++
			continue
		}

		if c.Confidence < minConfidence {
			result.Discarded++
			continue
		}

		ins := *c
		ins.ID = uuid.NewString()
		ins.DiscoveredAt = now
		ins.UpdatedAt = now
		ins.IsNew = true
		ins.Acknowledged = false
		ins.MentionedByCoach = false
		if ins.ReinforcementCount < 1 {
			ins.ReinforcementCount = 1
		}
		ins.Confidence = math.Min(ins.Confidence, MaxConfidence)
		merged = append(merged, ins)
		result.Created++
	}
	return merged
}

// reinforce applies new evidence for an existing insight.
func reinforce(ins *Insight, c *Insight, now time.Time) {
	ins.Evidence = appendEvidence(ins.Evidence, c.Evidence)
	ins.ReinforcementCount++
	ins.Confidence = math.Min(ins.Confidence+ReinforcementIncrement, MaxConfidence)
	if s := CalculateStrength(ins.ReinforcementCount); !ins.Strength.AtLeast(s) {
		ins.Strength = s
	}
	ins.UpdatedAt = now
}

// appendEvidence merges entries without duplicates and keeps the most recent
// MaxEvidence by date.
func appendEvidence(cur, add []Evidence) []Evidence {
	seen := make(map[Evidence]bool, len(cur)+len(add))
	out := make([]Evidence, 0, len(cur)+len(add))
	for _, e := range append(append([]Evidence(nil), cur...), add...) {
		if seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	if len(out) > MaxEvidence {
		out = out[len(out)-MaxEvidence:]
	}
	return out
}

func (l *Ledger) loadSettings(ctx context.Context) Settings {
	s, err := l.store.LoadSettings(ctx)
	if err != nil {
		l.logger.Warn("failed to load settings, using defaults", zap.Error(err))
		return l.defaults
	}
	if s == nil {
		return l.defaults
	}
	return *s
}

func (l *Ledger) loadInsights(ctx context.Context) []Insight {
	list, err := l.store.LoadInsights(ctx)
	if err != nil {
		l.logger.Warn("failed to load insights", zap.Error(err))
		return nil
	}
	return list
}

// Settings returns the effective settings.
func (l *Ledger) Settings(ctx context.Context) Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.loadSettings(ctx)
}

// UpdateSettings validates and persists settings.
func (l *Ledger) UpdateSettings(ctx context.Context, s Settings) error {
	switch s.Frequency {
	case FrequencyDaily, FrequencyWeekly, FrequencyManual:
	default:
		return fmt.Errorf("invalid frequency %q", s.Frequency)
	}
	if s.MinConfidence < 0 || s.MinConfidence > 1 {
		return fmt.Errorf("min confidence must be between 0 and 1, got %v", s.MinConfidence)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.SaveSettings(ctx, s); err != nil {
		l.logger.Error("failed to save settings", zap.Error(err))
	}
	return nil
}

// All returns every insight, most recently updated first.
func (l *Ledger) All(ctx context.Context) []Insight {
	l.mu.Lock()
	defer l.mu.Unlock()
	list := l.loadInsights(ctx)
	sort.SliceStable(list, func(i, j int) bool { return list[i].UpdatedAt.After(list[j].UpdatedAt) })
	return list
}

// Unacknowledged returns insights the user has not acknowledged yet.
func (l *Ledger) Unacknowledged(ctx context.Context) []Insight {
	var out []Insight
	for _, ins := range l.All(ctx) {
		if !ins.Acknowledged {
			out = append(out, ins)
		}
	}
	return out
}

// CoachEligible returns insights a coach may bring up, strongest first.
// It is empty when the user has not allowed coach mentions.
func (l *Ledger) CoachEligible(ctx context.Context) []Insight {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.loadSettings(ctx).AllowCoachMentions {
		return nil
	}

	var out []Insight
	for _, ins := range l.loadInsights(ctx) {
		if ins.CoachEligible() {
			out = append(out, ins)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].ReinforcementCount > out[j].ReinforcementCount
	})
	return out
}

// mutate applies fn to the insight with id and persists the collection.
func (l *Ledger) mutate(ctx context.Context, id string, fn func(*Insight)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	list := l.loadInsights(ctx)
	for i := range list {
		if list[i].ID != id {
			continue
		}
		fn(&list[i])
		if err := l.store.SaveInsights(ctx, list); err != nil {
			l.logger.Error("failed to save insights", zap.String("id", id), zap.Error(err))
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInsightNotFound, id)
}

// Acknowledge marks an insight as seen by the user.
func (l *Ledger) Acknowledge(ctx context.Context, id string) error {
	return l.mutate(ctx, id, func(ins *Insight) {
		ins.Acknowledged = true
		ins.IsNew = false
	})
}

// RecordReaction stores the user's reaction and notes. Reacting also
// acknowledges the insight.
func (l *Ledger) RecordReaction(ctx context.Context, id, reaction, notes string) error {
	switch reaction {
	case ReactionHelpful, ReactionNotHelpful, ReactionInaccurate:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidReaction, reaction)
	}
	return l.mutate(ctx, id, func(ins *Insight) {
		ins.UserReaction = reaction
		ins.UserNotes = strings.TrimSpace(notes)
		ins.Acknowledged = true
		ins.IsNew = false
	})
}

// MarkMentioned records that a coach surfaced the insight.
func (l *Ledger) MarkMentioned(ctx context.Context, id string) error {
	return l.mutate(ctx, id, func(ins *Insight) {
		ins.MentionedByCoach = true
	})
}

// Observations runs the factor-vs-mood generator over the given bundle, or
// over loaded source data when b is nil.
func (l *Ledger) Observations(ctx context.Context, b *sources.Bundle) []Observation {
	if b == nil {
		b = l.loadBundle(ctx, l.now())
	}
	return GenerateObservations(l.fuser.Fuse(b))
}

// IsNotFound reports whether err came from an unknown insight ID.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInsightNotFound)
}
