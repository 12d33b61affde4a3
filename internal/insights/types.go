// Package insights discovers behavioral patterns in fused daily life data.
//
// A run fuses raw sources into one DataPoint per local date, matches the
// pattern catalog and mines freeform correlations, then merges the resulting
// candidates into a persisted, deduplicated collection of Insights. Every
// output is correlational and advisory.
package insights

import (
	"errors"
	"time"
)

// Category groups insights by the kind of pattern they describe.
type Category string

const (
	CategoryCorrelation Category = "correlation"
	CategoryTrigger     Category = "trigger"
	CategoryRhythm      Category = "rhythm"
	CategoryWarningSign Category = "warning_sign"
	CategoryGrowth      Category = "growth"
	CategoryRecovery    Category = "recovery"
	CategoryAvoidance   Category = "avoidance"
)

// Sentiment indicates how an insight should be framed to the user.
type Sentiment string

const (
	SentimentPositive          Sentiment = "positive"
	SentimentNeutral           Sentiment = "neutral"
	SentimentCautionary        Sentiment = "cautionary"
	SentimentGrowthOpportunity Sentiment = "growth_opportunity"
)

// SentimentFor is the fixed category lookup used for catalog insights.
func SentimentFor(c Category) Sentiment {
	switch c {
	case CategoryWarningSign:
		return SentimentCautionary
	case CategoryGrowth, CategoryRecovery:
		return SentimentPositive
	case CategoryAvoidance:
		return SentimentGrowthOpportunity
	default:
		return SentimentNeutral
	}
}

// Strength is a coarse tier derived from how often a pattern was observed.
type Strength string

const (
	StrengthEmerging    Strength = "emerging"
	StrengthDeveloping  Strength = "developing"
	StrengthEstablished Strength = "established"
	StrengthStrong      Strength = "strong"
)

// rank orders strengths so they can be compared.
func (s Strength) rank() int {
	switch s {
	case StrengthDeveloping:
		return 1
	case StrengthEstablished:
		return 2
	case StrengthStrong:
		return 3
	default:
		return 0
	}
}

// AtLeast reports whether s is the same tier as other or stronger.
func (s Strength) AtLeast(other Strength) bool {
	return s.rank() >= other.rank()
}

// CalculateStrength maps an occurrence count onto a strength tier.
func CalculateStrength(n int) Strength {
	switch {
	case n >= 10:
		return StrengthStrong
	case n >= 5:
		return StrengthEstablished
	case n >= 3:
		return StrengthDeveloping
	default:
		return StrengthEmerging
	}
}

// Source records which part of the engine produced an insight.
type Source string

const (
	SourcePattern  Source = "pattern"
	SourceFreeform Source = "freeform"
	SourceDeep     Source = "deep_analysis"
)

// Evidence is one dated observation supporting an insight.
type Evidence struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// Evidence caps.
const (
	MaxEvidence     = 10
	DisplayEvidence = 5
)

// Confidence bounds.
const (
	MaxConfidence          = 0.95
	ReinforcementIncrement = 0.05
	CoachMinConfidence     = 0.7
)

// Insight is a confidence-scored, evidence-backed pattern observation.
type Insight struct {
	ID                 string     `json:"id"`
	PatternID          string     `json:"pattern_id,omitempty"`
	Category           Category   `json:"category"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Evidence           []Evidence `json:"evidence"`
	Strength           Strength   `json:"strength"`
	Sentiment          Sentiment  `json:"sentiment"`
	Confidence         float64    `json:"confidence"`
	ReinforcementCount int        `json:"reinforcement_count"`
	DiscoveredAt       time.Time  `json:"discovered_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	IsNew              bool       `json:"is_new"`
	Acknowledged       bool       `json:"acknowledged"`
	MentionedByCoach   bool       `json:"mentioned_by_coach"`
	Source             Source     `json:"source"`
	UserReaction       string     `json:"user_reaction,omitempty"`
	UserNotes          string     `json:"user_notes,omitempty"`
}

// DisplayEvidence returns the most recent evidence entries for display.
func (i *Insight) DisplayEvidence() []Evidence {
	if len(i.Evidence) <= DisplayEvidence {
		return i.Evidence
	}
	return i.Evidence[len(i.Evidence)-DisplayEvidence:]
}

// CoachEligible reports whether a conversational agent may bring this up.
func (i *Insight) CoachEligible() bool {
	return i.Strength != StrengthEmerging &&
		i.Confidence >= CoachMinConfidence &&
		!i.MentionedByCoach
}

// matchesCandidate is the dedup rule: same category and same title or
// description.
func (i *Insight) matchesCandidate(c *Insight) bool {
	if i.Category != c.Category {
		return false
	}
	return i.Title == c.Title || i.Description == c.Description
}

// Frequency controls how often a full analysis runs.
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
	FrequencyManual Frequency = "manual"
)

// Settings are the user's insight preferences.
type Settings struct {
	Enabled            bool      `json:"enabled" yaml:"enabled"`
	Frequency          Frequency `json:"frequency" yaml:"frequency"`
	MinConfidence      float64   `json:"min_confidence" yaml:"min_confidence"`
	AllowCoachMentions bool      `json:"allow_coach_mentions" yaml:"allow_coach_mentions"`
	DeepAnalysis       bool      `json:"deep_analysis" yaml:"deep_analysis"`
}

// DefaultSettings returns the settings used when none are persisted.
func DefaultSettings() Settings {
	return Settings{
		Enabled:            true,
		Frequency:          FrequencyDaily,
		MinConfidence:      0.6,
		AllowCoachMentions: true,
	}
}

// User reactions accepted by RecordReaction.
const (
	ReactionHelpful    = "helpful"
	ReactionNotHelpful = "not_helpful"
	ReactionInaccurate = "inaccurate"
)

// ErrInsightNotFound is returned by mutations given an unknown ID.
var ErrInsightNotFound = errors.New("insight not found")

// ErrInvalidReaction is returned for reactions outside the accepted set.
var ErrInvalidReaction = errors.New("invalid reaction")
