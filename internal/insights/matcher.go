package insights

import (
	"math"
	"strings"
	"time"

	"github.com/Atharva-Kanherkar/reverie/internal/sources"
)

// Pattern confidence bounds.
const (
	patternBaseConfidence = 0.5
	patternConfidenceSpan = 0.4
	patternMaxConfidence  = 0.9
)

// WindowStart returns the first date key of a trailing window of windowDays
// dates ending on asOf.
func WindowStart(asOf string, windowDays int) string {
	t, err := time.Parse(sources.DateLayout, asOf)
	if err != nil || windowDays < 1 {
		return asOf
	}
	return t.AddDate(0, 0, -(windowDays - 1)).Format(sources.DateLayout)
}

// inWindow keeps points dated within [WindowStart, asOf].
func inWindow(points []DataPoint, asOf string, windowDays int) []*DataPoint {
	start := WindowStart(asOf, windowDays)
	var out []*DataPoint
	for i := range points {
		d := points[i].Date
		if d >= start && d <= asOf {
			out = append(out, &points[i])
		}
	}
	return out
}

// PatternConfidence scores a pattern that matched on matches days.
func PatternConfidence(matches, minOccurrences int) float64 {
	if minOccurrences <= 0 {
		minOccurrences = 1
	}
	c := patternBaseConfidence + float64(matches)/float64(2*minOccurrences)*patternConfidenceSpan
	return math.Min(c, patternMaxConfidence)
}

// MatchPattern evaluates one catalog entry against fused data as of the date
// key asOf. It returns nil when the pattern did not reach its threshold.
func MatchPattern(def PatternDefinition, points []DataPoint, asOf string) *Insight {
	window := inWindow(points, asOf, def.WindowDays)
	if len(window) < def.MinOccurrences {
		return nil
	}

	var evidence []Evidence
	for _, dp := range window {
		var hits []string
		for _, t := range def.Triggers {
			if t.Matches(dp) {
				hits = append(hits, t.String())
			}
		}
		if len(hits) == 0 {
			continue
		}
		evidence = append(evidence, Evidence{
			Date:        dp.Date,
			Description: strings.Join(hits, "; "),
		})
	}

	matches := len(evidence)
	if matches < def.MinOccurrences {
		return nil
	}

	if len(evidence) > DisplayEvidence {
		evidence = evidence[len(evidence)-DisplayEvidence:]
	}

	return &Insight{
		PatternID:          def.ID,
		Category:           def.Category,
		Title:              def.Name,
		Description:        def.Template,
		Evidence:           evidence,
		Strength:           CalculateStrength(matches),
		Sentiment:          SentimentFor(def.Category),
		Confidence:         PatternConfidence(matches, def.MinOccurrences),
		ReinforcementCount: 1,
		Source:             SourcePattern,
	}
}

// MatchCatalog runs every definition and returns the accepted candidates.
func MatchCatalog(defs []PatternDefinition, points []DataPoint, asOf string) []Insight {
	var out []Insight
	for _, def := range defs {
		if c := MatchPattern(def, points, asOf); c != nil {
			out = append(out, *c)
		}
	}
	return out
}
