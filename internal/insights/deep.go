package insights

import (
	"context"
)

// DeepAnalyzer is the extension point for model-based analysis over fused
// data. No implementation performs network calls yet.
type DeepAnalyzer interface {
	Analyze(ctx context.Context, points []DataPoint) ([]Insight, error)
}

// DisabledDeepAnalyzer never produces insights.
type DisabledDeepAnalyzer struct{}

// Analyze returns no insights.
func (DisabledDeepAnalyzer) Analyze(ctx context.Context, points []DataPoint) ([]Insight, error) {
	return nil, nil
}
