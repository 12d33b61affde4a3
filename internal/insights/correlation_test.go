package insights

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10}, 1},
		{"perfect negative", []float64{1, 2, 3, 4, 5}, []float64{5, 4, 3, 2, 1}, -1},
		{"constant x", []float64{4, 4, 4}, []float64{1, 2, 3}, 0},
		{"constant y", []float64{1, 2, 3}, []float64{7, 7, 7}, 0},
		{"too short", []float64{1, 2}, []float64{2, 4}, 0},
		{"length mismatch", []float64{1, 2, 3, 4}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Correlation(tt.x, tt.y), 1e-9)
		})
	}
}

func TestCorrelation_ConstantSeriesAnyValue(t *testing.T) {
	for _, c := range []float64{-3, 0, 1, 7.5, 100} {
		assert.Equal(t, 0.0, Correlation([]float64{c, c, c}, []float64{1, 2, 3}))
	}
}

func TestCorrelation_Bounded(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{2, 1, 4, 3, 6, 5}
	r := Correlation(x, y)
	assert.True(t, r > 0 && r <= 1)
}

func TestClassifyConfidence(t *testing.T) {
	tests := []struct {
		r    float64
		n    int
		want ConfidenceLevel
	}{
		{0.65, 8, ConfidenceHigh},
		{-0.65, 8, ConfidenceHigh},
		{0.45, 5, ConfidenceModerate},
		{0.3, 4, ConfidenceLow},
		{0.9, 3, ConfidenceLow},
		{0.35, 6, ConfidenceLow},
		{0.55, 7, ConfidenceModerate},
		{0.2, 20, ConfidenceLow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyConfidence(tt.r, tt.n), "r=%v n=%d", tt.r, tt.n)
	}
}

func TestCalculateStrength(t *testing.T) {
	assert.Equal(t, StrengthEmerging, CalculateStrength(0))
	assert.Equal(t, StrengthEmerging, CalculateStrength(2))
	assert.Equal(t, StrengthDeveloping, CalculateStrength(3))
	assert.Equal(t, StrengthDeveloping, CalculateStrength(4))
	assert.Equal(t, StrengthEstablished, CalculateStrength(5))
	assert.Equal(t, StrengthEstablished, CalculateStrength(9))
	assert.Equal(t, StrengthStrong, CalculateStrength(10))
	assert.Equal(t, StrengthStrong, CalculateStrength(50))

	prev := CalculateStrength(0)
	for n := 1; n <= 20; n++ {
		cur := CalculateStrength(n)
		assert.True(t, cur.AtLeast(prev), "strength decreased at n=%d", n)
		prev = cur
	}
}

func TestGenerateObservations_TooFewMoodDays(t *testing.T) {
	a := moodDay("2025-03-01", 3)
	a.SleepHours = fp(5)
	b := moodDay("2025-03-02", 8)
	b.SleepHours = fp(9)
	c := NewDataPoint("2025-03-03")
	c.SleepHours = fp(7)
	c.Exercise = true

	assert.Empty(t, GenerateObservations([]DataPoint{a, b, *c}))
}

func TestGenerateObservations_Sleep(t *testing.T) {
	sleep := []float64{5, 6, 7, 8, 9, 5}
	mood := []float64{3, 4, 6, 7, 9, 3}

	var points []DataPoint
	for i := range sleep {
		dp := moodDay(daysBefore("2025-03-10", len(sleep)-i), mood[i])
		dp.SleepHours = fp(sleep[i])
		points = append(points, dp)
	}

	obs := GenerateObservations(points)
	require.Len(t, obs, 1)
	assert.Equal(t, "sleep", obs[0].Factor)
	assert.Greater(t, obs[0].Correlation, 0.9)
	assert.Equal(t, 6, obs[0].SampleSize)
	assert.Equal(t, ConfidenceModerate, obs[0].Confidence)
	assert.Contains(t, obs[0].Description, "higher mood")
}

func TestGenerateObservations_TopThreeByMagnitude(t *testing.T) {
	moods := []float64{2, 3, 4, 7, 8, 9}

	var points []DataPoint
	for i, m := range moods {
		dp := moodDay(daysBefore("2025-03-10", len(moods)-i), m)
		good := m > 5
		dp.Exercise = good
		dp.Social = good
		dp.Outdoor = i >= 2
		dp.Caffeine = !good
		points = append(points, dp)
	}

	obs := GenerateObservations(points)
	require.Len(t, obs, MaxObservations)
	for i := 1; i < len(obs); i++ {
		assert.GreaterOrEqual(t, math.Abs(obs[i-1].Correlation), math.Abs(obs[i].Correlation))
	}
	for _, o := range obs {
		assert.NotEqual(t, "outdoor", o.Factor, "weakest factor should be dropped")
	}
}
