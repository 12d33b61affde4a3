package insights

import (
	"fmt"
	"math"
	"sort"
)

// Correlation returns Pearson's r for x and y, clamped to [-1, 1].
// It returns 0 for mismatched lengths, fewer than three samples, or a series
// with zero variance.
func Correlation(x, y []float64) float64 {
	n := len(x)
	if n != len(y) || n < 3 {
		return 0
	}

	mx, my := mean(x), mean(y)
	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := x[i] - mx
		dy := y[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0
	}

	r := sxy / math.Sqrt(sxx*syy)
	return math.Max(-1, math.Min(1, r))
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	var sum float64
	for _, x := range v {
		sum += x
	}
	return sum / float64(len(v))
}

// ConfidenceLevel is a qualitative rating of a correlation.
type ConfidenceLevel string

const (
	ConfidenceLow      ConfidenceLevel = "low"
	ConfidenceModerate ConfidenceLevel = "moderate"
	ConfidenceHigh     ConfidenceLevel = "high"
)

// ClassifyConfidence rates a correlation of r over n samples.
func ClassifyConfidence(r float64, n int) ConfidenceLevel {
	abs := math.Abs(r)
	switch {
	case n < 5:
		return ConfidenceLow
	case n < 7 && abs < 0.4:
		return ConfidenceLow
	case abs >= 0.6 && n >= 7:
		return ConfidenceHigh
	case abs >= 0.4 && n >= 5:
		return ConfidenceModerate
	default:
		return ConfidenceLow
	}
}

// Observation is one factor-vs-mood correlation.
type Observation struct {
	Factor      string          `json:"factor"`
	Correlation float64         `json:"correlation"`
	SampleSize  int             `json:"sample_size"`
	Confidence  ConfidenceLevel `json:"confidence"`
	Description string          `json:"description"`
}

// Observation thresholds.
const (
	MinObservationSamples     = 3
	MinObservationCorrelation = 0.3
	MaxObservations           = 3
)

type moodFactor struct {
	name  string
	label string
	value func(*DataPoint) (float64, bool)
}

func boolFactor(get func(*DataPoint) bool) func(*DataPoint) (float64, bool) {
	return func(d *DataPoint) (float64, bool) {
		if get(d) {
			return 1, true
		}
		return 0, true
	}
}

var moodFactors = []moodFactor{
	{"sleep", "more sleep", func(d *DataPoint) (float64, bool) {
		if d.SleepHours == nil {
			return 0, false
		}
		return *d.SleepHours, true
	}},
	{"exercise", "exercise", boolFactor(func(d *DataPoint) bool { return d.Exercise })},
	{"social", "social contact", boolFactor(func(d *DataPoint) bool { return d.Social })},
	{"outdoor", "time outdoors", boolFactor(func(d *DataPoint) bool { return d.Outdoor })},
	{"caffeine", "caffeine", boolFactor(func(d *DataPoint) bool { return d.Caffeine })},
	{"alcohol", "alcohol", boolFactor(func(d *DataPoint) bool { return d.Alcohol })},
}

// GenerateObservations correlates each tracked factor with mood and returns
// the strongest few, ordered by descending |r|.
func GenerateObservations(points []DataPoint) []Observation {
	moodDays := 0
	for i := range points {
		if points[i].Mood != nil {
			moodDays++
		}
	}
	if moodDays < MinObservationSamples {
		return nil
	}

	var out []Observation
	for _, f := range moodFactors {
		var xs, ys []float64
		for i := range points {
			dp := &points[i]
			if dp.Mood == nil {
				continue
			}
			v, ok := f.value(dp)
			if !ok {
				continue
			}
			xs = append(xs, v)
			ys = append(ys, *dp.Mood)
		}
		if len(xs) < MinObservationSamples {
			continue
		}

		r := Correlation(xs, ys)
		if math.Abs(r) < MinObservationCorrelation {
			continue
		}

		direction := "higher"
		if r < 0 {
			direction = "lower"
		}
		out = append(out, Observation{
			Factor:      f.name,
			Correlation: r,
			SampleSize:  len(xs),
			Confidence:  ClassifyConfidence(r, len(xs)),
			Description: fmt.Sprintf("Days with %s tend to come with %s mood (r=%.2f over %d days)",
				f.label, direction, r, len(xs)),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return math.Abs(out[i].Correlation) > math.Abs(out[j].Correlation)
	})
	if len(out) > MaxObservations {
		out = out[:MaxObservations]
	}
	return out
}
