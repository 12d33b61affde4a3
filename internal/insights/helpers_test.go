package insights

import (
	"time"

	"github.com/Atharva-Kanherkar/reverie/internal/sources"
)

func fp(v float64) *float64 { return &v }

// moodDay builds a DataPoint with a mood and optional sleep.
func moodDay(date string, mood float64) DataPoint {
	dp := NewDataPoint(date)
	dp.Mood = fp(mood)
	return *dp
}

func daysBefore(asOf string, n int) string {
	t, _ := time.Parse(sources.DateLayout, asOf)
	return t.AddDate(0, 0, -n).Format(sources.DateLayout)
}

func mustTrigger(spec TriggerSpec) Trigger {
	t, err := CompileTrigger(spec)
	if err != nil {
		panic(err)
	}
	return t
}
