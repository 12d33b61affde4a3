package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/Atharva-Kanherkar/reverie/internal/sources"
	"github.com/Atharva-Kanherkar/reverie/internal/textanalysis"
)

// SourceKind names one input stream of the fuser.
type SourceKind string

const (
	KindLogs       SourceKind = "logs"
	KindCalendar   SourceKind = "calendar"
	KindContacts   SourceKind = "contacts"
	KindLocations  SourceKind = "locations"
	KindScreenTime SourceKind = "screen_time"
	KindHealth     SourceKind = "health"
	KindWeather    SourceKind = "weather"
)

// DefaultOrder is the order sources are applied in. It only matters for
// scalar fields, which are last-write-wins.
var DefaultOrder = []SourceKind{
	KindLogs, KindCalendar, KindContacts, KindLocations,
	KindScreenTime, KindHealth, KindWeather,
}

// ExerciseStepThreshold marks a day as an exercise day from step count alone.
const ExerciseStepThreshold = 10000

// Fuser merges per-source records into one DataPoint per local date.
type Fuser struct {
	analyzer textanalysis.Analyzer
	location *time.Location

	// Order overrides DefaultOrder when non-empty.
	Order []SourceKind
}

// NewFuser creates a Fuser that buckets timestamps in loc.
func NewFuser(analyzer textanalysis.Analyzer, loc *time.Location) *Fuser {
	if analyzer == nil {
		analyzer = textanalysis.NewKeywordAnalyzer()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Fuser{analyzer: analyzer, location: loc}
}

// fusion accumulates DataPoints keyed by date.
type fusion struct {
	points map[string]*DataPoint
}

func (f *fusion) at(date string) *DataPoint {
	dp, ok := f.points[date]
	if !ok {
		dp = NewDataPoint(date)
		f.points[date] = dp
	}
	return dp
}

func (f *fusion) merge(partial *DataPoint) {
	f.at(partial.Date).Merge(partial)
}

// cover applies mark to every accumulated date in [first, last].
func (f *fusion) cover(first, last string, mark func(*DataPoint)) {
	for date, dp := range f.points {
		if date >= first && date <= last {
			mark(dp)
		}
	}
}

// dateSpan returns the earliest and latest local date keys of ts.
func (f *Fuser) dateSpan(ts []time.Time) (first, last string, ok bool) {
	for _, t := range ts {
		d := sources.DateKey(t, f.location)
		if !ok || d < first {
			first = d
		}
		if !ok || d > last {
			last = d
		}
		ok = true
	}
	return first, last, ok
}

// Fuse returns one DataPoint for every date present in any source, ascending.
func (f *Fuser) Fuse(b *sources.Bundle) []DataPoint {
	if b == nil {
		return nil
	}

	acc := &fusion{points: make(map[string]*DataPoint)}

	order := f.Order
	if len(order) == 0 {
		order = DefaultOrder
	}
	for _, kind := range order {
		switch kind {
		case KindLogs:
			for _, l := range b.Logs {
				f.applyLog(acc, l)
			}
		case KindCalendar:
			for _, e := range b.Events {
				acc.merge(f.calendarPoint(e))
			}
		case KindContacts:
			for _, c := range b.Contacts {
				acc.merge(f.contactPoint(c))
			}
		case KindLocations:
			for _, l := range b.Locations {
				acc.merge(f.locationPoint(l))
			}
		case KindScreenTime:
			for _, s := range b.ScreenTime {
				if dp := screenTimePoint(s); dp != nil {
					acc.merge(dp)
				}
			}
		case KindHealth:
			for _, h := range b.Health {
				if dp := healthPoint(h); dp != nil {
					acc.merge(dp)
				}
			}
		case KindWeather:
			for _, w := range b.Weather {
				if dp := weatherPoint(w); dp != nil {
					acc.merge(dp)
				}
			}
		}
	}

	// Inside the span of dates a source covers, a day without records is a
	// zero day for that source: free for the calendar, no contact for
	// contacts. Outside it the source simply was not recording.
	eventTimes := make([]time.Time, 0, len(b.Events))
	for _, e := range b.Events {
		eventTimes = append(eventTimes, e.Start)
	}
	if first, last, ok := f.dateSpan(eventTimes); ok {
		acc.cover(first, last, func(dp *DataPoint) { dp.HasCalendar = true })
	}

	contactTimes := make([]time.Time, 0, len(b.Contacts))
	for _, c := range b.Contacts {
		contactTimes = append(contactTimes, c.Timestamp)
	}
	if first, last, ok := f.dateSpan(contactTimes); ok {
		acc.cover(first, last, func(dp *DataPoint) { dp.HasContacts = true })
	}

	dates := make([]string, 0, len(acc.points))
	for d := range acc.points {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]DataPoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, *acc.points[d])
	}
	return out
}

func (f *Fuser) applyLog(acc *fusion, l sources.LogEntry) {
	dp := NewDataPoint(sources.DateKey(l.Timestamp, f.location))
	dp.TimesOfDay.Add(TimeOfDay(l.Timestamp.In(f.location)))

	res := f.analyzer.Analyze(l.Text)
	for _, k := range res.Keywords {
		dp.Keywords.Add(k)
	}
	for _, tag := range res.ActivityTags {
		dp.Activities.Add(tag)
		switch tag {
		case textanalysis.TagExercise:
			dp.Exercise = true
		case textanalysis.TagOutdoor:
			dp.Outdoor = true
		case textanalysis.TagSocial:
			dp.Social = true
		case textanalysis.TagCaffeine:
			dp.Caffeine = true
		case textanalysis.TagAlcohol:
			dp.Alcohol = true
		}
	}

	switch {
	case l.Mood != nil:
		dp.Mood = floatPtr(*l.Mood)
	case strings.TrimSpace(l.Text) != "" && acc.at(dp.Date).Mood == nil:
		// A recorded mood for the day beats a text estimate.
		dp.Mood = floatPtr(res.Mood())
	}
	if l.Energy != nil {
		dp.Energy = floatPtr(*l.Energy)
	}
	if l.SleepHours != nil {
		dp.SleepHours = floatPtr(*l.SleepHours)
	}

	acc.merge(dp)
}

func (f *Fuser) calendarPoint(e sources.CalendarEvent) *DataPoint {
	dp := NewDataPoint(sources.DateKey(e.Start, f.location))
	dp.HasCalendar = true
	dp.EventCount = 1
	dp.EventCategories.Add(strings.ToLower(e.Category))
	return dp
}

func (f *Fuser) contactPoint(c sources.ContactInteraction) *DataPoint {
	dp := NewDataPoint(sources.DateKey(c.Timestamp, f.location))
	dp.HasContacts = true
	dp.Social = true
	dp.SocialCount = 1
	dp.Contacts.Add(c.Name)
	dp.ContactTypes.Add(strings.ToLower(c.Type))
	return dp
}

func (f *Fuser) locationPoint(l sources.LocationSample) *DataPoint {
	dp := NewDataPoint(sources.DateKey(l.Timestamp, f.location))
	category := strings.ToLower(l.Category)
	dp.LocationCategories.Add(category)
	if category == "nature" {
		dp.Outdoor = true
	}
	return dp
}

func screenTimePoint(s sources.ScreenTimeSample) *DataPoint {
	if !sources.ValidDate(s.Date) {
		return nil
	}
	dp := NewDataPoint(s.Date)
	dp.ScreenTimeMinutes = floatPtr(s.Minutes)
	if s.Pickups > 0 {
		dp.Pickups = intPtr(s.Pickups)
	}
	for app, minutes := range s.Apps {
		dp.AppUsage[strings.ToLower(app)] = minutes
	}
	return dp
}

func healthPoint(h sources.HealthSample) *DataPoint {
	if !sources.ValidDate(h.Date) {
		return nil
	}
	dp := NewDataPoint(h.Date)
	if h.Steps > 0 {
		dp.Steps = intPtr(h.Steps)
		if h.Steps >= ExerciseStepThreshold {
			dp.Exercise = true
		}
	}
	if h.SleepHours > 0 {
		dp.SleepHours = floatPtr(h.SleepHours)
	}
	if h.HeartRate > 0 {
		dp.HeartRate = floatPtr(h.HeartRate)
	}
	dp.MenstrualPhases.Add(strings.ToLower(h.MenstrualPhase))
	return dp
}

func weatherPoint(w sources.WeatherSample) *DataPoint {
	if !sources.ValidDate(w.Date) {
		return nil
	}
	dp := NewDataPoint(w.Date)
	dp.WeatherConditions.Add(strings.ToLower(w.Condition))
	if w.Temperature != nil {
		dp.Temperature = floatPtr(*w.Temperature)
	}
	return dp
}

// TimeOfDay buckets a local time.
func TimeOfDay(t time.Time) string {
	h := t.Hour()
	switch {
	case h >= 5 && h < 12:
		return "morning"
	case h >= 12 && h < 17:
		return "afternoon"
	case h >= 17 && h < 22:
		return "evening"
	default:
		return "late_night"
	}
}
