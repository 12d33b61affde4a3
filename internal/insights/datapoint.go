package insights

// Set is an unordered collection of strings.
type Set map[string]struct{}

// NewSet creates a set holding values.
func NewSet(values ...string) Set {
	s := make(Set, len(values))
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Add inserts v. Empty strings are ignored.
func (s Set) Add(v string) {
	if v == "" {
		return
	}
	s[v] = struct{}{}
}

// Has reports whether v is in the set.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Union adds every member of other to s.
func (s Set) Union(other Set) {
	for v := range other {
		s[v] = struct{}{}
	}
}

// Busyness is the calendar density tier of a day.
type Busyness string

const (
	BusynessFree     Busyness = "free"
	BusynessLight    Busyness = "light"
	BusynessModerate Busyness = "moderate"
	BusynessBusy     Busyness = "busy"
	BusynessPacked   Busyness = "packed"
)

// BusynessFor buckets a day's event count.
func BusynessFor(events int) Busyness {
	switch {
	case events <= 0:
		return BusynessFree
	case events == 1:
		return BusynessLight
	case events <= 3:
		return BusynessModerate
	case events <= 5:
		return BusynessBusy
	default:
		return BusynessPacked
	}
}

// DataPoint is the fused feature record for one local calendar date.
//
// Scalars are nil when no source recorded them. Sets, booleans, and counters
// merge commutatively; scalars are last-write-wins.
type DataPoint struct {
	Date string

	Mood              *float64
	Energy            *float64
	SleepHours        *float64
	Steps             *int
	ScreenTimeMinutes *float64
	Pickups           *int
	HeartRate         *float64
	Temperature       *float64

	Social   bool
	Outdoor  bool
	Exercise bool
	Caffeine bool
	Alcohol  bool

	SocialCount int
	EventCount  int
	// HasCalendar and HasContacts are set when that source covers this date,
	// so a zero count means "none" rather than "not recorded".
	HasCalendar bool
	HasContacts bool

	Activities         Set
	Keywords           Set
	Contacts           Set
	ContactTypes       Set
	EventCategories    Set
	LocationCategories Set
	WeatherConditions  Set
	MenstrualPhases    Set
	TimesOfDay         Set

	AppUsage map[string]float64
}

// NewDataPoint creates an empty record for date.
func NewDataPoint(date string) *DataPoint {
	return &DataPoint{
		Date:               date,
		Activities:         NewSet(),
		Keywords:           NewSet(),
		Contacts:           NewSet(),
		ContactTypes:       NewSet(),
		EventCategories:    NewSet(),
		LocationCategories: NewSet(),
		WeatherConditions:  NewSet(),
		MenstrualPhases:    NewSet(),
		TimesOfDay:         NewSet(),
		AppUsage:           make(map[string]float64),
	}
}

// Busyness returns the calendar tier, or "" when no calendar data exists.
func (d *DataPoint) Busyness() Busyness {
	if !d.HasCalendar {
		return ""
	}
	return BusynessFor(d.EventCount)
}

// Merge folds other into d. Both records must describe the same date.
func (d *DataPoint) Merge(other *DataPoint) {
	d.Mood = lastFloat(d.Mood, other.Mood)
	d.Energy = lastFloat(d.Energy, other.Energy)
	d.SleepHours = lastFloat(d.SleepHours, other.SleepHours)
	d.ScreenTimeMinutes = lastFloat(d.ScreenTimeMinutes, other.ScreenTimeMinutes)
	d.HeartRate = lastFloat(d.HeartRate, other.HeartRate)
	d.Temperature = lastFloat(d.Temperature, other.Temperature)
	d.Steps = lastInt(d.Steps, other.Steps)
	d.Pickups = lastInt(d.Pickups, other.Pickups)

	d.Social = d.Social || other.Social
	d.Outdoor = d.Outdoor || other.Outdoor
	d.Exercise = d.Exercise || other.Exercise
	d.Caffeine = d.Caffeine || other.Caffeine
	d.Alcohol = d.Alcohol || other.Alcohol
	d.HasCalendar = d.HasCalendar || other.HasCalendar
	d.HasContacts = d.HasContacts || other.HasContacts

	d.SocialCount += other.SocialCount
	d.EventCount += other.EventCount

	d.Activities.Union(other.Activities)
	d.Keywords.Union(other.Keywords)
	d.Contacts.Union(other.Contacts)
	d.ContactTypes.Union(other.ContactTypes)
	d.EventCategories.Union(other.EventCategories)
	d.LocationCategories.Union(other.LocationCategories)
	d.WeatherConditions.Union(other.WeatherConditions)
	d.MenstrualPhases.Union(other.MenstrualPhases)
	d.TimesOfDay.Union(other.TimesOfDay)

	for app, minutes := range other.AppUsage {
		d.AppUsage[app] = minutes
	}
}

func lastFloat(cur, next *float64) *float64 {
	if next != nil {
		v := *next
		return &v
	}
	return cur
}

func lastInt(cur, next *int) *int {
	if next != nil {
		v := *next
		return &v
	}
	return cur
}

func floatPtr(v float64) *float64 { return &v }

func intPtr(v int) *int { return &v }
