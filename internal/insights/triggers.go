package insights

import (
	"fmt"
	"strings"
)

// TriggerType names the DataPoint field family a trigger inspects.
type TriggerType string

const (
	TriggerSleep      TriggerType = "sleep"
	TriggerActivity   TriggerType = "activity"
	TriggerMood       TriggerType = "mood"
	TriggerTime       TriggerType = "time"
	TriggerKeyword    TriggerType = "keyword"
	TriggerCalendar   TriggerType = "calendar"
	TriggerContact    TriggerType = "contact"
	TriggerLocation   TriggerType = "location"
	TriggerScreenTime TriggerType = "screen_time"
	TriggerAppUsage   TriggerType = "app_usage"
	TriggerWeather    TriggerType = "weather"
)

func (t TriggerType) numeric() bool {
	return t == TriggerSleep || t == TriggerMood || t == TriggerScreenTime
}

// Comparator is how a trigger compares a field against its operand.
type Comparator string

const (
	CompareEquals   Comparator = "equals"
	CompareContains Comparator = "contains"
	CompareAbove    Comparator = "above"
	CompareBelow    Comparator = "below"
	CompareAbsent   Comparator = "absent"
)

// TriggerSpec is the declarative form of a trigger as written in the catalog.
type TriggerSpec struct {
	Type       TriggerType `yaml:"type"`
	Comparator Comparator  `yaml:"comparator"`
	Value      string      `yaml:"value,omitempty"`
	Threshold  float64     `yaml:"threshold,omitempty"`
}

func (s TriggerSpec) String() string {
	switch s.Comparator {
	case CompareAbove, CompareBelow:
		return fmt.Sprintf("%s %s %g", s.Type, s.Comparator, s.Threshold)
	case CompareAbsent:
		if s.Value == "" {
			return fmt.Sprintf("%s absent", s.Type)
		}
		return fmt.Sprintf("%s %q absent", s.Type, s.Value)
	default:
		return fmt.Sprintf("%s %s %q", s.Type, s.Comparator, s.Value)
	}
}

// Trigger is a compiled predicate over a DataPoint.
type Trigger interface {
	Matches(dp *DataPoint) bool
	String() string
}

// CompileTrigger turns a spec into its concrete trigger variant.
func CompileTrigger(spec TriggerSpec) (Trigger, error) {
	spec.Value = strings.ToLower(strings.TrimSpace(spec.Value))

	var t Trigger
	switch spec.Type {
	case TriggerSleep:
		t = numericTrigger{spec, func(d *DataPoint) *float64 { return d.SleepHours }}
	case TriggerMood:
		t = numericTrigger{spec, func(d *DataPoint) *float64 { return d.Mood }}
	case TriggerScreenTime:
		t = numericTrigger{spec, func(d *DataPoint) *float64 { return d.ScreenTimeMinutes }}
	case TriggerActivity:
		t = setTrigger{spec, func(d *DataPoint) Set { return d.Activities }}
	case TriggerTime:
		t = setTrigger{spec, func(d *DataPoint) Set { return d.TimesOfDay }}
	case TriggerLocation:
		t = setTrigger{spec, func(d *DataPoint) Set { return d.LocationCategories }}
	case TriggerKeyword:
		t = keywordTrigger{spec}
	case TriggerCalendar:
		t = calendarTrigger{spec}
	case TriggerContact:
		t = contactTrigger{spec}
	case TriggerAppUsage:
		t = appUsageTrigger{spec}
	case TriggerWeather:
		t = weatherTrigger{spec}
	default:
		return nil, fmt.Errorf("unknown trigger type %q", spec.Type)
	}

	if err := validateComparator(spec); err != nil {
		return nil, err
	}
	return t, nil
}

func validateComparator(spec TriggerSpec) error {
	switch spec.Comparator {
	case CompareEquals, CompareContains:
		if spec.Value == "" && !spec.Type.numeric() {
			return fmt.Errorf("%s trigger: %s needs a value", spec.Type, spec.Comparator)
		}
	case CompareAbove, CompareBelow, CompareAbsent:
	default:
		return fmt.Errorf("%s trigger: unknown comparator %q", spec.Type, spec.Comparator)
	}
	return nil
}

func compareNumber(c Comparator, v, threshold float64) bool {
	switch c {
	case CompareAbove:
		return v > threshold
	case CompareBelow:
		return v < threshold
	case CompareEquals:
		return v == threshold
	}
	return false
}

// numericTrigger compares an optional scalar field.
type numericTrigger struct {
	spec  TriggerSpec
	field func(*DataPoint) *float64
}

func (t numericTrigger) String() string { return t.spec.String() }

func (t numericTrigger) Matches(dp *DataPoint) bool {
	v := t.field(dp)
	if t.spec.Comparator == CompareAbsent {
		return v == nil
	}
	if v == nil {
		return false
	}
	return compareNumber(t.spec.Comparator, *v, t.spec.Threshold)
}

// setTrigger tests membership in a categorical set.
type setTrigger struct {
	spec  TriggerSpec
	field func(*DataPoint) Set
}

func (t setTrigger) String() string { return t.spec.String() }

func (t setTrigger) Matches(dp *DataPoint) bool {
	return matchSet(t.spec, t.field(dp))
}

func matchSet(spec TriggerSpec, s Set) bool {
	switch spec.Comparator {
	case CompareEquals:
		return s.Has(spec.Value)
	case CompareContains:
		for v := range s {
			if strings.Contains(v, spec.Value) {
				return true
			}
		}
		return false
	case CompareAbsent:
		if spec.Value == "" {
			return len(s) == 0
		}
		return !s.Has(spec.Value)
	case CompareAbove:
		return float64(len(s)) > spec.Threshold
	case CompareBelow:
		return float64(len(s)) < spec.Threshold
	}
	return false
}

// keywordTrigger matches free-text keywords. Contains is a substring match so
// "deadline" also catches "deadlines".
type keywordTrigger struct{ spec TriggerSpec }

func (t keywordTrigger) String() string { return t.spec.String() }

func (t keywordTrigger) Matches(dp *DataPoint) bool {
	return matchSet(t.spec, dp.Keywords)
}

// calendarTrigger matches the busyness tier or event categories; above and
// below compare the event count.
type calendarTrigger struct{ spec TriggerSpec }

func (t calendarTrigger) String() string { return t.spec.String() }

func (t calendarTrigger) Matches(dp *DataPoint) bool {
	if !dp.HasCalendar {
		return false
	}
	switch t.spec.Comparator {
	case CompareEquals:
		return string(dp.Busyness()) == t.spec.Value
	case CompareContains:
		return matchSet(t.spec, dp.EventCategories)
	case CompareAbove:
		return float64(dp.EventCount) > t.spec.Threshold
	case CompareBelow:
		return float64(dp.EventCount) < t.spec.Threshold
	case CompareAbsent:
		if t.spec.Value == "" {
			return dp.EventCount == 0
		}
		return !dp.EventCategories.Has(t.spec.Value)
	}
	return false
}

// contactTrigger matches contact types or names; above and below compare the
// number of interactions. Dates without contact coverage never match.
type contactTrigger struct{ spec TriggerSpec }

func (t contactTrigger) String() string { return t.spec.String() }

func (t contactTrigger) Matches(dp *DataPoint) bool {
	if !dp.HasContacts {
		return false
	}
	switch t.spec.Comparator {
	case CompareEquals, CompareContains:
		if matchSet(t.spec, dp.ContactTypes) {
			return true
		}
		for name := range dp.Contacts {
			if t.spec.Comparator == CompareEquals && strings.ToLower(name) == t.spec.Value {
				return true
			}
			if t.spec.Comparator == CompareContains && strings.Contains(strings.ToLower(name), t.spec.Value) {
				return true
			}
		}
		return false
	case CompareAbove:
		return float64(dp.SocialCount) > t.spec.Threshold
	case CompareBelow:
		return float64(dp.SocialCount) < t.spec.Threshold
	case CompareAbsent:
		if t.spec.Value == "" {
			return dp.SocialCount == 0
		}
		return !dp.ContactTypes.Has(t.spec.Value)
	}
	return false
}

// appUsageTrigger inspects per-app minutes. Value names the app; above and
// below compare its minutes, or total tracked apps when no app is named.
type appUsageTrigger struct{ spec TriggerSpec }

func (t appUsageTrigger) String() string { return t.spec.String() }

func (t appUsageTrigger) Matches(dp *DataPoint) bool {
	minutes, ok := dp.AppUsage[t.spec.Value]
	switch t.spec.Comparator {
	case CompareEquals:
		return ok
	case CompareContains:
		for app := range dp.AppUsage {
			if strings.Contains(app, t.spec.Value) {
				return true
			}
		}
		return false
	case CompareAbove, CompareBelow:
		if t.spec.Value == "" {
			var total float64
			for _, m := range dp.AppUsage {
				total += m
			}
			if len(dp.AppUsage) == 0 {
				return false
			}
			return compareNumber(t.spec.Comparator, total, t.spec.Threshold)
		}
		if !ok {
			return false
		}
		return compareNumber(t.spec.Comparator, minutes, t.spec.Threshold)
	case CompareAbsent:
		if t.spec.Value == "" {
			return len(dp.AppUsage) == 0
		}
		return !ok
	}
	return false
}

// weatherTrigger matches conditions; above and below compare temperature.
type weatherTrigger struct{ spec TriggerSpec }

func (t weatherTrigger) String() string { return t.spec.String() }

func (t weatherTrigger) Matches(dp *DataPoint) bool {
	switch t.spec.Comparator {
	case CompareAbove, CompareBelow:
		if dp.Temperature == nil {
			return false
		}
		return compareNumber(t.spec.Comparator, *dp.Temperature, t.spec.Threshold)
	default:
		return matchSet(t.spec, dp.WeatherConditions)
	}
}
