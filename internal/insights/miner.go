package insights

import (
	"fmt"
	"math"
	"sort"
)

// Mining thresholds on the 1-10 mood scale.
const (
	keywordMinSamples     = 3
	keywordMinDelta       = 1.5
	calendarMinSamples    = 3
	calendarMinDelta      = 1.0
	contactMinSamples     = 4
	contactMinDelta       = 1.5
	relationMinSamples    = 3
	relationMinDelta      = 1.0
	freeformMaxConfidence = 0.8
)

// MineCorrelations finds keyword, calendar, and contact associations with
// mood that the fixed catalog does not cover.
func MineCorrelations(points []DataPoint) []Insight {
	var moodDays []*DataPoint
	for i := range points {
		if points[i].Mood != nil {
			moodDays = append(moodDays, &points[i])
		}
	}
	if len(moodDays) == 0 {
		return nil
	}

	var out []Insight
	out = append(out, mineKeywords(moodDays)...)
	if c := mineCalendar(moodDays); c != nil {
		out = append(out, *c)
	}
	out = append(out, mineContacts(moodDays)...)
	if c := mineRelations(moodDays); c != nil {
		out = append(out, *c)
	}
	return out
}

func moodMean(days []*DataPoint) float64 {
	var sum float64
	for _, d := range days {
		sum += *d.Mood
	}
	return sum / float64(len(days))
}

// freeformConfidence grows with the number of supporting days.
func freeformConfidence(n int) float64 {
	return math.Min(0.5+0.05*float64(n), freeformMaxConfidence)
}

func signedSentiment(delta float64) Sentiment {
	if delta > 0 {
		return SentimentPositive
	}
	return SentimentCautionary
}

func direction(delta float64) string {
	if delta > 0 {
		return "higher"
	}
	return "lower"
}

func evidenceFor(days []*DataPoint, describe func(*DataPoint) string) []Evidence {
	ev := make([]Evidence, 0, len(days))
	for _, d := range days {
		ev = append(ev, Evidence{Date: d.Date, Description: describe(d)})
	}
	if len(ev) > DisplayEvidence {
		ev = ev[len(ev)-DisplayEvidence:]
	}
	return ev
}

func moodNote(d *DataPoint) string {
	return fmt.Sprintf("mood %.0f", *d.Mood)
}

func freeformInsight(title, desc string, delta float64, n int, ev []Evidence) Insight {
	return Insight{
		Category:           CategoryCorrelation,
		Title:              title,
		Description:        desc,
		Evidence:           ev,
		Strength:           StrengthDeveloping,
		Sentiment:          signedSentiment(delta),
		Confidence:         freeformConfidence(n),
		ReinforcementCount: 1,
		Source:             SourceFreeform,
	}
}

func mineKeywords(moodDays []*DataPoint) []Insight {
	population := moodMean(moodDays)

	byKeyword := make(map[string][]*DataPoint)
	for _, d := range moodDays {
		for k := range d.Keywords {
			byKeyword[k] = append(byKeyword[k], d)
		}
	}

	keywords := make([]string, 0, len(byKeyword))
	for k := range byKeyword {
		keywords = append(keywords, k)
	}
	sort.Strings(keywords)

	var out []Insight
	for _, k := range keywords {
		days := byKeyword[k]
		if len(days) < keywordMinSamples {
			continue
		}
		avg := moodMean(days)
		delta := avg - population
		if math.Abs(delta) <= keywordMinDelta {
			continue
		}
		out = append(out, freeformInsight(
			fmt.Sprintf("Mood and %q", k),
			fmt.Sprintf("On days you write about %q your mood tends to be %s (%.1f vs %.1f on average).",
				k, direction(delta), avg, population),
			delta, len(days), evidenceFor(days, moodNote),
		))
	}
	return out
}

func mineCalendar(moodDays []*DataPoint) *Insight {
	var heavy, light []*DataPoint
	for _, d := range moodDays {
		switch d.Busyness() {
		case BusynessBusy, BusynessPacked:
			heavy = append(heavy, d)
		case BusynessFree, BusynessLight:
			light = append(light, d)
		}
	}
	if len(heavy) < calendarMinSamples || len(light) < calendarMinSamples {
		return nil
	}

	heavyAvg, lightAvg := moodMean(heavy), moodMean(light)
	delta := heavyAvg - lightAvg
	if math.Abs(delta) <= calendarMinDelta {
		return nil
	}

	c := freeformInsight(
		"Calendar load and mood",
		fmt.Sprintf("Busy calendar days come with %s mood than lighter days (%.1f vs %.1f).",
			direction(delta), heavyAvg, lightAvg),
		delta, len(heavy)+len(light),
		evidenceFor(heavy, func(d *DataPoint) string {
			return fmt.Sprintf("%s day, %s", d.Busyness(), moodNote(d))
		}),
	)
	return &c
}

func mineContacts(moodDays []*DataPoint) []Insight {
	population := moodMean(moodDays)

	byName := make(map[string][]*DataPoint)
	for _, d := range moodDays {
		for name := range d.Contacts {
			byName[name] = append(byName[name], d)
		}
	}

	names := make([]string, 0, len(byName))
	for n := range byName {
		names = append(names, n)
	}
	sort.Strings(names)

	var out []Insight
	for _, name := range names {
		days := byName[name]
		if len(days) < contactMinSamples {
			continue
		}
		avg := moodMean(days)
		delta := avg - population
		if math.Abs(delta) <= contactMinDelta {
			continue
		}
		out = append(out, freeformInsight(
			fmt.Sprintf("Time with %s", name),
			fmt.Sprintf("Days you are in touch with %s tend to have %s mood (%.1f vs %.1f on average).",
				name, direction(delta), avg, population),
			delta, len(days), evidenceFor(days, moodNote),
		))
	}
	return out
}

func mineRelations(moodDays []*DataPoint) *Insight {
	var family, friends []*DataPoint
	for _, d := range moodDays {
		if d.ContactTypes.Has("family") {
			family = append(family, d)
		}
		if d.ContactTypes.Has("friend") {
			friends = append(friends, d)
		}
	}
	if len(family) < relationMinSamples || len(friends) < relationMinSamples {
		return nil
	}

	familyAvg, friendAvg := moodMean(family), moodMean(friends)
	delta := familyAvg - friendAvg
	if math.Abs(delta) <= relationMinDelta {
		return nil
	}

	c := freeformInsight(
		"Family and friends",
		fmt.Sprintf("Days with family contact come with %s mood than days with friends (%.1f vs %.1f).",
			direction(delta), familyAvg, friendAvg),
		delta, len(family)+len(friends),
		evidenceFor(family, func(d *DataPoint) string { return "family contact, " + moodNote(d) }),
	)
	return &c
}
