// Package textanalysis extracts keywords, a coarse sentiment score, and
// activity tags from free journal text.
//
// The implementation is keyword lists and a tokenizer, not a learned model.
// Callers depend only on Analyzer so it can be replaced later.
package textanalysis

import (
	"regexp"
	"sort"
	"strings"
)

// Result is what an Analyzer extracts from one piece of text.
type Result struct {
	Keywords     []string
	Sentiment    int // positive keyword hits minus negative keyword hits
	ActivityTags []string
}

// Mood maps the sentiment score onto the 1-10 mood scale.
func (r Result) Mood() float64 {
	switch {
	case r.Sentiment > 0:
		return 7
	case r.Sentiment < 0:
		return 3
	default:
		return 5
	}
}

// Analyzer turns text into a Result.
type Analyzer interface {
	Analyze(text string) Result
}

// Activity tags produced by the keyword analyzer.
const (
	TagExercise   = "exercise"
	TagOutdoor    = "outdoor"
	TagSocial     = "social"
	TagCaffeine   = "caffeine"
	TagAlcohol    = "alcohol"
	TagMeditation = "meditation"
	TagReading    = "reading"
	TagWork       = "work"
	TagCreative   = "creative"
)

var activityTable = map[string]string{
	"run":        TagExercise,
	"ran":        TagExercise,
	"running":    TagExercise,
	"gym":        TagExercise,
	"workout":    TagExercise,
	"yoga":       TagExercise,
	"swim":       TagExercise,
	"swimming":   TagExercise,
	"cycling":    TagExercise,
	"bike":       TagExercise,
	"lifting":    TagExercise,
	"hike":       TagOutdoor,
	"hiking":     TagOutdoor,
	"park":       TagOutdoor,
	"beach":      TagOutdoor,
	"garden":     TagOutdoor,
	"outside":    TagOutdoor,
	"walk":       TagOutdoor,
	"friends":    TagSocial,
	"party":      TagSocial,
	"dinner":     TagSocial,
	"date":       TagSocial,
	"family":     TagSocial,
	"coffee":     TagCaffeine,
	"espresso":   TagCaffeine,
	"latte":      TagCaffeine,
	"tea":        TagCaffeine,
	"beer":       TagAlcohol,
	"wine":       TagAlcohol,
	"drinks":     TagAlcohol,
	"cocktail":   TagAlcohol,
	"hangover":   TagAlcohol,
	"meditate":   TagMeditation,
	"meditated":  TagMeditation,
	"meditation": TagMeditation,
	"breathing":  TagMeditation,
	"read":       TagReading,
	"reading":    TagReading,
	"book":       TagReading,
	"meeting":    TagWork,
	"deadline":   TagWork,
	"office":     TagWork,
	"project":    TagWork,
	"painting":   TagCreative,
	"drawing":    TagCreative,
	"music":      TagCreative,
	"writing":    TagCreative,
}

var positiveWords = map[string]bool{
	"happy": true, "great": true, "good": true, "calm": true, "grateful": true,
	"excited": true, "relaxed": true, "proud": true, "energized": true,
	"amazing": true, "love": true, "loved": true, "peaceful": true, "fun": true,
	"productive": true, "joy": true, "wonderful": true, "rested": true,
}

var negativeWords = map[string]bool{
	"sad": true, "tired": true, "anxious": true, "stressed": true, "angry": true,
	"lonely": true, "exhausted": true, "overwhelmed": true, "awful": true,
	"bad": true, "worried": true, "depressed": true, "frustrated": true,
	"upset": true, "drained": true, "irritable": true, "terrible": true,
}

var stopWords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true, "because": true,
	"been": true, "before": true, "being": true, "could": true, "didn't": true,
	"doing": true, "from": true, "have": true, "having": true, "into": true,
	"just": true, "like": true, "more": true, "much": true, "only": true,
	"over": true, "really": true, "some": true, "than": true, "that": true,
	"them": true, "then": true, "there": true, "they": true, "this": true,
	"today": true, "very": true, "went": true, "were": true, "what": true,
	"when": true, "which": true, "with": true, "would": true, "your": true,
	"felt": true, "feel": true, "feeling": true, "still": true, "got": true,
}

var wordPattern = regexp.MustCompile(`[a-z][a-z']*`)

// KeywordAnalyzer is the default Analyzer.
type KeywordAnalyzer struct {
	// MinKeywordLength drops short tokens from the keyword set.
	MinKeywordLength int
}

// NewKeywordAnalyzer creates a KeywordAnalyzer with default settings.
func NewKeywordAnalyzer() *KeywordAnalyzer {
	return &KeywordAnalyzer{MinKeywordLength: 4}
}

// Analyze extracts keywords, sentiment, and activity tags.
func (a *KeywordAnalyzer) Analyze(text string) Result {
	var r Result
	if strings.TrimSpace(text) == "" {
		return r
	}

	keywords := make(map[string]bool)
	tags := make(map[string]bool)

	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		w = strings.TrimRight(w, "'")
		if positiveWords[w] {
			r.Sentiment++
		}
		if negativeWords[w] {
			r.Sentiment--
		}
		if tag, ok := activityTable[w]; ok {
			tags[tag] = true
		}
		if len(w) >= a.MinKeywordLength && !stopWords[w] {
			keywords[w] = true
		}
	}

	r.Keywords = sortedKeys(keywords)
	r.ActivityTags = sortedKeys(tags)
	return r
}

func sortedKeys(m map[string]bool) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
