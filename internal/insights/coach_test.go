package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCoachContext(t *testing.T) {
	list := []Insight{
		{Category: CategoryCorrelation, Description: "Short nights lower mood.", Strength: StrengthEstablished, ReinforcementCount: 6},
		{Category: CategoryGrowth, Description: "Exercise helps.", Strength: StrengthDeveloping, ReinforcementCount: 3},
		{Category: CategoryRecovery, Description: "Nature helps.", Strength: StrengthStrong, ReinforcementCount: 12},
		{Category: CategoryRhythm, Description: "Late entries.", Strength: StrengthDeveloping},
	}

	got := FormatCoachContext(list, 3)
	want := "- [correlation] Short nights lower mood. (established pattern, seen in 6 analyses)\n" +
		"- [growth] Exercise helps.\n" +
		"- [recovery] Nature helps. (strong pattern, seen in 12 analyses)"
	assert.Equal(t, want, got)

	assert.Equal(t, got, FormatCoachContext(list, 0), "non-positive limit uses the default")
	assert.Empty(t, FormatCoachContext(nil, 3))
}

func TestFormatCoachContext_FirstDiscovery(t *testing.T) {
	list := []Insight{
		{Category: CategoryWarningSign, Description: "Quiet week.", Strength: StrengthEstablished, ReinforcementCount: 1},
	}
	assert.Equal(t, "- [warning_sign] Quiet week. (established pattern)", FormatCoachContext(list, 3))
}
