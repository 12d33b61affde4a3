package insights

import (
	"context"
	"fmt"
	"strings"
)

// DefaultContextLimit is how many insights CoachContext includes by default.
const DefaultContextLimit = 3

// FormatCoachContext renders insights as prompt lines for a conversational
// agent. Established and strong insights note their strength, and how many
// analyses found them once more than one has.
func FormatCoachContext(list []Insight, limit int) string {
	if limit <= 0 {
		limit = DefaultContextLimit
	}
	if len(list) > limit {
		list = list[:limit]
	}

	var sb strings.Builder
	for i, ins := range list {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("- [%s] %s", ins.Category, ins.Description))
		if !ins.Strength.AtLeast(StrengthEstablished) {
			continue
		}
		if ins.ReinforcementCount > 1 {
			sb.WriteString(fmt.Sprintf(" (%s pattern, seen in %d analyses)", ins.Strength, ins.ReinforcementCount))
		} else {
			sb.WriteString(fmt.Sprintf(" (%s pattern)", ins.Strength))
		}
	}
	return sb.String()
}

// CoachContext renders the top coach-eligible insights.
func (l *Ledger) CoachContext(ctx context.Context, limit int) string {
	return FormatCoachContext(l.CoachEligible(ctx), limit)
}
