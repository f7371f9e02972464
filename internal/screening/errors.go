package screening

import (
	"fmt"
	"strings"
)

// IncompleteAssessmentError reports that the six-game set required for
// scoring is not fully present. Missing lists the absent games in canonical
// order.
type IncompleteAssessmentError struct {
	Missing []Game
}

func (e *IncompleteAssessmentError) Error() string {
	if len(e.Missing) == 0 {
		return "assessment incomplete: no game results submitted"
	}
	names := make([]string, len(e.Missing))
	for i, g := range e.Missing {
		names[i] = string(g)
	}
	return fmt.Sprintf("assessment incomplete: missing results for %s", strings.Join(names, ", "))
}

// InvalidMetricError reports a malformed submission: a metric outside its
// valid range, an unknown game, or a duplicate result for a game.
type InvalidMetricError struct {
	Game   Game
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidMetricError) Error() string {
	if e.Field == "game_id" {
		return fmt.Sprintf("invalid submission: %s %q", e.Reason, string(e.Game))
	}
	return fmt.Sprintf("invalid %s for game %s: %g (%s)", e.Field, e.Game, e.Value, e.Reason)
}
