// Package screening scores completed dyslexia screener attempts. The scorer
// is a pure function over per-game metrics: it has no state and no I/O, so
// concurrent calls from simultaneous submissions need no coordination.
package screening

// GameResult holds the aggregated outcome of one mini-game in an attempt.
type GameResult struct {
	Game               Game    `json:"game_id"`
	Accuracy           float64 `json:"accuracy"`
	MeanResponseTimeMS float64 `json:"mean_response_time_ms"`
	ItemsAttempted     int     `json:"items_attempted"`
}

// BreakdownEntry is one game's share of the composite score.
// Deviation is the component score minus the 1.0 baseline; negative means
// the student performed below baseline on this game.
type BreakdownEntry struct {
	Game                 Game    `json:"game_id"`
	Weight               float64 `json:"weight"`
	ComponentScore       float64 `json:"component_score"`
	WeightedContribution float64 `json:"weighted_contribution"`
	Deviation            float64 `json:"deviation_from_baseline"`
}

// Recommendation is a practice suggestion for a below-baseline game.
type Recommendation struct {
	Game           Game    `json:"game_id"`
	Text           string  `json:"text"`
	ComponentScore float64 `json:"component_score"`
}

// RiskReport is the scorer's output for one attempt. Higher overall scores
// mean better performance; lower scores mean higher risk. A report is built
// once per scored attempt and never mutated.
type RiskReport struct {
	OverallScore    float64          `json:"overall_score"`
	RiskLevel       RiskLevel        `json:"risk_level"`
	Breakdown       []BreakdownEntry `json:"per_game_breakdown"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Score computes the risk report for one completed attempt.
//
// Per game, accuracy and speed deviations from baseline are clamped to
// [-1, 1] so a single outlier (a near-zero response time from a client
// glitch, say) cannot dominate the composite. The clamped deviations combine
// into a component score in [0, 2] centered at 1.0 for exact-baseline
// performance, and the weighted mean of components maps onto a 0-100 scale
// with all-baseline performance scoring exactly 50.
//
// Returns *IncompleteAssessmentError when any of the six games is missing
// and *InvalidMetricError for out-of-range metrics, unknown games, or
// duplicate results. A zero response time is valid and simply clamps the
// speed deviation at its upper bound.
func Score(results []GameResult, cfg ScoringConfig) (*RiskReport, error) {
	if len(results) == 0 {
		return nil, &IncompleteAssessmentError{Missing: Games()}
	}

	byGame := make(map[Game]GameResult, len(results))
	for _, r := range results {
		if !ValidGame(r.Game) {
			return nil, &InvalidMetricError{Game: r.Game, Field: "game_id", Reason: "unknown game"}
		}
		if _, dup := byGame[r.Game]; dup {
			return nil, &InvalidMetricError{Game: r.Game, Field: "game_id", Reason: "duplicate result for game"}
		}
		if r.Accuracy < 0 || r.Accuracy > 1 {
			return nil, &InvalidMetricError{Game: r.Game, Field: "accuracy", Value: r.Accuracy, Reason: "must be between 0 and 1"}
		}
		if r.MeanResponseTimeMS < 0 {
			return nil, &InvalidMetricError{Game: r.Game, Field: "mean_response_time_ms", Value: r.MeanResponseTimeMS, Reason: "must be non-negative"}
		}
		byGame[r.Game] = r
	}

	var missing []Game
	for _, g := range gameOrder {
		if _, ok := byGame[g]; !ok {
			missing = append(missing, g)
		}
	}
	if len(missing) > 0 {
		return nil, &IncompleteAssessmentError{Missing: missing}
	}

	breakdown := make([]BreakdownEntry, 0, len(gameOrder))
	var weightedSum, weightTotal float64
	for _, g := range gameOrder {
		r := byGame[g]
		w := cfg.Weights[g]

		ad := clamp((r.Accuracy-cfg.BaselineAccuracy)/cfg.BaselineAccuracy, -1, 1)
		sd := clamp((cfg.BaselineResponseTimeMS-r.MeanResponseTimeMS)/cfg.BaselineResponseTimeMS, -1, 1)
		component := 0.5*(1+ad) + 0.5*(1+sd)

		breakdown = append(breakdown, BreakdownEntry{
			Game:                 g,
			Weight:               w,
			ComponentScore:       component,
			WeightedContribution: w * component,
			Deviation:            component - 1,
		})
		weightedSum += w * component
		weightTotal += w
	}

	var overall float64
	if weightTotal > 0 {
		overall = clamp(50*weightedSum/weightTotal, 0, 100)
	}

	return &RiskReport{
		OverallScore:    overall,
		RiskLevel:       cfg.Thresholds.Level(overall),
		Breakdown:       breakdown,
		Recommendations: buildRecommendations(breakdown),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
