package screening

import "fmt"

// RiskLevel is the four-category classification derived from the overall score.
type RiskLevel string

const (
	RiskNone   RiskLevel = "No risk likely"
	RiskLow    RiskLevel = "Low risk"
	RiskMedium RiskLevel = "Medium risk"
	RiskHigh   RiskLevel = "High risk"
)

// Severity orders risk levels for display, most severe first.
// Unknown values sort last.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskHigh:
		return 0
	case RiskMedium:
		return 1
	case RiskLow:
		return 2
	case RiskNone:
		return 3
	}
	return 4
}

// RiskThresholds are the ordered cut points partitioning the 0-100 overall
// score into risk levels. A score exactly on a floor belongs to the
// higher-risk side, so screening never clears a borderline result.
type RiskThresholds struct {
	NoRiskFloor     float64 `json:"no_risk_floor"`
	LowRiskFloor    float64 `json:"low_risk_floor"`
	MediumRiskFloor float64 `json:"medium_risk_floor"`
}

// Level maps an overall score to its risk level.
func (t RiskThresholds) Level(score float64) RiskLevel {
	switch {
	case score > t.NoRiskFloor:
		return RiskNone
	case score > t.LowRiskFloor:
		return RiskLow
	case score > t.MediumRiskFloor:
		return RiskMedium
	default:
		return RiskHigh
	}
}

func (t RiskThresholds) validate() error {
	if t.MediumRiskFloor <= 0 || t.NoRiskFloor >= 100 {
		return fmt.Errorf("risk thresholds must lie inside (0, 100)")
	}
	if !(t.NoRiskFloor > t.LowRiskFloor && t.LowRiskFloor > t.MediumRiskFloor) {
		return fmt.Errorf("risk thresholds must be strictly descending: no=%g low=%g medium=%g",
			t.NoRiskFloor, t.LowRiskFloor, t.MediumRiskFloor)
	}
	return nil
}

// ScoringConfig holds the scoring constants for one deployment. It is loaded
// once at startup and passed by value; the scorer never mutates it.
type ScoringConfig struct {
	Weights                map[Game]float64 `json:"weights"`
	BaselineAccuracy       float64          `json:"baseline_accuracy"`
	BaselineResponseTimeMS float64          `json:"baseline_response_time_ms"`
	Thresholds             RiskThresholds   `json:"risk_thresholds"`
}

// DefaultConfig returns the production scoring constants.
func DefaultConfig() ScoringConfig {
	return ScoringConfig{
		Weights: map[Game]float64{
			GamePhonemeDelete:    1.6,
			GameLetterSound:      1.5,
			GameRhymeRecognition: 1.2,
			GameWordScramble:     1.3,
			GameLexicalDecision:  1.2,
			GameRapidNaming:      1.4,
		},
		BaselineAccuracy:       0.78,
		BaselineResponseTimeMS: 1200,
		Thresholds: RiskThresholds{
			NoRiskFloor:     48,
			LowRiskFloor:    40,
			MediumRiskFloor: 30,
		},
	}
}

// Validate checks that the config can score every game.
func (c ScoringConfig) Validate() error {
	if c.BaselineAccuracy <= 0 || c.BaselineAccuracy > 1 {
		return fmt.Errorf("baseline accuracy must be in (0, 1], got %g", c.BaselineAccuracy)
	}
	if c.BaselineResponseTimeMS <= 0 {
		return fmt.Errorf("baseline response time must be positive, got %g", c.BaselineResponseTimeMS)
	}
	for _, g := range gameOrder {
		w, ok := c.Weights[g]
		if !ok {
			return fmt.Errorf("missing weight for game %s", g)
		}
		if w <= 0 {
			return fmt.Errorf("weight for game %s must be positive, got %g", g, w)
		}
	}
	for g := range c.Weights {
		if !ValidGame(g) {
			return fmt.Errorf("weight for unknown game %q", string(g))
		}
	}
	return c.Thresholds.validate()
}
