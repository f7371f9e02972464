package screening_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurobloom/screener/internal/screening"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scoring_policy.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validPolicy = `{
  "weights": {
    "phoneme_delete": 2.0,
    "letter_sound": 1.5,
    "rhyme_recognition": 1.0,
    "word_scramble": 1.0,
    "lexical_decision": 1.0,
    "rapid_naming": 1.8
  },
  "baseline_accuracy": 0.8,
  "baseline_response_time_ms": 1000,
  "risk_thresholds": {
    "no_risk_floor": 50,
    "low_risk_floor": 35,
    "medium_risk_floor": 25
  }
}`

func TestLoadPolicy_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := screening.LoadPolicy("")
	require.NoError(t, err)
	assert.Equal(t, screening.DefaultConfig(), cfg, "empty path should fall back to the built-in policy")
}

func TestLoadPolicy_ValidFile(t *testing.T) {
	cfg, err := screening.LoadPolicy(writePolicy(t, validPolicy))
	require.NoError(t, err)

	assert.Equal(t, 2.0, cfg.Weights[screening.GamePhonemeDelete])
	assert.Equal(t, 1.8, cfg.Weights[screening.GameRapidNaming])
	assert.Equal(t, 0.8, cfg.BaselineAccuracy)
	assert.Equal(t, 1000.0, cfg.BaselineResponseTimeMS)
	assert.Equal(t, 50.0, cfg.Thresholds.NoRiskFloor)
	assert.Equal(t, 35.0, cfg.Thresholds.LowRiskFloor)
	assert.Equal(t, 25.0, cfg.Thresholds.MediumRiskFloor)
	assert.NoError(t, cfg.Validate())
}

func TestLoadPolicy_MissingFile(t *testing.T) {
	_, err := screening.LoadPolicy(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadPolicy_MalformedJSON(t *testing.T) {
	_, err := screening.LoadPolicy(writePolicy(t, `{"weights": `))
	assert.Error(t, err)
}

func TestLoadPolicy_SchemaViolations(t *testing.T) {
	tests := []struct {
		name   string
		policy string
	}{
		{
			name: "missing thresholds",
			policy: `{
  "weights": {"phoneme_delete": 1, "letter_sound": 1, "rhyme_recognition": 1, "word_scramble": 1, "lexical_decision": 1, "rapid_naming": 1},
  "baseline_accuracy": 0.78,
  "baseline_response_time_ms": 1200
}`,
		},
		{
			name: "missing game weight",
			policy: `{
  "weights": {"phoneme_delete": 1, "letter_sound": 1, "rhyme_recognition": 1, "word_scramble": 1, "lexical_decision": 1},
  "baseline_accuracy": 0.78,
  "baseline_response_time_ms": 1200,
  "risk_thresholds": {"no_risk_floor": 48, "low_risk_floor": 40, "medium_risk_floor": 30}
}`,
		},
		{
			name: "unknown game weight",
			policy: `{
  "weights": {"phoneme_delete": 1, "letter_sound": 1, "rhyme_recognition": 1, "word_scramble": 1, "lexical_decision": 1, "rapid_naming": 1, "color_match": 1},
  "baseline_accuracy": 0.78,
  "baseline_response_time_ms": 1200,
  "risk_thresholds": {"no_risk_floor": 48, "low_risk_floor": 40, "medium_risk_floor": 30}
}`,
		},
		{
			name: "zero weight",
			policy: `{
  "weights": {"phoneme_delete": 0, "letter_sound": 1, "rhyme_recognition": 1, "word_scramble": 1, "lexical_decision": 1, "rapid_naming": 1},
  "baseline_accuracy": 0.78,
  "baseline_response_time_ms": 1200,
  "risk_thresholds": {"no_risk_floor": 48, "low_risk_floor": 40, "medium_risk_floor": 30}
}`,
		},
		{
			name: "baseline accuracy above one",
			policy: `{
  "weights": {"phoneme_delete": 1, "letter_sound": 1, "rhyme_recognition": 1, "word_scramble": 1, "lexical_decision": 1, "rapid_naming": 1},
  "baseline_accuracy": 1.2,
  "baseline_response_time_ms": 1200,
  "risk_thresholds": {"no_risk_floor": 48, "low_risk_floor": 40, "medium_risk_floor": 30}
}`,
		},
		{
			name: "unexpected top-level key",
			policy: `{
  "weights": {"phoneme_delete": 1, "letter_sound": 1, "rhyme_recognition": 1, "word_scramble": 1, "lexical_decision": 1, "rapid_naming": 1},
  "baseline_accuracy": 0.78,
  "baseline_response_time_ms": 1200,
  "risk_thresholds": {"no_risk_floor": 48, "low_risk_floor": 40, "medium_risk_floor": 30},
  "version": 2
}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := screening.LoadPolicy(writePolicy(t, tt.policy))
			assert.Error(t, err, "policy should be rejected")
		})
	}
}

func TestLoadPolicy_ThresholdsMustDescend(t *testing.T) {
	policy := `{
  "weights": {"phoneme_delete": 1, "letter_sound": 1, "rhyme_recognition": 1, "word_scramble": 1, "lexical_decision": 1, "rapid_naming": 1},
  "baseline_accuracy": 0.78,
  "baseline_response_time_ms": 1200,
  "risk_thresholds": {"no_risk_floor": 30, "low_risk_floor": 40, "medium_risk_floor": 48}
}`
	_, err := screening.LoadPolicy(writePolicy(t, policy))
	assert.Error(t, err, "inverted cut points should fail config validation")
}
