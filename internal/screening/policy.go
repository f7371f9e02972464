package screening

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// The weight table, baselines, and risk cut points are deployment policy, not
// code. A deployment may override DefaultConfig with a JSON policy file; the
// file is validated against scoringPolicySchema before any value is used.
const scoringPolicySchema = `{
  "type": "object",
  "required": ["weights", "baseline_accuracy", "baseline_response_time_ms", "risk_thresholds"],
  "additionalProperties": false,
  "properties": {
    "weights": {
      "type": "object",
      "required": ["phoneme_delete", "letter_sound", "rhyme_recognition", "word_scramble", "lexical_decision", "rapid_naming"],
      "additionalProperties": false,
      "properties": {
        "phoneme_delete": {"type": "number", "exclusiveMinimum": 0},
        "letter_sound": {"type": "number", "exclusiveMinimum": 0},
        "rhyme_recognition": {"type": "number", "exclusiveMinimum": 0},
        "word_scramble": {"type": "number", "exclusiveMinimum": 0},
        "lexical_decision": {"type": "number", "exclusiveMinimum": 0},
        "rapid_naming": {"type": "number", "exclusiveMinimum": 0}
      }
    },
    "baseline_accuracy": {"type": "number", "exclusiveMinimum": 0, "maximum": 1},
    "baseline_response_time_ms": {"type": "number", "exclusiveMinimum": 0},
    "risk_thresholds": {
      "type": "object",
      "required": ["no_risk_floor", "low_risk_floor", "medium_risk_floor"],
      "additionalProperties": false,
      "properties": {
        "no_risk_floor": {"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 100},
        "low_risk_floor": {"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 100},
        "medium_risk_floor": {"type": "number", "exclusiveMinimum": 0, "exclusiveMaximum": 100}
      }
    }
  }
}`

var (
	policySchemaOnce sync.Once
	policySchema     *jsonschema.Schema
	policySchemaErr  error
)

func compiledPolicySchema() (*jsonschema.Schema, error) {
	policySchemaOnce.Do(func() {
		var doc any
		if err := json.Unmarshal([]byte(scoringPolicySchema), &doc); err != nil {
			policySchemaErr = fmt.Errorf("parse policy schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://scoring_policy.json", doc); err != nil {
			policySchemaErr = fmt.Errorf("add policy schema resource: %w", err)
			return
		}
		policySchema, policySchemaErr = c.Compile("schema://scoring_policy.json")
	})
	return policySchema, policySchemaErr
}

type policyFile struct {
	Weights                map[string]float64 `json:"weights"`
	BaselineAccuracy       float64            `json:"baseline_accuracy"`
	BaselineResponseTimeMS float64            `json:"baseline_response_time_ms"`
	Thresholds             RiskThresholds     `json:"risk_thresholds"`
}

// LoadPolicy reads a scoring policy file and returns the resulting config.
// An empty path returns DefaultConfig. The file must satisfy the policy
// schema and the same validation rules as any ScoringConfig.
func LoadPolicy(path string) (ScoringConfig, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return ScoringConfig{}, fmt.Errorf("read scoring policy: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ScoringConfig{}, fmt.Errorf("parse scoring policy: %w", err)
	}

	schema, err := compiledPolicySchema()
	if err != nil {
		return ScoringConfig{}, err
	}
	if err := schema.Validate(parsed); err != nil {
		return ScoringConfig{}, fmt.Errorf("scoring policy %s: %w", path, err)
	}

	var f policyFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return ScoringConfig{}, fmt.Errorf("decode scoring policy: %w", err)
	}

	cfg := ScoringConfig{
		Weights:                make(map[Game]float64, len(f.Weights)),
		BaselineAccuracy:       f.BaselineAccuracy,
		BaselineResponseTimeMS: f.BaselineResponseTimeMS,
		Thresholds:             f.Thresholds,
	}
	for name, w := range f.Weights {
		g, err := ParseGame(name)
		if err != nil {
			return ScoringConfig{}, fmt.Errorf("scoring policy: %w", err)
		}
		cfg.Weights[g] = w
	}

	if err := cfg.Validate(); err != nil {
		return ScoringConfig{}, fmt.Errorf("scoring policy %s: %w", path, err)
	}
	return cfg, nil
}
