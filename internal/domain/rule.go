package domain

import (
	"encoding/json"
	"time"
)

// Rule places files matching its conditions into a target region. Rules are
// immutable once loaded; a new rule set replaces the old one wholesale.
type Rule struct {
	ID           string         `json:"rule_id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Conditions   map[string]any `json:"conditions"`
	TargetRegion string         `json:"target_region"`
	Priority     int            `json:"priority"`
	Enabled      bool           `json:"enabled"`
}

// UnmarshalJSON decodes a rule, defaulting the enabled flag to true when the
// rule-generation service omits it.
func (r *Rule) UnmarshalJSON(data []byte) error {
	type alias Rule
	aux := alias{Enabled: true, Priority: 50}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = Rule(aux)
	return nil
}

// RuleSet is a versioned, prioritized collection of rules produced by the
// external rule-generation service.
type RuleSet struct {
	Version         string    `json:"version"`
	GeneratedAt     time.Time `json:"generated_at"`
	Summary         string    `json:"summary"`
	Rules           []Rule    `json:"rules"`
	ConfidenceScore float64   `json:"confidence_score"`
}
