package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/gridfall/desktop-organizer/internal/domain"
)

// SaveRuleSet records a rule set as the most recently loaded one.
func (s *Store) SaveRuleSet(rs *domain.RuleSet) error {
	rulesJSON, err := json.Marshal(rs.Rules)
	if err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}

	query := `
		INSERT INTO rulesets (version, generated_at, summary, confidence, rules_json)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		rs.Version, rs.GeneratedAt, rs.Summary, rs.ConfidenceScore, string(rulesJSON))
	return err
}

// LatestRuleSet returns the most recently saved rule set, or nil when none
// has been saved yet.
func (s *Store) LatestRuleSet() (*domain.RuleSet, error) {
	query := `
		SELECT version, generated_at, summary, confidence, rules_json
		FROM rulesets
		ORDER BY id DESC
		LIMIT 1
	`

	rs := &domain.RuleSet{}
	var generatedAt sql.NullTime
	var summary sql.NullString
	var rulesJSON string

	err := s.db.QueryRow(query).Scan(
		&rs.Version, &generatedAt, &summary, &rs.ConfidenceScore, &rulesJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if generatedAt.Valid {
		rs.GeneratedAt = generatedAt.Time
	}
	if summary.Valid {
		rs.Summary = summary.String
	}
	if err := json.Unmarshal([]byte(rulesJSON), &rs.Rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	return rs, nil
}
