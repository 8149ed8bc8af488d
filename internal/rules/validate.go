package rules

import (
	"sort"

	"github.com/gridfall/desktop-organizer/internal/domain"
	"go.uber.org/zap"
)

// Priority bounds for a valid rule.
const (
	MinPriority = 1
	MaxPriority = 100
)

// ValidateRuleSet filters a rule set received from the rule-generation
// service down to the rules the engine can act on: non-empty id and name, a
// known target region, priority inside [MinPriority, MaxPriority], and a
// compilable condition map. Duplicates by rule name are removed keeping the
// highest-priority occurrence, and the surviving rules are stable-sorted by
// priority descending. The input is not modified.
func ValidateRuleSet(rs *domain.RuleSet, knownRegions map[string]bool, logger *zap.Logger) *domain.RuleSet {
	out := *rs
	out.Rules = make([]domain.Rule, 0, len(rs.Rules))

	for _, rule := range rs.Rules {
		if reason := validateRule(rule, knownRegions); reason != "" {
			logger.Warn("discarding invalid rule",
				zap.String("rule_id", rule.ID),
				zap.String("name", rule.Name),
				zap.String("reason", reason),
			)
			continue
		}
		out.Rules = append(out.Rules, rule)
	}

	sort.SliceStable(out.Rules, func(i, j int) bool {
		return out.Rules[i].Priority > out.Rules[j].Priority
	})

	// Dedupe by name after sorting so the higher-priority duplicate wins.
	seen := make(map[string]bool, len(out.Rules))
	deduped := out.Rules[:0]
	for _, rule := range out.Rules {
		if seen[rule.Name] {
			logger.Debug("discarding duplicate rule", zap.String("name", rule.Name))
			continue
		}
		seen[rule.Name] = true
		deduped = append(deduped, rule)
	}
	out.Rules = deduped

	return &out
}

func validateRule(rule domain.Rule, knownRegions map[string]bool) string {
	if rule.ID == "" {
		return "empty rule id"
	}
	if rule.Name == "" {
		return "empty rule name"
	}
	if !knownRegions[rule.TargetRegion] {
		return "unknown target region " + rule.TargetRegion
	}
	if rule.Priority < MinPriority || rule.Priority > MaxPriority {
		return "priority out of range"
	}
	if _, err := CompileConditions(rule.Conditions); err != nil {
		return "invalid conditions: " + err.Error()
	}
	return ""
}
