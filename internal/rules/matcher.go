package rules

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/gridfall/desktop-organizer/internal/classify"
	"github.com/gridfall/desktop-organizer/internal/domain"
	"go.uber.org/zap"
)

// compiledRule pairs a rule with its evaluable conditions.
type compiledRule struct {
	rule       domain.Rule
	conditions []Condition
}

// activeRuleSet is one immutable generation of loaded rules plus the match
// cache that lives exactly as long as it does. Replacing the generation
// replaces the cache, which is the O(1) invalidation the matcher relies on.
type activeRuleSet struct {
	source *domain.RuleSet
	rules  []compiledRule

	cacheMu sync.Mutex
	cache   map[string]*domain.Rule
}

// Matcher matches classified files against the active rule set. Load and
// Match may be called concurrently; a Match in flight completes against
// whichever generation it started with.
type Matcher struct {
	classifier *classify.Classifier
	logger     *zap.Logger

	mu     sync.RWMutex
	active *activeRuleSet
}

// NewMatcher creates a Matcher with no rules loaded.
func NewMatcher(classifier *classify.Classifier, logger *zap.Logger) *Matcher {
	return &Matcher{
		classifier: classifier,
		logger:     logger,
	}
}

// Load replaces the active rule set. The rule set is assumed to already be
// validated; rules whose conditions fail to compile are skipped. The match
// cache is discarded wholesale.
func (m *Matcher) Load(rs *domain.RuleSet) {
	compiled := make([]compiledRule, 0, len(rs.Rules))
	for _, rule := range rs.Rules {
		conds, err := CompileConditions(rule.Conditions)
		if err != nil {
			m.logger.Warn("skipping rule with uncompilable conditions",
				zap.String("rule_id", rule.ID),
				zap.Error(err),
			)
			continue
		}
		compiled = append(compiled, compiledRule{rule: rule, conditions: conds})
	}

	next := &activeRuleSet{
		source: rs,
		rules:  compiled,
		cache:  make(map[string]*domain.Rule),
	}

	m.mu.Lock()
	m.active = next
	m.mu.Unlock()

	m.logger.Info("rule set active",
		zap.String("version", rs.Version),
		zap.Int("rules", len(compiled)),
	)
}

// Active returns the currently loaded rule set, or nil when none is loaded.
func (m *Matcher) Active() *domain.RuleSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.active == nil {
		return nil
	}
	return m.active.source
}

// Match classifies the file at path and returns the first enabled rule whose
// conditions are all satisfied, in priority order. Returns (nil, nil) when no
// rule matches, no rule set is loaded, or the file has vanished. Successful
// matches are cached until the next Load.
func (m *Matcher) Match(path string) (*domain.Rule, error) {
	m.mu.RLock()
	active := m.active
	m.mu.RUnlock()

	if active == nil {
		return nil, nil
	}

	active.cacheMu.Lock()
	cached, ok := active.cache[path]
	active.cacheMu.Unlock()
	if ok {
		return cached, nil
	}

	fc, err := m.classifier.Classify(path)
	if err != nil {
		if errors.Is(err, domain.ErrFileVanished) {
			return nil, nil
		}
		return nil, err
	}

	for i := range active.rules {
		cr := &active.rules[i]
		if !cr.rule.Enabled {
			continue
		}
		if matchesAll(cr.conditions, fc) {
			m.logger.Debug("file matched rule",
				zap.String("file", filepath.Base(path)),
				zap.String("rule", cr.rule.Name),
			)
			matched := cr.rule
			active.cacheMu.Lock()
			active.cache[path] = &matched
			active.cacheMu.Unlock()
			return &matched, nil
		}
	}

	m.logger.Debug("no rule matched", zap.String("file", filepath.Base(path)))
	return nil, nil
}

func matchesAll(conds []Condition, fc *domain.FileClassification) bool {
	for _, c := range conds {
		if !c.Matches(fc) {
			return false
		}
	}
	return true
}
