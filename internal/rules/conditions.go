package rules

import (
	"fmt"
	"strings"

	"github.com/gridfall/desktop-organizer/internal/domain"
)

// Condition is one evaluable predicate over a file classification. A rule
// matches when every compiled condition matches (conditions AND together);
// within a condition the listed values OR together.
type Condition interface {
	Matches(fc *domain.FileClassification) bool
}

type typeSet []domain.FileType

func (s typeSet) Matches(fc *domain.FileClassification) bool {
	for _, t := range s {
		if fc.Type == t {
			return true
		}
	}
	return false
}

type extensionSet []string

func (s extensionSet) Matches(fc *domain.FileClassification) bool {
	for _, ext := range s {
		if fc.Extension == ext {
			return true
		}
	}
	return false
}

type sizeBucketSet []domain.SizeBucket

func (s sizeBucketSet) Matches(fc *domain.FileClassification) bool {
	for _, b := range s {
		if fc.SizeBucket == b {
			return true
		}
	}
	return false
}

type keywordSet []string

func (s keywordSet) Matches(fc *domain.FileClassification) bool {
	lower := strings.ToLower(fc.Filename)
	for _, k := range s {
		if strings.Contains(lower, k) || fc.HasKeyword(k) {
			return true
		}
	}
	return false
}

type namePatternSet []string

func (s namePatternSet) Matches(fc *domain.FileClassification) bool {
	lower := strings.ToLower(fc.Filename)
	for _, p := range s {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// CompileConditions turns a rule's raw condition map into typed evaluators.
// Values may be a single string or a list of strings. Unknown condition keys
// make the rule invalid so it is discarded at load time instead of silently
// never matching.
func CompileConditions(raw map[string]any) ([]Condition, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty condition map: %w", domain.ErrInvalidInput)
	}

	conds := make([]Condition, 0, len(raw))
	for key, value := range raw {
		values, err := stringValues(value)
		if err != nil {
			return nil, fmt.Errorf("condition %q: %w", key, err)
		}
		if len(values) == 0 {
			return nil, fmt.Errorf("condition %q has no values: %w", key, domain.ErrInvalidInput)
		}

		switch key {
		case "file_type", "type":
			set := make(typeSet, len(values))
			for i, v := range values {
				set[i] = domain.FileType(strings.ToLower(v))
			}
			conds = append(conds, set)
		case "extensions", "extension":
			set := make(extensionSet, len(values))
			for i, v := range values {
				set[i] = normalizeExtension(v)
			}
			conds = append(conds, set)
		case "size_range", "size_bucket":
			set := make(sizeBucketSet, len(values))
			for i, v := range values {
				set[i] = domain.SizeBucket(strings.ToLower(v))
			}
			conds = append(conds, set)
		case "keywords", "keyword":
			set := make(keywordSet, len(values))
			for i, v := range values {
				set[i] = strings.ToLower(v)
			}
			conds = append(conds, set)
		case "name_patterns", "name_contains":
			set := make(namePatternSet, len(values))
			for i, v := range values {
				set[i] = strings.ToLower(v)
			}
			conds = append(conds, set)
		default:
			return nil, fmt.Errorf("unknown condition key %q: %w", key, domain.ErrInvalidInput)
		}
	}
	return conds, nil
}

// stringValues accepts a bare string or a list of strings, the two shapes the
// rule-generation service produces.
func stringValues(value any) ([]string, error) {
	switch v := value.(type) {
	case string:
		return []string{v}, nil
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("non-string value %v: %w", item, domain.ErrInvalidInput)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T: %w", value, domain.ErrInvalidInput)
	}
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
