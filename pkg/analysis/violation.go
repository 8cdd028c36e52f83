package analysis

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type RiskLevel string

const (
	RiskSafe    RiskLevel = "safe"
	RiskCaution RiskLevel = "caution"
	RiskDanger  RiskLevel = "danger"
)

// Rule flags one statutory non-compliance signal.
// Exactly one of Pattern and AllOf is set.
type Rule struct {
	Name     string
	Pattern  *regexp.Regexp
	AllOf    []string
	Severity Severity
}

// Matches reports whether the rule fires on text.
// Patterns are evaluated line by line, AllOf terms anywhere in the document.
func (r Rule) Matches(text NormalizedText) bool {
	if r.Pattern != nil {
		for _, line := range text {
			if r.Pattern.MatchString(line) {
				return true
			}
		}
		return false
	}

	joined := text.String()
	for _, term := range r.AllOf {
		if !strings.Contains(joined, term) {
			return false
		}
	}
	return len(r.AllOf) > 0
}

type Rules []Rule

// DefaultRules returns the labor standards heuristics applied to every contract.
func DefaultRules() Rules {
	return Rules{
		{
			Name:     "수습기간 6개월 이상",
			Pattern:  regexp.MustCompile(`수습.*(6개월|180일|이상)`),
			Severity: SeverityMedium,
		},
		{
			// OCR output often spaces with U+3000 or NBSP, which RE2's \s does not cover.
			Name:     "주 52시간 초과 근무",
			Pattern:  regexp.MustCompile(`(52시간|하루[\s\p{Zs}\x{1c}-\x{1f}\x{85}]?10시간[\s\p{Zs}\x{1c}-\x{1f}\x{85}]?초과|연장근로.*무제한)`),
			Severity: SeverityHigh,
		},
		{
			Name:     "무급 휴일",
			AllOf:    []string{"무급", "휴일"},
			Severity: SeverityMedium,
		},
		{
			Name:     "임금 미지급 가능성",
			Pattern:  regexp.MustCompile(`(임금.*지급하지.*않는다|무급근로|지연지급)`),
			Severity: SeverityMedium,
		},
	}
}

var ErrInvalidRules = errors.New("invalid violation rule set")

func (rs Rules) Validate() error {
	seen := make(map[string]bool, len(rs))
	for i, rule := range rs {
		if rule.Name == "" {
			return fmt.Errorf("%w: rule %d has no name", ErrInvalidRules, i)
		}
		if seen[rule.Name] {
			return fmt.Errorf("%w: duplicate rule %q", ErrInvalidRules, rule.Name)
		}
		seen[rule.Name] = true

		if (rule.Pattern == nil) == (len(rule.AllOf) == 0) {
			return fmt.Errorf("%w: rule %q needs exactly one of pattern or terms", ErrInvalidRules, rule.Name)
		}
		switch rule.Severity {
		case SeverityLow, SeverityMedium, SeverityHigh:
		default:
			return fmt.Errorf("%w: rule %q has unknown severity %q", ErrInvalidRules, rule.Name, rule.Severity)
		}
	}
	return nil
}

// Violation is one fired rule.
type Violation struct {
	RuleName    string
	Description string
	Severity    Severity
}

type ViolationReport struct {
	Violations []Violation
	Count      int
	RiskLevel  RiskLevel
}

// CheckViolations applies every rule once, in rule order.
func CheckViolations(text NormalizedText, rules Rules) ViolationReport {
	report := ViolationReport{
		Violations: []Violation{},
		RiskLevel:  RiskSafe,
	}

	high := false
	for _, rule := range rules {
		if !rule.Matches(text) {
			continue
		}
		report.Violations = append(report.Violations, Violation{
			RuleName:    rule.Name,
			Description: fmt.Sprintf("%s 위반이 감지되었습니다.", rule.Name),
			Severity:    rule.Severity,
		})
		high = high || rule.Severity == SeverityHigh
	}

	report.Count = len(report.Violations)
	switch {
	case high:
		report.RiskLevel = RiskDanger
	case report.Count > 0:
		report.RiskLevel = RiskCaution
	}
	return report
}
