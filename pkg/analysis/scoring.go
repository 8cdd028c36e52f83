package analysis

import "math"

// ViolationPenalty is subtracted from the completion rate for each fired rule.
const ViolationPenalty = 10

const (
	RecommendAddMissing     = "누락된 필수 항목을 추가해주세요."
	RecommendFixViolations  = "근로기준법 위반 조항을 수정해주세요."
	RecommendMoreCompletion = "계약서 완성도를 높이기 위해 추가 정보를 기입해주세요."
)

// CompletionTarget is the completion rate below which the contract is considered thin.
const CompletionTarget = 80

// Score combines completeness and violations into an overall score floored at zero,
// plus the recommendations that apply, in fixed order.
func Score(fields FieldResult, violations ViolationReport) (float64, []string) {
	score := math.Max(0, fields.CompletionRate-float64(ViolationPenalty*violations.Count))

	recommendations := []string{}
	if fields.HasMissing() {
		recommendations = append(recommendations, RecommendAddMissing)
	}
	if violations.Count > 0 {
		recommendations = append(recommendations, RecommendFixViolations)
	}
	if fields.CompletionRate < CompletionTarget {
		recommendations = append(recommendations, RecommendMoreCompletion)
	}
	return score, recommendations
}
