package events

import "time"

const TypeContractAnalyzed = "CONTRACT_ANALYZED"

// ContractAnalysisSummary is the part of a full analysis worth broadcasting. The contract text itself is never sent.
type ContractAnalysisSummary struct {
	AnalysisID     string
	CompletionRate float64
	OverallScore   float64
	ViolationCount int
	RiskLevel      string
	MissingCount   int
	TextLength     int
}

func NewContractAnalyzed(s ContractAnalysisSummary, at time.Time) BaseEvent {
	return BaseEvent{
		Type: TypeContractAnalyzed,
		Data: map[string]interface{}{
			"analysis_id":     s.AnalysisID,
			"completion_rate": s.CompletionRate,
			"overall_score":   s.OverallScore,
			"violation_count": s.ViolationCount,
			"risk_level":      s.RiskLevel,
			"missing_count":   s.MissingCount,
			"text_length":     s.TextLength,
			"occurred_at":     at.UTC().Format(time.RFC3339),
		},
		OccurredAt: at,
	}
}
