package mapper

import (
	"lawro-be/internal/dto"
	"lawro-be/pkg/analysis"
)

type AnalysisMapper struct{}

func NewAnalysisMapper() *AnalysisMapper {
	return &AnalysisMapper{}
}

func (m *AnalysisMapper) FieldsToDTO(r analysis.FieldResult) *dto.RequiredFieldsResponse {
	return &dto.RequiredFieldsResponse{
		FoundFields:    r.Found,
		MissingFields:  r.Missing,
		CompletionRate: r.CompletionRate,
	}
}

func (m *AnalysisMapper) ViolationsToDTO(r analysis.ViolationReport) *dto.ViolationCheckResponse {
	items := make([]dto.ViolationDTO, len(r.Violations))
	for i, v := range r.Violations {
		items[i] = dto.ViolationDTO{
			RuleName:    v.RuleName,
			Description: v.Description,
			Severity:    string(v.Severity),
		}
	}
	return &dto.ViolationCheckResponse{
		Success:        true,
		Violations:     items,
		ViolationCount: r.Count,
		RiskLevel:      string(r.RiskLevel),
	}
}
