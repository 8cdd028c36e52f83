package dto

type TextAnalysisRequest struct {
	Text string `json:"text" validate:"notblank,max=200000"`
}

type FullAnalysisRequest struct {
	Text               string   `json:"text" validate:"notblank,max=200000"`
	IncludeLLMJudgment bool     `json:"include_llm_judgment"`
	IncludeRAGSearch   bool     `json:"include_rag_search"`
	FocusAreas         []string `json:"focus_areas,omitempty" validate:"max=10,dive,notblank,max=100"`
}

type RequiredFieldsResponse struct {
	FoundFields    map[string][]string `json:"found_fields"`
	MissingFields  map[string][]string `json:"missing_fields"`
	CompletionRate float64             `json:"completion_rate"`
}

type ViolationDTO struct {
	RuleName    string `json:"rule_name"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

type ViolationCheckResponse struct {
	Success        bool           `json:"success"`
	Violations     []ViolationDTO `json:"violations"`
	ViolationCount int            `json:"violation_count"`
	RiskLevel      string         `json:"risk_level"`
}

type FullAnalysisResponse struct {
	Success         bool                    `json:"success"`
	AnalysisId      string                  `json:"analysis_id"`
	ProcessedText   string                  `json:"processed_text"`
	RequiredFields  *RequiredFieldsResponse `json:"required_fields"`
	Violations      *ViolationCheckResponse `json:"violations"`
	OverallScore    float64                 `json:"overall_score"`
	Recommendations []string                `json:"recommendations"`
	LLMJudgment     *LLMJudgmentResponse    `json:"llm_judgment,omitempty"`
	RAGSearch       *RAGSearchResponse      `json:"rag_search,omitempty"`
	ProcessingTime  float64                 `json:"processing_time"`
}

type LLMJudgmentRequest struct {
	Text       string   `json:"text" validate:"notblank,max=200000"`
	FocusAreas []string `json:"focus_areas,omitempty" validate:"max=10,dive,notblank,max=100"`
}

type LLMJudgmentResponse struct {
	Success         bool    `json:"success"`
	Judgment        string  `json:"judgment"`
	ConfidenceScore float64 `json:"confidence_score"`
	RawText         bool    `json:"raw_text"`
	ProcessingTime  float64 `json:"processing_time"`
}

type RAGSearchRequest struct {
	Query      string `json:"query" validate:"notblank,max=2000"`
	MaxResults int    `json:"max_results,omitempty" validate:"omitempty,min=1,max=10"`
}

type DocumentDTO struct {
	Content        string  `json:"content"`
	Source         string  `json:"source"`
	RelevanceScore float64 `json:"relevance_score"`
}

type RAGSearchResponse struct {
	Success         bool          `json:"success"`
	Query           string        `json:"query"`
	Result          string        `json:"result"`
	SourceDocuments []DocumentDTO `json:"source_documents"`
	ProcessingTime  float64       `json:"processing_time"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Version  string            `json:"version"`
	Services map[string]string `json:"services"`
}
