package service

import (
	"context"
	"strings"
	"time"

	"lawro-be/internal/dto"
	"lawro-be/internal/mapper"
	"lawro-be/internal/pkg/logger"
	"lawro-be/internal/tracer"
	"lawro-be/pkg/analysis"
	"lawro-be/pkg/events"
	"lawro-be/pkg/legal"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	analysisLogModule = "ANALYSIS"

	// contractReviewQuery is the statute lookup used by a full analysis with no violations to anchor it.
	contractReviewQuery = "근로계약서 필수 기재사항"
)

type IAnalysisService interface {
	AnalyzeText(ctx context.Context, request *dto.TextAnalysisRequest) (*dto.RequiredFieldsResponse, error)
	CheckViolations(ctx context.Context, request *dto.TextAnalysisRequest) (*dto.ViolationCheckResponse, error)
	FullAnalysis(ctx context.Context, request *dto.FullAnalysisRequest) (*dto.FullAnalysisResponse, error)
	LLMJudgment(ctx context.Context, request *dto.LLMJudgmentRequest) (*dto.LLMJudgmentResponse, error)
	RAGSearch(ctx context.Context, request *dto.RAGSearchRequest) (*dto.RAGSearchResponse, error)
}

type contractJudge interface {
	Evaluate(ctx context.Context, text string, focusAreas []string) (legal.Verdict, error)
}

// statuteLookup applies its own default when maxResults is zero.
type statuteLookup interface {
	Search(ctx context.Context, query string, maxResults int) (legal.Finding, error)
}

// EventPublisher sends domain events. A nil publisher disables events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type analysisService struct {
	catalog   analysis.Catalog
	rules     analysis.Rules
	judge     contractJudge
	lookup    statuteLookup
	publisher EventPublisher
	mapper    *mapper.AnalysisMapper
	chatMap   *mapper.ChatMapper
	timeout   time.Duration
	logger    logger.ILogger
}

func NewAnalysisService(
	catalog analysis.Catalog,
	rules analysis.Rules,
	judge contractJudge,
	lookup statuteLookup,
	publisher EventPublisher,
	timeout time.Duration,
	log logger.ILogger,
) IAnalysisService {
	return &analysisService{
		catalog:   catalog,
		rules:     rules,
		judge:     judge,
		lookup:    lookup,
		publisher: publisher,
		mapper:    mapper.NewAnalysisMapper(),
		chatMap:   mapper.NewChatMapper(),
		timeout:   timeout,
		logger:    log,
	}
}

func (s *analysisService) AnalyzeText(ctx context.Context, request *dto.TextAnalysisRequest) (*dto.RequiredFieldsResponse, error) {
	text := analysis.Normalize(request.Text)
	return s.mapper.FieldsToDTO(analysis.AnalyzeFields(text, s.catalog)), nil
}

func (s *analysisService) CheckViolations(ctx context.Context, request *dto.TextAnalysisRequest) (*dto.ViolationCheckResponse, error) {
	text := analysis.Normalize(request.Text)
	return s.mapper.ViolationsToDTO(analysis.CheckViolations(text, s.rules)), nil
}

// FullAnalysis normalizes once, then runs the field and violation passes concurrently.
// The optional backend enrichments never fail the analysis.
func (s *analysisService) FullAnalysis(ctx context.Context, request *dto.FullAnalysisRequest) (*dto.FullAnalysisResponse, error) {
	start := time.Now()

	ctx, span := tracer.Start(ctx, "analysis.FullAnalysis")
	defer span.End()

	text := analysis.Normalize(request.Text)

	var (
		fields     analysis.FieldResult
		violations analysis.ViolationReport
	)
	var g errgroup.Group
	g.Go(func() error {
		fields = analysis.AnalyzeFields(text, s.catalog)
		return nil
	})
	g.Go(func() error {
		violations = analysis.CheckViolations(text, s.rules)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	score, recommendations := analysis.Score(fields, violations)

	res := &dto.FullAnalysisResponse{
		Success:         true,
		AnalysisId:      uuid.NewString(),
		ProcessedText:   text.String(),
		RequiredFields:  s.mapper.FieldsToDTO(fields),
		Violations:      s.mapper.ViolationsToDTO(violations),
		OverallScore:    score,
		Recommendations: recommendations,
	}

	enrich, ectx := errgroup.WithContext(ctx)
	if request.IncludeLLMJudgment {
		enrich.Go(func() error {
			judgment, _ := s.LLMJudgment(ectx, &dto.LLMJudgmentRequest{
				Text:       text.String(),
				FocusAreas: request.FocusAreas,
			})
			res.LLMJudgment = judgment
			return nil
		})
	}
	if request.IncludeRAGSearch {
		enrich.Go(func() error {
			search, _ := s.RAGSearch(ectx, &dto.RAGSearchRequest{Query: reviewQuery(violations)})
			res.RAGSearch = search
			return nil
		})
	}
	_ = enrich.Wait()

	res.ProcessingTime = time.Since(start).Seconds()

	span.SetAttributes(
		attribute.String("analysis.id", res.AnalysisId),
		attribute.Float64("analysis.score", score),
		attribute.Int("analysis.violations", violations.Count),
	)
	s.logger.Info(analysisLogModule, "Full analysis completed", map[string]interface{}{
		"analysis_id":     res.AnalysisId,
		"completion_rate": fields.CompletionRate,
		"overall_score":   score,
		"violation_count": violations.Count,
		"risk_level":      string(violations.RiskLevel),
	})

	s.publishAnalyzed(ctx, res.AnalysisId, fields, violations, score, len(request.Text))
	return res, nil
}

// LLMJudgment always answers; backend failures are reported through Success.
func (s *analysisService) LLMJudgment(ctx context.Context, request *dto.LLMJudgmentRequest) (*dto.LLMJudgmentResponse, error) {
	start := time.Now()
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	if s.judge == nil {
		return &dto.LLMJudgmentResponse{Judgment: legal.JudgmentFailed, ProcessingTime: time.Since(start).Seconds()}, nil
	}

	verdict, err := s.judge.Evaluate(ctx, request.Text, request.FocusAreas)
	if err != nil {
		s.logger.Error(analysisLogModule, "LLM judgment failed", map[string]interface{}{"error": err.Error()})
		return &dto.LLMJudgmentResponse{
			Success:        false,
			Judgment:       legal.JudgmentFailed,
			ProcessingTime: time.Since(start).Seconds(),
		}, nil
	}
	if verdict.Raw {
		s.logger.Warn(analysisLogModule, "LLM judgment was not valid JSON, returning raw text", nil)
	}

	return &dto.LLMJudgmentResponse{
		Success:         true,
		Judgment:        verdict.Judgment,
		ConfidenceScore: verdict.Confidence,
		RawText:         verdict.Raw,
		ProcessingTime:  time.Since(start).Seconds(),
	}, nil
}

func (s *analysisService) RAGSearch(ctx context.Context, request *dto.RAGSearchRequest) (*dto.RAGSearchResponse, error) {
	start := time.Now()
	ctx, cancel := s.bounded(ctx)
	defer cancel()

	failed := &dto.RAGSearchResponse{
		Query:           request.Query,
		Result:          legal.SearchFailed,
		SourceDocuments: []dto.DocumentDTO{},
	}
	if s.lookup == nil {
		failed.ProcessingTime = time.Since(start).Seconds()
		return failed, nil
	}

	finding, err := s.lookup.Search(ctx, request.Query, request.MaxResults)
	if err != nil {
		s.logger.Error(analysisLogModule, "Legal search failed", map[string]interface{}{
			"query": request.Query,
			"error": err.Error(),
		})
		failed.ProcessingTime = time.Since(start).Seconds()
		return failed, nil
	}

	return &dto.RAGSearchResponse{
		Success:         true,
		Query:           request.Query,
		Result:          finding.Summary,
		SourceDocuments: s.chatMap.DocumentsToDTO(finding.Documents),
		ProcessingTime:  time.Since(start).Seconds(),
	}, nil
}

func (s *analysisService) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func (s *analysisService) publishAnalyzed(ctx context.Context, id string, fields analysis.FieldResult, violations analysis.ViolationReport, score float64, textLength int) {
	if s.publisher == nil {
		return
	}

	missing := 0
	for _, keywords := range fields.Missing {
		missing += len(keywords)
	}
	event := events.NewContractAnalyzed(events.ContractAnalysisSummary{
		AnalysisID:     id,
		CompletionRate: fields.CompletionRate,
		OverallScore:   score,
		ViolationCount: violations.Count,
		RiskLevel:      string(violations.RiskLevel),
		MissingCount:   missing,
		TextLength:     textLength,
	}, time.Now())

	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn(analysisLogModule, "Failed to publish analysis event", map[string]interface{}{
			"analysis_id": id,
			"error":       err.Error(),
		})
	}
}

// reviewQuery anchors the statute lookup on the fired rules.
func reviewQuery(violations analysis.ViolationReport) string {
	if violations.Count == 0 {
		return contractReviewQuery
	}
	names := make([]string, len(violations.Violations))
	for i, v := range violations.Violations {
		names[i] = v.RuleName
	}
	return strings.Join(names, ", ") + " 근로기준법"
}
