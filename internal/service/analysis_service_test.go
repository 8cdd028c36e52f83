package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"lawro-be/internal/dto"
	"lawro-be/internal/pkg/logger"
	"lawro-be/pkg/analysis"
	"lawro-be/pkg/events"
	"lawro-be/pkg/legal"
	"lawro-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContract = `표준근로계약서
근로계약기간: 2024년 1월 1일부터
수습기간: 6개월
근로장소: 본사
근로시간: 09시 00분 ~ 18시 00분
휴게시간: 12시 00분 ~ 13시 00분
휴일: 매주 일요일 (무급)
임금: 기본급 2,500,000원
■ 계좌지급`

type fakeJudge struct {
	verdict legal.Verdict
	err     error
	focus   []string
	ctxErr  error
}

func (f *fakeJudge) Evaluate(ctx context.Context, text string, focusAreas []string) (legal.Verdict, error) {
	f.focus = focusAreas
	f.ctxErr = ctx.Err()
	return f.verdict, f.err
}

type fakeLookup struct {
	finding legal.Finding
	err     error
	query   string
	max     int
}

func (f *fakeLookup) Search(ctx context.Context, query string, maxResults int) (legal.Finding, error) {
	f.query, f.max = query, maxResults
	return f.finding, f.err
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (f *fakePublisher) Publish(ctx context.Context, e events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return f.err
}

func newAnalysisFixture(judge *fakeJudge, lookup *fakeLookup, pub *fakePublisher) IAnalysisService {
	var (
		j contractJudge
		l statuteLookup
		p EventPublisher
	)
	if judge != nil {
		j = judge
	}
	if lookup != nil {
		l = lookup
	}
	if pub != nil {
		p = pub
	}
	return NewAnalysisService(analysis.DefaultCatalog(), analysis.DefaultRules(), j, l, p, 0, logger.NewNopLogger())
}

func TestAnalysisService_AnalyzeText(t *testing.T) {
	svc := newAnalysisFixture(nil, nil, nil)

	res, err := svc.AnalyzeText(context.Background(), &dto.TextAnalysisRequest{Text: sampleContract})
	require.NoError(t, err)

	assert.Contains(t, res.FoundFields, "근로장소")
	assert.Contains(t, res.FoundFields["근로계약기간"], "수습기간")
	assert.Greater(t, res.CompletionRate, 0.0)
	assert.Less(t, res.CompletionRate, 100.0)
}

func TestAnalysisService_CheckViolations(t *testing.T) {
	svc := newAnalysisFixture(nil, nil, nil)

	res, err := svc.CheckViolations(context.Background(), &dto.TextAnalysisRequest{Text: sampleContract})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		names = append(names, v.RuleName)
	}
	assert.Equal(t, []string{"수습기간 6개월 이상", "무급 휴일"}, names)
	assert.Equal(t, 2, res.ViolationCount)
	assert.Equal(t, "caution", res.RiskLevel)
}

func TestAnalysisService_FullAnalysis(t *testing.T) {
	pub := &fakePublisher{}
	svc := newAnalysisFixture(nil, nil, pub)

	res, err := svc.FullAnalysis(context.Background(), &dto.FullAnalysisRequest{Text: sampleContract})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.NotEmpty(t, res.AnalysisId)
	assert.Contains(t, res.ProcessedText, "[X] 계좌지급")
	assert.Equal(t, 2, res.Violations.ViolationCount)

	want := res.RequiredFields.CompletionRate - 20
	if want < 0 {
		want = 0
	}
	assert.InDelta(t, want, res.OverallScore, 1e-9)
	assert.Contains(t, res.Recommendations, analysis.RecommendFixViolations)
	assert.Nil(t, res.LLMJudgment)
	assert.Nil(t, res.RAGSearch)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeContractAnalyzed, pub.events[0].EventType())
	assert.Equal(t, res.AnalysisId, pub.events[0].Payload()["analysis_id"])
}

func TestAnalysisService_FullAnalysisEnriched(t *testing.T) {
	judge := &fakeJudge{verdict: legal.Verdict{Judgment: "수습기간 조항 검토 필요", Confidence: 0.6}}
	lookup := &fakeLookup{finding: legal.Finding{
		Summary:   "수습기간은 3개월 이내가 일반적입니다.",
		Documents: []store.Document{{Content: "제35조", Source: "근로기준법 제35조", Score: 0.7}},
	}}
	svc := newAnalysisFixture(judge, lookup, nil)

	res, err := svc.FullAnalysis(context.Background(), &dto.FullAnalysisRequest{
		Text:               sampleContract,
		IncludeLLMJudgment: true,
		IncludeRAGSearch:   true,
		FocusAreas:         []string{"수습"},
	})
	require.NoError(t, err)

	require.NotNil(t, res.LLMJudgment)
	assert.True(t, res.LLMJudgment.Success)
	assert.Equal(t, 0.6, res.LLMJudgment.ConfidenceScore)
	assert.Equal(t, []string{"수습"}, judge.focus)
	assert.NoError(t, judge.ctxErr)

	require.NotNil(t, res.RAGSearch)
	assert.True(t, res.RAGSearch.Success)
	assert.Len(t, res.RAGSearch.SourceDocuments, 1)
	assert.Equal(t, "수습기간 6개월 이상, 무급 휴일 근로기준법", lookup.query)
	assert.Zero(t, lookup.max)
}

func TestAnalysisService_FullAnalysisSurvivesBackendFailures(t *testing.T) {
	pub := &fakePublisher{err: errors.New("nats down")}
	svc := newAnalysisFixture(
		&fakeJudge{err: errors.New("timeout")},
		&fakeLookup{err: errors.New("db down")},
		pub,
	)

	res, err := svc.FullAnalysis(context.Background(), &dto.FullAnalysisRequest{
		Text:               "근로계약서",
		IncludeLLMJudgment: true,
		IncludeRAGSearch:   true,
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.False(t, res.LLMJudgment.Success)
	assert.Equal(t, legal.JudgmentFailed, res.LLMJudgment.Judgment)
	assert.False(t, res.RAGSearch.Success)
	assert.Equal(t, legal.SearchFailed, res.RAGSearch.Result)
	assert.NotNil(t, res.RAGSearch.SourceDocuments)
	assert.Len(t, pub.events, 1)
}

func TestAnalysisService_LLMJudgment(t *testing.T) {
	tests := []struct {
		name        string
		judge       *fakeJudge
		wantSuccess bool
		wantRaw     bool
		wantText    string
	}{
		{
			name:        "parsed verdict",
			judge:       &fakeJudge{verdict: legal.Verdict{Judgment: "적법", Confidence: 0.9}},
			wantSuccess: true,
			wantText:    "적법",
		},
		{
			name:        "raw verdict",
			judge:       &fakeJudge{verdict: legal.Verdict{Judgment: "그냥 텍스트", Raw: true}},
			wantSuccess: true,
			wantRaw:     true,
			wantText:    "그냥 텍스트",
		},
		{
			name:     "backend failure",
			judge:    &fakeJudge{err: errors.New("boom")},
			wantText: legal.JudgmentFailed,
		},
		{
			name:     "no judge",
			wantText: legal.JudgmentFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newAnalysisFixture(tt.judge, nil, nil)
			res, err := svc.LLMJudgment(context.Background(), &dto.LLMJudgmentRequest{Text: "계약서"})
			require.NoError(t, err)
			assert.Equal(t, tt.wantSuccess, res.Success)
			assert.Equal(t, tt.wantRaw, res.RawText)
			assert.Equal(t, tt.wantText, res.Judgment)
		})
	}
}

func TestAnalysisService_RAGSearch(t *testing.T) {
	lookup := &fakeLookup{finding: legal.Finding{Summary: "요약", Documents: []store.Document{}}}
	svc := newAnalysisFixture(nil, lookup, nil)

	res, err := svc.RAGSearch(context.Background(), &dto.RAGSearchRequest{Query: "연장근로", MaxResults: 7})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "요약", res.Result)
	assert.Equal(t, 7, lookup.max)
	assert.NotNil(t, res.SourceDocuments)

	res, err = newAnalysisFixture(nil, nil, nil).RAGSearch(context.Background(), &dto.RAGSearchRequest{Query: "q"})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "q", res.Query)
}
