package controller

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lawro-be/internal/dto"
	"lawro-be/internal/pkg/logger"
	"lawro-be/internal/pkg/serverutils"
	"lawro-be/internal/repository/memory"
	"lawro-be/internal/service"
	"lawro-be/pkg/analysis"
	"lawro-be/pkg/rag/conversation"
	"lawro-be/pkg/rag/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	log := logger.NewNopLogger()
	sessions := session.NewStore(session.DefaultConfig(), log)
	contexts := memory.NewContextRepository(time.Minute, time.Minute)
	engine := conversation.NewEngine(sessions, nil, nil, log, conversation.WithContextRecorder(contexts))

	chatbotService := service.NewChatbotService(engine, sessions, contexts, time.Second, log)
	analysisService := service.NewAnalysisService(analysis.DefaultCatalog(), analysis.DefaultRules(), nil, nil, nil, time.Second, log)

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewChatbotController(chatbotService).RegisterRoutes(api)
	NewAnalysisController(analysisService).RegisterRoutes(api)
	NewHealthController(map[string]ServiceProbe{
		"database": func() string { return "disabled" },
	}).RegisterRoutes(api)
	return app
}

func doJSON[T any](t *testing.T, app *fiber.App, method, path, body string) (int, serverutils.Response[T]) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out serverutils.Response[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestChatbotController_Flow(t *testing.T) {
	app := newTestApp(t)

	code, created := doJSON[dto.NewSessionResponse](t, app, http.MethodPost, "/api/chat/v1/new-session", "")
	require.Equal(t, http.StatusOK, code)
	id := created.Data.SessionId
	require.NotEmpty(t, id)

	code, sent := doJSON[dto.SendChatResponse](t, app, http.MethodPost, "/api/chat/v1/send",
		`{"message":"연차휴가는 며칠인가요?","session_id":"`+id+`"}`)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, id, sent.Data.SessionId)
	assert.Equal(t, conversation.ApologyReply, sent.Data.Reply)
	assert.Len(t, sent.Data.History, 2)

	code, history := doJSON[dto.ChatHistoryResponse](t, app, http.MethodGet, "/api/chat/v1/history/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 2, history.Data.MessageCount)

	code, docs := doJSON[dto.ContextDocumentsResponse](t, app, http.MethodGet, "/api/chat/v1/context/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, docs.Data.Documents)

	code, cleared := doJSON[dto.ClearHistoryResponse](t, app, http.MethodDelete, "/api/chat/v1/history/"+id, "")
	require.Equal(t, http.StatusOK, code)
	assert.True(t, cleared.Data.Cleared)

	code, stats := doJSON[dto.SessionStatsResponse](t, app, http.MethodGet, "/api/chat/v1/stats", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, stats.Data.TotalSessions)
	assert.Equal(t, 0, stats.Data.TotalMessages)
}

func TestChatbotController_SendValidation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{name: "blank message", body: `{"message":"   "}`, wantMsg: "message is required"},
		{name: "missing message", body: `{}`, wantMsg: "message is required"},
		{name: "malformed", body: `{"message":`, wantMsg: "invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, res := doJSON[any](t, app, http.MethodPost, "/api/chat/v1/send", tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, res.Success)
			assert.Equal(t, tt.wantMsg, res.Message)
		})
	}
}

func TestAnalysisController_Endpoints(t *testing.T) {
	app := newTestApp(t)
	body := `{"text":"근로계약기간: 1년\n수습기간 6개월\n주 52시간 근무"}`

	code, fields := doJSON[dto.RequiredFieldsResponse](t, app, http.MethodPost, "/api/analysis/v1/text-analysis", body)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, fields.Data.FoundFields, "근로계약기간")

	code, violations := doJSON[dto.ViolationCheckResponse](t, app, http.MethodPost, "/api/analysis/v1/violations", body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "danger", violations.Data.RiskLevel)
	assert.Equal(t, 2, violations.Data.ViolationCount)

	code, full := doJSON[dto.FullAnalysisResponse](t, app, http.MethodPost, "/api/analysis/v1/full-analysis", body)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, full.Data.Success)
	assert.NotEmpty(t, full.Data.Recommendations)
	assert.Equal(t, "근로계약기간: 1년\n수습기간 6개월\n주 52시간 근무", full.Data.ProcessedText)

	code, judgment := doJSON[dto.LLMJudgmentResponse](t, app, http.MethodPost, "/api/analysis/v1/llm-judgment", body)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, judgment.Data.Success)

	code, search := doJSON[dto.RAGSearchResponse](t, app, http.MethodPost, "/api/analysis/v1/rag-search", `{"query":"수습기간"}`)
	require.Equal(t, http.StatusOK, code)
	assert.False(t, search.Data.Success)
	assert.Equal(t, "수습기간", search.Data.Query)
}

func TestAnalysisController_Validation(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		path string
		body string
	}{
		{name: "blank text", path: "/api/analysis/v1/text-analysis", body: `{"text":""}`},
		{name: "blank violations text", path: "/api/analysis/v1/violations", body: `{"text":"  "}`},
		{name: "max results out of range", path: "/api/analysis/v1/rag-search", body: `{"query":"q","max_results":11}`},
		{name: "blank query", path: "/api/analysis/v1/rag-search", body: `{"query":""}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, res := doJSON[any](t, app, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, res.Success)
		})
	}
}

func TestHealthController(t *testing.T) {
	app := newTestApp(t)

	code, res := doJSON[dto.HealthResponse](t, app, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "healthy", res.Data.Status)
	assert.Equal(t, "disabled", res.Data.Services["database"])
}
