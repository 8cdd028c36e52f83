package service

import (
	"context"
	"time"

	"lawro-be/internal/dto"
	"lawro-be/internal/mapper"
	"lawro-be/internal/pkg/logger"
	"lawro-be/internal/tracer"
	"lawro-be/pkg/rag/conversation"
	"lawro-be/pkg/rag/session"
	"lawro-be/pkg/store"

	"go.opentelemetry.io/otel/attribute"
)

const chatLogModule = "CHATBOT"

// IChatbotService defines the chatbot service interface
type IChatbotService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	NewSession(ctx context.Context) (*dto.NewSessionResponse, error)
	GetHistory(ctx context.Context, sessionId string) (*dto.ChatHistoryResponse, error)
	ClearHistory(ctx context.Context, sessionId string) (*dto.ClearHistoryResponse, error)
	GetContextDocuments(ctx context.Context, sessionId string) (*dto.ContextDocumentsResponse, error)
	GetStats(ctx context.Context) (*dto.SessionStatsResponse, error)
}

type turnResponder interface {
	Respond(ctx context.Context, req conversation.Request) conversation.Result
}

type sessionRegistry interface {
	GetOrCreate(id string) string
	History(id string, excludeLast bool) []session.ChatMessage
	Clear(id string) bool
	Stats() session.Stats
}

type contextReader interface {
	Get(sessionID string) ([]store.Document, bool)
	Delete(sessionID string)
}

type chatbotService struct {
	engine      turnResponder
	sessions    sessionRegistry
	contexts    contextReader
	mapper      *mapper.ChatMapper
	turnTimeout time.Duration
	logger      logger.ILogger
}

func NewChatbotService(
	engine turnResponder,
	sessions sessionRegistry,
	contexts contextReader,
	turnTimeout time.Duration,
	log logger.ILogger,
) IChatbotService {
	return &chatbotService{
		engine:      engine,
		sessions:    sessions,
		contexts:    contexts,
		mapper:      mapper.NewChatMapper(),
		turnTimeout: turnTimeout,
		logger:      log,
	}
}

// SendChat runs one conversation turn. Backend failures surface as a fallback reply, not an error.
func (cs *chatbotService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	start := time.Now()

	ctx, span := tracer.Start(ctx, "chatbot.SendChat")
	defer span.End()

	if cs.turnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cs.turnTimeout)
		defer cancel()
	}

	result := cs.engine.Respond(ctx, conversation.Request{
		Message:      request.Message,
		SessionID:    request.SessionId,
		CustomPrompt: request.CustomPrompt,
		Language:     request.Language,
	})

	span.SetAttributes(
		attribute.String("session.id", result.SessionID),
		attribute.String("chat.path", string(result.Path)),
		attribute.Int("chat.documents", len(result.Documents)),
	)

	if request.SessionId != "" && request.SessionId != result.SessionID {
		cs.logger.Warn(chatLogModule, "Unknown session replaced", map[string]interface{}{
			"requested": request.SessionId,
			"issued":    result.SessionID,
		})
	}

	return &dto.SendChatResponse{
		Success:        true,
		Reply:          result.Reply,
		SessionId:      result.SessionID,
		History:        cs.mapper.MessagesToDTO(result.History),
		ProcessingTime: time.Since(start).Seconds(),
		Mode:           string(result.Mode),
	}, nil
}

func (cs *chatbotService) NewSession(ctx context.Context) (*dto.NewSessionResponse, error) {
	id := cs.sessions.GetOrCreate("")
	cs.logger.Info(chatLogModule, "Session created", map[string]interface{}{"session_id": id})
	return &dto.NewSessionResponse{SessionId: id}, nil
}

// GetHistory returns an empty history for unknown sessions.
func (cs *chatbotService) GetHistory(ctx context.Context, sessionId string) (*dto.ChatHistoryResponse, error) {
	history := cs.sessions.History(sessionId, false)
	return &dto.ChatHistoryResponse{
		SessionId:    sessionId,
		History:      cs.mapper.MessagesToDTO(history),
		MessageCount: len(history),
	}, nil
}

func (cs *chatbotService) ClearHistory(ctx context.Context, sessionId string) (*dto.ClearHistoryResponse, error) {
	cleared := cs.sessions.Clear(sessionId)
	if cleared {
		cs.contexts.Delete(sessionId)
	}
	return &dto.ClearHistoryResponse{SessionId: sessionId, Cleared: cleared}, nil
}

func (cs *chatbotService) GetContextDocuments(ctx context.Context, sessionId string) (*dto.ContextDocumentsResponse, error) {
	docs, _ := cs.contexts.Get(sessionId)
	return &dto.ContextDocumentsResponse{
		SessionId: sessionId,
		Documents: cs.mapper.DocumentsToDTO(docs),
	}, nil
}

func (cs *chatbotService) GetStats(ctx context.Context) (*dto.SessionStatsResponse, error) {
	return cs.mapper.StatsToDTO(cs.sessions.Stats()), nil
}
