// Package conversation runs one chat turn: rewrite, retrieve, generate and record.
package conversation

import (
	"context"
	"strings"
	"time"

	"lawro-be/internal/pkg/logger"
	"lawro-be/pkg/llm"
	"lawro-be/pkg/rag/history"
	"lawro-be/pkg/rag/prompt"
	"lawro-be/pkg/rag/search"
	"lawro-be/pkg/rag/session"
	"lawro-be/pkg/store"
)

const (
	DefaultTopK = 2

	// ApologyReply is returned when no generation path succeeded.
	ApologyReply = "죄송합니다. 현재 시스템에 문제가 있어 답변을 제공할 수 없습니다."

	logModule = "CONVERSATION"
)

// Path records which generation route produced the reply.
type Path string

const (
	PathRAG     Path = "rag"
	PathDirect  Path = "direct"
	PathApology Path = "apology"
)

// ContextRecorder keeps the documents used for a session's latest turn.
type ContextRecorder interface {
	Record(sessionID string, docs []store.Document)
}

type Request struct {
	Message      string
	SessionID    string
	CustomPrompt string
	Language     string
}

type Result struct {
	SessionID string
	Reply     string
	History   []session.ChatMessage
	Documents []store.Document
	Mode      prompt.Mode
	Path      Path
}

type Engine struct {
	sessions  *session.Store
	retriever search.Retriever
	llm       llm.LLMProvider
	recorder  ContextRecorder
	topK      int
	logger    logger.ILogger
}

type Option func(*Engine)

func WithTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.topK = k
		}
	}
}

func WithContextRecorder(r ContextRecorder) Option {
	return func(e *Engine) {
		e.recorder = r
	}
}

// NewEngine wires the turn pipeline. A nil retriever forces direct generation; a nil provider always apologizes.
func NewEngine(sessions *session.Store, retriever search.Retriever, provider llm.LLMProvider, log logger.ILogger, opts ...Option) *Engine {
	e := &Engine{
		sessions:  sessions,
		retriever: retriever,
		llm:       provider,
		topK:      DefaultTopK,
		logger:    log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond processes one turn. It never fails: backend errors degrade to a direct answer and then to ApologyReply.
// The user message is appended before any backend call and is always paired with a reply.
func (e *Engine) Respond(ctx context.Context, req Request) Result {
	start := time.Now()

	id, unlock := e.acquire(req.SessionID)
	defer unlock()

	mode := prompt.ModeFor(req.CustomPrompt)
	if e.sessions.BeginTurn(id, mode == prompt.ModeCustom) {
		e.logger.Info(logModule, "Custom prompt applied, history reset", map[string]interface{}{"session_id": id})
	}

	userMsg := session.ChatMessage{Role: session.RoleUser, Content: req.Message}
	stored := e.sessions.Append(id, userMsg)
	prior := e.sessions.History(id, true)

	reply, docs, path := e.generate(ctx, req, mode, prior)

	replyMsg := session.ChatMessage{Role: session.RoleAssistant, Content: reply}
	stored = e.sessions.Append(id, replyMsg) && stored
	if e.recorder != nil {
		e.recorder.Record(id, docs)
	}

	history := e.sessions.History(id, false)
	if !stored {
		// Only an explicit Delete can remove a session while its turn lock is held.
		e.logger.Error(logModule, "Session removed during turn, reply not persisted", map[string]interface{}{
			"session_id": id,
		})
		history = append(prior, userMsg, replyMsg)
	}

	e.logger.Info(logModule, "Turn completed", map[string]interface{}{
		"session_id":  id,
		"mode":        string(mode),
		"path":        string(path),
		"documents":   len(docs),
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return Result{
		SessionID: id,
		Reply:     reply,
		History:   history,
		Documents: docs,
		Mode:      mode,
		Path:      path,
	}
}

// acquire resolves the session and takes its turn lock. A session evicted while waiting is recreated.
func (e *Engine) acquire(requested string) (string, func()) {
	id := e.sessions.GetOrCreate(requested)
	for {
		unlock := e.sessions.LockTurn(id)
		if e.sessions.Exists(id) {
			return id, unlock
		}
		unlock()
		id = e.sessions.GetOrCreate(id)
	}
}

func (e *Engine) generate(ctx context.Context, req Request, mode prompt.Mode, prior []session.ChatMessage) (string, []store.Document, Path) {
	if e.llm == nil {
		return ApologyReply, []store.Document{}, PathApology
	}

	if e.retriever != nil {
		reply, docs, err := e.answerWithRetrieval(ctx, req, mode, prior)
		if err == nil {
			return reply, docs, PathRAG
		}
		e.logger.Warn(logModule, "Retrieval answer failed, falling back to direct generation", map[string]interface{}{
			"error": err.Error(),
		})
	}

	reply, err := e.llm.Generate(ctx, prompt.Direct(req.Message, req.Language))
	if err == nil && strings.TrimSpace(reply) != "" {
		return reply, []store.Document{}, PathDirect
	}
	if err != nil {
		e.logger.Error(logModule, "Direct generation failed", map[string]interface{}{"error": err.Error()})
	}
	return ApologyReply, []store.Document{}, PathApology
}

func (e *Engine) answerWithRetrieval(ctx context.Context, req Request, mode prompt.Mode, prior []session.ChatMessage) (string, []store.Document, error) {
	query, err := e.rewrite(ctx, prior, req.Message)
	if err != nil {
		return "", nil, err
	}

	docs, err := e.retriever.Retrieve(ctx, query, e.topK)
	if err != nil {
		return "", nil, err
	}
	if docs == nil {
		docs = []store.Document{}
	}

	spec := prompt.Build(mode, req.Language, req.CustomPrompt)
	messages := history.Conversation(spec.Render(store.JoinContent(docs)), prior, req.Message)

	reply, err := e.llm.Chat(ctx, messages)
	if err != nil {
		return "", nil, err
	}
	if strings.TrimSpace(reply) == "" {
		return "", nil, llm.ErrEmptyResponse
	}
	return reply, docs, nil
}

// rewrite turns a follow-up into a standalone query. Without prior turns the message passes through.
func (e *Engine) rewrite(ctx context.Context, prior []session.ChatMessage, message string) (string, error) {
	if len(prior) == 0 {
		return message, nil
	}

	out, err := e.llm.Chat(ctx, history.Conversation(prompt.RewriteInstruction, prior, message), llm.WithTemperature(0.1))
	if err != nil {
		return "", err
	}
	if q := strings.TrimSpace(out); q != "" {
		return q, nil
	}
	return message, nil
}
