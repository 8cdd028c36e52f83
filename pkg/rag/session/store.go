package session

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"lawro-be/internal/pkg/logger"

	"github.com/google/uuid"
)

const logModule = "SESSION_STORE"

type session struct {
	id                 string
	messages           []ChatMessage
	lastActivity       time.Time
	createdAt          time.Time
	customPromptActive bool

	// turn serializes conversation turns on this session.
	turn sync.Mutex
	// inFlight counts turns holding or waiting for turn. Guarded by Store.mu.
	inFlight int
}

// Store is the in-memory, multi-user chat session registry.
// Every mutation happens under one store wide mutex.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session

	cfg    Config
	now    func() time.Time
	logger logger.ILogger

	started  atomic.Bool
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(cfg Config, log logger.ILogger, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*session),
		cfg:      cfg,
		now:      time.Now,
		logger:   log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the eviction janitor. It runs until Stop is called.
func (s *Store) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	if s.cfg.CleanupInterval <= 0 {
		close(s.done)
		return
	}

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.cfg.CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep()
			case <-s.stop:
				return
			}
		}
	}()

	s.logger.Info(logModule, "Session janitor started", map[string]interface{}{
		"interval":     s.cfg.CleanupInterval.String(),
		"ttl":          s.cfg.TTL.String(),
		"max_sessions": s.cfg.MaxSessions,
	})
}

// Stop halts the janitor and waits for it to exit.
func (s *Store) Stop() {
	if !s.started.Load() {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

// GetOrCreate returns id when it names a live session and touches it.
// Otherwise a new session is registered under a fresh UUID.
func (s *Store) GetOrCreate(id string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[id]; ok && id != "" {
		sess.lastActivity = now
		return id
	}

	newID := uuid.NewString()
	s.sessions[newID] = &session{
		id:           newID,
		messages:     []ChatMessage{},
		lastActivity: now,
		createdAt:    now,
	}

	details := map[string]interface{}{"session_id": newID}
	if id != "" {
		details["requested_id"] = id
	}
	s.logger.Debug(logModule, "Session created", details)
	return newID
}

func (s *Store) Exists(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[id]
	return ok
}

// Append adds a message to the session, dropping the oldest half when the cap is exceeded.
// It returns false when the session no longer exists.
func (s *Store) Append(id string, msg ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}

	if msg.Timestamp.IsZero() {
		msg.Timestamp = s.now()
	}
	sess.messages = append(sess.messages, msg)
	sess.lastActivity = s.now()

	if s.cfg.MaxMessages > 0 && len(sess.messages) > s.cfg.MaxMessages {
		keep := s.cfg.KeepCount()
		trimmed := make([]ChatMessage, keep)
		copy(trimmed, sess.messages[len(sess.messages)-keep:])
		sess.messages = trimmed

		s.logger.Debug(logModule, "Session history trimmed", map[string]interface{}{
			"session_id": id,
			"kept":       keep,
		})
	}
	return true
}

// History returns a copy of the session messages, optionally without the last one.
func (s *Store) History(id string, excludeLast bool) []ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return []ChatMessage{}
	}

	messages := sess.messages
	if excludeLast && len(messages) > 0 {
		messages = messages[:len(messages)-1]
	}
	out := make([]ChatMessage, len(messages))
	copy(out, messages)
	return out
}

// Clear empties the message list but keeps the session, so its id stays usable.
// The custom prompt flag is reset as well.
func (s *Store) Clear(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.messages = []ChatMessage{}
	sess.customPromptActive = false
	sess.lastActivity = s.now()
	return true
}

// Delete removes the session entirely.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return false
	}
	delete(s.sessions, id)
	return true
}

// BeginTurn applies the prompt mode transition for a new turn.
// A custom prompt activates custom mode and empties the history; a plain turn after
// a custom one only clears the flag. It reports whether the history was reset.
func (s *Store) BeginTurn(id string, customPrompt bool) (reset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return false
	}
	sess.lastActivity = s.now()

	if customPrompt {
		sess.customPromptActive = true
		sess.messages = []ChatMessage{}
		return true
	}
	if sess.customPromptActive {
		sess.customPromptActive = false
		s.logger.Debug(logModule, "Session reverted to default prompt", map[string]interface{}{
			"session_id": id,
		})
	}
	return false
}

func (s *Store) CustomPromptActive(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	return ok && sess.customPromptActive
}

// LockTurn blocks until no other turn runs on the session and returns the release func.
// A session with a turn in flight is never swept. Unknown sessions get a no-op release.
func (s *Store) LockTurn(id string) func() {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok {
		sess.inFlight++
	}
	s.mu.Unlock()

	if !ok {
		return func() {}
	}
	sess.turn.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			sess.turn.Unlock()
			s.mu.Lock()
			sess.inFlight--
			s.mu.Unlock()
		})
	}
}

// Sweep evicts expired sessions, then the least recently active ones while over capacity.
// Sessions with a turn in flight are skipped. It returns how many sessions were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	expired := 0
	if s.cfg.TTL > 0 {
		for id, sess := range s.sessions {
			if sess.inFlight == 0 && now.Sub(sess.lastActivity) > s.cfg.TTL {
				delete(s.sessions, id)
				expired++
			}
		}
	}

	evicted := 0
	if s.cfg.MaxSessions > 0 && len(s.sessions) > s.cfg.MaxSessions {
		ordered := make([]*session, 0, len(s.sessions))
		for _, sess := range s.sessions {
			if sess.inFlight == 0 {
				ordered = append(ordered, sess)
			}
		}
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].lastActivity.Before(ordered[j].lastActivity)
		})

		overflow := len(s.sessions) - s.cfg.MaxSessions
		if overflow > len(ordered) {
			overflow = len(ordered)
		}
		for _, sess := range ordered[:overflow] {
			delete(s.sessions, sess.id)
			evicted++
		}
	}

	if expired > 0 || evicted > 0 {
		s.logger.Info(logModule, "Sessions swept", map[string]interface{}{
			"expired":   expired,
			"evicted":   evicted,
			"remaining": len(s.sessions),
		})
	}
	return expired + evicted
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, sess := range s.sessions {
		total += len(sess.messages)
	}
	return Stats{
		TotalSessions:  len(s.sessions),
		TotalMessages:  total,
		MaxSessions:    s.cfg.MaxSessions,
		MaxMessages:    s.cfg.MaxMessages,
		SessionTimeout: s.cfg.TTL,
	}
}
