package session

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one immutable turn half. Messages are only ever appended to a session.
type ChatMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Config bounds the store. Zero TTL disables expiry, zero MaxMessages disables trimming
// and zero MaxSessions disables capacity eviction.
type Config struct {
	MaxMessages     int
	TTL             time.Duration
	CleanupInterval time.Duration
	MaxSessions     int
}

func DefaultConfig() Config {
	return Config{
		MaxMessages:     50,
		TTL:             5 * time.Minute,
		CleanupInterval: time.Minute,
		MaxSessions:     1000,
	}
}

// KeepCount is how many recent messages survive when a session exceeds MaxMessages.
func (c Config) KeepCount() int {
	keep := c.MaxMessages / 2
	if keep < 1 {
		keep = 1
	}
	return keep
}

type Stats struct {
	TotalSessions  int           `json:"total_sessions"`
	TotalMessages  int           `json:"total_messages"`
	MaxSessions    int           `json:"max_sessions"`
	MaxMessages    int           `json:"max_messages_per_session"`
	SessionTimeout time.Duration `json:"session_timeout"`
}
