package dto

import "time"

type SendChatRequest struct {
	Message      string `json:"message" validate:"notblank,max=4000"`
	SessionId    string `json:"session_id,omitempty" validate:"max=64"`
	CustomPrompt string `json:"custom_prompt,omitempty" validate:"max=4000"`
	Language     string `json:"language,omitempty" validate:"max=32"`
}

type ChatMessageDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SendChatResponse struct {
	Success        bool             `json:"success"`
	Reply          string           `json:"reply"`
	SessionId      string           `json:"session_id"`
	History        []ChatMessageDTO `json:"history"`
	ProcessingTime float64          `json:"processing_time"`
	Mode           string           `json:"mode"`
}

type NewSessionResponse struct {
	SessionId string `json:"session_id"`
}

type ChatHistoryResponse struct {
	SessionId    string           `json:"session_id"`
	History      []ChatMessageDTO `json:"history"`
	MessageCount int              `json:"message_count"`
}

type ClearHistoryResponse struct {
	SessionId string `json:"session_id"`
	Cleared   bool   `json:"cleared"`
}

type ContextDocumentsResponse struct {
	SessionId string        `json:"session_id"`
	Documents []DocumentDTO `json:"documents"`
}

type SessionStatsResponse struct {
	TotalSessions         int     `json:"total_sessions"`
	TotalMessages         int     `json:"total_messages"`
	MaxSessions           int     `json:"max_sessions"`
	MaxMessagesPerSession int     `json:"max_messages_per_session"`
	SessionTimeoutSeconds float64 `json:"session_timeout_seconds"`
	SessionTimeoutHours   float64 `json:"session_timeout_hours"`
}
