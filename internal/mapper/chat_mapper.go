package mapper

import (
	"lawro-be/internal/dto"
	"lawro-be/pkg/rag/session"
	"lawro-be/pkg/store"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) MessagesToDTO(msgs []session.ChatMessage) []dto.ChatMessageDTO {
	out := make([]dto.ChatMessageDTO, len(msgs))
	for i, msg := range msgs {
		out[i] = dto.ChatMessageDTO{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}
	return out
}

func (m *ChatMapper) DocumentsToDTO(docs []store.Document) []dto.DocumentDTO {
	out := make([]dto.DocumentDTO, len(docs))
	for i, d := range docs {
		out[i] = dto.DocumentDTO{
			Content:        d.Content,
			Source:         d.Source,
			RelevanceScore: d.Score,
		}
	}
	return out
}

func (m *ChatMapper) StatsToDTO(s session.Stats) *dto.SessionStatsResponse {
	return &dto.SessionStatsResponse{
		TotalSessions:         s.TotalSessions,
		TotalMessages:         s.TotalMessages,
		MaxSessions:           s.MaxSessions,
		MaxMessagesPerSession: s.MaxMessages,
		SessionTimeoutSeconds: s.SessionTimeout.Seconds(),
		SessionTimeoutHours:   s.SessionTimeout.Hours(),
	}
}
