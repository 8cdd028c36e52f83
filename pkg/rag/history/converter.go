package history

import (
	"lawro-be/pkg/llm"
	"lawro-be/pkg/rag/session"
)

// ToLLMMessages maps stored chat turns onto the provider message format, skipping blank entries.
func ToLLMMessages(msgs []session.ChatMessage) []llm.Message {
	out := make([]llm.Message, 0, len(msgs))
	for _, m := range msgs {
		if m.Content == "" {
			continue
		}
		role := llm.RoleUser
		if m.Role == session.RoleAssistant {
			role = llm.RoleAssistant
		}
		out = append(out, llm.Message{Role: role, Content: m.Content})
	}
	return out
}

// Conversation builds a provider request: system prompt, prior turns, then the new user message.
func Conversation(system string, prior []session.ChatMessage, message string) []llm.Message {
	msgs := make([]llm.Message, 0, len(prior)+2)
	if system != "" {
		msgs = append(msgs, llm.Message{Role: llm.RoleSystem, Content: system})
	}
	msgs = append(msgs, ToLLMMessages(prior)...)
	return append(msgs, llm.Message{Role: llm.RoleUser, Content: message})
}
