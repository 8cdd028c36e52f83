// Package prompt selects the system prompt for a chat turn.
package prompt

import (
	"strings"
)

type Mode string

const (
	ModeDefault Mode = "default"
	ModeCustom  Mode = "custom"
)

const (
	ContextPlaceholder = "{context}"
	DefaultLanguage    = "korean"

	// DefaultInstruction is the legal assistant system prompt used when no custom prompt is set.
	DefaultInstruction = "질문에 검색된 문서 내용을 바탕으로 답변하세요. 답을 모르면 모른다고 하세요. " +
		"답변은 20자 이내로 간결하고 명확하게 작성하세요. 법률과 관련된 질문에만 답변하세요. " +
		"관련되지 않을 경우 법률과 관련된 질문을 할 수 있도록 유도하는 말을 해주세요."

	// RewriteInstruction turns a follow-up question into a standalone query.
	RewriteInstruction = "이전 대화 내용과 사용자 질문을 바탕으로, 문맥 없이도 이해할 수 있도록 질문을 다시 표현하세요."

	referenceLabel = "참고 문서: "
)

var languageInstructions = map[string]string{
	"korean":     "한국어로 답변하세요.",
	"english":    "Please respond in English.",
	"chinese":    "请用中文回答。",
	"vietnamese": "Vui lòng trả lời bằng tiếng Việt.",
	"japanese":   "日本語で答えてください.",
	"thai":       "กรุณาตอบเป็นภาษาไทย",
	"indonesian": "Silakan jawab dalam bahasa Indonesia.",
	"tagalog":    "Mangyaring sumagot sa wikang Filipino.",
	"spanish":    "Por favor responde en español.",
	"french":     "Veuillez répondre en français.",
}

// LanguageInstruction returns the answer-language line; unknown languages get Korean.
func LanguageInstruction(language string) string {
	if s, ok := languageInstructions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return s
	}
	return languageInstructions[DefaultLanguage]
}

// SupportedLanguage reports whether language has its own instruction.
func SupportedLanguage(language string) bool {
	_, ok := languageInstructions[strings.ToLower(strings.TrimSpace(language))]
	return ok
}

// Spec is a resolved system prompt template.
type Spec struct {
	Mode     Mode
	Language string
	Template string
}

// Build resolves the system prompt for a turn. ModeCustom with blank text falls back to the default.
func Build(mode Mode, language, customText string) Spec {
	lang := LanguageInstruction(language)
	custom := strings.TrimSpace(customText)

	if mode != ModeCustom || custom == "" {
		return Spec{
			Mode:     ModeDefault,
			Language: lang,
			Template: DefaultInstruction + "\n\n" + referenceLabel + ContextPlaceholder + "\n\n" + lang,
		}
	}

	tmpl := customText
	if !strings.Contains(customText, ContextPlaceholder) {
		tmpl += "\n\n" + referenceLabel + ContextPlaceholder
	}
	return Spec{
		Mode:     ModeCustom,
		Language: lang,
		Template: tmpl + "\n\n" + lang,
	}
}

// ModeFor maps an optional custom prompt to its mode.
func ModeFor(customText string) Mode {
	if strings.TrimSpace(customText) != "" {
		return ModeCustom
	}
	return ModeDefault
}

// Render substitutes the retrieved document text into the template.
func (s Spec) Render(context string) string {
	return strings.ReplaceAll(s.Template, ContextPlaceholder, context)
}

// Direct is the prompt used when retrieval is unavailable.
func Direct(message, language string) string {
	return "법률 상담 질문에 답변해주세요: " + message + "\n\n" + LanguageInstruction(language)
}
