// Package legal asks the generation backend for contract verdicts and statute summaries.
package legal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"lawro-be/pkg/llm"
)

const (
	// JudgmentFailed is shown when the backend could not produce any verdict.
	JudgmentFailed = "판단 중 오류가 발생했습니다."

	maxContractRunes = 8000
)

const judgmentInstruction = "당신은 한국 근로기준법 전문가입니다. 주어진 근로계약서 내용을 검토하고 " +
	"근로기준법 준수 여부를 판단하세요. 반드시 다음 JSON 형식으로만 답변하세요: " +
	`{"judgment": "<판단 내용>", "confidence_score": <0과 1 사이의 숫자>}`

// Verdict is the backend's opinion on a contract.
// Raw is set when the reply was not valid JSON and Judgment holds the reply verbatim.
type Verdict struct {
	Judgment   string
	Confidence float64
	Raw        bool
}

type Judge struct {
	llm llm.LLMProvider
}

func NewJudge(provider llm.LLMProvider) *Judge {
	return &Judge{llm: provider}
}

// Evaluate asks for a verdict on text, optionally focused on the given areas.
func (j *Judge) Evaluate(ctx context.Context, text string, focusAreas []string) (Verdict, error) {
	if j.llm == nil {
		return Verdict{}, fmt.Errorf("judge: no generation backend configured")
	}

	reply, err := j.llm.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: judgmentInstruction},
		{Role: llm.RoleUser, Content: JudgmentPrompt(text, focusAreas)},
	}, llm.WithTemperature(0.1))
	if err != nil {
		return Verdict{}, fmt.Errorf("judge: %w", err)
	}
	return ParseVerdict(reply), nil
}

// JudgmentPrompt renders the user turn of a judgment request. Long contracts are truncated.
func JudgmentPrompt(text string, focusAreas []string) string {
	var b strings.Builder
	b.WriteString("근로계약서 내용:\n")
	b.WriteString(truncateRunes(strings.TrimSpace(text), maxContractRunes))

	var focus []string
	for _, area := range focusAreas {
		if a := strings.TrimSpace(area); a != "" {
			focus = append(focus, a)
		}
	}
	if len(focus) > 0 {
		b.WriteString("\n\n중점 검토 항목: ")
		b.WriteString(strings.Join(focus, ", "))
	}
	return b.String()
}

type verdictPayload struct {
	Judgment        string   `json:"judgment"`
	ConfidenceScore *float64 `json:"confidence_score"`
}

// ParseVerdict extracts the JSON verdict from a reply, tolerating code fences and surrounding prose.
// Anything unparseable is returned as a raw verdict with zero confidence.
func ParseVerdict(reply string) Verdict {
	trimmed := strings.TrimSpace(reply)
	raw := Verdict{Judgment: trimmed, Raw: true}

	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start < 0 || end <= start {
		return raw
	}

	var payload verdictPayload
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), &payload); err != nil {
		return raw
	}
	judgment := strings.TrimSpace(payload.Judgment)
	if judgment == "" {
		return raw
	}

	confidence := 0.0
	if payload.ConfidenceScore != nil {
		confidence = clamp(*payload.ConfidenceScore, 0, 1)
	}
	return Verdict{Judgment: judgment, Confidence: confidence}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
