package legal

import (
	"context"
	"fmt"
	"strings"

	"lawro-be/internal/pkg/logger"
	"lawro-be/pkg/llm"
	"lawro-be/pkg/rag/search"
	"lawro-be/pkg/store"
)

const (
	DefaultMaxResults = 4

	// SearchFailed is the result text when retrieval itself failed.
	SearchFailed = "검색 중 오류가 발생했습니다."

	// NoDocumentsFound is the result text when the corpus has nothing relevant.
	NoDocumentsFound = "관련 법률 조항을 찾지 못했습니다."

	lookupLogModule = "LEGAL_LOOKUP"
)

const summaryInstruction = "당신은 한국 노동법 전문가입니다. 아래 참고 문서만을 근거로 질문에 대한 법률 검토 결과를 " +
	"간결하게 작성하세요. 참고 문서에 없는 내용은 추측하지 마세요."

// Finding is a statute lookup result.
type Finding struct {
	Summary   string
	Documents []store.Document
}

type Lookup struct {
	retriever  search.Retriever
	llm        llm.LLMProvider
	maxResults int
	logger     logger.ILogger
}

// NewLookup builds a statute lookup returning maxResults passages unless a search asks otherwise.
// Without a provider the summary lists the sources instead.
func NewLookup(retriever search.Retriever, provider llm.LLMProvider, maxResults int, log logger.ILogger) *Lookup {
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}
	return &Lookup{retriever: retriever, llm: provider, maxResults: maxResults, logger: log}
}

// Search retrieves up to maxResults passages for query and summarizes them.
// Only a retrieval failure is an error; a failed summary degrades to a source listing.
func (l *Lookup) Search(ctx context.Context, query string, maxResults int) (Finding, error) {
	if l.retriever == nil {
		return Finding{}, fmt.Errorf("lookup: no legal corpus configured")
	}
	if maxResults <= 0 {
		maxResults = l.maxResults
	}

	docs, err := l.retriever.Retrieve(ctx, query, maxResults)
	if err != nil {
		return Finding{}, fmt.Errorf("lookup: %w", err)
	}
	if len(docs) == 0 {
		return Finding{Summary: NoDocumentsFound, Documents: []store.Document{}}, nil
	}

	summary, err := l.summarize(ctx, query, docs)
	if err != nil {
		l.logger.Warn(lookupLogModule, "Summary generation failed, listing sources", map[string]interface{}{
			"error": err.Error(),
		})
		summary = SourceListing(query, docs)
	}
	return Finding{Summary: summary, Documents: docs}, nil
}

func (l *Lookup) summarize(ctx context.Context, query string, docs []store.Document) (string, error) {
	if l.llm == nil {
		return "", fmt.Errorf("no generation backend configured")
	}
	reply, err := l.llm.Chat(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: summaryInstruction + "\n\n참고 문서: " + store.JoinContent(docs)},
		{Role: llm.RoleUser, Content: query},
	}, llm.WithTemperature(0.2))
	if err != nil {
		return "", err
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "", llm.ErrEmptyResponse
	}
	return reply, nil
}

// SourceListing is the plain summary used when no generated one is available.
func SourceListing(query string, docs []store.Document) string {
	sources := make([]string, 0, len(docs))
	seen := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.Source == "" || seen[d.Source] {
			continue
		}
		seen[d.Source] = true
		sources = append(sources, d.Source)
	}
	if len(sources) == 0 {
		return fmt.Sprintf("'%s'에 대한 관련 조항 %d건을 찾았습니다.", query, len(docs))
	}
	return fmt.Sprintf("'%s'에 대한 관련 조항: %s", query, strings.Join(sources, ", "))
}
