package store

import "strings"

// Document is one retrieved legal passage.
type Document struct {
	ID       string         `json:"id,omitempty"`
	Content  string         `json:"content"`
	Source   string         `json:"source"`
	Score    float64        `json:"relevance_score"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// JoinContent concatenates document bodies in retrieval order, separated by a blank line.
func JoinContent(docs []Document) string {
	parts := make([]string, 0, len(docs))
	for _, d := range docs {
		if c := strings.TrimSpace(d.Content); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, "\n\n")
}
