package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name       string
		fields     FieldResult
		violations int
		wantScore  float64
		wantRecs   []string
	}{
		{
			name:      "complete and clean",
			fields:    FieldResult{CompletionRate: 100},
			wantScore: 100,
			wantRecs:  []string{},
		},
		{
			name:       "floored at zero",
			fields:     FieldResult{CompletionRate: 50, Missing: map[string][]string{"임금": {"수당"}}},
			violations: 6,
			wantScore:  0,
			wantRecs:   []string{RecommendAddMissing, RecommendFixViolations, RecommendMoreCompletion},
		},
		{
			name:       "penalty per violation",
			fields:     FieldResult{CompletionRate: 90, Missing: map[string][]string{"임금": {"수당"}}},
			violations: 2,
			wantScore:  70,
			wantRecs:   []string{RecommendAddMissing, RecommendFixViolations},
		},
		{
			name:      "below completion target",
			fields:    FieldResult{CompletionRate: 79.9},
			wantScore: 79.9,
			wantRecs:  []string{RecommendMoreCompletion},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := ViolationReport{Count: tt.violations}
			score, recs := Score(tt.fields, report)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, tt.wantRecs, recs)
		})
	}
}
