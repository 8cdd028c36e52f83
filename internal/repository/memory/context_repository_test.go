package memory

import (
	"testing"
	"time"

	"lawro-be/pkg/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextRepository(t *testing.T) {
	repo := NewContextRepository(time.Minute, time.Minute)

	_, ok := repo.Get("s1")
	assert.False(t, ok)

	docs := []store.Document{{Content: "제60조 연차 유급휴가", Source: "근로기준법"}}
	repo.Record("s1", docs)
	docs[0].Content = "mutated"

	got, ok := repo.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "제60조 연차 유급휴가", got[0].Content)

	got[0].Source = "mutated"
	again, _ := repo.Get("s1")
	assert.Equal(t, "근로기준법", again[0].Source)

	repo.Record("s1", []store.Document{})
	empty, ok := repo.Get("s1")
	assert.True(t, ok)
	assert.Empty(t, empty)

	repo.Delete("s1")
	_, ok = repo.Get("s1")
	assert.False(t, ok)
}

func TestContextRepository_Expiry(t *testing.T) {
	repo := NewContextRepository(20*time.Millisecond, 5*time.Millisecond)
	repo.Record("s1", []store.Document{{Content: "x"}})

	assert.Eventually(t, func() bool {
		_, ok := repo.Get("s1")
		return !ok
	}, time.Second, 10*time.Millisecond)
}
