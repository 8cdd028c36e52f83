package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"lawro-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore(cfg Config) (*Store, *fakeClock) {
	clock := newFakeClock()
	return NewStore(cfg, logger.NewNopLogger(), WithClock(clock.Now)), clock
}

func userMsg(content string) ChatMessage {
	return ChatMessage{Role: RoleUser, Content: content}
}

func TestGetOrCreate(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())

	first := store.GetOrCreate("")
	second := store.GetOrCreate("")
	assert.NotEqual(t, first, second)
	assert.True(t, store.Exists(first))
	assert.True(t, store.Exists(second))

	assert.Equal(t, first, store.GetOrCreate(first))

	unknown := store.GetOrCreate("evicted-or-made-up")
	assert.NotEqual(t, "evicted-or-made-up", unknown)
	assert.True(t, store.Exists(unknown))
	assert.False(t, store.Exists("evicted-or-made-up"))
}

func TestAppendTrimsToKeepCount(t *testing.T) {
	store, _ := newTestStore(Config{MaxMessages: 6})
	id := store.GetOrCreate("")

	for i := 1; i <= 7; i++ {
		require.True(t, store.Append(id, userMsg(fmt.Sprintf("m%d", i))))
	}

	history := store.History(id, false)
	require.Len(t, history, 3)
	assert.Equal(t, "m5", history[0].Content)
	assert.Equal(t, "m6", history[1].Content)
	assert.Equal(t, "m7", history[2].Content)
}

func TestAppendDefaultCap(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())
	id := store.GetOrCreate("")

	for i := 1; i <= 50; i++ {
		store.Append(id, userMsg(fmt.Sprintf("m%d", i)))
	}
	assert.Len(t, store.History(id, false), 50)

	store.Append(id, userMsg("m51"))
	history := store.History(id, false)
	require.Len(t, history, 25)
	assert.Equal(t, "m27", history[0].Content)
	assert.Equal(t, "m51", history[24].Content)
}

func TestAppendUnknownSession(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())
	assert.False(t, store.Append("nope", userMsg("hi")))
}

func TestAppendStampsTimestamp(t *testing.T) {
	store, clock := newTestStore(DefaultConfig())
	id := store.GetOrCreate("")

	store.Append(id, userMsg("hi"))
	assert.Equal(t, clock.Now(), store.History(id, false)[0].Timestamp)
}

func TestHistoryIsDefensiveCopy(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())
	id := store.GetOrCreate("")
	store.Append(id, userMsg("one"))
	store.Append(id, ChatMessage{Role: RoleAssistant, Content: "two"})

	history := store.History(id, false)
	history[0].Content = "mutated"
	assert.Equal(t, "one", store.History(id, false)[0].Content)

	withoutLast := store.History(id, true)
	require.Len(t, withoutLast, 1)
	assert.Equal(t, "one", withoutLast[0].Content)

	assert.Empty(t, store.History("missing", false))
	assert.Empty(t, store.History(store.GetOrCreate(""), true))
}

func TestClearKeepsSession(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())
	id := store.GetOrCreate("")
	store.Append(id, userMsg("hi"))
	store.BeginTurn(id, true)

	assert.True(t, store.Clear(id))
	assert.True(t, store.Exists(id))
	assert.Empty(t, store.History(id, false))
	assert.False(t, store.CustomPromptActive(id))
	assert.Equal(t, id, store.GetOrCreate(id))

	assert.False(t, store.Clear("missing"))
}

func TestDelete(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())
	id := store.GetOrCreate("")

	assert.True(t, store.Delete(id))
	assert.False(t, store.Exists(id))
	assert.False(t, store.Delete(id))
}

func TestBeginTurnTransitions(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())
	id := store.GetOrCreate("")
	store.Append(id, userMsg("before"))

	assert.False(t, store.BeginTurn(id, false))
	assert.Len(t, store.History(id, false), 1)

	assert.True(t, store.BeginTurn(id, true))
	assert.True(t, store.CustomPromptActive(id))
	assert.Empty(t, store.History(id, false))

	store.Append(id, userMsg("custom turn"))
	assert.False(t, store.BeginTurn(id, false))
	assert.False(t, store.CustomPromptActive(id))
	assert.Len(t, store.History(id, false), 1)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	store, clock := newTestStore(DefaultConfig())
	idle := store.GetOrCreate("")
	clock.Advance(3 * time.Minute)
	active := store.GetOrCreate("")

	clock.Advance(3 * time.Minute)
	assert.Equal(t, 1, store.Sweep())

	assert.False(t, store.Exists(idle))
	assert.True(t, store.Exists(active))
	assert.NotEqual(t, idle, store.GetOrCreate(idle))
}

func TestSweepTouchKeepsSessionAlive(t *testing.T) {
	store, clock := newTestStore(DefaultConfig())
	id := store.GetOrCreate("")

	clock.Advance(4 * time.Minute)
	store.Append(id, userMsg("still here"))
	clock.Advance(4 * time.Minute)

	assert.Zero(t, store.Sweep())
	assert.True(t, store.Exists(id))
}

func TestSweepEvictsLeastRecentlyActive(t *testing.T) {
	store, clock := newTestStore(Config{MaxSessions: 2})

	oldest := store.GetOrCreate("")
	clock.Advance(time.Second)
	middle := store.GetOrCreate("")
	clock.Advance(time.Second)
	newest := store.GetOrCreate("")
	clock.Advance(time.Second)
	store.GetOrCreate(oldest)

	assert.Equal(t, 1, store.Sweep())
	assert.True(t, store.Exists(oldest))
	assert.False(t, store.Exists(middle))
	assert.True(t, store.Exists(newest))
}

func TestSweepSkipsSessionsWithTurnInFlight(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		store, clock := newTestStore(DefaultConfig())
		id := store.GetOrCreate("")
		release := store.LockTurn(id)

		clock.Advance(10 * time.Minute)
		assert.Zero(t, store.Sweep())
		require.True(t, store.Exists(id))

		assert.True(t, store.Append(id, userMsg("question")))
		assert.True(t, store.Append(id, ChatMessage{Role: RoleAssistant, Content: "answer"}))
		release()
		assert.Len(t, store.History(id, false), 2)

		clock.Advance(10 * time.Minute)
		assert.Equal(t, 1, store.Sweep())
		assert.False(t, store.Exists(id))
	})

	t.Run("over capacity", func(t *testing.T) {
		store, clock := newTestStore(Config{MaxSessions: 1})
		busy := store.GetOrCreate("")
		release := store.LockTurn(busy)
		defer release()

		clock.Advance(time.Second)
		idle := store.GetOrCreate("")

		assert.Equal(t, 1, store.Sweep())
		assert.True(t, store.Exists(busy))
		assert.False(t, store.Exists(idle))
		assert.True(t, store.Append(busy, userMsg("question")))
	})

	t.Run("only busy sessions over capacity", func(t *testing.T) {
		store, _ := newTestStore(Config{MaxSessions: 1})
		a, b := store.GetOrCreate(""), store.GetOrCreate("")
		releaseA, releaseB := store.LockTurn(a), store.LockTurn(b)

		assert.Zero(t, store.Sweep())
		releaseA()
		releaseA()
		releaseB()
		assert.Equal(t, 1, store.Sweep())
	})
}

func TestJanitorRunsSweep(t *testing.T) {
	clock := newFakeClock()
	store := NewStore(Config{TTL: time.Minute, CleanupInterval: 5 * time.Millisecond}, logger.NewNopLogger(), WithClock(clock.Now))
	id := store.GetOrCreate("")
	clock.Advance(2 * time.Minute)

	store.Start()
	defer store.Stop()

	assert.Eventually(t, func() bool {
		return !store.Exists(id)
	}, time.Second, 5*time.Millisecond)
}

func TestStopWithoutStart(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())
	assert.NotPanics(t, store.Stop)
}

func TestLockTurnSerializesSameSession(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())
	id := store.GetOrCreate("")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			release := store.LockTurn(id)
			defer release()
			store.Append(id, userMsg(fmt.Sprintf("q%d", i)))
			store.Append(id, ChatMessage{Role: RoleAssistant, Content: fmt.Sprintf("a%d", i)})
		}(i)
	}
	wg.Wait()

	history := store.History(id, false)
	require.Len(t, history, 40)
	for i := 0; i < len(history); i += 2 {
		assert.Equal(t, RoleUser, history[i].Role)
		assert.Equal(t, RoleAssistant, history[i+1].Role)
		assert.Equal(t, history[i].Content[1:], history[i+1].Content[1:])
	}
}

func TestConcurrentSessions(t *testing.T) {
	store, _ := newTestStore(DefaultConfig())

	var wg sync.WaitGroup
	ids := make([]string, 50)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = store.GetOrCreate("")
			store.Append(ids[i], userMsg("hello"))
		}(i)
	}
	wg.Wait()

	stats := store.Stats()
	assert.Equal(t, 50, stats.TotalSessions)
	assert.Equal(t, 50, stats.TotalMessages)
	assert.Equal(t, 1000, stats.MaxSessions)
	assert.Equal(t, 5*time.Minute, stats.SessionTimeout)
}
