package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "github.com/flpflJ/crypto-chat/internal/chat/model"
)

func msg(from, text string) *model.Message {
	return &model.Message{
		ID:        uuid.New(),
		From:      from,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
}

func TestMemoryStore_AppendAndHistory(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice-bob", msg("alice", "hi")))
	require.NoError(t, store.Append(ctx, "alice-bob", msg("bob", "hello")))

	history, err := store.History(ctx, "alice-bob")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].Text)
	assert.Equal(t, "hello", history[1].Text)
	assert.Less(t, history[0].Seq, history[1].Seq)
}

func TestMemoryStore_HistoryUnknownKey(t *testing.T) {
	store := NewMemoryStore()

	history, err := store.History(context.Background(), "no-such")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestMemoryStore_LogsAreIsolated(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice-bob", msg("alice", "to bob")))
	require.NoError(t, store.Append(ctx, "alice-carol", msg("alice", "to carol")))

	history, err := store.History(ctx, "alice-bob")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "to bob", history[0].Text)
}

func TestMemoryStore_ConcurrentAppends(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	const n = 100
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			sender := "alice"
			if i%2 == 1 {
				sender = "bob"
			}
			assert.NoError(t, store.Append(ctx, "alice-bob", msg(sender, fmt.Sprintf("msg-%d", i))))
		}(i)
	}
	wg.Wait()

	history, err := store.History(ctx, "alice-bob")
	require.NoError(t, err)
	require.Len(t, history, n)

	// exactly once each, no duplicates, no loss
	seen := make(map[string]bool, n)
	for _, m := range history {
		assert.False(t, seen[m.Text], "duplicate %s", m.Text)
		seen[m.Text] = true
	}
	assert.Len(t, seen, n)
}

func TestMemoryStore_HistorySnapshotIsStable(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "alice-bob", msg("alice", "first")))

	history, err := store.History(ctx, "alice-bob")
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "alice-bob", msg("bob", "second")))

	// the earlier snapshot must not observe the later append
	assert.Len(t, history, 1)
}
