package cache

import (
	"context"
	"testing"
	"time"

	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan sheetimport.Progress) sheetimport.Progress {
	t.Helper()
	select {
	case p, ok := <-ch:
		require.True(t, ok, "channel closed")
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for progress")
		return sheetimport.Progress{}
	}
}

func TestInMemoryProgressStore_Latest(t *testing.T) {
	store := NewInMemoryProgressStore()
	defer store.Close()
	ctx := context.Background()

	latest, err := store.Latest(ctx)
	require.NoError(t, err)
	assert.Nil(t, latest)

	require.NoError(t, store.Publish(ctx, sheetimport.Progress{RunID: "r1", State: sheetimport.StateUploading, Current: 1, Total: 4}))
	require.NoError(t, store.Publish(ctx, sheetimport.Progress{RunID: "r1", State: sheetimport.StateUploading, Current: 2, Total: 4}))

	latest, err = store.Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, latest)
	assert.Equal(t, 2, latest.Current)

	// Callers get a copy
	latest.Current = 99
	again, _ := store.Latest(ctx)
	assert.Equal(t, 2, again.Current)
}

func TestInMemoryProgressStore_Subscribe(t *testing.T) {
	store := NewInMemoryProgressStore()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	first, err := store.Subscribe(ctx)
	require.NoError(t, err)
	second, err := store.Subscribe(ctx)
	require.NoError(t, err)

	p := sheetimport.Progress{RunID: "r1", State: sheetimport.StateSuccess, Summary: &sheetimport.Summary{Imported: 3, Total: 3}}
	require.NoError(t, store.Publish(context.Background(), p))

	assert.Equal(t, sheetimport.StateSuccess, receive(t, first).State)
	assert.Equal(t, 3, receive(t, second).Summary.Imported)

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-first
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestInMemoryProgressStore_SlowSubscriberKeepsNewest(t *testing.T) {
	store := NewInMemoryProgressStore()
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := store.Subscribe(ctx)
	require.NoError(t, err)

	total := subscriberBuffer + 10
	for i := 1; i <= total; i++ {
		require.NoError(t, store.Publish(context.Background(), sheetimport.Progress{Current: i, Total: total}))
	}

	var last sheetimport.Progress
	for i := 0; i < subscriberBuffer; i++ {
		last = receive(t, ch)
	}
	assert.Equal(t, total, last.Current)
}

func TestInMemoryProgressStore_CloseEndsSubscriptions(t *testing.T) {
	store := NewInMemoryProgressStore()
	ch, err := store.Subscribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, store.Close())
	_, ok := <-ch
	assert.False(t, ok)

	after, err := store.Subscribe(context.Background())
	require.NoError(t, err)
	_, ok = <-after
	assert.False(t, ok)
}
