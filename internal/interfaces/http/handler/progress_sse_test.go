package handler

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lojacrm/backend/internal/infrastructure/cache"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// readEvent reads one SSE message, skipping nothing
func readEvent(t *testing.T, r *bufio.Reader) SSEMessage {
	t.Helper()
	var msg SSEMessage
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		if line == "" {
			return msg
		}
		key, value, _ := strings.Cut(line, ": ")
		switch key {
		case "event":
			msg.Event = value
		case "id":
			msg.ID = value
		case "data":
			msg.Data = value
		}
	}
}

func TestEventFor(t *testing.T) {
	assert.Equal(t, EventProgress, eventFor(sheetimport.StateIdle))
	assert.Equal(t, EventProgress, eventFor(sheetimport.StateUploading))
	assert.Equal(t, EventSuccess, eventFor(sheetimport.StateSuccess))
	assert.Equal(t, EventError, eventFor(sheetimport.StateError))
}

func TestWriteEvent(t *testing.T) {
	var sb strings.Builder
	writeEvent(&sb, SSEMessage{Event: EventProgress, ID: "7", Data: `{"state":"idle"}`})
	assert.Equal(t, "event: progress\nid: 7\ndata: {\"state\":\"idle\"}\n\n", sb.String())

	sb.Reset()
	writeEvent(&sb, SSEMessage{Data: "x"})
	assert.Equal(t, "data: x\n\n", sb.String())
}

func TestProgressHandler_Latest(t *testing.T) {
	store := cache.NewInMemoryProgressStore()
	defer store.Close()
	h := NewProgressHandler(store)

	t.Run("idle before any run", func(t *testing.T) {
		c, w := newTestContext()
		h.Latest(c)

		require.Equal(t, http.StatusOK, w.Code)
		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "idle", data["state"])
		assert.EqualValues(t, 0, data["percent"])
	})

	t.Run("latest published snapshot", func(t *testing.T) {
		require.NoError(t, store.Publish(context.Background(), sheetimport.Progress{
			RunID:     "run-1",
			State:     sheetimport.StateUploading,
			Current:   1,
			Total:     4,
			UpdatedAt: time.Now(),
		}))

		c, w := newTestContext()
		h.Latest(c)

		data := decodeResponse(t, w).Data.(map[string]any)
		assert.Equal(t, "uploading", data["state"])
		assert.Equal(t, "run-1", data["run_id"])
		assert.EqualValues(t, 25, data["percent"])
	})
}

func TestProgressHandler_Stream(t *testing.T) {
	store := cache.NewInMemoryProgressStore()
	defer store.Close()
	h := NewProgressHandler(store, WithSSEHeartbeat(time.Hour))

	engine := gin.New()
	engine.GET("/stream", h.Stream)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	r := bufio.NewReader(resp.Body)

	// The initial snapshot is sent after subscribing, so later publishes are seen
	first := readEvent(t, r)
	assert.Equal(t, EventProgress, first.Event)
	assert.Empty(t, first.ID)
	assert.Contains(t, first.Data, `"state":"idle"`)

	now := time.Now()
	require.NoError(t, store.Publish(ctx, sheetimport.Progress{
		RunID:     "run-2",
		State:     sheetimport.StateUploading,
		Current:   2,
		Total:     4,
		UpdatedAt: now,
	}))
	update := readEvent(t, r)
	assert.Equal(t, EventProgress, update.Event)
	assert.NotEmpty(t, update.ID)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(update.Data), &payload))
	assert.EqualValues(t, 50, payload["percent"])

	require.NoError(t, store.Publish(ctx, sheetimport.Progress{
		RunID:     "run-2",
		State:     sheetimport.StateSuccess,
		Current:   4,
		Total:     4,
		Summary:   &sheetimport.Summary{Imported: 4, Total: 4},
		UpdatedAt: now.Add(time.Second),
	}))
	done := readEvent(t, r)
	assert.Equal(t, EventSuccess, done.Event)
	assert.Contains(t, done.Data, `"imported":4`)
}

func TestProgressHandler_StreamHeartbeat(t *testing.T) {
	store := cache.NewInMemoryProgressStore()
	defer store.Close()
	h := NewProgressHandler(store, WithSSEHeartbeat(20*time.Millisecond))

	engine := gin.New()
	engine.GET("/stream", h.Stream)
	srv := httptest.NewServer(engine)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	r := bufio.NewReader(resp.Body)
	readEvent(t, r)
	beat := readEvent(t, r)
	assert.Equal(t, EventHeartbeat, beat.Event)
	assert.Contains(t, beat.Data, "timestamp")
}

func TestProgressHandler_StreamMaxClients(t *testing.T) {
	store := cache.NewInMemoryProgressStore()
	defer store.Close()
	h := NewProgressHandler(store, WithSSEMaxClients(1))
	h.clients.Store(1)

	c, w := newTestContext()
	h.Stream(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
