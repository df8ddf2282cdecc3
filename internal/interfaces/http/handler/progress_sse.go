package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lojacrm/backend/internal/infrastructure/cache"
	sheetimport "github.com/lojacrm/backend/internal/infrastructure/import"
	"github.com/lojacrm/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// SSE event names
const (
	EventProgress  = "progress"
	EventSuccess   = "success"
	EventError     = "error"
	EventHeartbeat = "heartbeat"
)

// SSEMessage is one server-sent event
type SSEMessage struct {
	Event string
	Data  string
	ID    string
}

// ProgressHandler serves import progress as a snapshot and as an SSE stream
type ProgressHandler struct {
	BaseHandler
	store      cache.ProgressStore
	logger     *zap.Logger
	heartbeat  time.Duration
	maxClients int
	clients    atomic.Int64
}

// ProgressHandlerOption configures a ProgressHandler
type ProgressHandlerOption func(*ProgressHandler)

// WithSSELogger sets the logger for the handler
func WithSSELogger(logger *zap.Logger) ProgressHandlerOption {
	return func(h *ProgressHandler) {
		h.logger = logger
	}
}

// WithSSEHeartbeat sets the heartbeat interval
func WithSSEHeartbeat(interval time.Duration) ProgressHandlerOption {
	return func(h *ProgressHandler) {
		if interval > 0 {
			h.heartbeat = interval
		}
	}
}

// WithSSEMaxClients sets the maximum number of concurrent stream clients
func WithSSEMaxClients(n int) ProgressHandlerOption {
	return func(h *ProgressHandler) {
		h.maxClients = n
	}
}

// NewProgressHandler creates a new ProgressHandler
func NewProgressHandler(store cache.ProgressStore, opts ...ProgressHandlerOption) *ProgressHandler {
	h := &ProgressHandler{
		store:      store,
		logger:     zap.NewNop(),
		heartbeat:  15 * time.Second,
		maxClients: 1000,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Latest godoc
//
//	@Summary	Latest import progress snapshot
//	@Tags		import
//	@Produce	json
//	@Success	200	{object}	dto.Response{data=dto.ProgressResponse}
//	@Router		/imports/progress [get]
func (h *ProgressHandler) Latest(c *gin.Context) {
	p, err := h.store.Latest(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to read import progress", zap.Error(err))
		h.InternalError(c, "Failed to read import progress")
		return
	}
	h.Success(c, dto.NewProgressResponse(p))
}

// Stream godoc
//
//	@Summary		Subscribe to import progress via SSE
//	@Description	Sends the current snapshot, then one event per update: progress, success or error, plus heartbeats
//	@Tags			import
//	@Produce		text/event-stream
//	@Success		200	{string}	string	"SSE stream"
//	@Failure		503	{object}	dto.Response
//	@Router			/imports/progress/stream [get]
func (h *ProgressHandler) Stream(c *gin.Context) {
	if h.maxClients > 0 && h.clients.Load() >= int64(h.maxClients) {
		h.Error(c, http.StatusServiceUnavailable, "ERR_MAX_CONNECTIONS_REACHED", "Maximum number of progress streams reached")
		return
	}
	h.clients.Add(1)
	defer h.clients.Add(-1)

	ctx := c.Request.Context()
	updates, err := h.store.Subscribe(ctx)
	if err != nil {
		h.logger.Warn("failed to subscribe to import progress", zap.Error(err))
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeInternal, "Import progress is unavailable")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	// The first event is the current state, so late watchers need no extra request
	latest, err := h.store.Latest(ctx)
	if err != nil {
		h.logger.Debug("failed to read latest progress", zap.Error(err))
	}
	initial := dto.NewProgressResponse(latest).Progress
	if err := h.send(c, initial); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			writeEvent(c.Writer, SSEMessage{
				Event: EventHeartbeat,
				Data:  fmt.Sprintf(`{"timestamp":%d}`, time.Now().Unix()),
			})
			c.Writer.Flush()
		case p, ok := <-updates:
			if !ok {
				return
			}
			if err := h.send(c, p); err != nil {
				return
			}
		}
	}
}

func (h *ProgressHandler) send(c *gin.Context, p sheetimport.Progress) error {
	data, err := json.Marshal(dto.NewProgressResponse(&p))
	if err != nil {
		h.logger.Error("failed to marshal progress event", zap.Error(err))
		return err
	}
	msg := SSEMessage{Event: eventFor(p.State), Data: string(data)}
	if !p.UpdatedAt.IsZero() {
		msg.ID = strconv.FormatInt(p.UpdatedAt.UnixNano(), 10)
	}
	writeEvent(c.Writer, msg)
	c.Writer.Flush()
	return nil
}

// eventFor names the SSE event for a state; idle and uploading are progress
func eventFor(state sheetimport.ImportState) string {
	switch state {
	case sheetimport.StateSuccess:
		return EventSuccess
	case sheetimport.StateError:
		return EventError
	default:
		return EventProgress
	}
}

func writeEvent(w io.Writer, msg SSEMessage) {
	if msg.Event != "" {
		fmt.Fprintf(w, "event: %s\n", msg.Event)
	}
	if msg.ID != "" {
		fmt.Fprintf(w, "id: %s\n", msg.ID)
	}
	fmt.Fprintf(w, "data: %s\n\n", msg.Data)
}
