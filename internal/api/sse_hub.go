package api

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"fleetops/internal"

	"github.com/gin-gonic/gin"
)

// Import event types streamed to clients
const (
	EventProgress  = "progress"
	EventCommitted = "committed"
	EventFailed    = "failed"
)

const keepAliveInterval = 30 * time.Second

// ImportEvent represents an import progress event for SSE streaming
type ImportEvent struct {
	SessionID string                 `json:"session_id"`
	EventType string                 `json:"event_type"`
	Progress  float64                `json:"progress"`
	Message   string                 `json:"message,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// SSEHub fans import events out to the clients watching each session
type SSEHub struct {
	clients   map[string]map[chan ImportEvent]bool
	clientsMu sync.RWMutex
	broadcast chan ImportEvent
	done      chan struct{}
	closeOnce sync.Once
	logger    *internal.Logger
}

// NewSSEHub creates a hub and starts its dispatch loop
func NewSSEHub(logger *internal.Logger) *SSEHub {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	hub := &SSEHub{
		clients:   make(map[string]map[chan ImportEvent]bool),
		broadcast: make(chan ImportEvent, 100),
		done:      make(chan struct{}),
		logger:    logger,
	}

	go hub.run()
	return hub
}

// Close stops the dispatch loop
func (h *SSEHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

func (h *SSEHub) run() {
	for {
		select {
		case <-h.done:
			return

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for clientChan := range h.clients[event.SessionID] {
				select {
				case clientChan <- event:
				default:
					h.logger.Warn("[SSE] Client channel full for session %s, skipping event", event.SessionID)
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// subscribe registers a client channel before the stream is opened, so
// events broadcast after the client sees its response are never missed.
func (h *SSEHub) subscribe(sessionID string) chan ImportEvent {
	clientChan := make(chan ImportEvent, 10)

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if h.clients[sessionID] == nil {
		h.clients[sessionID] = make(map[chan ImportEvent]bool)
	}
	h.clients[sessionID][clientChan] = true
	h.logger.Debug("[SSE] Client registered for session %s (total clients: %d)",
		sessionID, len(h.clients[sessionID]))
	return clientChan
}

func (h *SSEHub) unsubscribe(sessionID string, clientChan chan ImportEvent) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	clients, exists := h.clients[sessionID]
	if !exists {
		return
	}
	delete(clients, clientChan)
	h.logger.Debug("[SSE] Client unregistered from session %s (remaining clients: %d)",
		sessionID, len(clients))
	if len(clients) == 0 {
		delete(h.clients, sessionID)
	}
}

// Broadcast sends an event to all clients listening to a session
func (h *SSEHub) Broadcast(event ImportEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn("[SSE] Broadcast channel full, dropping %s event for session %s", event.EventType, event.SessionID)
	}
}

// HandleSSE streams the events of the session named by the session_id query
func (h *SSEHub) HandleSSE(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id parameter required"})
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientChan := h.subscribe(sessionID)
	defer h.unsubscribe(sessionID, clientChan)

	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case event := <-clientChan:
			eventJSON, err := json.Marshal(event)
			if err != nil {
				h.logger.Error("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent(event.EventType, string(eventJSON))
			// the stream ends once the import reaches a final state
			return event.EventType == EventProgress

		case <-keepAlive.C:
			c.SSEvent("ping", `{"status":"alive","timestamp":"`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}

// GetClientCount returns the number of active clients for a session
func (h *SSEHub) GetClientCount(sessionID string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	return len(h.clients[sessionID])
}
