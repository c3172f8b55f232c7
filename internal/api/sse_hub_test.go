package api

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fleetops/app"
	"fleetops/domain/core"
	"fleetops/internal"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestHub(t *testing.T) (*SSEHub, *httptest.Server) {
	hub := NewSSEHub(internal.NewNopLogger())
	router := gin.New()
	router.GET("/events", hub.HandleSSE)
	server := httptest.NewServer(router)
	t.Cleanup(func() {
		server.Close()
		hub.Close()
	})
	return hub, server
}

// readEvents collects the data payloads of a stream until it ends
func readEvents(t *testing.T, resp *http.Response) []ImportEvent {
	var events []ImportEvent
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var event ImportEvent
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &event))
		events = append(events, event)
	}
	return events
}

func TestHandleSSERequiresSessionID(t *testing.T) {
	hub := NewSSEHub(internal.NewNopLogger())
	defer hub.Close()

	router := gin.New()
	router.GET("/events", hub.HandleSSE)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/events", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleSSEStreamsSessionEvents(t *testing.T) {
	hub, server := newTestHub(t)

	resp, err := http.Get(server.URL + "/events?session_id=imp-1")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.GetClientCount("imp-1") == 1 },
		time.Second, 5*time.Millisecond)

	reporter := NewProgressBroadcaster(hub, "imp-1")
	hub.Broadcast(ImportEvent{SessionID: "other", EventType: EventProgress, Progress: 50})
	reporter.Progress(10)
	reporter.Progress(55)
	reporter.Committed(&app.CommitResult{BatchID: core.NewBatchID(), TasksCommitted: 700})

	events := readEvents(t, resp)

	require.Len(t, events, 3)
	assert.Equal(t, EventProgress, events[0].EventType)
	assert.Equal(t, 10.0, events[0].Progress)
	assert.Equal(t, 55.0, events[1].Progress)
	assert.Equal(t, EventCommitted, events[2].EventType)
	assert.Equal(t, 100.0, events[2].Progress)
	assert.EqualValues(t, 700, events[2].Data["tasks_committed"])

	require.Eventually(t, func() bool { return hub.GetClientCount("imp-1") == 0 },
		time.Second, 5*time.Millisecond)
}

func TestProgressBroadcasterFailed(t *testing.T) {
	hub, server := newTestHub(t)

	resp, err := http.Get(server.URL + "/events?session_id=imp-2")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Eventually(t, func() bool { return hub.GetClientCount("imp-2") == 1 },
		time.Second, 5*time.Millisecond)

	NewProgressBroadcaster(hub, "imp-2").Failed("Upload failed", &app.CommitResult{
		ChunksTotal: 3, ChunksCommitted: 1, TasksCommitted: 500,
	})

	events := readEvents(t, resp)

	require.Len(t, events, 1)
	assert.Equal(t, EventFailed, events[0].EventType)
	assert.Equal(t, "Upload failed", events[0].Message)
	assert.Equal(t, 40.0, events[0].Progress)
}

func TestHandleSSERegistersBeforeResponding(t *testing.T) {
	hub, server := newTestHub(t)

	for i := 0; i < 20; i++ {
		resp, err := http.Get(server.URL + "/events?session_id=imp-3")
		require.NoError(t, err)
		assert.Equal(t, 1, hub.GetClientCount("imp-3"))

		NewProgressBroadcaster(hub, "imp-3").Committed(&app.CommitResult{TasksCommitted: 1})
		events := readEvents(t, resp)
		resp.Body.Close()

		require.Len(t, events, 1)
		assert.Equal(t, EventCommitted, events[0].EventType)
		require.Eventually(t, func() bool { return hub.GetClientCount("imp-3") == 0 },
			time.Second, 5*time.Millisecond)
	}
}

func TestUnsubscribeRemovesEmptySessions(t *testing.T) {
	hub := NewSSEHub(internal.NewNopLogger())
	defer hub.Close()

	channels := make([]chan ImportEvent, 50)
	for i := range channels {
		channels[i] = hub.subscribe("imp-4")
	}
	assert.Equal(t, 50, hub.GetClientCount("imp-4"))

	for _, ch := range channels {
		hub.unsubscribe("imp-4", ch)
	}
	hub.unsubscribe("imp-4", channels[0])

	assert.Equal(t, 0, hub.GetClientCount("imp-4"))
	hub.clientsMu.RLock()
	defer hub.clientsMu.RUnlock()
	assert.NotContains(t, hub.clients, "imp-4")
}
