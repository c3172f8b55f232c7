package api

import (
	"fleetops/app"
)

// ProgressBroadcaster turns committer progress callbacks into SSE events
// for one import session
type ProgressBroadcaster struct {
	hub       *SSEHub
	sessionID string
}

// NewProgressBroadcaster creates a broadcaster bound to sessionID
func NewProgressBroadcaster(hub *SSEHub, sessionID string) *ProgressBroadcaster {
	return &ProgressBroadcaster{hub: hub, sessionID: sessionID}
}

// Progress satisfies app.ProgressFunc
func (p *ProgressBroadcaster) Progress(percent float64) {
	p.hub.Broadcast(ImportEvent{
		SessionID: p.sessionID,
		EventType: EventProgress,
		Progress:  percent,
	})
}

// Committed announces a finished import
func (p *ProgressBroadcaster) Committed(result *app.CommitResult) {
	p.hub.Broadcast(ImportEvent{
		SessionID: p.sessionID,
		EventType: EventCommitted,
		Progress:  100,
		Data: map[string]interface{}{
			"batch_id":        result.BatchID.String(),
			"tasks_committed": result.TasksCommitted,
			"invalid_skipped": result.InvalidSkipped,
		},
	})
}

// Failed announces an aborted import with the message shown to operators
func (p *ProgressBroadcaster) Failed(message string, result *app.CommitResult) {
	event := ImportEvent{
		SessionID: p.sessionID,
		EventType: EventFailed,
		Message:   message,
	}
	if result != nil {
		event.Progress = app.CommitProgress(result.ChunksCommitted, result.ChunksTotal)
		event.Data = map[string]interface{}{
			"tasks_committed": result.TasksCommitted,
		}
	}
	p.hub.Broadcast(event)
}
