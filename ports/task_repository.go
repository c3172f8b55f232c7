package ports

import (
	"context"

	"fleetops/domain/firstmile"
)

// TaskRepository is the persistence collaborator for first-mile tasks
type TaskRepository interface {
	// CreateBatch writes all tasks in one atomic operation. Either every
	// task is stored or none is.
	CreateBatch(ctx context.Context, tasks []firstmile.Task) error

	// List returns stored tasks matching the filter, ordered by date then time
	List(ctx context.Context, filter firstmile.TaskFilter) ([]firstmile.Task, error)
}
