package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"fleetops/domain/firstmile"
	"fleetops/internal/errors"
	"fleetops/ports"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// MaxBatchSize is the most rows CreateBatch accepts in one transaction
const MaxBatchSize = 500

const defaultListLimit = 200

const insertTaskQuery = `INSERT INTO first_mile_tasks (
	id, batch_id, task_date, source_hub, destination, task_time, plate_type,
	shipment_id, license_plate, driver_name, driver_phone, status, created_at
) VALUES (
	:id, :batch_id, :task_date, :source_hub, :destination, :task_time, :plate_type,
	:shipment_id, :license_plate, :driver_name, :driver_phone, :status, :created_at
)`

const selectTaskColumns = `SELECT
	id, batch_id, task_date, source_hub, destination, task_time, plate_type,
	shipment_id, license_plate, driver_name, driver_phone, status, created_at
FROM first_mile_tasks`

// taskRepository implements ports.TaskRepository for PostgreSQL
type taskRepository struct {
	db *sqlx.DB
}

// NewTaskRepository creates a new PostgreSQL task repository
func NewTaskRepository(db *sqlx.DB) ports.TaskRepository {
	return &taskRepository{db: db}
}

// CreateBatch inserts all tasks inside one transaction
func (r *taskRepository) CreateBatch(ctx context.Context, tasks []firstmile.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	if len(tasks) > MaxBatchSize {
		return errors.InvalidInput(fmt.Sprintf("batch of %d tasks exceeds the %d row limit", len(tasks), MaxBatchSize))
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin task batch", err)
	}
	defer tx.Rollback()

	if _, err := tx.NamedExecContext(ctx, insertTaskQuery, tasks); err != nil {
		var pqErr *pq.Error
		if stderrors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return errors.DatabaseError("duplicate task id in batch", err)
		}
		return errors.DatabaseError("failed to insert task batch", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit task batch", err)
	}
	return nil
}

// List returns tasks matching filter
func (r *taskRepository) List(ctx context.Context, filter firstmile.TaskFilter) ([]firstmile.Task, error) {
	query, args := buildListQuery(filter)

	var tasks []firstmile.Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, errors.DatabaseError("failed to list tasks", err)
	}
	return tasks, nil
}

// buildListQuery renders the filtered SELECT with positional arguments
func buildListQuery(filter firstmile.TaskFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)
	add := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if !filter.From.IsZero() {
		add("task_date >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("task_date <= $%d", filter.To)
	}
	if filter.Destination != "" {
		add("destination = $%d", filter.Destination)
	}
	if filter.SourceHub != "" {
		add("source_hub = $%d", filter.SourceHub)
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}

	var sb strings.Builder
	sb.WriteString(selectTaskColumns)
	if len(conditions) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	sb.WriteString("\nORDER BY task_date, task_time, created_at")

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit)
	sb.WriteString(fmt.Sprintf("\nLIMIT $%d", len(args)))

	offset := max(filter.Offset, 0)
	args = append(args, offset)
	sb.WriteString(fmt.Sprintf(" OFFSET $%d", len(args)))

	return sb.String(), args
}
