package firstmile

import (
	"time"

	"fleetops/domain/core"
)

// Field names a semantic column of the first-mile import schema
type Field string

const (
	FieldDate         Field = "date"
	FieldSourceHub    Field = "sourceHub"
	FieldDestination  Field = "destination"
	FieldTime         Field = "time"
	FieldPlateType    Field = "plateType"
	FieldShipmentID   Field = "shipmentId"
	FieldLicensePlate Field = "licensePlate"
	FieldDriverName   Field = "driverName"
	FieldDriverPhone  Field = "driverPhone"
)

// Fields lists every semantic field in declaration order. Header
// resolution walks fields in this order, so earlier fields win column
// collisions.
var Fields = []Field{
	FieldDate,
	FieldSourceHub,
	FieldDestination,
	FieldTime,
	FieldPlateType,
	FieldShipmentID,
	FieldLicensePlate,
	FieldDriverName,
	FieldDriverPhone,
}

// RawRow is one spreadsheet row. Cells are nil, string, float64 or time.Time.
type RawRow []interface{}

// HeaderIndex maps semantic fields to zero-based column positions. It is
// built once per file and never mutated afterwards.
type HeaderIndex struct {
	columns map[Field]int
}

// NewHeaderIndex copies columns into a new index
func NewHeaderIndex(columns map[Field]int) HeaderIndex {
	copied := make(map[Field]int, len(columns))
	for field, col := range columns {
		copied[field] = col
	}
	return HeaderIndex{columns: copied}
}

// Column returns the position bound to field, if any
func (h HeaderIndex) Column(field Field) (int, bool) {
	col, ok := h.columns[field]
	return col, ok
}

// Cell returns the row's cell for field, or nil when the field is unbound
// or the row is shorter than the bound column.
func (h HeaderIndex) Cell(row RawRow, field Field) interface{} {
	col, ok := h.columns[field]
	if !ok || col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// Len returns the number of bound fields
func (h HeaderIndex) Len() int {
	return len(h.columns)
}

// Bound returns the bound fields in declaration order
func (h HeaderIndex) Bound() []Field {
	bound := make([]Field, 0, len(h.columns))
	for _, field := range Fields {
		if _, ok := h.columns[field]; ok {
			bound = append(bound, field)
		}
	}
	return bound
}

// NormalizedTask is the canonical record built from one spreadsheet row
type NormalizedTask struct {
	RowNumber    int       `json:"row_number"`
	Date         core.Date `json:"date"`
	SourceHub    string    `json:"source_hub"`
	Destination  string    `json:"destination"`
	Time         string    `json:"time"`
	PlateType    string    `json:"plate_type"`
	ShipmentID   string    `json:"shipment_id"`
	LicensePlate string    `json:"license_plate"`
	DriverName   string    `json:"driver_name"`
	DriverPhone  string    `json:"driver_phone"`
	Valid        bool      `json:"valid"`
}

// ImportBatch is the ordered set of tasks produced from one file
type ImportBatch struct {
	Filename string           `json:"filename"`
	Header   HeaderIndex      `json:"-"`
	Tasks    []NormalizedTask `json:"tasks"`
}

// ValidCount returns the number of tasks that will be persisted
func (b *ImportBatch) ValidCount() int {
	n := 0
	for _, task := range b.Tasks {
		if task.Valid {
			n++
		}
	}
	return n
}

// TaskStatus is the lifecycle status of a persisted task
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusAssigned   TaskStatus = "Assigned"
	StatusInProgress TaskStatus = "In Progress"
	StatusCompleted  TaskStatus = "Completed"
	StatusCancelled  TaskStatus = "Cancelled"
)

// Task is a first-mile task as stored by the task repository
type Task struct {
	ID           core.TaskID  `json:"id" db:"id"`
	BatchID      core.BatchID `json:"batch_id" db:"batch_id"`
	Date         core.Date    `json:"date" db:"task_date"`
	SourceHub    string       `json:"source_hub" db:"source_hub"`
	Destination  string       `json:"destination" db:"destination"`
	Time         string       `json:"time" db:"task_time"`
	PlateType    string       `json:"plate_type" db:"plate_type"`
	ShipmentID   string       `json:"shipment_id" db:"shipment_id"`
	LicensePlate string       `json:"license_plate" db:"license_plate"`
	DriverName   string       `json:"driver_name" db:"driver_name"`
	DriverPhone  string       `json:"driver_phone" db:"driver_phone"`
	Status       TaskStatus   `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

// NewPendingTask stamps a normalized row with a fresh ID, Pending status
// and the creation time.
func NewPendingTask(batchID core.BatchID, n NormalizedTask, createdAt time.Time) Task {
	return Task{
		ID:           core.NewTaskID(),
		BatchID:      batchID,
		Date:         n.Date,
		SourceHub:    n.SourceHub,
		Destination:  n.Destination,
		Time:         n.Time,
		PlateType:    n.PlateType,
		ShipmentID:   n.ShipmentID,
		LicensePlate: n.LicensePlate,
		DriverName:   n.DriverName,
		DriverPhone:  n.DriverPhone,
		Status:       StatusPending,
		CreatedAt:    createdAt,
	}
}

// TaskFilter narrows a task listing. Zero values mean "no constraint".
type TaskFilter struct {
	From        core.Date
	To          core.Date
	Destination string
	SourceHub   string
	Status      TaskStatus
	Limit       int
	Offset      int
}
