package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	TaskID   ID
	BatchID  ID
	ImportID ID
)

func (id TaskID) String() string   { return ID(id).String() }
func (id BatchID) String() string  { return ID(id).String() }
func (id ImportID) String() string { return ID(id).String() }

// NewTaskID returns a fresh task identifier
func NewTaskID() TaskID { return TaskID(NewID()) }

// NewBatchID returns a fresh batch identifier
func NewBatchID() BatchID { return BatchID(NewID()) }

// NewImportID returns a fresh import session identifier
func NewImportID() ImportID { return ImportID(NewID()) }

// ParseImportID parses a string into ImportID
func ParseImportID(s string) (ImportID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("import ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("import ID %q is not a UUID: %w", s, err)
	}
	return ImportID(s), nil
}
