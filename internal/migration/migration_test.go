package migration

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatementsAreIdempotent(t *testing.T) {
	runner := NewRunner()
	stmts := runner.Statements()

	assert.NotEmpty(t, stmts)
	assert.Contains(t, stmts[0], "first_mile_tasks", "table must be created before its indexes")
	for _, stmt := range stmts {
		assert.True(t, strings.Contains(stmt, "IF NOT EXISTS"), "statement is not idempotent: %s", stmt)
	}
	assert.Equal(t, "1.0.0", runner.Version())
}
