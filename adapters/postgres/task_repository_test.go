package postgres

import (
	"testing"
	"time"

	"fleetops/domain/core"
	"fleetops/domain/firstmile"

	"github.com/stretchr/testify/assert"
)

func TestBuildListQueryNoFilter(t *testing.T) {
	query, args := buildListQuery(firstmile.TaskFilter{})

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY task_date, task_time, created_at")
	assert.Contains(t, query, "LIMIT $1 OFFSET $2")
	assert.Equal(t, []interface{}{defaultListLimit, 0}, args)
}

func TestBuildListQueryAllFilters(t *testing.T) {
	from := core.NewDate(2026, time.February, 1)
	to := core.NewDate(2026, time.February, 28)

	query, args := buildListQuery(firstmile.TaskFilter{
		From:        from,
		To:          to,
		Destination: firstmile.DestinationEast,
		SourceHub:   "HUB01",
		Status:      firstmile.StatusPending,
		Limit:       50,
		Offset:      100,
	})

	assert.Contains(t, query,
		"WHERE task_date >= $1 AND task_date <= $2 AND destination = $3 AND source_hub = $4 AND status = $5")
	assert.Contains(t, query, "LIMIT $6 OFFSET $7")
	assert.Equal(t, []interface{}{from, to, firstmile.DestinationEast, "HUB01", "Pending", 50, 100}, args)
}

func TestBuildListQueryClampsNegativeOffset(t *testing.T) {
	_, args := buildListQuery(firstmile.TaskFilter{Destination: "SOC-W", Offset: -5})
	assert.Equal(t, []interface{}{"SOC-W", defaultListLimit, 0}, args)
}
