package ui

import (
	"fmt"
	"net/http"
	"strconv"

	"fleetops/domain/core"
	"fleetops/domain/firstmile"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListTasks(c *gin.Context) {
	filter, err := parseTaskFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tasks, err := s.tasks.List(c.Request.Context(), filter)
	if err != nil {
		s.logger.Error("[handleListTasks] Failed to list tasks: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func parseTaskFilter(c *gin.Context) (firstmile.TaskFilter, error) {
	filter := firstmile.TaskFilter{
		Destination: c.Query("destination"),
		SourceHub:   c.Query("source_hub"),
		Status:      firstmile.TaskStatus(c.Query("status")),
	}

	var err error
	if v := c.Query("from"); v != "" {
		if filter.From, err = core.ParseDate(v); err != nil {
			return filter, fmt.Errorf("invalid from date %q, expected YYYY-MM-DD", v)
		}
	}
	if v := c.Query("to"); v != "" {
		if filter.To, err = core.ParseDate(v); err != nil {
			return filter, fmt.Errorf("invalid to date %q, expected YYYY-MM-DD", v)
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return filter, fmt.Errorf("to date must not be before from date")
	}

	if v := c.Query("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil || filter.Limit < 0 {
			return filter, fmt.Errorf("invalid limit %q", v)
		}
	}
	if v := c.Query("offset"); v != "" {
		if filter.Offset, err = strconv.Atoi(v); err != nil || filter.Offset < 0 {
			return filter, fmt.Errorf("invalid offset %q", v)
		}
	}
	return filter, nil
}
