package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"interval_timer/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339, 'YYYY-MM-DD HH:MM:SS' or YYYY-MM-DD"
	errLoadLogs    = "failed to load logs"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string has no time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List timer events
// @Description  Filter the event log by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD'). A date-only 'to' covers the whole day.
// @Tags         logs
// @Produce      json
// @Param        from  query     string  false  "Start of range"  example(2025-08-01)
// @Param        to    query     string  false  "End of range, inclusive"  example(2025-08-31)
// @Param        type  query     string  false  "Event type"  Enums(START,RESTART,PAUSE,RESUME,NEW_CYCLE,PHASE_CHANGE,ANNOUNCE,COMPLETE)
// @Success      200   {object}  map[string]interface{}  "count, events"
// @Failure      400   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/logs [get]
func (h *Handler) getLogs(c *gin.Context) {
	var (
		from, to time.Time
		err      error
	)
	if qs := c.Query("from"); qs != "" {
		if from, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		if to, err = parseQueryTime(qs); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
	}

	filter := service.LogFilter{From: from, To: to, Type: c.Query("type")}
	events, err := h.services.EventLog.List(c.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLogs, "logs_list_failed", err,
			"from", from, "to", to, "type", filter.Type)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(events),
		"events": events,
	})
}

// parseQueryTime tries each accepted layout and returns the time in UTC.
func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time format %q", s)
}
