package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"restroom-queue-backend/internal/store"
)

// GetHistory handles GET /api/history?stall_id=&from=&to=&limit= — closed
// sessions, newest exit first. Timestamps are RFC3339.
func (h *Handler) GetHistory(c *gin.Context) {
	var filter store.HistoryFilter

	if raw := c.Query("stall_id"); raw != "" {
		stallID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid stall ID"})
			return
		}
		filter.StallID = stallID
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' timestamp format. Use RFC3339."})
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' timestamp format. Use RFC3339."})
			return
		}
		filter.To = &to
	}

	filter.Limit = 200
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		filter.Limit = limit
	}

	sessions, err := h.store.ListHistory(c.Request.Context(), filter)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
