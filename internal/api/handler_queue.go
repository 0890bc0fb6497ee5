package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type postQueueRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

// PostQueue handles POST /api/queue — a student requests a turn.
func (h *Handler) PostQueue(c *gin.Context) {
	var req postQueueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.store.Enqueue(c.Request.Context(), req.StudentID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// GetQueue handles GET /api/queue?gender= — the current waiting list in
// FIFO order.
func (h *Handler) GetQueue(c *gin.Context) {
	entries, err := h.store.ListWaiting(c.Request.Context(), c.Query("gender"))
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// DeleteQueueEntry handles DELETE /api/queue/:entry_id — an explicit
// cancellation of a not-yet-matched request.
func (h *Handler) DeleteQueueEntry(c *gin.Context) {
	entryID, err := strconv.ParseInt(c.Param("entry_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid entry ID"})
		return
	}

	if err := h.store.CancelEntry(c.Request.Context(), entryID); err != nil {
		abortStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
