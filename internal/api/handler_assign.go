package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restroom-queue-backend/internal/model"
)

// GetProposals handles GET /api/assignments/proposals — the seed match per
// gender lane. The UI may extend a proposal with further same-gender
// waiting students (from GET /api/queue) before committing.
func (h *Handler) GetProposals(c *gin.Context) {
	matches, err := h.store.SeedMatches(c.Request.Context())
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

type postAssignmentRequest struct {
	StudentIDs []string `json:"student_ids" binding:"required,min=1"`
	StallID    int64    `json:"stall_id" binding:"required"`
	EntryNotes string   `json:"entry_notes"`
}

// PostAssignment handles POST /api/assignments — commit a single or group
// assignment. On a conflict (stall taken, entry consumed) the client gets
// a 409 with the failing student id and should re-fetch proposals.
func (h *Handler) PostAssignment(c *gin.Context) {
	var req postAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.CommitAssignment(c.Request.Context(), req.StudentIDs, req.StallID, req.EntryNotes); err != nil {
		abortStoreError(c, err)
		return
	}

	sessions, err := h.store.ActiveSessionsFor(c.Request.Context(), req.StallID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"stall_id": req.StallID, "sessions": sessions})
}

type postReleaseRequest struct {
	StudentID string `json:"student_id" binding:"required"`
	Condition string `json:"condition" binding:"required,oneof=Bueno Regular Malo"`
	ExitNotes string `json:"exit_notes"`
}

// PostRelease handles POST /api/releases — a student leaves their stall.
func (h *Handler) PostRelease(c *gin.Context) {
	var req postReleaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.store.ReleaseStudent(c.Request.Context(), req.StudentID, req.Condition, req.ExitNotes)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	if result.StallStatus == model.StallFree && h.notifier != nil {
		h.notifier.Dispatch(result.StallID)
	}

	c.JSON(http.StatusOK, result)
}
