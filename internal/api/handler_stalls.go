package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restroom-queue-backend/internal/model"
	"restroom-queue-backend/internal/store"
)

// GetStalls handles GET /api/stalls?status=&gender=.
func (h *Handler) GetStalls(c *gin.Context) {
	filter := store.StallFilter{
		Status: model.StallStatus(c.Query("status")),
		Gender: c.Query("gender"),
	}

	stalls, err := h.store.ListStalls(c.Request.Context(), filter)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, stalls)
}

type putMaintenanceRequest struct {
	Enabled bool   `json:"enabled"`
	Reason  string `json:"reason"`
}

// PutMaintenance handles PUT /api/stalls/:stall_id/maintenance. Enabling
// maintenance on an occupied stall force-closes its sessions; the caller
// is expected to be an authorized supervisor (auth is enforced upstream).
func (h *Handler) PutMaintenance(c *gin.Context) {
	stallID, err := strconv.ParseInt(c.Param("stall_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid stall ID"})
		return
	}

	var req putMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stall, err := h.store.SetMaintenance(c.Request.Context(), stallID, req.Enabled, req.Reason)
	if err != nil {
		abortStoreError(c, err)
		return
	}

	// Clearing maintenance returns the stall to service.
	if !req.Enabled && stall.Status == model.StallFree && h.notifier != nil {
		h.notifier.Dispatch(stall.ID)
	}

	c.JSON(http.StatusOK, stall)
}

// GetActiveSessions handles GET /api/stalls/:stall_id/sessions — who is
// currently inside the stall.
func (h *Handler) GetActiveSessions(c *gin.Context) {
	stallID, err := strconv.ParseInt(c.Param("stall_id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid stall ID"})
		return
	}

	sessions, err := h.store.ActiveSessionsFor(c.Request.Context(), stallID)
	if err != nil {
		abortStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
