package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"restroom-queue-backend/internal/notification"
	"restroom-queue-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	webpush  *webpush.Options
	notifier *notification.WorkerPool
}

// NewHandler creates a new API handler. notifier may be nil when push
// notifications are not configured.
func NewHandler(s store.Store, webpushOptions *webpush.Options, notifier *notification.WorkerPool) *Handler {
	return &Handler{
		store:    s,
		webpush:  webpushOptions,
		notifier: notifier,
	}
}

// abortStoreError maps a store error onto an HTTP status and an
// unambiguous error kind for the client.
func abortStoreError(c *gin.Context, err error) {
	kind, status := "internal", http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		kind, status = "not_found", http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateRequest):
		kind, status = "duplicate_request", http.StatusConflict
	case errors.Is(err, store.ErrStallNotFree):
		kind, status = "stall_not_free", http.StatusConflict
	case errors.Is(err, store.ErrEntryNotWaiting):
		kind, status = "entry_not_waiting", http.StatusConflict
	case errors.Is(err, store.ErrAlreadyClosed):
		kind, status = "already_closed", http.StatusConflict
	case errors.Is(err, store.ErrNoActiveSession):
		kind, status = "no_active_session", http.StatusConflict
	case errors.Is(err, store.ErrInvalidState):
		kind, status = "invalid_state", http.StatusUnprocessableEntity
	}

	body := gin.H{"error": err.Error(), "kind": kind}
	var commitErr *store.CommitError
	if errors.As(err, &commitErr) {
		body["failedStudentId"] = commitErr.StudentID
	}
	c.AbortWithStatusJSON(status, body)
}
