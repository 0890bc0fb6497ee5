package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"restroom-queue-backend/internal/mw"
	"restroom-queue-backend/internal/notification"
	"restroom-queue-backend/internal/store"
)

// RouterOptions tunes the middleware around the API group.
type RouterOptions struct {
	RateLimitPerSec float64
	RateLimitBurst  int
	CacheTTL        time.Duration
	RequestIPHeader string
}

// NewRouter creates and configures a new Gin router.
func NewRouter(s store.Store, webpushOptions *webpush.Options, notifier *notification.WorkerPool, opts RouterOptions) *gin.Engine {
	r := gin.Default()

	handler := NewHandler(s, webpushOptions, notifier)

	if opts.RateLimitPerSec <= 0 {
		opts.RateLimitPerSec = 10
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 5
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 5 * time.Second
	}

	rateLimiter := mw.RateLimiter(rate.Limit(opts.RateLimitPerSec), opts.RateLimitBurst, opts.RequestIPHeader)

	// The roster and vapid key change rarely compared to how often clients
	// fetch them; stall, queue and session views must always be fresh.
	cacheStore := cache.New(opts.CacheTTL, 10*time.Minute)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/stalls", handler.GetStalls)
		api.PUT("/stalls/:stall_id/maintenance", handler.PutMaintenance)
		api.GET("/stalls/:stall_id/sessions", handler.GetActiveSessions)

		api.POST("/queue", handler.PostQueue)
		api.GET("/queue", handler.GetQueue)
		api.DELETE("/queue/:entry_id", handler.DeleteQueueEntry)

		api.GET("/assignments/proposals", handler.GetProposals)
		api.POST("/assignments", handler.PostAssignment)
		api.POST("/releases", handler.PostRelease)

		api.GET("/history", handler.GetHistory)

		api.POST("/students", handler.PostStudents)
		api.GET("/students", caching, handler.GetStudents)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", caching, handler.GetVAPIDPublicKey)
	}

	return r
}
