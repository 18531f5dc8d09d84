package handler

import (
	"context"
	"net/http"
	"time"

	"go-gin-rsvp/internal/auth"
	"go-gin-rsvp/internal/service"
	"go-gin-rsvp/internal/storage"
	"go-gin-rsvp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck 就緒檢查，例如資料庫或 Redis 的 ping
type HealthCheck func(ctx context.Context) error

type RouterDeps struct {
	EventService     service.EventService
	RSVPService      service.RSVPService
	HostService      service.HostService
	DashboardService service.DashboardService
	UploadService    service.UploadService
	Sessions         *auth.SessionManager
	ReadyChecks      map[string]HealthCheck
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), logger.GinMiddleware())
	r.MaxMultipartMemory = storage.MaxImageSize + 1<<20

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", readyHandler(deps.ReadyChecks))

	NewEventHandler(deps.EventService).RegisterRoutes(r)
	NewRSVPHandler(deps.EventService, deps.RSVPService).RegisterRoutes(r)
	NewHostHandler(deps.HostService, deps.Sessions).RegisterRoutes(r)
	NewDashboardHandler(deps.DashboardService, deps.EventService, deps.Sessions).RegisterRoutes(r)
	NewUploadHandler(deps.UploadService).RegisterRoutes(r)

	return r
}

func readyHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	log := logger.WithComponent("http")
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(gin.H, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				log.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}
		c.JSON(status, results)
	}
}
