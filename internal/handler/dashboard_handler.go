package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"slices"
	"time"

	"go-gin-rsvp/internal/auth"
	"go-gin-rsvp/internal/dashboard"
	"go-gin-rsvp/internal/export"
	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/qrcode"
	"go-gin-rsvp/internal/service"
	apperrors "go-gin-rsvp/pkg/app_errors"
	"go-gin-rsvp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const streamPingInterval = 25 * time.Second

type DashboardHandler struct {
	service      service.DashboardService
	eventService service.EventService
	sessions     *auth.SessionManager
	pingInterval time.Duration
}

func NewDashboardHandler(service service.DashboardService, eventService service.EventService, sessions *auth.SessionManager) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		eventService: eventService,
		sessions:     sessions,
		pingInterval: streamPingInterval,
	}
}

func (h *DashboardHandler) RegisterRoutes(r *gin.Engine) {
	// 停用的活動主辦人仍可查看
	router := r.Group("/dashboard/:slug", h.sessions.RequireHost(h.eventService.GetBySlug))
	{
		router.GET("", h.Snapshot)
		router.GET("stream", h.Stream)
		router.GET("export.csv", h.ExportCSV)
		router.GET("qr.png", h.QRCode)
		router.DELETE("rsvps/:id", h.DeleteRSVP)
	}
}

func (h *DashboardHandler) Snapshot(c *gin.Context) {
	event, _ := auth.HostEvent(c)

	snapshot, err := h.service.Snapshot(c, event)
	if err != nil {
		h.handleError(c, err, "Snapshot")
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// Stream 以 SSE 推送 dashboard：先送 snapshot，之後每筆異動送 change 與最新 stats
func (h *DashboardHandler) Stream(c *gin.Context) {
	event, _ := auth.HostEvent(c)
	log := logger.WithComponent("handler").With(zap.String("operation", "Stream"), zap.String("slug", event.Slug))

	// 先訂閱再讀 snapshot，避免兩者之間的異動遺失
	changes, unsubscribe := h.service.Subscribe(event.ID)
	defer unsubscribe()

	snapshot, err := h.service.Snapshot(c, event)
	if err != nil {
		h.handleError(c, err, "Stream")
		return
	}

	rows := snapshot.RSVPs
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.SSEvent("snapshot", snapshot)
	c.Writer.Flush()

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case change, ok := <-changes:
			if !ok {
				log.Info("dashboard subscription closed")
				return false
			}
			if alreadyListed(rows, change) {
				return true
			}
			rows = dashboard.Apply(rows, change)
			c.SSEvent("change", change)
			c.SSEvent("stats", dashboard.ComputeStats(rows))
			return true
		case <-ticker.C:
			c.SSEvent("ping", time.Now().UTC().Unix())
			return true
		}
	})
}

// alreadyListed 訂閱與 snapshot 重疊時，同一筆新增可能已在清單中
func alreadyListed(rows []*model.RSVP, change model.RSVPChange) bool {
	if change.Type != model.ChangeInserted || change.Row == nil {
		return false
	}
	return slices.ContainsFunc(rows, func(r *model.RSVP) bool { return r.ID == change.Row.ID })
}

func (h *DashboardHandler) ExportCSV(c *gin.Context) {
	event, _ := auth.HostEvent(c)

	var buf bytes.Buffer
	if err := h.service.ExportCSV(c, event, &buf); err != nil {
		h.handleError(c, err, "ExportCSV")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.CSVFileName(event.Slug)+`"`)
	c.Data(http.StatusOK, export.CSVContentType, buf.Bytes())
}

func (h *DashboardHandler) QRCode(c *gin.Context) {
	event, _ := auth.HostEvent(c)

	var query QRQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	size := qrcode.DefaultSize
	if query.Compact {
		size = qrcode.CompactSize
	}
	if query.Size > 0 {
		size = query.Size
	}

	png, err := h.service.QRCode(event, size)
	if err != nil {
		h.handleError(c, err, "QRCode")
		return
	}

	if query.Download {
		c.Header("Content-Disposition", `attachment; filename="`+qrcode.FileName(event.Title)+`"`)
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *DashboardHandler) DeleteRSVP(c *gin.Context) {
	event, _ := auth.HostEvent(c)

	id, ok := BindID(c)
	if !ok {
		return
	}

	if _, err := h.service.DeleteRSVP(c, event, id); err != nil {
		h.handleError(c, err, "DeleteRSVP")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *DashboardHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	if errors.Is(err, apperrors.ErrRSVPNotFound) {
		log.Warn("RSVP not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "RSVP not found"})
		return
	}

	log.Error("Unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
