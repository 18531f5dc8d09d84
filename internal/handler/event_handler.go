package handler

import (
	"errors"
	"net/http"
	"net/url"

	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/service"
	apperrors "go-gin-rsvp/pkg/app_errors"
	"go-gin-rsvp/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api")
	{
		router.POST("events", h.Create)
		router.POST("events/preview", h.Preview)
		router.PATCH("events/:id", h.Update)
		router.DELETE("events/:id", h.Deactivate)
	}
}

// DashboardURL 主辦人 dashboard 連結 (含 email query)
func DashboardURL(slug, email string) string {
	return "/dashboard/" + slug + "?email=" + url.QueryEscape(email)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req model.CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	created, err := h.service.Create(c, req)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}

	c.JSON(http.StatusCreated, model.CreateEventResponse{
		Event:       created,
		RedirectURL: DashboardURL(created.Slug, created.HostEmail),
	})
}

func (h *EventHandler) Preview(c *gin.Context) {
	var req model.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please fill in all required fields before previewing"})
		return
	}

	event, err := h.service.Preview(c, req)
	if err != nil {
		h.handleError(c, err, "Preview")
		return
	}
	c.JSON(http.StatusOK, event)
}

// Update 以 id + host_email 更新。找不到 (含 email 不符) 或資料庫拒絕時回 400。
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := BindID(c)
	if !ok {
		return
	}

	var req model.UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.Update(c, id, req)
	if err != nil {
		h.handleUpdateError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Deactivate(c *gin.Context) {
	id, ok := BindID(c)
	if !ok {
		return
	}
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	event, err := h.service.Deactivate(c, id, email)
	if err != nil {
		h.handleError(c, err, "Deactivate")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) handleUpdateError(c *gin.Context, err error) {
	log := logger.WithComponent("handler").With(zap.String("operation", "Update"), zap.Error(err))

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound),
		errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrInvalidEventType):
		log.Warn("Event update rejected")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &pgErr):
		log.Warn("Event update rejected by store")
		c.JSON(http.StatusBadRequest, gin.H{"error": pgErr.Message})
	default:
		log.Error("Event update error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
	}
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrInvalidEventType):
		log.Warn("Invalid event type")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event type"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.As(err, &pgErr):
		log.Warn("Rejected by store")
		c.JSON(http.StatusBadRequest, gin.H{"error": pgErr.Message})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
