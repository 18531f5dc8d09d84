package handler

import (
	"errors"
	"net/http"

	"go-gin-rsvp/internal/auth"
	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/service"
	apperrors "go-gin-rsvp/pkg/app_errors"
	"go-gin-rsvp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const noEventsMessage = "No events found for this email address. Please create an event first."

type HostLoginRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type HostSelectRequest struct {
	Email string `json:"email" binding:"required,email"`
	Slug  string `json:"slug" binding:"required"`
}

// HostLoginResponse 單場活動時回 RedirectURL；多場時回 Events
type HostLoginResponse struct {
	RedirectURL string               `json:"redirect_url,omitempty"`
	Events      []model.EventSummary `json:"events,omitempty"`
}

type HostHandler struct {
	service  service.HostService
	sessions *auth.SessionManager
}

func NewHostHandler(service service.HostService, sessions *auth.SessionManager) *HostHandler {
	return &HostHandler{service: service, sessions: sessions}
}

func (h *HostHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/host")
	{
		router.POST("login", h.Login)
		router.POST("select", h.Select)
		router.POST("logout", h.Logout)
	}
}

func (h *HostHandler) Login(c *gin.Context) {
	var req HostLoginRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	result, err := h.service.Login(c, req.Email)
	if err != nil {
		h.handleError(c, err, "Login")
		return
	}

	if result.Event == nil {
		c.JSON(http.StatusOK, HostLoginResponse{Events: result.Events})
		return
	}

	h.startSession(c, result.Event)
}

func (h *HostHandler) Select(c *gin.Context) {
	var req HostSelectRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	event, err := h.service.Select(c, req.Email, req.Slug)
	if err != nil {
		h.handleError(c, err, "Select")
		return
	}

	h.startSession(c, event)
}

func (h *HostHandler) Logout(c *gin.Context) {
	h.sessions.ClearCookie(c)
	c.Status(http.StatusNoContent)
}

func (h *HostHandler) startSession(c *gin.Context, event *model.Event) {
	if err := h.sessions.SetCookie(c, event.Slug, event.HostEmail); err != nil {
		h.handleError(c, err, "SetCookie")
		return
	}
	c.JSON(http.StatusOK, HostLoginResponse{RedirectURL: DashboardURL(event.Slug, event.HostEmail)})
}

func (h *HostHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	switch {
	case errors.Is(err, apperrors.ErrNoEventsForHost):
		log.Info("No events for host")
		c.JSON(http.StatusNotFound, gin.H{"error": noEventsMessage})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
	}
}
