package handler

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"go-gin-rsvp/internal/calendar"
	"go-gin-rsvp/internal/eventhelper"
	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/rsvpform"
	"go-gin-rsvp/internal/service"
	apperrors "go-gin-rsvp/pkg/app_errors"
	"go-gin-rsvp/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var rsvpTemplate = template.Must(template.ParseFS(templateFS, "templates/rsvp.html"))

// timeNow 測試可替換
var timeNow = time.Now

type RSVPHandler struct {
	eventService service.EventService
	rsvpService  service.RSVPService
}

func NewRSVPHandler(eventService service.EventService, rsvpService service.RSVPService) *RSVPHandler {
	return &RSVPHandler{eventService: eventService, rsvpService: rsvpService}
}

func (h *RSVPHandler) RegisterRoutes(r *gin.Engine) {
	page := r.Group("/rsvp")
	{
		page.GET(":slug", h.Page)
		page.POST(":slug", h.SubmitForm)
		page.GET(":slug/calendar.ics", h.Calendar)
	}

	api := r.Group("/api")
	{
		api.POST("events/:slug/rsvps", h.Create)
	}
}

type attendanceOption struct {
	Value    string
	Label    string
	Selected bool
}

type rsvpPage struct {
	Event             *model.Event
	TypeLabel         string
	TypeIcon          string
	FormattedDate     string
	Deadline          string
	ThemeColor        string
	Open              bool
	Preview           bool
	Form              *rsvpform.Form
	Error             string
	AttendanceOptions []attendanceOption
	MaxGuests         int
}

func (h *RSVPHandler) newPage(event *model.Event, form *rsvpform.Form) rsvpPage {
	label, ok := eventhelper.Label(event.EventType)
	if !ok {
		label = string(event.EventType)
	}
	icon, _ := eventhelper.Icon(event.EventType)

	options := make([]attendanceOption, 0, len(event.CustomAttendanceOptions))
	for _, o := range event.CustomAttendanceOptions {
		status := model.AttendanceStatus(o)
		options = append(options, attendanceOption{
			Value:    o,
			Label:    status.Label(),
			Selected: status == form.Input.AttendanceStatus,
		})
	}

	deadline := ""
	if event.RSVPDeadline != nil {
		deadline = eventhelper.FormatShortTime(*event.RSVPDeadline)
	}

	return rsvpPage{
		Deadline:          deadline,
		Event:             event,
		TypeLabel:         label,
		TypeIcon:          icon,
		FormattedDate:     eventhelper.FormatTime(event.Date),
		ThemeColor:        event.ThemeColor,
		Open:              eventhelper.IsRSVPOpen(event, timeNow()),
		Preview:           form.Preview,
		Form:              form,
		Error:             form.ErrorMessage(),
		AttendanceOptions: options,
		MaxGuests:         model.MaxGuestsPerRSVP,
	}
}

func (h *RSVPHandler) render(c *gin.Context, status int, page rsvpPage) {
	c.Render(status, render.HTML{Template: rsvpTemplate, Name: "rsvp", Data: page})
}

func isPreview(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("preview"))
	return v
}

// Page 來賓回覆頁面
func (h *RSVPHandler) Page(c *gin.Context) {
	event, err := h.eventService.GetPublicBySlug(c, c.Param("slug"))
	if err != nil {
		h.handlePageError(c, err, "Page")
		return
	}
	h.render(c, http.StatusOK, h.newPage(event, rsvpform.New(isPreview(c))))
}

// SubmitForm 表單送出，依 rsvpform 狀態重新渲染頁面
func (h *RSVPHandler) SubmitForm(c *gin.Context) {
	slug := c.Param("slug")
	event, err := h.eventService.GetPublicBySlug(c, slug)
	if err != nil {
		h.handlePageError(c, err, "SubmitForm")
		return
	}

	form := rsvpform.New(isPreview(c))

	// 「再填一份」：不綁定欄位，回到空白表單
	if c.PostForm("intent") == "another" {
		form.Reset()
		h.render(c, http.StatusOK, h.newPage(event, form))
		return
	}

	var input model.CreateRSVPRequest
	if err := c.ShouldBind(&input); err != nil {
		form.Input = input
		form.Err = errors.New("Please check the highlighted fields and try again")
		h.render(c, http.StatusBadRequest, h.newPage(event, form))
		return
	}

	meta := submissionMeta(c)
	err = form.Submit(c, input, func(ctx context.Context, req model.CreateRSVPRequest) (*model.RSVP, error) {
		return h.rsvpService.Submit(ctx, slug, req, meta)
	})
	if err != nil {
		logger.WithComponent("handler").Warn("rsvp form submit failed", zap.String("slug", slug), zap.Error(err))
		form.Err = errors.New(rsvpErrorMessage(err))
		h.render(c, rsvpErrorStatus(err), h.newPage(event, form))
		return
	}

	h.render(c, http.StatusOK, h.newPage(event, form))
}

// Create JSON API
func (h *RSVPHandler) Create(c *gin.Context) {
	var req model.CreateRSVPRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	rsvp, err := h.rsvpService.Submit(c, c.Param("slug"), req, submissionMeta(c))
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, rsvp)
}

// Calendar 下載 .ics
func (h *RSVPHandler) Calendar(c *gin.Context) {
	event, err := h.eventService.GetPublicBySlug(c, c.Param("slug"))
	if err != nil {
		h.handleError(c, err, "Calendar")
		return
	}

	ics, err := calendar.GenerateICS(calendar.FromEvent(event))
	if err != nil {
		h.handleError(c, err, "Calendar")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+calendar.FileName(event.Title)+`"`)
	c.Data(http.StatusOK, calendar.ContentType, []byte(ics))
}

func submissionMeta(c *gin.Context) model.SubmissionMeta {
	return model.SubmissionMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func rsvpErrorStatus(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrRSVPClosed):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func rsvpErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		return "Event not found"
	case errors.Is(err, apperrors.ErrRSVPClosed):
		return "RSVP is closed for this event"
	default:
		return "Failed to submit RSVP"
	}
}

func (h *RSVPHandler) handlePageError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	if errors.Is(err, apperrors.ErrEventNotFound) {
		log.Warn("Event not found")
		c.String(http.StatusNotFound, "Event not found")
		return
	}
	log.Error("Unexpected error")
	c.String(http.StatusInternalServerError, "Internal server error")
}

func (h *RSVPHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	status := rsvpErrorStatus(err)
	if status == http.StatusInternalServerError {
		log.Error("Unexpected error")
	} else {
		log.Warn("RSVP rejected")
	}
	c.JSON(status, gin.H{"error": rsvpErrorMessage(err)})
}
