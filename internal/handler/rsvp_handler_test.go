package handler_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go-gin-rsvp/internal/calendar"
	"go-gin-rsvp/internal/handler"
	"go-gin-rsvp/internal/model"
	"go-gin-rsvp/internal/service/mocks"
	apperrors "go-gin-rsvp/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRSVPTestRouter(eventService *mocks.EventServiceMock, rsvpService *mocks.RSVPServiceMock) *gin.Engine {
	router := gin.New()
	handler.NewRSVPHandler(eventService, rsvpService).RegisterRoutes(router)
	return router
}

func rsvpForm() url.Values {
	return url.Values{
		"guest_name":        {"Alex"},
		"guest_email":       {"alex@example.com"},
		"attendance_status": {"attending"},
		"number_of_guests":  {"2"},
	}
}

func postForm(path string, form url.Values) *http.Request {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestRSVPHandler_Page(t *testing.T) {
	t.Run("Open", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		router := setupRSVPTestRouter(eventService, mocks.NewRSVPServiceMock())

		event := newTestEvent()
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

		req, _ := http.NewRequest("GET", "/rsvp/"+event.Slug, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Garden Party")
		assert.Contains(t, body, "Birthday")
		assert.Contains(t, body, "Submit RSVP")
		assert.Contains(t, body, "Plus One Name")
		assert.NotContains(t, body, "Preview Mode")
	})

	t.Run("DeadlinePassed", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		router := setupRSVPTestRouter(eventService, mocks.NewRSVPServiceMock())

		event := newTestEvent()
		past := time.Now().Add(-time.Hour)
		event.RSVPDeadline = &past
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

		req, _ := http.NewRequest("GET", "/rsvp/"+event.Slug, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "RSVP Closed")
		assert.NotContains(t, w.Body.String(), "Submit RSVP")
	})

	t.Run("Preview", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		router := setupRSVPTestRouter(eventService, mocks.NewRSVPServiceMock())

		event := newTestEvent()
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

		req, _ := http.NewRequest("GET", "/rsvp/"+event.Slug+"?preview=1", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Contains(t, w.Body.String(), "Preview Mode")
	})

	t.Run("NotFound", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		router := setupRSVPTestRouter(eventService, mocks.NewRSVPServiceMock())

		eventService.On("GetPublicBySlug", mock.Anything, "missing").Return(nil, apperrors.ErrEventNotFound).Once()

		req, _ := http.NewRequest("GET", "/rsvp/missing", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRSVPHandler_SubmitForm(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		rsvpService := mocks.NewRSVPServiceMock()
		router := setupRSVPTestRouter(eventService, rsvpService)

		event := newTestEvent()
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()
		rsvpService.On("Submit", mock.Anything, event.Slug, mock.MatchedBy(func(req model.CreateRSVPRequest) bool {
			return req.GuestName == "Alex" && req.NumberOfGuests == 2 && req.AttendanceStatus == model.AttendanceAttending
		}), mock.Anything).Return(&model.RSVP{ID: uuid.New(), EventID: event.ID, GuestName: "Alex"}, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/rsvp/"+event.Slug, rsvpForm()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Your response has been recorded.")
		rsvpService.AssertExpectations(t)
	})

	t.Run("PreviewDoesNotWrite", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		rsvpService := mocks.NewRSVPServiceMock()
		router := setupRSVPTestRouter(eventService, rsvpService)

		event := newTestEvent()
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/rsvp/"+event.Slug+"?preview=true", rsvpForm()))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "No response was saved.")
		rsvpService.AssertNotCalled(t, "Submit")
	})

	t.Run("Closed", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		rsvpService := mocks.NewRSVPServiceMock()
		router := setupRSVPTestRouter(eventService, rsvpService)

		event := newTestEvent()
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()
		rsvpService.On("Submit", mock.Anything, event.Slug, mock.Anything, mock.Anything).Return(nil, apperrors.ErrRSVPClosed).Once()

		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/rsvp/"+event.Slug, rsvpForm()))

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "RSVP is closed for this event")
		// 表單保留已填寫的內容
		assert.Contains(t, w.Body.String(), `value="Alex"`)
	})

	t.Run("InvalidForm", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		rsvpService := mocks.NewRSVPServiceMock()
		router := setupRSVPTestRouter(eventService, rsvpService)

		event := newTestEvent()
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

		form := rsvpForm()
		form.Set("number_of_guests", "11")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, postForm("/rsvp/"+event.Slug, form))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		rsvpService.AssertNotCalled(t, "Submit")
	})
}

func TestRSVPHandler_Create(t *testing.T) {
	payload := map[string]interface{}{
		"guest_name":        "Alex",
		"attendance_status": "attending",
		"number_of_guests":  1,
	}

	t.Run("Success", func(t *testing.T) {
		rsvpService := mocks.NewRSVPServiceMock()
		router := setupRSVPTestRouter(mocks.NewEventServiceMock(), rsvpService)

		rsvpService.On("Submit", mock.Anything, "party", mock.Anything, mock.MatchedBy(func(meta model.SubmissionMeta) bool {
			return meta.UserAgent == "test-agent"
		})).Return(&model.RSVP{ID: uuid.New(), GuestName: "Alex"}, nil).Once()

		req := createJSONHTTPRequest("POST", "/api/events/party/rsvps", payload)
		req.Header.Set("User-Agent", "test-agent")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		rsvpService.AssertExpectations(t)
	})

	t.Run("Failed - Errors", func(t *testing.T) {
		cases := []struct {
			err  error
			code int
		}{
			{apperrors.ErrEventNotFound, http.StatusNotFound},
			{apperrors.ErrRSVPClosed, http.StatusConflict},
			{apperrors.ErrInternalServerError, http.StatusInternalServerError},
		}
		for _, tc := range cases {
			rsvpService := mocks.NewRSVPServiceMock()
			router := setupRSVPTestRouter(mocks.NewEventServiceMock(), rsvpService)
			rsvpService.On("Submit", mock.Anything, "party", mock.Anything, mock.Anything).Return(nil, tc.err).Once()

			w := httptest.NewRecorder()
			router.ServeHTTP(w, createJSONHTTPRequest("POST", "/api/events/party/rsvps", payload))

			assert.Equal(t, tc.code, w.Code, tc.err.Error())
		}
	})

	t.Run("Failed - BindingError", func(t *testing.T) {
		rsvpService := mocks.NewRSVPServiceMock()
		router := setupRSVPTestRouter(mocks.NewEventServiceMock(), rsvpService)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONHTTPRequest("POST", "/api/events/party/rsvps", InvalidJSON))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		rsvpService.AssertNotCalled(t, "Submit")
	})
}

func TestRSVPHandler_Calendar(t *testing.T) {
	eventService := mocks.NewEventServiceMock()
	router := setupRSVPTestRouter(eventService, mocks.NewRSVPServiceMock())

	event := newTestEvent()
	eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

	req, _ := http.NewRequest("GET", "/rsvp/"+event.Slug+"/calendar.ics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, calendar.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "Garden_Party.ics")
	assert.Contains(t, w.Body.String(), "BEGIN:VCALENDAR")
	assert.Contains(t, w.Body.String(), "SUMMARY:Garden Party")
}

func TestRSVPHandler_Page_themeColor(t *testing.T) {
	t.Run("HexColor", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		router := setupRSVPTestRouter(eventService, mocks.NewRSVPServiceMock())

		event := newTestEvent()
		event.ThemeColor = "#1a2b3c"
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

		req, _ := http.NewRequest("GET", "/rsvp/"+event.Slug, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "color: #1a2b3c;")
	})

	t.Run("StoredColorCannotBreakOutOfStyle", func(t *testing.T) {
		eventService := mocks.NewEventServiceMock()
		router := setupRSVPTestRouter(eventService, mocks.NewRSVPServiceMock())

		// 驗證加上之前寫入的資料列
		event := newTestEvent()
		event.ThemeColor = "red;} body{background:url(https://evil.example/track)} .x{"
		eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

		req, _ := http.NewRequest("GET", "/rsvp/"+event.Slug, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.NotContains(t, body, "evil.example")
		assert.NotContains(t, body, "body{background")
		assert.Contains(t, body, "ZgotmplZ")
	})
}

func TestRSVPHandler_SubmitForm_another(t *testing.T) {
	eventService := mocks.NewEventServiceMock()
	rsvpService := mocks.NewRSVPServiceMock()
	router := setupRSVPTestRouter(eventService, rsvpService)

	event := newTestEvent()
	eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

	// 帶著上一份的欄位也不應沿用
	form := rsvpForm()
	form.Set("intent", "another")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/rsvp/"+event.Slug, form))

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Submit RSVP")
	assert.Contains(t, body, `name="guest_name" value=""`)
	assert.NotContains(t, body, `value="Alex"`)
	assert.NotContains(t, body, "Thank you!")
	rsvpService.AssertNotCalled(t, "Submit")
}

func TestRSVPHandler_SubmitForm_submittedOffersAnother(t *testing.T) {
	eventService := mocks.NewEventServiceMock()
	rsvpService := mocks.NewRSVPServiceMock()
	router := setupRSVPTestRouter(eventService, rsvpService)

	event := newTestEvent()
	eventService.On("GetPublicBySlug", mock.Anything, event.Slug).Return(event, nil).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, postForm("/rsvp/"+event.Slug+"?preview=1", rsvpForm()))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="intent" value="another"`)
}
