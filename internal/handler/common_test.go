package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"go-gin-rsvp/config"
	"go-gin-rsvp/internal/auth"
	"go-gin-rsvp/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	InvalidJSON = `{"invalid": json}`
)

func init() {
	gin.SetMode(gin.TestMode)
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	if s, ok := data.(string); ok {
		return bytes.NewBufferString(s)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

func newTestSessions() *auth.SessionManager {
	return auth.NewSessionManager(&config.SessionConfig{
		Secret:     "test-secret",
		TTL:        time.Hour,
		CookieName: "host_session",
	})
}

func newTestEvent() *model.Event {
	return &model.Event{
		ID:                      uuid.New(),
		Slug:                    "garden-party-abcd1234",
		EventType:               model.EventTypeBirthday,
		Title:                   "Garden Party",
		Date:                    time.Date(2030, 6, 1, 16, 0, 0, 0, time.UTC),
		Location:                "Backyard",
		ThemeColor:              model.DefaultThemeColor,
		AllowPlusOne:            true,
		MealOptions:             []string{},
		CustomAttendanceOptions: model.DefaultAttendanceOptions,
		HostName:                "Sam",
		HostEmail:               "host@example.com",
		IsActive:                true,
	}
}

func decodeBody(body *bytes.Buffer) map[string]interface{} {
	var out map[string]interface{}
	_ = json.Unmarshal(body.Bytes(), &out)
	return out
}
