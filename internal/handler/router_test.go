package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-gin-rsvp/internal/handler"
	"go-gin-rsvp/internal/service/mocks"

	"github.com/stretchr/testify/assert"
)

func newTestRouter(checks map[string]handler.HealthCheck) http.Handler {
	return handler.NewRouter(handler.RouterDeps{
		EventService:  mocks.NewEventServiceMock(),
		RSVPService:   mocks.NewRSVPServiceMock(),
		HostService:   mocks.NewHostServiceMock(),
		UploadService: mocks.NewUploadServiceMock(),
		Sessions:      newTestSessions(),
		ReadyChecks:   checks,
	})
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(nil)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(w.Body)["status"])
}

func TestRouter_Ready(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	down := func(ctx context.Context) error { return errors.New("connection refused") }

	t.Run("AllHealthy", func(t *testing.T) {
		router := newTestRouter(map[string]handler.HealthCheck{"database": ok, "redis": ok})

		req, _ := http.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", decodeBody(w.Body)["redis"])
	})

	t.Run("RedisDown", func(t *testing.T) {
		router := newTestRouter(map[string]handler.HealthCheck{"database": ok, "redis": down})

		req, _ := http.NewRequest("GET", "/ready", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		body := decodeBody(w.Body)
		assert.Equal(t, "ok", body["database"])
		assert.Equal(t, "connection refused", body["redis"])
	})
}

func TestRouter_RegistersRoutes(t *testing.T) {
	router := newTestRouter(nil)

	cases := []struct {
		method string
		path   string
		code   int
	}{
		{"POST", "/api/events", http.StatusBadRequest},
		{"POST", "/api/host/login", http.StatusBadRequest},
		{"POST", "/api/upload", http.StatusBadRequest},
		{"GET", "/no-such-route", http.StatusNotFound},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, createJSONHTTPRequest(tc.method, tc.path, InvalidJSON))
		assert.Equal(t, tc.code, w.Code, tc.path)
	}
}
