package auth

import (
	"context"
	"errors"
	"net/http"

	"go-gin-rsvp/internal/model"
	apperrors "go-gin-rsvp/pkg/app_errors"
	"go-gin-rsvp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const hostEventKey = "host_event"

// EventLookup 以 slug 取得 dashboard 使用的活動
type EventLookup func(ctx context.Context, slug string) (*model.Event, error)

// RequireHost 保護 /dashboard/:slug 底下的路由。
// 通過條件：session 的 slug 與 email 都相符，或 ?email= 等於活動的 host_email。
func (m *SessionManager) RequireHost(lookup EventLookup) gin.HandlerFunc {
	log := logger.WithComponent("auth")
	return func(c *gin.Context) {
		slug := c.Param("slug")
		event, err := lookup(c.Request.Context(), slug)
		if err != nil {
			if errors.Is(err, apperrors.ErrEventNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Event not found"})
				return
			}
			log.Error("lookup event failed", zap.String("slug", slug), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": apperrors.ErrInternalServerError.Error()})
			return
		}

		if claims, err := m.FromRequest(c); err == nil {
			if claims.Slug == event.Slug && SameEmail(claims.Email, event.HostEmail) {
				c.Set(hostEventKey, event)
				c.Next()
				return
			}
		}

		if email := c.Query("email"); email != "" && SameEmail(email, event.HostEmail) {
			c.Set(hostEventKey, event)
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

// HostEvent 取得 RequireHost 放入 context 的活動
func HostEvent(c *gin.Context) (*model.Event, bool) {
	v, ok := c.Get(hostEventKey)
	if !ok {
		return nil, false
	}
	event, ok := v.(*model.Event)
	return event, ok
}
