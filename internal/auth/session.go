package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"go-gin-rsvp/config"
	apperrors "go-gin-rsvp/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims 主辦人 session：綁定單一活動 slug 與主辦人 email
type SessionClaims struct {
	Slug  string `json:"slug"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	now        func() time.Time
}

func NewSessionManager(cfg *config.SessionConfig) *SessionManager {
	name := cfg.CookieName
	if name == "" {
		name = "host_session"
	}
	return &SessionManager{
		secret:     []byte(cfg.Secret),
		ttl:        cfg.TTL,
		cookieName: name,
		now:        time.Now,
	}
}

// Issue 簽發 HS256 token
func (m *SessionManager) Issue(slug, email string) (string, error) {
	now := m.now()
	claims := SessionClaims{
		Slug:  slug,
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *SessionManager) Parse(tokenStr string) (*SessionClaims, error) {
	var claims SessionClaims
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&claims,
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unsupported alg %s", t.Method.Alg())
			}
			return m.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: invalid session", apperrors.ErrUnauthorized)
	}
	if claims.Slug == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: incomplete session", apperrors.ErrUnauthorized)
	}
	return &claims, nil
}

// SetCookie 簽發並寫入 session cookie
func (m *SessionManager) SetCookie(c *gin.Context, slug, email string) error {
	token, err := m.Issue(slug, email)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, token, int(m.ttl.Seconds()), "/", "", c.Request.TLS != nil, true)
	return nil
}

func (m *SessionManager) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", c.Request.TLS != nil, true)
}

// FromRequest 讀取並驗證 cookie 中的 session
func (m *SessionManager) FromRequest(c *gin.Context) (*SessionClaims, error) {
	tokenStr, err := c.Cookie(m.cookieName)
	if err != nil || tokenStr == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return m.Parse(tokenStr)
}

// SameEmail 忽略前後空白後完全相符；與 DB 的 host_email 比對方式一致
func SameEmail(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}
