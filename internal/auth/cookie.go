package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const DefaultCookieName = "_sid"

// CookieManager reads and writes the session cookie.
type CookieManager struct {
	cookieName string
	secure     bool
	now        func() time.Time
}

func NewCookieManager(secure bool) *CookieManager {
	return &CookieManager{
		cookieName: DefaultCookieName,
		secure:     secure,
		now:        time.Now,
	}
}

func (m *CookieManager) CookieName() string {
	return m.cookieName
}

func (m *CookieManager) ReadToken(c *gin.Context) (string, bool) {
	token, err := c.Cookie(m.cookieName)
	if err != nil {
		return "", false
	}
	if strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

func (m *CookieManager) Set(c *gin.Context, value string, expiresAt time.Time) {
	maxAge := int(expiresAt.Sub(m.now()).Seconds())
	if maxAge < 0 {
		maxAge = 0
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, value, maxAge, "/", "", m.secure, true)
}

func (m *CookieManager) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookieName, "", -1, "/", "", m.secure, true)
}
