package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/biomax/dashboard/internal/auth"
)

// ContextUserKey holds the authenticated username on the gin context.
const ContextUserKey = "username"

const invalidCredentialsMessage = "Usuário ou senha inválidos."

// AuthHandler serves the login form and guards every other route.
type AuthHandler struct {
	authn   *auth.Authenticator
	cookies *auth.CookieManager
	logger  *zap.Logger
}

// NewAuthHandler constructs the HTTP handler adapter.
func NewAuthHandler(authn *auth.Authenticator, cookies *auth.CookieManager, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{authn: authn, cookies: cookies, logger: logger}
}

type loginRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// LoginPage renders the login form, or skips it for a live session.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	if token, ok := h.cookies.ReadToken(c); ok {
		if _, err := h.authn.Resolve(c.Request.Context(), token); err == nil {
			c.Redirect(http.StatusSeeOther, "/")
			return
		}
	}
	c.HTML(http.StatusOK, "login.html", loginPage{})
}

// Login checks the submitted credentials (form or JSON) and opens a session.
func (h *AuthHandler) Login(c *gin.Context) {
	wantsJSON := isJSON(c)

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.logger.Warn("invalid login payload", zap.Error(err))
		if wantsJSON {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		c.HTML(http.StatusBadRequest, "login.html", loginPage{Error: invalidCredentialsMessage})
		return
	}

	session, err := h.authn.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		status := http.StatusUnauthorized
		message := invalidCredentialsMessage
		if !errors.Is(err, auth.ErrInvalidCredentials) {
			h.logger.Error("login failed", zap.Error(err))
			status = http.StatusInternalServerError
			message = "Não foi possível iniciar a sessão."
		}
		if wantsJSON {
			c.JSON(status, gin.H{"error": message})
			return
		}
		c.HTML(status, "login.html", loginPage{Username: req.Username, Error: message})
		return
	}

	h.cookies.Set(c, session.Token, session.ExpiresAt)
	if wantsJSON {
		c.JSON(http.StatusOK, gin.H{"username": session.Username, "expires_at": session.ExpiresAt})
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// Logout ends the session and clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, ok := h.cookies.ReadToken(c); ok {
		if err := h.authn.Logout(c.Request.Context(), token); err != nil {
			h.logger.Error("logout failed", zap.Error(err))
		}
	}
	h.cookies.Clear(c)

	if isJSON(c) {
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, "/login")
}

// RequireSession lets only authenticated requests through. Anonymous API
// calls get 401, pages redirect to the login form.
func (h *AuthHandler) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := h.cookies.ReadToken(c)
		if ok {
			session, err := h.authn.Resolve(c.Request.Context(), token)
			if err == nil {
				c.Set(ContextUserKey, session.Username)
				c.Next()
				return
			}
			h.cookies.Clear(c)
		}

		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Redirect(http.StatusSeeOther, "/login")
		c.Abort()
	}
}

func isJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON || strings.Contains(c.GetHeader("Accept"), gin.MIMEJSON)
}
