package handlers

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/jimmy-wims/course-log/internal/middleware"
	"github.com/jimmy-wims/course-log/internal/util"
)

// SessionHandler turns a host-issued viewer token into a browser session.
type SessionHandler struct {
	auth middleware.AuthConfig
}

func NewSessionHandler(cfg middleware.AuthConfig) *SessionHandler {
	return &SessionHandler{auth: cfg}
}

// Handoff godoc
//
//	@Summary		Open a session
//	@Description	Verifies a short-lived viewer token issued by the host platform, stores the viewer in the session cookie and redirects
//	@Tags			Session
//	@Param			token		query	string	true	"HS256 token whose subject is the viewer id"
//	@Param			redirect	query	string	false	"Local path to continue to"
//	@Success		302			"Redirect to the requested page"
//	@Failure		401			"Invalid or expired token"
//	@Router			/session/handoff [get]
func (h *SessionHandler) Handoff(c *gin.Context) {
	userID, err := middleware.ParseViewerToken(c.Query("token"), h.auth.JWTSecret)
	if err != nil {
		log.Printf("[Session] handoff rejected from %s: %v", c.ClientIP(), err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error":             "invalid_token",
			"error_description": "The session token is invalid or expired",
		})
		return
	}

	session := sessions.Default(c)
	session.Clear()
	session.Set(middleware.SessionUserID, userID)
	if err := session.Save(); err != nil {
		log.Printf("[Session] save failed for user %d: %v", userID, err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	redirect := c.Query("redirect")
	if redirect == "" || !util.IsRedirectSafe(redirect, h.auth.BaseURL) {
		redirect = "/"
	}
	c.Redirect(http.StatusFound, redirect)
}

// Logout clears the session and returns to the host login page.
func (h *SessionHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	_ = session.Save()

	loginURL := h.auth.LoginURL
	if loginURL == "" {
		loginURL = "/login"
	}
	c.Redirect(http.StatusFound, loginURL)
}
