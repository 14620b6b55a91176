// Package middleware provides request filters and security checks for the application.
// File: middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-footy-trivia/logger"
)

// Session keys.
const (
	SessionUID   = "uid"
	SessionToken = "idToken"
)

// -------------- authentication middleware --------------

// AuthRequired is a middleware that ensures the user is logged in.
// How it works:
// - Retrieves the session from the request context.
// - Checks if the "uid" session variable is set.
// - If no user is found, redirects to "/login" and aborts execution.
// - Otherwise, the request proceeds.
func AuthRequired(c *gin.Context) {
	session := sessions.Default(c)
	uid := session.Get(SessionUID)

	// block request if user session is missing
	if uid == nil {
		logger.Warn.Printf("AuthRequired: no uid in session for %s", c.Request.URL.Path)
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
		return
	}

	logger.Debug.Println("[AuthRequired] User authenticated - proceeding with request")
	c.Next()
}
