// Package controllers - public pages and health check.
// File: controllers/page_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-footy-trivia/logger"
	"go-footy-trivia/middleware"
	"go-footy-trivia/services"
)

// PageController renders the marketing/home pages and the signed-in profile.
type PageController struct {
	Provider services.Provider
}

// NewPageController initializes a new instance of PageController.
func NewPageController(provider services.Provider) *PageController {
	return &PageController{Provider: provider}
}

// Health is used by load balancer health checks.
func Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// Home renders the landing page. Signed-in users get their name in the
// navbar; everyone else gets the public view.
func (pc *PageController) Home(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get(middleware.SessionToken).(string)

	data := gin.H{"Notice": c.Query("notice")}
	if identity, err := pc.Provider.Current(token); err == nil {
		data["Identity"] = identity
	}
	c.HTML(http.StatusOK, "home.html", data)
}

// Profile renders the signed-in user's profile details.
func (pc *PageController) Profile(c *gin.Context) {
	session := sessions.Default(c)
	token, _ := session.Get(middleware.SessionToken).(string)

	identity, err := pc.Provider.Current(token)
	if err != nil {
		logger.Warn.Println("Profile: no valid identity, redirecting to login")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	c.HTML(http.StatusOK, "profile.html", gin.H{"Identity": identity})
}
