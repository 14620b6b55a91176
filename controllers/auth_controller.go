// Package controllers handles user authentication and session management.
// File: controllers/auth_controller.go
package controllers

import (
	"errors"
	"net/http"
	"os"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-footy-trivia/logger"
	"go-footy-trivia/middleware"
	"go-footy-trivia/models"
	"go-footy-trivia/services"
)

// AuthController signs users in and out against the identity provider
// boundary and keeps the session cookie in step.
type AuthController struct {
	Provider services.Provider
}

// NewAuthController initializes a new instance of AuthController.
func NewAuthController(provider services.Provider) *AuthController {
	return &AuthController{Provider: provider}
}

// ------------------ login handling ------------------

// ShowLoginPage renders the login form. An optional ?notice= message (set by
// redirects from the session guard) is surfaced as a one-line notification.
func (ac *AuthController) ShowLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Notice": c.Query("notice"),
	})
}

// PerformLogin authenticates the user and manages session storage.
// If successful, it redirects:
// - Admin users → `/admin`
// - Regular users → `/`
// If authentication fails, it re-renders the form with an error message.
func (ac *AuthController) PerformLogin(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")

	if email == "" || password == "" {
		logger.Warn.Println("PerformLogin: missing email or password")
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "Please fill in all fields.",
		})
		return
	}

	identity, token, err := ac.Provider.SignIn(c.Request.Context(), email, password)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{
				"Error": "Wrong email or password.",
			})
			return
		}
		logger.Error.Println("PerformLogin: sign-in failed:", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Internal error, please try again later.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUID, identity.ID)
	session.Set(middleware.SessionToken, token)
	if err := session.Save(); err != nil {
		logger.Error.Println("PerformLogin: failed to save session:", err)
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Internal error, please try again later.",
		})
		return
	}

	if identity.IsAdmin() {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ------------------ signup handling ------------------

// ShowSignupPage renders the signup form.
func (ac *AuthController) ShowSignupPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.html", gin.H{})
}

// PerformSignup registers a new user. Entering the admin secret code
// (ADMIN_SIGNUP_CODE) in the optional code field grants the admin role;
// anything else signs up a regular user.
func (ac *AuthController) PerformSignup(c *gin.Context) {
	name := c.PostForm("name")
	email := c.PostForm("email")
	password := c.PostForm("password")
	secretCode := c.PostForm("secretCode")

	if name == "" || email == "" || password == "" {
		c.HTML(http.StatusBadRequest, "signup.html", gin.H{
			"Error": "Please fill in all fields.",
		})
		return
	}

	role := models.RoleUser
	if adminCode := os.Getenv("ADMIN_SIGNUP_CODE"); adminCode != "" && secretCode == adminCode {
		role = models.RoleAdmin
	}

	identity, token, err := ac.Provider.SignUp(c.Request.Context(), name, email, password, role)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.HTML(http.StatusConflict, "signup.html", gin.H{
				"Error": "That email is already registered.",
			})
			return
		}
		logger.Error.Println("PerformSignup: failed:", err)
		c.HTML(http.StatusInternalServerError, "signup.html", gin.H{
			"Error": "Signup failed, please try again later.",
		})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUID, identity.ID)
	session.Set(middleware.SessionToken, token)
	if err := session.Save(); err != nil {
		logger.Error.Println("PerformSignup: failed to save session:", err)
	}

	if identity.IsAdmin() {
		c.Redirect(http.StatusFound, "/admin")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// ------------------ logout & password ------------------

// Logout clears the session and notifies the provider.
func (ac *AuthController) Logout(c *gin.Context) {
	session := sessions.Default(c)
	uid, _ := session.Get(middleware.SessionUID).(string)

	session.Clear()
	if err := session.Save(); err != nil {
		logger.Error.Println("Logout: failed to clear session:", err)
	}
	ac.Provider.SignOut(uid)
	c.Redirect(http.StatusFound, "/login")
}

// ShowChangePassword renders the change-password form.
func (ac *AuthController) ShowChangePassword(c *gin.Context) {
	c.HTML(http.StatusOK, "change_password.html", gin.H{})
}

// PerformChangePassword verifies the old password and merge-writes the new
// hash onto the user record.
func (ac *AuthController) PerformChangePassword(c *gin.Context) {
	session := sessions.Default(c)
	uid, _ := session.Get(middleware.SessionUID).(string)

	oldPassword := c.PostForm("oldPassword")
	newPassword := c.PostForm("newPassword")
	if oldPassword == "" || newPassword == "" {
		c.HTML(http.StatusBadRequest, "change_password.html", gin.H{
			"Error": "Please fill in all fields.",
		})
		return
	}

	err := ac.Provider.ChangePassword(c.Request.Context(), uid, oldPassword, newPassword)
	if err != nil {
		if errors.Is(err, services.ErrBadCredentials) {
			c.HTML(http.StatusUnauthorized, "change_password.html", gin.H{
				"Error": "Current password is wrong.",
			})
			return
		}
		logger.Error.Println("PerformChangePassword: failed:", err)
		c.HTML(http.StatusInternalServerError, "change_password.html", gin.H{
			"Error": "Could not change password, please try again later.",
		})
		return
	}

	c.HTML(http.StatusOK, "change_password.html", gin.H{
		"Notice": "Password updated.",
	})
}
