// Package middleware - role gate for the admin console.
// file: middleware/admin_required.go
package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"go-footy-trivia/logger"
	"go-footy-trivia/models"
	"go-footy-trivia/services"
)

// ContextIdentity is the gin context key the resolved identity is stored
// under once the gate has passed.
const ContextIdentity = "identity"

// AdminRequired gates a route group behind the admin role. The stored role
// is resolved through the session guard on every request, so demoting an
// admin takes effect immediately. Failures redirect (login for missing
// session, home otherwise) and never retry.
func AdminRequired(guard *services.SessionGuard) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		uid, _ := session.Get(SessionUID).(string)

		identity, err := guard.Authorize(c.Request.Context(), uid, models.RoleAdmin)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUnauthenticated):
				logger.Warn.Println("AdminRequired: not signed in")
				c.Redirect(http.StatusFound, "/login?notice=Please+log+in+to+access+this+page")
			case errors.Is(err, services.ErrUnauthorized):
				logger.Warn.Printf("AdminRequired: %s is not an admin", uid)
				c.Redirect(http.StatusFound, "/?notice=Access+denied.+Admins+only.")
			default: // lookup failed
				logger.Error.Printf("AdminRequired: role lookup failed for %s: %v", uid, err)
				c.Redirect(http.StatusFound, "/?notice=Failed+to+verify+admin+status")
			}
			c.Abort()
			return
		}

		c.Set(ContextIdentity, identity)
		logger.Debug.Printf("AdminRequired - %s passed, continuing request", identity.ID)
		c.Next()
	}
}
