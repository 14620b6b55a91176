// file: controllers/page_controller_test.go
package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-footy-trivia/models"
)

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	w := env.get(nil, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

func TestHome_ShowsNoticeFromRedirects(t *testing.T) {
	env := newTestEnv(t)
	w := env.get(nil, "/?notice=Access+denied.+Admins+only.")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Access denied. Admins only.")
}

func TestProfile_RequiresValidToken(t *testing.T) {
	env := newTestEnv(t)

	// anonymous: the auth middleware bounces to login
	w := env.get(nil, "/profile")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	env.signUp(t, "Bo", "bo@example.com", "pw", models.RoleUser)
	cookies := env.login(t, "bo@example.com", "pw")
	w = env.get(cookies, "/profile")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bo")
}
