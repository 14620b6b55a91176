// file: controllers/helpers_test.go
package controllers_test

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-footy-trivia/controllers"
	"go-footy-trivia/middleware"
	"go-footy-trivia/models"
	"go-footy-trivia/notify"
	"go-footy-trivia/services"
	"go-footy-trivia/store"
)

// dummyTemplates stand in for the real page templates; handlers only need
// the names to resolve.
const dummyTemplates = `
{{define "home.html"}}home {{.Notice}}{{end}}
{{define "login.html"}}login {{.Error}}{{.Notice}}{{end}}
{{define "signup.html"}}signup {{.Error}}{{end}}
{{define "change_password.html"}}change-password {{.Error}}{{.Notice}}{{end}}
{{define "profile.html"}}profile {{.Identity.Name}}{{end}}
{{define "admin.html"}}dashboard {{.UserCount}}/{{.QuestionCount}}/{{.CompetitionCount}}{{end}}
{{define "admin_users.html"}}users {{len .Rows}} {{.Error}}{{end}}
{{define "admin_questions.html"}}questions {{len .Rows}} {{.Error}}{{end}}
{{define "admin_competitions.html"}}competitions {{len .Rows}} {{.Error}}{{end}}
{{define "quiz.html"}}quiz{{end}}
{{define "assistant.html"}}assistant{{end}}
`

// testEnv wires the full application stack over an in-memory store.
type testEnv struct {
	router   *gin.Engine
	mem      *store.MemoryStore
	provider *services.StoreProvider
}

// newTestEnv mirrors the production wiring in main, minus the websocket hub.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemoryStore()
	tokens := services.NewTokenManager("test-secret", "go-footy-trivia", time.Hour)
	provider := services.NewStoreProvider(mem, tokens)
	guard := services.NewSessionGuard(mem)
	notifier := notify.NewChannelNotifier(nil)

	users := services.NewEditor(services.EditorConfig{
		Collection:   store.CollectionUsers,
		EntityLabel:  "user",
		Fields:       models.IdentityFields,
		SearchFields: models.IdentitySearchFields,
	}, mem, services.NewResourceCache(), notifier)
	questions := services.NewEditor(services.EditorConfig{
		Collection:   store.CollectionQuestions,
		EntityLabel:  "question",
		Fields:       models.QuestionFields,
		SearchFields: models.QuestionSearchFields,
	}, mem, services.NewResourceCache(), notifier)
	competitions := services.NewEditor(services.EditorConfig{
		Collection:   store.CollectionCompetitions,
		EntityLabel:  "competition",
		Fields:       models.CompetitionFields,
		SearchFields: models.CompetitionSearchFields,
	}, mem, services.NewResourceCache(), notifier)

	authController := controllers.NewAuthController(provider)
	pageController := controllers.NewPageController(provider)
	adminController := controllers.NewAdminController(users, questions, competitions)
	quizController := controllers.NewQuizController(questions)
	assistantController := controllers.NewAssistantController()

	router := gin.New()
	router.Use(sessions.Sessions("footysession", cookie.NewStore([]byte("test-secret"))))
	router.SetHTMLTemplate(template.Must(template.New("").Parse(dummyTemplates)))

	router.GET("/health", controllers.Health)
	router.GET("/", pageController.Home)
	router.GET("/login", authController.ShowLoginPage)
	router.POST("/login", authController.PerformLogin)
	router.GET("/signup", authController.ShowSignupPage)
	router.POST("/signup", authController.PerformSignup)
	router.GET("/quiz", quizController.QuizPage)
	router.GET("/api/quiz", quizController.QuizQuestions)
	router.GET("/assistant", assistantController.AssistantPage)
	router.POST("/api/assistant", assistantController.AssistantMessage)

	authed := router.Group("/", middleware.AuthRequired)
	{
		authed.GET("/profile", pageController.Profile)
		authed.GET("/logout", authController.Logout)
		authed.GET("/change-password", authController.ShowChangePassword)
		authed.POST("/change-password", authController.PerformChangePassword)
	}

	admin := router.Group("/admin", middleware.AuthRequired, middleware.AdminRequired(guard))
	{
		admin.GET("", adminController.Dashboard)
		admin.GET("/users", adminController.ShowUsers)
		admin.GET("/questions", adminController.ShowQuestions)
		admin.GET("/competitions", adminController.ShowCompetitions)
		admin.GET("/competitions/:id/qr", adminController.CompetitionQR)

		api := admin.Group("/api/:collection")
		{
			api.POST("/edit/start", adminController.StartEdit)
			api.POST("/edit/field", adminController.EditField)
			api.POST("/edit/save", adminController.SaveEdit)
			api.POST("/edit/cancel", adminController.CancelEdit)
			api.POST("/delete/request", adminController.RequestDelete)
			api.POST("/delete/confirm", adminController.ConfirmDelete)
			api.POST("/delete/cancel", adminController.CancelDelete)
			api.POST("/add", adminController.Add)
		}
	}

	return &testEnv{router: router, mem: mem, provider: provider}
}

// signUp provisions a user directly through the provider.
func (e *testEnv) signUp(t *testing.T, name, email, password, role string) models.Identity {
	t.Helper()
	id, _, err := e.provider.SignUp(context.Background(), name, email, password, role)
	require.NoError(t, err)
	return id
}

// login performs the real login flow and returns the session cookies.
func (e *testEnv) login(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()
	w := e.postForm(nil, "/login", url.Values{"email": {email}, "password": {password}})
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

func (e *testEnv) get(cookies []*http.Cookie, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(cookies []*http.Cookie, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postJSON(path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// adminSession signs up and logs in an admin, returning the session cookies.
func (e *testEnv) adminSession(t *testing.T) []*http.Cookie {
	t.Helper()
	e.signUp(t, "Ada", "ada@example.com", "adminpw", models.RoleAdmin)
	return e.login(t, "ada@example.com", "adminpw")
}
