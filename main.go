// main.go
package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"go-footy-trivia/controllers"
	"go-footy-trivia/logger"
	"go-footy-trivia/middleware"
	"go-footy-trivia/models"
	"go-footy-trivia/notify"
	"go-footy-trivia/services"
	"go-footy-trivia/store"
	ws "go-footy-trivia/websocket"
)

func main() {
	// Environment overrides from .env for local development
	if err := godotenv.Load(); err != nil {
		logger.Debug.Println("No .env file found, using process environment")
	}
	logger.SetLogLevel(os.Getenv("APP_ENV"))

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Remote document store: DynamoDB in deployment, in-memory for local runs
	var st store.Store
	if os.Getenv("STORE_BACKEND") == "memory" {
		mem := store.NewMemoryStore()
		seedSampleData(mem)
		st = mem
		logger.Warn.Println("Using in-memory store; data will not survive a restart")
	} else {
		prefix := os.Getenv("TABLE_PREFIX")
		if prefix == "" {
			prefix = "footy-"
		}
		st = store.NewDynamoStore(prefix)
	}

	// Identity provider + session guard
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-only-secret"
		logger.Warn.Println("JWT_SECRET not set; using the dev-only signing key")
	}
	tokens := services.NewTokenManager(jwtSecret, "go-footy-trivia", 24*time.Hour)
	provider := services.NewStoreProvider(st, tokens)
	guard := services.NewSessionGuard(st)

	// Notification channel over the websocket hub
	hub := ws.NewHub()
	go hub.Run()
	notifier := notify.NewChannelNotifier(hub)

	// Per-collection editors
	users := services.NewEditor(services.EditorConfig{
		Collection:   store.CollectionUsers,
		EntityLabel:  "user",
		Fields:       models.IdentityFields,
		SearchFields: models.IdentitySearchFields,
	}, st, services.NewResourceCache(), notifier)
	questions := services.NewEditor(services.EditorConfig{
		Collection:   store.CollectionQuestions,
		EntityLabel:  "question",
		Fields:       models.QuestionFields,
		SearchFields: models.QuestionSearchFields,
	}, st, services.NewResourceCache(), notifier)
	competitions := services.NewEditor(services.EditorConfig{
		Collection:   store.CollectionCompetitions,
		EntityLabel:  "competition",
		Fields:       models.CompetitionFields,
		SearchFields: models.CompetitionSearchFields,
	}, st, services.NewResourceCache(), notifier)

	// Controllers
	authController := controllers.NewAuthController(provider)
	pageController := controllers.NewPageController(provider)
	adminController := controllers.NewAdminController(users, questions, competitions)
	quizController := controllers.NewQuizController(questions)
	assistantController := controllers.NewAssistantController()

	// Router and session store
	router := gin.Default()

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		sessionSecret = "secret"
	}
	cookieStore := cookie.NewStore([]byte(sessionSecret))
	cookieStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   os.Getenv("APP_ENV") == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("footysession", cookieStore))

	router.LoadHTMLGlob("templates/*.html")
	router.Static("/static", "./static")

	// Public routes
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

	// Signed-in routes
	authed := router.Group("/", middleware.AuthRequired)
	{
		authed.GET("/profile", pageController.Profile)
		authed.GET("/logout", authController.Logout)
		authed.GET("/change-password", authController.ShowChangePassword)
		authed.POST("/change-password", authController.PerformChangePassword)
	}

	// Admin console, gated by the session guard
	admin := router.Group("/admin", middleware.AuthRequired, middleware.AdminRequired(guard))
	{
		admin.GET("", adminController.Dashboard)
		admin.GET("/users", adminController.ShowUsers)
		admin.GET("/questions", adminController.ShowQuestions)
		admin.GET("/competitions", adminController.ShowCompetitions)
		admin.GET("/competitions/:id/qr", adminController.CompetitionQR)
		admin.GET("/ws", func(c *gin.Context) {
			hub.ServeWs(c.Writer, c.Request)
		})

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

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info.Printf("Starting server on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// seedSampleData fills the in-memory store with the demo content the local
// build ships with.
func seedSampleData(mem *store.MemoryStore) {
	mem.Seed(store.CollectionQuestions,
		models.Question{ID: 1, Text: "Who was the top scorer in the 2000 Premier League season?", Category: "History", Difficulty: models.DifficultyEasy, CorrectPercentage: 66.6, AverageTime: "7.9s"}.Doc(),
		models.Question{ID: 2, Text: "Who was the top scorer in the 2001 Premier League season?", Category: "Statistics", Difficulty: models.DifficultyMedium, CorrectPercentage: 71.2, AverageTime: "9.5s"}.Doc(),
		models.Question{ID: 3, Text: "Which team won the Champions League in 2005?", Category: "History", Difficulty: models.DifficultyMedium, CorrectPercentage: 58.3, AverageTime: "12.1s"}.Doc(),
		models.Question{ID: 4, Text: "Who holds the record for most goals in a single Premier League season?", Category: "Records", Difficulty: models.DifficultyHard, CorrectPercentage: 42.7, AverageTime: "15.3s"}.Doc(),
	)
	mem.Seed(store.CollectionCompetitions,
		models.Competition{ID: "comp-1", League: "Elite", ScheduledTime: "2025-06-08 17:00", EntryFee: "$50", Players: 45, Status: models.StatusRunning}.Doc(),
		models.Competition{ID: "comp-2", League: "Pro", ScheduledTime: "2025-06-08 16:00", EntryFee: "$10", Players: 150, Status: models.StatusFinished}.Doc(),
		models.Competition{ID: "comp-3", League: "Starter", ScheduledTime: "2025-06-08 18:00", EntryFee: "$2", Players: 8, Status: models.StatusScheduled}.Doc(),
	)
}
