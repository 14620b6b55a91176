// Package controllers - the public quiz feature.
// File: controllers/quiz_controller.go
package controllers

import (
	"math/rand"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"go-footy-trivia/metrics"
	"go-footy-trivia/models"
	"go-footy-trivia/services"
)

const defaultQuizSize = 5

// QuizController serves question batches out of the question bank.
type QuizController struct {
	Questions *services.Editor
}

// NewQuizController initializes a new instance of QuizController.
func NewQuizController(questions *services.Editor) *QuizController {
	return &QuizController{Questions: questions}
}

// QuizPage renders the quiz screen.
func (qc *QuizController) QuizPage(c *gin.Context) {
	c.HTML(http.StatusOK, "quiz.html", gin.H{
		"Difficulties": append([]string{services.FacetAll}, models.Difficulties...),
	})
}

// QuizQuestions returns a random batch of questions as JSON. Optional query
// params: difficulty (facet, "All" by default) and count. The answer-rate
// statistics stay server-side; players only see the question content.
func (qc *QuizController) QuizQuestions(c *gin.Context) {
	if qc.Questions.Cache().Len() == 0 {
		if err := qc.Questions.Load(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": "Question bank unavailable"})
			return
		}
	}

	difficulty := facetOr(c.Query("difficulty"))
	count := defaultQuizSize
	if raw := c.Query("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 50 {
			count = n
		}
	}

	pool := qc.Questions.View("", map[string]string{"difficulty": difficulty})
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if len(pool) > count {
		pool = pool[:count]
	}

	out := make([]gin.H, 0, len(pool))
	for _, d := range pool {
		q, err := models.DecodeQuestion(d)
		if err != nil {
			continue
		}
		out = append(out, gin.H{
			"id":         q.ID,
			"text":       q.Text,
			"category":   q.Category,
			"difficulty": q.Difficulty,
		})
	}

	metrics.PublishQuizServed(len(out))
	c.JSON(http.StatusOK, gin.H{"questions": out})
}
