// file: controllers/quiz_controller_test.go
package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-footy-trivia/store"
)

type quizResponse struct {
	Questions []map[string]interface{} `json:"questions"`
}

func TestQuiz_ServesQuestionsWithoutStats(t *testing.T) {
	env := newTestEnv(t)
	seedQuestionBank(t, env)

	w := env.get(nil, "/api/quiz?count=2")
	require.Equal(t, http.StatusOK, w.Code)

	var resp quizResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Questions, 2)
	for _, q := range resp.Questions {
		assert.Contains(t, q, "text")
		assert.Contains(t, q, "difficulty")
		assert.NotContains(t, q, "correctPercentage", "answer-rate stats stay server-side")
		assert.NotContains(t, q, "averageTime")
	}
}

func TestQuiz_DifficultyFacet(t *testing.T) {
	env := newTestEnv(t)
	seedQuestionBank(t, env)

	w := env.get(nil, "/api/quiz?difficulty=Easy&count=10")
	require.Equal(t, http.StatusOK, w.Code)

	var resp quizResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "Easy", resp.Questions[0]["difficulty"])
}

func TestQuiz_BankUnavailable(t *testing.T) {
	env := newTestEnv(t)
	seedQuestionBank(t, env)
	env.mem.FailNext("FetchAll", store.ErrRemoteUnavailable)

	w := env.get(nil, "/api/quiz")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
