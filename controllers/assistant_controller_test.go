// file: controllers/assistant_controller_test.go
package controllers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistant_RepliesToAMessage(t *testing.T) {
	env := newTestEnv(t)

	w := env.postJSON("/api/assistant", `{"text":"Who won in 1966?"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Text   string `json:"text"`
		Sender string `json:"sender"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ai", resp.Sender)
	assert.Contains(t, resp.Text, `You asked: "Who won in 1966?"`)
	assert.Contains(t, resp.Text, "football history")
}

func TestAssistant_RejectsEmptyMessage(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusBadRequest, env.postJSON("/api/assistant", `{"text":"  "}`).Code)
	assert.Equal(t, http.StatusBadRequest, env.postJSON("/api/assistant", `not json`).Code)
}
