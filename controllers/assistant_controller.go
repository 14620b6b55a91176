// Package controllers - the chat-style football assistant.
// File: controllers/assistant_controller.go
package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AssistantController answers the chat widget. The response generator is a
// canned-text stub; the widget's contract (message in, reply out) is the
// part that matters here.
type AssistantController struct{}

// NewAssistantController initializes a new instance of AssistantController.
func NewAssistantController() *AssistantController {
	return &AssistantController{}
}

// AssistantPage renders the chat widget.
func (asc *AssistantController) AssistantPage(c *gin.Context) {
	c.HTML(http.StatusOK, "assistant.html", gin.H{})
}

// AssistantMessage accepts one chat message and returns the stub reply.
func (asc *AssistantController) AssistantMessage(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message text is required"})
		return
	}

	reply := fmt.Sprintf(
		"You asked: %q. I'm here to help with football history! Try asking about a specific event or player.",
		strings.TrimSpace(req.Text),
	)
	c.JSON(http.StatusOK, gin.H{"text": reply, "sender": "ai"})
}
