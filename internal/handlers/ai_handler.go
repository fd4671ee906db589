package handlers

import (
	"net/http"

	"go-stockctl/internal/models"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AskAssistant(c *gin.Context) {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Assistant is not configured (GEMINI_API_KEY missing)"})
		return
	}

	var req models.AskRequest
	if !bind(c, &req) {
		return
	}

	reply, err := h.assistant.Ask(c.Request.Context(), req.Message)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
