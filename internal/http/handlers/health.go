package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doomlearn/doomfeed-backend/internal/llm"
)

type HealthHandler struct {
	manager *llm.Manager
}

func NewHealthHandler(manager *llm.Manager) *HealthHandler {
	return &HealthHandler{manager: manager}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	providers := h.manager.ProviderNames()
	if providers == nil {
		providers = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"providers": providers,
	})
}
