package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/doomlearn/doomfeed-backend/internal/http/response"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
	"github.com/doomlearn/doomfeed-backend/internal/services"
)

type SessionHandler struct {
	log      *logger.Logger
	sessions *services.SessionService
}

func NewSessionHandler(log *logger.Logger, sessions *services.SessionService) *SessionHandler {
	return &SessionHandler{
		log:      log.With("handler", "SessionHandler"),
		sessions: sessions,
	}
}

func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.sessions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	response.RespondOK(c, session)
}
