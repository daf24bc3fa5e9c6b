package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doomlearn/doomfeed-backend/internal/domain"
	"github.com/doomlearn/doomfeed-backend/internal/http/response"
	"github.com/doomlearn/doomfeed-backend/internal/observability"
	"github.com/doomlearn/doomfeed-backend/internal/platform/apierr"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
	"github.com/doomlearn/doomfeed-backend/internal/services"
)

type GenerateHandler struct {
	log             *logger.Logger
	feed            *services.FeedService
	recommendations *services.RecommendationService
	graph           *services.GraphService
}

func NewGenerateHandler(
	log *logger.Logger,
	feed *services.FeedService,
	recommendations *services.RecommendationService,
	graph *services.GraphService,
) *GenerateHandler {
	return &GenerateHandler{
		log:             log.With("handler", "GenerateHandler"),
		feed:            feed,
		recommendations: recommendations,
		graph:           graph,
	}
}

// keyOverrides collects per-request provider credentials from headers. The
// returned map is keyed by provider name as registered with the manager.
func keyOverrides(c *gin.Context) map[string]string {
	overrides := map[string]string{}
	if v := strings.TrimSpace(c.GetHeader("X-Gemini-Api-Key")); v != "" {
		overrides["gemini"] = v
	}
	if v := strings.TrimSpace(c.GetHeader("X-Minimax-Api-Key")); v != "" {
		overrides["minimax"] = v
	}
	if len(overrides) == 0 {
		return nil
	}
	return overrides
}

type feedGenerateRequest struct {
	SessionID string `json:"session_id"`
	Platform  string `json:"platform"`
	PostCount int    `json:"post_count"`
}

type feedGenerateResponse struct {
	SessionID string        `json:"session_id"`
	Posts     []domain.Post `json:"posts"`
	Platform  string        `json:"platform"`
}

func (h *GenerateHandler) GenerateFeed(c *gin.Context) {
	var req feedGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "invalid_request_body", err))
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "missing_session_id", fmt.Errorf("session_id is required")))
		return
	}
	platform := req.Platform
	if platform == "" {
		platform = "reddit"
	}

	res, err := h.feed.Generate(c.Request.Context(), req.SessionID, platform, req.PostCount, keyOverrides(c))
	if err != nil {
		observability.Current().ObserveGeneration("feed", "error")
		response.RespondMapped(c, err)
		return
	}
	observability.Current().ObserveGeneration("feed", "ok")
	response.RespondOK(c, feedGenerateResponse{
		SessionID: res.SessionID,
		Posts:     res.Posts,
		Platform:  res.Platform,
	})
}

type sessionOnlyRequest struct {
	SessionID string `json:"session_id"`
}

type recommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
}

func (h *GenerateHandler) GenerateRecommendations(c *gin.Context) {
	var req sessionOnlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "invalid_request_body", err))
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "missing_session_id", fmt.Errorf("session_id is required")))
		return
	}

	recs, err := h.recommendations.Generate(c.Request.Context(), req.SessionID, keyOverrides(c))
	if err != nil {
		observability.Current().ObserveGeneration("recommendations", "error")
		response.RespondMapped(c, err)
		return
	}
	if recs == nil {
		recs = []string{}
	}
	observability.Current().ObserveGeneration("recommendations", "ok")
	response.RespondOK(c, recommendationsResponse{Recommendations: recs})
}

func (h *GenerateHandler) GenerateKnowledgeGraph(c *gin.Context) {
	var req sessionOnlyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "invalid_request_body", err))
		return
	}
	if strings.TrimSpace(req.SessionID) == "" {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "missing_session_id", fmt.Errorf("session_id is required")))
		return
	}

	graph, err := h.graph.Generate(c.Request.Context(), req.SessionID, keyOverrides(c))
	if err != nil {
		observability.Current().ObserveGeneration("knowledge_graph", "error")
		response.RespondMapped(c, err)
		return
	}
	observability.Current().ObserveGeneration("knowledge_graph", "ok")
	response.RespondOK(c, graph)
}
