package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/doomlearn/doomfeed-backend/internal/http/handlers"
	httpMW "github.com/doomlearn/doomfeed-backend/internal/http/middleware"
	"github.com/doomlearn/doomfeed-backend/internal/observability"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	IngestHandler   *httpH.IngestHandler
	SessionHandler  *httpH.SessionHandler
	GenerateHandler *httpH.GenerateHandler
	HealthHandler   *httpH.HealthHandler

	Metrics     *observability.Metrics
	TracingName string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(httpMW.Recovery(cfg.Log))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())
	r.Use(httpMW.Metrics(cfg.Metrics))
	if cfg.TracingName != "" {
		r.Use(otelgin.Middleware(cfg.TracingName))
	}

	api := r.Group("/api")
	{
		if cfg.IngestHandler != nil {
			api.POST("/ingest/text", cfg.IngestHandler.IngestText)
			api.POST("/ingest/pdf", cfg.IngestHandler.IngestPDF)
			api.POST("/ingest/url", cfg.IngestHandler.IngestURL)
		}

		if cfg.SessionHandler != nil {
			api.GET("/session/:id", cfg.SessionHandler.GetSession)
		}

		if cfg.GenerateHandler != nil {
			api.POST("/generate/feed", cfg.GenerateHandler.GenerateFeed)
			api.POST("/generate/recommendations", cfg.GenerateHandler.GenerateRecommendations)
			api.POST("/generate/knowledge-graph", cfg.GenerateHandler.GenerateKnowledgeGraph)
		}
	}

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.HealthCheck)
		r.GET("/api/health", cfg.HealthHandler.HealthCheck)
	}

	return r
}
