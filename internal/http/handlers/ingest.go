package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/doomlearn/doomfeed-backend/internal/http/response"
	"github.com/doomlearn/doomfeed-backend/internal/ingestion"
	"github.com/doomlearn/doomfeed-backend/internal/observability"
	"github.com/doomlearn/doomfeed-backend/internal/platform/apierr"
	"github.com/doomlearn/doomfeed-backend/internal/platform/logger"
	"github.com/doomlearn/doomfeed-backend/internal/services"
)

const supplementNote = "\n\n[Note: The LLM may supplement with general knowledge beyond this document.]"

type IngestHandler struct {
	log      *logger.Logger
	sessions *services.SessionService
	fetcher  *ingestion.Fetcher
}

func NewIngestHandler(log *logger.Logger, sessions *services.SessionService, fetcher *ingestion.Fetcher) *IngestHandler {
	return &IngestHandler{
		log:      log.With("handler", "IngestHandler"),
		sessions: sessions,
		fetcher:  fetcher,
	}
}

func platformParam(c *gin.Context) string {
	return c.DefaultQuery("platform", "reddit")
}

type textIngestRequest struct {
	Prompt string `json:"prompt"`
}

type ingestResponse struct {
	SessionID  string `json:"session_id"`
	SourceText string `json:"source_text"`
}

func (h *IngestHandler) IngestText(c *gin.Context) {
	var req textIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "invalid_request_body", err))
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "empty_prompt",
			fmt.Errorf("prompt cannot be empty")))
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), req.Prompt, platformParam(c))
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	observability.Current().ObserveIngest("text", len(session.SourceText))
	response.RespondOK(c, ingestResponse{SessionID: session.ID, SourceText: session.SourceText})
}

type pdfIngestResponse struct {
	SessionID  string `json:"session_id"`
	SourceText string `json:"source_text"`
	PageCount  int    `json:"page_count"`
}

func (h *IngestHandler) IngestPDF(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "missing_file", err))
		return
	}
	contentType := fileHeader.Header.Get("Content-Type")
	if contentType != "application/pdf" {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "not_a_pdf",
			fmt.Errorf("file must be a PDF, got %q", contentType)))
		return
	}
	if fileHeader.Size > ingestion.MaxPDFBytes {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "pdf_too_large",
			fmt.Errorf("PDF file size must be under 10MB")))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "unreadable_file", err))
		return
	}
	defer f.Close()
	raw, err := io.ReadAll(f)
	if err != nil {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "unreadable_file", err))
		return
	}

	text, pageCount, err := ingestion.ExtractPDF(raw)
	if err != nil {
		h.log.Warn("PDF extraction failed", "error", err.Error())
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "pdf_extraction_failed", err))
		return
	}

	session, err := h.sessions.Create(c.Request.Context(), text, platformParam(c))
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	observability.Current().ObserveIngest("pdf", len(session.SourceText))
	response.RespondOK(c, pdfIngestResponse{
		SessionID:  session.ID,
		SourceText: session.SourceText,
		PageCount:  pageCount,
	})
}

type urlIngestRequest struct {
	URL                string `json:"url"`
	RestrictToDocument *bool  `json:"restrict_to_document"`
}

func (h *IngestHandler) IngestURL(c *gin.Context) {
	var req urlIngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "invalid_request_body", err))
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		response.RespondMapped(c, apierr.New(http.StatusBadRequest, "empty_url",
			fmt.Errorf("url cannot be empty")))
		return
	}

	text, err := h.fetcher.Fetch(c.Request.Context(), req.URL)
	if err != nil {
		response.RespondMapped(c, err)
		return
	}

	// Absent flag defaults to restricting the model to the fetched document.
	if req.RestrictToDocument != nil && !*req.RestrictToDocument {
		text += supplementNote
	}

	session, err := h.sessions.Create(c.Request.Context(), text, platformParam(c))
	if err != nil {
		response.RespondMapped(c, err)
		return
	}
	observability.Current().ObserveIngest("url", len(session.SourceText))
	response.RespondOK(c, ingestResponse{SessionID: session.ID, SourceText: session.SourceText})
}
