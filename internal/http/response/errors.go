package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doomlearn/doomfeed-backend/internal/data/sessions"
	"github.com/doomlearn/doomfeed-backend/internal/ingestion"
	"github.com/doomlearn/doomfeed-backend/internal/llm"
	"github.com/doomlearn/doomfeed-backend/internal/platform/apierr"
)

// RespondMapped classifies an error into the appropriate HTTP status and
// stable error code, falling back to a generic 500.
func RespondMapped(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}

	var nf *sessions.NotFoundError
	if errors.As(err, &nf) {
		RespondError(c, http.StatusNotFound, "session_not_found", err)
		return
	}

	var unreachable *ingestion.UnreachableError
	if errors.As(err, &unreachable) {
		RespondError(c, http.StatusUnprocessableEntity, "url_unreachable", err)
		return
	}

	var tooLarge *ingestion.PDFTooLargeError
	if errors.As(err, &tooLarge) {
		RespondError(c, http.StatusBadRequest, "pdf_too_large", err)
		return
	}

	var empty *ingestion.EmptyDocumentError
	if errors.As(err, &empty) {
		RespondError(c, http.StatusBadRequest, "empty_document", err)
		return
	}

	var noProviders *llm.NoProvidersAvailableError
	if errors.As(err, &noProviders) {
		RespondError(c, http.StatusInternalServerError, "no_providers_available", err)
		return
	}

	var allFailed *llm.AllProvidersFailedError
	if errors.As(err, &allFailed) {
		RespondError(c, http.StatusInternalServerError, "all_providers_failed", err)
		return
	}

	var malformed *llm.MalformedResponseError
	if errors.As(err, &malformed) {
		RespondError(c, http.StatusInternalServerError, "malformed_model_output", err)
		return
	}

	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
