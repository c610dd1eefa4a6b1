package api

import (
	"net/http"
	"strings"
)

// handleAskAssistant answers a natural-language question about the
// marketplace data. The pipeline never surfaces a raw error, so the
// only client error here is a missing question.
func handleAskAssistant(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	question := strings.TrimSpace(r.URL.Query().Get("question"))
	if question == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "question query parameter is required", false, nil)
		return
	}
	if deps.Assistant == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "ASSISTANT_DISABLED", "the assistant is not enabled on this deployment", false, nil)
		return
	}

	writeJSON(w, http.StatusOK, deps.Assistant.Answer(r.Context(), question))
}
