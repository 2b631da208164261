package http

import (
	"net/http"

	"invoiceflow/internal/clarify"
)

type clarifyRequest struct {
	ItemDescription string `json:"itemDescription"`
}

// handleClarify always answers 200; model failures are reported inside
// the result body so the client can fall back to the original text.
func (s *Server) handleClarify(w http.ResponseWriter, r *http.Request) {
	var req clarifyRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if s.clarifier == nil {
		writeJSON(w, http.StatusOK, clarify.Result{
			Success: false,
			Error:   "clarification is not configured",
		})
		return
	}

	result := clarify.Run(r.Context(), s.clarifier, sanitizeInput(req.ItemDescription))
	writeJSON(w, http.StatusOK, result)
}
