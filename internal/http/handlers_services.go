package http

import (
	"net/http"

	"invoiceflow/internal/core"
)

// handleServiceCatalog lists the predefined services offered for quick
// line item entry.
func (s *Server) handleServiceCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, core.DefaultServices())
}
