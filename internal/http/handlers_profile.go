package http

import (
	"errors"
	"log/slog"
	"net/http"

	"invoiceflow/internal/core"
	"invoiceflow/internal/store"
)

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.store.ProfileByOwner(r.Context(), currentUser(r).ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// A fresh account has no profile yet; return an empty one.
			writeJSON(w, http.StatusOK, core.CompanyProfile{OwnerID: currentUser(r).ID})
			return
		}
		slog.ErrorContext(r.Context(), "Load profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	var profile core.CompanyProfile
	if err := readJSON(r, &profile); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	profile.OwnerID = currentUser(r).ID
	profile.CompanyName = sanitizeInput(profile.CompanyName)

	if err := profile.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.SaveProfile(r.Context(), profile)
	if err != nil {
		slog.ErrorContext(r.Context(), "Save profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not save profile")
		return
	}
	profile.ID = id
	writeJSON(w, http.StatusOK, profile)
}
