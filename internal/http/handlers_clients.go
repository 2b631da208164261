package http

import (
	"errors"
	"log/slog"
	"net/http"

	"invoiceflow/internal/core"
	"invoiceflow/internal/store"
)

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	clients, err := s.store.Clients(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List clients failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list clients")
		return
	}
	if clients == nil {
		clients = []core.Client{}
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var client core.Client
	if err := readJSON(r, &client); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	client.ID = ""
	client.Name = sanitizeInput(client.Name)
	client.BillingAddress = sanitizeInput(client.BillingAddress)

	if err := client.Validate(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id, err := s.store.CreateClient(r.Context(), client)
	if err != nil {
		slog.ErrorContext(r.Context(), "Create client failed", "error", err, "client", client.Name)
		writeError(w, http.StatusInternalServerError, "could not save client")
		return
	}
	client.ID = id

	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	client, err := s.store.Client(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "client not found")
			return
		}
		slog.ErrorContext(r.Context(), "Get client failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not load client")
		return
	}
	writeJSON(w, http.StatusOK, client)
}
