package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"invoiceflow/internal/core"
	"invoiceflow/internal/pdf"
	"invoiceflow/internal/store"
)

// invoiceRequest is the wire shape for creating or updating an invoice.
// Dates are accepted as "2006-01-02" or full RFC 3339 timestamps.
type invoiceRequest struct {
	ClientID  string             `json:"clientId"`
	IssueDate string             `json:"issueDate"`
	DueDate   string             `json:"dueDate"`
	LineItems []core.LineItem    `json:"lineItems"`
	Discount  float64            `json:"discount"`
	Tax       float64            `json:"tax"`
	Status    core.InvoiceStatus `json:"status"`
}

// invoiceResponse carries the invoice together with its computed figures.
type invoiceResponse struct {
	core.Invoice
	Totals core.Totals `json:"totals"`
}

func toInvoiceResponse(inv core.Invoice) invoiceResponse {
	return invoiceResponse{Invoice: inv, Totals: inv.Totals()}
}

func (req invoiceRequest) toInvoice() (core.Invoice, error) {
	issue, err := parseDate(req.IssueDate)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("issueDate: %w", err)
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("dueDate: %w", err)
	}
	items := req.LineItems
	for i := range items {
		items[i].Description = sanitizeInput(items[i].Description)
	}
	return core.Invoice{
		ClientID:  req.ClientID,
		IssueDate: issue,
		DueDate:   due,
		LineItems: items,
		Discount:  req.Discount,
		Tax:       req.Tax,
		Status:    req.Status,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.Invoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List invoices failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not list invoices")
		return
	}

	out := make([]invoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, toInvoiceResponse(inv))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := req.toInvoice()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	created, err := s.invoices.CreateInvoice(r.Context(), inv)
	if err != nil {
		s.writeInvoiceError(w, r, err, "Create invoice failed")
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceResponse(created))
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	inv, err := s.store.Invoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		slog.ErrorContext(r.Context(), "Get invoice failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not load invoice")
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inv, err := req.toInvoice()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	inv.ID = r.PathValue("id")

	updated, err := s.invoices.UpdateInvoice(r.Context(), inv)
	if err != nil {
		s.writeInvoiceError(w, r, err, "Update invoice failed")
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(updated))
}

func (s *Server) handleMarkPaid(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	inv, err := s.invoices.MarkPaid(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		slog.ErrorContext(r.Context(), "Mark paid failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not update invoice")
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceResponse(inv))
}

func (s *Server) handleInvoicePDF(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	inv, err := s.store.Invoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		slog.ErrorContext(r.Context(), "Get invoice failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not load invoice")
		return
	}

	profile, err := s.store.ProfileByOwner(r.Context(), currentUser(r).ID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.ErrorContext(r.Context(), "Load profile failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not load company profile")
		return
	}

	data, err := pdf.Render(inv, profile)
	if err != nil {
		slog.ErrorContext(r.Context(), "Render PDF failed", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "could not render invoice")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="invoice-`+id+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) writeInvoiceError(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrMissingClient),
		errors.Is(err, core.ErrMissingDate),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidQuantity),
		errors.Is(err, core.ErrNegativePrice),
		errors.Is(err, core.ErrInvalidPercent),
		errors.Is(err, core.ErrUnknownStatus):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.ErrorContext(r.Context(), logMsg, "error", err)
		writeError(w, http.StatusInternalServerError, "could not save invoice")
	}
}
