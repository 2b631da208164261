package http

import (
	"log/slog"
	"net/http"
	"time"

	"invoiceflow/internal/core"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := s.invoices.Dashboard(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build dashboard")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// monthlyPoint is one bar of the revenue chart.
type monthlyPoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	months, err := s.invoices.MonthlyRevenue(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly revenue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build report")
		return
	}

	out := make([]monthlyPoint, 0, 12)
	for i, revenue := range months {
		out = append(out, monthlyPoint{
			Month:   time.Month(i + 1).String()[:3],
			Revenue: revenue,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// reportsResponse combines the headline figures with the revenue chart.
type reportsResponse struct {
	TotalRevenue float64        `json:"totalRevenue"`
	Outstanding  float64        `json:"outstanding"`
	PaidCount    int            `json:"paidCount"`
	SentCount    int            `json:"sentCount"`
	Monthly      []monthlyPoint `json:"monthly"`
}

func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	invoices, err := s.store.Invoices(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "List invoices failed", "error", err)
		writeError(w, http.StatusInternalServerError, "could not build report")
		return
	}

	months := core.MonthlyRevenue(invoices)
	monthly := make([]monthlyPoint, 0, 12)
	for i, revenue := range months {
		monthly = append(monthly, monthlyPoint{
			Month:   time.Month(i + 1).String()[:3],
			Revenue: revenue,
		})
	}

	writeJSON(w, http.StatusOK, reportsResponse{
		TotalRevenue: core.SumByStatus(invoices, core.StatusPaid),
		Outstanding:  core.SumByStatus(invoices, core.StatusSent, core.StatusOverdue),
		PaidCount:    core.CountByStatus(invoices, core.StatusPaid),
		SentCount:    core.CountByStatus(invoices, core.StatusSent),
		Monthly:      monthly,
	})
}
