package core

// DashboardSummary is the compact set of figures shown on the dashboard
// and the reports view.
type DashboardSummary struct {
	TotalRevenue float64   `json:"totalRevenue"` // sum of Paid invoice totals
	Outstanding  float64   `json:"outstanding"`  // sum of Sent and Overdue totals
	ClientCount  int       `json:"clientCount"`
	InvoiceCount int       `json:"invoiceCount"`
	SentCount    int       `json:"sentCount"`
	PaidCount    int       `json:"paidCount"`
	Recent       []Invoice `json:"recentInvoices"`
}

// SumByStatus folds the given invoices into a single total, counting only
// invoices whose status is in the filter set.
func SumByStatus(invoices []Invoice, statuses ...InvoiceStatus) float64 {
	var sum float64
	for _, inv := range invoices {
		for _, st := range statuses {
			if inv.Status == st {
				sum += inv.Totals().Total
				break
			}
		}
	}
	return sum
}

// CountByStatus counts invoices with the given status.
func CountByStatus(invoices []Invoice, status InvoiceStatus) int {
	n := 0
	for _, inv := range invoices {
		if inv.Status == status {
			n++
		}
	}
	return n
}

// MonthlyRevenue buckets Paid invoice totals into twelve calendar-month
// buckets keyed by the invoice's issue date (index 0 is January).
//
// Buckets are keyed by month-of-year only: Paid invoices issued in the same
// month of different years land in the same bucket. That is the documented
// upstream behavior and is kept as a seasonal view.
func MonthlyRevenue(invoices []Invoice) [12]float64 {
	var buckets [12]float64
	for _, inv := range invoices {
		if inv.Status != StatusPaid {
			continue
		}
		m := int(inv.IssueDate.Month()) - 1
		buckets[m] += inv.Totals().Total
	}
	return buckets
}

// Summarize reduces an invoice collection plus a client count into the
// dashboard figures. The input slice is not mutated; the recent list shares
// the first invoices in collection order, at most five.
func Summarize(invoices []Invoice, clientCount int) DashboardSummary {
	recent := invoices
	if len(recent) > 5 {
		recent = recent[:5]
	}
	return DashboardSummary{
		TotalRevenue: SumByStatus(invoices, StatusPaid),
		Outstanding:  SumByStatus(invoices, StatusSent, StatusOverdue),
		ClientCount:  clientCount,
		InvoiceCount: len(invoices),
		SentCount:    CountByStatus(invoices, StatusSent),
		PaidCount:    CountByStatus(invoices, StatusPaid),
		Recent:       recent,
	}
}
