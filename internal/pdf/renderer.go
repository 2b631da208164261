// Package pdf renders invoices as printable A4 documents.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"invoiceflow/internal/core"
)

const dateLayout = "02 Jan 2006"

// Render produces the PDF bytes for an invoice on the given company's
// letterhead. The financial figures are computed from the invoice itself,
// never taken from the caller.
func Render(inv core.Invoice, profile core.CompanyProfile) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Letterhead
	company := profile.CompanyName
	if company == "" {
		company = "Invoice"
	}
	pdf.SetFont("Arial", "B", 18)
	pdf.Cell(0, 10, company)
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 11)
	pdf.Cell(0, 6, "Invoice "+inv.ID)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Issued: "+inv.IssueDate.Format(dateLayout))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Due: "+inv.DueDate.Format(dateLayout))
	pdf.Ln(6)
	pdf.Cell(0, 6, "Status: "+string(inv.Status))
	pdf.Ln(10)

	// Billing block uses the snapshot taken at creation time.
	if inv.Client != nil {
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(0, 6, "Bill To")
		pdf.Ln(6)
		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 6, inv.Client.Name)
		pdf.Ln(6)
		if inv.Client.Email != "" {
			pdf.Cell(0, 6, inv.Client.Email)
			pdf.Ln(6)
		}
		if inv.Client.BillingAddress != "" {
			pdf.MultiCell(0, 6, inv.Client.BillingAddress, "", "L", false)
		}
		if inv.Client.PaymentTerms != "" {
			pdf.Cell(0, 6, "Terms: "+string(inv.Client.PaymentTerms))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	// Line item table
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(100, 8, "Description", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Unit Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range inv.LineItems {
		pdf.CellFormat(100, 8, item.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 8, formatQty(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, formatMoney(item.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, formatMoney(item.Quantity*item.Price), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(4)

	// Totals box
	totals := inv.Totals()
	writeTotalRow(pdf, "Subtotal", totals.Subtotal, false)
	if inv.Discount > 0 {
		writeTotalRow(pdf, fmt.Sprintf("Discount (%s%%)", formatQty(inv.Discount)), -totals.DiscountAmount, false)
	}
	if inv.Tax > 0 {
		writeTotalRow(pdf, fmt.Sprintf("Tax (%s%%)", formatQty(inv.Tax)), totals.TaxAmount, false)
	}
	writeTotalRow(pdf, "Total Due", totals.Total, true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTotalRow(pdf *gofpdf.Fpdf, label string, amount float64, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Arial", style, 10)
	pdf.CellFormat(155, 8, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, formatMoney(amount), "", 1, "R", false, 0, "")
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatQty(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
