package core

import (
	"errors"
	"testing"
	"time"
)

func validInvoice() Invoice {
	return Invoice{
		ClientID:  "c1",
		IssueDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		LineItems: []LineItem{{Description: "3D Printer Usage", Quantity: 2, Price: 45}},
		Status:    StatusDraft,
	}
}

func TestClientValidate(t *testing.T) {
	cases := []struct {
		name   string
		client Client
		want   error
	}{
		{"valid", Client{Name: "Acme", Email: "billing@acme.test", PaymentTerms: Net30}, nil},
		{"empty name", Client{Email: "a@b.test", PaymentTerms: Net15}, ErrEmptyName},
		{"bad email", Client{Name: "Acme", Email: "nope", PaymentTerms: Net15}, ErrInvalidEmail},
		{"bad terms", Client{Name: "Acme", Email: "a@b.test", PaymentTerms: "Net 45"}, ErrUnknownTerms},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.client.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLineItemValidate(t *testing.T) {
	cases := []struct {
		name string
		item LineItem
		want error
	}{
		{"valid", LineItem{Description: "work", Quantity: 1, Price: 0}, nil},
		{"empty description", LineItem{Quantity: 1, Price: 5}, ErrEmptyDescription},
		{"zero quantity", LineItem{Description: "work", Quantity: 0, Price: 5}, ErrInvalidQuantity},
		{"negative price", LineItem{Description: "work", Quantity: 1, Price: -1}, ErrNegativePrice},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.item.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestInvoiceValidate(t *testing.T) {
	if err := validInvoice().Validate(); err != nil {
		t.Fatalf("valid invoice rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Invoice)
		want   error
	}{
		{"missing client", func(i *Invoice) { i.ClientID = "" }, ErrMissingClient},
		{"zero issue date", func(i *Invoice) { i.IssueDate = time.Time{} }, ErrMissingDate},
		{"zero due date", func(i *Invoice) { i.DueDate = time.Time{} }, ErrMissingDate},
		{"discount over 100", func(i *Invoice) { i.Discount = 101 }, ErrInvalidPercent},
		{"negative tax", func(i *Invoice) { i.Tax = -5 }, ErrInvalidPercent},
		{"unknown status", func(i *Invoice) { i.Status = "Archived" }, ErrUnknownStatus},
		{"bad line item", func(i *Invoice) { i.LineItems[0].Quantity = 0 }, ErrInvalidQuantity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := validInvoice()
			tc.mutate(&inv)
			if err := inv.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("Validate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestStatusAndTermsEnums(t *testing.T) {
	for _, s := range []InvoiceStatus{StatusDraft, StatusSent, StatusPaid, StatusOverdue} {
		if !s.Valid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	if InvoiceStatus("Cancelled").Valid() {
		t.Error("unexpected status accepted")
	}
	for _, p := range []PaymentTerms{Net15, Net30, Net60, DueOnReceipt} {
		if !p.Valid() {
			t.Errorf("terms %q should be valid", p)
		}
	}
}

func TestDefaultServices(t *testing.T) {
	services := DefaultServices()
	if len(services) != 5 {
		t.Fatalf("catalog has %d entries, want 5", len(services))
	}
	for _, svc := range services {
		if svc.Unit != UnitPerHour && svc.Unit != UnitFixed {
			t.Errorf("service %s has unknown unit %q", svc.ID, svc.Unit)
		}
		if svc.Rate <= 0 {
			t.Errorf("service %s has non-positive rate", svc.ID)
		}
	}
}
