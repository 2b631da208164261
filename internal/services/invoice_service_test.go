package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"invoiceflow/internal/core"
	"invoiceflow/internal/events"
	"invoiceflow/internal/store"
	"invoiceflow/internal/store/memory"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (p *recordingPublisher) PublishInvoiceEvent(ctx context.Context, kind, invoiceID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, kind+":"+invoiceID)
	return p.err
}

func (p *recordingPublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func newTestService(t *testing.T) (*InvoiceService, store.Store, *recordingPublisher) {
	t.Helper()
	st := memory.New()
	pub := &recordingPublisher{}
	return NewInvoiceService(st, pub), st, pub
}

func seedClient(t *testing.T, st store.Store) core.Client {
	t.Helper()
	c := core.Client{
		Name:         "Acme Fabrication",
		Email:        "billing@acme.test",
		PaymentTerms: core.Net30,
	}
	id, err := st.CreateClient(context.Background(), c)
	if err != nil {
		t.Fatalf("seed client: %v", err)
	}
	c.ID = id
	return c
}

func validInvoice(clientID string) core.Invoice {
	return core.Invoice{
		ClientID:  clientID,
		IssueDate: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 4, 9, 0, 0, 0, 0, time.UTC),
		LineItems: []core.LineItem{
			{Description: "CNC Machine Time", Quantity: 2, Price: 100},
			{Description: "Software License", Quantity: 1, Price: 50},
		},
		Discount: 10,
		Tax:      8,
		Status:   core.StatusSent,
	}
}

func TestCreateInvoiceSnapshotsClient(t *testing.T) {
	svc, st, pub := newTestService(t)
	ctx := context.Background()
	client := seedClient(t, st)

	created, err := svc.CreateInvoice(ctx, validInvoice(client.ID))
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected invoice id to be assigned")
	}
	if created.Client == nil || created.Client.Name != client.Name {
		t.Fatalf("expected client snapshot, got %+v", created.Client)
	}

	got := pub.published()
	if len(got) != 1 || got[0] != events.EventInvoiceCreated+":"+created.ID {
		t.Errorf("published events = %v", got)
	}

	// The snapshot must survive later edits to the client record.
	stored, err := st.Invoice(ctx, created.ID)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if stored.Client == nil || stored.Client.Name != client.Name {
		t.Errorf("stored snapshot = %+v", stored.Client)
	}
}

func TestCreateInvoiceUnknownClient(t *testing.T) {
	svc, _, pub := newTestService(t)

	_, err := svc.CreateInvoice(context.Background(), validInvoice("missing"))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if len(pub.published()) != 0 {
		t.Error("no event should be published for a rejected invoice")
	}
}

func TestCreateInvoiceDefaultsToDraft(t *testing.T) {
	svc, st, _ := newTestService(t)
	client := seedClient(t, st)

	inv := validInvoice(client.ID)
	inv.Status = ""
	created, err := svc.CreateInvoice(context.Background(), inv)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if created.Status != core.StatusDraft {
		t.Errorf("Status = %q, want %q", created.Status, core.StatusDraft)
	}
}

func TestCreateInvoiceSurvivesPublishFailure(t *testing.T) {
	st := memory.New()
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := NewInvoiceService(st, pub)
	client := seedClient(t, st)

	created, err := svc.CreateInvoice(context.Background(), validInvoice(client.ID))
	if err != nil {
		t.Fatalf("CreateInvoice should not fail on publish error: %v", err)
	}
	if created.ID == "" {
		t.Error("invoice should still be saved")
	}
}

func TestMarkPaid(t *testing.T) {
	svc, st, pub := newTestService(t)
	ctx := context.Background()
	client := seedClient(t, st)

	created, err := svc.CreateInvoice(ctx, validInvoice(client.ID))
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	paid, err := svc.MarkPaid(ctx, created.ID)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if paid.Status != core.StatusPaid {
		t.Errorf("Status = %q, want %q", paid.Status, core.StatusPaid)
	}
	// Only the status changed.
	if len(paid.LineItems) != 2 || paid.Discount != 10 || paid.Tax != 8 {
		t.Errorf("MarkPaid altered other fields: %+v", paid)
	}

	got := pub.published()
	want := events.EventInvoicePaid + ":" + created.ID
	if len(got) != 2 || got[1] != want {
		t.Errorf("published events = %v, want second to be %q", got, want)
	}
}

func TestMarkPaidUnknownInvoice(t *testing.T) {
	svc, _, _ := newTestService(t)
	if _, err := svc.MarkPaid(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateInvoiceKeepsSnapshotForSameClient(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	client := seedClient(t, st)

	created, err := svc.CreateInvoice(ctx, validInvoice(client.ID))
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	edited := created
	edited.Discount = 0
	edited.Client = nil // callers don't send the snapshot back
	updated, err := svc.UpdateInvoice(ctx, edited)
	if err != nil {
		t.Fatalf("UpdateInvoice: %v", err)
	}
	if updated.Discount != 0 {
		t.Errorf("Discount = %v, want 0", updated.Discount)
	}
	if updated.Client == nil || updated.Client.Name != client.Name {
		t.Errorf("snapshot lost on update: %+v", updated.Client)
	}
}

func TestDashboardAndMonthlyRevenue(t *testing.T) {
	svc, st, _ := newTestService(t)
	ctx := context.Background()
	client := seedClient(t, st)

	first, err := svc.CreateInvoice(ctx, validInvoice(client.ID))
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if _, err := svc.MarkPaid(ctx, first.ID); err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	outstanding := validInvoice(client.ID)
	outstanding.Discount = 0
	outstanding.Tax = 0
	if _, err := svc.CreateInvoice(ctx, outstanding); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	summary, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	// Paid invoice: (2*100 + 1*50) -10% = 225, +8% tax = 243.
	if summary.TotalRevenue != 243 {
		t.Errorf("TotalRevenue = %v, want 243", summary.TotalRevenue)
	}
	if summary.Outstanding != 250 {
		t.Errorf("Outstanding = %v, want 250", summary.Outstanding)
	}
	if summary.ClientCount != 1 || summary.InvoiceCount != 2 {
		t.Errorf("counts = %d clients, %d invoices", summary.ClientCount, summary.InvoiceCount)
	}

	months, err := svc.MonthlyRevenue(ctx)
	if err != nil {
		t.Fatalf("MonthlyRevenue: %v", err)
	}
	if months[2] != 243 { // both issued in March; only the paid one counts
		t.Errorf("March bucket = %v, want 243", months[2])
	}
}

func TestServiceWithoutPublisher(t *testing.T) {
	st := memory.New()
	svc := NewInvoiceService(st, nil)
	client := seedClient(t, st)

	if _, err := svc.CreateInvoice(context.Background(), validInvoice(client.ID)); err != nil {
		t.Fatalf("CreateInvoice without publisher: %v", err)
	}
}
