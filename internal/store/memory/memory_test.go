package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"invoiceflow/internal/core"
	"invoiceflow/internal/store"
)

func testInvoice(clientID string) core.Invoice {
	return core.Invoice{
		ClientID:  clientID,
		IssueDate: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		LineItems: []core.LineItem{{Description: "Laser Cutter Rental", Quantity: 2, Price: 80}},
		Status:    core.StatusDraft,
	}
}

func TestClientLifecycle(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.CreateClient(ctx, core.Client{Name: "Acme", Email: "a@acme.test", PaymentTerms: core.Net30})
	if err != nil {
		t.Fatalf("CreateClient: %v", err)
	}
	if id == "" {
		t.Fatal("CreateClient returned empty id")
	}

	got, err := s.Client(ctx, id)
	if err != nil {
		t.Fatalf("Client: %v", err)
	}
	if got.Name != "Acme" || got.ID != id {
		t.Fatalf("unexpected client %+v", got)
	}

	if _, err := s.Client(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing client error = %v, want ErrNotFound", err)
	}
}

func TestClientsNewestFirst(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, _ := s.CreateClient(ctx, core.Client{Name: "First", Email: "1@x.test", PaymentTerms: core.Net15})
	second, _ := s.CreateClient(ctx, core.Client{Name: "Second", Email: "2@x.test", PaymentTerms: core.Net15})

	clients, err := s.Clients(ctx)
	if err != nil {
		t.Fatalf("Clients: %v", err)
	}
	if len(clients) != 2 || clients[0].ID != second || clients[1].ID != first {
		t.Fatalf("expected newest-first ordering, got %+v", clients)
	}
}

func TestInvoiceStatusMergeUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	clientID, _ := s.CreateClient(ctx, core.Client{Name: "Acme", Email: "a@acme.test", PaymentTerms: core.Net30})
	id, err := s.CreateInvoice(ctx, testInvoice(clientID))
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if err := s.SetInvoiceStatus(ctx, id, core.StatusPaid); err != nil {
		t.Fatalf("SetInvoiceStatus: %v", err)
	}

	got, err := s.Invoice(ctx, id)
	if err != nil {
		t.Fatalf("Invoice: %v", err)
	}
	if got.Status != core.StatusPaid {
		t.Fatalf("status = %q, want Paid", got.Status)
	}
	// Only status may change on a merge update.
	if len(got.LineItems) != 1 || got.ClientID != clientID {
		t.Fatalf("merge update touched more than status: %+v", got)
	}

	if err := s.SetInvoiceStatus(ctx, "missing", core.StatusPaid); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing invoice error = %v, want ErrNotFound", err)
	}
}

func TestInvoiceRecordsAreIsolated(t *testing.T) {
	s := New()
	ctx := context.Background()

	inv := testInvoice("c1")
	id, _ := s.CreateInvoice(ctx, inv)

	// Mutating what the caller holds must not leak into the store.
	inv.LineItems[0].Price = 9999

	got, _ := s.Invoice(ctx, id)
	if got.LineItems[0].Price != 80 {
		t.Fatalf("stored invoice aliases caller slice: price = %v", got.LineItems[0].Price)
	}

	// Mutating a read result must not leak either.
	got.LineItems[0].Quantity = 42
	again, _ := s.Invoice(ctx, id)
	if again.LineItems[0].Quantity != 2 {
		t.Fatalf("read result aliases stored slice: quantity = %v", again.LineItems[0].Quantity)
	}
}

func TestUserUniqueEmail(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, core.User{Email: "owner@shop.test"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser(ctx, core.User{Email: "OWNER@shop.test"}); !errors.Is(err, store.ErrConflict) {
		t.Fatalf("duplicate email error = %v, want ErrConflict", err)
	}

	u, err := s.UserByEmail(ctx, "owner@shop.test")
	if err != nil {
		t.Fatalf("UserByEmail: %v", err)
	}
	if _, err := s.UserByID(ctx, u.ID); err != nil {
		t.Fatalf("UserByID: %v", err)
	}
}

func TestProfileUpsertKeyedByOwner(t *testing.T) {
	s := New()
	ctx := context.Background()

	id1, err := s.SaveProfile(ctx, core.CompanyProfile{OwnerID: "u1", CompanyName: "Makerspace North"})
	if err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	id2, err := s.SaveProfile(ctx, core.CompanyProfile{OwnerID: "u1", CompanyName: "Makerspace North Ltd", LogoURL: "https://cdn.test/logo.png"})
	if err != nil {
		t.Fatalf("SaveProfile update: %v", err)
	}
	if id1 != id2 {
		t.Fatalf("upsert generated a new id: %s then %s", id1, id2)
	}

	p, err := s.ProfileByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("ProfileByOwner: %v", err)
	}
	if p.CompanyName != "Makerspace North Ltd" || p.LogoURL == "" {
		t.Fatalf("profile not updated: %+v", p)
	}

	if _, err := s.ProfileByOwner(ctx, "u2"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("missing profile error = %v, want ErrNotFound", err)
	}
}
