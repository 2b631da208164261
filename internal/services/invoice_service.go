// Package services orchestrates invoice operations across the store and
// the event bus.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"invoiceflow/internal/core"
	"invoiceflow/internal/events"
	"invoiceflow/internal/store"
)

// EventPublisher is the slice of the events client the service needs.
type EventPublisher interface {
	PublishInvoiceEvent(ctx context.Context, kind, invoiceID string) error
}

// InvoiceService saves invoices synchronously and publishes lifecycle
// events best-effort: a failed publish is logged, never surfaced.
type InvoiceService struct {
	store     store.Store
	publisher EventPublisher
}

func NewInvoiceService(st store.Store, publisher EventPublisher) *InvoiceService {
	return &InvoiceService{store: st, publisher: publisher}
}

// CreateInvoice validates the invoice, snapshots the client's current
// details onto it and saves it. The returned invoice carries the
// generated id and the snapshot.
func (s *InvoiceService) CreateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	if inv.Status == "" {
		inv.Status = core.StatusDraft
	}
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, err
	}

	client, err := s.store.Client(ctx, inv.ClientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return core.Invoice{}, fmt.Errorf("client %s: %w", inv.ClientID, store.ErrNotFound)
		}
		return core.Invoice{}, fmt.Errorf("look up client: %w", err)
	}
	snapshot := client
	inv.Client = &snapshot

	id, err := s.store.CreateInvoice(ctx, inv)
	if err != nil {
		return core.Invoice{}, fmt.Errorf("save invoice: %w", err)
	}
	inv.ID = id

	s.publishEvent(ctx, events.EventInvoiceCreated, id)
	return inv, nil
}

// UpdateInvoice replaces an invoice's editable fields. The stored client
// snapshot is refreshed only when the client changes.
func (s *InvoiceService) UpdateInvoice(ctx context.Context, inv core.Invoice) (core.Invoice, error) {
	if inv.ID == "" {
		return core.Invoice{}, fmt.Errorf("invoice id is required")
	}
	if err := inv.Validate(); err != nil {
		return core.Invoice{}, err
	}

	existing, err := s.store.Invoice(ctx, inv.ID)
	if err != nil {
		return core.Invoice{}, err
	}

	if inv.ClientID != existing.ClientID || existing.Client == nil {
		client, err := s.store.Client(ctx, inv.ClientID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return core.Invoice{}, fmt.Errorf("client %s: %w", inv.ClientID, store.ErrNotFound)
			}
			return core.Invoice{}, fmt.Errorf("look up client: %w", err)
		}
		snapshot := client
		inv.Client = &snapshot
	} else {
		inv.Client = existing.Client
	}

	if err := s.store.UpdateInvoice(ctx, inv); err != nil {
		return core.Invoice{}, fmt.Errorf("update invoice: %w", err)
	}
	return inv, nil
}

// MarkPaid flips an invoice to Paid without touching any other field,
// then announces it on the bus.
func (s *InvoiceService) MarkPaid(ctx context.Context, id string) (core.Invoice, error) {
	if err := s.store.SetInvoiceStatus(ctx, id, core.StatusPaid); err != nil {
		return core.Invoice{}, err
	}

	inv, err := s.store.Invoice(ctx, id)
	if err != nil {
		return core.Invoice{}, err
	}

	s.publishEvent(ctx, events.EventInvoicePaid, id)
	return inv, nil
}

// Dashboard aggregates the whole collection into the landing page summary.
func (s *InvoiceService) Dashboard(ctx context.Context) (core.DashboardSummary, error) {
	invoices, err := s.store.Invoices(ctx)
	if err != nil {
		return core.DashboardSummary{}, fmt.Errorf("list invoices: %w", err)
	}
	clients, err := s.store.Clients(ctx)
	if err != nil {
		return core.DashboardSummary{}, fmt.Errorf("list clients: %w", err)
	}
	return core.Summarize(invoices, len(clients)), nil
}

// MonthlyRevenue buckets paid revenue by issue month.
func (s *InvoiceService) MonthlyRevenue(ctx context.Context) ([12]float64, error) {
	invoices, err := s.store.Invoices(ctx)
	if err != nil {
		return [12]float64{}, fmt.Errorf("list invoices: %w", err)
	}
	return core.MonthlyRevenue(invoices), nil
}

func (s *InvoiceService) publishEvent(ctx context.Context, kind, invoiceID string) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "Event publisher not available, skipping event",
			"kind", kind, "invoiceId", invoiceID)
		return
	}
	if err := s.publisher.PublishInvoiceEvent(ctx, kind, invoiceID); err != nil {
		slog.ErrorContext(ctx, "Failed to publish invoice event",
			"kind", kind, "invoiceId", invoiceID, "error", err)
		// Don't fail the request - the invoice is saved locally
	}
}
