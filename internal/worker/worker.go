// Package worker turns invoice lifecycle events into archived PDF
// documents on disk.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"invoiceflow/internal/core"
	"invoiceflow/internal/events"
	"invoiceflow/internal/pdf"
	"invoiceflow/internal/store"
)

// DocumentWorker archives a PDF copy of every invoice that gets paid.
type DocumentWorker struct {
	store     store.Store
	outputDir string
}

func NewDocumentWorker(st store.Store, outputDir string) *DocumentWorker {
	return &DocumentWorker{store: st, outputDir: outputDir}
}

// HandleInvoiceEvent is the AMQP consumer callback. Returning an error
// requeues the delivery.
func (w *DocumentWorker) HandleInvoiceEvent(msg *events.InvoiceEventMessage) error {
	ctx := context.Background()

	switch msg.Kind {
	case events.EventInvoicePaid:
		return w.archiveInvoice(ctx, msg.InvoiceID)
	case events.EventInvoiceCreated:
		slog.InfoContext(ctx, "Invoice created", "invoiceId", msg.InvoiceID)
		return nil
	default:
		slog.WarnContext(ctx, "Unknown event kind, dropping", "kind", msg.Kind, "invoiceId", msg.InvoiceID)
		return nil
	}
}

func (w *DocumentWorker) archiveInvoice(ctx context.Context, invoiceID string) error {
	inv, err := w.store.Invoice(ctx, invoiceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The invoice was deleted before we got here; nothing to do.
			slog.WarnContext(ctx, "Invoice missing, skipping archive", "invoiceId", invoiceID)
			return nil
		}
		return fmt.Errorf("load invoice %s: %w", invoiceID, err)
	}

	profile, err := w.companyProfile(ctx)
	if err != nil {
		return err
	}

	data, err := pdf.Render(inv, profile)
	if err != nil {
		return fmt.Errorf("render invoice %s: %w", invoiceID, err)
	}

	if err := os.MkdirAll(w.outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(w.outputDir, "invoice-"+invoiceID+".pdf")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	slog.InfoContext(ctx, "Archived paid invoice",
		"invoiceId", invoiceID,
		"path", path,
		"bytes", len(data))
	return nil
}

func (w *DocumentWorker) companyProfile(ctx context.Context) (core.CompanyProfile, error) {
	profiles, err := w.store.Profiles(ctx)
	if err != nil {
		return core.CompanyProfile{}, fmt.Errorf("list profiles: %w", err)
	}
	if len(profiles) == 0 {
		return core.CompanyProfile{}, nil
	}
	return profiles[0], nil
}
