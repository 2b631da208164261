// Package store defines the persistence boundary for invoicing documents.
//
// Implementations behave like a document collection: creates return a
// generated identifier, reads return whole records, and the only partial
// update is the merge-style invoice status change. No multi-document
// transaction guarantee is offered, and callers must not assume a read
// immediately reflects a prior write.
package store

import (
	"context"
	"errors"

	"invoiceflow/internal/core"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

type (
	UserStore interface {
		CreateUser(ctx context.Context, u core.User) (string, error)
		UserByEmail(ctx context.Context, email string) (core.User, error)
		UserByID(ctx context.Context, id string) (core.User, error)
	}

	ClientStore interface {
		CreateClient(ctx context.Context, c core.Client) (string, error)
		Client(ctx context.Context, id string) (core.Client, error)
		Clients(ctx context.Context) ([]core.Client, error)
	}

	InvoiceStore interface {
		CreateInvoice(ctx context.Context, inv core.Invoice) (string, error)
		Invoice(ctx context.Context, id string) (core.Invoice, error)
		// Invoices returns the whole collection, newest first.
		Invoices(ctx context.Context) ([]core.Invoice, error)
		UpdateInvoice(ctx context.Context, inv core.Invoice) error
		// SetInvoiceStatus is a merge-style partial update touching only the
		// status field.
		SetInvoiceStatus(ctx context.Context, id string, status core.InvoiceStatus) error
	}

	ProfileStore interface {
		// SaveProfile upserts the company profile keyed by its owner.
		SaveProfile(ctx context.Context, p core.CompanyProfile) (string, error)
		ProfileByOwner(ctx context.Context, ownerID string) (core.CompanyProfile, error)
		Profiles(ctx context.Context) ([]core.CompanyProfile, error)
	}

	// Store is the full document store surface used by the application.
	Store interface {
		UserStore
		ClientStore
		InvoiceStore
		ProfileStore
		Close() error
	}
)
