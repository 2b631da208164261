// Package memory holds an in-memory document store used as the default
// backend and by tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"invoiceflow/internal/core"
	"invoiceflow/internal/store"
)

type Store struct {
	mu       sync.Mutex
	users    map[string]core.User
	clients  map[string]core.Client
	invoices map[string]core.Invoice
	profiles map[string]core.CompanyProfile // keyed by owner id

	// insertion order, newest last
	clientOrder  []string
	invoiceOrder []string
}

func New() *Store {
	return &Store{
		users:    make(map[string]core.User),
		clients:  make(map[string]core.Client),
		invoices: make(map[string]core.Invoice),
		profiles: make(map[string]core.CompanyProfile),
	}
}

func (s *Store) Close() error { return nil }

func (s *Store) CreateUser(_ context.Context, u core.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return "", store.ErrConflict
		}
	}
	u.ID = uuid.NewString()
	s.users[u.ID] = u
	return u.ID, nil
}

func (s *Store) UserByEmail(_ context.Context, email string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return core.User{}, store.ErrNotFound
}

func (s *Store) UserByID(_ context.Context, id string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return core.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) CreateClient(_ context.Context, c core.Client) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = uuid.NewString()
	s.clients[c.ID] = c
	s.clientOrder = append(s.clientOrder, c.ID)
	return c.ID, nil
}

func (s *Store) Client(_ context.Context, id string) (core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return core.Client{}, store.ErrNotFound
	}
	return c, nil
}

func (s *Store) Clients(_ context.Context) ([]core.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Client, 0, len(s.clientOrder))
	for i := len(s.clientOrder) - 1; i >= 0; i-- {
		out = append(out, s.clients[s.clientOrder[i]])
	}
	return out, nil
}

func (s *Store) CreateInvoice(_ context.Context, inv core.Invoice) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv.ID = uuid.NewString()
	s.invoices[inv.ID] = copyInvoice(inv)
	s.invoiceOrder = append(s.invoiceOrder, inv.ID)
	return inv.ID, nil
}

func (s *Store) Invoice(_ context.Context, id string) (core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return core.Invoice{}, store.ErrNotFound
	}
	return copyInvoice(inv), nil
}

func (s *Store) Invoices(_ context.Context) ([]core.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Invoice, 0, len(s.invoiceOrder))
	for i := len(s.invoiceOrder) - 1; i >= 0; i-- {
		out = append(out, copyInvoice(s.invoices[s.invoiceOrder[i]]))
	}
	return out, nil
}

func (s *Store) UpdateInvoice(_ context.Context, inv core.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.invoices[inv.ID]; !ok {
		return store.ErrNotFound
	}
	s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (s *Store) SetInvoiceStatus(_ context.Context, id string, status core.InvoiceStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invoices[id]
	if !ok {
		return store.ErrNotFound
	}
	inv.Status = status
	s.invoices[id] = inv
	return nil
}

func (s *Store) SaveProfile(_ context.Context, p core.CompanyProfile) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.profiles[p.OwnerID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = uuid.NewString()
	}
	s.profiles[p.OwnerID] = p
	return p.ID, nil
}

func (s *Store) ProfileByOwner(_ context.Context, ownerID string) (core.CompanyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[ownerID]
	if !ok {
		return core.CompanyProfile{}, store.ErrNotFound
	}
	return p, nil
}

func (s *Store) Profiles(_ context.Context) ([]core.CompanyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.CompanyProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	return out, nil
}

// copyInvoice deep-copies the mutable parts so callers cannot alias the
// stored record.
func copyInvoice(inv core.Invoice) core.Invoice {
	if inv.LineItems != nil {
		items := make([]core.LineItem, len(inv.LineItems))
		copy(items, inv.LineItems)
		inv.LineItems = items
	}
	if inv.Client != nil {
		snapshot := *inv.Client
		inv.Client = &snapshot
	}
	return inv
}
