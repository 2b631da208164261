// Package sqlite holds the SQLite-backed document store. Line items and the
// denormalized client snapshot are stored as JSON columns on the invoice
// row, so an invoice reads and writes as one record.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"invoiceflow/internal/core"
	"invoiceflow/internal/store"
)

type Store struct {
	db *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, u core.User) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, email, display_name, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, u.Email, u.DisplayName, u.PasswordHash, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		if isUniqueViolation(err) {
			return "", store.ErrConflict
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	return id, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at FROM users WHERE email = ?`, email))
}

func (s *Store) UserByID(ctx context.Context, id string) (core.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, email, display_name, password_hash, created_at FROM users WHERE id = ?`, id))
}

func (s *Store) scanUser(row *sql.Row) (core.User, error) {
	var u core.User
	var createdAt string
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return u, nil
}

func (s *Store) CreateClient(ctx context.Context, c core.Client) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO clients (id, name, email, billing_address, payment_terms, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, c.Name, c.Email, c.BillingAddress, string(c.PaymentTerms), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}
	return id, nil
}

func (s *Store) Client(ctx context.Context, id string) (core.Client, error) {
	var c core.Client
	var terms string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, email, billing_address, payment_terms FROM clients WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Email, &c.BillingAddress, &terms)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Client{}, store.ErrNotFound
	}
	if err != nil {
		return core.Client{}, fmt.Errorf("get client: %w", err)
	}
	c.PaymentTerms = core.PaymentTerms(terms)
	return c, nil
}

func (s *Store) Clients(ctx context.Context) ([]core.Client, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, email, billing_address, payment_terms FROM clients ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var out []core.Client
	for rows.Next() {
		var c core.Client
		var terms string
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.BillingAddress, &terms); err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		c.PaymentTerms = core.PaymentTerms(terms)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateInvoice(ctx context.Context, inv core.Invoice) (string, error) {
	id := uuid.NewString()
	items, err := json.Marshal(inv.LineItems)
	if err != nil {
		return "", fmt.Errorf("marshal line items: %w", err)
	}
	snapshot := ""
	if inv.Client != nil {
		b, err := json.Marshal(inv.Client)
		if err != nil {
			return "", fmt.Errorf("marshal client snapshot: %w", err)
		}
		snapshot = string(b)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO invoices (id, client_id, client_snapshot, issue_date, due_date, line_items, discount, tax, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, inv.ClientID, snapshot,
		inv.IssueDate.UTC().Format(time.RFC3339), inv.DueDate.UTC().Format(time.RFC3339),
		string(items), inv.Discount, inv.Tax, string(inv.Status),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("create invoice: %w", err)
	}
	return id, nil
}

func (s *Store) Invoice(ctx context.Context, id string) (core.Invoice, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, client_id, client_snapshot, issue_date, due_date, line_items, discount, tax, status
		 FROM invoices WHERE id = ?`, id)
	inv, err := scanInvoice(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Invoice{}, store.ErrNotFound
	}
	return inv, err
}

func (s *Store) Invoices(ctx context.Context) ([]core.Invoice, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, client_id, client_snapshot, issue_date, due_date, line_items, discount, tax, status
		 FROM invoices ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var out []core.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

func (s *Store) UpdateInvoice(ctx context.Context, inv core.Invoice) error {
	items, err := json.Marshal(inv.LineItems)
	if err != nil {
		return fmt.Errorf("marshal line items: %w", err)
	}
	snapshot := ""
	if inv.Client != nil {
		b, err := json.Marshal(inv.Client)
		if err != nil {
			return fmt.Errorf("marshal client snapshot: %w", err)
		}
		snapshot = string(b)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE invoices SET client_id = ?, client_snapshot = ?, issue_date = ?, due_date = ?, line_items = ?, discount = ?, tax = ?, status = ?
		 WHERE id = ?`,
		inv.ClientID, snapshot,
		inv.IssueDate.UTC().Format(time.RFC3339), inv.DueDate.UTC().Format(time.RFC3339),
		string(items), inv.Discount, inv.Tax, string(inv.Status), inv.ID)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return checkAffected(res)
}

func (s *Store) SetInvoiceStatus(ctx context.Context, id string, status core.InvoiceStatus) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE invoices SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("set invoice status: %w", err)
	}
	return checkAffected(res)
}

func (s *Store) SaveProfile(ctx context.Context, p core.CompanyProfile) (string, error) {
	existing, err := s.ProfileByOwner(ctx, p.OwnerID)
	switch {
	case err == nil:
		_, err := s.db.ExecContext(ctx,
			`UPDATE company_profiles SET company_name = ?, logo_url = ? WHERE owner_id = ?`,
			p.CompanyName, p.LogoURL, p.OwnerID)
		if err != nil {
			return "", fmt.Errorf("update profile: %w", err)
		}
		return existing.ID, nil
	case errors.Is(err, store.ErrNotFound):
		id := uuid.NewString()
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO company_profiles (id, owner_id, company_name, logo_url) VALUES (?, ?, ?, ?)`,
			id, p.OwnerID, p.CompanyName, p.LogoURL)
		if err != nil {
			return "", fmt.Errorf("insert profile: %w", err)
		}
		return id, nil
	default:
		return "", err
	}
}

func (s *Store) ProfileByOwner(ctx context.Context, ownerID string) (core.CompanyProfile, error) {
	var p core.CompanyProfile
	err := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, company_name, logo_url FROM company_profiles WHERE owner_id = ?`, ownerID).
		Scan(&p.ID, &p.OwnerID, &p.CompanyName, &p.LogoURL)
	if errors.Is(err, sql.ErrNoRows) {
		return core.CompanyProfile{}, store.ErrNotFound
	}
	if err != nil {
		return core.CompanyProfile{}, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Store) Profiles(ctx context.Context) ([]core.CompanyProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, company_name, logo_url FROM company_profiles ORDER BY owner_id`)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var out []core.CompanyProfile
	for rows.Next() {
		var p core.CompanyProfile
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.CompanyName, &p.LogoURL); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanInvoice(scan func(dest ...any) error) (core.Invoice, error) {
	var inv core.Invoice
	var snapshot, issueDate, dueDate, items, status string
	if err := scan(&inv.ID, &inv.ClientID, &snapshot, &issueDate, &dueDate, &items, &inv.Discount, &inv.Tax, &status); err != nil {
		return core.Invoice{}, err
	}
	inv.Status = core.InvoiceStatus(status)
	inv.IssueDate, _ = time.Parse(time.RFC3339, issueDate)
	inv.DueDate, _ = time.Parse(time.RFC3339, dueDate)
	if err := json.Unmarshal([]byte(items), &inv.LineItems); err != nil {
		return core.Invoice{}, fmt.Errorf("unmarshal line items: %w", err)
	}
	if snapshot != "" {
		var c core.Client
		if err := json.Unmarshal([]byte(snapshot), &c); err != nil {
			return core.Invoice{}, fmt.Errorf("unmarshal client snapshot: %w", err)
		}
		inv.Client = &c
	}
	return inv, nil
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
