package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusDraft   InvoiceStatus = "Draft"
	StatusSent    InvoiceStatus = "Sent"
	StatusPaid    InvoiceStatus = "Paid"
	StatusOverdue InvoiceStatus = "Overdue"
)

const (
	Net15        PaymentTerms = "Net 15"
	Net30        PaymentTerms = "Net 30"
	Net60        PaymentTerms = "Net 60"
	DueOnReceipt PaymentTerms = "Due on receipt"
)

const (
	UnitPerHour ServiceUnit = "per_hour"
	UnitFixed   ServiceUnit = "fixed"
)

type (
	InvoiceStatus string
	PaymentTerms  string
	ServiceUnit   string

	// Client is a billable customer. Identity is immutable once created;
	// invoices keep a denormalized snapshot of the client at issue time.
	Client struct {
		ID             string       `json:"id"`
		Name           string       `json:"name"`
		Email          string       `json:"email"`
		BillingAddress string       `json:"billingAddress"` // free text, comma-delimited lines
		PaymentTerms   PaymentTerms `json:"paymentTerms"`
	}

	// LineItem is one billable entry on an invoice. It has no lifecycle of
	// its own and is always stored inline with its invoice.
	LineItem struct {
		Description string  `json:"description"`
		Quantity    float64 `json:"quantity"`
		Price       float64 `json:"price"`
	}

	Invoice struct {
		ID        string        `json:"id"`
		ClientID  string        `json:"clientId"`
		Client    *Client       `json:"client,omitempty"` // snapshot, denormalized
		IssueDate time.Time     `json:"issueDate"`
		DueDate   time.Time     `json:"dueDate"`
		LineItems []LineItem    `json:"lineItems"`
		Discount  float64       `json:"discount"` // percentage 0-100
		Tax       float64       `json:"tax"`      // percentage 0-100
		Status    InvoiceStatus `json:"status"`
	}

	// CompanyProfile is the billing identity of one user account,
	// keyed 1:1 by the owning user's id.
	CompanyProfile struct {
		ID          string `json:"id"`
		OwnerID     string `json:"ownerId"`
		CompanyName string `json:"companyName"`
		LogoURL     string `json:"logoUrl,omitempty"`
	}

	// Service is a static catalog entry used to pre-fill a new line item.
	Service struct {
		ID          string      `json:"id"`
		Description string      `json:"description"`
		Rate        float64     `json:"rate"`
		Unit        ServiceUnit `json:"unit"`
	}

	User struct {
		ID           string    `json:"id"`
		Email        string    `json:"email"`
		DisplayName  string    `json:"displayName"`
		PasswordHash string    `json:"-"`
		CreatedAt    time.Time `json:"createdAt"`
	}
)

var (
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidQuantity  = errors.New("quantity must be at least 1")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrInvalidPercent   = errors.New("percentage must be between 0 and 100")
	ErrUnknownStatus    = errors.New("unknown invoice status")
	ErrUnknownTerms     = errors.New("unknown payment terms")
	ErrMissingClient    = errors.New("client is required")
	ErrMissingDate      = errors.New("date cannot be zero")
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue:
		return true
	}
	return false
}

func (p PaymentTerms) Valid() bool {
	switch p {
	case Net15, Net30, Net60, DueOnReceipt:
		return true
	}
	return false
}

func (c Client) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidEmail
	}
	if !c.PaymentTerms.Valid() {
		return ErrUnknownTerms
	}
	return nil
}

func (li LineItem) Validate() error {
	if strings.TrimSpace(li.Description) == "" {
		return ErrEmptyDescription
	}
	if li.Quantity < 1 {
		return ErrInvalidQuantity
	}
	if li.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}

// Validate checks an invoice before it is persisted. The calculator never
// validates; missing numeric fields degrade to zero there (see calc.go).
func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.ClientID) == "" {
		return ErrMissingClient
	}
	if inv.IssueDate.IsZero() || inv.DueDate.IsZero() {
		return ErrMissingDate
	}
	if inv.Discount < 0 || inv.Discount > 100 {
		return ErrInvalidPercent
	}
	if inv.Tax < 0 || inv.Tax > 100 {
		return ErrInvalidPercent
	}
	if !inv.Status.Valid() {
		return ErrUnknownStatus
	}
	for _, li := range inv.LineItems {
		if err := li.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (p CompanyProfile) Validate() error {
	if strings.TrimSpace(p.CompanyName) == "" {
		return ErrEmptyName
	}
	return nil
}
