package events

import (
	"encoding/json"
	"time"
)

const (
	EventInvoiceCreated = "invoice.created"
	EventInvoicePaid    = "invoice.paid"
)

// InvoiceEventMessage is a lightweight notification that something happened
// to an invoice. It carries only the kind and the id; consumers fetch the
// full invoice from the store.
type InvoiceEventMessage struct {
	Kind      string    `json:"kind"`
	InvoiceID string    `json:"invoiceId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewInvoiceEventMessage(kind, invoiceID string) *InvoiceEventMessage {
	return &InvoiceEventMessage{
		Kind:      kind,
		InvoiceID: invoiceID,
		Timestamp: time.Now(),
	}
}

func (m *InvoiceEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func InvoiceEventMessageFromJSON(data []byte) (*InvoiceEventMessage, error) {
	var msg InvoiceEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
