package domain

import (
	"fmt"
	"time"
)

type PurchaseStatus string

const (
	PurchaseConfirmed PurchaseStatus = "confirmado"
	PurchaseCancelled PurchaseStatus = "cancelado"
	PurchasePending   PurchaseStatus = "pendente"
)

func ParsePurchaseStatus(s string) (PurchaseStatus, error) {
	switch st := PurchaseStatus(s); st {
	case PurchaseConfirmed, PurchaseCancelled, PurchasePending:
		return st, nil
	}
	return "", fmt.Errorf("%w: purchase status %q", ErrInvalidVariant, s)
}

// UnmarshalText keeps the stored status. Only confirmed records count towards
// totals, so an unrecognized one is listed but never summed.
func (s *PurchaseStatus) UnmarshalText(text []byte) error {
	*s = PurchaseStatus(text)
	return nil
}

func (s PurchaseStatus) Known() bool {
	if s == "" {
		return true
	}
	_, err := ParsePurchaseStatus(string(s))
	return err == nil
}

func statusField(s PurchaseStatus) []string {
	if s.Known() {
		return nil
	}
	return []string{"status=" + string(s)}
}

// Ticket is created once when a booking is finalized. Total is computed by the
// caller and stored as given.
type Ticket struct {
	ID            string         `json:"id,omitempty"`
	SessionID     string         `json:"sessaoId"`
	Seats         []string       `json:"assentos"`
	CustomerName  string         `json:"nomeCliente"`
	CustomerEmail string         `json:"emailCliente"`
	Total         float64        `json:"total"`
	PurchasedAt   time.Time      `json:"dataCompra"`
	Status        PurchaseStatus `json:"status"`
}

// ComboPurchase is one cart line item as submitted at checkout.
type ComboPurchase struct {
	ID            string         `json:"id,omitempty"`
	ComboID       string         `json:"comboId"`
	Quantity      int            `json:"quantidade"`
	CustomerName  string         `json:"nomeCliente"`
	CustomerEmail string         `json:"emailCliente"`
	Total         float64        `json:"total"`
	PurchasedAt   time.Time      `json:"dataCompra"`
	Status        PurchaseStatus `json:"status"`
}

func (t Ticket) Unrecognized() []string { return statusField(t.Status) }

func (p ComboPurchase) Unrecognized() []string { return statusField(p.Status) }
