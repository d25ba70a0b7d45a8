package domain

import "time"

type EventType string

const (
	EventTicketConfirmed EventType = "ticket_confirmed"
	EventTicketCancelled EventType = "ticket_cancelled"
	EventComboPurchased  EventType = "combo_purchased"
)

// PurchaseEvent is published after a purchase record changes. Seats and
// SessionID are set for tickets, ComboID and Quantity for combos.
type PurchaseEvent struct {
	Type          EventType `json:"type"`
	PurchaseID    string    `json:"purchase_id"`
	SessionID     string    `json:"session_id,omitempty"`
	MovieTitle    string    `json:"movie_title,omitempty"`
	Seats         []string  `json:"seats,omitempty"`
	ComboID       string    `json:"combo_id,omitempty"`
	Quantity      int       `json:"quantity,omitempty"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	Total         float64   `json:"total"`
	OccurredAt    time.Time `json:"occurred_at"`
}
