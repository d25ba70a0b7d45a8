package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/money"
	"github.com/sirupsen/logrus"
)

// Sender delivers purchase confirmations. It renders the message and logs it;
// no mail transport is wired.
type Sender struct {
	logger *logrus.Logger
}

func NewSender(logger *logrus.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event domain.PurchaseEvent) error {
	if event.CustomerEmail == "" {
		return nil
	}
	subject, body := Render(event)
	s.logger.WithFields(logrus.Fields{
		"to":          event.CustomerEmail,
		"subject":     subject,
		"purchase_id": event.PurchaseID,
		"type":        event.Type,
	}).Info(body)
	return nil
}

// Render builds the subject and body of the message for an event.
func Render(event domain.PurchaseEvent) (string, string) {
	switch event.Type {
	case domain.EventTicketConfirmed:
		return "Compra confirmada",
			fmt.Sprintf("Olá %s, seus ingressos para %s estão confirmados. Assentos: %s. Total: R$ %s",
				event.CustomerName, titleOrSession(event), strings.Join(event.Seats, ", "), money.Format(event.Total))
	case domain.EventTicketCancelled:
		return "Ingresso cancelado",
			fmt.Sprintf("Olá %s, o ingresso %s foi cancelado.", event.CustomerName, event.PurchaseID)
	case domain.EventComboPurchased:
		return "Pedido de combo confirmado",
			fmt.Sprintf("Olá %s, seu pedido de %d combo(s) foi confirmado. Total: R$ %s",
				event.CustomerName, event.Quantity, money.Format(event.Total))
	}
	return string(event.Type), fmt.Sprintf("Olá %s, sua compra %s foi atualizada.", event.CustomerName, event.PurchaseID)
}

func titleOrSession(event domain.PurchaseEvent) string {
	if event.MovieTitle != "" {
		return event.MovieTitle
	}
	return "a sessão " + event.SessionID
}
