package history

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/money"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/Domenick1991/cinema/internal/service/catalog"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	ErrTicketNotFound       = errors.New("ticket not found")
	ErrTicketNotCancellable = errors.New("only confirmed tickets can be cancelled")
)

type HistoryUseCase interface {
	History(ctx context.Context, emailFilter string) (*History, error)
	Tickets(ctx context.Context) (*TicketsReport, error)
	CancelTicket(ctx context.Context, ticketID string) (*domain.Ticket, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type TicketRecord struct {
	Ticket     domain.Ticket `json:"ticket"`
	MovieTitle string        `json:"movie_title"`
	RoomName   string        `json:"room_name"`
	Date       string        `json:"date"`
	Time       string        `json:"time"`
}

type ComboPurchaseRecord struct {
	Purchase  domain.ComboPurchase `json:"purchase"`
	ComboName string               `json:"combo_name"`
}

type History struct {
	EmailFilter    string                `json:"email_filter,omitempty"`
	Tickets        []TicketRecord        `json:"tickets"`
	ComboPurchases []ComboPurchaseRecord `json:"combo_purchases"`
	TicketsTotal   float64               `json:"tickets_total"`
	CombosTotal    float64               `json:"combos_total"`
}

type TicketsReport struct {
	Tickets   []TicketRecord `json:"tickets"`
	TotalSold float64        `json:"total_sold"`
}

type HistoryService struct {
	gateway *repository.Gateway
	logger  *logrus.Logger
	now     func() time.Time

	producer Producer
	topic    string
}

type HistoryServiceOption func(*HistoryService)

func WithEvents(producer Producer, topic string) HistoryServiceOption {
	return func(s *HistoryService) {
		s.producer = producer
		s.topic = topic
	}
}

func NewHistoryService(gateway *repository.Gateway, logger *logrus.Logger, opts ...HistoryServiceOption) *HistoryService {
	service := &HistoryService{gateway: gateway, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

type records struct {
	tickets   []domain.Ticket
	purchases []domain.ComboPurchase
	sessions  []domain.Session
	movies    []domain.Movie
	rooms     []domain.Room
	combos    []domain.Combo
}

func (s *HistoryService) load(ctx context.Context, withCombos bool) (*records, error) {
	var r records
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		r.tickets, err = s.gateway.Tickets.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		r.sessions, err = s.gateway.Sessions.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		r.movies, err = s.gateway.Movies.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		r.rooms, err = s.gateway.Rooms.List(gctx)
		return err
	})
	if withCombos {
		g.Go(func() (err error) {
			r.combos, err = s.gateway.Combos.List(gctx)
			return err
		})
		// A missing purchases collection reads as no purchases.
		g.Go(func() error {
			purchases, err := s.gateway.ComboPurchases.List(gctx)
			if err != nil {
				s.logger.WithError(err).Warn("combo purchases unavailable")
				return nil
			}
			r.purchases = purchases
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load purchase history: %w", err)
	}
	return &r, nil
}

// History lists tickets and combo purchases whose e-mail contains
// emailFilter, ignoring case. Totals count confirmed purchases of every
// customer, regardless of the filter.
func (s *HistoryService) History(ctx context.Context, emailFilter string) (*History, error) {
	r, err := s.load(ctx, true)
	if err != nil {
		return nil, err
	}

	h := &History{
		EmailFilter:    emailFilter,
		Tickets:        []TicketRecord{},
		ComboPurchases: []ComboPurchaseRecord{},
		TicketsTotal:   confirmedTicketsTotal(r.tickets),
	}
	needle := strings.ToLower(emailFilter)
	for _, t := range r.tickets {
		if strings.Contains(strings.ToLower(t.CustomerEmail), needle) {
			h.Tickets = append(h.Tickets, r.ticketRecord(t))
		}
	}

	var comboTotals []float64
	for _, p := range r.purchases {
		if p.Status == domain.PurchaseConfirmed {
			comboTotals = append(comboTotals, p.Total)
		}
		if !strings.Contains(strings.ToLower(p.CustomerEmail), needle) {
			continue
		}
		record := ComboPurchaseRecord{Purchase: p, ComboName: catalog.FallbackLabel}
		if combo, ok := catalog.FindCombo(r.combos, p.ComboID); ok {
			record.ComboName = combo.Name
		}
		h.ComboPurchases = append(h.ComboPurchases, record)
	}
	h.CombosTotal = money.Sum(comboTotals...)
	return h, nil
}

func (s *HistoryService) Tickets(ctx context.Context) (*TicketsReport, error) {
	r, err := s.load(ctx, false)
	if err != nil {
		return nil, err
	}
	report := &TicketsReport{
		Tickets:   make([]TicketRecord, 0, len(r.tickets)),
		TotalSold: confirmedTicketsTotal(r.tickets),
	}
	for _, t := range r.tickets {
		report.Tickets = append(report.Tickets, r.ticketRecord(t))
	}
	return report, nil
}

// CancelTicket marks a confirmed ticket as cancelled. The seats stay
// occupied on the session.
func (s *HistoryService) CancelTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	tickets, err := s.gateway.Tickets.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tickets: %w", err)
	}
	i := slices.IndexFunc(tickets, func(t domain.Ticket) bool { return t.ID == ticketID })
	if i < 0 {
		return nil, ErrTicketNotFound
	}
	ticket := tickets[i]
	if ticket.Status != domain.PurchaseConfirmed {
		return nil, ErrTicketNotCancellable
	}

	ticket.Status = domain.PurchaseCancelled
	updated, err := s.gateway.Tickets.Update(ctx, ticket.ID, ticket)
	if err != nil {
		return nil, fmt.Errorf("cancel ticket: %w", err)
	}
	s.publishCancelled(ctx, updated)
	return &updated, nil
}

func (s *HistoryService) publishCancelled(ctx context.Context, t domain.Ticket) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := domain.PurchaseEvent{
		Type:          domain.EventTicketCancelled,
		PurchaseID:    t.ID,
		SessionID:     t.SessionID,
		Seats:         t.Seats,
		CustomerName:  t.CustomerName,
		CustomerEmail: t.CustomerEmail,
		Total:         t.Total,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.topic, t.ID, event); err != nil {
		s.logger.WithError(err).WithField("ticket_id", t.ID).Warn("failed to publish ticket_cancelled event")
	}
}

func (r *records) ticketRecord(t domain.Ticket) TicketRecord {
	record := TicketRecord{Ticket: t, MovieTitle: catalog.FallbackLabel, RoomName: catalog.FallbackLabel}
	session, ok := catalog.FindSession(r.sessions, t.SessionID)
	if !ok {
		return record
	}
	record.Date = session.Date
	record.Time = session.Time
	if movie, ok := catalog.FindMovie(r.movies, session.MovieID); ok {
		record.MovieTitle = movie.Title
	}
	if room, ok := catalog.FindRoom(r.rooms, session.RoomID); ok {
		record.RoomName = room.Name
	}
	return record
}

func confirmedTicketsTotal(tickets []domain.Ticket) float64 {
	var totals []float64
	for _, t := range tickets {
		if t.Status == domain.PurchaseConfirmed {
			totals = append(totals, t.Total)
		}
	}
	return money.Sum(totals...)
}

var _ HistoryUseCase = (*HistoryService)(nil)
