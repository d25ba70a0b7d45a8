package booking

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/Domenick1991/cinema/internal/statestore"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type BookingUseCase interface {
	Start(ctx context.Context, sessionID string) (*View, error)
	Get(ctx context.Context, token string) (*View, error)
	ToggleSeat(ctx context.Context, token, seat string) (*View, error)
	ProceedToDetails(ctx context.Context, token string) (*View, error)
	BackToSeats(ctx context.Context, token string) (*View, error)
	Finalize(ctx context.Context, token string, details CustomerDetails) (*View, error)
	Discard(ctx context.Context, token string)
	SweepExpired() int
}

// Locker serialises finalisations of the same session.
type Locker interface {
	AcquireSessionLock(ctx context.Context, sessionID string, ttl time.Duration) (string, bool, error)
	ReleaseSessionLock(ctx context.Context, sessionID, token string) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	gateway   *repository.Gateway
	workflows *statestore.Store[*Workflow]
	logger    *logrus.Logger
	now       func() time.Time

	locker  Locker
	lockTTL time.Duration

	producer Producer
	topic    string
}

type BookingServiceOption func(*BookingService)

// WithFinalizationGuard makes Finalize take a per-session lock, re-read the
// session and refuse seats sold since the booking started. Without it two
// customers can buy the same seat.
func WithFinalizationGuard(locker Locker, ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		s.locker = locker
		s.lockTTL = ttl
	}
}

func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	gateway *repository.Gateway,
	workflowTTL time.Duration,
	logger *logrus.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		gateway:   gateway,
		workflows: statestore.New[*Workflow](workflowTTL),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// Start loads the session, its movie and its room straight from the data
// service and opens a booking for it.
func (s *BookingService) Start(ctx context.Context, sessionID string) (*View, error) {
	sessions, err := s.gateway.Sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	i := slices.IndexFunc(sessions, func(x domain.Session) bool { return x.ID == sessionID })
	if i < 0 {
		return nil, ErrSessionNotFound
	}
	session := sessions[i]

	var movies []domain.Movie
	var rooms []domain.Room
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		movies, err = s.gateway.Movies.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		rooms, err = s.gateway.Rooms.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load session details: %w", err)
	}

	mi := slices.IndexFunc(movies, func(m domain.Movie) bool { return m.ID == session.MovieID })
	ri := slices.IndexFunc(rooms, func(r domain.Room) bool { return r.ID == session.RoomID })
	if mi < 0 || ri < 0 {
		return nil, ErrSessionNotFound
	}

	w := NewWorkflow(session, movies[mi], rooms[ri])
	w.token = s.workflows.Add(w)
	view := w.View()
	return &view, nil
}

func (s *BookingService) Get(_ context.Context, token string) (*View, error) {
	w, err := s.workflow(token)
	if err != nil {
		return nil, err
	}
	view := w.View()
	return &view, nil
}

func (s *BookingService) ToggleSeat(_ context.Context, token, seat string) (*View, error) {
	return s.apply(token, func(w *Workflow) error { return w.Toggle(seat) })
}

func (s *BookingService) ProceedToDetails(_ context.Context, token string) (*View, error) {
	return s.apply(token, (*Workflow).ProceedToDetails)
}

func (s *BookingService) BackToSeats(_ context.Context, token string) (*View, error) {
	return s.apply(token, (*Workflow).BackToSeats)
}

// Finalize records the ticket and then marks the seats occupied. If either
// write fails the booking stays in the details step; a ticket written before
// a failed session update is left in place and logged.
func (s *BookingService) Finalize(ctx context.Context, token string, details CustomerDetails) (*View, error) {
	w, err := s.workflow(token)
	if err != nil {
		return nil, err
	}
	sub, err := w.beginSubmit(details)
	if err != nil {
		return nil, err
	}

	ticket, err := s.submit(ctx, sub)
	if err != nil {
		var taken *seatsTakenError
		if errors.As(err, &taken) {
			w.refreshOccupied(taken.occupied)
		}
		w.abortSubmit()
		return nil, err
	}
	w.completeSubmit(ticket)

	s.publish(ctx, sub, ticket)
	view := w.View()
	return &view, nil
}

func (s *BookingService) submit(ctx context.Context, sub submission) (domain.Ticket, error) {
	log := s.logger.WithFields(logrus.Fields{
		"session_id": sub.session.ID,
		"seats":      sub.seats,
	})

	base := sub.session
	if s.locker != nil {
		lockToken, ok, err := s.locker.AcquireSessionLock(ctx, sub.session.ID, s.lockTTL)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
		}
		if !ok {
			return domain.Ticket{}, ErrSessionBusy
		}
		defer func() {
			if err := s.locker.ReleaseSessionLock(context.WithoutCancel(ctx), sub.session.ID, lockToken); err != nil {
				log.WithError(err).Warn("release session lock")
			}
		}()

		fresh, err := s.reloadSession(ctx, sub.session.ID)
		if err != nil {
			return domain.Ticket{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
		}
		if slices.ContainsFunc(sub.seats, fresh.IsOccupied) {
			return domain.Ticket{}, &seatsTakenError{occupied: fresh.OccupiedSeats}
		}
		base = fresh
	}

	ticket, err := s.gateway.Tickets.Create(ctx, domain.Ticket{
		SessionID:     sub.session.ID,
		Seats:         sub.seats,
		CustomerName:  sub.customer.Name,
		CustomerEmail: sub.customer.Email,
		Total:         sub.total,
		PurchasedAt:   s.now().UTC(),
		Status:        domain.PurchaseConfirmed,
	})
	if err != nil {
		log.WithError(err).Error("create ticket")
		return domain.Ticket{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	updated := base
	updated.OccupiedSeats = append(slices.Clone(base.OccupiedSeats), sub.seats...)
	if _, err := s.gateway.Sessions.Update(ctx, updated.ID, updated); err != nil {
		log.WithError(err).WithField("ticket_id", ticket.ID).
			Error("ticket created but session seats not updated")
		return domain.Ticket{}, fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	log.WithField("ticket_id", ticket.ID).Info("ticket confirmed")
	return ticket, nil
}

func (s *BookingService) reloadSession(ctx context.Context, id string) (domain.Session, error) {
	sessions, err := s.gateway.Sessions.List(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	i := slices.IndexFunc(sessions, func(x domain.Session) bool { return x.ID == id })
	if i < 0 {
		return domain.Session{}, ErrSessionNotFound
	}
	return sessions[i], nil
}

func (s *BookingService) publish(ctx context.Context, sub submission, ticket domain.Ticket) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := domain.PurchaseEvent{
		Type:          domain.EventTicketConfirmed,
		PurchaseID:    ticket.ID,
		SessionID:     ticket.SessionID,
		MovieTitle:    sub.movie.Title,
		Seats:         ticket.Seats,
		CustomerName:  ticket.CustomerName,
		CustomerEmail: ticket.CustomerEmail,
		Total:         ticket.Total,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.topic, ticket.ID, event); err != nil {
		s.logger.WithError(err).WithField("ticket_id", ticket.ID).Warn("failed to publish ticket_confirmed event")
	}
}

func (s *BookingService) Discard(_ context.Context, token string) {
	s.workflows.Delete(token)
}

// SweepExpired forgets bookings idle for longer than the workflow ttl.
func (s *BookingService) SweepExpired() int {
	return s.workflows.Sweep()
}

func (s *BookingService) workflow(token string) (*Workflow, error) {
	w, ok := s.workflows.Get(token)
	if !ok {
		return nil, ErrWorkflowNotFound
	}
	return w, nil
}

func (s *BookingService) apply(token string, step func(*Workflow) error) (*View, error) {
	w, err := s.workflow(token)
	if err != nil {
		return nil, err
	}
	if err := step(w); err != nil {
		return nil, err
	}
	view := w.View()
	return &view, nil
}

var _ BookingUseCase = (*BookingService)(nil)
