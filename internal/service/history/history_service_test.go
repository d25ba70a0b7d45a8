package history

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/Domenick1991/cinema/internal/service/catalog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockComboPurchaseRepository struct {
	mock.Mock
}

func (m *MockComboPurchaseRepository) List(ctx context.Context) ([]domain.ComboPurchase, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ComboPurchase), args.Error(1)
}

func (m *MockComboPurchaseRepository) Create(ctx context.Context, item domain.ComboPurchase) (domain.ComboPurchase, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(domain.ComboPurchase), args.Error(1)
}

func (m *MockComboPurchaseRepository) Update(ctx context.Context, id string, item domain.ComboPurchase) (domain.ComboPurchase, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(domain.ComboPurchase), args.Error(1)
}

func (m *MockComboPurchaseRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fixture struct {
	gateway   *repository.Gateway
	confirmed domain.Ticket
	cancelled domain.Ticket
	orphan    domain.Ticket
}

func seed(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	gw := repository.NewGateway(repository.NewMemoryStore(), repository.DefaultResources(), quietLogger())
	at := time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

	movie, err := gw.Movies.Create(ctx, domain.Movie{Title: "Duna", Genre: "Aventura", Runtime: 155})
	require.NoError(t, err)
	room, err := gw.Rooms.Create(ctx, domain.Room{Name: "Sala 1", Capacity: 80})
	require.NoError(t, err)
	session, err := gw.Sessions.Create(ctx, domain.Session{MovieID: movie.ID, RoomID: room.ID, Date: "2025-03-01", Time: "20:00", Price: 20})
	require.NoError(t, err)
	combo, err := gw.Combos.Create(ctx, domain.Combo{Name: "Pipoca G", Price: 25, Category: domain.CategoryPopcorn})
	require.NoError(t, err)

	confirmed, err := gw.Tickets.Create(ctx, domain.Ticket{SessionID: session.ID, Seats: []string{"A1", "A2"}, CustomerName: "Ana", CustomerEmail: "Ana@Example.com", Total: 40, PurchasedAt: at, Status: domain.PurchaseConfirmed})
	require.NoError(t, err)
	cancelled, err := gw.Tickets.Create(ctx, domain.Ticket{SessionID: session.ID, Seats: []string{"B1"}, CustomerName: "Bia", CustomerEmail: "bia@example.com", Total: 20, PurchasedAt: at, Status: domain.PurchaseCancelled})
	require.NoError(t, err)
	orphan, err := gw.Tickets.Create(ctx, domain.Ticket{SessionID: "gone", Seats: []string{"C1"}, CustomerName: "Caio", CustomerEmail: "caio@example.com", Total: 15, PurchasedAt: at, Status: domain.PurchaseConfirmed})
	require.NoError(t, err)

	_, err = gw.ComboPurchases.Create(ctx, domain.ComboPurchase{ComboID: combo.ID, Quantity: 2, CustomerName: "Ana", CustomerEmail: "ana@example.com", Total: 50, PurchasedAt: at, Status: domain.PurchaseConfirmed})
	require.NoError(t, err)
	_, err = gw.ComboPurchases.Create(ctx, domain.ComboPurchase{ComboID: "gone", Quantity: 1, CustomerName: "Caio", CustomerEmail: "caio@example.com", Total: 10, PurchasedAt: at, Status: domain.PurchasePending})
	require.NoError(t, err)

	return fixture{gateway: gw, confirmed: confirmed, cancelled: cancelled, orphan: orphan}
}

func TestHistoryService_History_FiltersByEmailIgnoringCase(t *testing.T) {
	f := seed(t)
	service := NewHistoryService(f.gateway, quietLogger())

	h, err := service.History(context.Background(), "ANA@")

	require.NoError(t, err)
	require.Len(t, h.Tickets, 1)
	assert.Equal(t, f.confirmed.ID, h.Tickets[0].Ticket.ID)
	assert.Equal(t, "Duna", h.Tickets[0].MovieTitle)
	assert.Equal(t, "Sala 1", h.Tickets[0].RoomName)
	require.Len(t, h.ComboPurchases, 1)
	assert.Equal(t, "Pipoca G", h.ComboPurchases[0].ComboName)

	assert.Equal(t, 55.0, h.TicketsTotal, "totals ignore the filter and count confirmed only")
	assert.Equal(t, 50.0, h.CombosTotal)
}

func TestHistoryService_History_FallbackJoins(t *testing.T) {
	f := seed(t)
	service := NewHistoryService(f.gateway, quietLogger())

	h, err := service.History(context.Background(), "caio")

	require.NoError(t, err)
	require.Len(t, h.Tickets, 1)
	assert.Equal(t, catalog.FallbackLabel, h.Tickets[0].MovieTitle)
	assert.Equal(t, catalog.FallbackLabel, h.Tickets[0].RoomName)
	require.Len(t, h.ComboPurchases, 1)
	assert.Equal(t, catalog.FallbackLabel, h.ComboPurchases[0].ComboName)
}

func TestHistoryService_History_ToleratesMissingComboPurchases(t *testing.T) {
	f := seed(t)
	purchases := &MockComboPurchaseRepository{}
	purchases.On("List", mock.Anything).Return(nil, repository.ErrNotFound).Once()
	f.gateway.ComboPurchases = purchases
	service := NewHistoryService(f.gateway, quietLogger())

	h, err := service.History(context.Background(), "")

	require.NoError(t, err)
	assert.Len(t, h.Tickets, 3)
	assert.Empty(t, h.ComboPurchases)
	assert.Equal(t, 0.0, h.CombosTotal)
}

func TestHistoryService_Tickets(t *testing.T) {
	f := seed(t)
	service := NewHistoryService(f.gateway, quietLogger())

	report, err := service.Tickets(context.Background())

	require.NoError(t, err)
	assert.Len(t, report.Tickets, 3)
	assert.Equal(t, 55.0, report.TotalSold)
}

func TestHistoryService_CancelTicket(t *testing.T) {
	f := seed(t)
	producer := &MockProducer{}
	producer.On("Publish", mock.Anything, "purchases", f.confirmed.ID, mock.MatchedBy(func(e domain.PurchaseEvent) bool {
		return e.Type == domain.EventTicketCancelled
	})).Return(errors.New("broker down")).Once()
	service := NewHistoryService(f.gateway, quietLogger(), WithEvents(producer, "purchases"))
	ctx := context.Background()

	ticket, err := service.CancelTicket(ctx, f.confirmed.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PurchaseCancelled, ticket.Status)
	assert.Equal(t, []string{"A1", "A2"}, ticket.Seats)

	_, err = service.CancelTicket(ctx, f.confirmed.ID)
	assert.ErrorIs(t, err, ErrTicketNotCancellable)
	_, err = service.CancelTicket(ctx, f.cancelled.ID)
	assert.ErrorIs(t, err, ErrTicketNotCancellable)
	_, err = service.CancelTicket(ctx, "404")
	assert.ErrorIs(t, err, ErrTicketNotFound)

	report, err := service.Tickets(ctx)
	require.NoError(t, err)
	assert.Equal(t, 15.0, report.TotalSold)
	producer.AssertExpectations(t)
}
