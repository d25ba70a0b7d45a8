package catalog

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository[T any] struct {
	mock.Mock
}

func (m *MockRepository[T]) List(ctx context.Context) ([]T, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]T), args.Error(1)
}

func (m *MockRepository[T]) Create(ctx context.Context, item T) (T, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[T]) Update(ctx context.Context, id string, item T) (T, error) {
	args := m.Called(ctx, id, item)
	return args.Get(0).(T), args.Error(1)
}

func (m *MockRepository[T]) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) GetCatalog(ctx context.Context) (*domain.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Catalog), args.Error(1)
}

func (m *MockCache) SetCatalog(ctx context.Context, catalog *domain.Catalog) error {
	args := m.Called(ctx, catalog)
	return args.Error(0)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fixture struct {
	gateway *repository.Gateway
	movie   domain.Movie
	room    domain.Room
	early   domain.Session
	late    domain.Session
}

func seed(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	gw := repository.NewGateway(repository.NewMemoryStore(), repository.DefaultResources(), quietLogger())

	movie, err := gw.Movies.Create(ctx, domain.Movie{Title: "Duna", Genre: "Aventura", Runtime: 155})
	require.NoError(t, err)
	room, err := gw.Rooms.Create(ctx, domain.Room{Name: "Sala 1", Capacity: 6, Rows: 2, SeatsPerRow: 3, Projection: domain.Projection2D})
	require.NoError(t, err)
	late, err := gw.Sessions.Create(ctx, domain.Session{MovieID: movie.ID, RoomID: room.ID, Date: "2025-03-02", Time: "21:00", Price: 20, OccupiedSeats: []string{"A1"}})
	require.NoError(t, err)
	early, err := gw.Sessions.Create(ctx, domain.Session{MovieID: movie.ID, RoomID: room.ID, Date: "2025-03-01", Time: "18:00", Price: 18, OccupiedSeats: []string{}})
	require.NoError(t, err)

	return fixture{gateway: gw, movie: movie, room: room, early: early, late: late}
}

func TestResolveSession_FallbackLabels(t *testing.T) {
	session := domain.Session{ID: "1", MovieID: "missing", RoomID: "missing", OccupiedSeats: []string{"A1"}}

	view := ResolveSession(session, []domain.Movie{{ID: "2", Title: "Duna"}}, nil)

	assert.Equal(t, FallbackLabel, view.MovieTitle)
	assert.Equal(t, FallbackLabel, view.RoomName)
	assert.Equal(t, 0, view.Capacity)
	assert.Equal(t, 0, view.Availability)
}

func TestAvailability(t *testing.T) {
	testCases := []struct {
		name     string
		capacity int
		occupied []string
		want     int
	}{
		{"empty room", 80, nil, 80},
		{"some sold", 80, []string{"A1", "A2", "B7"}, 77},
		{"full", 2, []string{"A1", "A2"}, 0},
		{"over capacity stays negative", 1, []string{"A1", "A2", "A3"}, -2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Availability(domain.Room{Capacity: tc.capacity}, true, domain.Session{OccupiedSeats: tc.occupied})
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDistinctDates(t *testing.T) {
	dates := DistinctDates([]domain.Session{{Date: "2025-03-02"}, {Date: "2025-03-01"}, {Date: "2025-03-02"}})
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, dates)
}

func TestCatalogService_SessionsPage(t *testing.T) {
	f := seed(t)
	service := NewCatalogService(f.gateway, quietLogger())

	page, err := service.SessionsPage(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-01", "2025-03-02"}, page.Dates)
	require.Len(t, page.Sessions, 2)
	assert.Equal(t, "Duna", page.Sessions[0].MovieTitle)
	assert.Equal(t, "Sala 1", page.Sessions[0].RoomName)
	assert.Equal(t, 5, page.Sessions[0].Availability)

	page, err = service.SessionsPage(context.Background(), "2025-03-01")
	require.NoError(t, err)
	require.Len(t, page.Sessions, 1)
	assert.Equal(t, f.early.ID, page.Sessions[0].Session.ID)
	assert.Len(t, page.Dates, 2)
}

func TestCatalogService_RoomsPageAndSeats(t *testing.T) {
	f := seed(t)
	service := NewCatalogService(f.gateway, quietLogger())

	rooms, err := service.RoomsPage(context.Background())
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Len(t, rooms[0].Sessions, 2)

	seats, err := service.RoomSeats(context.Background(), f.room.ID, f.late.ID)
	require.NoError(t, err)
	require.Len(t, seats.Seats, 2)
	assert.True(t, seats.Seats[0][0].Occupied)
	assert.False(t, seats.Seats[1][2].Occupied)

	_, err = service.RoomSeats(context.Background(), "nope", "")
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCatalogService_Snapshot_CacheHit(t *testing.T) {
	movies := &MockRepository[domain.Movie]{}
	cache := &MockCache{}
	ctx := context.Background()
	cached := &domain.Catalog{Movies: []domain.Movie{{ID: "1", Title: "Duna"}}}
	cache.On("GetCatalog", ctx).Return(cached, nil).Once()

	service := NewCatalogService(&repository.Gateway{Movies: movies}, quietLogger(), WithCache(cache))
	list, err := service.Movies(ctx)

	require.NoError(t, err)
	assert.Equal(t, cached.Movies, list)
	movies.AssertNotCalled(t, "List", mock.Anything)
	cache.AssertExpectations(t)
}

func TestCatalogService_Snapshot_CacheMissStoresFreshCatalog(t *testing.T) {
	f := seed(t)
	cache := &MockCache{}
	ctx := context.Background()
	cache.On("GetCatalog", ctx).Return(nil, errors.New("redis down")).Once()
	cache.On("SetCatalog", ctx, mock.MatchedBy(func(c *domain.Catalog) bool {
		return len(c.Sessions) == 2 && len(c.Movies) == 1
	})).Return(nil).Once()

	service := NewCatalogService(f.gateway, quietLogger(), WithCache(cache))
	catalog, err := service.Snapshot(ctx)

	require.NoError(t, err)
	assert.Len(t, catalog.Rooms, 1)
	cache.AssertExpectations(t)
}

func TestCatalogService_LoadFailure(t *testing.T) {
	f := seed(t)
	rooms := &MockRepository[domain.Room]{}
	rooms.On("List", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	gw := *f.gateway
	gw.Rooms = rooms

	service := NewCatalogService(&gw, quietLogger())
	_, err := service.SessionsPage(context.Background(), "")

	assert.ErrorContains(t, err, "connection refused")
	rooms.AssertExpectations(t)
}
