package catalog

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/Domenick1991/cinema/internal/seatmap"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var ErrRoomNotFound = fmt.Errorf("room %w", repository.ErrNotFound)

type CatalogUseCase interface {
	Snapshot(ctx context.Context) (*domain.Catalog, error)
	Refresh(ctx context.Context) (*domain.Catalog, error)
	Movies(ctx context.Context) ([]domain.Movie, error)
	Combos(ctx context.Context) ([]domain.Combo, error)
	SessionsPage(ctx context.Context, date string) (*SessionsPage, error)
	RoomsPage(ctx context.Context) ([]RoomView, error)
	RoomSeats(ctx context.Context, roomID, sessionID string) (*SeatMapView, error)
}

type Cache interface {
	GetCatalog(ctx context.Context) (*domain.Catalog, error)
	SetCatalog(ctx context.Context, catalog *domain.Catalog) error
}

type SessionsPage struct {
	Date     string        `json:"date,omitempty"`
	Dates    []string      `json:"dates"`
	Sessions []SessionView `json:"sessions"`
}

type RoomView struct {
	Room     domain.Room   `json:"room"`
	Sessions []SessionView `json:"sessions"`
}

type SeatMapView struct {
	Room      domain.Room      `json:"room"`
	SessionID string           `json:"session_id,omitempty"`
	Seats     [][]seatmap.Seat `json:"seats"`
}

type CatalogService struct {
	gateway *repository.Gateway
	cache   Cache
	logger  *logrus.Logger
}

type CatalogServiceOption func(*CatalogService)

// WithCache serves Snapshot from cache when possible. Leave it unset to
// always read through to the data service.
func WithCache(cache Cache) CatalogServiceOption {
	return func(s *CatalogService) {
		s.cache = cache
	}
}

func NewCatalogService(gateway *repository.Gateway, logger *logrus.Logger, opts ...CatalogServiceOption) *CatalogService {
	service := &CatalogService{gateway: gateway, logger: logger}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *CatalogService) Snapshot(ctx context.Context) (*domain.Catalog, error) {
	if s.cache != nil {
		cached, err := s.cache.GetCatalog(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("catalog cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}
	return s.Refresh(ctx)
}

// Refresh reloads every collection from the data service and rewrites the
// cache.
func (s *CatalogService) Refresh(ctx context.Context) (*domain.Catalog, error) {
	catalog, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCatalog(ctx, catalog); err != nil {
			s.logger.WithError(err).Warn("catalog cache write failed")
		}
	}
	return catalog, nil
}

func (s *CatalogService) load(ctx context.Context) (*domain.Catalog, error) {
	var catalog domain.Catalog
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		catalog.Movies, err = s.gateway.Movies.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Rooms, err = s.gateway.Rooms.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Sessions, err = s.gateway.Sessions.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Combos, err = s.gateway.Combos.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return &catalog, nil
}

func (s *CatalogService) Movies(ctx context.Context) ([]domain.Movie, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Movies, nil
}

func (s *CatalogService) Combos(ctx context.Context) ([]domain.Combo, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Combos, nil
}

// SessionsPage lists sessions with their joins, keeping only those on date
// when it is set. Dates always covers every session.
func (s *CatalogService) SessionsPage(ctx context.Context, date string) (*SessionsPage, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	page := &SessionsPage{
		Date:     date,
		Dates:    DistinctDates(catalog.Sessions),
		Sessions: []SessionView{},
	}
	for _, session := range catalog.Sessions {
		if date != "" && session.Date != date {
			continue
		}
		page.Sessions = append(page.Sessions, ResolveSession(session, catalog.Movies, catalog.Rooms))
	}
	return page, nil
}

func (s *CatalogService) RoomsPage(ctx context.Context) ([]RoomView, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]RoomView, 0, len(catalog.Rooms))
	for _, room := range catalog.Rooms {
		view := RoomView{Room: room, Sessions: []SessionView{}}
		for _, session := range catalog.Sessions {
			if session.RoomID == room.ID {
				view.Sessions = append(view.Sessions, ResolveSession(session, catalog.Movies, catalog.Rooms))
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// RoomSeats renders a room's seat map. With a sessionID the seats that
// session has sold are marked occupied; an unknown session marks none.
func (s *CatalogService) RoomSeats(ctx context.Context, roomID, sessionID string) (*SeatMapView, error) {
	catalog, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	room, ok := FindRoom(catalog.Rooms, roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}

	var occupied []string
	if sessionID != "" {
		if session, ok := FindSession(catalog.Sessions, sessionID); ok && session.RoomID == room.ID {
			occupied = session.OccupiedSeats
		}
	}
	return &SeatMapView{
		Room:      room,
		SessionID: sessionID,
		Seats:     seatmap.Mark(seatmap.Layout(room), occupied, nil),
	}, nil
}

var _ CatalogUseCase = (*CatalogService)(nil)
