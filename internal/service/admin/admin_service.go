package admin

import (
	"context"
	"fmt"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/sirupsen/logrus"
)

type AdminUseCase interface {
	CreateMovie(ctx context.Context, draft domain.MovieDraft) (domain.Movie, error)
	UpdateMovie(ctx context.Context, id string, draft domain.MovieDraft) (domain.Movie, error)
	DeleteMovie(ctx context.Context, id string) error

	CreateRoom(ctx context.Context, draft domain.RoomDraft) (domain.Room, error)
	UpdateRoom(ctx context.Context, id string, draft domain.RoomDraft) (domain.Room, error)
	DeleteRoom(ctx context.Context, id string) error

	CreateSession(ctx context.Context, draft domain.SessionDraft) (domain.Session, error)
	UpdateSession(ctx context.Context, id string, draft domain.SessionDraft) (domain.Session, error)
	DeleteSession(ctx context.Context, id string) error

	CreateCombo(ctx context.Context, draft domain.ComboDraft) (domain.Combo, error)
	UpdateCombo(ctx context.Context, id string, draft domain.ComboDraft) (domain.Combo, error)
	DeleteCombo(ctx context.Context, id string) error
}

// CatalogInvalidator drops any cached catalog snapshot after a write.
type CatalogInvalidator interface {
	InvalidateCatalog(ctx context.Context) error
}

type AdminService struct {
	gateway     *repository.Gateway
	invalidator CatalogInvalidator
	logger      *logrus.Logger
}

type AdminServiceOption func(*AdminService)

func WithCatalogInvalidator(invalidator CatalogInvalidator) AdminServiceOption {
	return func(s *AdminService) {
		s.invalidator = invalidator
	}
}

func NewAdminService(gateway *repository.Gateway, logger *logrus.Logger, opts ...AdminServiceOption) *AdminService {
	service := &AdminService{gateway: gateway, logger: logger}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *AdminService) CreateMovie(ctx context.Context, draft domain.MovieDraft) (domain.Movie, error) {
	movie, err := draft.ToMovie()
	if err != nil {
		return domain.Movie{}, err
	}
	return save(ctx, s, "movie", func() (domain.Movie, error) {
		return s.gateway.Movies.Create(ctx, movie)
	})
}

func (s *AdminService) UpdateMovie(ctx context.Context, id string, draft domain.MovieDraft) (domain.Movie, error) {
	movie, err := draft.ToMovie()
	if err != nil {
		return domain.Movie{}, err
	}
	movie.ID = id
	return save(ctx, s, "movie", func() (domain.Movie, error) {
		return s.gateway.Movies.Update(ctx, id, movie)
	})
}

func (s *AdminService) DeleteMovie(ctx context.Context, id string) error {
	return s.remove(ctx, "movie", id, s.gateway.Movies.Delete)
}

// CreateRoom stores the room with its layout derived from capacity.
func (s *AdminService) CreateRoom(ctx context.Context, draft domain.RoomDraft) (domain.Room, error) {
	room, err := draft.ToRoom()
	if err != nil {
		return domain.Room{}, err
	}
	return save(ctx, s, "room", func() (domain.Room, error) {
		return s.gateway.Rooms.Create(ctx, room)
	})
}

func (s *AdminService) UpdateRoom(ctx context.Context, id string, draft domain.RoomDraft) (domain.Room, error) {
	room, err := draft.ToRoom()
	if err != nil {
		return domain.Room{}, err
	}
	room.ID = id
	return save(ctx, s, "room", func() (domain.Room, error) {
		return s.gateway.Rooms.Update(ctx, id, room)
	})
}

func (s *AdminService) DeleteRoom(ctx context.Context, id string) error {
	return s.remove(ctx, "room", id, s.gateway.Rooms.Delete)
}

// CreateSession does not check that the movie and room exist; pages render
// dangling references with a fallback label.
func (s *AdminService) CreateSession(ctx context.Context, draft domain.SessionDraft) (domain.Session, error) {
	session, err := draft.ToSession()
	if err != nil {
		return domain.Session{}, err
	}
	return save(ctx, s, "session", func() (domain.Session, error) {
		return s.gateway.Sessions.Create(ctx, session)
	})
}

// UpdateSession replaces the whole session. A draft without occupied seats
// keeps the ones already stored.
func (s *AdminService) UpdateSession(ctx context.Context, id string, draft domain.SessionDraft) (domain.Session, error) {
	session, err := draft.ToSession()
	if err != nil {
		return domain.Session{}, err
	}
	if draft.OccupiedSeats == nil {
		stored, err := s.gateway.Sessions.List(ctx)
		if err != nil {
			return domain.Session{}, fmt.Errorf("load session %s: %w", id, err)
		}
		for _, existing := range stored {
			if existing.ID == id && existing.OccupiedSeats != nil {
				session.OccupiedSeats = existing.OccupiedSeats
				break
			}
		}
	}
	session.ID = id
	return save(ctx, s, "session", func() (domain.Session, error) {
		return s.gateway.Sessions.Update(ctx, id, session)
	})
}

func (s *AdminService) DeleteSession(ctx context.Context, id string) error {
	return s.remove(ctx, "session", id, s.gateway.Sessions.Delete)
}

func (s *AdminService) CreateCombo(ctx context.Context, draft domain.ComboDraft) (domain.Combo, error) {
	combo, err := draft.ToCombo()
	if err != nil {
		return domain.Combo{}, err
	}
	return save(ctx, s, "combo", func() (domain.Combo, error) {
		return s.gateway.Combos.Create(ctx, combo)
	})
}

func (s *AdminService) UpdateCombo(ctx context.Context, id string, draft domain.ComboDraft) (domain.Combo, error) {
	combo, err := draft.ToCombo()
	if err != nil {
		return domain.Combo{}, err
	}
	combo.ID = id
	return save(ctx, s, "combo", func() (domain.Combo, error) {
		return s.gateway.Combos.Update(ctx, id, combo)
	})
}

func (s *AdminService) DeleteCombo(ctx context.Context, id string) error {
	return s.remove(ctx, "combo", id, s.gateway.Combos.Delete)
}

func save[T any](ctx context.Context, s *AdminService, kind string, write func() (T, error)) (T, error) {
	saved, err := write()
	if err != nil {
		var zero T
		return zero, fmt.Errorf("save %s: %w", kind, err)
	}
	s.invalidate(ctx)
	return saved, nil
}

func (s *AdminService) remove(ctx context.Context, kind, id string, del func(context.Context, string) error) error {
	if err := del(ctx, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind, id, err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *AdminService) invalidate(ctx context.Context) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.InvalidateCatalog(ctx); err != nil {
		s.logger.WithError(err).Warn("failed to invalidate catalog cache")
	}
}

var _ AdminUseCase = (*AdminService)(nil)
