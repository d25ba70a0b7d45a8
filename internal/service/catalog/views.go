package catalog

import (
	"slices"

	"github.com/Domenick1991/cinema/internal/domain"
)

// FallbackLabel stands in for a movie or room that a session references but
// that no longer exists.
const FallbackLabel = "N/A"

type SessionView struct {
	Session      domain.Session `json:"session"`
	MovieTitle   string         `json:"movie_title"`
	RoomName     string         `json:"room_name"`
	Capacity     int            `json:"capacity"`
	Occupied     int            `json:"occupied"`
	Availability int            `json:"availability"`
	SoldOut      bool           `json:"sold_out"`
}

// ResolveSession joins a session with its movie and room. Missing references
// never fail: they render as FallbackLabel with zero capacity.
func ResolveSession(session domain.Session, movies []domain.Movie, rooms []domain.Room) SessionView {
	view := SessionView{
		Session:    session,
		MovieTitle: FallbackLabel,
		RoomName:   FallbackLabel,
		Occupied:   len(session.OccupiedSeats),
	}
	if movie, ok := FindMovie(movies, session.MovieID); ok {
		view.MovieTitle = movie.Title
	}
	room, ok := FindRoom(rooms, session.RoomID)
	if ok {
		view.RoomName = room.Name
		view.Capacity = room.Capacity
	}
	view.Availability = Availability(room, ok, session)
	view.SoldOut = view.Availability <= 0
	return view
}

// Availability is capacity minus occupied seats. It is not clamped: a session
// with more occupied entries than capacity reports a negative number. A
// session whose room is unknown has no availability.
func Availability(room domain.Room, roomFound bool, session domain.Session) int {
	if !roomFound {
		return 0
	}
	return room.Capacity - len(session.OccupiedSeats)
}

func FindMovie(movies []domain.Movie, id string) (domain.Movie, bool) {
	i := slices.IndexFunc(movies, func(m domain.Movie) bool { return m.ID == id })
	if i < 0 {
		return domain.Movie{}, false
	}
	return movies[i], true
}

func FindRoom(rooms []domain.Room, id string) (domain.Room, bool) {
	i := slices.IndexFunc(rooms, func(r domain.Room) bool { return r.ID == id })
	if i < 0 {
		return domain.Room{}, false
	}
	return rooms[i], true
}

func FindSession(sessions []domain.Session, id string) (domain.Session, bool) {
	i := slices.IndexFunc(sessions, func(s domain.Session) bool { return s.ID == id })
	if i < 0 {
		return domain.Session{}, false
	}
	return sessions[i], true
}

func FindCombo(combos []domain.Combo, id string) (domain.Combo, bool) {
	i := slices.IndexFunc(combos, func(c domain.Combo) bool { return c.ID == id })
	if i < 0 {
		return domain.Combo{}, false
	}
	return combos[i], true
}

// DistinctDates returns the sessions' dates, deduplicated and sorted.
func DistinctDates(sessions []domain.Session) []string {
	dates := make([]string, 0, len(sessions))
	for _, s := range sessions {
		dates = append(dates, s.Date)
	}
	slices.Sort(dates)
	return slices.Compact(dates)
}
