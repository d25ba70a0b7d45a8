package domain

import "slices"

// Session is a showtime. OccupiedSeats has set semantics only by convention:
// nothing on the write path deduplicates it.
type Session struct {
	ID            string   `json:"id,omitempty"`
	MovieID       string   `json:"filmeId"`
	RoomID        string   `json:"salaId"`
	Time          string   `json:"horario"`
	Date          string   `json:"data"`
	Price         float64  `json:"preco"`
	OccupiedSeats []string `json:"assentosOcupados"`
}

func (s Session) IsOccupied(seat string) bool {
	return slices.Contains(s.OccupiedSeats, seat)
}
