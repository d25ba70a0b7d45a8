package domain

import (
	"fmt"
	"strings"
)

// Admin forms submit drafts: every field optional, checked once by Validate
// before conversion into the persisted shape.

const defaultSeatsPerRow = 10

type MovieDraft struct {
	Title    string `json:"titulo"`
	Genre    string `json:"genero"`
	Runtime  int    `json:"duracao"`
	Rating   string `json:"classificacao"`
	Synopsis string `json:"sinopse"`
	Poster   string `json:"imagem"`
	Director string `json:"diretor"`
}

func (d MovieDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return missing("titulo")
	}
	if strings.TrimSpace(d.Genre) == "" {
		return missing("genero")
	}
	if d.Runtime <= 0 {
		return missing("duracao")
	}
	_, err := ParseContentRating(d.Rating)
	return err
}

func (d MovieDraft) ToMovie() (Movie, error) {
	if err := d.Validate(); err != nil {
		return Movie{}, err
	}
	rating, _ := ParseContentRating(d.Rating)
	return Movie{
		Title:    d.Title,
		Genre:    d.Genre,
		Runtime:  d.Runtime,
		Rating:   rating,
		Synopsis: d.Synopsis,
		Poster:   d.Poster,
		Director: d.Director,
	}, nil
}

type RoomDraft struct {
	Name        string `json:"nome"`
	Capacity    int    `json:"capacidade"`
	Projection  string `json:"tipo"`
	Description string `json:"descricao"`
}

func (d RoomDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return missing("nome")
	}
	if d.Capacity <= 0 {
		return missing("capacidade")
	}
	if d.Projection == "" {
		return missing("tipo")
	}
	_, err := ParseProjectionType(d.Projection)
	return err
}

// ToRoom lays the room out in rows of ten and rounds capacity up to fill the
// last row.
func (d RoomDraft) ToRoom() (Room, error) {
	if err := d.Validate(); err != nil {
		return Room{}, err
	}
	projection, _ := ParseProjectionType(d.Projection)
	rows := (d.Capacity + defaultSeatsPerRow - 1) / defaultSeatsPerRow
	return Room{
		Name:        d.Name,
		Capacity:    rows * defaultSeatsPerRow,
		Projection:  projection,
		Rows:        rows,
		SeatsPerRow: defaultSeatsPerRow,
		Description: d.Description,
	}, nil
}

type SessionDraft struct {
	MovieID       string   `json:"filmeId"`
	RoomID        string   `json:"salaId"`
	Date          string   `json:"data"`
	Time          string   `json:"horario"`
	Price         float64  `json:"preco"`
	OccupiedSeats []string `json:"assentosOcupados"`
}

func (d SessionDraft) Validate() error {
	switch {
	case d.MovieID == "":
		return missing("filmeId")
	case d.RoomID == "":
		return missing("salaId")
	case d.Date == "":
		return missing("data")
	case d.Time == "":
		return missing("horario")
	case d.Price <= 0:
		return missing("preco")
	}
	return nil
}

func (d SessionDraft) ToSession() (Session, error) {
	if err := d.Validate(); err != nil {
		return Session{}, err
	}
	occupied := d.OccupiedSeats
	if occupied == nil {
		occupied = []string{}
	}
	return Session{
		MovieID:       d.MovieID,
		RoomID:        d.RoomID,
		Date:          d.Date,
		Time:          d.Time,
		Price:         d.Price,
		OccupiedSeats: occupied,
	}, nil
}

type ComboDraft struct {
	Name        string  `json:"nome"`
	Description string  `json:"descricao"`
	Price       float64 `json:"preco"`
	Image       string  `json:"imagem"`
	Category    string  `json:"categoria"`
}

func (d ComboDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return missing("nome")
	}
	if d.Price <= 0 {
		return missing("preco")
	}
	if d.Category == "" {
		return missing("categoria")
	}
	_, err := ParseComboCategory(d.Category)
	return err
}

func (d ComboDraft) ToCombo() (Combo, error) {
	if err := d.Validate(); err != nil {
		return Combo{}, err
	}
	category, _ := ParseComboCategory(d.Category)
	return Combo{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		Image:       d.Image,
		Category:    category,
	}, nil
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
