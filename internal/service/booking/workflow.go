package booking

import (
	"slices"
	"strings"
	"sync"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/money"
	"github.com/Domenick1991/cinema/internal/seatmap"
)

type State string

const (
	StateSelectingSeats  State = "selecting_seats"
	StateEnteringDetails State = "entering_details"
	StateConfirmed       State = "confirmed"
)

type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (d CustomerDetails) complete() bool {
	return strings.TrimSpace(d.Name) != "" && strings.TrimSpace(d.Email) != ""
}

// Workflow is one customer's booking of one session. It keeps the session,
// movie and room as they were read when the booking started; only a rejected
// guarded finalization refreshes the occupied seats.
type Workflow struct {
	mu sync.Mutex

	token   string
	session domain.Session
	movie   domain.Movie
	room    domain.Room
	grid    [][]string

	state      State
	selected   []string
	customer   CustomerDetails
	submitting bool
	ticket     *domain.Ticket
}

func NewWorkflow(session domain.Session, movie domain.Movie, room domain.Room) *Workflow {
	return &Workflow{
		session:  session,
		movie:    movie,
		room:     room,
		grid:     seatmap.Layout(room),
		state:    StateSelectingSeats,
		selected: []string{},
	}
}

// Toggle adds seat to the selection or removes it. Occupied seats are
// ignored without error.
func (w *Workflow) Toggle(seat string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateSelectingSeats {
		return ErrInvalidTransition
	}
	if w.session.IsOccupied(seat) {
		return nil
	}
	if !seatmap.Contains(w.grid, seat) {
		return ErrUnknownSeat
	}
	if i := slices.Index(w.selected, seat); i >= 0 {
		w.selected = slices.Delete(w.selected, i, i+1)
		return nil
	}
	w.selected = append(w.selected, seat)
	return nil
}

func (w *Workflow) ProceedToDetails() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateSelectingSeats {
		return ErrInvalidTransition
	}
	if len(w.selected) == 0 {
		return ErrNoSeatsSelected
	}
	w.state = StateEnteringDetails
	return nil
}

func (w *Workflow) BackToSeats() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateEnteringDetails {
		return ErrInvalidTransition
	}
	if w.submitting {
		return ErrSubmissionInProgress
	}
	w.state = StateSelectingSeats
	return nil
}

// Total is the number of selected seats times the session price.
func (w *Workflow) Total() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return money.Times(w.session.Price, len(w.selected))
}

// submission is what a finalisation writes, captured under the lock.
type submission struct {
	session  domain.Session
	movie    domain.Movie
	seats    []string
	customer CustomerDetails
	total    float64
}

func (w *Workflow) beginSubmit(details CustomerDetails) (submission, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateEnteringDetails {
		return submission{}, ErrInvalidTransition
	}
	if w.submitting {
		return submission{}, ErrSubmissionInProgress
	}
	if !details.complete() || len(w.selected) == 0 {
		return submission{}, ErrCustomerDetailsRequired
	}
	w.submitting = true
	w.customer = details
	return submission{
		session:  w.session,
		movie:    w.movie,
		seats:    slices.Clone(w.selected),
		customer: details,
		total:    money.Times(w.session.Price, len(w.selected)),
	}, nil
}

func (w *Workflow) completeSubmit(ticket domain.Ticket) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
	w.ticket = &ticket
	w.state = StateConfirmed
}

func (w *Workflow) abortSubmit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false
}

// refreshOccupied replaces the occupied seats with a fresher read and drops
// any selected seat that has been sold meanwhile.
func (w *Workflow) refreshOccupied(occupied []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.session.OccupiedSeats = slices.Clone(occupied)
	w.selected = slices.DeleteFunc(w.selected, w.session.IsOccupied)
}

type View struct {
	Token      string           `json:"token"`
	State      State            `json:"state"`
	SessionID  string           `json:"session_id"`
	MovieTitle string           `json:"movie_title"`
	RoomName   string           `json:"room_name"`
	Date       string           `json:"date"`
	Time       string           `json:"time"`
	Price      float64          `json:"price"`
	Seats      [][]seatmap.Seat `json:"seats"`
	Selected   []string         `json:"selected"`
	Total      float64          `json:"total"`
	TotalLabel string           `json:"total_label"`
	Customer   CustomerDetails  `json:"customer"`
	Submitting bool             `json:"submitting"`
	Ticket     *domain.Ticket   `json:"ticket,omitempty"`
}

func (w *Workflow) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	total := money.Times(w.session.Price, len(w.selected))
	return View{
		Token:      w.token,
		State:      w.state,
		SessionID:  w.session.ID,
		MovieTitle: w.movie.Title,
		RoomName:   w.room.Name,
		Date:       w.session.Date,
		Time:       w.session.Time,
		Price:      w.session.Price,
		Seats:      seatmap.Mark(w.grid, w.session.OccupiedSeats, w.selected),
		Selected:   slices.Clone(w.selected),
		Total:      total,
		TotalLabel: money.Format(total),
		Customer:   w.customer,
		Submitting: w.submitting,
		Ticket:     w.ticket,
	}
}
