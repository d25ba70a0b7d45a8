// Package seatmap lays out the seats of a room as a grid of labels.
package seatmap

import (
	"slices"
	"strconv"

	"github.com/Domenick1991/cinema/internal/domain"
)

const (
	DefaultRows        = 8
	DefaultSeatsPerRow = 10
)

// Generate returns one row per letter starting at 'A', each holding labels
// "<letter><1-based column>". Zero or negative dimensions fall back to the
// defaults. Rows past 'Z' keep following the code point sequence.
func Generate(rows, seatsPerRow int) [][]string {
	if rows <= 0 {
		rows = DefaultRows
	}
	if seatsPerRow <= 0 {
		seatsPerRow = DefaultSeatsPerRow
	}

	grid := make([][]string, rows)
	for i := range grid {
		label := RowLabel(i)
		row := make([]string, seatsPerRow)
		for j := range row {
			row[j] = label + strconv.Itoa(j+1)
		}
		grid[i] = row
	}
	return grid
}

func RowLabel(i int) string {
	return string(rune('A' + i))
}

func Layout(room domain.Room) [][]string {
	return Generate(room.Rows, room.SeatsPerRow)
}

func Contains(grid [][]string, seat string) bool {
	for _, row := range grid {
		if slices.Contains(row, seat) {
			return true
		}
	}
	return false
}

// Seat is one cell of a rendered seat map.
type Seat struct {
	Label    string `json:"label"`
	Occupied bool   `json:"occupied"`
	Selected bool   `json:"selected"`
}

// Mark decorates grid with occupied and selected flags.
func Mark(grid [][]string, occupied, selected []string) [][]Seat {
	out := make([][]Seat, len(grid))
	for i, row := range grid {
		seats := make([]Seat, len(row))
		for j, label := range row {
			seats[j] = Seat{
				Label:    label,
				Occupied: slices.Contains(occupied, label),
				Selected: slices.Contains(selected, label),
			}
		}
		out[i] = seats
	}
	return out
}
