package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("document not found")

// DocumentStore is the raw transport to the data service: one collection of
// JSON documents per resource, addressed by id.
type DocumentStore interface {
	List(ctx context.Context, resource string) ([]json.RawMessage, error)
	Create(ctx context.Context, resource string, doc json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, resource, id string, doc json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, resource, id string) error
	Ping(ctx context.Context) error
}

// StatusError is a non-2xx answer from the data service.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// Resources names the collection of each entity on the data service.
type Resources struct {
	Movies         string `yaml:"movies"`
	Rooms          string `yaml:"rooms"`
	Sessions       string `yaml:"sessions"`
	Combos         string `yaml:"combos"`
	Tickets        string `yaml:"tickets"`
	ComboPurchases string `yaml:"combo_purchases"`
}

func DefaultResources() Resources {
	return Resources{
		Movies:         "filmes",
		Rooms:          "salas",
		Sessions:       "sessoes",
		Combos:         "combos",
		Tickets:        "ingressos",
		ComboPurchases: "comprasCombos",
	}
}

// WithDefaults fills empty names from DefaultResources.
func (r Resources) WithDefaults() Resources {
	d := DefaultResources()
	if r.Movies == "" {
		r.Movies = d.Movies
	}
	if r.Rooms == "" {
		r.Rooms = d.Rooms
	}
	if r.Sessions == "" {
		r.Sessions = d.Sessions
	}
	if r.Combos == "" {
		r.Combos = d.Combos
	}
	if r.Tickets == "" {
		r.Tickets = d.Tickets
	}
	if r.ComboPurchases == "" {
		r.ComboPurchases = d.ComboPurchases
	}
	return r
}
