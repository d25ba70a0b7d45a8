package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/sirupsen/logrus"
)

// Repository is the list/create/update/delete contract every entity
// collection offers. There is no filtering: callers list and search.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

type (
	MovieRepository         = Repository[domain.Movie]
	RoomRepository          = Repository[domain.Room]
	SessionRepository       = Repository[domain.Session]
	ComboRepository         = Repository[domain.Combo]
	TicketRepository        = Repository[domain.Ticket]
	ComboPurchaseRepository = Repository[domain.ComboPurchase]
)

// Collection maps one resource of a DocumentStore onto a Go type.
type Collection[T any] struct {
	store    DocumentStore
	resource string
	logger   *logrus.Logger
}

func NewCollection[T any](store DocumentStore, resource string, logger *logrus.Logger) *Collection[T] {
	return &Collection[T]{store: store, resource: resource, logger: logger}
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	docs, err := c.store.List(ctx, c.resource)
	if err != nil {
		return nil, c.fail("list", err)
	}
	items := make([]T, 0, len(docs))
	for _, doc := range docs {
		var item T
		if err := json.Unmarshal(doc, &item); err != nil {
			return nil, c.fail("list", fmt.Errorf("decode %s: %w", c.resource, err))
		}
		c.check(item)
		items = append(items, item)
	}
	return items, nil
}

type variantChecker interface {
	Unrecognized() []string
}

// check logs records carrying enumeration values outside the known set. They
// are still returned.
func (c *Collection[T]) check(item T) {
	checker, ok := any(item).(variantChecker)
	if !ok || c.logger == nil {
		return
	}
	if fields := checker.Unrecognized(); len(fields) > 0 {
		c.logger.WithFields(logrus.Fields{
			"resource": c.resource,
			"fields":   fields,
		}).Warn("record has unrecognized values")
	}
}

func (c *Collection[T]) Create(ctx context.Context, item T) (T, error) {
	var zero T
	payload, err := json.Marshal(item)
	if err != nil {
		return zero, err
	}
	doc, err := c.store.Create(ctx, c.resource, payload)
	if err != nil {
		return zero, c.fail("create", err)
	}
	return c.decode("create", doc)
}

func (c *Collection[T]) Update(ctx context.Context, id string, item T) (T, error) {
	var zero T
	payload, err := json.Marshal(item)
	if err != nil {
		return zero, err
	}
	doc, err := c.store.Update(ctx, c.resource, id, payload)
	if err != nil {
		return zero, c.fail("update", err)
	}
	return c.decode("update", doc)
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, c.resource, id); err != nil {
		return c.fail("delete", err)
	}
	return nil
}

func (c *Collection[T]) decode(op string, doc json.RawMessage) (T, error) {
	var item T
	if err := json.Unmarshal(doc, &item); err != nil {
		return item, c.fail(op, fmt.Errorf("decode %s: %w", c.resource, err))
	}
	return item, nil
}

func (c *Collection[T]) fail(op string, err error) error {
	if c.logger != nil {
		c.logger.WithFields(logrus.Fields{
			"resource": c.resource,
			"op":       op,
		}).WithError(err).Warn("data service call failed")
	}
	return err
}

// Gateway bundles one repository per entity.
type Gateway struct {
	Movies         MovieRepository
	Rooms          RoomRepository
	Sessions       SessionRepository
	Combos         ComboRepository
	Tickets        TicketRepository
	ComboPurchases ComboPurchaseRepository
}

func NewGateway(store DocumentStore, resources Resources, logger *logrus.Logger) *Gateway {
	resources = resources.WithDefaults()
	return &Gateway{
		Movies:         NewCollection[domain.Movie](store, resources.Movies, logger),
		Rooms:          NewCollection[domain.Room](store, resources.Rooms, logger),
		Sessions:       NewCollection[domain.Session](store, resources.Sessions, logger),
		Combos:         NewCollection[domain.Combo](store, resources.Combos, logger),
		Tickets:        NewCollection[domain.Ticket](store, resources.Tickets, logger),
		ComboPurchases: NewCollection[domain.ComboPurchase](store, resources.ComboPurchases, logger),
	}
}

var _ MovieRepository = (*Collection[domain.Movie])(nil)
