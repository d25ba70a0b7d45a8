package cart

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Domenick1991/cinema/internal/domain"
	"github.com/Domenick1991/cinema/internal/money"
	"github.com/Domenick1991/cinema/internal/repository"
	"github.com/Domenick1991/cinema/internal/statestore"
	"github.com/sirupsen/logrus"
)

type CartUseCase interface {
	Create(ctx context.Context) (*View, error)
	Get(ctx context.Context, cartID string) (*View, error)
	AddItem(ctx context.Context, cartID, comboID string) (*View, error)
	RemoveItem(ctx context.Context, cartID, comboID string) (*View, error)
	Checkout(ctx context.Context, cartID string, details CustomerDetails) (*Receipt, error)
	SweepExpired() int
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type CustomerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Receipt struct {
	Purchases []domain.ComboPurchase `json:"purchases"`
	Total     float64                `json:"total"`
}

type CartService struct {
	combos    repository.ComboRepository
	purchases repository.ComboPurchaseRepository
	carts     *statestore.Store[*Cart]
	logger    *logrus.Logger
	now       func() time.Time

	producer Producer
	topic    string
}

type CartServiceOption func(*CartService)

func WithEvents(producer Producer, topic string) CartServiceOption {
	return func(s *CartService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithClock(now func() time.Time) CartServiceOption {
	return func(s *CartService) {
		s.now = now
	}
}

func NewCartService(gateway *repository.Gateway, cartTTL time.Duration, logger *logrus.Logger, opts ...CartServiceOption) *CartService {
	service := &CartService{
		combos:    gateway.Combos,
		purchases: gateway.ComboPurchases,
		carts:     statestore.New[*Cart](cartTTL),
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *CartService) Create(_ context.Context) (*View, error) {
	c := NewCart()
	c.id = s.carts.Add(c)
	view := c.View()
	return &view, nil
}

func (s *CartService) Get(_ context.Context, cartID string) (*View, error) {
	c, err := s.cart(cartID)
	if err != nil {
		return nil, err
	}
	view := c.View()
	return &view, nil
}

// AddItem looks the combo up on the data service so the line carries its
// current price.
func (s *CartService) AddItem(ctx context.Context, cartID, comboID string) (*View, error) {
	c, err := s.cart(cartID)
	if err != nil {
		return nil, err
	}
	combos, err := s.combos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load combos: %w", err)
	}
	i := slices.IndexFunc(combos, func(x domain.Combo) bool { return x.ID == comboID })
	if i < 0 {
		return nil, ErrComboNotFound
	}
	c.Add(combos[i])
	view := c.View()
	return &view, nil
}

func (s *CartService) RemoveItem(_ context.Context, cartID, comboID string) (*View, error) {
	c, err := s.cart(cartID)
	if err != nil {
		return nil, err
	}
	c.Remove(comboID)
	view := c.View()
	return &view, nil
}

// Checkout records one purchase per line, in cart order. The cart is emptied
// only when every line was recorded; otherwise it is left as it was.
func (s *CartService) Checkout(ctx context.Context, cartID string, details CustomerDetails) (*Receipt, error) {
	if strings.TrimSpace(details.Name) == "" || strings.TrimSpace(details.Email) == "" {
		return nil, ErrCustomerDetailsRequired
	}
	c, err := s.cart(cartID)
	if err != nil {
		return nil, err
	}
	items, err := c.beginCheckout()
	if err != nil {
		return nil, err
	}

	submitted := make([]domain.ComboPurchase, 0, len(items))
	for _, item := range items {
		purchase, err := s.purchases.Create(ctx, domain.ComboPurchase{
			ComboID:       item.Combo.ID,
			Quantity:      item.Quantity,
			CustomerName:  details.Name,
			CustomerEmail: details.Email,
			Total:         item.Subtotal(),
			PurchasedAt:   s.now().UTC(),
			Status:        domain.PurchaseConfirmed,
		})
		if err != nil {
			c.endCheckout(false)
			return nil, s.checkoutError(cartID, submitted, len(items), err)
		}
		submitted = append(submitted, purchase)
	}
	c.endCheckout(true)

	receipt := &Receipt{Purchases: submitted}
	totals := make([]float64, 0, len(submitted))
	for _, p := range submitted {
		totals = append(totals, p.Total)
		s.publish(ctx, p)
	}
	receipt.Total = money.Sum(totals...)
	return receipt, nil
}

func (s *CartService) checkoutError(cartID string, submitted []domain.ComboPurchase, total int, err error) error {
	log := s.logger.WithFields(logrus.Fields{
		"cart_id":   cartID,
		"submitted": len(submitted),
		"items":     total,
	}).WithError(err)
	if len(submitted) == 0 {
		log.Error("combo checkout failed")
		return fmt.Errorf("%w: %w", ErrCheckoutFailed, err)
	}
	log.Error("combo checkout partially recorded")
	return &PartialCheckoutError{Submitted: submitted, Total: total, Err: err}
}

func (s *CartService) publish(ctx context.Context, p domain.ComboPurchase) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := domain.PurchaseEvent{
		Type:          domain.EventComboPurchased,
		PurchaseID:    p.ID,
		ComboID:       p.ComboID,
		Quantity:      p.Quantity,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		Total:         p.Total,
		OccurredAt:    s.now().UTC(),
	}
	if err := s.producer.Publish(ctx, s.topic, p.ID, event); err != nil {
		s.logger.WithError(err).WithField("purchase_id", p.ID).Warn("failed to publish combo_purchased event")
	}
}

func (s *CartService) SweepExpired() int {
	return s.carts.Sweep()
}

func (s *CartService) cart(id string) (*Cart, error) {
	c, ok := s.carts.Get(id)
	if !ok {
		return nil, ErrCartNotFound
	}
	return c, nil
}

var _ CartUseCase = (*CartService)(nil)
