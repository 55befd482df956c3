// Package checkout turns the selected cart lines into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/order"
)

// ErrNothingSelected is returned when the cart has no selected line.
var ErrNothingSelected = errors.New("no cart line selected")

// PersistError reports that the order could not be saved. The cart and the
// order store are left exactly as they were, so the caller may retry.
type PersistError struct {
	OrderID string
	Err     error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("save order %s: %v", e.OrderID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

type OrderSaver interface {
	Save(ctx context.Context, o order.Order) error
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, o order.Order) error
}

type Outcome string

const (
	OutcomePlaced          Outcome = "placed"
	OutcomeNothingSelected Outcome = "nothing_selected"
	OutcomePersistFailed   Outcome = "persist_failed"
)

type Recorder interface {
	RecordCheckout(outcome Outcome)
}

type Options struct {
	// Publisher is optional; without it no OrderPlaced event is sent.
	Publisher Publisher
	Recorder  Recorder
	Logger    *zap.Logger
	IDs       *order.IDGenerator
	Now       func() time.Time
}

type Service struct {
	cart   *cart.Store
	orders *order.Store
	saver  OrderSaver

	publisher Publisher
	recorder  Recorder
	logger    *zap.Logger
	ids       *order.IDGenerator
	now       func() time.Time
}

func NewService(c *cart.Store, orders *order.Store, saver OrderSaver, opts Options) *Service {
	s := &Service{
		cart:      c,
		orders:    orders,
		saver:     saver,
		publisher: opts.Publisher,
		recorder:  opts.Recorder,
		logger:    opts.Logger,
		ids:       opts.IDs,
		now:       opts.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.ids == nil {
		s.ids = order.NewIDGenerator()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Finalize places an order for the selected cart lines and then announces it.
func (s *Service) Finalize(ctx context.Context) (order.Order, error) {
	o, err := s.Place(ctx)
	if err != nil {
		return order.Order{}, err
	}
	s.Announce(ctx, o)
	return o, nil
}

// Place saves an order for the selected cart lines. On success the order is
// mirrored into the order store and the cart is cleared. Place touches both
// stores, so callers sharing them must serialise it with other store access.
func (s *Service) Place(ctx context.Context) (order.Order, error) {
	selected := s.cart.SelectedLines()
	if len(selected) == 0 {
		s.record(OutcomeNothingSelected)
		return order.Order{}, ErrNothingSelected
	}

	o, err := s.build(selected)
	if err != nil {
		return order.Order{}, err
	}

	if err := s.saver.Save(ctx, o); err != nil {
		s.record(OutcomePersistFailed)
		s.logger.Error("save order failed", zap.String("order_id", o.ID), zap.Error(err))
		return order.Order{}, &PersistError{OrderID: o.ID, Err: err}
	}

	s.orders.Add(o)
	s.cart.Clear()
	s.record(OutcomePlaced)
	s.logger.Info("order placed",
		zap.String("order_id", o.ID),
		zap.Int("lines", len(o.Lines)),
		zap.String("total", o.Total),
	)
	return o, nil
}

// Announce publishes OrderPlaced for a placed order. Failures are logged and
// never undo the order. It does not touch the stores.
func (s *Service) Announce(ctx context.Context, o order.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderPlaced(ctx, o); err != nil {
		s.logger.Warn("publish OrderPlaced failed", zap.String("order_id", o.ID), zap.Error(err))
	}
}

func (s *Service) build(selected []cart.Line) (order.Order, error) {
	id, err := s.ids.NextUnique(func(id string) bool {
		_, taken := s.orders.FindByID(id)
		return taken
	})
	if err != nil {
		return order.Order{}, err
	}

	total := s.cart.SelectedTotal()
	for _, l := range total.Unpriced {
		s.logger.Warn("unparseable price left out of total",
			zap.String("product", l.Product.Name),
			zap.String("price", l.Product.Price),
		)
	}

	lines := make([]order.Line, 0, len(selected))
	for _, l := range selected {
		lines = append(lines, order.Line{
			Name:     l.Product.Name,
			Price:    l.Product.Price,
			ImageURL: l.Product.ImageURL,
			Quantity: l.Quantity,
		})
	}

	return order.Order{
		ID:        id,
		CreatedAt: s.now(),
		Status:    order.StatusPending,
		Total:     total.Formatted,
		Lines:     lines,
	}, nil
}

func (s *Service) record(outcome Outcome) {
	if s.recorder != nil {
		s.recorder.RecordCheckout(outcome)
	}
}
