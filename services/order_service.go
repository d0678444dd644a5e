package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"cart-shop/libs"
	"cart-shop/messaging"
	"cart-shop/models"
	"cart-shop/repositories"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderService struct {
	store    repositories.Store
	events   EventPublisher
	notifier Notifier
	logger   *zap.Logger
}

func NewOrderService(store repositories.Store, events EventPublisher, notifier Notifier, logger *zap.Logger) *OrderService {
	if events == nil {
		events = messaging.NoopPublisher{}
	}
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &OrderService{store: store, events: events, notifier: notifier, logger: logger}
}

type OrderPlacedEvent struct {
	OrderID    int             `json:"order_id"`
	Number     int             `json:"number"`
	CustomerID int             `json:"customer_id"`
	State      string          `json:"state"`
	Total      decimal.Decimal `json:"total"`
	Items      int             `json:"items"`
}

func buildOrderItems(reqs []models.PlaceOrderItemRequest) ([]models.OrderItem, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", models.ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(reqs))
	for i, r := range reqs {
		name := strings.TrimSpace(r.ProductName)
		switch {
		case name == "":
			return nil, fmt.Errorf("%w: item %d has no product name", models.ErrValidation, i)
		case r.Quantity <= 0:
			return nil, fmt.Errorf("%w: item %d quantity must be greater than zero", models.ErrValidation, i)
		case r.UnitCost.IsNegative():
			return nil, fmt.Errorf("%w: item %d unit cost cannot be negative", models.ErrValidation, i)
		}
		items = append(items, models.OrderItem{
			ProductNumber: r.ProductNumber,
			ProductName:   name,
			Quantity:      r.Quantity,
			UnitCost:      r.UnitCost,
			Subtotal:      r.UnitCost.Mul(decimal.NewFromInt(int64(r.Quantity))),
		})
	}
	return items, nil
}

// Place writes an order for customerID. The order's state comes from the
// customer's first registered address.
func (s *OrderService) Place(ctx context.Context, customerID int, req models.PlaceOrderRequest) (*models.Order, error) {
	items, err := buildOrderItems(req.Items)
	if err != nil {
		return nil, err
	}
	if req.Number <= 0 {
		return nil, fmt.Errorf("%w: order number must be positive", models.ErrValidation)
	}

	order := &models.Order{
		Number:           req.Number,
		CustomerID:       customerID,
		ShippingOptionID: req.ShippingOptionID,
		ShippedAt:        time.Now(),
		Items:            items,
	}
	if req.ShippedAt != nil {
		order.ShippedAt = *req.ShippedAt
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Profiles().FindByUserID(ctx, customerID); err != nil {
			return err
		}
		address, err := tx.Profiles().FirstAddress(ctx, customerID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return fmt.Errorf("%w: customer %d has no registered address", models.ErrNotFound, customerID)
			}
			return err
		}
		order.State = address.State

		if _, err := tx.Shipping().FindByID(ctx, req.ShippingOptionID); err != nil {
			return err
		}
		return tx.Orders().Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	libs.OrdersPlaced.Inc()
	s.logger.Info("order placed",
		zap.Int("order_id", order.ID),
		zap.Int("number", order.Number),
		zap.Int("customer_id", customerID),
		zap.String("total", order.Total().StringFixed(2)))

	s.afterPlace(ctx, order)
	return order, nil
}

func (s *OrderService) afterPlace(ctx context.Context, order *models.Order) {
	event := OrderPlacedEvent{
		OrderID:    order.ID,
		Number:     order.Number,
		CustomerID: order.CustomerID,
		State:      order.State,
		Total:      order.Total(),
		Items:      len(order.Items),
	}
	if err := s.events.Publish(ctx, fmt.Sprintf("order-%d", order.Number), messaging.EventOrderPlaced, event); err != nil {
		s.logger.Warn("failed to publish order event", zap.Int("order_id", order.ID), zap.Error(err))
	}

	user, err := s.store.Users().FindByID(ctx, order.CustomerID)
	if err != nil {
		s.logger.Warn("order confirmation skipped", zap.Int("order_id", order.ID), zap.Error(err))
		return
	}
	if err := s.notifier.OrderPlaced(ctx, user.Email, order); err != nil {
		s.logger.Warn("failed to send order confirmation", zap.Int("order_id", order.ID), zap.Error(err))
	}
}

func (s *OrderService) Get(ctx context.Context, actor models.Actor, id int) (*models.Order, error) {
	order, err := s.store.Orders().FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(order.CustomerID) {
		return nil, fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	return order, nil
}

// List returns the actor's orders, or every order for admins.
func (s *OrderService) List(ctx context.Context, actor models.Actor) ([]models.Order, error) {
	customerID := actor.UserID
	if actor.IsAdmin() {
		customerID = 0
	}
	return s.store.Orders().List(ctx, customerID)
}

func (s *OrderService) Delete(ctx context.Context, actor models.Actor, id int) error {
	return s.store.WithinTx(ctx, func(tx repositories.Store) error {
		order, err := tx.Orders().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(order.CustomerID) {
			return fmt.Errorf("%w: order %d", models.ErrNotFound, id)
		}
		return tx.Orders().Delete(ctx, id)
	})
}
