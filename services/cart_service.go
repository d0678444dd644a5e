package services

import (
	"context"
	"errors"
	"fmt"

	"cart-shop/libs"
	"cart-shop/messaging"
	"cart-shop/models"
	"cart-shop/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CartService struct {
	store  repositories.Store
	cache  ProductCache
	events EventPublisher
	logger *zap.Logger
}

func NewCartService(store repositories.Store, cache ProductCache, events EventPublisher, logger *zap.Logger) *CartService {
	if cache == nil {
		cache = noopCache{}
	}
	if events == nil {
		events = messaging.NoopPublisher{}
	}
	return &CartService{store: store, cache: cache, events: events, logger: logger}
}

type RemoveItemResult struct {
	ProductID string             `json:"product_id"`
	Name      string             `json:"name"`
	Removed   int                `json:"removed"`
	Cart      models.CartSummary `json:"cart"`
}

// Create opens an empty active cart for customerID.
func (s *CartService) Create(ctx context.Context, customerID int) (*models.Cart, error) {
	if _, err := s.store.Profiles().FindByUserID(ctx, customerID); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: customer %d has no profile", models.ErrNotFound, customerID)
		}
		return nil, err
	}

	cart := models.NewCart(customerID)
	if err := s.store.Carts().Create(ctx, cart); err != nil {
		return nil, err
	}

	s.logger.Info("cart created", zap.Int("cart_id", cart.ID), zap.Int("customer_id", customerID))
	return cart, nil
}

func (s *CartService) GetActive(ctx context.Context, customerID int) (*models.Cart, error) {
	return s.store.Carts().FindActive(ctx, customerID)
}

func (s *CartService) ListActive(ctx context.Context, customerID int) ([]models.Cart, error) {
	return s.store.Carts().ListByStatus(ctx, customerID, models.CartActive)
}

func (s *CartService) ListFinalized(ctx context.Context, customerID int) ([]models.Cart, error) {
	return s.store.Carts().ListByStatus(ctx, customerID, models.CartFinalized)
}

// ComputeTotal recomputes and stores the total of the customer's active cart
// from its lines and the current cost of its shipping option.
func (s *CartService) ComputeTotal(ctx context.Context, customerID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		cart, err := tx.Carts().FindActiveForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		if err := saveTotal(ctx, tx, cart, cart.Shipping); err != nil {
			return err
		}
		total = cart.Total
		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// saveTotal attaches option (nil detaches), recalculates and persists cart.
func saveTotal(ctx context.Context, tx repositories.Store, cart *models.Cart, option *models.ShippingOption) error {
	cart.AssignShipping(option)
	cart.Recalculate()
	return tx.Carts().Save(ctx, cart)
}

// refreshShippingTotals re-prices every active cart using optionID. A nil
// option detaches it from those carts.
func refreshShippingTotals(ctx context.Context, tx repositories.Store, optionID int, option *models.ShippingOption) (int, error) {
	carts, err := tx.Carts().ListActiveByShipping(ctx, optionID)
	if err != nil {
		return 0, err
	}
	for i := range carts {
		if err := saveTotal(ctx, tx, &carts[i], option); err != nil {
			return 0, err
		}
	}
	return len(carts), nil
}

// AddItem reserves quantity units of the product for the customer's active
// cart. Stock, the cart line, shipping and the total change together or not
// at all.
func (s *CartService) AddItem(ctx context.Context, customerID int, productRef string, quantity int) (*models.CartSummary, error) {
	if quantity <= 0 {
		libs.CartRejections.WithLabelValues("invalid_quantity").Inc()
		return nil, fmt.Errorf("%w: quantity must be greater than zero", models.ErrValidation)
	}
	productID, err := parseProductID(productRef)
	if err != nil {
		return nil, err
	}

	var cart *models.Cart
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Carts().FindActiveForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		product, err := tx.Products().FindByUUIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product.Stock < quantity {
			return fmt.Errorf("%w: %q has %d units available, %d requested",
				models.ErrInsufficientStock, product.Name, product.Stock, quantity)
		}

		option, err := shippingForCustomer(ctx, tx, customerID)
		if err != nil {
			return err
		}

		if err := current.AddLine(product, quantity); err != nil {
			return err
		}
		if err := tx.Products().AdjustStock(ctx, product.ID, -quantity); err != nil {
			return err
		}

		current.AssignShipping(option)
		current.Recalculate()
		if err := tx.Carts().Save(ctx, current); err != nil {
			return err
		}
		cart = current
		return nil
	})
	if err != nil {
		s.recordRejection(err)
		s.logger.Info("add to cart rejected",
			zap.Int("customer_id", customerID),
			zap.String("product", productRef),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return nil, err
	}

	libs.CartItemsAdded.Add(float64(quantity))
	s.cache.Invalidate(ctx)
	s.logger.Info("item added to cart",
		zap.Int("cart_id", cart.ID),
		zap.String("product", productRef),
		zap.Int("quantity", quantity),
		zap.String("total", cart.Total.StringFixed(2)))

	summary := cart.Summary()
	return &summary, nil
}

// RemoveItem returns up to quantity units of a cart line to stock. productRef
// is the product UUID, or the display name when the line can be identified
// by it unambiguously.
func (s *CartService) RemoveItem(ctx context.Context, customerID int, productRef string, quantity int) (*RemoveItemResult, error) {
	if quantity <= 0 {
		libs.CartRejections.WithLabelValues("invalid_quantity").Inc()
		return nil, fmt.Errorf("%w: quantity must be greater than zero", models.ErrValidation)
	}

	var result *RemoveItemResult
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		cart, err := tx.Carts().FindActiveForUpdate(ctx, customerID)
		if err != nil {
			return err
		}

		key, err := cart.LineKey(productRef)
		if err != nil {
			return err
		}
		name := cart.Items[key].Name

		removed, err := cart.RemoveLine(key, quantity)
		if err != nil {
			return err
		}

		if err := s.restoreStock(ctx, tx, key, removed); err != nil {
			return err
		}

		cart.Recalculate()
		if err := tx.Carts().Save(ctx, cart); err != nil {
			return err
		}

		result = &RemoveItemResult{ProductID: key, Name: name, Removed: removed, Cart: cart.Summary()}
		return nil
	})
	if err != nil {
		s.recordRejection(err)
		return nil, err
	}

	libs.CartItemsRemoved.Add(float64(result.Removed))
	s.cache.Invalidate(ctx)
	s.logger.Info("item removed from cart",
		zap.Int("customer_id", customerID),
		zap.String("product_id", result.ProductID),
		zap.Int("removed", result.Removed))
	return result, nil
}

func (s *CartService) restoreStock(ctx context.Context, tx repositories.Store, key string, quantity int) error {
	productID, err := uuid.Parse(key)
	if err != nil {
		return fmt.Errorf("cart line key %q is not a product id: %w", key, err)
	}

	product, err := tx.Products().FindByUUIDForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("cart line references a deleted product, stock not restored", zap.String("product_id", key))
			return nil
		}
		return err
	}
	return tx.Products().AdjustStock(ctx, product.ID, quantity)
}

// AssignShipping attaches the shipping option to the customer's active cart
// and recomputes the total.
func (s *CartService) AssignShipping(ctx context.Context, customerID int, optionID int) (*models.CartSummary, error) {
	var cart *models.Cart
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Carts().FindActiveForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		option, err := tx.Shipping().FindByID(ctx, optionID)
		if err != nil {
			return err
		}
		if err := saveTotal(ctx, tx, current, option); err != nil {
			return err
		}
		cart = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	summary := cart.Summary()
	return &summary, nil
}

// UpdateStatus sets the status of the customer's active cart.
func (s *CartService) UpdateStatus(ctx context.Context, customerID int, status models.CartStatus) (*models.Cart, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: status must be one of A, F", models.ErrValidation)
	}

	var cart *models.Cart
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Carts().FindActiveForUpdate(ctx, customerID)
		if err != nil {
			return err
		}
		current.Status = status
		if err := tx.Carts().Save(ctx, current); err != nil {
			return err
		}
		cart = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == models.CartFinalized {
		libs.CartsFinalized.Inc()
		key := fmt.Sprintf("cart-%d", cart.ID)
		if err := s.events.Publish(ctx, key, messaging.EventCartFinalized, cart.Summary()); err != nil {
			s.logger.Warn("failed to publish cart event", zap.Int("cart_id", cart.ID), zap.Error(err))
		}
	}

	s.logger.Info("cart status updated", zap.Int("cart_id", cart.ID), zap.String("status", string(status)))
	return cart, nil
}

func (s *CartService) recordRejection(err error) {
	switch {
	case errors.Is(err, models.ErrInsufficientStock):
		libs.CartRejections.WithLabelValues("insufficient_stock").Inc()
	case errors.Is(err, models.ErrUnresolvedRegion):
		libs.CartRejections.WithLabelValues("unresolved_region").Inc()
	case errors.Is(err, models.ErrNotFound):
		libs.CartRejections.WithLabelValues("not_found").Inc()
	case errors.Is(err, models.ErrConflict):
		libs.CartRejections.WithLabelValues("conflict").Inc()
	default:
		libs.CartRejections.WithLabelValues("error").Inc()
	}
}
