package repositories

import (
	"context"
	"fmt"
	"time"

	"cart-shop/models"

	"github.com/shopspring/decimal"
)

type CartRepository interface {
	// Create inserts an empty active cart. A second active cart for the same
	// customer fails with models.ErrConflict.
	Create(ctx context.Context, cart *models.Cart) error
	FindActive(ctx context.Context, customerID int) (*models.Cart, error)
	// FindActiveForUpdate locks the active cart row until the surrounding
	// transaction ends.
	FindActiveForUpdate(ctx context.Context, customerID int) (*models.Cart, error)
	ListByStatus(ctx context.Context, customerID int, status models.CartStatus) ([]models.Cart, error)
	// ListActiveByShipping locks every active cart that uses the shipping option.
	ListActiveByShipping(ctx context.Context, optionID int) ([]models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) error
	// ActiveContaining reports whether any active cart holds a line for productKey.
	ActiveContaining(ctx context.Context, productKey string) (bool, error)
}

type cartRepository struct {
	db DBTX
}

const cartSelect = `
	SELECT c.id, c.customer_id, c.items, c.shipping_option_id, c.total, c.status, c.created_at, c.updated_at,
	       s.id, s.number, s.label, s.cost, s.region, s.created_at, s.updated_at
	FROM carts c
	LEFT JOIN shipping_options s ON s.id = c.shipping_option_id
`

func scanCart(row interface{ Scan(...any) error }) (*models.Cart, error) {
	var (
		c       models.Cart
		status  string
		sID     *int
		sNumber *int
		sLabel  *string
		sCost   decimal.NullDecimal
		sRegion *int16
		sCreate *time.Time
		sUpdate *time.Time
	)
	err := row.Scan(
		&c.ID, &c.CustomerID, &c.Items, &c.ShippingOptionID, &c.Total, &status, &c.CreatedAt, &c.UpdatedAt,
		&sID, &sNumber, &sLabel, &sCost, &sRegion, &sCreate, &sUpdate,
	)
	if err != nil {
		return nil, err
	}
	c.Status = models.CartStatus(status)
	if c.Items == nil {
		c.Items = models.CartItems{}
	}

	if sID != nil {
		option := &models.ShippingOption{ID: *sID, Cost: sCost.Decimal}
		if sNumber != nil {
			option.Number = *sNumber
		}
		if sLabel != nil {
			option.Label = *sLabel
		}
		if sRegion != nil {
			r := models.Region(*sRegion)
			option.Region = &r
		}
		if sCreate != nil {
			option.CreatedAt = *sCreate
		}
		if sUpdate != nil {
			option.UpdatedAt = *sUpdate
		}
		c.Shipping = option
	}
	return &c, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *models.Cart) error {
	if cart.Items == nil {
		cart.Items = models.CartItems{}
	}
	query := `
		INSERT INTO carts (customer_id, items, shipping_option_id, total, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, cart.CustomerID, cart.Items, cart.ShippingOptionID, cart.Total, string(cart.Status)).
		Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return translate(err, fmt.Sprintf("active cart for customer %d", cart.CustomerID))
	}
	return nil
}

func (r *cartRepository) FindActive(ctx context.Context, customerID int) (*models.Cart, error) {
	cart, err := scanCart(r.db.QueryRow(ctx, cartSelect+` WHERE c.customer_id = $1 AND c.status = 'A'`, customerID))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("active cart for customer %d", customerID))
	}
	return cart, nil
}

func (r *cartRepository) FindActiveForUpdate(ctx context.Context, customerID int) (*models.Cart, error) {
	cart, err := scanCart(r.db.QueryRow(ctx,
		cartSelect+` WHERE c.customer_id = $1 AND c.status = 'A' FOR UPDATE OF c`, customerID))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("active cart for customer %d", customerID))
	}
	return cart, nil
}

func (r *cartRepository) ListByStatus(ctx context.Context, customerID int, status models.CartStatus) ([]models.Cart, error) {
	rows, err := r.db.Query(ctx, cartSelect+` WHERE c.customer_id = $1 AND c.status = $2 ORDER BY c.id`, customerID, string(status))
	if err != nil {
		return nil, translate(err, "carts")
	}
	defer rows.Close()

	carts := []models.Cart{}
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, translate(err, "carts")
		}
		carts = append(carts, *cart)
	}
	return carts, translate(rows.Err(), "carts")
}

func (r *cartRepository) ListActiveByShipping(ctx context.Context, optionID int) ([]models.Cart, error) {
	rows, err := r.db.Query(ctx,
		cartSelect+` WHERE c.status = 'A' AND c.shipping_option_id = $1 ORDER BY c.id FOR UPDATE OF c`, optionID)
	if err != nil {
		return nil, translate(err, "carts")
	}
	defer rows.Close()

	carts := []models.Cart{}
	for rows.Next() {
		cart, err := scanCart(rows)
		if err != nil {
			return nil, translate(err, "carts")
		}
		carts = append(carts, *cart)
	}
	return carts, translate(rows.Err(), "carts")
}

func (r *cartRepository) Save(ctx context.Context, cart *models.Cart) error {
	query := `
		UPDATE carts SET items = $1, shipping_option_id = $2, total = $3, status = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, cart.Items, cart.ShippingOptionID, cart.Total, string(cart.Status), cart.ID).
		Scan(&cart.UpdatedAt)
	return translate(err, fmt.Sprintf("cart %d", cart.ID))
}

func (r *cartRepository) ActiveContaining(ctx context.Context, productKey string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM carts WHERE status = 'A' AND items ? $1)`, productKey).Scan(&exists)
	return exists, translate(err, "carts")
}
