package repositories

import (
	"context"
	"fmt"

	"cart-shop/models"
)

type OrderRepository interface {
	// Create writes the order and its items. Callers run it inside WithinTx.
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id int) (*models.Order, error)
	// List returns orders with their items; customerID 0 lists every order.
	List(ctx context.Context, customerID int) ([]models.Order, error)
	Delete(ctx context.Context, id int) error
}

type orderRepository struct {
	db DBTX
}

const orderColumns = `id, number, customer_id, state, shipping_option_id, created_at, shipped_at`

func scanOrder(row interface{ Scan(...any) error }) (models.Order, error) {
	var o models.Order
	err := row.Scan(&o.ID, &o.Number, &o.CustomerID, &o.State, &o.ShippingOptionID, &o.CreatedAt, &o.ShippedAt)
	return o, err
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (number, customer_id, state, shipping_option_id, shipped_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, order.Number, order.CustomerID, order.State, order.ShippingOptionID, order.ShippedAt).
		Scan(&order.ID, &order.CreatedAt)
	if err != nil {
		return translate(err, fmt.Sprintf("order number %d", order.Number))
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_number, product_name, quantity, unit_cost, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID
		err := r.db.QueryRow(ctx, itemQuery,
			item.OrderID, item.ProductNumber, item.ProductName, item.Quantity, item.UnitCost, item.Subtotal,
		).Scan(&item.ID)
		if err != nil {
			return translate(err, "order item")
		}
	}
	return nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int) (*models.Order, error) {
	o, err := scanOrder(r.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("order %d", id))
	}

	items, err := r.items(ctx, []int{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	if o.Items == nil {
		o.Items = []models.OrderItem{}
	}
	return &o, nil
}

func (r *orderRepository) List(ctx context.Context, customerID int) ([]models.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE ($1 = 0 OR customer_id = $1) ORDER BY id`, customerID)
	if err != nil {
		return nil, translate(err, "orders")
	}
	defer rows.Close()

	orders := []models.Order{}
	ids := []int{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, translate(err, "orders")
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "orders")
	}
	rows.Close()

	if len(ids) == 0 {
		return orders, nil
	}

	items, err := r.items(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
		if orders[i].Items == nil {
			orders[i].Items = []models.OrderItem{}
		}
	}
	return orders, nil
}

func (r *orderRepository) items(ctx context.Context, orderIDs []int) (map[int][]models.OrderItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_id, product_number, product_name, quantity, unit_cost, subtotal
		FROM order_items WHERE order_id = ANY($1) ORDER BY id`, orderIDs)
	if err != nil {
		return nil, translate(err, "order items")
	}
	defer rows.Close()

	items := make(map[int][]models.OrderItem, len(orderIDs))
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductNumber, &it.ProductName, &it.Quantity, &it.UnitCost, &it.Subtotal); err != nil {
			return nil, translate(err, "order items")
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	return items, translate(rows.Err(), "order items")
}

func (r *orderRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return translate(err, "order")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", models.ErrNotFound, id)
	}
	return nil
}
