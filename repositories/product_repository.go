package repositories

import (
	"context"
	"fmt"
	"time"

	"cart-shop/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	FindByUUID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// FindByUUIDForUpdate locks the row until the surrounding transaction ends.
	FindByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ExistsByName(ctx context.Context, name string, excludeID int) (bool, error)
	Update(ctx context.Context, product *models.Product) error
	// AdjustStock adds delta to the stock of product id. A negative delta
	// larger than the available stock fails with models.ErrInsufficientStock.
	AdjustStock(ctx context.Context, id int, delta int) error
	Delete(ctx context.Context, id int) error
}

type productRepository struct {
	db DBTX
}

const productColumns = `id, uuid, name, description, price, stock, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.UUID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if product.UUID == uuid.Nil {
		product.UUID = uuid.New()
	}
	query := `
		INSERT INTO products (uuid, name, description, price, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		product.UUID, product.Name, product.Description, product.Price, product.Stock, time.Now(),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	return translate(err, "product")
}

func (r *productRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	filter.Normalize()

	where := ` WHERE ($1 = '' OR uuid::text = $1) AND ($2 = '' OR LOWER(name) LIKE '%' || LOWER($2) || '%')`

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, filter.UUID, filter.Name).Scan(&total); err != nil {
		return nil, 0, translate(err, "products")
	}

	query := `SELECT ` + productColumns + ` FROM products` + where + ` ORDER BY id LIMIT $3 OFFSET $4`
	rows, err := r.db.Query(ctx, query, filter.UUID, filter.Name, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, translate(err, "products")
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, translate(err, "products")
		}
		products = append(products, p)
	}
	return products, total, translate(rows.Err(), "products")
}

func (r *productRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE uuid = $1`, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("product %s", id))
	}
	return &p, nil
}

func (r *productRepository) FindByUUIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	p, err := scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE uuid = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("product %s", id))
	}
	return &p, nil
}

func (r *productRepository) ExistsByName(ctx context.Context, name string, excludeID int) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM products WHERE LOWER(name) = LOWER($1) AND id <> $2)`, name, excludeID,
	).Scan(&exists)
	return exists, translate(err, "product")
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products SET name = $1, description = $2, price = $3, stock = $4, updated_at = NOW()
		WHERE id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, product.Name, product.Description, product.Price, product.Stock, product.ID).
		Scan(&product.UpdatedAt)
	return translate(err, fmt.Sprintf("product %s", product.UUID))
}

func (r *productRepository) AdjustStock(ctx context.Context, id int, delta int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE products SET stock = stock + $2, updated_at = NOW() WHERE id = $1 AND stock + $2 >= 0`, id, delta)
	if err != nil {
		return translate(err, "product stock")
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
			return translate(err, "product stock")
		}
		if !exists {
			return fmt.Errorf("%w: product %d", models.ErrNotFound, id)
		}
		return fmt.Errorf("%w: product %d cannot give %d units", models.ErrInsufficientStock, id, -delta)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translate(err, "product")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: product %d", models.ErrNotFound, id)
	}
	return nil
}
