package repositories

import (
	"context"
	"fmt"

	"cart-shop/models"
)

type ShippingRepository interface {
	Create(ctx context.Context, option *models.ShippingOption) error
	FindByID(ctx context.Context, id int) (*models.ShippingOption, error)
	// FindByRegion returns the lowest-id option registered for region.
	FindByRegion(ctx context.Context, region models.Region) (*models.ShippingOption, error)
	List(ctx context.Context) ([]models.ShippingOption, error)
	Update(ctx context.Context, option *models.ShippingOption) error
	Delete(ctx context.Context, id int) error
}

type shippingRepository struct {
	db DBTX
}

const shippingColumns = `id, number, label, cost, region, created_at, updated_at`

func scanShippingOption(row interface{ Scan(...any) error }) (models.ShippingOption, error) {
	var (
		o      models.ShippingOption
		region *int16
	)
	if err := row.Scan(&o.ID, &o.Number, &o.Label, &o.Cost, &region, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return o, err
	}
	if region != nil {
		r := models.Region(*region)
		o.Region = &r
	}
	return o, nil
}

func regionParam(region *models.Region) *int16 {
	if region == nil {
		return nil
	}
	v := int16(*region)
	return &v
}

func (r *shippingRepository) Create(ctx context.Context, o *models.ShippingOption) error {
	query := `
		INSERT INTO shipping_options (number, label, cost, region)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, o.Number, o.Label, o.Cost, regionParam(o.Region)).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	return translate(err, "shipping option")
}

func (r *shippingRepository) FindByID(ctx context.Context, id int) (*models.ShippingOption, error) {
	o, err := scanShippingOption(r.db.QueryRow(ctx, `SELECT `+shippingColumns+` FROM shipping_options WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("shipping option %d", id))
	}
	return &o, nil
}

func (r *shippingRepository) FindByRegion(ctx context.Context, region models.Region) (*models.ShippingOption, error) {
	o, err := scanShippingOption(r.db.QueryRow(ctx,
		`SELECT `+shippingColumns+` FROM shipping_options WHERE region = $1 ORDER BY id LIMIT 1`, int16(region)))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("shipping option for region %d", region))
	}
	return &o, nil
}

func (r *shippingRepository) List(ctx context.Context) ([]models.ShippingOption, error) {
	rows, err := r.db.Query(ctx, `SELECT `+shippingColumns+` FROM shipping_options ORDER BY id`)
	if err != nil {
		return nil, translate(err, "shipping options")
	}
	defer rows.Close()

	options := []models.ShippingOption{}
	for rows.Next() {
		o, err := scanShippingOption(rows)
		if err != nil {
			return nil, translate(err, "shipping options")
		}
		options = append(options, o)
	}
	return options, translate(rows.Err(), "shipping options")
}

func (r *shippingRepository) Update(ctx context.Context, o *models.ShippingOption) error {
	err := r.db.QueryRow(ctx,
		`UPDATE shipping_options SET number = $1, label = $2, cost = $3, region = $4, updated_at = NOW() WHERE id = $5 RETURNING updated_at`,
		o.Number, o.Label, o.Cost, regionParam(o.Region), o.ID,
	).Scan(&o.UpdatedAt)
	return translate(err, fmt.Sprintf("shipping option %d", o.ID))
}

func (r *shippingRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM shipping_options WHERE id = $1`, id)
	if err != nil {
		return translate(err, "shipping option")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: shipping option %d", models.ErrNotFound, id)
	}
	return nil
}
