package repositories

import (
	"context"
	"fmt"
	"time"

	"cart-shop/models"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	FindByUserID(ctx context.Context, userID int) (*models.Profile, error)
	List(ctx context.Context) ([]models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, userID int) error

	CreateAddress(ctx context.Context, address *models.Address) error
	FindAddress(ctx context.Context, id int) (*models.Address, error)
	// ListAddresses returns addresses ordered by id; userID 0 lists all.
	ListAddresses(ctx context.Context, userID int) ([]models.Address, error)
	FirstAddress(ctx context.Context, userID int) (*models.Address, error)
	UpdateAddress(ctx context.Context, address *models.Address) error
	DeleteAddress(ctx context.Context, id int) error
}

type profileRepository struct {
	db DBTX
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	if profile.RegisteredAt.IsZero() {
		profile.RegisteredAt = time.Now()
	}
	query := `
		INSERT INTO profiles (user_id, registered_at, avatar, sex, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, profile.UserID, profile.RegisteredAt, profile.Avatar, profile.Sex).
		Scan(&profile.UpdatedAt)
	return translate(err, "profile")
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID int) (*models.Profile, error) {
	var p models.Profile
	err := r.db.QueryRow(ctx,
		`SELECT user_id, registered_at, avatar, sex, updated_at FROM profiles WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.RegisteredAt, &p.Avatar, &p.Sex, &p.UpdatedAt)
	if err != nil {
		return nil, translate(err, fmt.Sprintf("profile %d", userID))
	}
	return &p, nil
}

func (r *profileRepository) List(ctx context.Context) ([]models.Profile, error) {
	rows, err := r.db.Query(ctx, `SELECT user_id, registered_at, avatar, sex, updated_at FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, translate(err, "profiles")
	}
	defer rows.Close()

	profiles := []models.Profile{}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.UserID, &p.RegisteredAt, &p.Avatar, &p.Sex, &p.UpdatedAt); err != nil {
			return nil, translate(err, "profiles")
		}
		profiles = append(profiles, p)
	}
	return profiles, translate(rows.Err(), "profiles")
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	err := r.db.QueryRow(ctx,
		`UPDATE profiles SET registered_at = $1, avatar = $2, sex = $3, updated_at = NOW() WHERE user_id = $4 RETURNING updated_at`,
		profile.RegisteredAt, profile.Avatar, profile.Sex, profile.UserID,
	).Scan(&profile.UpdatedAt)
	return translate(err, fmt.Sprintf("profile %d", profile.UserID))
}

func (r *profileRepository) Delete(ctx context.Context, userID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	if err != nil {
		return translate(err, "profile")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: profile %d", models.ErrNotFound, userID)
	}
	return nil
}

const addressColumns = `id, user_id, street, number, district, city, state, zip_code, complement, created_at`

func scanAddress(row interface{ Scan(...any) error }) (models.Address, error) {
	var a models.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Street, &a.Number, &a.District, &a.City, &a.State, &a.ZipCode, &a.Complement, &a.CreatedAt)
	return a, err
}

func (r *profileRepository) CreateAddress(ctx context.Context, a *models.Address) error {
	query := `
		INSERT INTO addresses (user_id, street, number, district, city, state, zip_code, complement)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, a.UserID, a.Street, a.Number, a.District, a.City, a.State, a.ZipCode, a.Complement).
		Scan(&a.ID, &a.CreatedAt)
	return translate(err, "address")
}

func (r *profileRepository) FindAddress(ctx context.Context, id int) (*models.Address, error) {
	a, err := scanAddress(r.db.QueryRow(ctx, `SELECT `+addressColumns+` FROM addresses WHERE id = $1`, id))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("address %d", id))
	}
	return &a, nil
}

func (r *profileRepository) ListAddresses(ctx context.Context, userID int) ([]models.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE ($1 = 0 OR user_id = $1) ORDER BY id`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, translate(err, "addresses")
	}
	defer rows.Close()

	addresses := []models.Address{}
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, translate(err, "addresses")
		}
		addresses = append(addresses, a)
	}
	return addresses, translate(rows.Err(), "addresses")
}

func (r *profileRepository) FirstAddress(ctx context.Context, userID int) (*models.Address, error) {
	a, err := scanAddress(r.db.QueryRow(ctx,
		`SELECT `+addressColumns+` FROM addresses WHERE user_id = $1 ORDER BY id LIMIT 1`, userID))
	if err != nil {
		return nil, translate(err, fmt.Sprintf("address for customer %d", userID))
	}
	return &a, nil
}

func (r *profileRepository) UpdateAddress(ctx context.Context, a *models.Address) error {
	query := `
		UPDATE addresses SET street = $1, number = $2, district = $3, city = $4, state = $5, zip_code = $6, complement = $7
		WHERE id = $8
	`
	tag, err := r.db.Exec(ctx, query, a.Street, a.Number, a.District, a.City, a.State, a.ZipCode, a.Complement, a.ID)
	if err != nil {
		return translate(err, "address")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: address %d", models.ErrNotFound, a.ID)
	}
	return nil
}

func (r *profileRepository) DeleteAddress(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return translate(err, "address")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: address %d", models.ErrNotFound, id)
	}
	return nil
}
