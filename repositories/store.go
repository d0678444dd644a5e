package repositories

import (
	"context"
	"errors"
	"fmt"

	"cart-shop/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store groups the repositories that share one connection or transaction.
type Store interface {
	Users() UserRepository
	Profiles() ProfileRepository
	Products() ProductRepository
	Shipping() ShippingRepository
	Carts() CartRepository
	Orders() OrderRepository

	// WithinTx runs fn against a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(Store) error) error
}

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresStore struct {
	pool *pgxpool.Pool
	db   DBTX
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, db: pool}
}

func (s *PostgresStore) Users() UserRepository { return &userRepository{db: s.db} }
func (s *PostgresStore) Profiles() ProfileRepository { return &profileRepository{db: s.db} }
func (s *PostgresStore) Products() ProductRepository { return &productRepository{db: s.db} }
func (s *PostgresStore) Shipping() ShippingRepository { return &shippingRepository{db: s.db} }
func (s *PostgresStore) Carts() CartRepository { return &cartRepository{db: s.db} }
func (s *PostgresStore) Orders() OrderRepository { return &orderRepository{db: s.db} }

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if _, ok := s.db.(pgx.Tx); ok {
		return fn(s)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(&PostgresStore{pool: s.pool, db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

const uniqueViolation = "23505"

// translate maps driver errors onto the model error kinds.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s", models.ErrNotFound, what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s already exists (%s)", models.ErrConflict, what, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", what, err)
}
