package services

import (
	"context"

	"cart-shop/models"
	"cart-shop/repositories"

	"go.uber.org/zap"
)

type UserService struct {
	store  repositories.Store
	logger *zap.Logger
}

func NewUserService(store repositories.Store, logger *zap.Logger) *UserService {
	return &UserService{store: store, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.store.Users().List(ctx)
}

func (s *UserService) Get(ctx context.Context, id int) (*models.UserWithProfile, error) {
	return loadUserWithProfile(ctx, s.store, id)
}

// Delete removes the user along with profile, addresses, carts and orders.
func (s *UserService) Delete(ctx context.Context, id int) error {
	if err := s.store.Users().Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int("user_id", id))
	return nil
}
