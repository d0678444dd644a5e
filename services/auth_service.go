package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cart-shop/models"
	"cart-shop/repositories"
	"cart-shop/utils"

	"go.uber.org/zap"
)

type AuthService struct {
	store  repositories.Store
	tokens *utils.TokenManager
	logger *zap.Logger
}

func NewAuthService(store repositories.Store, tokens *utils.TokenManager, logger *zap.Logger) *AuthService {
	return &AuthService{store: store, tokens: tokens, logger: logger}
}

// Register creates the user together with its profile.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		Role:     models.RoleCustomer,
	}
	profile := &models.Profile{Sex: req.Sex}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		profile.UserID = user.ID
		return tx.Profiles().Create(ctx, profile)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("user registered", zap.Int("user_id", user.ID))
	return &models.LoginResponse{
		Token: token,
		User:  models.UserWithProfile{User: *user, Profile: profile},
	}, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	invalid := fmt.Errorf("%w: invalid email or password", models.ErrUnauthorized)

	user, err := s.store.Users().FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, invalid
		}
		return nil, err
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, invalid
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	profile, err := s.store.Profiles().FindByUserID(ctx, user.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	return &models.LoginResponse{
		Token: token,
		User:  models.UserWithProfile{User: *user, Profile: profile},
	}, nil
}

func (s *AuthService) Me(ctx context.Context, userID int) (*models.UserWithProfile, error) {
	return loadUserWithProfile(ctx, s.store, userID)
}

func loadUserWithProfile(ctx context.Context, store repositories.Store, userID int) (*models.UserWithProfile, error) {
	user, err := store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &models.UserWithProfile{User: *user}
	profile, err := store.Profiles().FindByUserID(ctx, userID)
	switch {
	case err == nil:
		addresses, err := store.Profiles().ListAddresses(ctx, userID)
		if err != nil {
			return nil, err
		}
		profile.Addresses = addresses
		result.Profile = profile
	case !errors.Is(err, models.ErrNotFound):
		return nil, err
	}
	return result, nil
}
