package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"cart-shop/models"
	"cart-shop/repositories"

	"go.uber.org/zap"
)

type ProfileService struct {
	store   repositories.Store
	avatars AvatarStorage
	logger  *zap.Logger
}

func NewProfileService(store repositories.Store, avatars AvatarStorage, logger *zap.Logger) *ProfileService {
	return &ProfileService{store: store, avatars: avatars, logger: logger}
}

func forbidden(what string) error {
	return fmt.Errorf("%w: %s belongs to another customer", models.ErrForbidden, what)
}

func (s *ProfileService) Get(ctx context.Context, actor models.Actor, userID int) (*models.Profile, error) {
	if !actor.CanAccess(userID) {
		return nil, forbidden("profile")
	}

	profile, err := s.store.Profiles().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	addresses, err := s.store.Profiles().ListAddresses(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile.Addresses = addresses
	return profile, nil
}

func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	return s.store.Profiles().List(ctx)
}

func (s *ProfileService) Update(ctx context.Context, actor models.Actor, userID int, patch models.ProfilePatch) (*models.Profile, error) {
	if !actor.CanAccess(userID) {
		return nil, forbidden("profile")
	}
	if patch.Sex != nil && !validSex(*patch.Sex) {
		return nil, fmt.Errorf("%w: sex must be one of M, F, O", models.ErrValidation)
	}

	var profile *models.Profile
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Profiles().FindByUserID(ctx, userID)
		if err != nil {
			return err
		}
		patch.Apply(current)
		if err := tx.Profiles().Update(ctx, current); err != nil {
			return err
		}
		profile = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

func validSex(sex string) bool {
	return sex == "M" || sex == "F" || sex == "O"
}

func (s *ProfileService) Delete(ctx context.Context, userID int) error {
	return s.store.Profiles().Delete(ctx, userID)
}

func (s *ProfileService) UpdateAvatar(ctx context.Context, userID int, header *multipart.FileHeader) (*models.Profile, error) {
	profile, err := s.store.Profiles().FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	url, err := s.avatars.Save(ctx, header)
	if err != nil {
		return nil, err
	}

	profile.Avatar = url
	if err := s.store.Profiles().Update(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("avatar updated", zap.Int("user_id", userID))
	return profile, nil
}

func (s *ProfileService) CreateAddress(ctx context.Context, userID int, req models.CreateAddressRequest) (*models.Address, error) {
	address := &models.Address{
		UserID:     userID,
		Street:     strings.TrimSpace(req.Street),
		Number:     strings.TrimSpace(req.Number),
		District:   strings.TrimSpace(req.District),
		City:       strings.TrimSpace(req.City),
		State:      strings.ToUpper(strings.TrimSpace(req.State)),
		ZipCode:    strings.TrimSpace(req.ZipCode),
		Complement: strings.TrimSpace(req.Complement),
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}
	if err := s.store.Profiles().CreateAddress(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

func validateAddress(a *models.Address) error {
	if a.Street == "" || a.Number == "" || a.District == "" || a.City == "" || a.ZipCode == "" {
		return fmt.Errorf("%w: street, number, district, city and zip code are required", models.ErrValidation)
	}
	if len(a.State) != 2 {
		return fmt.Errorf("%w: state must be a two-letter code", models.ErrValidation)
	}
	return nil
}

// ListAddresses returns the actor's addresses, or every address for admins.
func (s *ProfileService) ListAddresses(ctx context.Context, actor models.Actor) ([]models.Address, error) {
	userID := actor.UserID
	if actor.IsAdmin() {
		userID = 0
	}
	return s.store.Profiles().ListAddresses(ctx, userID)
}

func (s *ProfileService) GetAddress(ctx context.Context, actor models.Actor, id int) (*models.Address, error) {
	address, err := s.store.Profiles().FindAddress(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(address.UserID) {
		return nil, fmt.Errorf("%w: address %d", models.ErrNotFound, id)
	}
	return address, nil
}

func (s *ProfileService) UpdateAddress(ctx context.Context, actor models.Actor, id int, patch models.AddressPatch) (*models.Address, error) {
	var address *models.Address
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Profiles().FindAddress(ctx, id)
		if err != nil {
			return err
		}
		if !actor.CanAccess(current.UserID) {
			return fmt.Errorf("%w: address %d", models.ErrNotFound, id)
		}
		patch.Apply(current)
		current.State = strings.ToUpper(strings.TrimSpace(current.State))
		if err := validateAddress(current); err != nil {
			return err
		}
		if err := tx.Profiles().UpdateAddress(ctx, current); err != nil {
			return err
		}
		address = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (s *ProfileService) DeleteAddress(ctx context.Context, id int) error {
	return s.store.Profiles().DeleteAddress(ctx, id)
}
