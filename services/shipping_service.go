package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cart-shop/models"
	"cart-shop/repositories"

	"go.uber.org/zap"
)

type ShippingService struct {
	store  repositories.Store
	logger *zap.Logger
}

func NewShippingService(store repositories.Store, logger *zap.Logger) *ShippingService {
	return &ShippingService{store: store, logger: logger}
}

func (s *ShippingService) Regions() []models.RegionInfo {
	return models.Regions()
}

// ResolveRegion maps the state of the customer's first registered address to
// a shipping region.
func (s *ShippingService) ResolveRegion(ctx context.Context, customerID int) (models.Region, error) {
	return resolveRegion(ctx, s.store, customerID)
}

func resolveRegion(ctx context.Context, store repositories.Store, customerID int) (models.Region, error) {
	address, err := store.Profiles().FirstAddress(ctx, customerID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return 0, fmt.Errorf("%w: customer %d has no registered address", models.ErrUnresolvedRegion, customerID)
		}
		return 0, err
	}

	region, ok := models.RegionForState(address.State)
	if !ok {
		return 0, fmt.Errorf("%w: state %q is not mapped to a region", models.ErrUnresolvedRegion, address.State)
	}
	return region, nil
}

// shippingForCustomer picks the first shipping option of the customer's region.
func shippingForCustomer(ctx context.Context, store repositories.Store, customerID int) (*models.ShippingOption, error) {
	region, err := resolveRegion(ctx, store, customerID)
	if err != nil {
		return nil, err
	}

	option, err := store.Shipping().FindByRegion(ctx, region)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%w: no shipping option for region %s", models.ErrUnresolvedRegion, region)
		}
		return nil, err
	}
	return option, nil
}

func validateShippingOption(o *models.ShippingOption) error {
	if o.Number <= 0 {
		return fmt.Errorf("%w: number must be positive", models.ErrValidation)
	}
	if strings.TrimSpace(o.Label) == "" || len(o.Label) > 50 {
		return fmt.Errorf("%w: label is required and at most 50 characters", models.ErrValidation)
	}
	if o.Cost.IsNegative() {
		return fmt.Errorf("%w: cost cannot be negative", models.ErrValidation)
	}
	if o.Region != nil && !o.Region.Valid() {
		return fmt.Errorf("%w: region %d does not exist", models.ErrValidation, *o.Region)
	}
	return nil
}

// Create registers a shipping option. Without an explicit region the option
// takes the region of the creator's first address, if any.
func (s *ShippingService) Create(ctx context.Context, creatorID int, req models.CreateShippingOptionRequest) (*models.ShippingOption, error) {
	option := &models.ShippingOption{
		Number: req.Number,
		Label:  strings.TrimSpace(req.Label),
		Cost:   req.Cost,
		Region: req.Region,
	}

	if option.Region == nil {
		region, err := resolveRegion(ctx, s.store, creatorID)
		switch {
		case err == nil:
			option.Region = &region
		case errors.Is(err, models.ErrUnresolvedRegion):
			s.logger.Debug("shipping option created without region", zap.Int("creator_id", creatorID), zap.Error(err))
		default:
			return nil, err
		}
	}

	if err := validateShippingOption(option); err != nil {
		return nil, err
	}
	if err := s.store.Shipping().Create(ctx, option); err != nil {
		return nil, err
	}

	s.logger.Info("shipping option created", zap.Int("id", option.ID), zap.Int("number", option.Number))
	return option, nil
}

func (s *ShippingService) Get(ctx context.Context, id int) (*models.ShippingOption, error) {
	return s.store.Shipping().FindByID(ctx, id)
}

func (s *ShippingService) List(ctx context.Context) ([]models.ShippingOption, error) {
	return s.store.Shipping().List(ctx)
}

func (s *ShippingService) Update(ctx context.Context, id int, patch models.ShippingOptionPatch) (*models.ShippingOption, error) {
	var option *models.ShippingOption
	err := s.store.WithinTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Shipping().FindByID(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(current)
		current.Label = strings.TrimSpace(current.Label)
		if err := validateShippingOption(current); err != nil {
			return err
		}
		if err := tx.Shipping().Update(ctx, current); err != nil {
			return err
		}
		repriced, err := refreshShippingTotals(ctx, tx, current.ID, current)
		if err != nil {
			return err
		}
		if repriced > 0 {
			s.logger.Info("active carts repriced", zap.Int("shipping_option_id", id), zap.Int("carts", repriced))
		}
		option = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return option, nil
}

// Delete removes the option and drops its cost from every active cart that
// used it.
func (s *ShippingService) Delete(ctx context.Context, id int) error {
	return s.store.WithinTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Shipping().FindByID(ctx, id); err != nil {
			return err
		}
		if _, err := refreshShippingTotals(ctx, tx, id, nil); err != nil {
			return err
		}
		return tx.Shipping().Delete(ctx, id)
	})
}
