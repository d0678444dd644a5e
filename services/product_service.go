package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"cart-shop/models"
	"cart-shop/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProductService struct {
	store  repositories.Store
	cache  ProductCache
	logger *zap.Logger
}

func NewProductService(store repositories.Store, cache ProductCache, logger *zap.Logger) *ProductService {
	if cache == nil {
		cache = noopCache{}
	}
	return &ProductService{store: store, cache: cache, logger: logger}
}

type productPage struct {
	Products []models.Product `json:"products"`
	Total    int              `json:"total"`
}

func parseProductID(ref string) (uuid.UUID, error) {
	id, err := uuid.Parse(ref)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: product %q", models.ErrNotFound, ref)
	}
	return id, nil
}

func validateProduct(p *models.Product) error {
	if strings.TrimSpace(p.Name) == "" || len(p.Name) > 100 {
		return fmt.Errorf("%w: name is required and at most 100 characters", models.ErrValidation)
	}
	if !p.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", models.ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: stock cannot be negative", models.ErrValidation)
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		UUID:        uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	exists, err := s.store.Products().ExistsByName(ctx, product.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: a product named %q already exists", models.ErrValidation, product.Name)
	}

	if err := s.store.Products().Create(ctx, product); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	s.logger.Info("product created", zap.String("uuid", product.UUID.String()), zap.String("name", product.Name))
	return product, nil
}

func (s *ProductService) List(ctx context.Context, filter models.ProductFilter) (*models.PaginationResponse, error) {
	filter.Normalize()

	var page productPage
	if cached, ok := s.cache.Get(ctx, filter); ok && json.Unmarshal(cached, &page) == nil {
		return paginate(page, filter), nil
	}

	products, total, err := s.store.Products().List(ctx, filter)
	if err != nil {
		return nil, err
	}
	page = productPage{Products: products, Total: total}

	if payload, err := json.Marshal(page); err == nil {
		s.cache.Set(ctx, filter, payload)
	}
	return paginate(page, filter), nil
}

func paginate(page productPage, filter models.ProductFilter) *models.PaginationResponse {
	return &models.PaginationResponse{
		Success: true,
		Message: "Products retrieved successfully",
		Data:    page.Products,
		Meta: models.MetaData{
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalItems: page.Total,
			TotalPages: int(math.Ceil(float64(page.Total) / float64(filter.Limit))),
		},
	}
}

func (s *ProductService) Get(ctx context.Context, ref string) (*models.Product, error) {
	id, err := parseProductID(ref)
	if err != nil {
		return nil, err
	}
	return s.store.Products().FindByUUID(ctx, id)
}

func (s *ProductService) Update(ctx context.Context, ref string, patch models.ProductPatch) (*models.Product, error) {
	id, err := parseProductID(ref)
	if err != nil {
		return nil, err
	}

	var product *models.Product
	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		current, err := tx.Products().FindByUUIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		patch.Apply(current)
		current.Name = strings.TrimSpace(current.Name)
		if err := validateProduct(current); err != nil {
			return err
		}

		if patch.Name != nil {
			exists, err := tx.Products().ExistsByName(ctx, current.Name, current.ID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("%w: a product named %q already exists", models.ErrValidation, current.Name)
			}
		}

		if err := tx.Products().Update(ctx, current); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx)
	return product, nil
}

// Delete refuses to remove a product that still sits in an active cart.
func (s *ProductService) Delete(ctx context.Context, ref string) error {
	id, err := parseProductID(ref)
	if err != nil {
		return err
	}

	err = s.store.WithinTx(ctx, func(tx repositories.Store) error {
		product, err := tx.Products().FindByUUIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		inCart, err := tx.Carts().ActiveContaining(ctx, product.UUID.String())
		if err != nil {
			return err
		}
		if inCart {
			return fmt.Errorf("%w: product %s is in an active cart", models.ErrConflict, product.UUID)
		}
		return tx.Products().Delete(ctx, product.ID)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx)
	s.logger.Info("product deleted", zap.String("uuid", id.String()))
	return nil
}

func (s *ProductService) InvalidateCache(ctx context.Context) {
	s.cache.Invalidate(ctx)
}
