package service

import (
	"context"
	"fmt"

	"shiptrack/internal/model"
	"shiptrack/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves all active products.
func (s *productService) GetAll(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Msg("retrieved products")

	return products, nil
}

// GetByID retrieves a single product by ID.
func (s *productService) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Create validates and stores a new product.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("name", req.Name).Msg("invalid product request")
		return nil, err
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Category:    req.Category,
		Size:        req.Size,
		Price:       req.Price,
		Stock:       req.Stock,
	}

	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int64("product_id", created.ID).Str("name", created.Name).Msg("product created")

	return created, nil
}

// Update replaces the fields of an existing product.
func (s *productService) Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("invalid product request")
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to load product for update")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Brand = req.Brand
	product.Category = req.Category
	product.Size = req.Size
	product.Price = req.Price
	product.Stock = req.Stock

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")

	return product, nil
}

// Delete marks a product inactive. Deleting an absent product is a no-op.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.SoftDelete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")

	return nil
}

// SearchByName retrieves products whose name contains the substring.
func (s *productService) SearchByName(ctx context.Context, name string) ([]model.Product, error) {
	products, err := s.productRepo.SearchByName(ctx, name)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("failed to search products by name")
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return products, nil
}

// GetByBrand retrieves products of the given brand.
func (s *productService) GetByBrand(ctx context.Context, brand string) ([]model.Product, error) {
	products, err := s.productRepo.GetByBrand(ctx, brand)
	if err != nil {
		s.logger.Error().Err(err).Str("brand", brand).Msg("failed to get products by brand")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetByCategory retrieves products in the given category.
func (s *productService) GetByCategory(ctx context.Context, category string) ([]model.Product, error) {
	products, err := s.productRepo.GetByCategory(ctx, category)
	if err != nil {
		s.logger.Error().Err(err).Str("category", category).Msg("failed to get products by category")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}
	return products, nil
}

// GetLowStock retrieves products with stock below the threshold.
func (s *productService) GetLowStock(ctx context.Context, minStock int) ([]model.Product, error) {
	if minStock < 0 {
		minStock = 0
	}

	products, err := s.productRepo.GetLowStock(ctx, minStock)
	if err != nil {
		s.logger.Error().Err(err).Int("min_stock", minStock).Msg("failed to get low stock products")
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	s.logger.Debug().Int("count", len(products)).Int("min_stock", minStock).Msg("retrieved low stock products")

	return products, nil
}
