package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiptrack/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, description, brand, category, size, price, stock, active, created_at, updated_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &p.Size,
		&p.Price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) queryProducts(ctx context.Context, query string, args ...any) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetAll retrieves all active products.
func (r *productRepository) GetAll(ctx context.Context) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE active = TRUE
		ORDER BY name
	`
	return r.queryProducts(ctx, query)
}

// GetByID retrieves a single active product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = $1 AND active = TRUE
	`

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetByIDs retrieves multiple active products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE id = ANY($1) AND active = TRUE
		ORDER BY name
	`
	return r.queryProducts(ctx, query, ids)
}

// ExistsByID reports whether an active product with the given ID exists.
func (r *productRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND active = TRUE)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to check product existence")
		return false, fmt.Errorf("failed to check product existence: %w", err)
	}
	return exists, nil
}

// Create inserts a new product and returns it with its assigned ID.
func (r *productRepository) Create(ctx context.Context, product *model.Product) (*model.Product, error) {
	query := `
		INSERT INTO products (name, description, brand, category, size, price, stock, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $8)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	err := r.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Brand, product.Category,
		product.Size, product.Price, product.Stock, now,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	product.Active = true

	r.logger.Debug().Int64("product_id", product.ID).Msg("product created")

	return product, nil
}

// Update replaces the mutable fields of an existing product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	query := `
		UPDATE products
		SET name = $2, description = $3, brand = $4, category = $5,
		    size = $6, price = $7, stock = $8, updated_at = $9
		WHERE id = $1 AND active = TRUE
	`

	product.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Brand,
		product.Category, product.Size, product.Price, product.Stock,
		product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	return nil
}

// SoftDelete marks a product inactive.
func (r *productRepository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE products SET active = FALSE, updated_at = $2 WHERE id = $1`

	_, err := r.pool.Exec(ctx, query, id, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to soft delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

// SearchByName retrieves active products whose name contains the given substring.
func (r *productRepository) SearchByName(ctx context.Context, name string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE '%' || $1 || '%' AND active = TRUE
		ORDER BY name
	`
	return r.queryProducts(ctx, query, name)
}

// GetByBrand retrieves active products of the given brand.
func (r *productRepository) GetByBrand(ctx context.Context, brand string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE brand = $1 AND active = TRUE
		ORDER BY name
	`
	return r.queryProducts(ctx, query, brand)
}

// GetByCategory retrieves active products in the given category.
func (r *productRepository) GetByCategory(ctx context.Context, category string) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1 AND active = TRUE
		ORDER BY name
	`
	return r.queryProducts(ctx, query, category)
}

// GetLowStock retrieves active products with stock below the threshold.
func (r *productRepository) GetLowStock(ctx context.Context, minStock int) ([]model.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE stock < $1 AND active = TRUE
		ORDER BY stock, name
	`
	return r.queryProducts(ctx, query, minStock)
}
