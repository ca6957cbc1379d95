package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shiptrack/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const shipmentColumns = `id, tracking_code, carrier, status, customer_name, customer_email,
	customer_phone, address, city, region, notes, shipped_at,
	estimated_delivery, delivered_at, created_at, updated_at`

const uniqueViolation = "23505"

// shipmentRepository implements the ShipmentRepository interface using PostgreSQL.
type shipmentRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewShipmentRepository creates a new PostgreSQL-backed shipment repository.
func NewShipmentRepository(pool *pgxpool.Pool, logger zerolog.Logger) ShipmentRepository {
	return &shipmentRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "shipment").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *shipmentRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

func scanShipment(row pgx.Row) (*model.Shipment, error) {
	var s model.Shipment
	err := row.Scan(
		&s.ID, &s.TrackingCode, &s.Carrier, &s.Status, &s.CustomerName,
		&s.CustomerEmail, &s.CustomerPhone, &s.Address, &s.City, &s.Region,
		&s.Notes, &s.ShippedAt, &s.EstimatedDelivery, &s.DeliveredAt,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new shipment and its initial product memberships
// within the provided transaction.
func (r *shipmentRepository) Create(ctx context.Context, tx pgx.Tx, shipment *model.Shipment) error {
	query := `
		INSERT INTO shipments (tracking_code, carrier, status, customer_name, customer_email,
			customer_phone, address, city, region, notes, shipped_at,
			estimated_delivery, delivered_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING id, created_at, updated_at
	`

	now := time.Now()
	err := tx.QueryRow(ctx, query,
		shipment.TrackingCode, shipment.Carrier, shipment.Status,
		shipment.CustomerName, shipment.CustomerEmail, shipment.CustomerPhone,
		shipment.Address, shipment.City, shipment.Region, shipment.Notes,
		shipment.ShippedAt, shipment.EstimatedDelivery, shipment.DeliveredAt, now,
	).Scan(&shipment.ID, &shipment.CreatedAt, &shipment.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			r.logger.Warn().Str("tracking_code", shipment.TrackingCode).Msg("duplicate tracking code")
			return model.ErrDuplicateTrackingCode
		}
		r.logger.Error().Err(err).Msg("failed to create shipment")
		return fmt.Errorf("failed to create shipment: %w", err)
	}

	if len(shipment.Products) > 0 {
		memberQuery := `
			INSERT INTO shipment_products (shipment_id, product_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`
		batch := &pgx.Batch{}
		for _, p := range shipment.Products {
			batch.Queue(memberQuery, shipment.ID, p.ID)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range shipment.Products {
			if _, err := results.Exec(); err != nil {
				r.logger.Error().Err(err).Int64("shipment_id", shipment.ID).Msg("failed to attach product")
				return fmt.Errorf("failed to attach product: %w", err)
			}
		}
	}

	r.logger.Debug().
		Int64("shipment_id", shipment.ID).
		Str("tracking_code", shipment.TrackingCode).
		Msg("shipment created")

	return nil
}

func (r *shipmentRepository) getOne(ctx context.Context, query string, arg any) (*model.Shipment, error) {
	s, err := scanShipment(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query shipment")
		return nil, fmt.Errorf("failed to query shipment: %w", err)
	}

	products, err := r.ListProducts(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	s.Products = products

	return s, nil
}

// GetByID retrieves a shipment by its ID along with its product set.
func (r *shipmentRepository) GetByID(ctx context.Context, id int64) (*model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByTrackingCode retrieves a shipment by its tracking code.
func (r *shipmentRepository) GetByTrackingCode(ctx context.Context, code string) (*model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE tracking_code = $1`
	return r.getOne(ctx, query, code)
}

func (r *shipmentRepository) queryShipments(ctx context.Context, query string, args ...any) ([]model.Shipment, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query shipments")
		return nil, fmt.Errorf("failed to query shipments: %w", err)
	}
	defer rows.Close()

	var shipments []model.Shipment
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan shipment row")
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipments = append(shipments, *s)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating shipment rows")
		return nil, fmt.Errorf("error iterating shipments: %w", err)
	}

	return r.attachProducts(ctx, shipments)
}

// attachProducts loads the product sets for a batch of shipments with a
// single membership query.
func (r *shipmentRepository) attachProducts(ctx context.Context, shipments []model.Shipment) ([]model.Shipment, error) {
	if len(shipments) == 0 {
		return shipments, nil
	}

	ids := make([]int64, len(shipments))
	index := make(map[int64]int, len(shipments))
	for i := range shipments {
		ids[i] = shipments[i].ID
		index[shipments[i].ID] = i
		shipments[i].Products = []model.Product{}
	}

	query := `
		SELECT sp.shipment_id, ` + prefixedProductColumns("p") + `
		FROM shipment_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.shipment_id = ANY($1)
		ORDER BY p.name
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query shipment products")
		return nil, fmt.Errorf("failed to query shipment products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shipmentID int64
		var p model.Product
		err := rows.Scan(
			&shipmentID,
			&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &p.Size,
			&p.Price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan shipment product row")
			return nil, fmt.Errorf("failed to scan shipment product: %w", err)
		}
		if i, ok := index[shipmentID]; ok {
			shipments[i].Products = append(shipments[i].Products, p)
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating shipment product rows")
		return nil, fmt.Errorf("error iterating shipment products: %w", err)
	}

	return shipments, nil
}

// GetAll retrieves all shipments with their product sets.
func (r *shipmentRepository) GetAll(ctx context.Context) ([]model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments ORDER BY id`
	return r.queryShipments(ctx, query)
}

// ExistsByID reports whether a shipment with the given ID exists.
func (r *shipmentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM shipments WHERE id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to check shipment existence")
		return false, fmt.Errorf("failed to check shipment existence: %w", err)
	}
	return exists, nil
}

// Update replaces the mutable fields of an existing shipment. The
// tracking code is never touched once assigned.
func (r *shipmentRepository) Update(ctx context.Context, shipment *model.Shipment) error {
	query := `
		UPDATE shipments
		SET carrier = $2, status = $3, customer_name = $4, customer_email = $5,
		    customer_phone = $6, address = $7, city = $8, region = $9,
		    notes = $10, estimated_delivery = $11, delivered_at = $12,
		    updated_at = $13
		WHERE id = $1
	`

	shipment.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query,
		shipment.ID, shipment.Carrier, shipment.Status, shipment.CustomerName,
		shipment.CustomerEmail, shipment.CustomerPhone, shipment.Address,
		shipment.City, shipment.Region, shipment.Notes,
		shipment.EstimatedDelivery, shipment.DeliveredAt, shipment.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("shipment_id", shipment.ID).Msg("failed to update shipment")
		return fmt.Errorf("failed to update shipment: %w", err)
	}
	return nil
}

// Delete removes a shipment and its memberships.
func (r *shipmentRepository) Delete(ctx context.Context, id int64) error {
	// Memberships go first; the join table has no cascade of its own.
	memberQuery := `DELETE FROM shipment_products WHERE shipment_id = $1`
	query := `DELETE FROM shipments WHERE id = $1`

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, memberQuery, id); err != nil {
		r.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to delete shipment products")
		return fmt.Errorf("failed to delete shipment products: %w", err)
	}
	if _, err := tx.Exec(ctx, query, id); err != nil {
		r.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to delete shipment")
		return fmt.Errorf("failed to delete shipment: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to commit shipment deletion")
		return fmt.Errorf("failed to delete shipment: %w", err)
	}

	r.logger.Debug().Int64("shipment_id", id).Msg("shipment deleted")
	return nil
}

// AddProduct records product membership.
func (r *shipmentRepository) AddProduct(ctx context.Context, shipmentID, productID int64) error {
	query := `
		INSERT INTO shipment_products (shipment_id, product_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	if _, err := r.pool.Exec(ctx, query, shipmentID, productID); err != nil {
		r.logger.Error().Err(err).
			Int64("shipment_id", shipmentID).
			Int64("product_id", productID).
			Msg("failed to add product to shipment")
		return fmt.Errorf("failed to add product to shipment: %w", err)
	}
	return nil
}

// RemoveProduct removes product membership.
func (r *shipmentRepository) RemoveProduct(ctx context.Context, shipmentID, productID int64) error {
	query := `DELETE FROM shipment_products WHERE shipment_id = $1 AND product_id = $2`

	if _, err := r.pool.Exec(ctx, query, shipmentID, productID); err != nil {
		r.logger.Error().Err(err).
			Int64("shipment_id", shipmentID).
			Int64("product_id", productID).
			Msg("failed to remove product from shipment")
		return fmt.Errorf("failed to remove product from shipment: %w", err)
	}
	return nil
}

// ListProducts retrieves the current product membership of a shipment.
func (r *shipmentRepository) ListProducts(ctx context.Context, shipmentID int64) ([]model.Product, error) {
	query := `
		SELECT ` + prefixedProductColumns("p") + `
		FROM shipment_products sp
		JOIN products p ON p.id = sp.product_id
		WHERE sp.shipment_id = $1
		ORDER BY p.name
	`

	rows, err := r.pool.Query(ctx, query, shipmentID)
	if err != nil {
		r.logger.Error().Err(err).Int64("shipment_id", shipmentID).Msg("failed to query shipment products")
		return nil, fmt.Errorf("failed to query shipment products: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Brand, &p.Category, &p.Size,
			&p.Price, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan shipment product row")
			return nil, fmt.Errorf("failed to scan shipment product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating shipment product rows")
		return nil, fmt.Errorf("error iterating shipment products: %w", err)
	}

	return products, nil
}

// GetByStatus retrieves shipments in the given status.
func (r *shipmentRepository) GetByStatus(ctx context.Context, status model.ShipmentStatus) ([]model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE status = $1 ORDER BY id`
	return r.queryShipments(ctx, query, status)
}

// GetByCarrier retrieves shipments handled by the given carrier.
func (r *shipmentRepository) GetByCarrier(ctx context.Context, carrier string) ([]model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE carrier = $1 ORDER BY id`
	return r.queryShipments(ctx, query, carrier)
}

// GetByCustomerEmail retrieves shipments for the given customer email.
func (r *shipmentRepository) GetByCustomerEmail(ctx context.Context, email string) ([]model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE customer_email = $1 ORDER BY id`
	return r.queryShipments(ctx, query, email)
}

// GetByCity retrieves shipments destined for the given city.
func (r *shipmentRepository) GetByCity(ctx context.Context, city string) ([]model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE city = $1 ORDER BY id`
	return r.queryShipments(ctx, query, city)
}

// GetByRegion retrieves shipments destined for the given region.
func (r *shipmentRepository) GetByRegion(ctx context.Context, region string) ([]model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE region = $1 ORDER BY id`
	return r.queryShipments(ctx, query, region)
}

// GetByDateRange retrieves shipments shipped within [from, to].
func (r *shipmentRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]model.Shipment, error) {
	query := `SELECT ` + shipmentColumns + ` FROM shipments WHERE shipped_at BETWEEN $1 AND $2 ORDER BY shipped_at`
	return r.queryShipments(ctx, query, from, to)
}

// prefixedProductColumns qualifies the product column list with a table alias.
func prefixedProductColumns(alias string) string {
	return alias + `.id, ` + alias + `.name, ` + alias + `.description, ` +
		alias + `.brand, ` + alias + `.category, ` + alias + `.size, ` +
		alias + `.price, ` + alias + `.stock, ` + alias + `.active, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
