package repository

import (
	"context"
	"time"

	"shiptrack/internal/model"

	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves all active products.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single active product by its ID.
	// Returns (nil, nil) when no such product exists.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// GetByIDs retrieves multiple active products by their IDs.
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)

	// ExistsByID reports whether an active product with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Create inserts a new product and returns it with its assigned ID.
	Create(ctx context.Context, product *model.Product) (*model.Product, error)

	// Update replaces the mutable fields of an existing product.
	Update(ctx context.Context, product *model.Product) error

	// SoftDelete marks a product inactive. Deleting an absent or already
	// inactive product is a no-op.
	SoftDelete(ctx context.Context, id int64) error

	// SearchByName retrieves active products whose name contains the
	// given substring.
	SearchByName(ctx context.Context, name string) ([]model.Product, error)

	// GetByBrand retrieves active products of the given brand.
	GetByBrand(ctx context.Context, brand string) ([]model.Product, error)

	// GetByCategory retrieves active products in the given category.
	GetByCategory(ctx context.Context, category string) ([]model.Product, error)

	// GetLowStock retrieves active products with stock below the threshold.
	GetLowStock(ctx context.Context, minStock int) ([]model.Product, error)
}

// ShipmentRepository defines the interface for shipment data access
// operations, including the shipment-product membership table.
type ShipmentRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Create inserts a new shipment and its initial product memberships
	// within the provided transaction.
	Create(ctx context.Context, tx pgx.Tx, shipment *model.Shipment) error

	// GetByID retrieves a shipment by its ID along with its product set.
	// Returns (nil, nil) when no such shipment exists.
	GetByID(ctx context.Context, id int64) (*model.Shipment, error)

	// GetByTrackingCode retrieves a shipment by its tracking code.
	GetByTrackingCode(ctx context.Context, code string) (*model.Shipment, error)

	// GetAll retrieves all shipments with their product sets.
	GetAll(ctx context.Context) ([]model.Shipment, error)

	// ExistsByID reports whether a shipment with the given ID exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// Update replaces the mutable fields of an existing shipment.
	Update(ctx context.Context, shipment *model.Shipment) error

	// Delete removes a shipment and its memberships. Deleting an absent
	// ID is a no-op.
	Delete(ctx context.Context, id int64) error

	// AddProduct records product membership. Adding an existing member
	// is silently absorbed.
	AddProduct(ctx context.Context, shipmentID, productID int64) error

	// RemoveProduct removes product membership. Removing an absent
	// member is a no-op.
	RemoveProduct(ctx context.Context, shipmentID, productID int64) error

	// ListProducts retrieves the current product membership of a shipment.
	ListProducts(ctx context.Context, shipmentID int64) ([]model.Product, error)

	// GetByStatus retrieves shipments in the given status.
	GetByStatus(ctx context.Context, status model.ShipmentStatus) ([]model.Shipment, error)

	// GetByCarrier retrieves shipments handled by the given carrier.
	GetByCarrier(ctx context.Context, carrier string) ([]model.Shipment, error)

	// GetByCustomerEmail retrieves shipments for the given customer email.
	GetByCustomerEmail(ctx context.Context, email string) ([]model.Shipment, error)

	// GetByCity retrieves shipments destined for the given city.
	GetByCity(ctx context.Context, city string) ([]model.Shipment, error)

	// GetByRegion retrieves shipments destined for the given region.
	GetByRegion(ctx context.Context, region string) ([]model.Shipment, error)

	// GetByDateRange retrieves shipments shipped within [from, to].
	GetByDateRange(ctx context.Context, from, to time.Time) ([]model.Shipment, error)
}

// ReportRepository defines the interface for report data access operations.
type ReportRepository interface {
	// GetAll retrieves all reports.
	GetAll(ctx context.Context) ([]model.Report, error)

	// GetByID retrieves a report by its ID. Returns (nil, nil) when no
	// such report exists.
	GetByID(ctx context.Context, id int64) (*model.Report, error)

	// GetByKind retrieves all reports of the given variant.
	GetByKind(ctx context.Context, kind model.ReportKind) ([]model.Report, error)

	// Create inserts a new report and returns it with its assigned ID.
	Create(ctx context.Context, report *model.Report) (*model.Report, error)

	// Delete removes a report. Deleting an absent ID is a no-op.
	Delete(ctx context.Context, id int64) error
}
