package service

import (
	"context"
	"time"

	"shiptrack/internal/model"
)

// ProductService defines operations for catalogue management.
type ProductService interface {
	// GetAll retrieves all active products.
	GetAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by ID.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// Create validates and stores a new product.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces the fields of an existing product.
	Update(ctx context.Context, id int64, req *model.ProductRequest) (*model.Product, error)

	// Delete marks a product inactive. Deleting an absent product is a no-op.
	Delete(ctx context.Context, id int64) error

	// SearchByName retrieves products whose name contains the substring.
	SearchByName(ctx context.Context, name string) ([]model.Product, error)

	// GetByBrand retrieves products of the given brand.
	GetByBrand(ctx context.Context, brand string) ([]model.Product, error)

	// GetByCategory retrieves products in the given category.
	GetByCategory(ctx context.Context, category string) ([]model.Product, error)

	// GetLowStock retrieves products with stock below the threshold.
	GetLowStock(ctx context.Context, minStock int) ([]model.Product, error)
}

// ShipmentService defines operations for shipment lifecycle and
// product-association management.
type ShipmentService interface {
	// GetAll retrieves all shipments.
	GetAll(ctx context.Context) ([]model.Shipment, error)

	// GetByID retrieves a shipment by ID.
	GetByID(ctx context.Context, id int64) (*model.Shipment, error)

	// GetByTrackingCode retrieves a shipment by its tracking code.
	GetByTrackingCode(ctx context.Context, code string) (*model.Shipment, error)

	// Create registers a new shipment, generating a tracking code and an
	// estimated delivery date when absent, and notifies the carrier.
	Create(ctx context.Context, req *model.ShipmentRequest) (*model.Shipment, error)

	// Update merges non-nil patch fields into the stored shipment. A
	// status change triggers the same notification rule as ChangeStatus.
	Update(ctx context.Context, id int64, patch *model.ShipmentPatch) (*model.Shipment, error)

	// ChangeStatus applies a status change and notifies the carrier
	// exactly once when the status actually changed.
	ChangeStatus(ctx context.Context, id int64, status model.ShipmentStatus) (*model.Shipment, error)

	// Delete cancels the shipment with the carrier and removes it.
	// Deleting an absent shipment is a no-op.
	Delete(ctx context.Context, id int64) error

	// AddProduct inserts a product into the shipment's set. Adding an
	// existing member is a no-op.
	AddProduct(ctx context.Context, shipmentID, productID int64) (*model.Shipment, error)

	// RemoveProduct removes a product from the shipment's set. Removing
	// an absent member is a no-op.
	RemoveProduct(ctx context.Context, shipmentID, productID int64) (*model.Shipment, error)

	// ListProducts returns the shipment's current product membership.
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

// ReportService defines operations for the report variants.
type ReportService interface {
	// GetAll retrieves all reports.
	GetAll(ctx context.Context) ([]model.Report, error)

	// GetByID retrieves a report by ID.
	GetByID(ctx context.Context, id int64) (*model.Report, error)

	// GetByKind retrieves all reports of the given variant.
	GetByKind(ctx context.Context, kind model.ReportKind) ([]model.Report, error)

	// Create validates and stores a new report.
	Create(ctx context.Context, req *model.ReportRequest) (*model.Report, error)

	// Delete removes a report. Deleting an absent report is a no-op.
	Delete(ctx context.Context, id int64) error

	// Render produces the textual form of a stored report.
	Render(ctx context.Context, id int64) (string, error)
}
