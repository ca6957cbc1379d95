package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"shiptrack/internal/carrier"
	"shiptrack/internal/model"
	"shiptrack/internal/policy"
	"shiptrack/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// trackingPrefix is prepended to every generated tracking code.
	trackingPrefix = "ST"

	// defaultDeliveryOffset is the estimated delivery window applied
	// when a new shipment does not carry one.
	defaultDeliveryOffset = 72 * time.Hour
)

// shipmentService implements ShipmentService.
type shipmentService struct {
	shipmentRepo repository.ShipmentRepository
	productRepo  repository.ProductRepository
	gateway      carrier.Gateway
	policy       policy.TransitionPolicy
	now          func() time.Time
	logger       zerolog.Logger
}

// NewShipmentService creates a new shipment service.
func NewShipmentService(
	shipmentRepo repository.ShipmentRepository,
	productRepo repository.ProductRepository,
	gateway carrier.Gateway,
	transitionPolicy policy.TransitionPolicy,
	logger zerolog.Logger,
) ShipmentService {
	return &shipmentService{
		shipmentRepo: shipmentRepo,
		productRepo:  productRepo,
		gateway:      gateway,
		policy:       transitionPolicy,
		now:          time.Now,
		logger:       logger.With().Str("service", "shipment").Logger(),
	}
}

// generateTrackingCode builds a prefix + unique token code. Uniqueness
// is ultimately guaranteed by the database constraint; a collision
// surfaces as ErrDuplicateTrackingCode.
func (s *shipmentService) generateTrackingCode() string {
	token := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s%d%s", trackingPrefix, s.now().UnixMilli(), token)
}

// GetAll retrieves all shipments.
func (s *shipmentService) GetAll(ctx context.Context) ([]model.Shipment, error) {
	shipments, err := s.shipmentRepo.GetAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get all shipments")
		return nil, fmt.Errorf("failed to get shipments: %w", err)
	}

	s.logger.Debug().Int("count", len(shipments)).Msg("retrieved shipments")

	return shipments, nil
}

// GetByID retrieves a shipment by ID.
func (s *shipmentService) GetByID(ctx context.Context, id int64) (*model.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to get shipment by ID")
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	if shipment == nil {
		s.logger.Debug().Int64("shipment_id", id).Msg("shipment not found")
		return nil, model.ErrShipmentNotFound
	}

	return shipment, nil
}

// GetByTrackingCode retrieves a shipment by its tracking code.
func (s *shipmentService) GetByTrackingCode(ctx context.Context, code string) (*model.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByTrackingCode(ctx, code)
	if err != nil {
		s.logger.Error().Err(err).Str("tracking_code", code).Msg("failed to get shipment by tracking code")
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}

	if shipment == nil {
		return nil, model.ErrShipmentNotFound
	}

	return shipment, nil
}

// Create registers a new shipment and notifies the carrier. The carrier
// call is synchronous but its failure never fails the operation.
func (s *shipmentService) Create(ctx context.Context, req *model.ShipmentRequest) (*model.Shipment, error) {
	if err := req.Validate(); err != nil {
		s.logger.Warn().Err(err).Str("carrier", req.Carrier).Msg("invalid shipment request")
		return nil, err
	}

	status := model.StatusPending
	if req.Status != "" {
		parsed, err := model.ParseStatus(req.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	// Resolve the initial product set; every referenced product must exist.
	var products []model.Product
	if len(req.ProductIDs) > 0 {
		found, err := s.productRepo.GetByIDs(ctx, req.ProductIDs)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to resolve shipment products")
			return nil, fmt.Errorf("failed to create shipment: %w", err)
		}
		if len(found) != countDistinct(req.ProductIDs) {
			s.logger.Warn().
				Int("requested", len(req.ProductIDs)).
				Int("found", len(found)).
				Msg("shipment references unknown products")
			return nil, model.ErrProductNotFound
		}
		products = found
	}

	now := s.now()

	trackingCode := req.TrackingCode
	if trackingCode == "" {
		trackingCode = s.generateTrackingCode()
	}

	estimated := req.EstimatedDelivery
	if estimated == nil {
		e := now.Add(defaultDeliveryOffset)
		estimated = &e
	}

	shipment := &model.Shipment{
		TrackingCode:      trackingCode,
		Carrier:           req.Carrier,
		Status:            status,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		Address:           req.Address,
		City:              req.City,
		Region:            req.Region,
		Notes:             req.Notes,
		ShippedAt:         now,
		EstimatedDelivery: estimated,
		Products:          products,
	}

	tx, err := s.shipmentRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.shipmentRepo.Create(ctx, tx, shipment); err != nil {
		if errors.Is(err, model.ErrDuplicateTrackingCode) {
			return nil, model.ErrDuplicateTrackingCode
		}
		s.logger.Error().Err(err).Msg("failed to create shipment")
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", shipment.ID).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	if notifyErr := s.gateway.NotifyCreated(ctx, shipment.ID, shipment.TrackingCode); notifyErr != nil {
		s.logger.Warn().Err(notifyErr).Int64("shipment_id", shipment.ID).Msg("carrier create notification failed")
	}

	s.logger.Info().
		Int64("shipment_id", shipment.ID).
		Str("tracking_code", shipment.TrackingCode).
		Str("status", string(shipment.Status)).
		Int("product_count", len(shipment.Products)).
		Msg("shipment created")

	return shipment, nil
}

// applyStatus sets the status on an in-memory shipment and stamps the
// actual delivery time on the first transition to DELIVERED.
func (s *shipmentService) applyStatus(shipment *model.Shipment, newStatus model.ShipmentStatus) error {
	if !s.policy.Allowed(shipment.Status, newStatus) {
		s.logger.Warn().
			Int64("shipment_id", shipment.ID).
			Str("from", string(shipment.Status)).
			Str("to", string(newStatus)).
			Msg("status transition denied by policy")
		return model.ErrTransitionDenied
	}

	shipment.Status = newStatus
	if newStatus == model.StatusDelivered && shipment.DeliveredAt == nil {
		delivered := s.now()
		shipment.DeliveredAt = &delivered
	}
	return nil
}

// ChangeStatus applies a status change and notifies the carrier exactly
// once when the stored status actually changed. A same-status call still
// persists but emits nothing.
func (s *shipmentService) ChangeStatus(ctx context.Context, id int64, newStatus model.ShipmentStatus) (*model.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to load shipment for status change")
		return nil, fmt.Errorf("failed to change status: %w", err)
	}
	if shipment == nil {
		return nil, model.ErrShipmentNotFound
	}

	oldStatus := shipment.Status
	if err := s.applyStatus(shipment, newStatus); err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to persist status change")
		return nil, fmt.Errorf("failed to change status: %w", err)
	}

	if newStatus != oldStatus {
		if notifyErr := s.gateway.NotifyStatusChanged(ctx, shipment.ID, newStatus); notifyErr != nil {
			s.logger.Warn().Err(notifyErr).Int64("shipment_id", id).Msg("carrier status notification failed")
		}
	}

	s.logger.Info().
		Int64("shipment_id", id).
		Str("from", string(oldStatus)).
		Str("to", string(newStatus)).
		Msg("shipment status changed")

	return shipment, nil
}

// Update merges non-nil patch fields into the stored shipment.
func (s *shipmentService) Update(ctx context.Context, id int64, patch *model.ShipmentPatch) (*model.Shipment, error) {
	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to load shipment for update")
		return nil, fmt.Errorf("failed to update shipment: %w", err)
	}
	if shipment == nil {
		return nil, model.ErrShipmentNotFound
	}

	oldStatus := shipment.Status

	if patch.Carrier != nil {
		shipment.Carrier = *patch.Carrier
	}
	if patch.CustomerName != nil {
		shipment.CustomerName = *patch.CustomerName
	}
	if patch.CustomerEmail != nil {
		shipment.CustomerEmail = *patch.CustomerEmail
	}
	if patch.CustomerPhone != nil {
		shipment.CustomerPhone = *patch.CustomerPhone
	}
	if patch.Address != nil {
		shipment.Address = *patch.Address
	}
	if patch.City != nil {
		shipment.City = *patch.City
	}
	if patch.Region != nil {
		shipment.Region = *patch.Region
	}
	if patch.Notes != nil {
		shipment.Notes = *patch.Notes
	}
	if patch.EstimatedDelivery != nil {
		shipment.EstimatedDelivery = patch.EstimatedDelivery
	}
	if patch.Status != nil {
		newStatus, err := model.ParseStatus(*patch.Status)
		if err != nil {
			return nil, err
		}
		if err := s.applyStatus(shipment, newStatus); err != nil {
			return nil, err
		}
	}

	if err := s.shipmentRepo.Update(ctx, shipment); err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to persist shipment update")
		return nil, fmt.Errorf("failed to update shipment: %w", err)
	}

	if shipment.Status != oldStatus {
		if notifyErr := s.gateway.NotifyStatusChanged(ctx, shipment.ID, shipment.Status); notifyErr != nil {
			s.logger.Warn().Err(notifyErr).Int64("shipment_id", id).Msg("carrier status notification failed")
		}
	}

	s.logger.Info().Int64("shipment_id", id).Msg("shipment updated")

	return shipment, nil
}

// Delete cancels the shipment with the carrier and removes it. Deleting
// an absent shipment succeeds silently and emits nothing.
func (s *shipmentService) Delete(ctx context.Context, id int64) error {
	shipment, err := s.shipmentRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to load shipment for deletion")
		return fmt.Errorf("failed to delete shipment: %w", err)
	}
	if shipment == nil {
		s.logger.Debug().Int64("shipment_id", id).Msg("delete of absent shipment is a no-op")
		return nil
	}

	if notifyErr := s.gateway.NotifyCanceled(ctx, shipment.ID); notifyErr != nil {
		s.logger.Warn().Err(notifyErr).Int64("shipment_id", id).Msg("carrier cancel notification failed")
	}

	if err := s.shipmentRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", id).Msg("failed to delete shipment")
		return fmt.Errorf("failed to delete shipment: %w", err)
	}

	s.logger.Info().Int64("shipment_id", id).Msg("shipment deleted")

	return nil
}

// AddProduct inserts a product into the shipment's set.
func (s *shipmentService) AddProduct(ctx context.Context, shipmentID, productID int64) (*model.Shipment, error) {
	if err := s.checkAssociationIDs(ctx, shipmentID, productID); err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.AddProduct(ctx, shipmentID, productID); err != nil {
		s.logger.Error().Err(err).
			Int64("shipment_id", shipmentID).
			Int64("product_id", productID).
			Msg("failed to add product to shipment")
		return nil, fmt.Errorf("failed to add product: %w", err)
	}

	s.logger.Info().
		Int64("shipment_id", shipmentID).
		Int64("product_id", productID).
		Msg("product added to shipment")

	return s.GetByID(ctx, shipmentID)
}

// RemoveProduct removes a product from the shipment's set.
func (s *shipmentService) RemoveProduct(ctx context.Context, shipmentID, productID int64) (*model.Shipment, error) {
	if err := s.checkAssociationIDs(ctx, shipmentID, productID); err != nil {
		return nil, err
	}

	if err := s.shipmentRepo.RemoveProduct(ctx, shipmentID, productID); err != nil {
		s.logger.Error().Err(err).
			Int64("shipment_id", shipmentID).
			Int64("product_id", productID).
			Msg("failed to remove product from shipment")
		return nil, fmt.Errorf("failed to remove product: %w", err)
	}

	s.logger.Info().
		Int64("shipment_id", shipmentID).
		Int64("product_id", productID).
		Msg("product removed from shipment")

	return s.GetByID(ctx, shipmentID)
}

// checkAssociationIDs verifies both sides of a membership mutation exist.
func (s *shipmentService) checkAssociationIDs(ctx context.Context, shipmentID, productID int64) error {
	shipmentExists, err := s.shipmentRepo.ExistsByID(ctx, shipmentID)
	if err != nil {
		return fmt.Errorf("failed to check shipment: %w", err)
	}
	if !shipmentExists {
		return model.ErrShipmentNotFound
	}

	productExists, err := s.productRepo.ExistsByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to check product: %w", err)
	}
	if !productExists {
		return model.ErrProductNotFound
	}

	return nil
}

// ListProducts returns the shipment's current product membership. An
// unknown shipment is reported as not found rather than as an empty set.
func (s *shipmentService) ListProducts(ctx context.Context, shipmentID int64) ([]model.Product, error) {
	exists, err := s.shipmentRepo.ExistsByID(ctx, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to check shipment: %w", err)
	}
	if !exists {
		return nil, model.ErrShipmentNotFound
	}

	products, err := s.shipmentRepo.ListProducts(ctx, shipmentID)
	if err != nil {
		s.logger.Error().Err(err).Int64("shipment_id", shipmentID).Msg("failed to list shipment products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// GetByStatus retrieves shipments in the given status.
func (s *shipmentService) GetByStatus(ctx context.Context, status model.ShipmentStatus) ([]model.Shipment, error) {
	shipments, err := s.shipmentRepo.GetByStatus(ctx, status)
	if err != nil {
		s.logger.Error().Err(err).Str("status", string(status)).Msg("failed to get shipments by status")
		return nil, fmt.Errorf("failed to get shipments: %w", err)
	}
	return shipments, nil
}

// GetByCarrier retrieves shipments handled by the given carrier.
func (s *shipmentService) GetByCarrier(ctx context.Context, carrierName string) ([]model.Shipment, error) {
	shipments, err := s.shipmentRepo.GetByCarrier(ctx, carrierName)
	if err != nil {
		s.logger.Error().Err(err).Str("carrier", carrierName).Msg("failed to get shipments by carrier")
		return nil, fmt.Errorf("failed to get shipments: %w", err)
	}
	return shipments, nil
}

// GetByCustomerEmail retrieves shipments for the given customer email.
func (s *shipmentService) GetByCustomerEmail(ctx context.Context, email string) ([]model.Shipment, error) {
	shipments, err := s.shipmentRepo.GetByCustomerEmail(ctx, email)
	if err != nil {
		s.logger.Error().Err(err).Str("email", email).Msg("failed to get shipments by customer email")
		return nil, fmt.Errorf("failed to get shipments: %w", err)
	}
	return shipments, nil
}

// GetByCity retrieves shipments destined for the given city.
func (s *shipmentService) GetByCity(ctx context.Context, city string) ([]model.Shipment, error) {
	shipments, err := s.shipmentRepo.GetByCity(ctx, city)
	if err != nil {
		s.logger.Error().Err(err).Str("city", city).Msg("failed to get shipments by city")
		return nil, fmt.Errorf("failed to get shipments: %w", err)
	}
	return shipments, nil
}

// GetByRegion retrieves shipments destined for the given region.
func (s *shipmentService) GetByRegion(ctx context.Context, region string) ([]model.Shipment, error) {
	shipments, err := s.shipmentRepo.GetByRegion(ctx, region)
	if err != nil {
		s.logger.Error().Err(err).Str("region", region).Msg("failed to get shipments by region")
		return nil, fmt.Errorf("failed to get shipments: %w", err)
	}
	return shipments, nil
}

// GetByDateRange retrieves shipments shipped within [from, to].
func (s *shipmentService) GetByDateRange(ctx context.Context, from, to time.Time) ([]model.Shipment, error) {
	if from.After(to) {
		return nil, model.ErrInvalidDateRange
	}

	shipments, err := s.shipmentRepo.GetByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error().Err(err).
			Time("from", from).
			Time("to", to).
			Msg("failed to get shipments by date range")
		return nil, fmt.Errorf("failed to get shipments: %w", err)
	}
	return shipments, nil
}

// countDistinct counts unique IDs in a request slice so duplicate
// references don't trip the existence check.
func countDistinct(ids []int64) int {
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
