// Package carrier is the outbound integration point to the shipping
// provider. Services call its hooks synchronously; failures are
// reported as errors but never fail the originating operation.
package carrier

import (
	"context"

	"shiptrack/internal/model"

	"github.com/rs/zerolog"
)

// Gateway notifies the carrier about shipment lifecycle events.
type Gateway interface {
	// NotifyCreated reports a newly registered shipment.
	NotifyCreated(ctx context.Context, shipmentID int64, trackingCode string) error

	// NotifyStatusChanged reports an effective status change.
	NotifyStatusChanged(ctx context.Context, shipmentID int64, status model.ShipmentStatus) error

	// NotifyCanceled reports a shipment withdrawn before removal.
	NotifyCanceled(ctx context.Context, shipmentID int64) error
}

// logGateway writes notifications to the log only. It stands in for a
// real carrier integration in local and test environments.
type logGateway struct {
	logger zerolog.Logger
}

// NewLogGateway creates a gateway that records notifications without
// calling out anywhere.
func NewLogGateway(logger zerolog.Logger) Gateway {
	return &logGateway{
		logger: logger.With().Str("gateway", "log").Logger(),
	}
}

func (g *logGateway) NotifyCreated(_ context.Context, shipmentID int64, trackingCode string) error {
	g.logger.Info().
		Int64("shipment_id", shipmentID).
		Str("tracking_code", trackingCode).
		Msg("carrier notified of new shipment")
	return nil
}

func (g *logGateway) NotifyStatusChanged(_ context.Context, shipmentID int64, status model.ShipmentStatus) error {
	g.logger.Info().
		Int64("shipment_id", shipmentID).
		Str("status", string(status)).
		Msg("carrier notified of status change")
	return nil
}

func (g *logGateway) NotifyCanceled(_ context.Context, shipmentID int64) error {
	g.logger.Info().
		Int64("shipment_id", shipmentID).
		Msg("carrier notified of cancellation")
	return nil
}
