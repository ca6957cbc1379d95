package carrier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"shiptrack/internal/model"

	"github.com/rs/zerolog"
)

// httpGateway posts carrier notifications to an external HTTP endpoint.
type httpGateway struct {
	endpoint string
	token    string
	client   *http.Client
	logger   zerolog.Logger
}

// NewHTTPGateway creates a gateway that calls the carrier's REST API.
func NewHTTPGateway(endpoint, token string, logger zerolog.Logger) Gateway {
	return &httpGateway{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: 10 * time.Second},
		logger:   logger.With().Str("gateway", "http").Logger(),
	}
}

func (g *httpGateway) post(ctx context.Context, event shipmentEvent) error {
	event.OccurredAt = time.Now()

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal carrier event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build carrier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Error().Err(err).
			Str("event", event.Event).
			Int64("shipment_id", event.ShipmentID).
			Msg("carrier API call failed")
		return fmt.Errorf("carrier API call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		g.logger.Error().
			Int("status", resp.StatusCode).
			Str("event", event.Event).
			Int64("shipment_id", event.ShipmentID).
			Msg("carrier API rejected event")
		return fmt.Errorf("carrier API returned status %d", resp.StatusCode)
	}

	g.logger.Debug().
		Str("event", event.Event).
		Int64("shipment_id", event.ShipmentID).
		Msg("carrier event delivered")

	return nil
}

func (g *httpGateway) NotifyCreated(ctx context.Context, shipmentID int64, trackingCode string) error {
	return g.post(ctx, shipmentEvent{
		Event:        EventCreated,
		ShipmentID:   shipmentID,
		TrackingCode: trackingCode,
	})
}

func (g *httpGateway) NotifyStatusChanged(ctx context.Context, shipmentID int64, status model.ShipmentStatus) error {
	return g.post(ctx, shipmentEvent{
		Event:      EventStatusChanged,
		ShipmentID: shipmentID,
		Status:     string(status),
	})
}

func (g *httpGateway) NotifyCanceled(ctx context.Context, shipmentID int64) error {
	return g.post(ctx, shipmentEvent{
		Event:      EventCanceled,
		ShipmentID: shipmentID,
	})
}
