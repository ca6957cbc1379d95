package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"shiptrack/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Headers are already out; nothing useful left to send.
		return
	}
}

// writeError writes an error response with the given status and code.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Warn().Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// statusForError maps a service error to an HTTP status code.
func statusForError(err error) (int, string) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, model.ErrCodeInternalError
	}

	switch domainErr.Code {
	case model.ErrCodeShipmentNotFound, model.ErrCodeProductNotFound, model.ErrCodeReportNotFound:
		return http.StatusNotFound, domainErr.Code
	case model.ErrCodeDuplicateTracking, model.ErrCodeTransitionDenied:
		return http.StatusConflict, domainErr.Code
	default:
		return http.StatusBadRequest, domainErr.Code
	}
}

// respondError translates a service error into an HTTP error response.
func respondError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	status, code := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		logger.Error().Err(err).Msg("internal error")
		message = "internal server error"
	}
	writeError(w, status, code, message, logger)
}

// pathID parses the {id} wildcard of the matched route.
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID %q", raw)
	}
	return id, nil
}

// Link is a hypermedia reference on a resource representation.
type Link struct {
	Href   string `json:"href"`
	Method string `json:"method,omitempty"`
}

// shipmentResource decorates a shipment with its available actions.
type shipmentResource struct {
	*model.Shipment
	Links map[string]Link `json:"_links"`
}

// newShipmentResource builds the representation served for a shipment.
// Mutating actions are advertised only while the status allows them.
func newShipmentResource(s *model.Shipment) shipmentResource {
	self := fmt.Sprintf("/api/shipments/%d", s.ID)
	links := map[string]Link{
		"self":     {Href: self},
		"products": {Href: self + "/products"},
		"tracking": {Href: "/api/shipments/tracking/" + s.TrackingCode},
	}

	if s.Status.Mutable() {
		links["update"] = Link{Href: self, Method: http.MethodPatch}
		links["mark-delivered"] = Link{Href: self + "/status/DELIVERED", Method: http.MethodPut}
		links["cancel"] = Link{Href: self, Method: http.MethodDelete}
		links["add-product"] = Link{Href: self + "/products/{productId}", Method: http.MethodPost}
	}

	return shipmentResource{Shipment: s, Links: links}
}

func newShipmentResources(shipments []model.Shipment) []shipmentResource {
	resources := make([]shipmentResource, 0, len(shipments))
	for i := range shipments {
		resources = append(resources, newShipmentResource(&shipments[i]))
	}
	return resources
}
