package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"shiptrack/internal/model"
	"shiptrack/internal/service"

	"github.com/rs/zerolog"
)

// ShipmentHandler handles shipment-related HTTP requests.
type ShipmentHandler struct {
	service service.ShipmentService
	logger  zerolog.Logger
}

// NewShipmentHandler creates a new shipment handler.
func NewShipmentHandler(service service.ShipmentService, logger zerolog.Logger) *ShipmentHandler {
	return &ShipmentHandler{
		service: service,
		logger:  logger.With().Str("handler", "shipment").Logger(),
	}
}

// GetAll handles GET /api/shipments requests.
func (h *ShipmentHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.service.GetAll(r.Context())
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResources(shipments))
}

// GetByID handles GET /api/shipments/{id} requests.
func (h *ShipmentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid shipment ID", h.logger)
		return
	}

	shipment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResource(shipment))
}

// GetByTrackingCode handles GET /api/shipments/tracking/{code} requests.
func (h *ShipmentHandler) GetByTrackingCode(w http.ResponseWriter, r *http.Request) {
	code := r.PathValue("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "tracking code is required", h.logger)
		return
	}

	shipment, err := h.service.GetByTrackingCode(r.Context(), code)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResource(shipment))
}

// Create handles POST /api/shipments requests.
func (h *ShipmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	shipment, err := h.service.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	w.Header().Set("Location", "/api/shipments/"+strconv.FormatInt(shipment.ID, 10))
	writeJSON(w, http.StatusCreated, newShipmentResource(shipment))
}

// Update handles PATCH /api/shipments/{id} requests.
func (h *ShipmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid shipment ID", h.logger)
		return
	}

	var patch model.ShipmentPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	shipment, err := h.service.Update(r.Context(), id, &patch)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResource(shipment))
}

// ChangeStatus handles PUT /api/shipments/{id}/status/{status} requests.
func (h *ShipmentHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid shipment ID", h.logger)
		return
	}

	status, err := model.ParseStatus(r.PathValue("status"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	shipment, err := h.service.ChangeStatus(r.Context(), id, status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResource(shipment))
}

// Delete handles DELETE /api/shipments/{id} requests.
func (h *ShipmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid shipment ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListProducts handles GET /api/shipments/{id}/products requests.
func (h *ShipmentHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid shipment ID", h.logger)
		return
	}

	products, err := h.service.ListProducts(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// AddProduct handles POST /api/shipments/{id}/products/{productID} requests.
func (h *ShipmentHandler) AddProduct(w http.ResponseWriter, r *http.Request) {
	shipmentID, productID, ok := h.membershipIDs(w, r)
	if !ok {
		return
	}

	shipment, err := h.service.AddProduct(r.Context(), shipmentID, productID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResource(shipment))
}

// RemoveProduct handles DELETE /api/shipments/{id}/products/{productID} requests.
func (h *ShipmentHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	shipmentID, productID, ok := h.membershipIDs(w, r)
	if !ok {
		return
	}

	shipment, err := h.service.RemoveProduct(r.Context(), shipmentID, productID)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResource(shipment))
}

// membershipIDs parses the shipment and product IDs of an association
// route, writing the error response itself when either is malformed.
func (h *ShipmentHandler) membershipIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	shipmentID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid shipment ID", h.logger)
		return 0, 0, false
	}

	productID, err := strconv.ParseInt(r.PathValue("productID"), 10, 64)
	if err != nil || productID <= 0 {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid product ID", h.logger)
		return 0, 0, false
	}

	return shipmentID, productID, true
}

// GetByStatus handles GET /api/shipments/status/{status} requests.
func (h *ShipmentHandler) GetByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := model.ParseStatus(r.PathValue("status"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	shipments, err := h.service.GetByStatus(r.Context(), status)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResources(shipments))
}

// GetByCarrier handles GET /api/shipments/carrier/{carrier} requests.
func (h *ShipmentHandler) GetByCarrier(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.service.GetByCarrier(r.Context(), r.PathValue("carrier"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResources(shipments))
}

// GetByCustomerEmail handles GET /api/shipments/customer/{email} requests.
func (h *ShipmentHandler) GetByCustomerEmail(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.service.GetByCustomerEmail(r.Context(), r.PathValue("email"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResources(shipments))
}

// GetByCity handles GET /api/shipments/city/{city} requests.
func (h *ShipmentHandler) GetByCity(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.service.GetByCity(r.Context(), r.PathValue("city"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResources(shipments))
}

// GetByRegion handles GET /api/shipments/region/{region} requests.
func (h *ShipmentHandler) GetByRegion(w http.ResponseWriter, r *http.Request) {
	shipments, err := h.service.GetByRegion(r.Context(), r.PathValue("region"))
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResources(shipments))
}

// GetByDateRange handles GET /api/shipments/dates?from=&to= requests.
// Bounds accept RFC 3339 timestamps or plain dates.
func (h *ShipmentHandler) GetByDateRange(w http.ResponseWriter, r *http.Request) {
	from, err := parseTime(r.URL.Query().Get("from"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidDateRange, "invalid 'from' date", h.logger)
		return
	}

	to, err := parseTime(r.URL.Query().Get("to"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidDateRange, "invalid 'to' date", h.logger)
		return
	}

	shipments, err := h.service.GetByDateRange(r.Context(), from, to)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, newShipmentResources(shipments))
}

// parseTime accepts RFC 3339 or a bare date. A bare date used as the
// upper bound is extended to the end of that day so the range stays
// inclusive.
func parseTime(s string, upperBound bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	if upperBound {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}
