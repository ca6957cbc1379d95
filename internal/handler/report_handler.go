package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"shiptrack/internal/model"
	"shiptrack/internal/service"

	"github.com/rs/zerolog"
)

// ReportHandler handles report-related HTTP requests.
type ReportHandler struct {
	service service.ReportService
	logger  zerolog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service service.ReportService, logger zerolog.Logger) *ReportHandler {
	return &ReportHandler{
		service: service,
		logger:  logger.With().Str("handler", "report").Logger(),
	}
}

// GetAll handles GET /api/reports requests. A kind query parameter
// narrows the result to one variant.
func (h *ReportHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	var (
		reports []model.Report
		err     error
	)
	if raw := r.URL.Query().Get("kind"); raw != "" {
		kind, parseErr := model.ParseReportKind(raw)
		if parseErr != nil {
			respondError(w, parseErr, h.logger)
			return
		}
		reports, err = h.service.GetByKind(r.Context(), kind)
	} else {
		reports, err = h.service.GetAll(r.Context())
	}

	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, reports)
}

// GetByID handles GET /api/reports/{id} requests.
func (h *ReportHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid report ID", h.logger)
		return
	}

	report, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// Create handles POST /api/reports requests.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	report, err := h.service.Create(r.Context(), &req)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	w.Header().Set("Location", "/api/reports/"+strconv.FormatInt(report.ID, 10))
	writeJSON(w, http.StatusCreated, report)
}

// Delete handles DELETE /api/reports/{id} requests.
func (h *ReportHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid report ID", h.logger)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		respondError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Render handles GET /api/reports/{id}/render requests, returning the
// report's textual form.
func (h *ReportHandler) Render(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid report ID", h.logger)
		return
	}

	text, err := h.service.Render(r.Context(), id)
	if err != nil {
		respondError(w, err, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}
