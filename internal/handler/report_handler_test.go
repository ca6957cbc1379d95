package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shiptrack/internal/model"
	"shiptrack/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// newReportHandler wires the handler to the real service layer; the
// repository is never reached by the validation paths under test.
func newReportHandler() *ReportHandler {
	svc := service.NewReportService(nil, zerolog.Nop())
	return NewReportHandler(svc, zerolog.Nop())
}

func TestReportHandler_Create_UnknownKind(t *testing.T) {
	h := newReportHandler()

	body := `{"kind":"BOGUS"}`
	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader(body))
	w := httptest.NewRecorder()

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeInvalidKind, decodeError(t, w).Error)
}

func TestReportHandler_Create_InvalidJSON(t *testing.T) {
	h := newReportHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/reports", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	h.Create(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeInvalidJSON, decodeError(t, w).Error)
}

func TestReportHandler_GetAll_UnknownKindFilter(t *testing.T) {
	h := newReportHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/reports?kind=weather", nil)
	w := httptest.NewRecorder()

	h.GetAll(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, model.ErrCodeInvalidKind, decodeError(t, w).Error)
}
