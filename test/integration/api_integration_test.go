package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"shiptrack/internal/carrier"
	"shiptrack/internal/handler"
	"shiptrack/internal/metrics"
	"shiptrack/internal/model"
	"shiptrack/internal/policy"
	"shiptrack/internal/repository"
	"shiptrack/internal/router"
	"shiptrack/internal/service"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "integration-test-key"

// recordingGateway counts carrier notifications per event type.
type recordingGateway struct {
	mu            sync.Mutex
	created       int
	statusChanges []model.ShipmentStatus
	canceled      int
}

func (g *recordingGateway) NotifyCreated(_ context.Context, _ int64, _ string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created++
	return nil
}

func (g *recordingGateway) NotifyStatusChanged(_ context.Context, _ int64, status model.ShipmentStatus) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.statusChanges = append(g.statusChanges, status)
	return nil
}

func (g *recordingGateway) NotifyCanceled(_ context.Context, _ int64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.canceled++
	return nil
}

var _ carrier.Gateway = (*recordingGateway)(nil)

// setupAPI wires the full stack against the test database and returns
// the server plus the recording gateway behind it.
func setupAPI(t *testing.T, testDB *TestDB) (*httptest.Server, *recordingGateway) {
	t.Helper()

	logger := zerolog.Nop()
	gateway := &recordingGateway{}

	productRepo := repository.NewProductRepository(testDB.Pool, logger)
	shipmentRepo := repository.NewShipmentRepository(testDB.Pool, logger)
	reportRepo := repository.NewReportRepository(testDB.Pool, logger)

	productService := service.NewProductService(productRepo, logger)
	shipmentService := service.NewShipmentService(shipmentRepo, productRepo, gateway, policy.AllowAll(), logger)
	reportService := service.NewReportService(reportRepo, logger)

	productHandler := handler.NewProductHandler(productService, logger)
	shipmentHandler := handler.NewShipmentHandler(shipmentService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	mux := router.New(productHandler, shipmentHandler, reportHandler, metrics.NewHTTPMetrics(), testAPIKey, logger)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return server, gateway
}

func doRequest(t *testing.T, server *httptest.Server, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", testAPIKey)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, data
}

func TestAPI_ShipmentLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, gateway := setupAPI(t, testDB)

	CleanupDB(t, testDB.Pool)
	ids := SeedProducts(t, testDB.Pool)

	// Create a shipment holding the first product.
	resp, body := doRequest(t, server, http.MethodPost, "/api/shipments", map[string]any{
		"carrier":       "Chilexpress",
		"customerName":  "María González",
		"customerEmail": "maria@email.cl",
		"address":       "Av. Providencia 1234",
		"city":          "Santiago",
		"productIds":    []int64{ids[0]},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		model.Shipment
		Links map[string]handler.Link `json:"_links"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.TrackingCode)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Contains(t, created.Links, "mark-delivered")
	assert.Equal(t, 1, gateway.created)

	shipmentPath := fmt.Sprintf("/api/shipments/%d", created.ID)

	// Move it to IN_TRANSIT, then deliver it.
	resp, body = doRequest(t, server, http.MethodPut, shipmentPath+"/status/IN_TRANSIT", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = doRequest(t, server, http.MethodPut, shipmentPath+"/status/DELIVERED", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var delivered struct {
		model.Shipment
		Links map[string]handler.Link `json:"_links"`
	}
	require.NoError(t, json.Unmarshal(body, &delivered))
	require.NotNil(t, delivered.DeliveredAt)
	assert.NotContains(t, delivered.Links, "cancel")

	// Re-applying the same status persists but must not notify again.
	resp, _ = doRequest(t, server, http.MethodPut, shipmentPath+"/status/DELIVERED", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, []model.ShipmentStatus{model.StatusInTransit, model.StatusDelivered}, gateway.statusChanges)

	// Membership changes behave as a set.
	resp, _ = doRequest(t, server, http.MethodPost, fmt.Sprintf("%s/products/%d", shipmentPath, ids[1]), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = doRequest(t, server, http.MethodPost, fmt.Sprintf("%s/products/%d", shipmentPath, ids[1]), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doRequest(t, server, http.MethodGet, shipmentPath+"/products", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var products []model.Product
	require.NoError(t, json.Unmarshal(body, &products))
	assert.Len(t, products, 2)

	resp, _ = doRequest(t, server, http.MethodDelete, fmt.Sprintf("%s/products/%d", shipmentPath, ids[1]), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Unknown product in a membership call is rejected before any write.
	resp, body = doRequest(t, server, http.MethodPost, shipmentPath+"/products/999999", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, model.ErrCodeProductNotFound, errResp.Error)

	// Cancellation notifies the carrier, then the row disappears.
	resp, _ = doRequest(t, server, http.MethodDelete, shipmentPath, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, gateway.canceled)

	resp, _ = doRequest(t, server, http.MethodGet, shipmentPath, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// A second delete is a no-op and does not notify again.
	resp, _ = doRequest(t, server, http.MethodDelete, shipmentPath, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, gateway.canceled)
}

func TestAPI_DuplicateTrackingCodeConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupAPI(t, testDB)
	CleanupDB(t, testDB.Pool)

	payload := map[string]any{
		"carrier":       "Starken",
		"customerName":  "Ana Martínez",
		"customerEmail": "ana@email.cl",
		"address":       "Av. O'Higgins 890",
		"trackingCode":  "ST-FIXED",
	}

	resp, _ := doRequest(t, server, http.MethodPost, "/api/shipments", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doRequest(t, server, http.MethodPost, "/api/shipments", payload)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errResp model.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &errResp))
	assert.Equal(t, model.ErrCodeDuplicateTracking, errResp.Error)
}

func TestAPI_QueryFacades(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupAPI(t, testDB)
	CleanupDB(t, testDB.Pool)

	resp, _ := doRequest(t, server, http.MethodPost, "/api/shipments", map[string]any{
		"carrier":       "Chilexpress",
		"customerName":  "María González",
		"customerEmail": "maria@email.cl",
		"address":       "Av. Providencia 1234",
		"city":          "Santiago",
		"region":        "Región Metropolitana",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, "/api/shipments", map[string]any{
		"carrier":       "Starken",
		"status":        "IN_TRANSIT",
		"customerName":  "Carlos Rodríguez",
		"customerEmail": "carlos@email.cl",
		"address":       "Calle Cochrane 567",
		"city":          "Valparaíso",
		"region":        "Región de Valparaíso",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	checks := []struct {
		path string
		want int
	}{
		{"/api/shipments", 2},
		{"/api/shipments/status/IN_TRANSIT", 1},
		{"/api/shipments/status/pending", 1},
		{"/api/shipments/carrier/Starken", 1},
		{"/api/shipments/customer/maria@email.cl", 1},
		{"/api/shipments/city/Valparaíso", 1},
		{"/api/shipments/region/Región Metropolitana", 1},
	}

	for _, c := range checks {
		resp, body := doRequest(t, server, http.MethodGet, c.path, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode, c.path)

		var shipments []json.RawMessage
		require.NoError(t, json.Unmarshal(body, &shipments), c.path)
		assert.Len(t, shipments, c.want, c.path)
	}
}

func TestAPI_Reports(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupAPI(t, testDB)
	CleanupDB(t, testDB.Pool)

	resp, body := doRequest(t, server, http.MethodPost, "/api/reports", map[string]any{
		"kind":       "SALES",
		"totalSales": 137000,
		"orderCount": 5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var report model.Report
	require.NoError(t, json.Unmarshal(body, &report))
	require.NotZero(t, report.ID)

	resp, body = doRequest(t, server, http.MethodGet, fmt.Sprintf("/api/reports/%d/render", report.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Sales Report")
	assert.Contains(t, string(body), "Orders: 5")

	resp, _ = doRequest(t, server, http.MethodDelete, fmt.Sprintf("/api/reports/%d", report.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodGet, fmt.Sprintf("/api/reports/%d", report.ID), nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAPI_AuthRequired(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupAPI(t, testDB)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/shipments", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Health and metrics stay open.
	for _, path := range []string{"/health", "/metrics"} {
		resp, err := http.Get(server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
