package router

import (
	"net/http"

	"shiptrack/internal/handler"
	"shiptrack/internal/metrics"
	"shiptrack/internal/middleware"

	"github.com/rs/zerolog"
)

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	shipmentHandler *handler.ShipmentHandler,
	reportHandler *handler.ReportHandler,
	httpMetrics *metrics.HTTPMetrics,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.Handle("GET /metrics", httpMetrics.Handler())

	// Product routes
	mux.HandleFunc("GET /api/products", productHandler.GetAll)
	mux.HandleFunc("POST /api/products", productHandler.Create)
	mux.HandleFunc("GET /api/products/low-stock", productHandler.GetLowStock)
	mux.HandleFunc("GET /api/products/{id}", productHandler.GetByID)
	mux.HandleFunc("PUT /api/products/{id}", productHandler.Update)
	mux.HandleFunc("DELETE /api/products/{id}", productHandler.Delete)

	// Shipment routes. The literal segments (tracking, status, ...) are
	// more specific than the {id} wildcard, so the mux resolves them first.
	mux.HandleFunc("GET /api/shipments", shipmentHandler.GetAll)
	mux.HandleFunc("POST /api/shipments", shipmentHandler.Create)
	mux.HandleFunc("GET /api/shipments/tracking/{code}", shipmentHandler.GetByTrackingCode)
	mux.HandleFunc("GET /api/shipments/status/{status}", shipmentHandler.GetByStatus)
	mux.HandleFunc("GET /api/shipments/carrier/{carrier}", shipmentHandler.GetByCarrier)
	mux.HandleFunc("GET /api/shipments/customer/{email}", shipmentHandler.GetByCustomerEmail)
	mux.HandleFunc("GET /api/shipments/city/{city}", shipmentHandler.GetByCity)
	mux.HandleFunc("GET /api/shipments/region/{region}", shipmentHandler.GetByRegion)
	mux.HandleFunc("GET /api/shipments/dates", shipmentHandler.GetByDateRange)
	mux.HandleFunc("GET /api/shipments/{id}", shipmentHandler.GetByID)
	mux.HandleFunc("PATCH /api/shipments/{id}", shipmentHandler.Update)
	mux.HandleFunc("DELETE /api/shipments/{id}", shipmentHandler.Delete)
	mux.HandleFunc("PUT /api/shipments/{id}/status/{status}", shipmentHandler.ChangeStatus)
	mux.HandleFunc("GET /api/shipments/{id}/products", shipmentHandler.ListProducts)
	mux.HandleFunc("POST /api/shipments/{id}/products/{productID}", shipmentHandler.AddProduct)
	mux.HandleFunc("DELETE /api/shipments/{id}/products/{productID}", shipmentHandler.RemoveProduct)

	// Report routes
	mux.HandleFunc("GET /api/reports", reportHandler.GetAll)
	mux.HandleFunc("POST /api/reports", reportHandler.Create)
	mux.HandleFunc("GET /api/reports/{id}", reportHandler.GetByID)
	mux.HandleFunc("DELETE /api/reports/{id}", reportHandler.Delete)
	mux.HandleFunc("GET /api/reports/{id}/render", reportHandler.Render)

	// Apply middleware in order: Recovery -> Logging -> Metrics -> CORS -> APIKeyAuth
	var h http.Handler = mux
	h = middleware.APIKeyAuth(apiKey, logger)(h)
	h = middleware.CORS(h)
	h = middleware.Metrics(httpMetrics)(h)
	h = httpMetrics.TrackInFlight(h)
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)

	return h
}
