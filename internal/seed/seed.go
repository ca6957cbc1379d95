package seed

import (
	"context"
	"fmt"
	"time"

	"shiptrack/internal/model"
	"shiptrack/internal/repository"

	"github.com/rs/zerolog"
)

// Seeder loads demo fixtures on an empty database. It writes through
// the repositories directly so no carrier notifications fire.
type Seeder struct {
	productRepo  repository.ProductRepository
	shipmentRepo repository.ShipmentRepository
	logger       zerolog.Logger
}

// New creates a seeder.
func New(productRepo repository.ProductRepository, shipmentRepo repository.ShipmentRepository, logger zerolog.Logger) *Seeder {
	return &Seeder{
		productRepo:  productRepo,
		shipmentRepo: shipmentRepo,
		logger:       logger.With().Str("component", "seed").Logger(),
	}
}

// Run inserts the fixtures unless data already exists.
func (s *Seeder) Run(ctx context.Context) error {
	existing, err := s.productRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to check existing products: %w", err)
	}
	if len(existing) > 0 {
		s.logger.Info().Msg("database already seeded, skipping")
		return nil
	}

	products, err := s.seedProducts(ctx)
	if err != nil {
		return err
	}

	if err := s.seedShipments(ctx, products); err != nil {
		return err
	}

	s.logger.Info().Int("products", len(products)).Msg("demo data loaded")

	return nil
}

func (s *Seeder) seedProducts(ctx context.Context) ([]model.Product, error) {
	fixtures := []model.Product{
		{Name: "Perfume Andino", Description: "Lavender and eucalyptus notes inspired by the Andes", Brand: "Perfulandia", Category: "Unisex", Size: "100ml", Price: 45000, Stock: 50},
		{Name: "Esencia Patagónica", Description: "Cedar and mint notes from Patagonia", Brand: "Perfulandia", Category: "Men", Size: "75ml", Price: 52000, Stock: 30},
		{Name: "Brisa Valparaíso", Description: "Marine fragrance inspired by the port of Valparaíso", Brand: "Perfulandia", Category: "Women", Size: "50ml", Price: 38000, Stock: 75},
		{Name: "Aroma Atacama", Description: "Dry and spicy notes from the Atacama desert", Brand: "Perfulandia", Category: "Unisex", Size: "100ml", Price: 48000, Stock: 40},
		{Name: "Fragancia Chiloé", Description: "Wood and sea notes from Chiloé island", Brand: "Perfulandia", Category: "Men", Size: "75ml", Price: 42000, Stock: 60},
		{Name: "Perfume Santiago", Description: "Elegant urban fragrance", Brand: "Perfulandia", Category: "Women", Size: "100ml", Price: 55000, Stock: 25},
		{Name: "Esencia Cordillera", Description: "Mountain range aromas", Brand: "Perfulandia", Category: "Unisex", Size: "50ml", Price: 46000, Stock: 35},
		{Name: "Aroma Viña del Mar", Description: "Coastal fragrance with floral and marine notes", Brand: "Perfulandia", Category: "Women", Size: "75ml", Price: 41000, Stock: 55},
		{Name: "Perfume Temuco", Description: "Pine and earth notes from La Araucanía", Brand: "Perfulandia", Category: "Men", Size: "100ml", Price: 44000, Stock: 45},
		{Name: "Brisa Antofagasta", Description: "Mineral and saline notes from the north", Brand: "Perfulandia", Category: "Unisex", Size: "50ml", Price: 39000, Stock: 65},
	}

	created := make([]model.Product, 0, len(fixtures))
	for i := range fixtures {
		p, err := s.productRepo.Create(ctx, &fixtures[i])
		if err != nil {
			return nil, fmt.Errorf("failed to seed product %q: %w", fixtures[i].Name, err)
		}
		created = append(created, *p)
	}

	return created, nil
}

func (s *Seeder) seedShipments(ctx context.Context, products []model.Product) error {
	now := time.Now()
	day := 24 * time.Hour

	plusTwo := now.Add(2 * day)
	plusOne := now.Add(1 * day)
	minusTwo := now.Add(-2 * day)
	minusOne := now.Add(-1 * day)

	fixtures := []model.Shipment{
		{
			TrackingCode:      "ST-DEMO-0001",
			Carrier:           "Chilexpress",
			Status:            model.StatusInTransit,
			CustomerName:      "María González",
			CustomerEmail:     "maria.gonzalez@email.cl",
			CustomerPhone:     "+56912345678",
			Address:           "Av. Providencia 1234, Providencia",
			City:              "Santiago",
			Region:            "Región Metropolitana",
			Notes:             "Deliver during office hours",
			ShippedAt:         now.Add(-1 * day),
			EstimatedDelivery: &plusTwo,
			Products:          []model.Product{products[0], products[2]},
		},
		{
			TrackingCode:      "ST-DEMO-0002",
			Carrier:           "Correos de Chile",
			Status:            model.StatusOutForDelivery,
			CustomerName:      "Carlos Rodríguez",
			CustomerEmail:     "carlos.rodriguez@email.cl",
			CustomerPhone:     "+56987654321",
			Address:           "Calle Almirante Cochrane 567, Valparaíso",
			City:              "Valparaíso",
			Region:            "Región de Valparaíso",
			Notes:             "Contact customer before delivery",
			ShippedAt:         now.Add(-2 * day),
			EstimatedDelivery: &plusOne,
			Products:          []model.Product{products[1]},
		},
		{
			TrackingCode:  "ST-DEMO-0003",
			Carrier:       "Starken",
			Status:        model.StatusPending,
			CustomerName:  "Ana Martínez",
			CustomerEmail: "ana.martinez@email.cl",
			CustomerPhone: "+56956789012",
			Address:       "Av. O'Higgins 890, Concepción",
			City:          "Concepción",
			Region:        "Región del Biobío",
			Notes:         "Order being prepared",
			ShippedAt:     now,
			Products:      []model.Product{products[3], products[4]},
		},
		{
			TrackingCode:      "ST-DEMO-0004",
			Carrier:           "Chilexpress",
			Status:            model.StatusDelivered,
			CustomerName:      "Luis Fernández",
			CustomerEmail:     "luis.fernandez@email.cl",
			CustomerPhone:     "+56923456789",
			Address:           "Av. Francisco de Aguirre 123, La Serena",
			City:              "La Serena",
			Region:            "Región de Coquimbo",
			Notes:             "Delivered successfully",
			ShippedAt:         now.Add(-5 * day),
			EstimatedDelivery: &minusTwo,
			DeliveredAt:       &minusOne,
			Products:          []model.Product{products[5]},
		},
		{
			TrackingCode:  "ST-DEMO-0005",
			Carrier:       "Correos de Chile",
			Status:        model.StatusPending,
			CustomerName:  "Patricia Silva",
			CustomerEmail: "patricia.silva@email.cl",
			CustomerPhone: "+56934567890",
			Address:       "Av. Alemania 456, Temuco",
			City:          "Temuco",
			Region:        "Región de La Araucanía",
			Notes:         "Preparing for dispatch",
			ShippedAt:     now,
			Products:      []model.Product{products[8], products[7]},
		},
	}

	for i := range fixtures {
		tx, err := s.shipmentRepo.BeginTx(ctx)
		if err != nil {
			return fmt.Errorf("failed to begin seed transaction: %w", err)
		}

		if err := s.shipmentRepo.Create(ctx, tx, &fixtures[i]); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to seed shipment %q: %w", fixtures[i].TrackingCode, err)
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("failed to commit seed transaction: %w", err)
		}
	}

	return nil
}
