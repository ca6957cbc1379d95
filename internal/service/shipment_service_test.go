package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"shiptrack/internal/model"
	"shiptrack/internal/policy"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockShipmentRepository is a mock implementation of ShipmentRepository.
type MockShipmentRepository struct {
	mock.Mock
}

func (m *MockShipmentRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if tx, ok := args.Get(0).(pgx.Tx); ok {
		return tx, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShipmentRepository) Create(ctx context.Context, tx pgx.Tx, shipment *model.Shipment) error {
	args := m.Called(ctx, tx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) GetByID(ctx context.Context, id int64) (*model.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByTrackingCode(ctx context.Context, code string) (*model.Shipment, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetAll(ctx context.Context) ([]model.Shipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) ExistsByID(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockShipmentRepository) Update(ctx context.Context, shipment *model.Shipment) error {
	args := m.Called(ctx, shipment)
	return args.Error(0)
}

func (m *MockShipmentRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockShipmentRepository) AddProduct(ctx context.Context, shipmentID, productID int64) error {
	args := m.Called(ctx, shipmentID, productID)
	return args.Error(0)
}

func (m *MockShipmentRepository) RemoveProduct(ctx context.Context, shipmentID, productID int64) error {
	args := m.Called(ctx, shipmentID, productID)
	return args.Error(0)
}

func (m *MockShipmentRepository) ListProducts(ctx context.Context, shipmentID int64) ([]model.Product, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockShipmentRepository) GetByStatus(ctx context.Context, status model.ShipmentStatus) ([]model.Shipment, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByCarrier(ctx context.Context, carrier string) ([]model.Shipment, error) {
	args := m.Called(ctx, carrier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByCustomerEmail(ctx context.Context, email string) ([]model.Shipment, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByCity(ctx context.Context, city string) ([]model.Shipment, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByRegion(ctx context.Context, region string) ([]model.Shipment, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetByDateRange(ctx context.Context, from, to time.Time) ([]model.Shipment, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Shipment), args.Error(1)
}

// MockGateway is a mock implementation of carrier.Gateway.
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) NotifyCreated(ctx context.Context, shipmentID int64, trackingCode string) error {
	args := m.Called(ctx, shipmentID, trackingCode)
	return args.Error(0)
}

func (m *MockGateway) NotifyStatusChanged(ctx context.Context, shipmentID int64, status model.ShipmentStatus) error {
	args := m.Called(ctx, shipmentID, status)
	return args.Error(0)
}

func (m *MockGateway) NotifyCanceled(ctx context.Context, shipmentID int64) error {
	args := m.Called(ctx, shipmentID)
	return args.Error(0)
}

// MockTx is a minimal mock implementation of pgx.Tx for testing.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTx) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Stub methods to satisfy pgx.Tx interface - these are not used in our tests
func (m *MockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, nil }
func (m *MockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (m *MockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (m *MockTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (m *MockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (m *MockTx) Exec(ctx context.Context, sql string, arguments ...any) (commandTag pgconn.CommandTag, err error) {
	return
}
func (m *MockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (m *MockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (m *MockTx) Conn() *pgx.Conn                                               { return nil }

func newTestShipmentService(
	shipmentRepo *MockShipmentRepository,
	productRepo *MockProductRepository,
	gateway *MockGateway,
	transitions policy.TransitionPolicy,
) ShipmentService {
	return NewShipmentService(shipmentRepo, productRepo, gateway, transitions, zerolog.Nop())
}

func TestShipmentService_Create_Success(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)
	gateway := new(MockGateway)
	tx := new(MockTx)

	req := &model.ShipmentRequest{
		Carrier:       "Chilexpress",
		CustomerName:  "María González",
		CustomerEmail: "maria.gonzalez@email.cl",
		Address:       "Av. Providencia 1234",
		ProductIDs:    []int64{1, 2},
	}

	productRepo.On("GetByIDs", ctx, []int64{1, 2}).Return([]model.Product{
		{ID: 1, Name: "Perfume Andino"},
		{ID: 2, Name: "Esencia Patagónica"},
	}, nil)

	shipmentRepo.On("BeginTx", ctx).Return(tx, nil)
	shipmentRepo.On("Create", ctx, tx, mock.AnythingOfType("*model.Shipment")).
		Run(func(args mock.Arguments) {
			args.Get(2).(*model.Shipment).ID = 42
		}).
		Return(nil)
	tx.On("Commit", ctx).Return(nil)
	gateway.On("NotifyCreated", ctx, int64(42), mock.AnythingOfType("string")).Return(nil)

	svc := newTestShipmentService(shipmentRepo, productRepo, gateway, policy.AllowAll())

	shipment, err := svc.Create(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, shipment)

	assert.Equal(t, int64(42), shipment.ID)
	assert.Equal(t, model.StatusPending, shipment.Status)
	assert.True(t, strings.HasPrefix(shipment.TrackingCode, "ST"))
	assert.Len(t, shipment.Products, 2)
	require.NotNil(t, shipment.EstimatedDelivery)
	assert.WithinDuration(t, time.Now().Add(72*time.Hour), *shipment.EstimatedDelivery, time.Minute)

	gateway.AssertNumberOfCalls(t, "NotifyCreated", 1)
	shipmentRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
}

func TestShipmentService_Create_UnknownProduct(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)
	gateway := new(MockGateway)

	req := &model.ShipmentRequest{
		Carrier:       "Starken",
		CustomerName:  "Ana Martínez",
		CustomerEmail: "ana.martinez@email.cl",
		Address:       "Av. O'Higgins 890",
		ProductIDs:    []int64{1, 999},
	}

	// Only one of the two referenced products exists.
	productRepo.On("GetByIDs", ctx, []int64{1, 999}).Return([]model.Product{
		{ID: 1, Name: "Perfume Andino"},
	}, nil)

	svc := newTestShipmentService(shipmentRepo, productRepo, gateway, policy.AllowAll())

	shipment, err := svc.Create(ctx, req)
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	shipmentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "NotifyCreated", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_Create_DuplicateProductIDsAllowed(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)
	gateway := new(MockGateway)
	tx := new(MockTx)

	req := &model.ShipmentRequest{
		Carrier:       "Chilexpress",
		CustomerName:  "Luis Fernández",
		CustomerEmail: "luis.fernandez@email.cl",
		Address:       "Av. Francisco de Aguirre 123",
		ProductIDs:    []int64{7, 7, 7},
	}

	// The repository resolves duplicates to a single row.
	productRepo.On("GetByIDs", ctx, []int64{7, 7, 7}).Return([]model.Product{
		{ID: 7, Name: "Esencia Cordillera"},
	}, nil)

	shipmentRepo.On("BeginTx", ctx).Return(tx, nil)
	shipmentRepo.On("Create", ctx, tx, mock.AnythingOfType("*model.Shipment")).Return(nil)
	tx.On("Commit", ctx).Return(nil)
	gateway.On("NotifyCreated", ctx, mock.AnythingOfType("int64"), mock.AnythingOfType("string")).Return(nil)

	svc := newTestShipmentService(shipmentRepo, productRepo, gateway, policy.AllowAll())

	shipment, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Len(t, shipment.Products, 1)
}

func TestShipmentService_Create_DuplicateTrackingCode(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)
	gateway := new(MockGateway)
	tx := new(MockTx)

	req := &model.ShipmentRequest{
		Carrier:       "Starken",
		CustomerName:  "Patricia Silva",
		CustomerEmail: "patricia.silva@email.cl",
		Address:       "Av. Alemania 456",
		TrackingCode:  "ST-TAKEN",
	}

	shipmentRepo.On("BeginTx", ctx).Return(tx, nil)
	shipmentRepo.On("Create", ctx, tx, mock.AnythingOfType("*model.Shipment")).
		Return(model.ErrDuplicateTrackingCode)
	tx.On("Rollback", ctx).Return(nil)

	svc := newTestShipmentService(shipmentRepo, productRepo, gateway, policy.AllowAll())

	shipment, err := svc.Create(ctx, req)
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrDuplicateTrackingCode)

	tx.AssertCalled(t, "Rollback", ctx)
	gateway.AssertNotCalled(t, "NotifyCreated", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_Create_InvalidRequest(t *testing.T) {
	ctx := context.Background()

	svc := newTestShipmentService(new(MockShipmentRepository), new(MockProductRepository), new(MockGateway), policy.AllowAll())

	shipment, err := svc.Create(ctx, &model.ShipmentRequest{Carrier: "Chilexpress"})
	assert.Nil(t, shipment)
	assert.Error(t, err)
}

func TestShipmentService_Create_GatewayFailureDoesNotFail(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)
	gateway := new(MockGateway)
	tx := new(MockTx)

	req := &model.ShipmentRequest{
		Carrier:       "Correos de Chile",
		CustomerName:  "Carlos Rodríguez",
		CustomerEmail: "carlos.rodriguez@email.cl",
		Address:       "Calle Almirante Cochrane 567",
	}

	shipmentRepo.On("BeginTx", ctx).Return(tx, nil)
	shipmentRepo.On("Create", ctx, tx, mock.AnythingOfType("*model.Shipment")).Return(nil)
	tx.On("Commit", ctx).Return(nil)
	gateway.On("NotifyCreated", ctx, mock.AnythingOfType("int64"), mock.AnythingOfType("string")).
		Return(errors.New("carrier unreachable"))

	svc := newTestShipmentService(shipmentRepo, productRepo, gateway, policy.AllowAll())

	shipment, err := svc.Create(ctx, req)
	require.NoError(t, err)
	assert.NotNil(t, shipment)
}

func TestShipmentService_ChangeStatus_NotifiesOnChange(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	stored := &model.Shipment{ID: 1, Status: model.StatusPending, TrackingCode: "ST-1"}
	shipmentRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)
	shipmentRepo.On("Update", ctx, stored).Return(nil)
	gateway.On("NotifyStatusChanged", ctx, int64(1), model.StatusInTransit).Return(nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	shipment, err := svc.ChangeStatus(ctx, 1, model.StatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInTransit, shipment.Status)

	gateway.AssertNumberOfCalls(t, "NotifyStatusChanged", 1)
}

func TestShipmentService_ChangeStatus_SameStatusNoNotification(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	stored := &model.Shipment{ID: 1, Status: model.StatusInTransit}
	shipmentRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)
	shipmentRepo.On("Update", ctx, stored).Return(nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	shipment, err := svc.ChangeStatus(ctx, 1, model.StatusInTransit)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInTransit, shipment.Status)

	// The write still happens but nothing is emitted.
	shipmentRepo.AssertCalled(t, "Update", ctx, stored)
	gateway.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_ChangeStatus_DeliveredSetsTimestamp(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	stored := &model.Shipment{ID: 1, Status: model.StatusOutForDelivery}
	shipmentRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)
	shipmentRepo.On("Update", ctx, stored).Return(nil)
	gateway.On("NotifyStatusChanged", ctx, int64(1), model.StatusDelivered).Return(nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	shipment, err := svc.ChangeStatus(ctx, 1, model.StatusDelivered)
	require.NoError(t, err)
	require.NotNil(t, shipment.DeliveredAt)
	assert.WithinDuration(t, time.Now(), *shipment.DeliveredAt, time.Minute)
}

func TestShipmentService_ChangeStatus_DeliveredKeepsExistingTimestamp(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	delivered := time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	stored := &model.Shipment{ID: 1, Status: model.StatusReturned, DeliveredAt: &delivered}
	shipmentRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)
	shipmentRepo.On("Update", ctx, stored).Return(nil)
	gateway.On("NotifyStatusChanged", ctx, int64(1), model.StatusDelivered).Return(nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	shipment, err := svc.ChangeStatus(ctx, 1, model.StatusDelivered)
	require.NoError(t, err)
	assert.Equal(t, delivered, *shipment.DeliveredAt)
}

func TestShipmentService_ChangeStatus_NotFound(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	shipmentRepo.On("GetByID", ctx, int64(99)).Return(nil, nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	shipment, err := svc.ChangeStatus(ctx, 99, model.StatusInTransit)
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrShipmentNotFound)

	shipmentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_ChangeStatus_DeniedByPolicy(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	stored := &model.Shipment{ID: 1, Status: model.StatusDelivered}
	shipmentRepo.On("GetByID", ctx, int64(1)).Return(stored, nil)

	table := policy.NewTablePolicy(map[model.ShipmentStatus][]model.ShipmentStatus{
		model.StatusPending: {model.StatusInTransit},
	})

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, table)

	shipment, err := svc.ChangeStatus(ctx, 1, model.StatusPending)
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrTransitionDenied)

	shipmentRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_Update_StatusChangeNotifiesOnce(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	stored := &model.Shipment{ID: 5, Status: model.StatusPending, City: "Santiago"}
	shipmentRepo.On("GetByID", ctx, int64(5)).Return(stored, nil)
	shipmentRepo.On("Update", ctx, stored).Return(nil)
	gateway.On("NotifyStatusChanged", ctx, int64(5), model.StatusInTransit).Return(nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	newStatus := "in_transit"
	newCity := "Valparaíso"
	shipment, err := svc.Update(ctx, 5, &model.ShipmentPatch{Status: &newStatus, City: &newCity})
	require.NoError(t, err)

	assert.Equal(t, model.StatusInTransit, shipment.Status)
	assert.Equal(t, "Valparaíso", shipment.City)
	gateway.AssertNumberOfCalls(t, "NotifyStatusChanged", 1)
}

func TestShipmentService_Update_NoStatusChangeNoNotification(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	stored := &model.Shipment{ID: 5, Status: model.StatusPending, Notes: "old"}
	shipmentRepo.On("GetByID", ctx, int64(5)).Return(stored, nil)
	shipmentRepo.On("Update", ctx, stored).Return(nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	notes := "new notes"
	shipment, err := svc.Update(ctx, 5, &model.ShipmentPatch{Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, "new notes", shipment.Notes)
	gateway.AssertNotCalled(t, "NotifyStatusChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_Update_InvalidStatus(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	stored := &model.Shipment{ID: 5, Status: model.StatusPending}
	shipmentRepo.On("GetByID", ctx, int64(5)).Return(stored, nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), new(MockGateway), policy.AllowAll())

	bogus := "TELEPORTED"
	shipment, err := svc.Update(ctx, 5, &model.ShipmentPatch{Status: &bogus})
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrInvalidStatus)
}

func TestShipmentService_Delete_NotifiesBeforeRemoval(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	stored := &model.Shipment{ID: 7, Status: model.StatusPending}
	shipmentRepo.On("GetByID", ctx, int64(7)).Return(stored, nil)
	gateway.On("NotifyCanceled", ctx, int64(7)).Return(nil)
	shipmentRepo.On("Delete", ctx, int64(7)).Return(nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	err := svc.Delete(ctx, 7)
	require.NoError(t, err)

	gateway.AssertCalled(t, "NotifyCanceled", ctx, int64(7))
	shipmentRepo.AssertCalled(t, "Delete", ctx, int64(7))
}

func TestShipmentService_Delete_AbsentIsNoOp(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	shipmentRepo.On("GetByID", ctx, int64(404)).Return(nil, nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	err := svc.Delete(ctx, 404)
	require.NoError(t, err)

	shipmentRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	gateway.AssertNotCalled(t, "NotifyCanceled", mock.Anything, mock.Anything)
}

func TestShipmentService_Delete_GatewayFailureStillDeletes(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	gateway := new(MockGateway)

	stored := &model.Shipment{ID: 7, Status: model.StatusPending}
	shipmentRepo.On("GetByID", ctx, int64(7)).Return(stored, nil)
	gateway.On("NotifyCanceled", ctx, int64(7)).Return(errors.New("carrier unreachable"))
	shipmentRepo.On("Delete", ctx, int64(7)).Return(nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), gateway, policy.AllowAll())

	err := svc.Delete(ctx, 7)
	require.NoError(t, err)
	shipmentRepo.AssertCalled(t, "Delete", ctx, int64(7))
}

func TestShipmentService_AddProduct_Success(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)

	shipmentRepo.On("ExistsByID", ctx, int64(1)).Return(true, nil)
	productRepo.On("ExistsByID", ctx, int64(2)).Return(true, nil)
	shipmentRepo.On("AddProduct", ctx, int64(1), int64(2)).Return(nil)

	refreshed := &model.Shipment{ID: 1, Products: []model.Product{{ID: 2}}}
	shipmentRepo.On("GetByID", ctx, int64(1)).Return(refreshed, nil)

	svc := newTestShipmentService(shipmentRepo, productRepo, new(MockGateway), policy.AllowAll())

	shipment, err := svc.AddProduct(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, shipment.Products, 1)
}

func TestShipmentService_AddProduct_ShipmentNotFound(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)

	shipmentRepo.On("ExistsByID", ctx, int64(1)).Return(false, nil)

	svc := newTestShipmentService(shipmentRepo, productRepo, new(MockGateway), policy.AllowAll())

	shipment, err := svc.AddProduct(ctx, 1, 2)
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrShipmentNotFound)

	shipmentRepo.AssertNotCalled(t, "AddProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_AddProduct_ProductNotFound(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)

	shipmentRepo.On("ExistsByID", ctx, int64(1)).Return(true, nil)
	productRepo.On("ExistsByID", ctx, int64(2)).Return(false, nil)

	svc := newTestShipmentService(shipmentRepo, productRepo, new(MockGateway), policy.AllowAll())

	shipment, err := svc.AddProduct(ctx, 1, 2)
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	shipmentRepo.AssertNotCalled(t, "AddProduct", mock.Anything, mock.Anything, mock.Anything)
}

func TestShipmentService_RemoveProduct_Success(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	productRepo := new(MockProductRepository)

	shipmentRepo.On("ExistsByID", ctx, int64(1)).Return(true, nil)
	productRepo.On("ExistsByID", ctx, int64(2)).Return(true, nil)
	shipmentRepo.On("RemoveProduct", ctx, int64(1), int64(2)).Return(nil)

	refreshed := &model.Shipment{ID: 1, Products: []model.Product{}}
	shipmentRepo.On("GetByID", ctx, int64(1)).Return(refreshed, nil)

	svc := newTestShipmentService(shipmentRepo, productRepo, new(MockGateway), policy.AllowAll())

	shipment, err := svc.RemoveProduct(ctx, 1, 2)
	require.NoError(t, err)
	assert.Empty(t, shipment.Products)
}

func TestShipmentService_ListProducts_ShipmentNotFound(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	shipmentRepo.On("ExistsByID", ctx, int64(33)).Return(false, nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), new(MockGateway), policy.AllowAll())

	products, err := svc.ListProducts(ctx, 33)
	assert.Nil(t, products)
	assert.ErrorIs(t, err, model.ErrShipmentNotFound)
}

func TestShipmentService_ListProducts_EmptySet(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	shipmentRepo.On("ExistsByID", ctx, int64(3)).Return(true, nil)
	shipmentRepo.On("ListProducts", ctx, int64(3)).Return([]model.Product{}, nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), new(MockGateway), policy.AllowAll())

	products, err := svc.ListProducts(ctx, 3)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestShipmentService_GetByDateRange_InvalidRange(t *testing.T) {
	ctx := context.Background()

	svc := newTestShipmentService(new(MockShipmentRepository), new(MockProductRepository), new(MockGateway), policy.AllowAll())

	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	shipments, err := svc.GetByDateRange(ctx, from, to)
	assert.Nil(t, shipments)
	assert.ErrorIs(t, err, model.ErrInvalidDateRange)
}

func TestShipmentService_GetByID_NotFound(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	shipmentRepo.On("GetByID", ctx, int64(12)).Return(nil, nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), new(MockGateway), policy.AllowAll())

	shipment, err := svc.GetByID(ctx, 12)
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrShipmentNotFound)
}

func TestShipmentService_GetByTrackingCode_NotFound(t *testing.T) {
	ctx := context.Background()

	shipmentRepo := new(MockShipmentRepository)
	shipmentRepo.On("GetByTrackingCode", ctx, "ST-MISSING").Return(nil, nil)

	svc := newTestShipmentService(shipmentRepo, new(MockProductRepository), new(MockGateway), policy.AllowAll())

	shipment, err := svc.GetByTrackingCode(ctx, "ST-MISSING")
	assert.Nil(t, shipment)
	assert.ErrorIs(t, err, model.ErrShipmentNotFound)
}
