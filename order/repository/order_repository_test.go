package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	checkout "github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/order/models"
	"github.com/Herzon-Palma/Coders/order/repository"
	"github.com/Herzon-Palma/Coders/pkg/domain"
	"github.com/Herzon-Palma/Coders/pkg/money"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func testOrder(t *testing.T) *models.Order {
	t.Helper()

	items := []models.OrderItem{
		{ProductID: domain.NewProductID(), ProductName: "Laptop", UnitPrice: money.Pesos(15000), Quantity: 1},
		{ProductID: domain.NewProductID(), ProductName: "Mouse", UnitPrice: money.Pesos(500), Quantity: 2},
	}
	address := checkout.ShippingAddress{
		RecipientName: "Dana Rivera",
		Street:        "Av. Reforma 100",
		City:          "CDMX",
		State:         "CDMX",
		ZipCode:       "06600",
		Phone:         "5512345678",
	}
	order, err := models.NewOrder(domain.NewCustomerID(), items, address,
		checkout.PaymentMethodCard, money.Pesos(16000), money.Pesos(1000))
	require.NoError(t, err)
	order.PullEvents()
	return order
}

func TestCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := testOrder(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "orders"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.UUID(order.ID)))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_items"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), order)
	assert.NoError(t, err)
}

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := domain.NewOrderID()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WithArgs(uuid.UUID(id), 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	order, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
	assert.Nil(t, order)
}

func TestFindByID_RestoresAggregate(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	id := domain.NewOrderID()
	customerID := domain.NewCustomerID()
	productID := domain.NewProductID()
	now := time.Now()
	address := []byte(`{"recipient_name":"Dana Rivera","street":"Av. Reforma 100","city":"CDMX","state":"CDMX","zip_code":"06600","phone":"5512345678"}`)

	headerRows := sqlmock.NewRows([]string{
		"id", "customer_id", "status", "subtotal", "discount", "total", "currency",
		"shipping_address", "payment_method", "payment_status", "provider_ref",
		"rejection_reason", "tracking_number", "carrier", "shipped_at",
		"cancellation_reason", "created_at", "updated_at",
	}).AddRow(
		uuid.UUID(id), uuid.UUID(customerID), "PAID", "16000.00", "1000.00", "15000.00", "MXN",
		address, "CARD", "APPROVED", "ch_123",
		"", "", "", nil,
		"", now, now,
	)
	itemRows := sqlmock.NewRows([]string{"id", "order_id", "product_id", "product_name", "unit_price", "quantity"}).
		AddRow(uuid.New(), uuid.UUID(id), uuid.UUID(productID), "Laptop", "15000.00", 1)
	historyRows := sqlmock.NewRows([]string{"id", "order_id", "from_state", "to_state", "note", "changed_at"}).
		AddRow(uuid.New(), uuid.UUID(id), "PENDING", "CONFIRMED", "", now).
		AddRow(uuid.New(), uuid.UUID(id), "CONFIRMED", "PAID", "payment ch_123", now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "orders"`)).
		WillReturnRows(headerRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_status_changes"`)).
		WillReturnRows(historyRows)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "order_items"`)).
		WillReturnRows(itemRows)

	order, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, id, order.ID)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.True(t, order.Total.Equals(money.Pesos(15000)))
	assert.True(t, order.Payment.IsApproved())
	assert.Len(t, order.Items, 1)
	assert.Len(t, order.History, 2)
	assert.Equal(t, models.OrderStatusConfirmed, order.History[1].From)
}

func TestUpdate_ReplacesHistory(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormOrderRepository(gormDB)

	order := testOrder(t)
	require.NoError(t, order.Confirm())
	order.PullEvents()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "orders"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "order_status_changes"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "order_status_changes"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), order)
	assert.NoError(t, err)
}
