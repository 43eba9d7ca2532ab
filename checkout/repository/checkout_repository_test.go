package repository_test

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Herzon-Palma/Coders/checkout/models"
	"github.com/Herzon-Palma/Coders/checkout/repository"
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

func testCheckout(t *testing.T) *models.Checkout {
	t.Helper()

	laptop := domain.NewProductID()
	mouse := domain.NewProductID()
	summary := models.CheckoutSummary{
		CartID:     domain.NewCartID(),
		CustomerID: domain.NewCustomerID(),
		Items: []models.CheckoutLine{
			{ProductID: laptop, Name: "Laptop", UnitPrice: money.Pesos(15000), Qty: 1, LineTotal: money.Pesos(15000)},
			{ProductID: mouse, Name: "Mouse", UnitPrice: money.Pesos(500), Qty: 2, LineTotal: money.Pesos(1000)},
		},
		Subtotal: money.Pesos(16000),
	}
	checkout, err := models.Start(summary)
	require.NoError(t, err)
	checkout.PullEvents()
	return checkout
}

func TestSave_InsertsDocument(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCheckoutRepository(gormDB)

	checkout := testCheckout(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "checkouts"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Save(context.Background(), checkout)
	assert.NoError(t, err)
}

func TestFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCheckoutRepository(gormDB)

	id := domain.NewCheckoutID()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "checkouts"`)).
		WithArgs(id.String(), 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	checkout, err := repo.FindByID(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrCheckoutNotFound)
	assert.Nil(t, checkout)
}

func TestFindByID_RestoresDocument(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCheckoutRepository(gormDB)

	original := testCheckout(t)
	require.NoError(t, original.CaptureData(
		models.ShippingAddress{
			RecipientName: "Dana Rivera",
			Street:        "Av. Reforma 100",
			City:          "CDMX",
			State:         "CDMX",
			ZipCode:       "06600",
			Phone:         "5512345678",
		},
		models.ContactDetails{Email: "dana@example.com", Phone: "5512345678"},
	))
	original.PullEvents()

	document, err := json.Marshal(original)
	require.NoError(t, err)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "customer_id", "cart_id", "state", "document", "created_at", "updated_at"}).
		AddRow(original.ID.String(), original.CustomerID.String(), original.CartID.String(),
			original.State.String(), document, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "checkouts"`)).
		WillReturnRows(rows)

	restored, err := repo.FindByID(context.Background(), original.ID)
	require.NoError(t, err)

	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, models.CheckoutStateDataCaptured, restored.State)
	assert.Len(t, restored.Summary.Items, 2)
	assert.True(t, restored.Subtotal.Equals(money.Pesos(16000)))
	assert.Equal(t, "Dana Rivera", restored.Address.RecipientName)
}

func TestFindByCartID_ReturnsLatest(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCheckoutRepository(gormDB)

	original := testCheckout(t)
	document, err := json.Marshal(original)
	require.NoError(t, err)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "customer_id", "cart_id", "state", "document", "created_at", "updated_at"}).
		AddRow(original.ID.String(), original.CustomerID.String(), original.CartID.String(),
			original.State.String(), document, now, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "checkouts" WHERE cart_id = $1 ORDER BY created_at DESC`)).
		WithArgs(original.CartID.String(), 1).
		WillReturnRows(rows)

	restored, err := repo.FindByCartID(context.Background(), original.CartID)
	require.NoError(t, err)
	assert.Equal(t, original.ID, restored.ID)
	assert.Equal(t, models.CheckoutStateStarted, restored.State)
}
