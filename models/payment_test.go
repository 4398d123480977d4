package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupModelTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&User{}, &Listing{}, &Booking{}, &Review{}, &Payment{}, &Notification{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestPayment() Payment {
	return Payment{
		BookingReference: "BK100",
		CustomerEmail:    "a@b.com",
		Amount:           decimal.RequireFromString("50.00"),
		TxRef:            "BK100-deadbeef",
	}
}

func TestPayment_BeforeCreateDefaults(t *testing.T) {
	db := setupModelTestDB(t)

	payment := newTestPayment()
	assert.NoError(t, db.Create(&payment).Error)

	_, err := uuid.Parse(payment.ID)
	assert.NoError(t, err, "primary key should be a UUID")
	assert.Equal(t, "ETB", payment.Currency)
	assert.Nil(t, payment.VerifiedAt)
	assert.False(t, payment.CreatedAt.IsZero())
}

func TestPayment_TxRefUnique(t *testing.T) {
	db := setupModelTestDB(t)

	first := newTestPayment()
	assert.NoError(t, db.Create(&first).Error)

	dup := newTestPayment()
	assert.Error(t, db.Create(&dup).Error, "duplicate tx_ref must violate the unique index")
}

func TestPayment_MarkCompleted(t *testing.T) {
	db := setupModelTestDB(t)

	payment := newTestPayment()
	payment.Status = PaymentPending
	assert.NoError(t, db.Create(&payment).Error)

	raw := []byte(`{"status":true,"data":{"status":"success"}}`)
	assert.NoError(t, payment.MarkCompleted(db, raw))

	var got Payment
	assert.NoError(t, db.Where("tx_ref = ?", payment.TxRef).First(&got).Error)
	assert.Equal(t, PaymentCompleted, got.Status)
	assert.NotNil(t, got.VerifiedAt)
	assert.JSONEq(t, string(raw), string(got.RawVerifyResponse))
}

func TestPayment_MarkFailedDoesNotSetVerifiedAt(t *testing.T) {
	db := setupModelTestDB(t)

	payment := newTestPayment()
	payment.Status = PaymentPending
	assert.NoError(t, db.Create(&payment).Error)

	assert.NoError(t, payment.MarkFailed(db, []byte(`{"status":false}`)))

	var got Payment
	assert.NoError(t, db.Where("tx_ref = ?", payment.TxRef).First(&got).Error)
	assert.Equal(t, PaymentFailed, got.Status)
	assert.Nil(t, got.VerifiedAt)
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad date %q: %v", value, err)
	}
	return parsed
}

func TestBooking_ComputeTotals(t *testing.T) {
	b := Booking{}
	b.StartDate = mustDate(t, "2026-09-01")
	b.EndDate = mustDate(t, "2026-09-05")
	b.ComputeTotals(decimal.RequireFromString("120.50"))

	assert.Equal(t, 4, b.Nights)
	assert.True(t, b.TotalPrice.Equal(decimal.RequireFromString("482.00")))
}
