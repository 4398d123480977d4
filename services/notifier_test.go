package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/utils"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestNotifier_PaymentConfirmationDelivered(t *testing.T) {
	utils.InitLogger()
	db := setupPaymentTestDB(t)
	mailer := &MockMailer{}
	n := NewNotifier(db, mailer)
	n.Start()
	defer n.Stop()

	payment := &models.Payment{
		BookingReference: "BK100",
		CustomerEmail:    "a@b.com",
		Amount:           decimal.RequireFromString("50.00"),
		Currency:         "ETB",
		TxRef:            "BK100-deadbeef",
	}

	assert.NoError(t, n.EnqueuePaymentConfirmation(payment))

	waitFor(t, func() bool { return mailer.SentCount() == 1 })

	sent := mailer.Sent[0]
	assert.Equal(t, "a@b.com", sent.To)
	assert.Contains(t, sent.Subject, "BK100")
	assert.Contains(t, sent.Body, "50.00 ETB")
	assert.Contains(t, sent.Body, "BK100-deadbeef")

	// A Notification row is persisted and marked sent.
	var notif models.Notification
	waitFor(t, func() bool {
		return db.Where("email = ? AND sent = ?", "a@b.com", true).First(&notif).Error == nil
	})
	assert.Contains(t, notif.Subject, "Payment Confirmation")
}

func TestNotifier_BookingConfirmationDelivered(t *testing.T) {
	utils.InitLogger()
	db := setupPaymentTestDB(t)
	mailer := &MockMailer{}
	n := NewNotifier(db, mailer)
	n.Start()
	defer n.Stop()

	assert.NoError(t, n.EnqueueBookingConfirmation("guest@example.com", "BK200"))

	waitFor(t, func() bool { return mailer.SentCount() == 1 })
	assert.Equal(t, "guest@example.com", mailer.Sent[0].To)
	assert.Contains(t, mailer.Sent[0].Subject, "BK200")
}

func TestNotifier_DeliveryFailureLeavesRowUnsent(t *testing.T) {
	utils.InitLogger()
	db := setupPaymentTestDB(t)
	mailer := &MockMailer{Err: assert.AnError}
	n := NewNotifier(db, mailer)
	n.Start()
	defer n.Stop()

	assert.NoError(t, n.EnqueueBookingConfirmation("guest@example.com", "BK200"))

	var notif models.Notification
	waitFor(t, func() bool {
		return db.Where("email = ?", "guest@example.com").First(&notif).Error == nil
	})
	assert.False(t, notif.Sent)
}

func TestNotifier_EnqueueFailsWhenQueueFull(t *testing.T) {
	utils.InitLogger()
	db := setupPaymentTestDB(t)
	// Worker never started, so the buffer fills up and enqueue degrades
	// into an error instead of blocking.
	n := NewNotifier(db, &MockMailer{})

	var err error
	for i := 0; i <= notifierQueueSize; i++ {
		err = n.EnqueueBookingConfirmation("guest@example.com", "BK200")
	}
	assert.Error(t, err)
}
