package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/utils"
)

// Notifier is a single-worker in-process queue for customer emails. Enqueue
// is non-blocking: when the buffer is full the caller gets an error and is
// expected to log and move on. The worker persists a Notification row for
// every job before attempting delivery, so undelivered mail leaves a trace.
type Notifier struct {
	db     *gorm.DB
	mailer Mailer

	jobs     chan emailJob
	stopChan chan struct{}
}

type emailJob struct {
	email   string
	subject string
	body    string
}

const notifierQueueSize = 64

func NewNotifier(db *gorm.DB, mailer Mailer) *Notifier {
	return &Notifier{
		db:       db,
		mailer:   mailer,
		jobs:     make(chan emailJob, notifierQueueSize),
		stopChan: make(chan struct{}),
	}
}

func (n *Notifier) Start() {
	go func() {
		for {
			select {
			case job := <-n.jobs:
				n.process(job)
			case <-n.stopChan:
				return
			}
		}
	}()
}

func (n *Notifier) Stop() {
	close(n.stopChan)
}

func (n *Notifier) process(job emailJob) {
	notif := models.Notification{
		Email:   job.email,
		Subject: job.subject,
		Message: job.body,
	}
	if err := n.db.Create(&notif).Error; err != nil {
		utils.ErrorLogger.Printf("notifier: could not persist notification for %s: %v", job.email, err)
	}

	if err := n.mailer.Send(job.email, job.subject, job.body); err != nil {
		utils.ErrorLogger.Printf("notifier: delivery to %s failed: %v", job.email, err)
		return
	}

	if notif.ID != 0 {
		if err := n.db.Model(&notif).Update("sent", true).Error; err != nil {
			utils.ErrorLogger.Printf("notifier: could not mark notification %d sent: %v", notif.ID, err)
		}
	}
	utils.InfoLogger.Printf("notifier: sent %q to %s", job.subject, job.email)
}

func (n *Notifier) enqueue(job emailJob) error {
	select {
	case n.jobs <- job:
		return nil
	default:
		return errors.New("notification queue full")
	}
}

// EnqueuePaymentConfirmation schedules the email sent after a payment
// reaches Completed.
func (n *Notifier) EnqueuePaymentConfirmation(p *models.Payment) error {
	subject := fmt.Sprintf("Payment Confirmation for Booking %s", p.BookingReference)
	body := fmt.Sprintf(
		"Dear customer,\n\n"+
			"Your payment of %s %s for booking %s has been received.\n"+
			"Transaction reference: %s\n\n"+
			"Thank you for choosing ALX Travel App!\n\n"+
			"Best regards,\nALX Travel Team",
		p.Amount.StringFixed(2), p.Currency, p.BookingReference, p.TxRef)
	return n.enqueue(emailJob{email: p.CustomerEmail, subject: subject, body: body})
}

// EnqueueBookingConfirmation schedules the email sent when a booking is
// created.
func (n *Notifier) EnqueueBookingConfirmation(email, bookingRef string) error {
	subject := fmt.Sprintf("Booking Confirmation #%s", bookingRef)
	body := fmt.Sprintf(
		"Dear customer,\n\n"+
			"Your booking with reference %s has been successfully confirmed.\n"+
			"Thank you for choosing ALX Travel App!\n\n"+
			"Best regards,\nALX Travel Team",
		bookingRef)
	return n.enqueue(emailJob{email: email, subject: subject, body: body})
}
