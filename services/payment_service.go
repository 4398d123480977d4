package services

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/alxtravel/travel-app/models"
	"github.com/alxtravel/travel-app/utils"
)

// ChapaGateway is the slice of ChapaService the payment flow depends on,
// kept narrow so tests can substitute a fake gateway.
type ChapaGateway interface {
	IsConfigured() bool
	InitializeTransaction(req ChapaInitRequest) (*ChapaInitResult, error)
	VerifyTransaction(txRef string) (*ChapaVerifyResult, error)
}

// NotificationQueue is the best-effort channel payment and booking events
// are pushed onto. Enqueue failures must never abort the surrounding
// state transition.
type NotificationQueue interface {
	EnqueuePaymentConfirmation(p *models.Payment) error
	EnqueueBookingConfirmation(email, bookingRef string) error
}

// PaymentService owns the payment ledger state machine: a row is created at
// initiation for every attempt, and mutated only by verification. Rows move
// Pending -> Completed or Pending -> Failed; nothing deletes them.
type PaymentService struct {
	db       *gorm.DB
	gateway  ChapaGateway
	notifier NotificationQueue

	// appBaseURL is this server's own public base URL, used to build the
	// callback the gateway redirects to after checkout.
	appBaseURL string
}

func NewPaymentService(db *gorm.DB, gateway ChapaGateway, notifier NotificationQueue, appBaseURL string) *PaymentService {
	return &PaymentService{
		db:         db,
		gateway:    gateway,
		notifier:   notifier,
		appBaseURL: appBaseURL,
	}
}

type InitiatePaymentRequest struct {
	BookingReference string
	BookingID        *uint
	Amount           decimal.Decimal
	Currency         string
	Email            string
	FirstName        string
	LastName         string
	ReturnURL        string
}

type InitiatePaymentResult struct {
	TxRef       string               `json:"tx_ref"`
	CheckoutURL string               `json:"checkout_url"`
	Status      models.PaymentStatus `json:"status"`
}

type VerifyPaymentResult struct {
	TxRef            string               `json:"tx_ref"`
	Status           models.PaymentStatus `json:"status"`
	Amount           decimal.Decimal      `json:"amount"`
	Currency         string               `json:"currency"`
	BookingReference string               `json:"booking_reference"`
}

// InitiatePayment validates the request, creates a hosted-checkout
// transaction at the gateway and writes exactly one ledger row whatever the
// gateway outcome. Every attempt must be auditable, so failures are
// persisted too.
func (s *PaymentService) InitiatePayment(req InitiatePaymentRequest) (*InitiatePaymentResult, error) {
	if strings.TrimSpace(req.BookingReference) == "" {
		return nil, fmt.Errorf("%w: booking_reference is required", ErrInvalidRequest)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be greater than zero", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Email) == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidRequest)
	}
	if !s.gateway.IsConfigured() {
		return nil, ErrGatewayNotConfigured
	}

	currency := req.Currency
	if currency == "" {
		currency = "ETB"
	}

	txRef, err := generateTxRef(req.BookingReference)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		BookingID:         req.BookingID,
		BookingReference:  req.BookingReference,
		CustomerEmail:     req.Email,
		CustomerFirstName: req.FirstName,
		CustomerLastName:  req.LastName,
		Amount:            req.Amount,
		Currency:          currency,
		TxRef:             txRef,
		Status:            models.PaymentPending,
	}

	initReq := ChapaInitRequest{
		Amount:      req.Amount.StringFixed(2),
		Currency:    currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		TxRef:       txRef,
		CallbackURL: s.callbackURL(txRef),
		// The caller's return_url only overrides the user-facing
		// redirect, never the server-side callback.
		ReturnURL: req.ReturnURL,
	}

	result, gwErr := s.gateway.InitializeTransaction(initReq)
	if gwErr != nil {
		payment.Status = models.PaymentFailed
		payment.RawInitResponse, _ = json.Marshal(map[string]string{"error": gwErr.Error()})
		if dbErr := s.db.Create(&payment).Error; dbErr != nil {
			utils.ErrorLogger.Printf("payment %s: failed to record unreachable-gateway attempt: %v", txRef, dbErr)
			return nil, dbErr
		}
		utils.ErrorLogger.Printf("payment %s: gateway unreachable: %v", txRef, gwErr)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, gwErr)
	}

	payment.RawInitResponse = result.Raw

	if !result.Accepted() {
		payment.Status = models.PaymentFailed
		if dbErr := s.db.Create(&payment).Error; dbErr != nil {
			return nil, dbErr
		}
		msg := result.Message
		if msg == "" {
			msg = fmt.Sprintf("gateway returned status %d", result.HTTPStatus)
		}
		utils.InfoLogger.Printf("payment %s: gateway rejected initiation: %s", txRef, msg)
		return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, msg)
	}

	payment.ChapaTxnID = result.TransactionID
	if dbErr := s.db.Create(&payment).Error; dbErr != nil {
		// A tx_ref collision lands here as a unique-constraint violation;
		// it is treated as an unexpected error, not silently retried.
		return nil, dbErr
	}

	utils.InfoLogger.Printf("payment %s: initiated for booking %s (%s %s)",
		txRef, req.BookingReference, req.Amount.StringFixed(2), currency)

	return &InitiatePaymentResult{
		TxRef:       txRef,
		CheckoutURL: result.CheckoutURL,
		Status:      models.PaymentPending,
	}, nil
}

// VerifyPayment re-checks a transaction with the gateway and applies the
// resulting transition to the ledger row. A row that already reached a
// terminal state is not special-cased: the gateway is queried again and the
// same decision rule re-applied.
func (s *PaymentService) VerifyPayment(txRef string) (*VerifyPaymentResult, error) {
	if strings.TrimSpace(txRef) == "" {
		return nil, fmt.Errorf("%w: tx_ref is required", ErrInvalidRequest)
	}
	if !s.gateway.IsConfigured() {
		return nil, ErrGatewayNotConfigured
	}

	var payment models.Payment
	if err := s.db.Where("tx_ref = ?", txRef).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	result, gwErr := s.gateway.VerifyTransaction(txRef)
	if gwErr != nil {
		// A failed verify call says nothing about the true payment state,
		// so the row is left exactly as it was.
		utils.ErrorLogger.Printf("payment %s: gateway unreachable during verification: %v", txRef, gwErr)
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnreachable, gwErr)
	}

	if result.Succeeded() {
		if err := payment.MarkCompleted(s.db, result.Raw); err != nil {
			return nil, err
		}
		utils.InfoLogger.Printf("payment %s: completed", txRef)

		// Best effort: the completed transition must not roll back because
		// a notification failed to enqueue.
		if err := s.notifier.EnqueuePaymentConfirmation(&payment); err != nil {
			utils.ErrorLogger.Printf("payment %s: could not enqueue confirmation email: %v", txRef, err)
		}
	} else {
		if err := payment.MarkFailed(s.db, result.Raw); err != nil {
			return nil, err
		}
		utils.InfoLogger.Printf("payment %s: verification outcome %q recorded as failed", txRef, result.PaymentStatus)
	}

	return &VerifyPaymentResult{
		TxRef:            payment.TxRef,
		Status:           payment.Status,
		Amount:           payment.Amount,
		Currency:         payment.Currency,
		BookingReference: payment.BookingReference,
	}, nil
}

// generateTxRef builds "<booking_reference>-<8 hex chars>". Collisions are
// cryptographically negligible; the unique index is the fallback.
func generateTxRef(bookingRef string) (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate tx_ref: %w", err)
	}
	return fmt.Sprintf("%s-%s", bookingRef, hex.EncodeToString(buf)), nil
}

func (s *PaymentService) callbackURL(txRef string) string {
	return fmt.Sprintf("%s/payments/verify/?tx_ref=%s",
		strings.TrimRight(s.appBaseURL, "/"), url.QueryEscape(txRef))
}
