package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentCanceled  PaymentStatus = "Canceled"
)

// Payment is one ledger row tracking a single payment attempt against the
// gateway. A row is written for every initiation attempt, whatever the
// outcome, and is never deleted by the normal flow.
type Payment struct {
	ID string `gorm:"type:char(36);primaryKey" json:"id"`

	// BookingID is an optional reference back to the booking; a payment
	// attempt is still valid ledger data when the booking row is gone.
	BookingID *uint    `gorm:"index" json:"booking_id,omitempty"`
	Booking   *Booking `gorm:"foreignKey:BookingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`

	// BookingReference is the caller-supplied correlation key. Multiple
	// attempts may share it; only TxRef is unique.
	BookingReference string `gorm:"type:varchar(64);index;not null" json:"booking_reference"`

	CustomerEmail     string `gorm:"type:varchar(255);not null" json:"customer_email"`
	CustomerFirstName string `gorm:"type:varchar(64)" json:"customer_first_name"`
	CustomerLastName  string `gorm:"type:varchar(64)" json:"customer_last_name"`

	Amount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency string          `gorm:"type:varchar(8);not null;default:'ETB'" json:"currency"`

	// TxRef is the locally generated token sent to and echoed back by the
	// gateway. Unique for all time.
	TxRef      string `gorm:"type:varchar(128);uniqueIndex;not null" json:"tx_ref"`
	ChapaTxnID string `gorm:"type:varchar(128)" json:"chapa_txn_id"`

	Status PaymentStatus `gorm:"type:varchar(16);not null;default:'Pending';index" json:"status"`

	RawInitResponse   json.RawMessage `gorm:"type:text" json:"raw_init_response,omitempty"`
	RawVerifyResponse json.RawMessage `gorm:"type:text" json:"raw_verify_response,omitempty"`

	VerifiedAt *time.Time `json:"verified_at"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Currency == "" {
		p.Currency = "ETB"
	}
	return nil
}

// MarkCompleted transitions the row to Completed and stamps VerifiedAt.
// This is the only path that ever sets VerifiedAt.
func (p *Payment) MarkCompleted(db *gorm.DB, verifyPayload json.RawMessage) error {
	now := time.Now()
	p.Status = PaymentCompleted
	p.VerifiedAt = &now
	if verifyPayload != nil {
		p.RawVerifyResponse = verifyPayload
	}
	return db.Save(p).Error
}

// MarkFailed transitions the row to Failed, keeping any prior VerifiedAt.
func (p *Payment) MarkFailed(db *gorm.DB, verifyPayload json.RawMessage) error {
	p.Status = PaymentFailed
	if verifyPayload != nil {
		p.RawVerifyResponse = verifyPayload
	}
	return db.Save(p).Error
}
