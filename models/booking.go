package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCanceled  = "canceled"
)

type Booking struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ListingID uint    `gorm:"not null;index" json:"listing_id"`
	Listing   Listing `gorm:"foreignKey:ListingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"listing"`
	GuestID   uint    `gorm:"not null;index" json:"guest_id"`
	Guest     User    `gorm:"foreignKey:GuestID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"guest"`

	// Reference is the external correlation key carried into payment
	// attempts as booking_reference. Generated at create, e.g. "BK1024".
	Reference string `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`

	StartDate  time.Time       `gorm:"not null" json:"start_date"`
	EndDate    time.Time       `gorm:"not null" json:"end_date"`
	Nights     int             `gorm:"not null" json:"nights"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
	Status     string          `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// ComputeTotals derives Nights and TotalPrice from the stay dates and the
// listing's nightly price.
func (b *Booking) ComputeTotals(pricePerNight decimal.Decimal) {
	nights := int(b.EndDate.Sub(b.StartDate).Hours() / 24)
	if nights < 0 {
		nights = 0
	}
	b.Nights = nights
	b.TotalPrice = pricePerNight.Mul(decimal.NewFromInt(int64(nights)))
}
