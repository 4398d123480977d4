package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Listing struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	HostID        uint            `gorm:"not null;index" json:"host_id"`
	Host          User            `gorm:"foreignKey:HostID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"host"`
	Title         string          `gorm:"type:varchar(255);not null" json:"title"`
	Description   string          `gorm:"type:text" json:"description"`
	Location      string          `gorm:"type:varchar(255);not null" json:"location"`
	PricePerNight decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_per_night"`
	MaxGuests     int             `gorm:"not null;default:1" json:"max_guests"`
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"not null" json:"updated_at"`

	Reviews []Review `gorm:"foreignKey:ListingID" json:"reviews,omitempty"`

	// AverageRating is computed from reviews on read, never stored.
	AverageRating *float64 `gorm:"-" json:"average_rating"`
}
