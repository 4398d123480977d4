package models

import "time"

type Review struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	ListingID uint    `gorm:"not null;index" json:"listing_id"`
	Listing   Listing `gorm:"foreignKey:ListingID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	AuthorID  uint    `gorm:"not null;index" json:"author_id"`
	Author    User    `gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"author"`
	Rating    int     `gorm:"not null" json:"rating"` // 1..5
	Comment   string  `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}
