package models

import "time"

// Notification is a persisted record of an outbound customer email, written
// by the notifier worker before delivery is attempted.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"type:varchar(255);not null" json:"email"`
	Subject   string    `gorm:"type:varchar(255);not null" json:"subject"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Sent      bool      `gorm:"not null;default:false" json:"sent"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}
