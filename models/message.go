package models

import (
	"time"

	"gorm.io/gorm"
)

// Message represents one directed message between two users, optionally tied
// to a listing the conversation is about. A conversation is not stored; it is
// derived from the unordered {sender, receiver} pair.
//
// After creation only IsRead may change. Messages are removed only when a
// participating account is deleted.
type Message struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	SenderID   uint           `gorm:"not null;index" json:"sender_id"` // foreign key to users table
	Sender     *User          `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReceiverID uint           `gorm:"not null;index" json:"receiver_id"` // foreign key to users table
	Receiver   User           `gorm:"foreignKey:ReceiverID" json:"-"`
	ListingID  *uint          `gorm:"index" json:"listing_id,omitempty"` // nullable foreign key to listings table
	Body       string         `gorm:"type:text;not null" json:"body"`
	IsRead     bool           `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}
