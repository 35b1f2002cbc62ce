package models

import (
	"time"

	"gorm.io/gorm"
)

// Listing represents a room or flatshare advertised by a user
type Listing struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	City          string         `gorm:"not null;index" json:"city"`
	District      string         `gorm:"index" json:"district"`
	RentMonthly   int            `gorm:"not null;check:rent_monthly >= 0" json:"rent_monthly"` // monthly rent in TRY
	RoomType      string         `gorm:"not null;default:'private'" json:"room_type"`          // private or shared
	Furnished     bool           `gorm:"not null;default:false" json:"furnished"`
	BillsIncluded bool           `gorm:"not null;default:false" json:"bills_included"`
	AvailableFrom *time.Time     `json:"available_from,omitempty"`
	Status        string         `gorm:"not null;default:'active';index" json:"status"` // active or paused
	UserID        uint           `gorm:"not null;index" json:"user_id"`                 // foreign key to users table
	User          User           `gorm:"foreignKey:UserID" json:"user"`
	Images        []ListingImage `gorm:"foreignKey:ListingID" json:"images"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Listing model
func (Listing) TableName() string {
	return "listings"
}

// ListingImage holds a photo URL attached to a listing. Images are stored by
// the client's upload provider; the API only keeps the URL.
type ListingImage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ListingID uint      `gorm:"not null;index" json:"listing_id"`
	URL       string    `gorm:"not null" json:"url"`
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the ListingImage model
func (ListingImage) TableName() string {
	return "listing_images"
}
