package models

import (
	"time"

	"github.com/google/uuid"
)

// SellerProfile holds the public-facing details of a selling account.
type SellerProfile struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	DisplayName string    `gorm:"column:display_name;type:text;not null"`
	Bio         *string   `gorm:"column:bio;type:text"`
	Email       *string   `gorm:"column:email;type:text"`
	Phone       *string   `gorm:"column:phone;type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
