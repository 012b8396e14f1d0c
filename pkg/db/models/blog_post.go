package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BlogPost is a plain content record with no lifecycle beyond existence.
type BlogPost struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AuthorID  uuid.UUID      `gorm:"column:author_id;type:uuid;not null"`
	Title     string         `gorm:"column:title;type:text;not null"`
	Body      string         `gorm:"column:body;type:text;not null"`
	Tags      pq.StringArray `gorm:"column:tags;type:text[]"`
	Published bool           `gorm:"column:published;not null;default:false"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
