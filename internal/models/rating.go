package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rating is one user's score for one provider. The composite unique index
// makes a second submission by the same user an overwrite, never a new row.
type Rating struct {
	ID         string  `gorm:"primaryKey;size:36" json:"id"`
	UserID     string  `gorm:"size:36;not null;uniqueIndex:idx_ratings_user_provider" json:"user_id"`
	ProviderID string  `gorm:"size:36;not null;uniqueIndex:idx_ratings_user_provider" json:"provider_id"`
	Rating     int     `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    *string `gorm:"size:500" json:"comment"`

	User     *User     `json:"user,omitempty"`
	Provider *Provider `json:"provider,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Rating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
