package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Provider is a food/snack vendor. AverageRating and TotalRatings are
// derived from the ratings table and rewritten on every rating submission.
type Provider struct {
	ID             string  `gorm:"primaryKey;size:36" json:"id"`
	Name           string  `gorm:"size:100;not null" json:"name"`
	CanGiveReceipt bool    `gorm:"default:false" json:"can_give_receipt"`
	HasStamp       bool    `gorm:"default:false" json:"has_stamp"`
	CanCredit      bool    `gorm:"default:false" json:"can_credit"`
	Description    *string `gorm:"size:500" json:"description"`
	Address        *string `gorm:"size:255" json:"address"`
	Phone          *string `gorm:"size:20" json:"phone"`

	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	TotalRatings  int     `gorm:"default:0" json:"total_ratings"`

	Foods   []Food   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"foods,omitempty"`
	Ratings []Rating `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"ratings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Provider) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
