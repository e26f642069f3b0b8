package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Food struct {
	ID          string   `gorm:"primaryKey;size:36" json:"id"`
	Name        string   `gorm:"size:100;not null" json:"name"`
	Description *string  `gorm:"size:500" json:"description"`
	Price       *float64 `json:"price"`
	// Category is free text; the UI suggests a fixed set but anything is stored.
	Category    string `gorm:"size:50;not null" json:"category"`
	IsAvailable bool   `gorm:"default:true" json:"is_available"`

	ProviderID string    `gorm:"size:36;not null;index" json:"provider_id"`
	Provider   *Provider `json:"provider,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Food) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
