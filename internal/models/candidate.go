package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Candidate is read-only reference data; rows are seeded by an admin
// process, never written by request handlers.
type Candidate struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Party       string `gorm:"size:100" json:"party"`
	Description string `json:"description"`

	CreatedAt time.Time `json:"-"`
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
