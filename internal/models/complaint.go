package models

import (
	"railcrm/backend/internal/taxonomy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Complaint is one submitted grievance. Write-once except for Feedback,
// which an admin may overwrite during review.
type Complaint struct {
	ComplaintID   string              `gorm:"primaryKey" json:"complaintId"`
	UserID        string              `gorm:"index" json:"userId"`
	ComplaintText string              `json:"complaintText"`
	Department    taxonomy.Department `gorm:"index" json:"department"`
	Timestamp     int64               `json:"timestamp"` // epoch milliseconds
	Feedback      *string             `json:"feedback,omitempty"`
}

// BeforeCreate is a GORM hook that generates a new UUID for the complaint
// if an ID has not been set yet.
func (c *Complaint) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ComplaintID == "" {
		c.ComplaintID = uuid.New().String()
	}
	return
}
