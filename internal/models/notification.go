package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq" // needed for pq.StringArray
	"gorm.io/gorm"
)

// Notification is a broadcast announcement authored by an admin and
// delivered to every subscriber of its topics.
type Notification struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Topics    pq.StringArray `gorm:"type:text[]" json:"topics"`
	Timestamp int64          `json:"timestamp"` // epoch milliseconds
}

// BeforeCreate is a GORM hook that generates a new UUID for the
// notification if an ID has not been set yet.
func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	return
}
