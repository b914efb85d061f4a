package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account in the CRM: a customer, a department staff
// member, or an admin. Role and Department are stored as free text exactly
// as received; readers normalize them through the taxonomy package.
type User struct {
	ID             string `gorm:"primaryKey" json:"id"`
	Email          string `gorm:"uniqueIndex" json:"email"`
	PasswordHash   string `json:"-"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Role           string `json:"role"`
	Department     string `json:"department"`
	TelegramChatID int64  `gorm:"index" json:"-"` // linked chat for broadcast delivery, 0 when unlinked
}

// BeforeCreate is a GORM hook that generates a new UUID for the user
// if an ID has not been set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return
}
