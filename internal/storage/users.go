package storage

import (
	"errors"
	"log"

	"railcrm/backend/internal/models"
	"railcrm/backend/internal/taxonomy"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

// SaveUser stores a user profile in PostgreSQL.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetUserByID returns the profile for one user id.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail returns the profile registered under an email address.
func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user by email: %v", err)
		return nil, err
	}
	return &user, nil
}

// GetCustomers returns every account with the customer role.
func (s *Service) GetCustomers() ([]models.User, error) {
	var users []models.User
	err := s.DB.Where("UPPER(role) = ?", string(taxonomy.RoleUser)).
		Order("name asc").
		Find(&users).Error
	if err != nil {
		log.Printf("ERROR: Failed to list customers: %v", err)
		return nil, err
	}
	return users, nil
}

// LinkTelegramChat records the Telegram chat id used to deliver broadcast
// notifications to this user.
func (s *Service) LinkTelegramChat(userID string, chatID int64) error {
	result := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("telegram_chat_id", chatID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// GetLinkedChatIDs returns every non-zero Telegram chat id on record.
func (s *Service) GetLinkedChatIDs() ([]int64, error) {
	var chatIDs []int64
	err := s.DB.Model(&models.User{}).
		Where("telegram_chat_id <> 0").
		Pluck("telegram_chat_id", &chatIDs).Error
	if err != nil {
		log.Printf("ERROR: Failed to list linked chat ids: %v", err)
		return nil, err
	}
	return chatIDs, nil
}
