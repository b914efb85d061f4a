package storage

import (
	"encoding/json"
	"errors"
	"log"

	"railcrm/backend/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// SaveNotification stores a broadcast notification in PostgreSQL.
func (s *Service) SaveNotification(notification *models.Notification) error {
	if err := s.DB.Create(notification).Error; err != nil {
		log.Printf("ERROR: Failed to save notification: %v", err)
		return err
	}
	return nil
}

// UpdateNotification rewrites the title and message of one notification.
func (s *Service) UpdateNotification(id, title, message string) error {
	result := s.DB.Model(&models.Notification{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":   title,
			"message": message,
		})
	if result.Error != nil {
		log.Printf("ERROR: Failed to update notification %s: %v", id, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteNotification removes one notification.
func (s *Service) DeleteNotification(id string) error {
	result := s.DB.Where("id = ?", id).Delete(&models.Notification{})
	if result.Error != nil {
		log.Printf("ERROR: Failed to delete notification %s: %v", id, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// GetNotifications returns all notifications, newest first.
func (s *Service) GetNotifications() ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.DB.Order("timestamp desc").Find(&notifications).Error; err != nil {
		log.Printf("ERROR: Failed to list notifications: %v", err)
		return nil, err
	}
	return notifications, nil
}

// PublishNotification publishes a notification on a topic channel over
// Redis Pub/Sub for delivery workers to pick up.
func (s *Service) PublishNotification(topic string, notification *models.Notification) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}
	if err := s.Redis.Publish(s.Ctx, "notify:"+topic, string(payload)).Err(); err != nil {
		log.Printf("ERROR: Failed to publish notification to topic %s: %v", topic, err)
		return err
	}
	return nil
}
