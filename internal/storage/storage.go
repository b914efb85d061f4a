package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"railcrm/backend/internal/config"
	"railcrm/backend/internal/models"
	"railcrm/backend/internal/taxonomy"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var ErrComplaintNotFound = errors.New("complaint not found")

type Storage interface {
	// Complaints
	SaveComplaint(complaint *models.Complaint) error
	SetComplaintFeedback(complaintID, feedback string) error
	GetComplaintsByUser(userID string) ([]models.Complaint, error)
	GetComplaintsByDepartment(department taxonomy.Department) ([]models.Complaint, error)
	GetAllComplaints() ([]models.Complaint, error)

	// Users
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetCustomers() ([]models.User, error)
	LinkTelegramChat(userID string, chatID int64) error
	GetLinkedChatIDs() ([]int64, error)

	// Notifications
	SaveNotification(notification *models.Notification) error
	UpdateNotification(id, title, message string) error
	DeleteNotification(id string) error
	GetNotifications() ([]models.Notification, error)
	PublishNotification(topic string, notification *models.Notification) error
}

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// SaveComplaint appends a complaint record to PostgreSQL and publishes a
// change event so that open feeds refresh.
func (s *Service) SaveComplaint(complaint *models.Complaint) error {
	if err := s.DB.Create(complaint).Error; err != nil {
		log.Printf("ERROR: Failed to save complaint %s: %v", complaint.ComplaintID, err)
		return err
	}

	s.publishComplaintEvent(models.ComplaintEvent{
		Kind:        models.EventComplaintCreated,
		ComplaintID: complaint.ComplaintID,
		Department:  string(complaint.Department),
	})
	return nil
}

// SetComplaintFeedback overwrites the feedback field of one complaint.
// Last write wins; concurrent admin edits are not serialized.
func (s *Service) SetComplaintFeedback(complaintID, feedback string) error {
	result := s.DB.Model(&models.Complaint{}).
		Where("complaint_id = ?", complaintID).
		Update("feedback", feedback)
	if result.Error != nil {
		log.Printf("ERROR: Failed to set feedback on complaint %s: %v", complaintID, result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrComplaintNotFound
	}

	s.publishComplaintEvent(models.ComplaintEvent{
		Kind:        models.EventComplaintFeedback,
		ComplaintID: complaintID,
	})
	return nil
}

// GetComplaintsByUser returns all complaints submitted by one user, newest first.
func (s *Service) GetComplaintsByUser(userID string) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Where("user_id = ?", userID).
		Order("timestamp desc").
		Find(&complaints).Error
	if err != nil {
		log.Printf("ERROR: Failed to get complaints for user %s: %v", userID, err)
		return nil, err
	}
	return complaints, nil
}

// GetComplaintsByDepartment returns all complaints routed to one department, newest first.
func (s *Service) GetComplaintsByDepartment(department taxonomy.Department) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := s.DB.Where("department = ?", string(department)).
		Order("timestamp desc").
		Find(&complaints).Error
	if err != nil {
		log.Printf("ERROR: Failed to get complaints for department %s: %v", department, err)
		return nil, err
	}
	return complaints, nil
}

// GetAllComplaints returns every complaint, newest first.
func (s *Service) GetAllComplaints() ([]models.Complaint, error) {
	var complaints []models.Complaint
	if err := s.DB.Order("timestamp desc").Find(&complaints).Error; err != nil {
		log.Printf("ERROR: Failed to get complaints: %v", err)
		return nil, err
	}
	return complaints, nil
}

// publishComplaintEvent publishes a change event on the complaints channel.
// Delivery is best effort; a lost event only delays a feed refresh.
func (s *Service) publishComplaintEvent(event models.ComplaintEvent) {
	if s.Redis == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("ERROR: Failed to marshal complaint event: %v", err)
		return
	}
	if err := s.Redis.Publish(s.Ctx, config.ComplaintEventsChannel, string(payload)).Err(); err != nil {
		log.Printf("ERROR: Failed to publish complaint event: %v", err)
	}
}
