package handler_test

import (
	"context"

	"railcrm/backend/internal/genai"
	"railcrm/backend/internal/models"
	"railcrm/backend/internal/taxonomy"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a mock implementation of the storage.Storage interface for
// handler tests.
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveComplaint(complaint *models.Complaint) error {
	args := m.Called(complaint)
	return args.Error(0)
}

func (m *MockStorage) SetComplaintFeedback(complaintID, feedback string) error {
	args := m.Called(complaintID, feedback)
	return args.Error(0)
}

func (m *MockStorage) GetComplaintsByUser(userID string) ([]models.Complaint, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) GetComplaintsByDepartment(department taxonomy.Department) ([]models.Complaint, error) {
	args := m.Called(department)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) GetAllComplaints() ([]models.Complaint, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Complaint), args.Error(1)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetCustomers() ([]models.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockStorage) LinkTelegramChat(userID string, chatID int64) error {
	args := m.Called(userID, chatID)
	return args.Error(0)
}

func (m *MockStorage) GetLinkedChatIDs() ([]int64, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockStorage) SaveNotification(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *MockStorage) UpdateNotification(id, title, message string) error {
	args := m.Called(id, title, message)
	return args.Error(0)
}

func (m *MockStorage) DeleteNotification(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockStorage) GetNotifications() ([]models.Notification, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) PublishNotification(topic string, notification *models.Notification) error {
	args := m.Called(topic, notification)
	return args.Error(0)
}

// MockClassifier is a mock implementation of the genai.Classifier interface.
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (genai.Result, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(genai.Result), args.Error(1)
}

// fakeSource is a no-op feed.EventSource for handler tests.
type fakeSource struct{}

func (f *fakeSource) Subscribe(ctx context.Context) (<-chan struct{}, func(), error) {
	return make(chan struct{}), func() {}, nil
}
