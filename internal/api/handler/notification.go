package handler

import (
	"errors"
	"net/http"
	"time"

	"railcrm/backend/internal/config"
	"railcrm/backend/internal/models"
	"railcrm/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type notificationRequest struct {
	Title   string   `json:"title" binding:"required"`
	Message string   `json:"message" binding:"required"`
	Topics  []string `json:"topics"`
}

// CreateNotification stores a broadcast notification and publishes it on
// its topics for the delivery workers.
func (h *Handler) CreateNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	topics := req.Topics
	if len(topics) == 0 {
		topics = []string{config.NotificationTopic}
	}

	notification := &models.Notification{
		Title:     req.Title,
		Message:   req.Message,
		Topics:    topics,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := h.Storage.SaveNotification(notification); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save notification"})
		return
	}

	// Persisted first; delivery is best effort.
	for _, topic := range notification.Topics {
		if err := h.Storage.PublishNotification(topic, notification); err != nil {
			c.JSON(http.StatusOK, gin.H{"notification": notification, "warning": "Saved but not delivered"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"notification": notification})
}

// UpdateNotification rewrites the title and message of one notification.
func (h *Handler) UpdateNotification(c *gin.Context) {
	var req notificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Storage.UpdateNotification(c.Param("id"), req.Title, req.Message)
	switch {
	case errors.Is(err, storage.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Notification updated"})
	}
}

// DeleteNotification removes one notification.
func (h *Handler) DeleteNotification(c *gin.Context) {
	err := h.Storage.DeleteNotification(c.Param("id"))
	switch {
	case errors.Is(err, storage.ErrNotificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
	}
}

// ListNotifications returns all notifications, newest first.
func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.Storage.GetNotifications()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
