package handler

import (
	"net/http"
	"strings"

	"railcrm/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type createCustomerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone"`
}

// CreateCustomer registers a customer account on behalf of an admin.
func (h *Handler) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         "user",
	}
	if err := h.Storage.SaveUser(user); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Failed to create customer"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customer": user})
}

// ListCustomers returns every customer account.
func (h *Handler) ListCustomers(c *gin.Context) {
	customers, err := h.Storage.GetCustomers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load customers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"customers": customers})
}

// GetProfile returns the caller's own profile.
func (h *Handler) GetProfile(c *gin.Context) {
	user, err := h.Storage.GetUserByID(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}
