package handler

import (
	"errors"
	"net/http"

	"railcrm/backend/internal/complaint"
	"railcrm/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type submitComplaintRequest struct {
	Text string `json:"text"`
}

// SubmitComplaint runs the submission pipeline for the authenticated caller.
// A degraded outcome (classification failed, filed as OTHER) still returns
// success, with a message the client can surface.
func (h *Handler) SubmitComplaint(c *gin.Context) {
	var req submitComplaintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetString("user_id")
	result, err := h.Complaints.Submit(c.Request.Context(), h.session(userID), userID, req.Text)
	switch {
	case errors.Is(err, complaint.ErrBusy):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "A submission is already in progress"})
		return
	case errors.Is(err, complaint.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please log in"})
		return
	case errors.Is(err, complaint.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Enter a complaint"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save complaint"})
		return
	}

	resp := gin.H{"complaint": result.Complaint, "degraded": result.Degraded}
	if result.Degraded {
		resp["message"] = "AI failed, saved as OTHER"
	} else {
		resp["message"] = "Submitted to " + string(result.Complaint.Department)
	}
	c.JSON(http.StatusOK, resp)
}

// ListOwnComplaints is the one-shot read of the caller's complaint history,
// newest first. The live version of the same view is the WebSocket feed.
func (h *Handler) ListOwnComplaints(c *gin.Context) {
	complaints, err := h.Storage.GetComplaintsByUser(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load complaints"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"complaints": complaints})
}

type feedbackRequest struct {
	Feedback string `json:"feedback"`
}

// SubmitFeedback attaches operator feedback to one complaint.
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.Complaints.AttachFeedback(c.Param("id"), req.Feedback)
	switch {
	case errors.Is(err, complaint.ErrEmptyFeedback):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter feedback"})
	case errors.Is(err, storage.ErrComplaintNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Complaint not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error submitting feedback"})
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Feedback submitted successfully"})
	}
}
