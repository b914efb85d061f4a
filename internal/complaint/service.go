// Package complaint provides the core logic for complaint intake and
// routing: validation, AI-assisted department classification with a safe
// fallback, persistence, and role-scoped live retrieval.
package complaint

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"railcrm/backend/internal/config"
	"railcrm/backend/internal/feed"
	"railcrm/backend/internal/genai"
	"railcrm/backend/internal/models"
	"railcrm/backend/internal/storage"
	"railcrm/backend/internal/taxonomy"

	"github.com/google/uuid"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrEmptyText        = errors.New("complaint text is empty")
	ErrEmptyFeedback    = errors.New("feedback text is empty")
	ErrBusy             = errors.New("a submission is already in progress")
	ErrPersistence      = errors.New("failed to persist complaint")
	ErrAccessScope      = errors.New("cannot determine access scope")
)

// Service handles the business logic for complaints.
type Service struct {
	Storage    storage.Storage
	Classifier genai.Classifier
	Events     feed.EventSource
}

// NewService creates a new complaint service.
func NewService(s storage.Storage, c genai.Classifier, events feed.EventSource) *Service {
	return &Service{Storage: s, Classifier: c, Events: events}
}

// SubmitResult reports a completed submission. Degraded means
// classification failed and the complaint was filed under OTHER with the
// original, non-rephrased text.
type SubmitResult struct {
	Complaint models.Complaint
	Degraded  bool
}

// Submit runs the pipeline for one complaint: validate, classify, persist.
// Classification failures are absorbed into a degraded result; validation
// and persistence failures are returned to the caller. Exactly one record
// is created per successful run.
func (s *Service) Submit(ctx context.Context, session *Session, userID, text string) (*SubmitResult, error) {
	if err := session.begin(); err != nil {
		return nil, err
	}
	defer session.finish()

	// VALIDATING
	if strings.TrimSpace(userID) == "" {
		return nil, ErrNotAuthenticated
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyText
	}

	// CLASSIFYING: one attempt, no retry. On failure the complaint is
	// still filed, under OTHER with the original text.
	session.set(StateClassifying)
	department := taxonomy.Other
	finalText := trimmed
	degraded := false

	classifyCtx, cancel := context.WithTimeout(ctx, config.ClassifyTimeout)
	result, err := s.Classifier.Classify(classifyCtx, trimmed)
	cancel()
	if err != nil {
		log.Printf("ERROR: Classification failed, filing as OTHER: %v", err)
		degraded = true
	} else {
		department = result.Department
		finalText = result.Rephrased
	}

	// PERSISTING
	session.set(StatePersisting)
	c := models.Complaint{
		ComplaintID:   uuid.New().String(),
		UserID:        userID,
		ComplaintText: finalText,
		Department:    department,
		Timestamp:     time.Now().UnixMilli(),
	}
	if err := s.Storage.SaveComplaint(&c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &SubmitResult{Complaint: c, Degraded: degraded}, nil
}

// AttachFeedback sets the operator feedback on one complaint, overwriting
// any previous value.
func (s *Service) AttachFeedback(complaintID, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ErrEmptyFeedback
	}
	return s.Storage.SetComplaintFeedback(complaintID, trimmed)
}
