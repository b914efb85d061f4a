package complaint

import (
	"context"
	"fmt"
	"strings"

	"railcrm/backend/internal/feed"
	"railcrm/backend/internal/models"
	"railcrm/backend/internal/taxonomy"
)

// OpenFeed opens the live complaint feed scoped to the caller's role:
// SUPER_ADMIN sees every complaint, everyone else only their department's
// queue. The profile is read fresh on every call so role or department
// changes take effect on the next screen load. If the caller is unknown or
// the profile cannot be read, no feed is opened (default deny).
func (s *Service) OpenFeed(ctx context.Context, callerID string) (*feed.Subscription, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, ErrAccessScope
	}

	profile, err := s.Storage.GetUserByID(callerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccessScope, err)
	}

	if taxonomy.NormalizeRole(profile.Role) == taxonomy.RoleSuperAdmin {
		return feed.Open(ctx, s.Events, s.Storage.GetAllComplaints)
	}

	department := taxonomy.NormalizeDepartment(profile.Department)
	return feed.Open(ctx, s.Events, func() ([]models.Complaint, error) {
		return s.Storage.GetComplaintsByDepartment(department)
	})
}

// OpenOwnFeed opens the live feed of the caller's own complaints, used on
// the customer screen.
func (s *Service) OpenOwnFeed(ctx context.Context, callerID string) (*feed.Subscription, error) {
	if strings.TrimSpace(callerID) == "" {
		return nil, ErrAccessScope
	}
	return feed.Open(ctx, s.Events, func() ([]models.Complaint, error) {
		return s.Storage.GetComplaintsByUser(callerID)
	})
}
