package auth

import (
	"context"
	"fmt"
)

// AdminCheckerInterface abstracts admin checks so handlers and the publisher
// can be tested with mocks.
type AdminCheckerInterface interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// AdminChecker answers admin checks against a fixed allow-list of user IDs.
// Admin status is configured, not inherited from channel roles.
type AdminChecker struct {
	adminIDs map[int64]struct{}
}

// NewAdminChecker creates a new AdminChecker from the configured allow-list.
// The list must not be empty.
func NewAdminChecker(adminIDs []int64) (*AdminChecker, error) {
	if len(adminIDs) == 0 {
		return nil, fmt.Errorf("admin ID allow-list cannot be empty")
	}
	ids := make(map[int64]struct{}, len(adminIDs))
	for _, id := range adminIDs {
		ids[id] = struct{}{}
	}
	return &AdminChecker{adminIDs: ids}, nil
}

// IsAdmin reports whether userID is on the allow-list. The error return exists
// to satisfy AdminCheckerInterface; a static list cannot fail.
func (ac *AdminChecker) IsAdmin(_ context.Context, userID int64) (bool, error) {
	_, ok := ac.adminIDs[userID]
	return ok, nil
}
