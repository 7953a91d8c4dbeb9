package services

import (
	"context"
	"time"

	"chronicle/internal/models"
	"chronicle/internal/repository"
)

// CreateActivityLogInput carries a fully-populated activity log payload
// from an adapter. Validation happens upstream at the adapter boundary.
type CreateActivityLogInput struct {
	Action           models.ActionType
	EntityType       string
	EntityID         string
	FieldKey         *models.FieldValue
	FieldValueBefore *models.FieldValue
	FieldValueAfter  *models.FieldValue
	CreatedByID      string
	CreatedByName    string
}

// ListActivityLogsFilter holds optional filter parameters for listing
// activity logs.
type ListActivityLogsFilter struct {
	EntityType  string
	EntityID    string
	CreatedByID string
	Action      *models.ActionType
	Search      string
	From        *time.Time
	To          *time.Time
	SortBy      string
	SortDesc    bool
	Page        int
	PageSize    int
}

// ActivityLogServicer defines the contract for activity-log business logic.
type ActivityLogServicer interface {
	Create(ctx context.Context, input CreateActivityLogInput) (*models.ActivityLog, error)
	List(ctx context.Context, filter ListActivityLogsFilter) (*repository.ListResult[models.ActivityLog], error)
}
