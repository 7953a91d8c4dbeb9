package services

import (
	"context"
	"time"

	apperrors "chronicle/internal/errors"
	"chronicle/internal/models"
	"chronicle/internal/query"
	"chronicle/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// activityLogService orchestrates entity construction and delegates
// persistence to the repository.
type activityLogService struct {
	repo *repository.ActivityLogRepository
}

// NewActivityLogService creates a new ActivityLogServicer.
func NewActivityLogService(repo *repository.ActivityLogRepository) ActivityLogServicer {
	return &activityLogService{repo: repo}
}

// Create builds the entity from the input and persists it. The returned
// entity carries the store-assigned identifier and creation timestamp.
func (s *activityLogService) Create(ctx context.Context, input CreateActivityLogInput) (*models.ActivityLog, error) {
	if !input.Action.Valid() {
		return nil, apperrors.ErrInvalidAction
	}
	if input.EntityType == "" || input.EntityID == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "entityType and entityId are required")
	}
	if input.CreatedByID == "" || input.CreatedByName == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "createdById and createdByName are required")
	}

	entity := &models.ActivityLog{
		Action:           input.Action,
		EntityType:       input.EntityType,
		EntityID:         input.EntityID,
		FieldKey:         input.FieldKey,
		FieldValueBefore: input.FieldValueBefore,
		FieldValueAfter:  input.FieldValueAfter,
		CreatedByID:      input.CreatedByID,
		CreatedByName:    input.CreatedByName,
		CreatedAt:        time.Now(),
	}

	created, err := s.repo.Create(ctx, entity)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return created, nil
}

// List translates the filter into a specification and returns the page
// with its total and filtered counts.
func (s *activityLogService) List(ctx context.Context, filter ListActivityLogsFilter) (*repository.ListResult[models.ActivityLog], error) {
	spec := buildSpecification(filter)

	result, err := s.repo.List(ctx, spec)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return result, nil
}

// buildSpecification maps the filter onto the query descriptor. Field
// names here are persisted column names; the compiler passes them through
// unvalidated.
func buildSpecification(filter ListActivityLogsFilter) *query.Specification {
	spec := query.NewSpecification()

	if filter.EntityType != "" {
		spec.And(query.Where("entity_type", query.Eq(filter.EntityType)))
	}
	if filter.EntityID != "" {
		spec.And(query.Where("entity_id", query.Eq(filter.EntityID)))
	}
	if filter.CreatedByID != "" {
		spec.And(query.Where("created_by_id", query.Eq(filter.CreatedByID)))
	}
	if filter.Action != nil {
		spec.And(query.Where("action", query.Eq(string(*filter.Action))))
	}

	if filter.From != nil || filter.To != nil {
		compares := make([]query.Compare, 0, 2)
		if filter.From != nil {
			compares = append(compares, query.Gte(*filter.From))
		}
		if filter.To != nil {
			compares = append(compares, query.Lt(*filter.To))
		}
		spec.And(query.Where("created_at", compares...))
	}

	if filter.Search != "" {
		spec.WithSearch(filter.Search, "created_by_name", "entity_type")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		// Newest first by default.
		spec.SortBy("created_at", true)
	} else {
		spec.SortBy(sortBy, filter.SortDesc)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	spec.Paged(page, pageSize)

	return spec
}
