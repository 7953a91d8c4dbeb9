package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "chronicle/internal/errors"
	"chronicle/internal/models"
	"chronicle/internal/services"
)

// ActivityLogHandler handles activity-log requests
type ActivityLogHandler struct {
	service services.ActivityLogServicer
}

// NewActivityLogHandler creates a new ActivityLogHandler
func NewActivityLogHandler(service services.ActivityLogServicer) *ActivityLogHandler {
	return &ActivityLogHandler{service: service}
}

// CreateActivityLogRequest represents the request payload for recording an activity log
type CreateActivityLogRequest struct {
	Action           string             `json:"action" binding:"required,action"`
	EntityType       string             `json:"entityType" binding:"required"`
	EntityID         string             `json:"entityId" binding:"required"`
	FieldKey         *models.FieldValue `json:"fieldKey"`
	FieldValueBefore *models.FieldValue `json:"fieldValueBefore"`
	FieldValueAfter  *models.FieldValue `json:"fieldValueAfter"`
	CreatedByID      string             `json:"createdById" binding:"required"`
	CreatedByName    string             `json:"createdByName" binding:"required"`
}

// ListActivityLogsRequest represents the query parameters for listing activity logs
type ListActivityLogsRequest struct {
	EntityType  string     `form:"entityType"`
	EntityID    string     `form:"entityId"`
	CreatedByID string     `form:"createdById"`
	Action      string     `form:"action" binding:"omitempty,action"`
	Search      string     `form:"search"`
	From        *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To          *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy      string     `form:"sortBy" binding:"omitempty,oneof=created_at entity_type entity_id action created_by_id"`
	SortDir     string     `form:"sortDir" binding:"omitempty,oneof=asc desc"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"pageSize" binding:"omitempty,min=1,max=100"`
}

// ListActivityLogsResponse wraps a page of activity logs with counts
type ListActivityLogsResponse struct {
	Data          []*models.ActivityLog `json:"data"`
	Total         int64                 `json:"total"`
	TotalFiltered int64                 `json:"totalFiltered"`
}

// CreateActivityLog records a change-log entry
// @Summary     Record an activity log
// @Description Persist a structured change-log record (who changed what field of which entity, from what value to what value, and when)
// @Tags        activity-logs
// @Accept      json
// @Produce     json
// @Param       request body CreateActivityLogRequest true "Activity log details"
// @Success     201 {object} models.ActivityLog "Activity log created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activity-logs [post]
func (h *ActivityLogHandler) CreateActivityLog(c *gin.Context) {
	var req CreateActivityLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), services.CreateActivityLogInput{
		Action:           models.ActionType(req.Action),
		EntityType:       req.EntityType,
		EntityID:         req.EntityID,
		FieldKey:         req.FieldKey,
		FieldValueBefore: req.FieldValueBefore,
		FieldValueAfter:  req.FieldValueAfter,
		CreatedByID:      req.CreatedByID,
		CreatedByName:    req.CreatedByName,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// ListActivityLogs lists activity logs with filters
// @Summary     List activity logs
// @Description List activity logs filtered by entity, actor, action, time range, or free-text search
// @Tags        activity-logs
// @Accept      json
// @Produce     json
// @Param       entityType query string false "Filter by audited entity type"
// @Param       entityId query string false "Filter by audited entity instance"
// @Param       createdById query string false "Filter by actor identifier"
// @Param       action query string false "Filter by action (CREATE/UPDATE/DELETE)"
// @Param       search query string false "Case-insensitive search over actor name and entity type"
// @Param       from query string false "Created-at lower bound (RFC 3339, inclusive)"
// @Param       to query string false "Created-at upper bound (RFC 3339, exclusive)"
// @Param       sortBy query string false "Sort field" Enums(created_at, entity_type, entity_id, action, created_by_id)
// @Param       sortDir query string false "Sort direction" Enums(asc, desc)
// @Param       page query int false "Page number (default 1)"
// @Param       pageSize query int false "Page size (default 20, max 100)"
// @Success     200 {object} ListActivityLogsResponse "Page of activity logs"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /activity-logs [get]
func (h *ActivityLogHandler) ListActivityLogs(c *gin.Context) {
	var req ListActivityLogsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}

	filter := services.ListActivityLogsFilter{
		EntityType:  req.EntityType,
		EntityID:    req.EntityID,
		CreatedByID: req.CreatedByID,
		Search:      req.Search,
		From:        req.From,
		To:          req.To,
		SortBy:      req.SortBy,
		SortDesc:    req.SortDir != "asc",
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	if req.Action != "" {
		action := models.ActionType(req.Action)
		filter.Action = &action
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := result.Data
	if data == nil {
		data = []*models.ActivityLog{}
	}
	c.JSON(http.StatusOK, ListActivityLogsResponse{
		Data:          data,
		Total:         result.Total,
		TotalFiltered: result.TotalFiltered,
	})
}
