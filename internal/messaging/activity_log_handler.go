package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"chronicle/internal/logger"
	"chronicle/internal/models"
	"chronicle/internal/services"
)

// ActivityLogMessageType selects the activity-log handler.
const ActivityLogMessageType = "activity-log"

// ActivityLogMessage is the payload of an activity-log event.
type ActivityLogMessage struct {
	Action           string             `json:"action"`
	EntityType       string             `json:"entityType"`
	EntityID         string             `json:"entityId"`
	FieldKey         *models.FieldValue `json:"fieldKey"`
	FieldValueBefore *models.FieldValue `json:"fieldValueBefore"`
	FieldValueAfter  *models.FieldValue `json:"fieldValueAfter"`
	CreatedByID      string             `json:"createdById"`
	CreatedByName    string             `json:"createdByName"`
}

// ActivityLogHandler persists activity-log events through the use case.
type ActivityLogHandler struct {
	service services.ActivityLogServicer
}

// NewActivityLogHandler creates a new ActivityLogHandler.
func NewActivityLogHandler(service services.ActivityLogServicer) *ActivityLogHandler {
	return &ActivityLogHandler{service: service}
}

// Handle decodes the payload and records the activity log. Any error is
// returned so the message is redelivered.
func (h *ActivityLogHandler) Handle(ctx context.Context, payload json.RawMessage) error {
	var msg ActivityLogMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return fmt.Errorf("decode activity-log payload: %w", err)
	}

	created, err := h.service.Create(ctx, services.CreateActivityLogInput{
		Action:           models.ActionType(msg.Action),
		EntityType:       msg.EntityType,
		EntityID:         msg.EntityID,
		FieldKey:         msg.FieldKey,
		FieldValueBefore: msg.FieldValueBefore,
		FieldValueAfter:  msg.FieldValueAfter,
		CreatedByID:      msg.CreatedByID,
		CreatedByName:    msg.CreatedByName,
	})
	if err != nil {
		return fmt.Errorf("record activity log: %w", err)
	}

	logger.Get().Debugw("recorded activity log from message",
		"id", created.ID,
		"entity_type", created.EntityType,
		"entity_id", created.EntityID,
	)
	return nil
}
