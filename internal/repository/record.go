package repository

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"chronicle/internal/models"
)

// ActivityLogRecord is the persisted shape of an activity log.
type ActivityLogRecord struct {
	ID               string             `gorm:"type:uuid;primaryKey"`
	Action           string             `gorm:"not null"`
	EntityType       string             `gorm:"not null;index:idx_activity_logs_entity,priority:1"`
	EntityID         string             `gorm:"not null;index:idx_activity_logs_entity,priority:2"`
	FieldKey         *models.FieldValue `gorm:"type:text"`
	FieldValueBefore *models.FieldValue `gorm:"type:text"`
	FieldValueAfter  *models.FieldValue `gorm:"type:text"`
	CreatedByID      string             `gorm:"not null;index"`
	CreatedByName    string             `gorm:"not null"`
	CreatedAt        time.Time          `gorm:"not null;index:idx_activity_logs_created_at,sort:desc"`
}

// TableName sets the collection name.
func (ActivityLogRecord) TableName() string { return "activity_logs" }

// BeforeCreate assigns a UUIDv7 identifier and defaults the creation
// timestamp. UUIDv7 is time-ordered and suitable as a primary key.
func (r *ActivityLogRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		r.ID = id.String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	return nil
}

// ActivityLogMapper converts between ActivityLog entities and records.
type ActivityLogMapper struct{}

func (ActivityLogMapper) ToEntity(record *ActivityLogRecord) *models.ActivityLog {
	return &models.ActivityLog{
		ID:               record.ID,
		Action:           models.ActionType(record.Action),
		EntityType:       record.EntityType,
		EntityID:         record.EntityID,
		FieldKey:         record.FieldKey,
		FieldValueBefore: record.FieldValueBefore,
		FieldValueAfter:  record.FieldValueAfter,
		CreatedByID:      record.CreatedByID,
		CreatedByName:    record.CreatedByName,
		CreatedAt:        record.CreatedAt,
	}
}

func (ActivityLogMapper) ToRecord(entity *models.ActivityLog) *ActivityLogRecord {
	// ID intentionally omitted: the store assigns it.
	return &ActivityLogRecord{
		Action:           string(entity.Action),
		EntityType:       entity.EntityType,
		EntityID:         entity.EntityID,
		FieldKey:         entity.FieldKey,
		FieldValueBefore: entity.FieldValueBefore,
		FieldValueAfter:  entity.FieldValueAfter,
		CreatedByID:      entity.CreatedByID,
		CreatedByName:    entity.CreatedByName,
		CreatedAt:        entity.CreatedAt,
	}
}

func (ActivityLogMapper) ExtractID(entity *models.ActivityLog) string { return entity.ID }

// ActivityLogRepository is the concrete repository for activity logs.
type ActivityLogRepository = Repository[models.ActivityLog, string, ActivityLogRecord]

// NewActivityLogRepository builds the activity log repository.
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return New[models.ActivityLog, string, ActivityLogRecord](db, ActivityLogMapper{})
}
