package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"chronicle/internal/models"
	"chronicle/internal/repository"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestActivityLog inserts an activity log record with unique entity
// coordinates and returns the mapped entity.
func CreateTestActivityLog(t *testing.T, db *gorm.DB) *models.ActivityLog {
	t.Helper()
	n := nextID()
	return CreateTestActivityLogWith(t, db, &models.ActivityLog{
		Action:        models.ActionUpdate,
		EntityType:    "user",
		EntityID:      fmt.Sprintf("%d", n),
		CreatedByID:   fmt.Sprintf("actor-%d", n),
		CreatedByName: fmt.Sprintf("Actor %d", n),
	})
}

// CreateTestActivityLogWith inserts the given entity, filling defaults for
// unset required fields, and returns it rebuilt from the stored record.
func CreateTestActivityLogWith(t *testing.T, db *gorm.DB, entity *models.ActivityLog) *models.ActivityLog {
	t.Helper()

	if entity.Action == "" {
		entity.Action = models.ActionUpdate
	}
	if entity.EntityType == "" {
		entity.EntityType = "user"
	}
	if entity.EntityID == "" {
		entity.EntityID = fmt.Sprintf("%d", nextID())
	}
	if entity.CreatedByID == "" {
		entity.CreatedByID = fmt.Sprintf("actor-%d", nextID())
	}
	if entity.CreatedByName == "" {
		entity.CreatedByName = fmt.Sprintf("Actor %d", nextID())
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
	}

	record := repository.ActivityLogMapper{}.ToRecord(entity)
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("failed to create test activity log: %v", err)
	}
	return repository.ActivityLogMapper{}.ToEntity(record)
}
